package table

// ColumnType classifies the values of a column. It is a closed set;
// consumers switch over it exhaustively rather than comparing free-form
// strings.
type ColumnType string

const (
	TypeNumber  ColumnType = "number"
	TypeString  ColumnType = "string"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
	TypeMixed   ColumnType = "mixed"
	TypeUnknown ColumnType = "unknown"
)

// Valid reports whether t is one of the recognized column types.
func (t ColumnType) Valid() bool {
	switch t {
	case TypeNumber, TypeString, TypeDate, TypeBoolean, TypeMixed, TypeUnknown:
		return true
	}
	return false
}

// Row maps a column name to a scalar cell value (number, text, boolean
// or nil). Rows carry no identity of their own; position within the
// dataset is the identity proxy.
type Row map[string]any

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ColumnProfile is derived per-column metadata. Profiles are always
// recomputed from the rows they describe, never hand-edited.
type ColumnProfile struct {
	Name              string     `json:"name"`
	Type              ColumnType `json:"type"`
	MissingCount      int        `json:"missing_count"`
	MissingPercentage float64    `json:"missing_percentage"`
	UniqueCount       int        `json:"unique_count"`
	Example           any        `json:"example"`
}

// Dataset is an immutable snapshot of a rectangular dataset. Mutating
// operations return a new Dataset; the previous value stays valid, which
// is what makes undo a matter of holding a reference.
type Dataset struct {
	FileName       string          `json:"file_name"`
	FileSize       int64           `json:"file_size"`
	TotalRows      int             `json:"total_rows"`
	Headers        []string        `json:"headers"`
	Rows           []Row           `json:"rows"`
	ColumnProfiles []ColumnProfile `json:"column_profiles"`
}

// HasColumn reports whether name is one of the dataset's headers.
func (d Dataset) HasColumn(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Profile returns the profile for the named column, if present.
func (d Dataset) Profile(name string) (ColumnProfile, bool) {
	for _, p := range d.ColumnProfiles {
		if p.Name == name {
			return p, true
		}
	}
	return ColumnProfile{}, false
}

// Column returns the column's values in row order, including missing
// cells as nil.
func (d Dataset) Column(name string) []any {
	values := make([]any, 0, len(d.Rows))
	for _, row := range d.Rows {
		values = append(values, row[name])
	}
	return values
}

// CloneRows returns a deep copy of the dataset's rows.
func (d Dataset) CloneRows() []Row {
	rows := make([]Row, len(d.Rows))
	for i, row := range d.Rows {
		rows[i] = row.Clone()
	}
	return rows
}

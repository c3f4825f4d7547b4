package profile

import (
	"reflect"
	"testing"

	"datakiln/domain/table"
)

func sampleRows() []table.Row {
	return []table.Row{
		{"age": 34.0, "name": "ada", "score": 1.0},
		{"age": nil, "name": "grace", "score": "1"},
		{"age": 28.0, "name": "", "score": 2.0},
	}
}

func TestBuild_ProfilesAlignWithHeaders(t *testing.T) {
	ds := Build("people.csv", 120, []string{"age", "name", "score"}, sampleRows())

	if ds.TotalRows != 3 {
		t.Fatalf("expected 3 rows, got %d", ds.TotalRows)
	}
	if len(ds.ColumnProfiles) != len(ds.Headers) {
		t.Fatalf("expected one profile per header, got %d profiles for %d headers", len(ds.ColumnProfiles), len(ds.Headers))
	}
	for i, p := range ds.ColumnProfiles {
		if p.Name != ds.Headers[i] {
			t.Errorf("profile %d is %q, header is %q", i, p.Name, ds.Headers[i])
		}
	}
}

func TestBuild_MissingCounts(t *testing.T) {
	ds := Build("people.csv", 0, []string{"age", "name", "score"}, sampleRows())

	for _, p := range ds.ColumnProfiles {
		nonMissing := 0
		for _, row := range ds.Rows {
			if !table.IsMissing(row[p.Name]) {
				nonMissing++
			}
		}
		if p.MissingCount+nonMissing != ds.TotalRows {
			t.Errorf("column %q: missing (%d) + non-missing (%d) != total (%d)", p.Name, p.MissingCount, nonMissing, ds.TotalRows)
		}
	}

	age, _ := ds.Profile("age")
	if age.MissingCount != 1 {
		t.Errorf("expected 1 missing age, got %d", age.MissingCount)
	}
	if age.MissingPercentage < 33.3 || age.MissingPercentage > 33.4 {
		t.Errorf("expected ~33.3%% missing, got %v", age.MissingPercentage)
	}
}

func TestBuild_UniqueCountCollapsesCanonicalText(t *testing.T) {
	// The number 1 and the string "1" share a canonical key.
	ds := Build("people.csv", 0, []string{"age", "name", "score"}, sampleRows())
	score, _ := ds.Profile("score")
	if score.UniqueCount != 2 {
		t.Errorf("expected 2 unique scores (1 and 2), got %d", score.UniqueCount)
	}
}

func TestBuild_ExampleIsFirstNonMissing(t *testing.T) {
	ds := Build("people.csv", 0, []string{"age", "name", "score"}, sampleRows())
	name, _ := ds.Profile("name")
	if name.Example != "ada" {
		t.Errorf("expected example \"ada\", got %v", name.Example)
	}

	empty := Build("empty.csv", 0, []string{"x"}, []table.Row{{"x": nil}, {"x": ""}})
	x, _ := empty.Profile("x")
	if x.Example != nil {
		t.Errorf("expected nil example for all-missing column, got %v", x.Example)
	}
	if x.Type != table.TypeUnknown {
		t.Errorf("expected unknown type for all-missing column, got %s", x.Type)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	first := Build("people.csv", 0, []string{"age", "name", "score"}, sampleRows())
	second := Rebuild(first, first.Headers, first.Rows)

	if !reflect.DeepEqual(first.ColumnProfiles, second.ColumnProfiles) {
		t.Errorf("rebuilding from own rows changed profiles:\nfirst:  %+v\nsecond: %+v", first.ColumnProfiles, second.ColumnProfiles)
	}
}

func TestBuild_EmptyDataset(t *testing.T) {
	ds := Build("empty.csv", 0, nil, nil)
	if len(ds.Headers) != 0 || ds.TotalRows != 0 || len(ds.ColumnProfiles) != 0 {
		t.Errorf("expected fully empty dataset, got %+v", ds)
	}
}

func TestBuild_DerivesHeadersFromFirstRow(t *testing.T) {
	ds := Build("derived.csv", 0, nil, []table.Row{{"b": 1.0, "a": 2.0}})
	if !reflect.DeepEqual(ds.Headers, []string{"a", "b"}) {
		t.Errorf("expected sorted derived headers [a b], got %v", ds.Headers)
	}
}

func TestBuild_ZeroRowProfileIsAllZero(t *testing.T) {
	ds := Build("empty.csv", 0, []string{"x"}, []table.Row{})
	x, ok := ds.Profile("x")
	if !ok {
		t.Fatal("expected a profile for header x")
	}
	if x.MissingCount != 0 || x.MissingPercentage != 0 || x.UniqueCount != 0 || x.Example != nil {
		t.Errorf("expected all-zero profile for zero-row column, got %+v", x)
	}
}

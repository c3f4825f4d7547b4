package stats

// ColumnStats is a descriptive snapshot of one numeric column. It is
// recomputed on demand and never cached across dataset versions.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Mode   float64 `json:"mode"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// CorrelationResult holds the Pearson coefficient for one unordered pair
// of distinct numeric columns.
type CorrelationResult struct {
	Column1 string  `json:"column1"`
	Column2 string  `json:"column2"`
	Value   float64 `json:"value"`
}

// TestKind selects a hypothesis test.
type TestKind string

const (
	TestTTest     TestKind = "t_test"
	TestZTest     TestKind = "z_test"
	TestChiSquare TestKind = "chi_square"
	TestANOVA     TestKind = "anova"
)

// Valid reports whether k is a recognized test kind.
func (k TestKind) Valid() bool {
	switch k {
	case TestTTest, TestZTest, TestChiSquare, TestANOVA:
		return true
	}
	return false
}

// TestParams selects a test and the columns it runs over. For t/z tests
// Column1 and Column2 are two numeric samples; for chi-square they are
// two categorical columns; for ANOVA Column1 is the numeric target and
// Column2 the grouping column.
type TestParams struct {
	Kind    TestKind `json:"kind"`
	Column1 string   `json:"column1"`
	Column2 string   `json:"column2,omitempty"`
}

// TestResult is the value returned by the hypothesis engine. The
// critical values are coarse fixed approximations and PValue is a
// two-point placeholder, not a computed tail probability.
type TestResult struct {
	TestName         string   `json:"test_name"`
	Statistic        float64  `json:"statistic"`
	StatisticName    string   `json:"statistic_name"`
	DegreesOfFreedom float64  `json:"degrees_of_freedom"`
	CriticalValue    float64  `json:"critical_value"`
	IsSignificant    bool     `json:"is_significant"`
	Details          string   `json:"details"`
	Insights         []string `json:"insights"`
	PValue           float64  `json:"p_value"`
}

// HistogramBin is one bucket of an equal-width histogram.
type HistogramBin struct {
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// CategoryCount is one entry of a top-N category frequency table.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ScatterPoint is one sampled (x, y) observation.
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GroupMean is the mean of a numeric column within one group.
type GroupMean struct {
	Group string  `json:"group"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

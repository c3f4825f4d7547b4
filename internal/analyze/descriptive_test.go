package analyze

import (
	"math"
	"testing"

	"datakiln/domain/table"
	"datakiln/internal/profile"
)

func build(headers []string, rows []table.Row) table.Dataset {
	return profile.Build("test.csv", 0, headers, rows)
}

func TestDescribeColumn(t *testing.T) {
	ds := build([]string{"v"}, []table.Row{
		{"v": 4.0}, {"v": 2.0}, {"v": 7.0}, {"v": 2.0}, {"v": 5.0},
	})
	s := DescribeColumn(ds, "v")

	if s.Count != 5 {
		t.Fatalf("expected count 5, got %d", s.Count)
	}
	if s.Mean != 4.0 {
		t.Errorf("expected mean 4, got %v", s.Mean)
	}
	if s.Median != 4.0 {
		t.Errorf("expected median 4, got %v", s.Median)
	}
	if s.Mode != 2.0 {
		t.Errorf("expected mode 2, got %v", s.Mode)
	}
	if s.Min != 2.0 || s.Max != 7.0 {
		t.Errorf("expected min 2, max 7, got %v and %v", s.Min, s.Max)
	}
	// Population stddev: sqrt(((0)^2+(2)^2+(3)^2+(2)^2+(1)^2)/5) = sqrt(18/5).
	if math.Abs(s.StdDev-math.Sqrt(18.0/5.0)) > 1e-12 {
		t.Errorf("expected population stddev %v, got %v", math.Sqrt(18.0/5.0), s.StdDev)
	}
	// Index-based quartiles on sorted [2 2 4 5 7]: q1 = idx 1, q3 = idx 3.
	if s.Q1 != 2.0 || s.Q3 != 5.0 {
		t.Errorf("expected q1=2, q3=5, got %v and %v", s.Q1, s.Q3)
	}
}

func TestDescribeColumn_EmptySeriesIsAllZero(t *testing.T) {
	ds := build([]string{"v"}, []table.Row{{"v": "text"}, {"v": nil}})
	s := DescribeColumn(ds, "v")
	if s.Count != 0 || s.Mean != 0 || s.Median != 0 || s.StdDev != 0 || s.Min != 0 || s.Max != 0 {
		t.Errorf("expected all-zero stats for empty numeric series, got %+v", s)
	}
}

func TestDescribe_CoversNumericColumnsOnly(t *testing.T) {
	ds := build([]string{"n", "s"}, []table.Row{
		{"n": 1.0, "s": "a"},
		{"n": 2.0, "s": "b"},
	})
	results := Describe(ds)
	if len(results) != 1 || results[0].Column != "n" {
		t.Errorf("expected stats for the numeric column only, got %+v", results)
	}
}

func TestDescribe_IgnoresMissingAndNonNumericCells(t *testing.T) {
	ds := build([]string{"v"}, []table.Row{
		{"v": 1.0}, {"v": nil}, {"v": 3.0}, {"v": ""}, {"v": 5.0},
	})
	s := DescribeColumn(ds, "v")
	if s.Count != 3 || s.Mean != 3.0 {
		t.Errorf("expected count 3 and mean 3, got %+v", s)
	}
}

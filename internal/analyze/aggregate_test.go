package analyze

import (
	"testing"

	"datakiln/domain/table"
)

func TestHistogram_EqualWidthBins(t *testing.T) {
	ds := build([]string{"v"}, []table.Row{
		{"v": 0.0}, {"v": 2.5}, {"v": 5.0}, {"v": 7.5}, {"v": 10.0},
	})
	bins := Histogram(ds, "v", 4)

	if len(bins) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(bins))
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 5 {
		t.Errorf("expected all 5 values binned, got %d", total)
	}
	// The value exactly at max is clamped into the last bucket.
	if bins[3].Count != 2 {
		t.Errorf("expected last bucket to hold 7.5 and the clamped 10.0, got %d", bins[3].Count)
	}
}

func TestHistogram_ZeroRangeCollapsesToOneBucket(t *testing.T) {
	ds := build([]string{"v"}, []table.Row{{"v": 3.0}, {"v": 3.0}, {"v": 3.0}})
	bins := Histogram(ds, "v", 10)
	if len(bins) != 1 {
		t.Fatalf("expected a single bucket for a constant column, got %d", len(bins))
	}
	if bins[0].Label != "3" || bins[0].Count != 3 {
		t.Errorf("expected bucket labeled by the constant value with count 3, got %+v", bins[0])
	}
}

func TestHistogram_EmptyColumn(t *testing.T) {
	ds := build([]string{"v"}, []table.Row{{"v": "text"}})
	if bins := Histogram(ds, "v", 5); len(bins) != 0 {
		t.Errorf("expected no bins for a column without numbers, got %+v", bins)
	}
}

func TestCategoryCounts(t *testing.T) {
	ds := build([]string{"c"}, []table.Row{
		{"c": "b"}, {"c": "a"}, {"c": "a"}, {"c": nil}, {"c": "c"}, {"c": "a"}, {"c": "b"}, {"c": ""},
	})
	counts := CategoryCounts(ds, "c", 2)

	if len(counts) != 2 {
		t.Fatalf("expected truncation to 2 entries, got %d", len(counts))
	}
	if counts[0].Value != "a" || counts[0].Count != 3 {
		t.Errorf("expected a:3 first, got %+v", counts[0])
	}
	if counts[1].Value != "b" || counts[1].Count != 2 {
		t.Errorf("expected b:2 second, got %+v", counts[1])
	}
}

func TestScatterSample_StrideAndNumericFilter(t *testing.T) {
	rows := make([]table.Row, 100)
	for i := range rows {
		rows[i] = table.Row{"x": float64(i), "y": float64(i * i)}
	}
	rows[0]["y"] = "broken"
	ds := build([]string{"x", "y"}, rows)

	points := ScatterSample(ds, "x", "y", 10)
	// step = 100/10 = 10; row 0 is filtered for its non-numeric cell.
	if len(points) != 9 {
		t.Fatalf("expected 9 points, got %d", len(points))
	}
	if points[0].X != 10 || points[0].Y != 100 {
		t.Errorf("expected first point (10,100), got %+v", points[0])
	}
}

func TestScatterSample_SmallDatasetKeepsEveryRow(t *testing.T) {
	ds := build([]string{"x", "y"}, []table.Row{
		{"x": 1.0, "y": 2.0}, {"x": 3.0, "y": 4.0},
	})
	if points := ScatterSample(ds, "x", "y", 500); len(points) != 2 {
		t.Errorf("expected both rows sampled, got %d", len(points))
	}
}

func TestGroupMeans(t *testing.T) {
	ds := build([]string{"amount", "region"}, []table.Row{
		{"amount": 10.0, "region": "east"},
		{"amount": 30.0, "region": "east"},
		{"amount": 5.0, "region": "west"},
		{"amount": 100.0, "region": nil},
	})
	groups := GroupMeans(ds, "amount", "region", 15)

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %+v", groups)
	}
	// Sorted descending by mean: Unknown (100), east (20), west (5).
	if groups[0].Group != UnknownGroup || groups[0].Mean != 100.0 {
		t.Errorf("expected Unknown group first with mean 100, got %+v", groups[0])
	}
	if groups[1].Group != "east" || groups[1].Mean != 20.0 || groups[1].Count != 2 {
		t.Errorf("expected east mean 20 over 2 rows, got %+v", groups[1])
	}
	if groups[2].Group != "west" || groups[2].Mean != 5.0 {
		t.Errorf("expected west mean 5, got %+v", groups[2])
	}
}

func TestGroupMeans_TruncatesToLimit(t *testing.T) {
	rows := []table.Row{}
	for i := 0; i < 30; i++ {
		rows = append(rows, table.Row{"v": float64(i), "g": string(rune('a' + i))})
	}
	ds := build([]string{"v", "g"}, rows)
	if groups := GroupMeans(ds, "v", "g", 15); len(groups) != 15 {
		t.Errorf("expected truncation to 15 groups, got %d", len(groups))
	}
}

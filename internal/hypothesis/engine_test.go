package hypothesis

import (
	"math"
	"testing"

	domainstats "datakiln/domain/stats"
	"datakiln/domain/table"
	"datakiln/internal/errors"
	"datakiln/internal/profile"
)

func buildDataset(headers []string, rows []table.Row) table.Dataset {
	return profile.Build("test.csv", 0, headers, rows)
}

func TestRun_TTestKnownValues(t *testing.T) {
	// mean1=3, var1=2.5; mean2=6, var2=10; se=sqrt(0.5+2); t=-3/sqrt(2.5)
	rows := []table.Row{}
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 4, 6, 8, 10}
	for i := range a {
		rows = append(rows, table.Row{"a": a[i], "b": b[i]})
	}
	ds := buildDataset([]string{"a", "b"}, rows)

	engine := NewEngine()
	result, err := engine.Run(ds, domainstats.TestParams{Kind: domainstats.TestTTest, Column1: "a", Column2: "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := -3.0 / math.Sqrt(2.5)
	if math.Abs(result.Statistic-want) > 1e-9 {
		t.Errorf("expected t=%.6f, got %.6f", want, result.Statistic)
	}
	if result.DegreesOfFreedom != 8 {
		t.Errorf("expected df=8, got %v", result.DegreesOfFreedom)
	}
	if result.CriticalValue != 2.04 {
		t.Errorf("expected small-sample critical value 2.04, got %v", result.CriticalValue)
	}
	if result.IsSignificant {
		t.Error("|t|=1.897 should not clear 2.04")
	}
	if result.PValue != 0.2 {
		t.Errorf("expected the non-significant p placeholder 0.2, got %v", result.PValue)
	}
}

func TestRun_ZTestLargeSampleCriticalValue(t *testing.T) {
	rows := []table.Row{}
	for i := 0; i < 40; i++ {
		rows = append(rows, table.Row{
			"low":  float64(i % 3),
			"high": 100.0 + float64(i%3),
		})
	}
	ds := buildDataset([]string{"low", "high"}, rows)

	result, err := NewEngine().Run(ds, domainstats.TestParams{Kind: domainstats.TestZTest, Column1: "low", Column2: "high"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CriticalValue != 1.96 {
		t.Errorf("df=78 should use the large-sample critical value 1.96, got %v", result.CriticalValue)
	}
	if !result.IsSignificant {
		t.Error("a 100-unit mean gap should be significant")
	}
	if result.PValue != 0.01 {
		t.Errorf("expected the significant p placeholder 0.01, got %v", result.PValue)
	}
}

func TestRun_ChiSquarePerfectAssociation(t *testing.T) {
	// 2x2 table [[10,0],[0,10]]: every expected cell is 5, statistic 20.
	rows := []table.Row{}
	for i := 0; i < 10; i++ {
		rows = append(rows, table.Row{"group": "x", "label": "yes"})
		rows = append(rows, table.Row{"group": "y", "label": "no"})
	}
	ds := buildDataset([]string{"group", "label"}, rows)

	result, err := NewEngine().Run(ds, domainstats.TestParams{Kind: domainstats.TestChiSquare, Column1: "group", Column2: "label"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.Statistic-20.0) > 1e-9 {
		t.Errorf("expected chi-square statistic 20, got %v", result.Statistic)
	}
	if result.DegreesOfFreedom != 1 {
		t.Errorf("expected df=1 for a 2x2 table, got %v", result.DegreesOfFreedom)
	}
	wantCritical := 1 + 1.65*math.Sqrt(2)
	if math.Abs(result.CriticalValue-wantCritical) > 1e-9 {
		t.Errorf("expected critical value %.4f, got %v", wantCritical, result.CriticalValue)
	}
	if !result.IsSignificant {
		t.Error("a perfectly associated table must be significant")
	}
}

func TestRun_ChiSquareIndependentColumns(t *testing.T) {
	// Balanced cross of the two columns: observed equals expected everywhere.
	rows := []table.Row{}
	for i := 0; i < 5; i++ {
		for _, g := range []string{"x", "y"} {
			for _, l := range []string{"yes", "no"} {
				rows = append(rows, table.Row{"group": g, "label": l})
			}
		}
	}
	ds := buildDataset([]string{"group", "label"}, rows)

	result, err := NewEngine().Run(ds, domainstats.TestParams{Kind: domainstats.TestChiSquare, Column1: "group", Column2: "label"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Statistic != 0 {
		t.Errorf("expected statistic 0 for independent columns, got %v", result.Statistic)
	}
	if result.IsSignificant {
		t.Error("independent columns must not be significant")
	}
}

func TestRun_ANOVAGroupEffect(t *testing.T) {
	rows := []table.Row{}
	for _, v := range []float64{1, 2, 3} {
		rows = append(rows, table.Row{"score": v, "team": "a"})
	}
	for _, v := range []float64{101, 102, 103} {
		rows = append(rows, table.Row{"score": v, "team": "b"})
	}
	ds := buildDataset([]string{"score", "team"}, rows)

	result, err := NewEngine().Run(ds, domainstats.TestParams{Kind: domainstats.TestANOVA, Column1: "score", Column2: "team"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsSignificant {
		t.Errorf("a 100-point group gap should be significant, got F=%v", result.Statistic)
	}
	if result.DegreesOfFreedom != 1 {
		t.Errorf("expected between-group df=1, got %v", result.DegreesOfFreedom)
	}
	if result.CriticalValue != 3.00 {
		t.Errorf("expected critical value 3.00, got %v", result.CriticalValue)
	}
}

func TestRun_ANOVAZeroVarianceGroups(t *testing.T) {
	// Identical constant groups: zero within and between variance must
	// resolve to a zero statistic, not a division by zero.
	rows := []table.Row{}
	for _, team := range []string{"a", "b", "c"} {
		for i := 0; i < 4; i++ {
			rows = append(rows, table.Row{"score": 5.0, "team": team})
		}
	}
	ds := buildDataset([]string{"score", "team"}, rows)

	result, err := NewEngine().Run(ds, domainstats.TestParams{Kind: domainstats.TestANOVA, Column1: "score", Column2: "team"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Statistic != 0 {
		t.Errorf("expected statistic 0 for zero-variance groups, got %v", result.Statistic)
	}
	if result.IsSignificant {
		t.Error("identical groups must not be significant")
	}
}

func TestRun_InsightsMatchSignificance(t *testing.T) {
	rows := []table.Row{}
	for i := 0; i < 5; i++ {
		rows = append(rows, table.Row{"a": float64(i), "b": float64(i) + 0.1})
	}
	ds := buildDataset([]string{"a", "b"}, rows)

	result, err := NewEngine().Run(ds, domainstats.TestParams{Kind: domainstats.TestTTest, Column1: "a", Column2: "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Insights) != 2 {
		t.Fatalf("expected two insight lines, got %d", len(result.Insights))
	}
	if result.IsSignificant {
		t.Fatal("near-identical samples should not be significant")
	}
	if result.Insights[0] == "" || result.Insights[1] == "" {
		t.Error("insights must not be empty")
	}
}

func TestRun_Errors(t *testing.T) {
	ds := buildDataset([]string{"num", "cat"}, []table.Row{
		{"num": 1.0, "cat": "a"},
		{"num": 2.0, "cat": "b"},
	})
	engine := NewEngine()

	cases := []struct {
		name     string
		params   domainstats.TestParams
		wantCode string
	}{
		{"unknown kind", domainstats.TestParams{Kind: "wilcoxon", Column1: "num", Column2: "cat"}, errors.CodeInvalidInput},
		{"missing first column", domainstats.TestParams{Kind: domainstats.TestTTest, Column1: "ghost", Column2: "num"}, errors.CodeColumnNotFound},
		{"empty second column", domainstats.TestParams{Kind: domainstats.TestTTest, Column1: "num"}, errors.CodeInvalidInput},
		{"missing second column", domainstats.TestParams{Kind: domainstats.TestANOVA, Column1: "num", Column2: "ghost"}, errors.CodeColumnNotFound},
		{"non-numeric sample", domainstats.TestParams{Kind: domainstats.TestTTest, Column1: "cat", Column2: "num"}, errors.CodeInsufficientData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Run(ds, tc.params)
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := errors.GetCode(err); code != tc.wantCode {
				t.Errorf("expected code %s, got %s (%v)", tc.wantCode, code, err)
			}
		})
	}
}

func TestRun_ANOVASingleGroupInsufficient(t *testing.T) {
	ds := buildDataset([]string{"score", "team"}, []table.Row{
		{"score": 1.0, "team": "a"},
		{"score": 2.0, "team": "a"},
	})
	_, err := NewEngine().Run(ds, domainstats.TestParams{Kind: domainstats.TestANOVA, Column1: "score", Column2: "team"})
	if err == nil {
		t.Fatal("expected an error for a single group")
	}
	if code := errors.GetCode(err); code != errors.CodeInsufficientData {
		t.Errorf("expected INSUFFICIENT_DATA, got %s", code)
	}
}

package app

import (
	"context"
	"testing"

	domainstats "datakiln/domain/stats"
	"datakiln/internal/testkit"
)

func TestOverview_SyntheticOrders(t *testing.T) {
	ds := testkit.Generate(testkit.DefaultConfig())
	service := NewAnalysisService()

	overview, err := service.Overview(context.Background(), ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(overview.Stats) == 0 {
		t.Fatal("expected descriptive stats for the numeric columns")
	}
	statNames := map[string]bool{}
	for _, s := range overview.Stats {
		statNames[s.Column] = true
	}
	for _, want := range []string{"order_id", "units", "revenue"} {
		if !statNames[want] {
			t.Errorf("expected stats for %q, got %v", want, statNames)
		}
	}

	// revenue ≈ 20·units + lift + noise, so the generator's strongest
	// correlation involves those two columns.
	var unitsRevenue float64
	for _, c := range overview.Correlations {
		if (c.Column1 == "units" && c.Column2 == "revenue") || (c.Column1 == "revenue" && c.Column2 == "units") {
			unitsRevenue = c.Value
		}
	}
	if unitsRevenue < 0.75 {
		t.Errorf("expected a strong units/revenue correlation, got %.4f", unitsRevenue)
	}

	if _, ok := overview.Categories["region"]; !ok {
		t.Error("expected category counts for the region column")
	}
	if _, ok := overview.Categories["units"]; ok {
		t.Error("numeric columns should not appear in the category tables")
	}
}

func TestRunTest_RegionLiftDetectedByANOVA(t *testing.T) {
	ds := testkit.Generate(testkit.DefaultConfig())
	service := NewAnalysisService()

	result, err := service.RunTest(context.Background(), ds, domainstats.TestParams{
		Kind:    domainstats.TestANOVA,
		Column1: "revenue",
		Column2: "region",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsSignificant {
		t.Errorf("the generator bakes in a region lift; expected a significant F, got %.4f", result.Statistic)
	}
}

// Package testkit generates synthetic tabular datasets with known
// structure for tests: correlated numeric columns, categorical groups
// with distinct means, dates, booleans, and injected missingness.
package testkit

import (
	"fmt"
	"math/rand"
	"time"

	"datakiln/domain/table"
	"datakiln/internal/profile"
)

// Config controls the synthetic dataset generator.
type Config struct {
	Rows        int
	Seed        int64
	MissingRate float64 // share of notes/revenue cells blanked out
}

// DefaultConfig returns a generator config with deterministic seed.
func DefaultConfig() Config {
	return Config{
		Rows:        200,
		Seed:        42,
		MissingRate: 0.1,
	}
}

var regions = []string{"north", "south", "east", "west"}
var channels = []string{"web", "store", "phone"}

// regionLift makes group means separable so ANOVA and grouped-mean
// assertions have a real signal to find.
var regionLift = map[string]float64{"north": 200, "south": 20, "east": 120, "west": 0}

// Generate builds a synthetic orders dataset. "units" and "revenue" are
// linearly related (revenue ≈ 20·units + region lift + noise), so their
// correlation is strongly positive.
func Generate(cfg Config) table.Dataset {
	rng := rand.New(rand.NewSource(cfg.Seed))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := make([]table.Row, 0, cfg.Rows)
	for i := 0; i < cfg.Rows; i++ {
		region := regions[rng.Intn(len(regions))]
		units := float64(1 + rng.Intn(20))
		revenue := 20*units + regionLift[region] + rng.NormFloat64()*5

		row := table.Row{
			"order_id":   float64(i + 1),
			"region":     region,
			"channel":    channels[rng.Intn(len(channels))],
			"units":      units,
			"revenue":    revenue,
			"order_date": start.AddDate(0, 0, i%365).Format("2006-01-02"),
			"active":     rng.Intn(2) == 0,
			"notes":      fmt.Sprintf("order %d", i+1),
		}
		if rng.Float64() < cfg.MissingRate {
			row["notes"] = ""
		}
		if rng.Float64() < cfg.MissingRate {
			row["revenue"] = nil
		}
		rows = append(rows, row)
	}

	headers := []string{"order_id", "region", "channel", "units", "revenue", "order_date", "active", "notes"}
	return profile.Build("synthetic_orders.csv", 0, headers, rows)
}

// Build is a shorthand for assembling a small dataset inline in tests.
func Build(headers []string, rows []table.Row) table.Dataset {
	return profile.Build("test.csv", 0, headers, rows)
}

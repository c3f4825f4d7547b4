package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	domainstats "datakiln/domain/stats"
	"datakiln/domain/table"
	"datakiln/internal/analyze"
	"datakiln/internal/hypothesis"
)

// Overview bundles the read-only analytics of one dataset.
type Overview struct {
	Stats        []domainstats.ColumnStats              `json:"stats"`
	Correlations []domainstats.CorrelationResult        `json:"correlations"`
	Categories   map[string][]domainstats.CategoryCount `json:"categories"`
}

// categoricalOverviewLimit caps the per-column category table in the
// overview payload.
const categoricalOverviewLimit = 10

// AnalysisService fans the read-only analytics out over a dataset. Each
// task reads the same immutable dataset, so running them in parallel is
// purely a scheduling convenience.
type AnalysisService struct {
	engine *hypothesis.Engine
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService() *AnalysisService {
	return &AnalysisService{engine: hypothesis.NewEngine()}
}

// Overview computes descriptive stats, the correlation matrix, and
// top-category tables for the dataset's string columns.
func (s *AnalysisService) Overview(ctx context.Context, ds table.Dataset) (*Overview, error) {
	overview := &Overview{Categories: make(map[string][]domainstats.CategoryCount)}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		overview.Stats = analyze.Describe(ds)
		return nil
	})
	g.Go(func() error {
		overview.Correlations = analyze.Correlate(ds)
		return nil
	})

	categorical := make([]string, 0)
	for _, p := range ds.ColumnProfiles {
		if p.Type == table.TypeString || p.Type == table.TypeBoolean {
			categorical = append(categorical, p.Name)
		}
	}
	results := make([][]domainstats.CategoryCount, len(categorical))
	for i, name := range categorical {
		i, name := i, name
		g.Go(func() error {
			results[i] = analyze.CategoryCounts(ds, name, categoricalOverviewLimit)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, name := range categorical {
		overview.Categories[name] = results[i]
	}
	return overview, nil
}

// RunTest executes a hypothesis test against the dataset.
func (s *AnalysisService) RunTest(ctx context.Context, ds table.Dataset, params domainstats.TestParams) (domainstats.TestResult, error) {
	return s.engine.Run(ds, params)
}

package app

import (
	"context"

	"datakiln/domain/cleaning"
	"datakiln/domain/table"
	"datakiln/domain/transform"
	internalcleaning "datakiln/internal/cleaning"
	internaltransform "datakiln/internal/transform"
	"datakiln/ports"
)

// CleaningService wires the plan advisor to the executors. The advisor
// is optional: the executors accept whatever plan the caller hands over.
type CleaningService struct {
	advisor ports.PlanAdvisor
	cleaner *internalcleaning.Executor
	former  *internaltransform.Executor
}

// NewCleaningService creates a cleaning service. advisor may be nil when
// no plan suggestions are wanted.
func NewCleaningService(advisor ports.PlanAdvisor, oneHotMaxCategories int) *CleaningService {
	return &CleaningService{
		advisor: advisor,
		cleaner: internalcleaning.NewExecutor(),
		former:  internaltransform.NewExecutor(oneHotMaxCategories),
	}
}

// SuggestPlan asks the advisor for a plan proposal.
func (s *CleaningService) SuggestPlan(ctx context.Context, ds table.Dataset) (cleaning.Plan, error) {
	if s.advisor == nil {
		return cleaning.Plan{Summary: "No plan advisor configured."}, nil
	}
	return s.advisor.SuggestPlan(ctx, ds)
}

// Clean executes a cleaning plan, returning the new dataset and the
// per-action report. The input dataset is left untouched.
func (s *CleaningService) Clean(ctx context.Context, ds table.Dataset, plan cleaning.Plan) (table.Dataset, cleaning.Report) {
	return s.cleaner.Execute(ds, plan)
}

// Transform executes a transformation batch, returning the new dataset
// and the per-action report.
func (s *CleaningService) Transform(ctx context.Context, ds table.Dataset, actions []transform.Action) (table.Dataset, transform.Report) {
	return s.former.Execute(ds, actions)
}

// Package ports defines the interfaces between the analysis engine and
// its external collaborators. The engine depends on the shapes here, not
// on any particular adapter.
package ports

import (
	"context"

	"datakiln/domain/cleaning"
	"datakiln/domain/table"
)

// TableReader turns an external byte source into parsed headers and
// rows. Parsing front-ends live behind this port; the engine itself only
// ever consumes the already-parsed result.
type TableReader interface {
	Read(ctx context.Context, path string) (headers []string, rows []table.Row, err error)
}

// PlanAdvisor proposes a cleaning plan for a dataset. How a plan is
// produced (heuristics, a generative-AI service, a human) is outside the
// engine; the executor accepts any plan value conforming to the domain
// shape, advisor or not.
type PlanAdvisor interface {
	SuggestPlan(ctx context.Context, ds table.Dataset) (cleaning.Plan, error)
}

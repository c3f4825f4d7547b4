package api

import (
	"datakiln/domain/cleaning"
	"datakiln/domain/core"
	domainstats "datakiln/domain/stats"
	"datakiln/domain/table"
	"datakiln/domain/transform"
)

// DatasetSummary is the API view of one stored dataset version: the
// metadata and profiles without the full row payload.
type DatasetSummary struct {
	ID        core.DatasetID        `json:"id"`
	ParentID  core.DatasetID        `json:"parent_id,omitempty"`
	Label     string                `json:"label"`
	CreatedAt core.Timestamp        `json:"created_at"`
	FileName  string                `json:"file_name"`
	FileSize  int64                 `json:"file_size"`
	TotalRows int                   `json:"total_rows"`
	Headers   []string              `json:"headers"`
	Profiles  []table.ColumnProfile `json:"column_profiles"`
}

// CleanRequest carries the plan to execute.
type CleanRequest struct {
	Plan cleaning.Plan `json:"plan"`
}

// CleanResponse returns the new version's handle and the action report.
type CleanResponse struct {
	Dataset DatasetSummary  `json:"dataset"`
	Report  cleaning.Report `json:"report"`
}

// TransformRequest carries the transformation batch to apply.
type TransformRequest struct {
	Actions []transform.Action `json:"actions"`
}

// TransformResponse returns the new version's handle and the report.
type TransformResponse struct {
	Dataset DatasetSummary   `json:"dataset"`
	Report  transform.Report `json:"report"`
}

// TestRequest selects a hypothesis test.
type TestRequest struct {
	Params domainstats.TestParams `json:"params"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func summarize(stored StoredDataset) DatasetSummary {
	return DatasetSummary{
		ID:        stored.ID,
		ParentID:  stored.ParentID,
		Label:     stored.Label,
		CreatedAt: stored.CreatedAt,
		FileName:  stored.Dataset.FileName,
		FileSize:  stored.Dataset.FileSize,
		TotalRows: stored.Dataset.TotalRows,
		Headers:   stored.Dataset.Headers,
		Profiles:  stored.Dataset.ColumnProfiles,
	}
}

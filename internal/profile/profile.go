// Package profile derives per-column metadata and assembles Dataset
// values. Build is the single choke point every mutating operation runs
// through, which is what keeps profiles consistent with the rows they
// describe.
package profile

import (
	"sort"

	"datakiln/domain/table"
	"datakiln/internal/infer"
)

// ProfileColumns computes one ColumnProfile per header, in header order.
func ProfileColumns(headers []string, rows []table.Row) []table.ColumnProfile {
	profiles := make([]table.ColumnProfile, 0, len(headers))
	total := len(rows)

	for _, header := range headers {
		profile := table.ColumnProfile{Name: header, Type: table.TypeUnknown}

		nonMissing := make([]any, 0, total)
		unique := make(map[string]struct{})
		for _, row := range rows {
			v := row[header]
			if table.IsMissing(v) {
				continue
			}
			nonMissing = append(nonMissing, v)
			unique[table.CanonicalText(v)] = struct{}{}
		}

		profile.MissingCount = total - len(nonMissing)
		if total > 0 {
			profile.MissingPercentage = float64(profile.MissingCount) / float64(total) * 100
		}
		profile.UniqueCount = len(unique)
		if len(nonMissing) > 0 {
			profile.Example = nonMissing[0]
			profile.Type = infer.Infer(nonMissing)
		}

		profiles = append(profiles, profile)
	}
	return profiles
}

// Build assembles a Dataset from headers and rows, re-deriving the
// column profiles. When headers is nil they are derived from the first
// row's key set in sorted order (maps carry no order of their own).
func Build(fileName string, fileSize int64, headers []string, rows []table.Row) table.Dataset {
	if headers == nil {
		headers = deriveHeaders(rows)
	}
	if rows == nil {
		rows = []table.Row{}
	}
	return table.Dataset{
		FileName:       fileName,
		FileSize:       fileSize,
		TotalRows:      len(rows),
		Headers:        headers,
		Rows:           rows,
		ColumnProfiles: ProfileColumns(headers, rows),
	}
}

// Rebuild produces a new Dataset from an existing one with replaced rows
// and headers, keeping file identity.
func Rebuild(ds table.Dataset, headers []string, rows []table.Row) table.Dataset {
	return Build(ds.FileName, ds.FileSize, headers, rows)
}

func deriveHeaders(rows []table.Row) []string {
	if len(rows) == 0 {
		return []string{}
	}
	headers := make([]string, 0, len(rows[0]))
	for key := range rows[0] {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

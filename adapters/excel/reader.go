// Package excel reads .xlsx and .csv files into parsed headers and rows.
// This is the file-parsing front-end kept outside the engine core; it
// satisfies ports.TableReader and hands already-typed scalars to the
// dataset builder.
package excel

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"datakiln/domain/table"
	"datakiln/internal/errors"
	"datakiln/internal/infer"
)

// DataReader handles reading Excel and CSV files
type DataReader struct{}

// NewDataReader creates a reader handling both .xlsx and .csv files.
func NewDataReader() *DataReader {
	return &DataReader{}
}

// Read parses the file at path. The first row is taken as headers;
// remaining rows become Row values with cells coerced to scalars
// (number, boolean, text, or nil when blank).
func (r *DataReader) Read(ctx context.Context, path string) ([]string, []table.Row, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, errors.New(errors.CodeReaderError, "file not found: "+path)
	}

	var records [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = r.readCSV(path)
	case ".xlsx":
		records, err = r.readExcel(path)
	default:
		return nil, nil, errors.New(errors.CodeReaderError, "unsupported file type: "+filepath.Ext(path))
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read %s", path)
	}
	if len(records) == 0 {
		return []string{}, []table.Row{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]table.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		if blankRecord(record) {
			continue
		}
		row := make(table.Row, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = coerceCell(record[i])
			} else {
				// Short records pad out as missing.
				row[header] = nil
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

func (r *DataReader) readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func (r *DataReader) readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return [][]string{}, nil
	}
	return f.GetRows(sheets[0])
}

// coerceCell maps a raw text cell to a typed scalar: blank to nil,
// "true"/"false" to bool, parseable numbers to float64, everything else
// stays text.
func coerceCell(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, ok := infer.AsNumber(trimmed); ok {
		return n
	}
	return trimmed
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"datakiln/internal/errors"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestRead_CSVCoercesCells(t *testing.T) {
	path := writeTempCSV(t, "name, amount ,active\nada,42.5,true\ngrace,,false\n")

	headers, rows, err := NewDataReader().Read(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headers) != 3 || headers[1] != "amount" {
		t.Fatalf("expected trimmed headers [name amount active], got %v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["amount"] != 42.5 {
		t.Errorf("expected numeric coercion to 42.5, got %v (%T)", rows[0]["amount"], rows[0]["amount"])
	}
	if rows[0]["active"] != true {
		t.Errorf("expected boolean coercion, got %v", rows[0]["active"])
	}
	if rows[1]["amount"] != nil {
		t.Errorf("expected blank cell to read as nil, got %v", rows[1]["amount"])
	}
	if rows[1]["name"] != "grace" {
		t.Errorf("expected text to stay text, got %v", rows[1]["name"])
	}
}

func TestRead_SkipsBlankAndPadsShortRecords(t *testing.T) {
	path := writeTempCSV(t, "a,b\n1,2\n,\nonly_a\n")

	_, rows, err := NewDataReader().Read(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected the all-blank record dropped, got %d rows", len(rows))
	}
	if rows[1]["a"] != "only_a" || rows[1]["b"] != nil {
		t.Errorf("expected the short record padded with nil, got %+v", rows[1])
	}
}

func TestRead_Errors(t *testing.T) {
	reader := NewDataReader()

	_, _, err := reader.Read(context.Background(), filepath.Join(t.TempDir(), "ghost.csv"))
	if errors.GetCode(err) != errors.CodeReaderError {
		t.Errorf("expected READER_ERROR for a missing file, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	_, _, err = reader.Read(context.Background(), path)
	if errors.GetCode(err) != errors.CodeReaderError {
		t.Errorf("expected READER_ERROR for an unsupported extension, got %v", err)
	}
}

package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Row is one offering row in the snapshot wire format.
type Row struct {
	CRN         int      `json:"crn"`
	CRNs        []int    `json:"crns,omitempty"`
	Subject     string   `json:"subject"`
	Number      string   `json:"number"`
	Section     string   `json:"section,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Professors  []string `json:"professors,omitempty"`
	Emails      []string `json:"professor_emails,omitempty"`
	School      string   `json:"school,omitempty"`
	SectionType string   `json:"section_type,omitempty"`
	Flags       []string `json:"flags,omitempty"`
}

// WriteTerm writes rows as <dir>/<term>.json.
func WriteTerm(t testing.TB, dir, term string, rows []Row) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", dir, err)
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		t.Fatalf("marshal term %s: %v", term, err)
	}
	path := filepath.Join(dir, term+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadJSON decodes a JSON file into v.
func ReadJSON(t testing.TB, path string, v any) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}

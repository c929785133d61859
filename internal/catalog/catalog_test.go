package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"catalogid/internal/invariants"
)

func TestCrossListedIncludesSelf(t *testing.T) {
	o := Offering{CRN: 30, CRNs: []int{20, 30, 20, 10}}
	if got := o.CrossListed(); !reflect.DeepEqual(got, []int{10, 20, 30}) {
		t.Fatalf("CrossListed() = %v", got)
	}
	o = Offering{CRN: 5}
	if got := o.CrossListed(); !reflect.DeepEqual(got, []int{5}) {
		t.Fatalf("CrossListed() = %v", got)
	}
}

func TestIsUndergraduate(t *testing.T) {
	tests := []struct {
		school, number string
		want           bool
	}{
		{"YC", "800", true},
		{"GS", "110", false},
		{"", "110", true},
		{"", "499", true},
		{"", "520", false},
		{"", "1100", false},
		{"", "", false},
	}
	for _, tt := range tests {
		o := Offering{School: tt.school, Number: tt.number}
		if got := o.IsUndergraduate(); got != tt.want {
			t.Errorf("IsUndergraduate(%q, %q) = %v, want %v", tt.school, tt.number, got, tt.want)
		}
	}
}

func TestInstructorsPairsEmails(t *testing.T) {
	o := Offering{Professors: []string{"Ada", " ", "Grace"}, Emails: []string{"ada@x.edu", "grace@x.edu"}}
	got := o.Instructors()
	want := []Instructor{{"Ada", "ada@x.edu"}, {"Grace", "grace@x.edu"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Instructors() = %+v", got)
	}

	o = Offering{Professors: []string{"Ada", "Grace"}, Emails: []string{"ada@x.edu"}}
	for _, in := range o.Instructors() {
		if in.Email != "" {
			t.Fatalf("expected emails dropped on count mismatch, got %+v", in)
		}
	}
}

func TestTermHelpers(t *testing.T) {
	if !IsSummer("202402", "") || IsSummer("202403", "2") {
		t.Fatal("unexpected summer classification")
	}
	if SeasonName("202401") != "spring" || SeasonName("202403") != "fall" || SeasonName("x") != "" {
		t.Fatal("unexpected season names")
	}
	offerings := []Offering{{Term: "202403"}, {Term: "202401"}, {Term: "202403"}}
	if got := Terms(offerings); !reflect.DeepEqual(got, []string{"202401", "202403"}) {
		t.Fatalf("Terms() = %v", got)
	}
	if got := ByTerm(offerings)["202403"]; !reflect.DeepEqual(got, []int{0, 2}) {
		t.Fatalf("ByTerm() = %v", got)
	}
}

func TestCodeNormalizer(t *testing.T) {
	n := NewCodeNormalizer(map[string]string{"wgst": "WGSS", "": "X"})
	if got := n.Normalize(" wgst ", " 110 "); got != "WGSS 110" {
		t.Fatalf("Normalize = %q", got)
	}
	if got := n.Normalize("econ", "115a"); got != "ECON 115A" {
		t.Fatalf("Normalize = %q", got)
	}
	if Department("ECON 115") != "ECON" || Department("ECON") != "ECON" {
		t.Fatal("unexpected department")
	}
}

func TestParseTerm(t *testing.T) {
	data := []byte(`[
		{"crn": 10001, "crns": ["10002"], "subject": "ECON", "number": "101", "section": 1,
		 "title": "Intro", "professors": ["P1"], "section_type": "Discussion"},
		{"crn": "10002", "crns": [10001, 10002], "subject": "GLBL", "number": "101", "title": "Intro"}
	]`)
	rows, err := ParseTerm(data, "202401", "test")
	if err != nil {
		t.Fatalf("ParseTerm failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[0].CRNs, []int{10001, 10002}) || rows[0].Section != "1" || !rows[0].IsDiscussion() {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[1].CRN != 10002 || rows[1].Section != "0" || rows[1].Term != "202401" {
		t.Fatalf("unexpected second row %+v", rows[1])
	}
}

func TestParseTermRejectsDuplicatesAndBadRows(t *testing.T) {
	tests := map[string]string{
		"duplicate crn": `[{"crn": 1, "subject": "A", "number": "1"}, {"crn": 1, "subject": "B", "number": "2"}]`,
		"missing crn":   `[{"subject": "A", "number": "1"}]`,
		"bad crn":       `[{"crn": "abc", "subject": "A", "number": "1"}]`,
		"missing code":  `[{"crn": 2}]`,
		"not an array":  `{"crn": 2}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTerm([]byte(data), "202401", "test")
			if !errors.Is(err, invariants.ErrInvalidInput) {
				t.Fatalf("expected invalid input error, got %v", err)
			}
		})
	}
}

func TestLoadDirSortsByTermAndCRN(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("202403.json", `[{"crn": 5, "subject": "A", "number": "1"}, {"crn": 2, "subject": "B", "number": "1"}]`)
	write("202401.json", `[{"crn": 9, "subject": "C", "number": "1"}]`)
	write("notes.txt", "ignored")

	rows, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	var keys []string
	for _, r := range rows {
		keys = append(keys, r.Key())
	}
	want := []string{"202401-9", "202403-2", "202403-5"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
}

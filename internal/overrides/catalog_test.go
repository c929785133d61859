package overrides

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseSpecsAcceptsWrapperAndShorthand(t *testing.T) {
	data := []byte("\xEF\xBB\xBF{ \"overrides\": [{\"name\":\"stats\",\"groups\":[[\"S&DS 230@202403\"],[{\"code\":\"s&ds  238\"}]]}]}")
	entries, err := parseSpecs(data)
	if err != nil {
		t.Fatalf("parseSpecs failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0].Groups
	if got[0][0] != (Marker{Code: "S&DS 230", Term: "202403"}) {
		t.Fatalf("unexpected shorthand marker %+v", got[0][0])
	}
	if got[1][0].Code != "s&ds  238" {
		t.Fatalf("unexpected object marker %+v", got[1][0])
	}
}

func TestCatalogSpecsLayersFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.json")
	data := []byte(`[{"name":"physics","groups":[["phys 170"],["phys 171"]]}]`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write overrides: %v", err)
	}

	specs, err := NewCatalog(path, nil).Specs(nil)
	if err != nil {
		t.Fatalf("Specs: %v", err)
	}
	if len(specs) != len(Defaults())+1 {
		t.Fatalf("expected defaults plus one, got %d", len(specs))
	}
	last := specs[len(specs)-1]
	if last.Groups[0][0].Code != "PHYS 170" || last.Groups[1][0].Code != "PHYS 171" {
		t.Fatalf("expected normalized codes, got %+v", last.Groups)
	}
}

func TestCatalogMissingFileServesDefaults(t *testing.T) {
	specs, err := NewCatalog(filepath.Join(t.TempDir(), "absent.json"), nil).Specs(nil)
	if err != nil {
		t.Fatalf("Specs: %v", err)
	}
	if len(specs) != len(Defaults()) {
		t.Fatalf("expected defaults only, got %d", len(specs))
	}
}

func TestCatalogRejectsOverlappingGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	data := []byte(`[{"groups":[["MATH 115"],["math 115","MATH 116"]]}]`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewCatalog(path, nil).Specs(nil)
	if err == nil || !strings.Contains(err.Error(), "appears in groups") {
		t.Fatalf("expected overlap error, got %v", err)
	}
}

func TestSpecGroupsOfAndCoveredBy(t *testing.T) {
	spec := Spec{Groups: [][]Marker{
		{{Code: "CHNS 110"}},
		{{Code: "CHNS 120", Term: "202403"}},
	}}

	if got := spec.GroupsOf("202401", []string{"CHNS 110", "EAST 110"}); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("GroupsOf = %v", got)
	}
	if got := spec.GroupsOf("202401", []string{"CHNS 120"}); len(got) != 0 {
		t.Fatalf("term-pinned marker should not match other terms, got %v", got)
	}

	members := []Member{
		{ID: 1, Term: "202401", Codes: []string{"CHNS 110"}},
		{ID: 2, Term: "202403", Codes: []string{"CHNS 120"}},
	}
	if !spec.CoveredBy(members) {
		t.Fatal("expected spec to cover both groups")
	}
	if spec.CoveredBy(members[:1]) {
		t.Fatal("single group should not cover the spec")
	}
}

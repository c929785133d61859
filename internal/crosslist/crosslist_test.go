package crosslist

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"catalogid/internal/catalog"
	"catalogid/internal/idcache"
	"catalogid/internal/invariants"
)

func offering(term string, crn int, code string, crns ...int) catalog.Offering {
	subject, number, _ := strings.Cut(code, " ")
	return catalog.Offering{Term: term, CRN: crn, CRNs: crns, Subject: subject, Number: number, Title: code}
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestResolveTermGroupsCliques(t *testing.T) {
	offerings := []catalog.Offering{
		offering("202401", 12, "HIST 210", 10, 11, 12),
		offering("202401", 10, "AMST 210", 10, 11, 12),
		offering("202401", 11, "ER&M 210", 10, 11, 12),
		offering("202401", 20, "MATH 120"),
	}
	groups, diags, err := ResolveTerm("202401", offerings, allIndices(len(offerings)), nil)
	if err != nil {
		t.Fatalf("ResolveTerm: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if !reflect.DeepEqual(groups[0].CRNs, []int{10, 11, 12}) {
		t.Fatalf("unexpected first group CRNs %v", groups[0].CRNs)
	}
	if !reflect.DeepEqual(groups[1].CRNs, []int{20}) {
		t.Fatalf("unexpected second group CRNs %v", groups[1].CRNs)
	}
}

func TestResolveTermRejectsNonTransitiveOverlap(t *testing.T) {
	offerings := []catalog.Offering{
		offering("202401", 1, "AAAA 100", 1),
		offering("202401", 2, "BBBB 100", 2),
		offering("202401", 3, "CCCC 100", 1, 2, 3),
	}
	_, _, err := ResolveTerm("202401", offerings, allIndices(len(offerings)), nil)
	if !errors.Is(err, invariants.ErrInconsistentCrossListing) {
		t.Fatalf("expected inconsistent cross-listing, got %v", err)
	}
	for _, want := range []string{"202401", "CRN 3", "{1}", "{2}"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err.Error(), want)
		}
	}
}

func TestResolveTermBackFillsPartialHint(t *testing.T) {
	offerings := []catalog.Offering{
		offering("202401", 1, "AAAA 100", 1, 2),
		offering("202401", 2, "BBBB 100", 2, 3),
		offering("202401", 3, "CCCC 100", 3),
	}
	groups, diags, err := ResolveTerm("202401", offerings, allIndices(len(offerings)), nil)
	if err != nil {
		t.Fatalf("ResolveTerm: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Members) != 3 {
		t.Fatalf("expected one group of three, got %+v", groups)
	}
	if got := diags.ByEvent("partial_clique_hint"); len(got) != 1 {
		t.Fatalf("expected one partial hint diagnostic, got %v", diags)
	}
}

func TestResolveTermOrdersUndergraduateFirst(t *testing.T) {
	grad := offering("202401", 5, "HIST 710", 5, 9)
	grad.School = "GS"
	college := offering("202401", 9, "HIST 310", 5, 9)
	college.School = "YC"
	offerings := []catalog.Offering{grad, college}

	groups, _, err := ResolveTerm("202401", offerings, allIndices(2), nil)
	if err != nil {
		t.Fatalf("ResolveTerm: %v", err)
	}
	if groups[0].Members[0] != 1 {
		t.Fatalf("expected undergraduate offering to be canonical, got member order %v", groups[0].Members)
	}
}

func TestResolveIsStableAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	offerings := []catalog.Offering{
		offering("202401", 10, "HIST 210", 10, 11),
		offering("202401", 11, "AMST 210", 10, 11),
		offering("202401", 30, "MATH 120"),
		offering("202403", 10, "HIST 211"),
		offering("202403", 15, "ECON 101"),
	}

	run := func() []int {
		cache, err := idcache.Load(dir, idcache.KindCourse)
		if err != nil {
			t.Fatalf("load cache: %v", err)
		}
		res, err := Resolve(offerings, cache, nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if _, err := cache.Merge(res.Pairs, nil); err != nil {
			t.Fatalf("merge: %v", err)
		}
		return res.CourseIDs
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("course ids changed between runs: %v vs %v", first, second)
	}
	if first[0] != first[1] {
		t.Fatalf("cross-listed offerings got different ids: %v", first)
	}
	want := []int{1, 1, 2, 3, 4}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("unexpected fresh ids %v, want %v", first, want)
	}
}

func TestStabilizeMergesAndSplitsPriorIDs(t *testing.T) {
	cache := idcache.FromMap(idcache.KindCourse, map[string]int{
		"202401-10": 7,
		"202401-11": 4,
		"202401-20": 9,
		"202401-21": 9,
	})
	offerings := []catalog.Offering{
		offering("202401", 10, "HIST 210", 10, 11),
		offering("202401", 11, "AMST 210", 10, 11),
		offering("202401", 20, "MATH 120"),
		offering("202401", 21, "MATH 121"),
	}
	res, err := Resolve(offerings, cache, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(res.CourseIDs, []int{4, 4, 9, 10}) {
		t.Fatalf("unexpected ids %v", res.CourseIDs)
	}
	counts := res.Diagnostics.CountByEvent()
	if counts["course_id_merge"] != 1 || counts["course_id_split"] != 1 {
		t.Fatalf("unexpected diagnostics %v", res.Diagnostics)
	}
	if res.Pairs["202401-10"] != 4 || res.Pairs["202401-21"] != 10 {
		t.Fatalf("unexpected pairs %v", res.Pairs)
	}
}

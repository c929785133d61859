package samecourse

import (
	"context"
	"errors"
	"strings"
	"testing"

	"catalogid/internal/invariants"
	"catalogid/internal/overrides"
)

func ent(id int, term string, codes []string, title string, profs ...int) Entity {
	return Entity{ID: id, Term: term, Codes: codes, Title: title, Professors: profs}
}

func partition(t *testing.T, entities []Entity, rules Rules) *Result {
	t.Helper()
	res, err := Partition(context.Background(), entities, rules, nil)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	return res
}

func assertSame(t *testing.T, res *Result, a, b int) {
	t.Helper()
	if res.GroupOf[a] != res.GroupOf[b] {
		t.Fatalf("expected %d and %d in one group, got %d and %d", a, b, res.GroupOf[a], res.GroupOf[b])
	}
}

func assertApart(t *testing.T, res *Result, a, b int) {
	t.Helper()
	if res.GroupOf[a] == res.GroupOf[b] {
		t.Fatalf("expected %d and %d in different groups, both in %d", a, b, res.GroupOf[a])
	}
}

func TestDiscussionSectionsStaySingleton(t *testing.T) {
	lecture := ent(1, "202401", []string{"CHEM 161"}, "general chemistry i", 9)
	section := ent(2, "202403", []string{"CHEM 161"}, "general chemistry i", 9)
	section.Discussion = true
	later := ent(3, "202501", []string{"CHEM 161"}, "general chemistry i", 9)

	res := partition(t, []Entity{lecture, section, later}, DefaultRules())
	if got := res.Groups[res.GroupOf[2]]; len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected discussion singleton, got %v", got)
	}
	assertSame(t, res, 1, 3)
}

func TestExactTitleMergesAcrossTerms(t *testing.T) {
	tests := []struct {
		name string
		a, b Entity
	}{
		{
			name: "shared department",
			a:    ent(10, "202301", []string{"HIST 101"}, "the modern world"),
			b:    ent(20, "202503", []string{"HIST 150"}, "the modern world"),
		},
		{
			name: "renumbered code",
			a:    ent(11, "202303", []string{"PLSC 113"}, "introduction to political philosophy"),
			b:    ent(21, "202401", []string{"PLSC 114"}, "introduction to political philosophy"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := partition(t, []Entity{tt.a, tt.b}, DefaultRules())
			assertSame(t, res, tt.a.ID, tt.b.ID)
			if res.GroupOf[tt.b.ID] != tt.a.ID {
				t.Fatalf("expected canonical id %d, got %d", tt.a.ID, res.GroupOf[tt.b.ID])
			}
		})
	}
}

func TestExactTitleMergesThroughLinkedCodes(t *testing.T) {
	entities := []Entity{
		ent(1, "202301", []string{"AMST 210", "HIST 210"}, "american cities"),
		ent(2, "202401", []string{"AMST 210"}, "cities and suburbs"),
		ent(3, "202403", []string{"HIST 210"}, "cities and suburbs"),
		ent(4, "202403", []string{"SOCY 330"}, "cities and suburbs"),
	}
	res := partition(t, entities, DefaultRules())
	assertSame(t, res, 2, 3)
	assertApart(t, res, 2, 4)
}

func TestGenericTitleGuard(t *testing.T) {
	entities := []Entity{
		ent(1, "202401", []string{"ENGL 480"}, "directed reading", 77),
		ent(2, "202403", []string{"PHYS 471"}, "directed reading", 77),
	}
	res := partition(t, entities, DefaultRules())
	assertApart(t, res, 1, 2)

	entities[0].Title = "topics in literary physics"
	entities[1].Title = "topics in literary physics"
	res = partition(t, entities, DefaultRules())
	assertSame(t, res, 1, 2)
}

func TestFuzzyTitleRequiresDifferentTerms(t *testing.T) {
	entities := []Entity{
		ent(1, "202401", []string{"ECON 115"}, "introductory microeconomics"),
		ent(2, "202403", []string{"ECON 115"}, "introductory micro-economics"),
		ent(3, "202403", []string{"ECON 115"}, "introductory microeconomics lab"),
	}
	res := partition(t, entities, DefaultRules())
	assertSame(t, res, 1, 2)
	assertSame(t, res, 1, 3)

	sameTerm := []Entity{
		ent(4, "202401", []string{"ECON 117"}, "introduction to data analysis"),
		ent(5, "202401", []string{"ECON 117"}, "introduction to data analytics"),
	}
	res = partition(t, sameTerm, DefaultRules())
	assertApart(t, res, 4, 5)
}

func TestFuzzyDescriptionFallback(t *testing.T) {
	desc := "a survey of the physical principles underlying modern astronomy and astrophysics"
	a := ent(1, "202401", []string{"ASTR 110"}, "planets and stars")
	a.Description = desc
	b := ent(2, "202501", []string{"ASTR 110"}, "frontiers of the cosmos")
	b.Description = desc + " for nonmajors"
	short := ent(3, "202503", []string{"ASTR 110"}, "galaxies and beyond")
	short.Description = "tbd"

	res := partition(t, []Entity{a, b, short}, DefaultRules())
	assertSame(t, res, 1, 2)
	assertApart(t, res, 1, 3)
}

func TestShortTitlesNeverFuzzyMatch(t *testing.T) {
	entities := []Entity{
		ent(1, "202401", []string{"MUSI 101"}, "choir"),
		ent(2, "202403", []string{"MUSI 101"}, "chor"),
	}
	res := partition(t, entities, DefaultRules())
	assertApart(t, res, 1, 2)
}

func TestSummerUniverseIsSeparate(t *testing.T) {
	entities := []Entity{
		ent(1, "202401", []string{"MATH 112"}, "calculus of functions of one variable i"),
		ent(2, "202402", []string{"MATH 112"}, "calculus of functions of one variable i"),
		ent(3, "202502", []string{"MATH 112"}, "calculus of functions of one variable i"),
	}
	res := partition(t, entities, DefaultRules())
	assertApart(t, res, 1, 2)
	assertSame(t, res, 2, 3)
}

func TestOverrideSplitsSequentialCourses(t *testing.T) {
	title := "elementary modern chinese"
	a := ent(1, "202401", []string{"CHNS 110"}, title, 5)
	b := ent(2, "202403", []string{"CHNS 120"}, title, 5)
	c := ent(3, "202501", []string{"CHNS 110"}, title, 5)
	for _, e := range []*Entity{&a, &b, &c} {
		e.Description = "introduction to spoken and written mandarin for students with no background"
	}

	res := partition(t, []Entity{a, b, c}, DefaultRules())
	assertApart(t, res, 1, 2)
	assertSame(t, res, 1, 3)
}

func TestOverrideConflicts(t *testing.T) {
	twice := DefaultRules()
	twice.Overrides = append(twice.Overrides, overrides.Spec{
		Name:   "duplicate",
		Groups: [][]overrides.Marker{{{Code: "CHNS 110"}}, {{Code: "CHNS 120"}}},
	})

	unassigned := []Entity{
		ent(1, "202401", []string{"CHNS 110"}, "elementary modern chinese"),
		ent(2, "202403", []string{"CHNS 120"}, "elementary modern chinese"),
		ent(3, "202501", []string{"CHNS 130"}, "elementary modern chinese"),
	}

	tests := []struct {
		name     string
		entities []Entity
		rules    Rules
		want     string
	}{
		{"several specs", unassigned[:2], twice, "several override specs"},
		{"unassignable member", unassigned, DefaultRules(), "course 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition(context.Background(), tt.entities, tt.rules, nil)
			if !errors.Is(err, invariants.ErrOverrideConflict) {
				t.Fatalf("expected override conflict, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestPartitionIsOrderIndependent(t *testing.T) {
	entities := []Entity{
		ent(30, "202503", []string{"HIST 101"}, "the modern world"),
		ent(10, "202301", []string{"HIST 101"}, "the modern world"),
		ent(20, "202401", []string{"HIST 102"}, "the modern world"),
	}
	reversed := []Entity{entities[2], entities[1], entities[0]}

	a := partition(t, entities, DefaultRules())
	b := partition(t, reversed, DefaultRules())
	for _, e := range entities {
		if a.GroupOf[e.ID] != b.GroupOf[e.ID] || a.GroupOf[e.ID] != 10 {
			t.Fatalf("group of %d differs: %d vs %d", e.ID, a.GroupOf[e.ID], b.GroupOf[e.ID])
		}
	}
}

func TestEndToEndRefinement(t *testing.T) {
	const p1, p2 = 1, 2
	entities := []Entity{
		ent(100, "202401", []string{"ECON 101"}, "intro to economics", p1),
		ent(200, "202403", []string{"ECON 101"}, "intro to economics", p1),
		ent(300, "202501", []string{"ECON 101"}, "intro to economics", p2),
	}
	same := partition(t, entities, DefaultRules())
	if len(same.Groups) != 1 {
		t.Fatalf("expected one same-course group, got %v", same.Groups)
	}

	refined := Refine(same, entities)
	if refined.GroupOf[100] != refined.GroupOf[200] {
		t.Fatalf("expected T1 and T2 to share professors group, got %v", refined.GroupOf)
	}
	if refined.GroupOf[300] == refined.GroupOf[100] {
		t.Fatalf("expected T3 in its own professors group, got %v", refined.GroupOf)
	}
	if refined.GroupOf[300] != 300 || refined.GroupOf[100] != 100 {
		t.Fatalf("expected minimum-id canonical ids, got %v", refined.GroupOf)
	}
	if err := CheckRefinement(same, refined); err != nil {
		t.Fatalf("CheckRefinement: %v", err)
	}
}

func TestCheckRefinementDetectsSpanningGroup(t *testing.T) {
	same := newResult([][]int{{1, 2}, {3}})
	bad := newResult([][]int{{1, 3}, {2}})
	if err := CheckRefinement(same, bad); err == nil {
		t.Fatal("expected refinement violation")
	}
}

// Package flags assigns stable ids to the requirement flags attached to
// offerings (writing, quantitative reasoning, and similar designations).
package flags

import (
	"sort"
	"strings"

	"catalogid/internal/catalog"
	"catalogid/internal/crosslist"
	"catalogid/internal/idcache"
)

// Flag is one distinct flag text.
type Flag struct {
	ID   int
	Text string
}

// Result holds the flag table and the course junction.
type Result struct {
	Flags []Flag
	// CourseFlags maps course id to its sorted flag ids.
	CourseFlags map[int][]int
	Pairs       map[string]int
}

// Resolve ids every distinct flag text carried by a course's offerings
// through the strict flag_id cache.
func Resolve(offerings []catalog.Offering, courses []crosslist.Course, cache *idcache.Cache) *Result {
	textsByCourse := make(map[int][]string, len(courses))
	seen := make(map[string]struct{})
	var texts []string
	for _, c := range courses {
		own := make(map[string]struct{})
		for _, idx := range c.Offerings {
			for _, f := range offerings[idx].Flags {
				f = strings.Join(strings.Fields(f), " ")
				if f == "" {
					continue
				}
				if _, ok := own[f]; !ok {
					own[f] = struct{}{}
					textsByCourse[c.ID] = append(textsByCourse[c.ID], f)
				}
				if _, ok := seen[f]; !ok {
					seen[f] = struct{}{}
					texts = append(texts, f)
				}
			}
		}
	}
	sort.Strings(texts)

	ids := idcache.Assign(texts, func(s string) string { return s }, cache)
	byText := make(map[string]int, len(texts))
	res := &Result{
		Flags:       make([]Flag, len(texts)),
		CourseFlags: make(map[int][]int, len(textsByCourse)),
		Pairs:       make(map[string]int, len(texts)),
	}
	for i, text := range texts {
		byText[text] = ids[i]
		res.Flags[i] = Flag{ID: ids[i], Text: text}
		res.Pairs[text] = ids[i]
	}
	sort.Slice(res.Flags, func(i, j int) bool { return res.Flags[i].ID < res.Flags[j].ID })

	for courseID, fs := range textsByCourse {
		out := make([]int, len(fs))
		for i, f := range fs {
			out[i] = byText[f]
		}
		sort.Ints(out)
		res.CourseFlags[courseID] = out
	}
	return res
}

package crosslist

import (
	"fmt"
	"log/slog"
	"sort"

	"catalogid/internal/catalog"
	"catalogid/internal/idcache"
	"catalogid/internal/invariants"
	"catalogid/internal/logging"
)

// Course is a resolved course entity with its stable global id.
type Course struct {
	ID   int
	Term string
	// Offerings are indices into the offering slice, canonical first.
	Offerings []int
	CRNs      []int
}

// Canonical returns the index of the offering the course inherits its
// title, description, and instructors from.
func (c Course) Canonical() int {
	return c.Offerings[0]
}

// Result is the outcome of cross-listing resolution across all terms.
type Result struct {
	Courses []Course
	// CourseIDs[i] is the course id of offerings[i].
	CourseIDs   []int
	Pairs       map[string]int
	Diagnostics invariants.Diagnostics
}

// Resolve resolves every term independently, in ascending term order, then
// stabilizes the term-scoped groups against the course id cache.
func Resolve(offerings []catalog.Offering, cache *idcache.Cache, logger *slog.Logger) (*Result, error) {
	var (
		groups []Group
		diags  invariants.Diagnostics
	)
	byTerm := catalog.ByTerm(offerings)
	for _, term := range catalog.Terms(offerings) {
		g, d, err := ResolveTerm(term, offerings, byTerm[term], logger)
		diags.Extend(d)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g...)
	}

	courses, pairs, d := Stabilize(groups, offerings, cache, logger)
	diags.Extend(d)

	ids := make([]int, len(offerings))
	for _, c := range courses {
		for _, idx := range c.Offerings {
			ids[idx] = c.ID
		}
	}
	return &Result{Courses: courses, CourseIDs: ids, Pairs: pairs, Diagnostics: diags}, nil
}

// Stabilize assigns each group a global course id. Groups whose offerings
// were previously cached reuse that id; a group spanning several prior ids
// keeps the smallest and reports the merge; a prior id already claimed by an
// earlier group this run (a course split) is not reused. Groups are visited
// in the order given, which callers keep sorted by term then CRN.
func Stabilize(groups []Group, offerings []catalog.Offering, cache *idcache.Cache, logger *slog.Logger) ([]Course, map[string]int, invariants.Diagnostics) {
	logger = logging.NewComponentLogger(logger, "crosslist")
	var diags invariants.Diagnostics

	next := cache.Max() + 1
	claimed := make(map[int]string)
	pairs := make(map[string]int)
	courses := make([]Course, 0, len(groups))

	for _, g := range groups {
		keys := make([]string, len(g.Members))
		for i, idx := range g.Members {
			keys[i] = offerings[idx].Key()
		}
		sort.Strings(keys)

		prior := cachedIDs(keys, cache)
		id := 0
		for _, candidate := range prior {
			if _, taken := claimed[candidate]; !taken {
				id = candidate
				break
			}
		}

		if len(prior) > 1 {
			diags.Add(invariants.Diagnostic{
				Stage:   "crosslist",
				Event:   "course_id_merge",
				Message: fmt.Sprintf("offerings %v carried %d prior course ids", keys, len(prior)),
				Term:    g.Term,
				Keys:    keys,
				IDs:     prior,
			})
			logging.WarnWithContext(logger, "course resolves to multiple cached ids",
				"course_id_merge",
				logging.String(logging.FieldTerm, g.Term),
				logging.Any("keys", keys),
				logging.Any("cached_ids", prior),
				logging.Int("chosen_id", id),
				logging.String(logging.FieldErrorHint, "expected when offerings become cross-listed"),
				logging.String(logging.FieldImpact, "the other course ids are retired"))
		}

		if id == 0 {
			if len(prior) > 0 {
				diags.Add(invariants.Diagnostic{
					Stage:   "crosslist",
					Event:   "course_id_split",
					Message: fmt.Sprintf("cached course ids %v already claimed by %s", prior, claimed[prior[0]]),
					Term:    g.Term,
					Keys:    keys,
					IDs:     prior,
				})
				logging.WarnWithContext(logger, "course split from a previously cached course",
					"course_id_split",
					logging.String(logging.FieldTerm, g.Term),
					logging.Any("keys", keys),
					logging.Any("cached_ids", prior),
					logging.String(logging.FieldErrorHint, "expected when a cross-listing is dissolved"),
					logging.String(logging.FieldImpact, "split-off offerings receive a new course id"))
			}
			id = next
			next++
		}
		claimed[id] = keys[0]
		for _, k := range keys {
			pairs[k] = id
		}
		courses = append(courses, Course{
			ID:        id,
			Term:      g.Term,
			Offerings: append([]int(nil), g.Members...),
			CRNs:      append([]int(nil), g.CRNs...),
		})
	}
	return courses, pairs, diags
}

func cachedIDs(keys []string, cache *idcache.Cache) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, k := range keys {
		id, ok := cache.Lookup(k)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

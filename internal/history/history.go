// Package history derives last-offering links between the members of each
// same-course group.
package history

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"catalogid/internal/invariants"
	"catalogid/internal/logging"
	"catalogid/internal/samecourse"
)

// Stats holds the previous-offering links of one course. Zero means none.
type Stats struct {
	LastOffered        int
	LastSameProfessors int
}

// Compute links every course to the member of its same-course group from the
// most recent strictly earlier term, and to the most recent earlier member
// taught by the identical instructor set. Without such a member the second
// link falls back to the first.
func Compute(entities []samecourse.Entity, same *samecourse.Result, logger *slog.Logger) (map[int]Stats, invariants.Diagnostics) {
	logger = logging.NewComponentLogger(logger, "history")
	byID := make(map[int]samecourse.Entity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}

	var diags invariants.Diagnostics
	out := make(map[int]Stats, len(entities))
	for _, gid := range same.GroupIDs() {
		members := same.Groups[gid]
		for _, id := range members {
			cur := byID[id]
			var earlier []samecourse.Entity
			for _, other := range members {
				if o := byID[other]; o.Term < cur.Term {
					earlier = append(earlier, o)
				}
			}
			if len(earlier) == 0 {
				out[id] = Stats{}
				continue
			}

			last, ambiguous := mostRecent(earlier)
			if ambiguous != nil {
				diags.Add(ambiguity(cur, "last_offered", ambiguous, last))
			}

			var sameProfs []samecourse.Entity
			for _, o := range earlier {
				if slices.Equal(o.Professors, cur.Professors) {
					sameProfs = append(sameProfs, o)
				}
			}
			lastSame := last
			if len(sameProfs) > 0 {
				var amb []int
				lastSame, amb = mostRecent(sameProfs)
				if amb != nil {
					diags.Add(ambiguity(cur, "last_same_professors", amb, lastSame))
				}
			}
			out[id] = Stats{LastOffered: last, LastSameProfessors: lastSame}
		}
	}

	if len(diags) > 0 {
		logging.WarnWithContext(logger, "ambiguous last offerings",
			"ambiguous_last_offering",
			logging.Int("count", len(diags)),
			logging.String(logging.FieldErrorHint, "several courses of one earlier term share a same-course group"),
			logging.String(logging.FieldImpact, "the smallest course id was linked"))
	}
	return out, diags
}

// mostRecent returns the minimum id among candidates from the latest term,
// plus every tied id when more than one qualifies.
func mostRecent(candidates []samecourse.Entity) (int, []int) {
	latest := ""
	for _, c := range candidates {
		if c.Term > latest {
			latest = c.Term
		}
	}
	var ids []int
	for _, c := range candidates {
		if c.Term == latest {
			ids = append(ids, c.ID)
		}
	}
	sort.Ints(ids)
	if len(ids) > 1 {
		return ids[0], ids
	}
	return ids[0], nil
}

func ambiguity(cur samecourse.Entity, which string, ids []int, chosen int) invariants.Diagnostic {
	return invariants.Diagnostic{
		Stage:   "history",
		Event:   "ambiguous_last_offering",
		Message: fmt.Sprintf("course %d: %s matches %d courses; chose %d", cur.ID, which, len(ids), chosen),
		Term:    cur.Term,
		IDs:     ids,
	}
}

package crosslist

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"catalogid/internal/catalog"
	"catalogid/internal/invariants"
	"catalogid/internal/logging"
)

// Group is one term-scoped course entity: indices into the offering slice
// passed to ResolveTerm, ordered canonical offering first.
type Group struct {
	Term    string
	TempID  int
	Members []int
	CRNs    []int
}

// ResolveTerm partitions the offerings of a single term. Every offering in
// the slice must belong to term.
func ResolveTerm(term string, offerings []catalog.Offering, indices []int, logger *slog.Logger) ([]Group, invariants.Diagnostics, error) {
	logger = logging.NewComponentLogger(logger, "crosslist")

	order := append([]int(nil), indices...)
	sort.SliceStable(order, func(i, j int) bool {
		return offerings[order[i]].CRN < offerings[order[j]].CRN
	})

	var diags invariants.Diagnostics
	assigned := make(map[int]int)
	next := 0
	for _, idx := range order {
		o := offerings[idx]
		if o.Term != term {
			return nil, nil, invariants.Wrap(invariants.ErrInvalidInput, "crosslist", "resolve",
				fmt.Sprintf("offering %s passed with term %s", o.Key(), term), nil)
		}
		hint := o.CrossListed()
		found := distinctAssigned(hint, assigned)
		switch len(found) {
		case 0:
			next++
			for _, crn := range hint {
				assigned[crn] = next
			}
		case 1:
			id := found[0]
			var filled []int
			for _, crn := range hint {
				if _, ok := assigned[crn]; !ok {
					assigned[crn] = id
					filled = append(filled, crn)
				}
			}
			if len(filled) > 0 {
				d := invariants.Diagnostic{
					Stage:   "crosslist",
					Event:   "partial_clique_hint",
					Message: fmt.Sprintf("CRN %d declares %s; back-filled %s into an existing course", o.CRN, formatCRNs(hint), formatCRNs(filled)),
					Term:    term,
					Keys:    []string{o.Key()},
				}
				diags.Add(d)
				logging.WarnWithContext(logger, "cross-listing hint only partially overlaps an existing course",
					"crosslist_partial_hint",
					logging.String(logging.FieldTerm, term),
					logging.Int("crn", o.CRN),
					logging.String("hint", formatCRNs(hint)),
					logging.String("back_filled", formatCRNs(filled)),
					logging.String(logging.FieldErrorHint, "check the crns field of the listed offerings upstream"),
					logging.String(logging.FieldImpact, "offerings were merged into one course"))
			}
		default:
			return nil, diags, conflictError(term, o, hint, assigned)
		}
	}

	byTemp := make(map[int]*Group)
	for _, idx := range order {
		o := offerings[idx]
		id := assigned[o.CRN]
		g, ok := byTemp[id]
		if !ok {
			g = &Group{Term: term, TempID: id}
			byTemp[id] = g
		}
		g.Members = append(g.Members, idx)
		g.CRNs = append(g.CRNs, o.CRN)
	}

	groups := make([]Group, 0, len(byTemp))
	for id := 1; id <= next; id++ {
		g, ok := byTemp[id]
		if !ok {
			// Hint named only CRNs absent from the snapshot.
			continue
		}
		orderCanonical(g.Members, offerings)
		groups = append(groups, *g)
	}

	logger.Debug("resolved cross-listings",
		logging.String(logging.FieldTerm, term),
		logging.Int("offerings", len(order)),
		logging.Int("courses", len(groups)))
	return groups, diags, nil
}

func distinctAssigned(hint []int, assigned map[int]int) []int {
	var out []int
	seen := make(map[int]struct{})
	for _, crn := range hint {
		id, ok := assigned[crn]
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

func conflictError(term string, o catalog.Offering, hint []int, assigned map[int]int) error {
	byID := make(map[int][]int)
	for _, crn := range hint {
		if id, ok := assigned[crn]; ok {
			byID[id] = append(byID[id], crn)
		}
	}
	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = formatCRNs(byID[id])
	}
	msg := fmt.Sprintf("term %s: CRN %d (%s) declares %s, which spans already-separate courses %s",
		term, o.CRN, o.Code(), formatCRNs(hint), strings.Join(parts, " and "))
	return invariants.Wrap(invariants.ErrInconsistentCrossListing, "crosslist", "resolve", msg, nil)
}

// orderCanonical sorts member offerings undergraduate-first, then by CRN.
func orderCanonical(members []int, offerings []catalog.Offering) {
	sort.SliceStable(members, func(i, j int) bool {
		a, b := offerings[members[i]], offerings[members[j]]
		if ua, ub := a.IsUndergraduate(), b.IsUndergraduate(); ua != ub {
			return ua
		}
		return a.CRN < b.CRN
	})
}

func formatCRNs(crns []int) string {
	parts := make([]string, len(crns))
	for i, c := range crns {
		parts[i] = fmt.Sprint(c)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

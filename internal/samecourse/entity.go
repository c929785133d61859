package samecourse

import (
	"sort"

	"catalogid/internal/catalog"
	"catalogid/internal/crosslist"
	"catalogid/internal/textutil"
)

// Entity is the partitioner's view of one course entity.
type Entity struct {
	ID          int
	Term        string
	Codes       []string
	Title       string
	Description string
	Professors  []int
	Discussion  bool
}

// BuildEntities projects resolved courses into partitioner entities. Codes
// are the normalized union over all offerings; text and discussion status
// come from the canonical offering.
func BuildEntities(offerings []catalog.Offering, courses []crosslist.Course, professors map[int][]int, rules Rules) []Entity {
	out := make([]Entity, 0, len(courses))
	for _, c := range courses {
		canonical := offerings[c.Canonical()]
		seen := make(map[string]struct{})
		var codes []string
		for _, idx := range c.Offerings {
			o := offerings[idx]
			code := rules.Codes.Normalize(o.Subject, o.Number)
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
		sort.Strings(codes)
		profs := append([]int(nil), professors[c.ID]...)
		sort.Ints(profs)
		out = append(out, Entity{
			ID:          c.ID,
			Term:        c.Term,
			Codes:       codes,
			Title:       textutil.NormalizeTitle(canonical.Title),
			Description: textutil.NormalizeText(canonical.Description),
			Professors:  profs,
			Discussion:  canonical.IsDiscussion(),
		})
	}
	return out
}

func (e Entity) departments() []string {
	seen := make(map[string]struct{}, len(e.Codes))
	var out []string
	for _, c := range e.Codes {
		d := catalog.Department(c)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

func shareProfessor(a, b []int) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}

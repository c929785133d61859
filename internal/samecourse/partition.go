package samecourse

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"catalogid/internal/catalog"
	"catalogid/internal/invariants"
	"catalogid/internal/logging"
	"catalogid/internal/overrides"
	"catalogid/internal/textutil"
	"catalogid/internal/unionfind"
)

// Result maps course ids to group ids and back. A group id is always the
// minimum course id among its members.
type Result struct {
	GroupOf map[int]int
	Groups  map[int][]int
}

// GroupIDs returns every group id in ascending order.
func (r *Result) GroupIDs() []int {
	ids := make([]int, 0, len(r.Groups))
	for id := range r.Groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func newResult(groups [][]int) *Result {
	r := &Result{GroupOf: make(map[int]int), Groups: make(map[int][]int, len(groups))}
	for _, g := range groups {
		members := append([]int(nil), g...)
		sort.Ints(members)
		id := members[0]
		r.Groups[id] = members
		for _, m := range members {
			r.GroupOf[m] = id
		}
	}
	return r
}

// Partition computes same-course groups. The ordinary and summer universes
// are partitioned concurrently; each owns its forest.
func Partition(ctx context.Context, entities []Entity, rules Rules, logger *slog.Logger) (*Result, error) {
	logger = logging.NewComponentLogger(logger, "samecourse")

	var ordinary, summer []Entity
	var groups [][]int
	for _, e := range entities {
		switch {
		case e.Discussion:
			groups = append(groups, []int{e.ID})
		case catalog.IsSummer(e.Term, rules.SummerSuffix):
			summer = append(summer, e)
		default:
			ordinary = append(ordinary, e)
		}
	}

	universes := []struct {
		name     string
		entities []Entity
	}{
		{"ordinary", ordinary},
		{"summer", summer},
	}
	results := make([][][]int, len(universes))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range universes {
		g.Go(func() error {
			out, err := partitionUniverse(gctx, u.entities, rules, logger.With(logging.String("universe", u.name)))
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, r := range results {
		groups = append(groups, r...)
	}

	res := newResult(groups)
	logger.Info("partitioned same courses",
		logging.Int("courses", len(entities)),
		logging.Int("groups", len(res.Groups)),
		logging.Int("summer_courses", len(summer)))
	return res, nil
}

type universe struct {
	ents   []Entity
	forest *unionfind.Forest
	codes  *unionfind.Forest
	codeIx map[string]int
	rules  Rules
	logger *slog.Logger
}

func partitionUniverse(ctx context.Context, entities []Entity, rules Rules, logger *slog.Logger) ([][]int, error) {
	if len(entities) == 0 {
		return nil, nil
	}
	ents := append([]Entity(nil), entities...)
	sort.SliceStable(ents, func(i, j int) bool {
		if ents[i].Term != ents[j].Term {
			return ents[i].Term < ents[j].Term
		}
		return ents[i].ID < ents[j].ID
	})

	u := &universe{
		ents:   ents,
		forest: unionfind.New(len(ents)),
		rules:  rules,
		logger: logger,
	}
	u.linkCodes()

	steps := []struct {
		name string
		fn   func()
	}{
		{"exact_title", u.mergeExactTitles},
		{"same_code_fuzzy", u.mergeSameCodeFuzzy},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := u.forest.Sets()
		step.fn()
		logger.Debug("merge step complete",
			logging.String("step", step.name),
			logging.Int("merged", before-u.forest.Sets()),
			logging.Int("partitions", u.forest.Sets()))
	}

	all := make([]int, len(ents))
	for i := range all {
		all[i] = i
	}
	parts, err := u.applyOverrides(subgroups(u.forest, all))
	if err != nil {
		return nil, err
	}

	out := make([][]int, len(parts))
	for i, p := range parts {
		ids := make([]int, len(p))
		for j, idx := range p {
			ids[j] = ents[idx].ID
		}
		out[i] = ids
	}
	return out, nil
}

// linkCodes builds the auxiliary code forest: codes co-occurring in one
// entity have been cross-listed together at some point.
func (u *universe) linkCodes() {
	u.codeIx = make(map[string]int)
	for _, e := range u.ents {
		for _, c := range e.Codes {
			if _, ok := u.codeIx[c]; !ok {
				u.codeIx[c] = len(u.codeIx)
			}
		}
	}
	u.codes = unionfind.New(len(u.codeIx))
	for _, e := range u.ents {
		for i := 1; i < len(e.Codes); i++ {
			u.codes.Union(u.codeIx[e.Codes[0]], u.codeIx[e.Codes[i]])
		}
	}
}

func (u *universe) mergeExactTitles() {
	byTitle := make(map[string][]int)
	for i, e := range u.ents {
		if e.Title == "" {
			continue
		}
		byTitle[e.Title] = append(byTitle[e.Title], i)
	}
	for _, title := range sortedKeys(byTitle) {
		members := byTitle[title]
		if len(members) < 2 {
			continue
		}

		byDept := make(map[string][]int)
		for _, m := range members {
			for _, d := range u.ents[m].departments() {
				byDept[d] = append(byDept[d], m)
			}
		}
		for _, d := range sortedKeys(byDept) {
			ms := byDept[d]
			for _, m := range ms[1:] {
				u.forest.Union(ms[0], m)
			}
		}
		if u.forest.AllConnected(members) {
			continue
		}

		subs := subgroups(u.forest, members)
		for i := 0; i < len(subs); i++ {
			for j := i + 1; j < len(subs); j++ {
				if u.forest.Connected(subs[i][0], subs[j][0]) {
					continue
				}
				if u.codesLinked(subs[i], subs[j]) {
					u.forest.Union(subs[i][0], subs[j][0])
				}
			}
		}
		if u.forest.AllConnected(members) {
			continue
		}

		if u.rules.IsGeneric(title) {
			continue
		}
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := members[i], members[j]
				if u.forest.Connected(a, b) {
					continue
				}
				if shareProfessor(u.ents[a].Professors, u.ents[b].Professors) {
					u.forest.Union(a, b)
				}
			}
		}
	}
}

func (u *universe) codesLinked(a, b []int) bool {
	roots := make(map[int]struct{})
	for _, m := range a {
		for _, c := range u.ents[m].Codes {
			roots[u.codes.Find(u.codeIx[c])] = struct{}{}
		}
	}
	for _, m := range b {
		for _, c := range u.ents[m].Codes {
			if _, ok := roots[u.codes.Find(u.codeIx[c])]; ok {
				return true
			}
		}
	}
	return false
}

// mergeSameCodeFuzzy catches same-code entities whose titles drifted.
// Same-term pairs are distinct sections and never merge here.
func (u *universe) mergeSameCodeFuzzy() {
	byCode := make(map[string][]int)
	for i, e := range u.ents {
		for _, c := range e.Codes {
			byCode[c] = append(byCode[c], i)
		}
	}
	for _, code := range sortedKeys(byCode) {
		members := byCode[code]
		if u.forest.AllConnected(members) {
			continue
		}
		u.fuzzyPass(members, func(e Entity) string { return e.Title }, u.rules.MinTitleMatchLen, u.rules.MaxTitleDistance)
		if u.forest.AllConnected(members) {
			continue
		}
		u.fuzzyPass(members, func(e Entity) string { return e.Description }, u.rules.MinDescriptionMatchLen, u.rules.MaxDescriptionDistance)
	}
}

func (u *universe) fuzzyPass(members []int, text func(Entity) string, minLen int, maxRatio float64) {
	for i := 0; i < len(members); i++ {
		a := u.ents[members[i]]
		ta := text(a)
		if !longEnough(ta, minLen) {
			continue
		}
		for j := i + 1; j < len(members); j++ {
			b := u.ents[members[j]]
			if a.Term == b.Term || u.forest.Connected(members[i], members[j]) {
				continue
			}
			tb := text(b)
			if !longEnough(tb, minLen) {
				continue
			}
			if textutil.WithinDistance(ta, tb, maxRatio) {
				u.forest.Union(members[i], members[j])
			}
		}
	}
}

func longEnough(s string, minLen int) bool {
	if s == "" {
		return false
	}
	return len([]rune(s)) >= minLen
}

// applyOverrides splits every partition covered by exactly one spec along
// that spec's groups.
func (u *universe) applyOverrides(parts [][]int) ([][]int, error) {
	if len(u.rules.Overrides) == 0 {
		return parts, nil
	}
	out := make([][]int, 0, len(parts))
	for _, p := range parts {
		members := make([]overrides.Member, len(p))
		for i, idx := range p {
			e := u.ents[idx]
			members[i] = overrides.Member{ID: e.ID, Term: e.Term, Codes: e.Codes}
		}

		var matched []int
		for si, spec := range u.rules.Overrides {
			if spec.CoveredBy(members) {
				matched = append(matched, si)
			}
		}
		switch len(matched) {
		case 0:
			out = append(out, p)
			continue
		case 1:
		default:
			names := make([]string, len(matched))
			for i, si := range matched {
				names[i] = u.rules.Overrides[si].String()
			}
			return nil, invariants.Wrap(invariants.ErrOverrideConflict, "samecourse", "override",
				fmt.Sprintf("partition %s matches several override specs: %s", describe(members), strings.Join(names, "; ")), nil)
		}

		spec := u.rules.Overrides[matched[0]]
		split := make([][]int, len(spec.Groups))
		for i, m := range members {
			gs := spec.GroupsOf(m.Term, m.Codes)
			if len(gs) != 1 {
				return nil, invariants.Wrap(invariants.ErrOverrideConflict, "samecourse", "override",
					fmt.Sprintf("course %d (term %s, codes %s) matches %d groups of override %q within partition %s",
						m.ID, m.Term, strings.Join(m.Codes, "/"), len(gs), spec.String(), describe(members)), nil)
			}
			split[gs[0]] = append(split[gs[0]], p[i])
		}
		for _, s := range split {
			if len(s) > 0 {
				out = append(out, s)
			}
		}
		u.logger.Info("applied override split",
			logging.String("override", spec.String()),
			logging.Int("courses", len(p)),
			logging.Int("parts", len(spec.Groups)))
	}
	return out, nil
}

func describe(members []overrides.Member) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = fmt.Sprintf("%d[%s %s]", m.ID, m.Term, strings.Join(m.Codes, "/"))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// subgroups returns the sets of members ordered by first appearance, each
// keeping input order.
func subgroups(f *unionfind.Forest, members []int) [][]int {
	index := make(map[int]int)
	var out [][]int
	for _, m := range members {
		r := f.Find(m)
		i, ok := index[r]
		if !ok {
			i = len(out)
			index[r] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], m)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package professors

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"catalogid/internal/catalog"
	"catalogid/internal/crosslist"
	"catalogid/internal/idcache"
	"catalogid/internal/invariants"
	"catalogid/internal/logging"
)

// Professor is one resolved instructor identity.
type Professor struct {
	ID    int
	Name  string
	Email string
}

// Result holds the professor table and the course junction.
type Result struct {
	Professors []Professor
	// CourseProfessors maps course id to its sorted professor ids.
	CourseProfessors map[int][]int
	Pairs            map[string]int
	Diagnostics      invariants.Diagnostics
}

// Key formats the natural key of an instructor.
func Key(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if email == "" {
		return name
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// ParseKey splits a natural key back into name and email.
func ParseKey(key string) (string, string) {
	name, rest, ok := strings.Cut(key, "<")
	if !ok {
		return strings.TrimSpace(key), ""
	}
	return strings.TrimSpace(name), strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), ">"))
}

type registry struct {
	byName  map[string][]int
	byEmail map[string][]int
	info    map[int]Professor
	next    int
}

func newRegistry(cache *idcache.Cache) *registry {
	r := &registry{
		byName:  make(map[string][]int),
		byEmail: make(map[string][]int),
		info:    make(map[int]Professor),
		next:    cache.Max() + 1,
	}
	for _, e := range cache.Entries() {
		name, email := ParseKey(e.Key)
		r.remember(e.ID, name, email)
	}
	return r
}

func (r *registry) remember(id int, name, email string) {
	if name != "" && !containsInt(r.byName[name], id) {
		r.byName[name] = append(r.byName[name], id)
	}
	if email != "" && !containsInt(r.byEmail[email], id) {
		r.byEmail[email] = append(r.byEmail[email], id)
	}
	cur, ok := r.info[id]
	if !ok || (cur.Email == "" && email != "") {
		r.info[id] = Professor{ID: id, Name: name, Email: email}
	}
}

// match returns the most common id among email and name matches; ties go to
// the smallest id.
func (r *registry) match(name, email string) (int, bool, bool) {
	counts := make(map[int]int)
	for _, id := range r.byName[name] {
		counts[id]++
	}
	if email != "" {
		for _, id := range r.byEmail[email] {
			counts[id]++
		}
	}
	if len(counts) == 0 {
		return 0, false, false
	}
	best, bestCount, tied := 0, 0, false
	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		switch c := counts[id]; {
		case c > bestCount:
			best, bestCount, tied = id, c, false
		case c == bestCount:
			tied = true
		}
	}
	return best, true, tied
}

// Resolve assigns professor ids to the instructors of every course's
// canonical offering.
func Resolve(offerings []catalog.Offering, courses []crosslist.Course, cache *idcache.Cache, logger *slog.Logger) *Result {
	logger = logging.NewComponentLogger(logger, "professors")
	reg := newRegistry(cache)
	pairs := make(map[string]int)
	courseProfs := make(map[int][]int, len(courses))

	ordered := append([]crosslist.Course(nil), courses...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Term < ordered[j].Term })

	for _, course := range ordered {
		var ids []int
		for _, inst := range offerings[course.Canonical()].Instructors() {
			key := Key(inst.Name, inst.Email)
			id, ok := pairs[key]
			if !ok {
				id, ok = cache.Lookup(key)
			}
			if !ok {
				var tied bool
				id, ok, tied = reg.match(inst.Name, inst.Email)
				if tied {
					logger.Debug("professor has tied matches",
						logging.String("name", inst.Name),
						logging.String("email", inst.Email),
						logging.Int("chosen_id", id))
				}
			}
			if !ok {
				id = reg.next
				reg.next++
			}
			pairs[key] = id
			reg.remember(id, inst.Name, inst.Email)
			if !containsInt(ids, id) {
				ids = append(ids, id)
			}
		}
		sort.Ints(ids)
		courseProfs[course.ID] = ids
	}

	diags := dropShadowedKeys(pairs, logger)

	used := make(map[int]struct{})
	for _, ids := range courseProfs {
		for _, id := range ids {
			used[id] = struct{}{}
		}
	}
	profs := make([]Professor, 0, len(used))
	for id := range used {
		profs = append(profs, reg.info[id])
	}
	sort.Slice(profs, func(i, j int) bool { return profs[i].ID < profs[j].ID })

	logger.Debug("resolved professors",
		logging.Int("professors", len(profs)),
		logging.Int("new_keys", len(pairs)))
	return &Result{Professors: profs, CourseProfessors: courseProfs, Pairs: pairs, Diagnostics: diags}
}

// dropShadowedKeys removes bare-name keys whenever a "name <email>" key for
// the same name exists. Lookups always prefer the specific key, so the bare
// one would never be consulted again.
func dropShadowedKeys(pairs map[string]int, logger *slog.Logger) invariants.Diagnostics {
	shadowed := make(map[string]string)
	for key := range pairs {
		name, email := ParseKey(key)
		if email == "" {
			continue
		}
		if _, ok := pairs[name]; ok {
			shadowed[name] = key
		}
	}
	if len(shadowed) == 0 {
		return nil
	}
	names := make([]string, 0, len(shadowed))
	for n := range shadowed {
		names = append(names, n)
	}
	sort.Strings(names)

	var diags invariants.Diagnostics
	for _, n := range names {
		diags.Add(invariants.Diagnostic{
			Stage:   "professors",
			Event:   "shadowed_professor_key",
			Message: fmt.Sprintf("bare key %q is shadowed by %q and will not be cached", n, shadowed[n]),
			Keys:    []string{n, shadowed[n]},
			IDs:     []int{pairs[n]},
		})
		delete(pairs, n)
	}
	logging.WarnWithContext(logger, "dropping shadowed professor keys",
		"professor_key_shadowed",
		logging.Any("names", names),
		logging.String(logging.FieldErrorHint, "the same instructor appears with and without an email"),
		logging.String(logging.FieldImpact, "only the keys with email are cached"))
	return diags
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

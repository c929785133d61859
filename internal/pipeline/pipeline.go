package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"catalogid/internal/catalog"
	"catalogid/internal/config"
	"catalogid/internal/crosslist"
	"catalogid/internal/export"
	"catalogid/internal/flags"
	"catalogid/internal/history"
	"catalogid/internal/idcache"
	"catalogid/internal/invariants"
	"catalogid/internal/logging"
	"catalogid/internal/preflight"
	"catalogid/internal/professors"
	"catalogid/internal/samecourse"
)

// Result is the outcome of a run.
type Result struct {
	RunID       string
	Terms       []string
	Tables      *export.Tables
	Diagnostics invariants.Diagnostics
	Outputs     []string
}

// Summary is a count-level view of a run for reporting.
type Summary struct {
	RunID              string         `json:"run_id"`
	Terms              int            `json:"terms"`
	Offerings          int            `json:"offerings"`
	Courses            int            `json:"courses"`
	SameCourseGroups   int            `json:"same_course_groups"`
	SameCourseAndProfs int            `json:"same_course_and_profs_groups"`
	Professors         int            `json:"professors"`
	Flags              int            `json:"flags"`
	Diagnostics        int            `json:"diagnostics"`
	DiagnosticsByEvent map[string]int `json:"diagnostics_by_event,omitempty"`
	Outputs            []string       `json:"outputs,omitempty"`
}

// Summary tallies the result tables.
func (r *Result) Summary() Summary {
	countGroups := func(members []export.GroupMember) int {
		seen := make(map[int]struct{})
		for _, m := range members {
			seen[m.GroupID] = struct{}{}
		}
		return len(seen)
	}
	return Summary{
		RunID:              r.RunID,
		Terms:              len(r.Terms),
		Offerings:          len(r.Tables.Listings),
		Courses:            len(r.Tables.Courses),
		SameCourseGroups:   countGroups(r.Tables.SameCourses),
		SameCourseAndProfs: countGroups(r.Tables.SameCourseAndProfs),
		Professors:         len(r.Tables.Professors),
		Flags:              len(r.Tables.Flags),
		Diagnostics:        len(r.Diagnostics),
		DiagnosticsByEvent: r.Diagnostics.CountByEvent(),
		Outputs:            r.Outputs,
	}
}

// Pending holds the key to id pairs observed during a run, per cache kind.
type Pending map[idcache.Kind]map[string]int

// Run resolves identities for offerings against the caches in
// cfg.Paths.CacheDir and persists the updated caches on success.
func Run(ctx context.Context, cfg *config.Config, offerings []catalog.Offering, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger = logging.WithContext(ctx, logger)

	rules, err := RulesFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	lock, err := idcache.Acquire(ctx, cfg.Paths.CacheDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release cache lock", logging.Error(err))
		}
	}()

	caches, err := idcache.LoadSet(cfg.Paths.CacheDir)
	if err != nil {
		return nil, err
	}

	res, pending, err := Resolve(ctx, offerings, caches, rules, logger)
	if err != nil {
		return nil, err
	}
	res.RunID = runID

	mergeDiags, err := caches.MergeAll(pending, logger)
	res.Diagnostics.Extend(mergeDiags)
	if err != nil {
		return nil, err
	}

	logger.Info("identity resolution complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("terms", len(res.Terms)),
		logging.Int("offerings", len(offerings)),
		logging.Int("courses", len(res.Tables.Courses)),
		logging.Int("diagnostics", len(res.Diagnostics)))
	return res, nil
}

// Resolve runs every stage against already-loaded caches without touching
// disk. The returned pairs are what Run merges back.
func Resolve(ctx context.Context, offerings []catalog.Offering, caches *idcache.Set, rules samecourse.Rules, logger *slog.Logger) (*Result, Pending, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	offerings = append([]catalog.Offering(nil), offerings...)
	catalog.Sort(offerings)

	var diags invariants.Diagnostics
	pending := make(Pending)

	offeringIDs := idcache.Assign(offerings, catalog.Offering.Key, caches.Get(idcache.KindOffering))
	pending[idcache.KindOffering] = make(map[string]int, len(offerings))
	for i, o := range offerings {
		pending[idcache.KindOffering][o.Key()] = offeringIDs[i]
	}

	cl, err := crosslist.Resolve(offerings, caches.Get(idcache.KindCourse), logger)
	if err != nil {
		return nil, nil, err
	}
	diags.Extend(cl.Diagnostics)
	pending[idcache.KindCourse] = cl.Pairs

	profs := professors.Resolve(offerings, cl.Courses, caches.Get(idcache.KindProfessor), logger)
	diags.Extend(profs.Diagnostics)
	pending[idcache.KindProfessor] = profs.Pairs

	fl := flags.Resolve(offerings, cl.Courses, caches.Get(idcache.KindFlag))
	pending[idcache.KindFlag] = fl.Pairs

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	entities := samecourse.BuildEntities(offerings, cl.Courses, profs.CourseProfessors, rules)
	same, err := samecourse.Partition(ctx, entities, rules, logger)
	if err != nil {
		return nil, nil, err
	}
	refined := samecourse.Refine(same, entities)

	stats, histDiags := history.Compute(entities, same, logger)
	diags.Extend(histDiags)

	tables := buildTables(offerings, offeringIDs, cl, entities, same, refined, stats, profs, fl)
	if err := checkInvariants(offerings, cl, tables, same, refined); err != nil {
		return nil, nil, err
	}

	for _, d := range diags {
		logger.Debug("diagnostic", logging.String("stage", d.Stage), logging.String(logging.FieldEventType, d.Event), logging.String("detail", d.String()))
	}
	return &Result{
		Terms:       catalog.Terms(offerings),
		Tables:      tables,
		Diagnostics: diags,
	}, pending, nil
}

func buildTables(
	offerings []catalog.Offering,
	offeringIDs []int,
	cl *crosslist.Result,
	entities []samecourse.Entity,
	same, refined *samecourse.Result,
	stats map[int]history.Stats,
	profs *professors.Result,
	fl *flags.Result,
) *export.Tables {
	t := &export.Tables{}

	for i, o := range offerings {
		t.Listings = append(t.Listings, export.Listing{
			OfferingID: offeringIDs[i],
			Term:       o.Term,
			CRN:        o.CRN,
			CourseID:   cl.CourseIDs[i],
			Code:       o.Code(),
			Section:    o.Section,
		})
	}

	byID := make(map[int]samecourse.Entity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}
	for _, c := range cl.Courses {
		st := stats[c.ID]
		t.Courses = append(t.Courses, export.Course{
			CourseID:                   c.ID,
			Term:                       c.Term,
			Codes:                      byID[c.ID].Codes,
			Title:                      offerings[c.Canonical()].Title,
			SameCourseID:               same.GroupOf[c.ID],
			SameCourseAndProfsID:       refined.GroupOf[c.ID],
			LastOfferedCourseID:        st.LastOffered,
			LastSameProfessorsCourseID: st.LastSameProfessors,
		})
		for _, pid := range profs.CourseProfessors[c.ID] {
			t.CourseProfessors = append(t.CourseProfessors, export.CourseProfessor{CourseID: c.ID, ProfessorID: pid})
		}
		for _, fid := range fl.CourseFlags[c.ID] {
			t.CourseFlags = append(t.CourseFlags, export.CourseFlag{CourseID: c.ID, FlagID: fid})
		}
	}
	sort.Slice(t.Courses, func(i, j int) bool { return t.Courses[i].CourseID < t.Courses[j].CourseID })
	sort.Slice(t.CourseProfessors, func(i, j int) bool {
		a, b := t.CourseProfessors[i], t.CourseProfessors[j]
		if a.CourseID != b.CourseID {
			return a.CourseID < b.CourseID
		}
		return a.ProfessorID < b.ProfessorID
	})
	sort.Slice(t.CourseFlags, func(i, j int) bool {
		a, b := t.CourseFlags[i], t.CourseFlags[j]
		if a.CourseID != b.CourseID {
			return a.CourseID < b.CourseID
		}
		return a.FlagID < b.FlagID
	})

	t.SameCourses = groupMembers(same)
	t.SameCourseAndProfs = groupMembers(refined)

	for _, p := range profs.Professors {
		t.Professors = append(t.Professors, export.Professor{ProfessorID: p.ID, Name: p.Name, Email: p.Email})
	}
	for _, f := range fl.Flags {
		t.Flags = append(t.Flags, export.Flag{FlagID: f.ID, Text: f.Text})
	}
	return t
}

func groupMembers(r *samecourse.Result) []export.GroupMember {
	var out []export.GroupMember
	for _, gid := range r.GroupIDs() {
		for _, m := range r.Groups[gid] {
			out = append(out, export.GroupMember{GroupID: gid, CourseID: m})
		}
	}
	return out
}

func checkInvariants(offerings []catalog.Offering, cl *crosslist.Result, t *export.Tables, same, refined *samecourse.Result) error {
	for i, id := range cl.CourseIDs {
		if id == 0 {
			return invariants.Wrap(invariants.ErrInvariant, "pipeline", "check",
				fmt.Sprintf("offering %s has no course", offerings[i].Key()), nil)
		}
	}
	listed := make(map[int]struct{}, len(t.Courses))
	for _, l := range t.Listings {
		listed[l.CourseID] = struct{}{}
	}
	for _, c := range t.Courses {
		if _, ok := listed[c.CourseID]; !ok {
			return invariants.Wrap(invariants.ErrInvariant, "pipeline", "check",
				fmt.Sprintf("course %d has no listing", c.CourseID), nil)
		}
		if _, ok := same.GroupOf[c.CourseID]; !ok {
			return invariants.Wrap(invariants.ErrInvariant, "pipeline", "check",
				fmt.Sprintf("course %d has no same-course group", c.CourseID), nil)
		}
	}
	if err := samecourse.CheckRefinement(same, refined); err != nil {
		return invariants.Wrap(invariants.ErrInvariant, "pipeline", "check", "same-course-and-professors refinement", err)
	}
	return nil
}

// Execute runs preflight, loads every snapshot from the input directory,
// resolves identities, and writes the configured outputs.
func Execute(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := preflight.Failed(preflight.RunAll(cfg)); err != nil {
		return nil, invariants.Wrap(invariants.ErrConfiguration, "pipeline", "preflight", "", err)
	}

	offerings, err := catalog.LoadDir(cfg.Paths.InputDir)
	if err != nil {
		return nil, err
	}
	if len(offerings) == 0 {
		return nil, invariants.Wrap(invariants.ErrInvalidInput, "pipeline", "load",
			fmt.Sprintf("no term snapshots in %s", cfg.Paths.InputDir), nil)
	}
	logger.Info("loaded snapshots",
		logging.String("dir", cfg.Paths.InputDir),
		logging.Int("offerings", len(offerings)),
		logging.Int("terms", len(catalog.Terms(offerings))))

	res, err := Run(ctx, cfg, offerings, logger)
	if err != nil {
		return nil, err
	}

	outputs, err := export.Write(ctx, cfg.Paths.OutputDir, cfg.Output.Formats, res.Tables, logging.WithContext(logging.WithRunID(ctx, res.RunID), logger))
	if err != nil {
		return res, err
	}
	res.Outputs = outputs
	return res, nil
}

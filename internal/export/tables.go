package export

import "strings"

// Listing links one offering to its course.
type Listing struct {
	OfferingID int
	Term       string
	CRN        int
	CourseID   int
	Code       string
	Section    string
}

// Course is one course entity with its group and history links. Zero links
// mean none.
type Course struct {
	CourseID                   int
	Term                       string
	Codes                      []string
	Title                      string
	SameCourseID               int
	SameCourseAndProfsID       int
	LastOfferedCourseID        int
	LastSameProfessorsCourseID int
}

// GroupMember is one row of a reverse group-membership table.
type GroupMember struct {
	GroupID  int
	CourseID int
}

// Professor is one instructor identity.
type Professor struct {
	ProfessorID int
	Name        string
	Email       string
}

// CourseProfessor links a course to an instructor.
type CourseProfessor struct {
	CourseID    int
	ProfessorID int
}

// Flag is one requirement flag.
type Flag struct {
	FlagID int
	Text   string
}

// CourseFlag links a course to a flag.
type CourseFlag struct {
	CourseID int
	FlagID   int
}

// Tables is the full output of a run.
type Tables struct {
	Listings           []Listing
	Courses            []Course
	SameCourses        []GroupMember
	SameCourseAndProfs []GroupMember
	Professors         []Professor
	CourseProfessors   []CourseProfessor
	Flags              []Flag
	CourseFlags        []CourseFlag
}

type table struct {
	name    string
	columns []string
	rows    func(*Tables) [][]any
}

func optionalID(id int) any {
	if id == 0 {
		return nil
	}
	return id
}

func optionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var tables = []table{
	{
		name: "courses",
		columns: []string{"course_id", "term", "codes", "title", "same_course_id",
			"same_course_and_profs_id", "last_offered_course_id", "last_same_professors_course_id"},
		rows: func(t *Tables) [][]any {
			out := make([][]any, len(t.Courses))
			for i, c := range t.Courses {
				out[i] = []any{c.CourseID, c.Term, strings.Join(c.Codes, "|"), c.Title, c.SameCourseID,
					c.SameCourseAndProfsID, optionalID(c.LastOfferedCourseID), optionalID(c.LastSameProfessorsCourseID)}
			}
			return out
		},
	},
	{
		name:    "listings",
		columns: []string{"offering_id", "term", "crn", "course_id", "code", "section"},
		rows: func(t *Tables) [][]any {
			out := make([][]any, len(t.Listings))
			for i, l := range t.Listings {
				out[i] = []any{l.OfferingID, l.Term, l.CRN, l.CourseID, l.Code, optionalString(l.Section)}
			}
			return out
		},
	},
	{
		name:    "same_courses",
		columns: []string{"same_course_id", "course_id"},
		rows:    func(t *Tables) [][]any { return groupRows(t.SameCourses) },
	},
	{
		name:    "same_course_and_profs",
		columns: []string{"same_course_and_profs_id", "course_id"},
		rows:    func(t *Tables) [][]any { return groupRows(t.SameCourseAndProfs) },
	},
	{
		name:    "professors",
		columns: []string{"professor_id", "name", "email"},
		rows: func(t *Tables) [][]any {
			out := make([][]any, len(t.Professors))
			for i, p := range t.Professors {
				out[i] = []any{p.ProfessorID, p.Name, optionalString(p.Email)}
			}
			return out
		},
	},
	{
		name:    "course_professors",
		columns: []string{"course_id", "professor_id"},
		rows: func(t *Tables) [][]any {
			out := make([][]any, len(t.CourseProfessors))
			for i, cp := range t.CourseProfessors {
				out[i] = []any{cp.CourseID, cp.ProfessorID}
			}
			return out
		},
	},
	{
		name:    "flags",
		columns: []string{"flag_id", "flag_text"},
		rows: func(t *Tables) [][]any {
			out := make([][]any, len(t.Flags))
			for i, f := range t.Flags {
				out[i] = []any{f.FlagID, f.Text}
			}
			return out
		},
	},
	{
		name:    "course_flags",
		columns: []string{"course_id", "flag_id"},
		rows: func(t *Tables) [][]any {
			out := make([][]any, len(t.CourseFlags))
			for i, cf := range t.CourseFlags {
				out[i] = []any{cf.CourseID, cf.FlagID}
			}
			return out
		},
	},
}

func groupRows(members []GroupMember) [][]any {
	out := make([][]any, len(members))
	for i, m := range members {
		out[i] = []any{m.GroupID, m.CourseID}
	}
	return out
}

// TableNames lists the exported tables in write order.
func TableNames() []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.name
	}
	return names
}

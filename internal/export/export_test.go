package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func sampleTables() *Tables {
	return &Tables{
		Listings: []Listing{
			{OfferingID: 1, Term: "202401", CRN: 10, CourseID: 1, Code: "ECON 101", Section: "1"},
			{OfferingID: 2, Term: "202403", CRN: 20, CourseID: 2, Code: "ECON 101"},
		},
		Courses: []Course{
			{CourseID: 1, Term: "202401", Codes: []string{"ECON 101"}, Title: "Intro to Economics", SameCourseID: 1, SameCourseAndProfsID: 1},
			{CourseID: 2, Term: "202403", Codes: []string{"ECON 101", "GLBL 101"}, Title: "Intro to Economics", SameCourseID: 1, SameCourseAndProfsID: 2,
				LastOfferedCourseID: 1, LastSameProfessorsCourseID: 1},
		},
		SameCourses:        []GroupMember{{GroupID: 1, CourseID: 1}, {GroupID: 1, CourseID: 2}},
		SameCourseAndProfs: []GroupMember{{GroupID: 1, CourseID: 1}, {GroupID: 2, CourseID: 2}},
		Professors:         []Professor{{ProfessorID: 5, Name: "Ada Lovelace", Email: "ada@example.edu"}, {ProfessorID: 6, Name: "Grace Hopper"}},
		CourseProfessors:   []CourseProfessor{{CourseID: 1, ProfessorID: 5}, {CourseID: 2, ProfessorID: 6}},
		Flags:              []Flag{{FlagID: 1, Text: "YC SO: Social Science"}},
		CourseFlags:        []CourseFlag{{CourseID: 1, FlagID: 1}, {CourseID: 2, FlagID: 1}},
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteCSV(dir, sampleTables())
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if len(paths) != len(TableNames()) {
		t.Fatalf("expected %d files, got %d", len(TableNames()), len(paths))
	}

	file, err := os.Open(filepath.Join(dir, "courses.csv"))
	if err != nil {
		t.Fatalf("open courses.csv: %v", err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "course_id" || records[0][7] != "last_same_professors_course_id" {
		t.Fatalf("unexpected header %v", records[0])
	}
	if records[1][6] != "" {
		t.Fatalf("expected empty last-offered link for first course, got %q", records[1][6])
	}
	if records[2][2] != "ECON 101|GLBL 101" || records[2][6] != "1" {
		t.Fatalf("unexpected second row %v", records[2])
	}
}

func TestWriteSQLiteRecreatesDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DatabaseName)

	for i := 0; i < 2; i++ {
		if err := WriteSQLite(ctx, path, sampleTables()); err != nil {
			t.Fatalf("WriteSQLite run %d: %v", i, err)
		}
	}

	want := map[string]int{
		"courses":               2,
		"listings":              2,
		"same_courses":          2,
		"same_course_and_profs": 2,
		"professors":            2,
		"course_professors":     2,
		"flags":                 1,
		"course_flags":          2,
	}
	for name, n := range want {
		got, err := CountRows(ctx, path, name)
		if err != nil {
			t.Fatalf("CountRows(%s): %v", name, err)
		}
		if got != n {
			t.Fatalf("table %s has %d rows, want %d", name, got, n)
		}
	}
}

func TestWriteSQLiteRejectsDanglingReference(t *testing.T) {
	tables := sampleTables()
	tables.CourseProfessors = append(tables.CourseProfessors, CourseProfessor{CourseID: 1, ProfessorID: 99})
	if err := WriteSQLite(context.Background(), filepath.Join(t.TempDir(), DatabaseName), tables); err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	if _, err := Write(context.Background(), t.TempDir(), []string{"parquet"}, sampleTables(), nil); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

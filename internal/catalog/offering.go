package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// SectionKind distinguishes ordinary sections from discussion sections.
type SectionKind string

const (
	SectionOrdinary   SectionKind = "ordinary"
	SectionDiscussion SectionKind = "discussion"
)

// Offering is one row of a term's catalog snapshot.
type Offering struct {
	Term        string      `json:"term"`
	CRN         int         `json:"crn"`
	CRNs        []int       `json:"crns"`
	Subject     string      `json:"subject"`
	Number      string      `json:"number"`
	Section     string      `json:"section"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Professors  []string    `json:"professors"`
	Emails      []string    `json:"professor_emails"`
	School      string      `json:"school"`
	Kind        SectionKind `json:"section_type"`
	Flags       []string    `json:"flags"`
}

// Key returns the natural key "term-crn" used by the id caches.
func (o Offering) Key() string {
	return OfferingKey(o.Term, o.CRN)
}

// OfferingKey formats the natural key of an offering.
func OfferingKey(term string, crn int) string {
	return fmt.Sprintf("%s-%d", term, crn)
}

// Code returns the offering's raw "SUBJECT NUMBER" code.
func (o Offering) Code() string {
	return strings.TrimSpace(o.Subject) + " " + strings.TrimSpace(o.Number)
}

// IsDiscussion reports whether the offering is a discussion section.
func (o Offering) IsDiscussion() bool {
	return o.Kind == SectionDiscussion
}

// CrossListed returns the sorted, deduplicated CRN set the offering declares,
// always including its own CRN.
func (o Offering) CrossListed() []int {
	seen := map[int]struct{}{o.CRN: {}}
	out := []int{o.CRN}
	for _, crn := range o.CRNs {
		if _, ok := seen[crn]; ok {
			continue
		}
		seen[crn] = struct{}{}
		out = append(out, crn)
	}
	sort.Ints(out)
	return out
}

// IsUndergraduate reports whether the offering belongs to the undergraduate
// college. Rows without a school are classified by course number: numbers in
// the 000-499 range with fewer than four digits count as undergraduate.
func (o Offering) IsUndergraduate() bool {
	school := strings.TrimSpace(o.School)
	if school == "YC" {
		return true
	}
	if school != "" {
		return false
	}
	number := strings.TrimSpace(o.Number)
	if number == "" {
		return false
	}
	digits := 0
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return strings.ContainsRune("01234", rune(number[0])) && digits < 4
}

// Instructor is one named instructor of an offering.
type Instructor struct {
	Name  string
	Email string
}

// Instructors pairs professor names with emails by position. Empty names are
// dropped; emails are discarded entirely when the counts disagree.
func (o Offering) Instructors() []Instructor {
	names := make([]string, 0, len(o.Professors))
	for _, n := range o.Professors {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil
	}
	emails := make([]string, 0, len(o.Emails))
	for _, e := range o.Emails {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}
	if len(emails) != len(names) {
		emails = nil
	}
	out := make([]Instructor, len(names))
	for i, n := range names {
		out[i] = Instructor{Name: n}
		if emails != nil {
			out[i].Email = emails[i]
		}
	}
	return out
}

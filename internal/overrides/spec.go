package overrides

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Marker identifies course entities by code, optionally restricted to a term.
type Marker struct {
	Code string `json:"code"`
	Term string `json:"term,omitempty"`
}

// UnmarshalJSON accepts either {"code": "...", "term": "..."} or a bare
// "CODE" / "CODE@TERM" string.
func (m *Marker) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		code, term, _ := strings.Cut(s, "@")
		m.Code = code
		m.Term = term
		return nil
	}
	type plain Marker
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Marker(p)
	return nil
}

func (m Marker) String() string {
	if m.Term == "" {
		return m.Code
	}
	return m.Code + "@" + m.Term
}

// Matches reports whether a course entity with the given term and code set
// carries this marker.
func (m Marker) Matches(term string, codes []string) bool {
	if m.Term != "" && m.Term != term {
		return false
	}
	for _, c := range codes {
		if c == m.Code {
			return true
		}
	}
	return false
}

// Spec is one override split specification.
type Spec struct {
	Name   string     `json:"name"`
	Groups [][]Marker `json:"groups"`
}

func (s Spec) String() string {
	if s.Name != "" {
		return s.Name
	}
	parts := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		markers := make([]string, len(g))
		for j, m := range g {
			markers[j] = m.String()
		}
		parts[i] = strings.Join(markers, "+")
	}
	return strings.Join(parts, " | ")
}

// GroupsOf returns the indices of the spec groups a course entity belongs to.
func (s Spec) GroupsOf(term string, codes []string) []int {
	var out []int
	for i, g := range s.Groups {
		for _, m := range g {
			if m.Matches(term, codes) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// Member is the view of a course entity used for override matching.
type Member struct {
	ID    int
	Term  string
	Codes []string
}

// CoveredBy reports whether every group of the spec is represented among
// members.
func (s Spec) CoveredBy(members []Member) bool {
	if len(s.Groups) == 0 {
		return false
	}
	seen := make([]bool, len(s.Groups))
	remaining := len(s.Groups)
	for _, m := range members {
		for _, g := range s.GroupsOf(m.Term, m.Codes) {
			if !seen[g] {
				seen[g] = true
				remaining--
			}
		}
		if remaining == 0 {
			return true
		}
	}
	return false
}

// Normalize rewrites every marker code through fn and trims terms.
func (s *Spec) Normalize(fn func(string) string) {
	s.Name = strings.TrimSpace(s.Name)
	for i := range s.Groups {
		for j := range s.Groups[i] {
			m := &s.Groups[i][j]
			m.Code = fn(m.Code)
			m.Term = strings.TrimSpace(m.Term)
		}
	}
}

// Validate rejects specs that could never split anything or whose groups
// overlap.
func (s Spec) Validate() error {
	if len(s.Groups) < 2 {
		return fmt.Errorf("override %q: needs at least two groups", s.String())
	}
	owner := make(map[Marker]int)
	for i, g := range s.Groups {
		if len(g) == 0 {
			return fmt.Errorf("override %q: group %d is empty", s.String(), i)
		}
		for _, m := range g {
			if strings.TrimSpace(m.Code) == "" {
				return fmt.Errorf("override %q: group %d has a marker without a code", s.String(), i)
			}
			if prev, ok := owner[m]; ok && prev != i {
				return fmt.Errorf("override %q: marker %s appears in groups %d and %d", s.String(), m, prev, i)
			}
			owner[m] = i
		}
	}
	return nil
}

// NormalizeCode uppercases a "SUBJECT NUMBER" code and collapses spacing.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), " "))
}

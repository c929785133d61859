package catalog

import (
	"sort"
	"strings"
)

// DefaultSummerSuffix is the final digit of summer-session term codes.
const DefaultSummerSuffix = "2"

// IsSummer reports whether term is a summer session under the given suffix.
func IsSummer(term, suffix string) bool {
	if suffix == "" {
		suffix = DefaultSummerSuffix
	}
	return strings.HasSuffix(strings.TrimSpace(term), suffix)
}

// SeasonName maps a YYYYS term code to its season label.
func SeasonName(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	switch term[len(term)-1] {
	case '1':
		return "spring"
	case '2':
		return "summer"
	case '3':
		return "fall"
	default:
		return ""
	}
}

// Terms returns the distinct terms of offerings in ascending order.
func Terms(offerings []Offering) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, o := range offerings {
		if _, ok := seen[o.Term]; ok {
			continue
		}
		seen[o.Term] = struct{}{}
		out = append(out, o.Term)
	}
	sort.Strings(out)
	return out
}

// ByTerm groups offering indices by term. Indices keep input order.
func ByTerm(offerings []Offering) map[string][]int {
	out := make(map[string][]int)
	for i, o := range offerings {
		out[o.Term] = append(out[o.Term], i)
	}
	return out
}

package catalog

import "strings"

// CodeNormalizer rewrites deprecated department prefixes to their current
// equivalents and canonicalizes spacing and case.
type CodeNormalizer struct {
	renames map[string]string
}

// NewCodeNormalizer builds a normalizer from an old-prefix to new-prefix map.
func NewCodeNormalizer(renames map[string]string) CodeNormalizer {
	m := make(map[string]string, len(renames))
	for from, to := range renames {
		from = strings.ToUpper(strings.TrimSpace(from))
		to = strings.ToUpper(strings.TrimSpace(to))
		if from == "" || to == "" {
			continue
		}
		m[from] = to
	}
	return CodeNormalizer{renames: m}
}

// Normalize returns "SUBJECT NUMBER" with the subject renamed when deprecated.
func (n CodeNormalizer) Normalize(subject, number string) string {
	subject = strings.ToUpper(strings.TrimSpace(subject))
	if renamed, ok := n.renames[subject]; ok {
		subject = renamed
	}
	number = strings.ToUpper(strings.Join(strings.Fields(number), ""))
	return subject + " " + number
}

// Department returns the subject prefix of a normalized code.
func Department(code string) string {
	if i := strings.IndexByte(code, ' '); i >= 0 {
		return code[:i]
	}
	return code
}

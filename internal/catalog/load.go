package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"catalogid/internal/invariants"
)

type rawOffering struct {
	CRN         any      `json:"crn"`
	CRNs        []any    `json:"crns"`
	Subject     string   `json:"subject"`
	Number      string   `json:"number"`
	Section     any      `json:"section"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Professors  []string `json:"professors"`
	Emails      []string `json:"professor_emails"`
	School      string   `json:"school"`
	SectionType string   `json:"section_type"`
	Flags       []string `json:"flags"`
}

// LoadDir reads every <term>.json snapshot in dir. Offerings come back sorted
// by (term, CRN).
func LoadDir(dir string) ([]Offering, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, invariants.Wrap(invariants.ErrInvalidInput, "catalog", "read snapshot dir", dir, err)
	}
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)

	var out []Offering
	for _, name := range files {
		term := strings.TrimSuffix(name, ".json")
		rows, err := LoadTerm(filepath.Join(dir, name), term)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	Sort(out)
	return out, nil
}

// LoadTerm reads one term snapshot file.
func LoadTerm(path, term string) ([]Offering, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, invariants.Wrap(invariants.ErrInvalidInput, "catalog", "load term", fmt.Sprintf("%s not found", path), nil)
		}
		return nil, invariants.Wrap(invariants.ErrInvalidInput, "catalog", "load term", path, err)
	}
	return ParseTerm(data, term, path)
}

// ParseTerm decodes a JSON array of offering rows for one term. source is only
// used in error messages.
func ParseTerm(data []byte, term, source string) ([]Offering, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, invariants.Wrap(invariants.ErrInvalidInput, "catalog", "parse term", source+": empty term code", nil)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raws []rawOffering
	if err := dec.Decode(&raws); err != nil {
		return nil, invariants.Wrap(invariants.ErrInvalidInput, "catalog", "parse term", source, err)
	}

	out := make([]Offering, 0, len(raws))
	seen := make(map[int]int, len(raws))
	for i, raw := range raws {
		o, err := raw.toOffering(term)
		if err != nil {
			return nil, invariants.Wrap(invariants.ErrInvalidInput, "catalog", "parse term",
				fmt.Sprintf("%s row %d", source, i), err)
		}
		if prev, dup := seen[o.CRN]; dup {
			return nil, invariants.Wrap(invariants.ErrInvalidInput, "catalog", "parse term",
				fmt.Sprintf("%s rows %d and %d share CRN %d in term %s", source, prev, i, o.CRN, term), nil)
		}
		seen[o.CRN] = i
		out = append(out, o)
	}
	return out, nil
}

func (r rawOffering) toOffering(term string) (Offering, error) {
	crn, err := parseCRN(r.CRN)
	if err != nil {
		return Offering{}, fmt.Errorf("crn: %w", err)
	}
	crns := make([]int, 0, len(r.CRNs)+1)
	for _, v := range r.CRNs {
		c, err := parseCRN(v)
		if err != nil {
			return Offering{}, fmt.Errorf("crns: %w", err)
		}
		crns = append(crns, c)
	}
	kind := SectionOrdinary
	if strings.EqualFold(strings.TrimSpace(r.SectionType), string(SectionDiscussion)) {
		kind = SectionDiscussion
	}
	o := Offering{
		Term:        term,
		CRN:         crn,
		Subject:     strings.TrimSpace(r.Subject),
		Number:      strings.TrimSpace(r.Number),
		Section:     sectionString(r.Section),
		Title:       r.Title,
		Description: r.Description,
		Professors:  r.Professors,
		Emails:      r.Emails,
		School:      strings.TrimSpace(r.School),
		Kind:        kind,
		Flags:       r.Flags,
	}
	o.CRNs = append(crns, crn)
	o.CRNs = o.CrossListed()
	if o.Subject == "" || o.Number == "" {
		return Offering{}, errors.New("subject and number are required")
	}
	return o, nil
}

func parseCRN(v any) (int, error) {
	switch val := v.(type) {
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, fmt.Errorf("invalid CRN %q", string(val))
		}
		return int(n), nil
	case string:
		// CRNs are sometimes quoted in older snapshots.
		var parsed int
		if _, err := fmt.Sscanf(strings.TrimSpace(val), "%d", &parsed); err != nil {
			return 0, fmt.Errorf("invalid CRN %q", val)
		}
		return parsed, nil
	case nil:
		return 0, errors.New("missing CRN")
	default:
		return 0, fmt.Errorf("invalid CRN %v", v)
	}
}

func sectionString(v any) string {
	switch val := v.(type) {
	case nil:
		return "0"
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return s
		}
		return "0"
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// Sort orders offerings by (term, CRN).
func Sort(offerings []Offering) {
	sort.SliceStable(offerings, func(i, j int) bool {
		if offerings[i].Term != offerings[j].Term {
			return offerings[i].Term < offerings[j].Term
		}
		return offerings[i].CRN < offerings[j].CRN
	})
}

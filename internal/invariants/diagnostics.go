package invariants

import (
	"fmt"
	"sort"
	"strings"
)

// Diagnostic records a data-quality warning produced while resolving
// identities. The run continues; callers decide how to surface it.
type Diagnostic struct {
	Stage   string   `json:"stage"`
	Event   string   `json:"event"`
	Message string   `json:"message"`
	Term    string   `json:"term,omitempty"`
	Keys    []string `json:"keys,omitempty"`
	IDs     []int    `json:"ids,omitempty"`
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s: %s", d.Stage, d.Event, d.Message)
	if d.Term != "" {
		fmt.Fprintf(&b, " (term %s)", d.Term)
	}
	if len(d.Keys) > 0 {
		fmt.Fprintf(&b, " keys=%s", strings.Join(d.Keys, ","))
	}
	if len(d.IDs) > 0 {
		fmt.Fprintf(&b, " ids=%v", d.IDs)
	}
	return b.String()
}

// Diagnostics is an ordered list of warnings.
type Diagnostics []Diagnostic

// Add appends a diagnostic.
func (ds *Diagnostics) Add(d Diagnostic) {
	*ds = append(*ds, d)
}

// Extend appends every diagnostic from other.
func (ds *Diagnostics) Extend(other Diagnostics) {
	*ds = append(*ds, other...)
}

// ByEvent returns the diagnostics carrying the given event name.
func (ds Diagnostics) ByEvent(event string) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Event == event {
			out = append(out, d)
		}
	}
	return out
}

// CountByEvent tallies diagnostics per event name.
func (ds Diagnostics) CountByEvent() map[string]int {
	out := make(map[string]int)
	for _, d := range ds {
		out[d.Event]++
	}
	return out
}

// Events returns the distinct event names in sorted order.
func (ds Diagnostics) Events() []string {
	counts := ds.CountByEvent()
	out := make([]string, 0, len(counts))
	for e := range counts {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

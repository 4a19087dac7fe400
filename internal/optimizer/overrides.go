package optimizer

import (
	"fmt"

	"github.com/alexanderramin/roamer/internal/domain"
)

// EffectiveCatalog is the catalog after override rules have been applied.
// Plans are copies; the input catalog is never modified.
type EffectiveCatalog struct {
	Plans     []*domain.Plan
	Excluded  []string
	Conflicts []string
}

// ApplyOverrides removes excluded plans, applies new-user-only marks and
// attaches notes. A rule that matches nothing in the catalog is a no-op and
// is reported as a conflict.
func ApplyOverrides(catalog []*domain.Plan, set *domain.OverrideSet) EffectiveCatalog {
	var out EffectiveCatalog
	if set == nil || len(set.Rules) == 0 {
		out.Plans = make([]*domain.Plan, len(catalog))
		copy(out.Plans, catalog)
		return out
	}

	hits := make([]int, len(set.Rules))
	for _, p := range catalog {
		cp := *p
		cp.Notes = append([]string(nil), p.Notes...)
		excluded := false
		for i := range set.Rules {
			r := &set.Rules[i]
			if !r.Matches(p) {
				continue
			}
			hits[i]++
			if r.Exclude {
				excluded = true
			}
			if r.NewUserOnly {
				cp.Flags.NewUserOnly = true
			}
			if r.Note != "" {
				cp.Notes = append(cp.Notes, r.Note)
			}
		}
		if excluded {
			out.Excluded = append(out.Excluded, p.ID)
			continue
		}
		out.Plans = append(out.Plans, &cp)
	}

	for i, n := range hits {
		if n == 0 {
			r := set.Rules[i]
			out.Conflicts = append(out.Conflicts,
				fmt.Sprintf("override %s %q matches nothing in the catalog; ignored", r.Target, r.Key))
		}
	}
	return out
}

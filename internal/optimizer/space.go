package optimizer

import (
	"math"
	"sort"

	"github.com/alexanderramin/roamer/internal/domain"
)

// DefaultSearchSpace is how many paid plans BuildSpace keeps by default.
const DefaultSearchSpace = 60

// segmentQuota is how many of the cheapest local and regional plans covering
// each segment survive the cut regardless of how they rank overall.
const segmentQuota = 3

// BuildSpace returns the plans worth enumerating, in catalog order. Plans that
// cover no segment are dropped. When limit > 0 the space is further cut to all
// free plans, the segmentQuota cheapest local and regional plans per segment,
// and the cheapest remaining paid plans by cost per usable day: a third of
// limit for regional plans, the rest for local ones. A kind with too few plans
// hands its unused share to the other.
func BuildSpace(plans []*domain.Plan, it domain.Itinerary, limit int) []*domain.Plan {
	var relevant []*domain.Plan
	for _, p := range plans {
		if coversAny(p, it) {
			relevant = append(relevant, p)
		}
	}
	if limit <= 0 {
		return relevant
	}

	type ranked struct {
		idx   int
		local bool
		cpd   float64
	}
	var paid []ranked
	available := map[bool]int{}
	for i, p := range relevant {
		if !p.IsFree() {
			paid = append(paid, ranked{idx: i, local: p.Scope.IsLocal(), cpd: CostPerDay(p, it)})
			available[p.Scope.IsLocal()]++
		}
	}
	if len(paid) <= limit {
		return relevant
	}
	sort.SliceStable(paid, func(i, j int) bool { return paid[i].cpd < paid[j].cpd })

	keep := make(map[int]bool, limit)
	kept := map[bool]int{}
	quota := min(segmentQuota, limit)
	for _, s := range it {
		for _, local := range []bool{true, false} {
			n := 0
			for _, r := range paid {
				if n == quota {
					break
				}
				if r.local != local || !relevant[r.idx].Scope.Covers(s.Country) {
					continue
				}
				n++
				if !keep[r.idx] {
					keep[r.idx] = true
					kept[local]++
				}
			}
		}
	}

	share := map[bool]int{false: limit / 3}
	share[true] = limit - share[false]
	for _, local := range []bool{true, false} {
		if spare := share[local] - available[local]; spare > 0 {
			share[local] -= spare
			share[!local] += spare
		}
	}
	for _, r := range paid {
		if !keep[r.idx] && kept[r.local] < share[r.local] {
			keep[r.idx] = true
			kept[r.local]++
		}
	}

	out := make([]*domain.Plan, 0, len(relevant)-len(paid)+len(keep))
	for i, p := range relevant {
		if p.IsFree() || keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// CostPerDay estimates the effective price per day of usable coverage, where
// usable days are bounded by both validity and how long the data lasts at the
// daily need of the segments the plan covers.
func CostPerDay(p *domain.Plan, it domain.Itinerary) float64 {
	var needMB int64
	var days int
	for _, s := range it {
		if p.Scope.Covers(s.Country) {
			needMB += s.DataMB
			days += s.Days
		}
	}

	usable := float64(p.ValidityDays)
	if !p.IsUnlimited() && needMB > 0 && days > 0 {
		daily := float64(needMB) / float64(days)
		usable = math.Min(float64(p.DataMB)/daily, usable)
	}
	return p.EffectivePrice().Dollars() / math.Max(usable, 0.1)
}

func coversAny(p *domain.Plan, it domain.Itinerary) bool {
	for _, s := range it {
		if p.Scope.Covers(s.Country) {
			return true
		}
	}
	return false
}

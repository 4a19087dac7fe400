package optimizer

import (
	"fmt"

	"github.com/alexanderramin/roamer/internal/domain"
)

// Deficit is the outstanding data and duration need of one segment.
type Deficit struct {
	Segment int
	Country string
	DataMB  int64
	Days    int
}

// Open reports whether any part of the need is still uncovered.
func (d Deficit) Open() bool {
	return d.DataMB > 0 || d.Days > 0
}

func (d Deficit) String() string {
	label := d.Country
	if label == "" {
		label = "trip"
	}
	return fmt.Sprintf("segment %d (%s): %d MB and %d days uncovered", d.Segment, label, max(d.DataMB, 0), max(d.Days, 0))
}

// Allocation records one plan instance reducing one segment's deficit.
type Allocation struct {
	Position  int
	PlanID    string
	Segment   int
	DataMB    int64
	Days      int
	Unlimited bool
}

// Ledger is the per-evaluation coverage state. It is owned by a single
// Resolve call and never shared.
type Ledger struct {
	Deficits    []Deficit
	Allocations []Allocation
}

// Resolution is the outcome of a feasibility check. Infeasibility is a value,
// not an error: Shortfall names the first segment left uncovered.
type Resolution struct {
	Feasible  bool
	Ledger    Ledger
	Shortfall *Deficit
}

// capacity tracks what is left of one plan instance across the whole pass.
type capacity struct {
	dataMB    int64
	days      int
	unlimited bool
}

// Resolve decides whether the candidate set covers the itinerary. Local plans
// are applied first, in candidate-set order, then regional plans fill what is
// left. Each plan instance's data and validity are consumed at most once
// across all segments.
func Resolve(it domain.Itinerary, candidates []*domain.Plan) Resolution {
	ledger := Ledger{Deficits: make([]Deficit, len(it))}
	for i, seg := range it {
		ledger.Deficits[i] = Deficit{Segment: i, Country: seg.Country, DataMB: seg.DataMB, Days: seg.Days}
	}

	caps := make([]capacity, len(candidates))
	for i, p := range candidates {
		caps[i] = capacity{dataMB: p.DataMB, days: p.ValidityDays, unlimited: p.IsUnlimited()}
	}

	// Pass 1: local-first
	for si, seg := range it {
		for pi, p := range candidates {
			if !ledger.Deficits[si].Open() {
				break
			}
			if !p.Scope.IsLocal() || !p.Scope.Covers(seg.Country) {
				continue
			}
			apply(&ledger, si, seg, pi, p, &caps[pi])
		}
	}

	// Pass 2: regional fill
	for si, seg := range it {
		for pi, p := range candidates {
			if !ledger.Deficits[si].Open() {
				break
			}
			if p.Scope.IsLocal() || !p.Scope.Covers(seg.Country) {
				continue
			}
			apply(&ledger, si, seg, pi, p, &caps[pi])
		}
	}

	res := Resolution{Feasible: true, Ledger: ledger}
	for i := range ledger.Deficits {
		if ledger.Deficits[i].Open() {
			d := ledger.Deficits[i]
			res.Feasible = false
			res.Shortfall = &d
			break
		}
	}
	return res
}

// apply reduces one segment's deficit with what remains of one plan instance.
//
// Finite plans treat days and data as independent interchangeable units. An
// unlimited plan covers the segment's data only while its validity window is
// active: a window spanning the whole segment clears the data deficit, a
// shorter window clears a pro-rata share.
func apply(l *Ledger, si int, seg domain.Segment, pi int, p *domain.Plan, c *capacity) {
	d := &l.Deficits[si]

	var dayUse int
	if d.Days > 0 {
		dayUse = min(c.days, d.Days)
	}

	var dataUse int64
	consumedDays := dayUse
	if c.unlimited {
		window := min(c.days, seg.Days)
		if window <= 0 {
			return
		}
		if d.DataMB > 0 {
			if window >= seg.Days {
				dataUse = d.DataMB
			} else {
				share := ceilDiv(seg.DataMB*int64(window), int64(seg.Days))
				dataUse = min(share, d.DataMB)
			}
		}
		if dataUse > 0 {
			consumedDays = max(dayUse, window)
		}
	} else if d.DataMB > 0 {
		dataUse = min(c.dataMB, d.DataMB)
	}

	if dataUse <= 0 && dayUse <= 0 {
		return
	}

	d.DataMB -= dataUse
	d.Days -= dayUse
	c.days -= consumedDays
	if !c.unlimited {
		c.dataMB -= dataUse
	}

	l.Allocations = append(l.Allocations, Allocation{
		Position:  pi,
		PlanID:    p.ID,
		Segment:   si,
		DataMB:    dataUse,
		Days:      dayUse,
		Unlimited: c.unlimited,
	})
}

func ceilDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

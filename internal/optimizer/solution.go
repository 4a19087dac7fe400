package optimizer

import (
	"sort"

	"github.com/alexanderramin/roamer/internal/domain"
)

// Solution is one feasible, priced candidate set. Immutable once returned.
type Solution struct {
	Plans       []*domain.Plan
	DisplayCost domain.Money
	RankingCost domain.Money
	HassleCost  domain.Money
	Lines       []Line
	Warnings    []string
	Ledger      Ledger
	Activations int
	TopUps      int
	Providers   int
	FreePlans   int
}

func (s *Solution) PlanCount() int { return len(s.Plans) }

// TotalDataMB sums the plans' data, or returns domain.UnlimitedData when any
// plan is unlimited.
func (s *Solution) TotalDataMB() int64 {
	var total int64
	for _, p := range s.Plans {
		if p.IsUnlimited() {
			return domain.UnlimitedData
		}
		total += p.DataMB
	}
	return total
}

func (s *Solution) TotalDays() int {
	total := 0
	for _, p := range s.Plans {
		total += p.ValidityDays
	}
	return total
}

// PlanIDs returns the plan IDs in candidate-set order.
func (s *Solution) PlanIDs() []string {
	ids := make([]string, len(s.Plans))
	for i, p := range s.Plans {
		ids[i] = p.ID
	}
	return ids
}

// Less orders solutions by the canonical ranking rules:
// 1. Ranking cost ascending
// 2. Display cost ascending
// 3. Plan count ascending (fewer accounts)
// 4. Plan ID sequence, lexical
func Less(a, b *Solution) bool {
	if a.RankingCost != b.RankingCost {
		return a.RankingCost < b.RankingCost
	}
	if a.DisplayCost != b.DisplayCost {
		return a.DisplayCost < b.DisplayCost
	}
	if len(a.Plans) != len(b.Plans) {
		return len(a.Plans) < len(b.Plans)
	}
	for i := range a.Plans {
		if a.Plans[i].ID != b.Plans[i].ID {
			return a.Plans[i].ID < b.Plans[i].ID
		}
	}
	return false
}

// SortSolutions sorts in place by Less.
func SortSolutions(sols []Solution) {
	sort.SliceStable(sols, func(i, j int) bool { return Less(&sols[i], &sols[j]) })
}

package optimizer

import (
	"fmt"

	"github.com/alexanderramin/roamer/internal/domain"
)

// DefaultHassleUnit is the ranking-only cost of each plan beyond the first.
const DefaultHassleUnit domain.Money = 50

// Line is the priced view of one plan instance in a candidate set.
type Line struct {
	Position     int
	Plan         *domain.Plan
	UnitPrice    domain.Money
	PromoApplied bool
	Warnings     []string
}

// Evaluation is the scored cost of a candidate set.
type Evaluation struct {
	DisplayCost domain.Money
	RankingCost domain.Money
	HassleCost  domain.Money
	Lines       []Line
	Activations int
	TopUps      int
	Providers   int
	FreePlans   int
}

// Warnings flattens the per-line warnings in candidate-set order.
func (e *Evaluation) Warnings() []string {
	var out []string
	for _, l := range e.Lines {
		out = append(out, l.Warnings...)
	}
	return out
}

// Evaluator prices candidate sets. It holds only read-only run inputs and is
// safe for concurrent use.
type Evaluator struct {
	promos     domain.PromoTable
	overrides  *domain.OverrideSet
	hassleUnit domain.Money
	unknownAs  domain.PromoRecurrence
}

func NewEvaluator(promos domain.PromoTable, overrides *domain.OverrideSet, hassleUnit domain.Money, unknownAs domain.PromoRecurrence) *Evaluator {
	if unknownAs == "" || unknownAs == domain.PromoUnknown {
		unknownAs = domain.PromoUnlimited
	}
	return &Evaluator{
		promos:     promos,
		overrides:  overrides,
		hassleUnit: hassleUnit,
		unknownAs:  unknownAs,
	}
}

func (e *Evaluator) HassleUnit() domain.Money { return e.hassleUnit }

// Recurrence returns the effective promo recurrence of a provider: an override
// wins over the promo table, and UNKNOWN collapses per the unknown policy.
func (e *Evaluator) Recurrence(providerID string) domain.PromoRecurrence {
	if r, ok := e.overrides.ForcedRecurrence(providerID); ok {
		return domain.Resolve(r, e.unknownAs)
	}
	return domain.Resolve(e.promos.Lookup(providerID), e.unknownAs)
}

// Hassle returns the ranking-only penalty for a set of n plans.
func (e *Evaluator) Hassle(n int) domain.Money {
	if n <= 1 {
		return 0
	}
	return domain.Money(n-1) * e.hassleUnit
}

// Evaluate prices the candidates in set order. For ONE_TIME providers only
// the first promo-bearing instance gets the promo price.
func (e *Evaluator) Evaluate(candidates []*domain.Plan) Evaluation {
	ev := Evaluation{Lines: make([]Line, len(candidates))}
	promoUsed := make(map[string]bool)
	providers := make(map[string]bool)
	qty := make(map[string]int)
	for _, p := range candidates {
		qty[p.ID]++
	}
	described := make(map[string]bool)

	for i, p := range candidates {
		line := Line{Position: i, Plan: p, UnitPrice: p.BasePrice}
		providers[p.ProviderID] = true

		if p.HasPromo() {
			if e.Recurrence(p.ProviderID) == domain.PromoOneTime && promoUsed[p.ProviderID] {
				line.Warnings = append(line.Warnings, fmt.Sprintf("promo already used for provider %s", p.ProviderID))
			} else {
				line.UnitPrice = *p.PromoPrice
				line.PromoApplied = true
				promoUsed[p.ProviderID] = true
			}
		}
		if line.UnitPrice == 0 {
			ev.FreePlans++
		}

		// Descriptive warnings once per distinct plan.
		if !described[p.ID] {
			described[p.ID] = true
			line.Warnings = append(line.Warnings, planWarnings(p, qty[p.ID])...)
			if p.CanTopUp() {
				ev.Activations++
				ev.TopUps += qty[p.ID] - 1
			} else {
				ev.Activations += qty[p.ID]
			}
		}

		ev.DisplayCost += line.UnitPrice
		ev.Lines[i] = line
	}

	ev.Providers = len(providers)
	ev.HassleCost = e.Hassle(len(candidates))
	ev.RankingCost = ev.DisplayCost + ev.HassleCost
	return ev
}

// planWarnings describes a plan's caveats. They never affect cost or
// feasibility.
func planWarnings(p *domain.Plan, qty int) []string {
	var w []string
	f := p.Flags
	if f.NewUserOnly && qty > 1 {
		msg := fmt.Sprintf("new-user only: need %d accounts", qty)
		if f.RequiresPhone {
			msg += " (each needs its own phone number)"
		}
		w = append(w, msg)
	}
	if qty > 1 && !p.CanTopUp() {
		w = append(w, fmt.Sprintf("no top-up: buy %d separate eSIMs", qty))
	}
	if f.SpeedLimitKbps > 0 && f.SpeedLimitKbps < 1000 {
		w = append(w, fmt.Sprintf("speed capped at %d kbps", f.SpeedLimitKbps))
	}
	if f.ReducedSpeedKbps > 0 {
		w = append(w, fmt.Sprintf("throttled to %d kbps after data limit", f.ReducedSpeedKbps))
	}
	if f.PossibleThrottling {
		w = append(w, "possible throttling")
	}
	if f.Tethering != nil && !*f.Tethering {
		w = append(w, "no tethering/hotspot")
	}
	if f.RequiresEKYC {
		w = append(w, "requires identity verification (eKYC)")
	}
	if f.Subscription {
		w = append(w, "subscription: cancel after trip")
	}
	if f.PayAsYouGo {
		w = append(w, "pay-as-you-go pricing")
	}
	if f.HasAds {
		w = append(w, "ad-supported")
	}
	w = append(w, p.Notes...)
	return w
}

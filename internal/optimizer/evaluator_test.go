package optimizer

import (
	"testing"

	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_OneTimePromoAppliesToFirstInstanceOnly(t *testing.T) {
	a := localPlan("x-a", "DE", 3000, 5, 500, withProvider("x"), withPromo(300))
	b := localPlan("x-b", "DE", 3000, 5, 500, withProvider("x"), withPromo(300))
	ev := NewEvaluator(domain.PromoTable{"x": domain.PromoOneTime}, nil, DefaultHassleUnit, domain.PromoUnlimited)

	for _, set := range [][]*domain.Plan{{a, b}, {b, a}, {a, a}} {
		got := ev.Evaluate(set)
		require.Len(t, got.Lines, 2)
		assert.True(t, got.Lines[0].PromoApplied)
		assert.Equal(t, domain.Money(300), got.Lines[0].UnitPrice)
		assert.False(t, got.Lines[1].PromoApplied)
		assert.Equal(t, domain.Money(500), got.Lines[1].UnitPrice)
		assert.Contains(t, got.Lines[1].Warnings, "promo already used for provider x")
		assert.Equal(t, domain.Money(800), got.DisplayCost)
		assert.Equal(t, domain.Money(850), got.RankingCost)
	}
}

func TestEvaluate_OneTimePromoConsumedByFirstPromoBearingInstance(t *testing.T) {
	noPromo := localPlan("x-full", "DE", 1000, 5, 400, withProvider("x"))
	promo := localPlan("x-promo", "DE", 1000, 5, 500, withProvider("x"), withPromo(100))
	ev := NewEvaluator(domain.PromoTable{"x": domain.PromoOneTime}, nil, 0, domain.PromoUnlimited)

	got := ev.Evaluate([]*domain.Plan{noPromo, promo})
	assert.True(t, got.Lines[1].PromoApplied, "a plan without promo does not consume the provider's promo")
	assert.Equal(t, domain.Money(500), got.DisplayCost)
}

func TestEvaluate_UnlimitedPromoAppliesToEveryInstance(t *testing.T) {
	a := localPlan("y-a", "DE", 3000, 5, 500, withProvider("y"), withPromo(300))
	ev := NewEvaluator(domain.PromoTable{"y": domain.PromoUnlimited}, nil, DefaultHassleUnit, domain.PromoUnlimited)

	got := ev.Evaluate([]*domain.Plan{a, a, a})
	for _, l := range got.Lines {
		assert.True(t, l.PromoApplied)
		assert.Equal(t, domain.Money(300), l.UnitPrice)
	}
	assert.Equal(t, domain.Money(900), got.DisplayCost)
	assert.Equal(t, domain.Money(100), got.HassleCost)
	assert.Equal(t, domain.Money(1000), got.RankingCost)
}

func TestEvaluate_UnknownRecurrencePolicy(t *testing.T) {
	a := localPlan("z-a", "DE", 3000, 5, 500, withProvider("z"), withPromo(300))

	optimistic := NewEvaluator(domain.PromoTable{}, nil, 0, "")
	assert.Equal(t, domain.PromoUnlimited, optimistic.Recurrence("z"))
	assert.Equal(t, domain.Money(600), optimistic.Evaluate([]*domain.Plan{a, a}).DisplayCost)

	cautious := NewEvaluator(domain.PromoTable{}, nil, 0, domain.PromoOneTime)
	assert.Equal(t, domain.PromoOneTime, cautious.Recurrence("z"))
	assert.Equal(t, domain.Money(800), cautious.Evaluate([]*domain.Plan{a, a}).DisplayCost)
}

func TestEvaluate_OverrideWinsOverPromoTable(t *testing.T) {
	once := domain.PromoOneTime
	set := domain.NewOverrideSet(domain.OverrideRule{Target: domain.TargetProvider, Key: "x", ForceRecurrence: &once})
	ev := NewEvaluator(domain.PromoTable{"x": domain.PromoUnlimited}, set, 0, domain.PromoUnlimited)
	assert.Equal(t, domain.PromoOneTime, ev.Recurrence("x"))
}

func TestEvaluate_HassleExcludedFromDisplay(t *testing.T) {
	ev := NewEvaluator(nil, nil, DefaultHassleUnit, domain.PromoUnlimited)
	p := localPlan("p", "DE", 1000, 5, 200)

	single := ev.Evaluate([]*domain.Plan{p})
	assert.Equal(t, single.DisplayCost, single.RankingCost)
	assert.Zero(t, single.HassleCost)

	four := ev.Evaluate([]*domain.Plan{p, p, p, p})
	assert.Equal(t, domain.Money(800), four.DisplayCost)
	assert.Equal(t, domain.Money(950), four.RankingCost)
}

func TestEvaluate_EmptySetCostsNothing(t *testing.T) {
	ev := NewEvaluator(nil, nil, DefaultHassleUnit, domain.PromoUnlimited)
	got := ev.Evaluate(nil)
	assert.Zero(t, got.DisplayCost)
	assert.Zero(t, got.RankingCost)
}

func TestEvaluate_DescriptiveWarnings(t *testing.T) {
	p := localPlan("nu", "DE", 1000, 5, 200, withFlags(domain.PlanFlags{
		NewUserOnly:      true,
		RequiresPhone:    true,
		SpeedLimitKbps:   512,
		ReducedSpeedKbps: 128,
		Tethering:        domain.BoolPtr(false),
		RequiresEKYC:     true,
		HasAds:           true,
	}))
	p.Notes = []string{"check the app store listing"}
	ev := NewEvaluator(nil, nil, DefaultHassleUnit, domain.PromoUnlimited)

	got := ev.Evaluate([]*domain.Plan{p, p})
	w := got.Warnings()
	assert.Contains(t, w, "new-user only: need 2 accounts (each needs its own phone number)")
	assert.Contains(t, w, "no top-up: buy 2 separate eSIMs")
	assert.Contains(t, w, "speed capped at 512 kbps")
	assert.Contains(t, w, "throttled to 128 kbps after data limit")
	assert.Contains(t, w, "no tethering/hotspot")
	assert.Contains(t, w, "requires identity verification (eKYC)")
	assert.Contains(t, w, "ad-supported")
	assert.Contains(t, w, "check the app store listing")
	assert.Empty(t, got.Lines[1].Warnings, "descriptive warnings are attached once per distinct plan")
	assert.Equal(t, 2, got.Activations)
	assert.Zero(t, got.TopUps)
}

func TestEvaluate_TopUpCountsAsOneActivation(t *testing.T) {
	p := localPlan("tu", "DE", 1000, 5, 200, withFlags(domain.PlanFlags{CanTopUp: domain.BoolPtr(true)}))
	free := localPlan("free", "DE", 100, 1, 0)
	ev := NewEvaluator(nil, nil, DefaultHassleUnit, domain.PromoUnlimited)

	got := ev.Evaluate([]*domain.Plan{p, p, free})
	assert.Equal(t, 2, got.Activations)
	assert.Equal(t, 1, got.TopUps)
	assert.Equal(t, 1, got.FreePlans)
	assert.Equal(t, 2, got.Providers)
}

package importer

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/alexanderramin/roamer/internal/domain"
)

// MBPerGB is the data conversion factor used for data_gb fields.
const MBPerGB = 1024

// ConvertCatalog turns a validated catalog into domain plans with prices
// normalized to USD cents. Call ValidateCatalog first.
func ConvertCatalog(cat *CatalogFile) ([]*domain.Plan, error) {
	plans := make([]*domain.Plan, 0, len(cat.Plans))
	for i := range cat.Plans {
		r := &cat.Plans[i]
		rate := 1.0
		if cur := planCurrency(cat, r); cur != "USD" {
			rate = cat.Rates[cur]
		}

		var scope domain.CoverageScope
		if r.CoverageType == string(domain.ScopeLocal) {
			scope = domain.LocalScope(r.Countries[0])
		} else {
			scope = domain.RegionalScope(r.Countries...)
		}

		data := domain.UnlimitedData
		if r.DataMB != nil {
			data = int64(math.Round(*r.DataMB))
		}

		p := &domain.Plan{
			ID:           r.ID,
			ProviderID:   r.ProviderID,
			ProviderName: r.ProviderName,
			Name:         r.Name,
			Scope:        scope,
			DataMB:       data,
			ValidityDays: r.ValidityDays,
			BasePrice:    domain.Cents(r.Price / rate),
			Flags: domain.PlanFlags{
				SpeedLimitKbps:     r.Flags.SpeedLimitKbps,
				ReducedSpeedKbps:   r.Flags.ReducedSpeedKbps,
				PossibleThrottling: r.Flags.PossibleThrottling,
				RequiresEKYC:       r.Flags.EKYC,
				Tethering:          r.Flags.Tethering,
				HasAds:             r.Flags.HasAds,
				CanTopUp:           r.Flags.CanTopUp,
				Subscription:       r.Flags.Subscription,
				PayAsYouGo:         r.Flags.PayAsYouGo,
				NewUserOnly:        r.Flags.NewUserOnly,
				RequiresPhone:      r.Flags.RequiresPhone,
			},
		}
		if r.PromoPrice != nil {
			promo := domain.Cents(*r.PromoPrice / rate)
			// Rounding after conversion must not push promo above base.
			p.PromoPrice = domain.MoneyPtr(min(promo, p.BasePrice))
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("plans[%d]: %w: %w", i, ErrMalformedInput, err)
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// ConvertPromos turns a validated promo file into a promo table.
func ConvertPromos(promos PromoFile) domain.PromoTable {
	table := make(domain.PromoTable, len(promos))
	for id, e := range promos {
		r, _ := domain.ParsePromoRecurrence(e.PromoType)
		table[id] = r
	}
	return table
}

// Overrides is the converted content of an overrides file.
type Overrides struct {
	Rules      []domain.OverrideRule
	HassleUnit *domain.Money
	UnknownAs  *domain.PromoRecurrence
}

// ConvertOverrides turns a validated overrides file into override rules.
// Provider promo overrides come first so that plan-level rules with a
// provider_id match and a promo_type win over them.
func ConvertOverrides(ov *OverridesFile) *Overrides {
	out := &Overrides{}
	if ov.DefaultHasslePenalty != nil {
		out.HassleUnit = domain.MoneyPtr(domain.Cents(*ov.DefaultHasslePenalty))
	}
	if ov.DefaultPromoType != "" {
		r, _ := domain.ParsePromoRecurrence(ov.DefaultPromoType)
		out.UnknownAs = &r
	}

	for _, id := range sortedKeys(ov.ProviderPromoOverrides) {
		r, _ := domain.ParsePromoRecurrence(ov.ProviderPromoOverrides[id].PromoType)
		out.Rules = append(out.Rules, domain.OverrideRule{
			ID:              uuid.New().String(),
			Target:          domain.TargetProvider,
			Key:             id,
			ForceRecurrence: &r,
		})
	}

	for _, po := range ov.PlanOverrides {
		rule := domain.OverrideRule{
			ID:          uuid.New().String(),
			Exclude:     po.Override.Exclude,
			NewUserOnly: po.Override.NewUserOnly,
			Note:        po.Note,
		}
		switch {
		case po.Match.PlanID != "":
			rule.Target, rule.Key = domain.TargetPlan, po.Match.PlanID
		case po.Match.ProviderID != "":
			rule.Target, rule.Key = domain.TargetProvider, po.Match.ProviderID
		default:
			rule.Target, rule.Key = domain.TargetNameContains, po.Match.NameContains
		}
		if po.Override.PromoType != "" {
			r, _ := domain.ParsePromoRecurrence(po.Override.PromoType)
			rule.ForceRecurrence = &r
		}
		out.Rules = append(out.Rules, rule)
	}
	return out
}

// ConvertItinerary turns a validated itinerary file into segments.
// Fractional days round up to whole days.
func ConvertItinerary(it *ItineraryFile) domain.Itinerary {
	if len(it.Segments) == 0 {
		return domain.SingleRegionItinerary(wholeDays(*it.Days), dataMB(it.DataMB, it.DataGB))
	}
	out := make(domain.Itinerary, len(it.Segments))
	for i, s := range it.Segments {
		out[i] = domain.Segment{
			Country: domain.NormalizeCountry(s.Country),
			Days:    wholeDays(s.Days),
			DataMB:  dataMB(s.DataMB, s.DataGB),
		}
	}
	return out
}

func wholeDays(d float64) int {
	return int(math.Ceil(d))
}

func dataMB(mb, gb *float64) int64 {
	switch {
	case mb != nil:
		return int64(math.Ceil(*mb))
	case gb != nil:
		return int64(math.Ceil(*gb * MBPerGB))
	}
	return 0
}

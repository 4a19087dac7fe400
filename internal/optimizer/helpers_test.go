package optimizer

import (
	"github.com/alexanderramin/roamer/internal/domain"
)

type planOpt func(*domain.Plan)

func withPromo(cents domain.Money) planOpt {
	return func(p *domain.Plan) { p.PromoPrice = domain.MoneyPtr(cents) }
}

func withProvider(id string) planOpt {
	return func(p *domain.Plan) { p.ProviderID = id }
}

func withFlags(f domain.PlanFlags) planOpt {
	return func(p *domain.Plan) { p.Flags = f }
}

func localPlan(id, country string, dataMB int64, days int, price domain.Money, opts ...planOpt) *domain.Plan {
	p := &domain.Plan{
		ID:           id,
		ProviderID:   "prov-" + id,
		Name:         id,
		Scope:        domain.LocalScope(country),
		DataMB:       dataMB,
		ValidityDays: days,
		BasePrice:    price,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func regionalPlan(id string, countries []string, dataMB int64, days int, price domain.Money, opts ...planOpt) *domain.Plan {
	p := localPlan(id, "", dataMB, days, price, opts...)
	p.Scope = domain.RegionalScope(countries...)
	return p
}

func planIDs(plans []*domain.Plan) []string {
	ids := make([]string, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	return ids
}

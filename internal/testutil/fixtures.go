package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/google/uuid"
)

var testPlanCounter atomic.Int64

// Plan options
type PlanOption func(*domain.Plan)

func WithPlanID(id string) PlanOption {
	return func(p *domain.Plan) {
		p.ID = id
	}
}

func WithProvider(id, name string) PlanOption {
	return func(p *domain.Plan) {
		p.ProviderID = id
		p.ProviderName = name
	}
}

func WithRegional(countries ...string) PlanOption {
	return func(p *domain.Plan) {
		p.Scope = domain.RegionalScope(countries...)
	}
}

func WithLocal(country string) PlanOption {
	return func(p *domain.Plan) {
		p.Scope = domain.LocalScope(country)
	}
}

func WithData(mb int64) PlanOption {
	return func(p *domain.Plan) {
		p.DataMB = mb
	}
}

func WithUnlimited() PlanOption {
	return func(p *domain.Plan) {
		p.DataMB = domain.UnlimitedData
	}
}

func WithValidity(days int) PlanOption {
	return func(p *domain.Plan) {
		p.ValidityDays = days
	}
}

func WithPrice(m domain.Money) PlanOption {
	return func(p *domain.Plan) {
		p.BasePrice = m
	}
}

func WithPromo(m domain.Money) PlanOption {
	return func(p *domain.Plan) {
		p.PromoPrice = domain.MoneyPtr(m)
	}
}

func WithFlags(f domain.PlanFlags) PlanOption {
	return func(p *domain.Plan) {
		p.Flags = f
	}
}

// NewTestPlan builds a valid 1 GB, 7-day local plan for Germany priced at
// $5.00. The plan ID is unique per call unless overridden.
func NewTestPlan(name string, opts ...PlanOption) *domain.Plan {
	n := testPlanCounter.Add(1)
	p := &domain.Plan{
		ID:           fmt.Sprintf("plan-%03d", n),
		ProviderID:   "prov-" + name,
		ProviderName: name,
		Name:         name,
		Scope:        domain.LocalScope("DE"),
		DataMB:       1024,
		ValidityDays: 7,
		BasePrice:    500,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Override rule options
type RuleOption func(*domain.OverrideRule)

func WithForcedRecurrence(r domain.PromoRecurrence) RuleOption {
	return func(rule *domain.OverrideRule) {
		rule.ForceRecurrence = &r
	}
}

func WithExclude() RuleOption {
	return func(rule *domain.OverrideRule) {
		rule.Exclude = true
	}
}

func WithNewUserOnly() RuleOption {
	return func(rule *domain.OverrideRule) {
		rule.NewUserOnly = true
	}
}

func WithNote(note string) RuleOption {
	return func(rule *domain.OverrideRule) {
		rule.Note = note
	}
}

func NewTestRule(target domain.OverrideTarget, key string, opts ...RuleOption) domain.OverrideRule {
	rule := domain.OverrideRule{
		ID:     uuid.New().String(),
		Target: target,
		Key:    key,
	}
	for _, opt := range opts {
		opt(&rule)
	}
	return rule
}

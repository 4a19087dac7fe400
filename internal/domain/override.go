package domain

import (
	"fmt"
	"strings"
)

// OverrideRule is a manual correction layered over catalog and promo data.
type OverrideRule struct {
	ID              string
	Target          OverrideTarget
	Key             string
	ForceRecurrence *PromoRecurrence
	Exclude         bool
	NewUserOnly     bool
	Note            string
}

// Matches reports whether the rule applies to the plan.
func (r *OverrideRule) Matches(p *Plan) bool {
	switch r.Target {
	case TargetProvider:
		return r.Key == p.ProviderID
	case TargetPlan:
		return r.Key == p.ID
	case TargetNameContains:
		return r.Key != "" && strings.Contains(strings.ToLower(p.Name), strings.ToLower(r.Key))
	}
	return false
}

// Validate checks a rule built outside an overrides file.
func (r *OverrideRule) Validate() error {
	if !ValidOverrideTargets[string(r.Target)] {
		return fmt.Errorf("unknown override target %q", r.Target)
	}
	if strings.TrimSpace(r.Key) == "" {
		return fmt.Errorf("override %s match value is required", r.Target)
	}
	if r.ForceRecurrence != nil && r.Target != TargetProvider {
		return fmt.Errorf("promo recurrence can only be forced for a provider")
	}
	if r.ForceRecurrence == nil && !r.Exclude && !r.NewUserOnly && r.Note == "" {
		return fmt.Errorf("override has no directive")
	}
	return nil
}

// OverrideSet is an ordered collection of rules. Later rules win when two
// rules force different recurrences for the same provider.
type OverrideSet struct {
	Rules []OverrideRule
}

func NewOverrideSet(rules ...OverrideRule) *OverrideSet {
	return &OverrideSet{Rules: rules}
}

// ForcedRecurrence returns the recurrence forced for a provider, if any.
func (s *OverrideSet) ForcedRecurrence(providerID string) (PromoRecurrence, bool) {
	if s == nil {
		return "", false
	}
	var (
		out   PromoRecurrence
		found bool
	)
	for i := range s.Rules {
		r := &s.Rules[i]
		if r.Target == TargetProvider && r.Key == providerID && r.ForceRecurrence != nil {
			out, found = *r.ForceRecurrence, true
		}
	}
	return out, found
}

// Matching returns the rules that apply to the plan, in rule order.
func (s *OverrideSet) Matching(p *Plan) []*OverrideRule {
	if s == nil {
		return nil
	}
	var out []*OverrideRule
	for i := range s.Rules {
		if s.Rules[i].Matches(p) {
			out = append(out, &s.Rules[i])
		}
	}
	return out
}

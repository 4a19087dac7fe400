package importer

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the top-level structure of a plan catalog file.
type CatalogFile struct {
	// Currency is the default currency of plan prices. Empty means USD.
	Currency string `json:"currency,omitempty" yaml:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	// Rates are units of currency per USD, e.g. {"EUR": 0.92}.
	Rates map[string]float64 `json:"rates,omitempty" yaml:"rates,omitempty" validate:"dive,gt=0"`
	Plans []PlanRecord       `json:"plans" yaml:"plans"`
}

// PlanRecord defines one plan in a catalog file.
type PlanRecord struct {
	ID           string      `json:"id" yaml:"id" validate:"required"`
	ProviderID   string      `json:"provider_id" yaml:"provider_id" validate:"required"`
	ProviderName string      `json:"provider_name,omitempty" yaml:"provider_name,omitempty"`
	Name         string      `json:"name,omitempty" yaml:"name,omitempty"`
	CoverageType string      `json:"coverage_type" yaml:"coverage_type" validate:"required,oneof=local regional"`
	Countries    []string    `json:"countries" yaml:"countries" validate:"required,min=1,dive,len=2,alpha"`
	DataMB       *float64    `json:"data_mb,omitempty" yaml:"data_mb,omitempty" validate:"omitempty,gt=0"`
	Unlimited    bool        `json:"unlimited,omitempty" yaml:"unlimited,omitempty"`
	ValidityDays int         `json:"validity_days" yaml:"validity_days" validate:"gte=1"`
	Price        float64     `json:"price" yaml:"price" validate:"gte=0"`
	PromoPrice   *float64    `json:"promo_price,omitempty" yaml:"promo_price,omitempty" validate:"omitempty,gte=0"`
	Currency     string      `json:"currency,omitempty" yaml:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	Flags        FlagsRecord `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// FlagsRecord holds the descriptive plan attributes.
type FlagsRecord struct {
	SpeedLimitKbps     int   `json:"speed_limit_kbps,omitempty" yaml:"speed_limit_kbps,omitempty" validate:"gte=0"`
	ReducedSpeedKbps   int   `json:"reduced_speed_kbps,omitempty" yaml:"reduced_speed_kbps,omitempty" validate:"gte=0"`
	PossibleThrottling bool  `json:"possible_throttling,omitempty" yaml:"possible_throttling,omitempty"`
	EKYC               bool  `json:"ekyc,omitempty" yaml:"ekyc,omitempty"`
	Tethering          *bool `json:"tethering,omitempty" yaml:"tethering,omitempty"`
	HasAds             bool  `json:"has_ads,omitempty" yaml:"has_ads,omitempty"`
	CanTopUp           *bool `json:"can_top_up,omitempty" yaml:"can_top_up,omitempty"`
	Subscription       bool  `json:"subscription,omitempty" yaml:"subscription,omitempty"`
	PayAsYouGo         bool  `json:"pay_as_you_go,omitempty" yaml:"pay_as_you_go,omitempty"`
	NewUserOnly        bool  `json:"new_user_only,omitempty" yaml:"new_user_only,omitempty"`
	RequiresPhone      bool  `json:"requires_phone,omitempty" yaml:"requires_phone,omitempty"`
}

// PromoEntry is one provider's promo recurrence. Files may give it either as
// a bare string ("one-time") or as an object ({"promo_type": "one-time"}).
type PromoEntry struct {
	PromoType string `json:"promo_type" yaml:"promo_type"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
}

func (e *PromoEntry) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*e = PromoEntry{PromoType: s}
		return nil
	}
	type plain PromoEntry
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*e = PromoEntry(p)
	return nil
}

func (e *PromoEntry) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*e = PromoEntry{PromoType: n.Value}
		return nil
	}
	type plain PromoEntry
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*e = PromoEntry(p)
	return nil
}

// PromoFile maps provider IDs to their promo recurrence.
type PromoFile map[string]PromoEntry

// OverridesFile holds manual corrections and run defaults.
type OverridesFile struct {
	DefaultHasslePenalty   *float64              `json:"default_hassle_penalty,omitempty" yaml:"default_hassle_penalty,omitempty" validate:"omitempty,gte=0"`
	DefaultPromoType       string                `json:"default_promo_type,omitempty" yaml:"default_promo_type,omitempty"`
	ProviderPromoOverrides map[string]PromoEntry `json:"provider_promo_overrides,omitempty" yaml:"provider_promo_overrides,omitempty"`
	PlanOverrides          []PlanOverrideRecord  `json:"plan_overrides,omitempty" yaml:"plan_overrides,omitempty"`
}

// PlanOverrideRecord applies directives to the plans its match selects.
type PlanOverrideRecord struct {
	Match    MatchRecord     `json:"match" yaml:"match"`
	Override DirectiveRecord `json:"override" yaml:"override"`
	Note     string          `json:"note,omitempty" yaml:"note,omitempty"`
}

// MatchRecord selects plans. Exactly one field must be set.
type MatchRecord struct {
	PlanID       string `json:"plan_id,omitempty" yaml:"plan_id,omitempty"`
	ProviderID   string `json:"provider_id,omitempty" yaml:"provider_id,omitempty"`
	NameContains string `json:"name_contains,omitempty" yaml:"name_contains,omitempty"`
}

type DirectiveRecord struct {
	Exclude     bool   `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	NewUserOnly bool   `json:"new_user_only,omitempty" yaml:"new_user_only,omitempty"`
	PromoType   string `json:"promo_type,omitempty" yaml:"promo_type,omitempty"`
}

// ItineraryFile is either a list of segments or a single-region trip given
// by days and data.
type ItineraryFile struct {
	Segments []SegmentRecord `json:"segments,omitempty" yaml:"segments,omitempty"`
	Days     *float64        `json:"days,omitempty" yaml:"days,omitempty" validate:"omitempty,gt=0"`
	DataMB   *float64        `json:"data_mb,omitempty" yaml:"data_mb,omitempty" validate:"omitempty,gte=0"`
	DataGB   *float64        `json:"data_gb,omitempty" yaml:"data_gb,omitempty" validate:"omitempty,gte=0"`
}

type SegmentRecord struct {
	Country string   `json:"country" yaml:"country" validate:"required,len=2,alpha"`
	Days    float64  `json:"days" yaml:"days" validate:"gt=0"`
	DataMB  *float64 `json:"data_mb,omitempty" yaml:"data_mb,omitempty" validate:"omitempty,gte=0"`
	DataGB  *float64 `json:"data_gb,omitempty" yaml:"data_gb,omitempty" validate:"omitempty,gte=0"`
}

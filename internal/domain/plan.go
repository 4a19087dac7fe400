package domain

import "fmt"

// UnlimitedData is the DataMB sentinel for plans without a data cap.
const UnlimitedData int64 = -1

// PlanFlags are descriptive attributes used only for warnings.
type PlanFlags struct {
	SpeedLimitKbps     int
	ReducedSpeedKbps   int
	PossibleThrottling bool
	RequiresEKYC       bool
	Tethering          *bool
	HasAds             bool
	CanTopUp           *bool
	Subscription       bool
	PayAsYouGo         bool
	NewUserOnly        bool
	RequiresPhone      bool
}

type Plan struct {
	ID           string
	ProviderID   string
	ProviderName string
	Name         string
	Scope        CoverageScope
	DataMB       int64
	ValidityDays int
	BasePrice    Money
	PromoPrice   *Money
	Flags        PlanFlags
	// Notes are attached by override rules and surface as warnings.
	Notes []string
}

func (p *Plan) IsUnlimited() bool {
	return p.DataMB == UnlimitedData
}

// HasPromo reports whether the plan carries a promo price strictly below base.
func (p *Plan) HasPromo() bool {
	return p.PromoPrice != nil && *p.PromoPrice < p.BasePrice
}

// EffectivePrice is the cheapest price the plan can be bought at.
func (p *Plan) EffectivePrice() Money {
	if p.HasPromo() {
		return *p.PromoPrice
	}
	return p.BasePrice
}

func (p *Plan) IsFree() bool {
	return p.EffectivePrice() == 0
}

// CanTopUp treats an unknown top-up capability as false.
func (p *Plan) CanTopUp() bool {
	return p.Flags.CanTopUp != nil && *p.Flags.CanTopUp
}

// DisplayName prefers "Provider: Plan" and falls back to the plan ID.
func (p *Plan) DisplayName() string {
	name := CoalesceStr(p.Name, p.ID)
	if p.ProviderName != "" {
		return p.ProviderName + ": " + name
	}
	return name
}

// Validate enforces the plan invariants. Called once at the load boundary.
func (p *Plan) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("plan id is required")
	}
	if p.ProviderID == "" {
		return fmt.Errorf("plan %q: provider id is required", p.ID)
	}
	if err := p.Scope.Validate(); err != nil {
		return fmt.Errorf("plan %q: %w", p.ID, err)
	}
	if p.DataMB <= 0 && p.DataMB != UnlimitedData {
		return fmt.Errorf("plan %q: data allowance must be positive or unlimited", p.ID)
	}
	if p.ValidityDays < 1 {
		return fmt.Errorf("plan %q: validity must be at least 1 day", p.ID)
	}
	if p.BasePrice < 0 {
		return fmt.Errorf("plan %q: negative base price %s", p.ID, p.BasePrice.FormatUSD())
	}
	if p.PromoPrice != nil {
		if *p.PromoPrice < 0 {
			return fmt.Errorf("plan %q: negative promo price", p.ID)
		}
		if *p.PromoPrice > p.BasePrice {
			return fmt.Errorf("plan %q: promo price %s exceeds base price %s",
				p.ID, p.PromoPrice.FormatUSD(), p.BasePrice.FormatUSD())
		}
	}
	return nil
}

package domain

type ScopeKind string

const (
	ScopeLocal    ScopeKind = "local"
	ScopeRegional ScopeKind = "regional"
)

// PromoRecurrence describes whether a provider's promo price applies to every
// purchase or only the first one.
type PromoRecurrence string

const (
	PromoOneTime   PromoRecurrence = "ONE_TIME"
	PromoUnlimited PromoRecurrence = "UNLIMITED"
	PromoUnknown   PromoRecurrence = "UNKNOWN"
)

type OverrideTarget string

const (
	TargetProvider     OverrideTarget = "provider"
	TargetPlan         OverrideTarget = "plan"
	TargetNameContains OverrideTarget = "name_contains"
)

// ValidOverrideTargets is the canonical set of accepted override target strings.
var ValidOverrideTargets = map[string]bool{
	"provider": true, "plan": true, "name_contains": true,
}

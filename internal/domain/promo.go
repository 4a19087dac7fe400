package domain

import (
	"fmt"
	"strings"
)

// ParsePromoRecurrence accepts the canonical values and the spellings used
// by scraped promo caches ("one-time", "unlimited", "none", "error").
func ParsePromoRecurrence(s string) (PromoRecurrence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one_time", "one-time", "onetime", "once":
		return PromoOneTime, nil
	case "unlimited", "recurring":
		return PromoUnlimited, nil
	case "unknown", "", "none", "error":
		return PromoUnknown, nil
	default:
		return PromoUnknown, fmt.Errorf("unknown promo recurrence %q", s)
	}
}

// PromoTable maps provider IDs to their promo recurrence. It is read-only
// once a run starts.
type PromoTable map[string]PromoRecurrence

// Lookup returns the recurrence for a provider, UNKNOWN when absent.
func (t PromoTable) Lookup(providerID string) PromoRecurrence {
	if r, ok := t[providerID]; ok {
		return r
	}
	return PromoUnknown
}

// Resolve applies the unknown policy: UNKNOWN collapses to unknownAs.
func Resolve(r, unknownAs PromoRecurrence) PromoRecurrence {
	if r == PromoUnknown {
		if unknownAs == PromoOneTime {
			return PromoOneTime
		}
		return PromoUnlimited
	}
	return r
}

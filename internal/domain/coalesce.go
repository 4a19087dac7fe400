package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// BoolFromPtrWithDefault returns the first non-nil *bool value, or the fallback.
func BoolFromPtrWithDefault(fallback bool, ptrs ...*bool) bool {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// MoneyPtr returns a pointer to m, for optional promo prices.
func MoneyPtr(m Money) *Money {
	return &m
}

// BoolPtr returns a pointer to b, for optional flags.
func BoolPtr(b bool) *bool {
	return &b
}

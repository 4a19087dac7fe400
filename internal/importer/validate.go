package importer

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/roamer/internal/domain"
)

// ErrMalformedInput marks input that fails the load boundary. Nothing is
// searched over a partially invalid input.
var ErrMalformedInput = errors.New("malformed input")

// ValidationError aggregates every problem found in one input.
type ValidationError struct {
	Source string
	Errs   []error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d validation error(s):", e.Source, len(e.Errs))
	for _, err := range e.Errs {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrMalformedInput }

// AsError returns nil for an empty error list and a *ValidationError
// otherwise.
func AsError(source string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Source: source, Errs: errs}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// structValidator reports field paths by their json names.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// checkStruct runs tag validation and renders failures as "prefix.field: msg".
func checkStruct(prefix string, v any) []error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{fmt.Errorf("%s: %w", prefix, err)}
	}
	out := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		path := field
		if prefix != "" {
			path = prefix + "." + field
		}
		out = append(out, fmt.Errorf("%s %s", path, describeTag(fe)))
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("must be > %s, got %v", fe.Param(), fe.Value())
	case "len":
		return fmt.Sprintf("must have length %s, got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "alpha":
		return fmt.Sprintf("must be letters only, got %q", fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// ValidateCatalog checks a catalog file before conversion. Returns every
// error found.
func ValidateCatalog(cat *CatalogFile) []error {
	var errs []error
	errs = append(errs, checkStruct("", cat)...)

	if len(cat.Plans) == 0 {
		errs = append(errs, fmt.Errorf("plans: catalog has no plans"))
	}

	seen := make(map[string]int, len(cat.Plans))
	for i := range cat.Plans {
		p := &cat.Plans[i]
		prefix := fmt.Sprintf("plans[%d]", i)
		errs = append(errs, checkStruct(prefix, p)...)

		if p.ID != "" {
			if first, dup := seen[p.ID]; dup {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q (first at plans[%d])", prefix, p.ID, first))
			} else {
				seen[p.ID] = i
			}
		}
		if p.CoverageType == string(domain.ScopeLocal) && len(p.Countries) > 1 {
			errs = append(errs, fmt.Errorf("%s.countries: local coverage takes exactly one country, got %d", prefix, len(p.Countries)))
		}
		if p.DataMB == nil && !p.Unlimited {
			errs = append(errs, fmt.Errorf("%s.data_mb is required unless unlimited is set", prefix))
		}
		if p.DataMB != nil && p.Unlimited {
			errs = append(errs, fmt.Errorf("%s: data_mb and unlimited are mutually exclusive", prefix))
		}
		if p.PromoPrice != nil && *p.PromoPrice > p.Price {
			errs = append(errs, fmt.Errorf("%s.promo_price %.2f exceeds price %.2f", prefix, *p.PromoPrice, p.Price))
		}
		if cur := planCurrency(cat, p); cur != "USD" {
			if _, ok := cat.Rates[cur]; !ok {
				errs = append(errs, fmt.Errorf("%s.currency: no rate for %q", prefix, cur))
			}
		}
	}
	return errs
}

// ValidatePromos checks every recurrence value in a promo file.
func ValidatePromos(promos PromoFile) []error {
	var errs []error
	for _, id := range sortedKeys(promos) {
		if _, err := domain.ParsePromoRecurrence(promos[id].PromoType); err != nil {
			errs = append(errs, fmt.Errorf("%s.promo_type: %w", id, err))
		}
	}
	return errs
}

// ValidateOverrides checks an overrides file before conversion.
func ValidateOverrides(ov *OverridesFile) []error {
	var errs []error
	errs = append(errs, checkStruct("", ov)...)

	if ov.DefaultPromoType != "" {
		if _, err := domain.ParsePromoRecurrence(ov.DefaultPromoType); err != nil {
			errs = append(errs, fmt.Errorf("default_promo_type: %w", err))
		}
	}
	for _, id := range sortedKeys(ov.ProviderPromoOverrides) {
		if _, err := domain.ParsePromoRecurrence(ov.ProviderPromoOverrides[id].PromoType); err != nil {
			errs = append(errs, fmt.Errorf("provider_promo_overrides.%s.promo_type: %w", id, err))
		}
	}

	for i, r := range ov.PlanOverrides {
		prefix := fmt.Sprintf("plan_overrides[%d]", i)
		set := 0
		for _, v := range []string{r.Match.PlanID, r.Match.ProviderID, r.Match.NameContains} {
			if v != "" {
				set++
			}
		}
		if set != 1 {
			errs = append(errs, fmt.Errorf("%s.match: exactly one of plan_id, provider_id, name_contains is required", prefix))
		}
		if r.Override.PromoType != "" {
			if _, err := domain.ParsePromoRecurrence(r.Override.PromoType); err != nil {
				errs = append(errs, fmt.Errorf("%s.override.promo_type: %w", prefix, err))
			} else if r.Match.ProviderID == "" {
				errs = append(errs, fmt.Errorf("%s.override.promo_type: requires a provider_id match", prefix))
			}
		}
		if !r.Override.Exclude && !r.Override.NewUserOnly && r.Override.PromoType == "" && r.Note == "" {
			errs = append(errs, fmt.Errorf("%s: override has no directive", prefix))
		}
	}
	return errs
}

// ValidateItinerary checks an itinerary file before conversion.
func ValidateItinerary(it *ItineraryFile) []error {
	var errs []error
	errs = append(errs, checkStruct("", it)...)

	single := it.Days != nil
	switch {
	case len(it.Segments) == 0 && !single:
		errs = append(errs, fmt.Errorf("itinerary requires segments or days"))
	case len(it.Segments) > 0 && single:
		errs = append(errs, fmt.Errorf("itinerary takes either segments or days, not both"))
	case single && it.DataMB == nil && it.DataGB == nil:
		errs = append(errs, fmt.Errorf("data_mb or data_gb is required"))
	}

	for i, s := range it.Segments {
		prefix := fmt.Sprintf("segments[%d]", i)
		errs = append(errs, checkStruct(prefix, &s)...)
		if s.DataMB != nil && s.DataGB != nil {
			errs = append(errs, fmt.Errorf("%s: data_mb and data_gb are mutually exclusive", prefix))
		}
		if s.DataMB == nil && s.DataGB == nil {
			errs = append(errs, fmt.Errorf("%s: data_mb or data_gb is required", prefix))
		}
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func planCurrency(cat *CatalogFile, p *PlanRecord) string {
	return strings.ToUpper(domain.CoalesceStr(p.Currency, cat.Currency, "USD"))
}

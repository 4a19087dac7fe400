package importer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var requiredCSVColumns = []string{"plan_id", "provider_id", "scope", "countries", "data_mb", "validity_days", "usd_price"}

// ParseCatalogCSV reads a catalog in the scraper's CSV layout. Prices are
// already in USD. A data_mb of -1 or "unlimited" marks an unlimited plan.
func ParseCatalogCSV(r io.Reader) (*CatalogFile, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty csv", ErrMalformedInput)
		}
		return nil, fmt.Errorf("%w: reading header: %w", ErrMalformedInput, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredCSVColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedInput, c)
		}
	}

	cat := &CatalogFile{Currency: "USD"}
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformedInput, row, err)
		}
		p, err := csvPlan(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformedInput, row, err)
		}
		cat.Plans = append(cat.Plans, p)
	}
	return cat, nil
}

func csvPlan(cols map[string]int, rec []string) (PlanRecord, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		v := strings.TrimSpace(rec[i])
		if strings.EqualFold(v, "nan") || strings.EqualFold(v, "none") {
			return ""
		}
		return v
	}

	p := PlanRecord{
		ID:           get("plan_id"),
		ProviderID:   get("provider_id"),
		ProviderName: get("provider_name"),
		Name:         get("plan_name"),
		CoverageType: strings.ToLower(get("scope")),
		Currency:     "USD",
	}

	if raw := get("countries"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.Countries); err != nil {
			return p, fmt.Errorf("column countries: expected a JSON array: %w", err)
		}
	}

	switch raw := get("data_mb"); {
	case raw == "":
	case strings.EqualFold(raw, "unlimited") || raw == "-1":
		p.Unlimited = true
	default:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("column data_mb: %w", err)
		}
		p.DataMB = &v
	}

	if raw := get("validity_days"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("column validity_days: %w", err)
		}
		p.ValidityDays = int(v)
	}

	price, err := parseOptionalFloat(get("usd_price"))
	if err != nil {
		return p, fmt.Errorf("column usd_price: %w", err)
	}
	if price == nil {
		return p, fmt.Errorf("column usd_price: value is required")
	}
	p.Price = *price
	if p.PromoPrice, err = parseOptionalFloat(get("usd_promo_price")); err != nil {
		return p, fmt.Errorf("column usd_promo_price: %w", err)
	}

	f := &p.Flags
	f.NewUserOnly = parseBool(get("new_user_only"))
	f.CanTopUp = parseOptionalBool(get("can_top_up"))
	f.Subscription = parseBool(get("subscription"))
	f.PayAsYouGo = parseBool(get("pay_as_you_go"))
	f.EKYC = parseBool(get("ekyc"))
	f.PossibleThrottling = parseBool(get("possible_throttling"))
	f.Tethering = parseOptionalBool(get("tethering"))
	f.HasAds = parseBool(get("has_ads"))
	f.RequiresPhone = parseBool(get("requires_phone"))
	if f.SpeedLimitKbps, err = parseKbps(get("speed_limit")); err != nil {
		return p, fmt.Errorf("column speed_limit: %w", err)
	}
	if f.ReducedSpeedKbps, err = parseKbps(get("reduced_speed")); err != nil {
		return p, fmt.Errorf("column reduced_speed: %w", err)
	}
	return p, nil
}

func parseOptionalFloat(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseBool(raw string) bool {
	b := parseOptionalBool(raw)
	return b != nil && *b
}

// parseOptionalBool accepts the spellings pandas and spreadsheets produce.
// Anything unrecognised is treated as unknown.
func parseOptionalBool(raw string) *bool {
	var v bool
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "y":
		v = true
	case "false", "0", "no", "n":
		v = false
	default:
		return nil
	}
	return &v
}

func parseKbps(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToLower(raw), "kbps"), 64)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

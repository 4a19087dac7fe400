package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/roamer/internal/app"
	"github.com/alexanderramin/roamer/internal/domain"
)

// FormatCatalogSummary renders the stored catalog's snapshot metadata.
func FormatCatalogSummary(s *app.CatalogSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("Snapshot: "), TruncID(s.SnapshotID))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Source:   "), s.Source)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Imported: "), HumanTimestamp(s.ImportedAt))
	fmt.Fprintf(&b, "%s  %d from %d provider(s)\n", Dim("Plans:    "), s.Plans, s.Providers)
	fmt.Fprintf(&b, "%s  %d local, %d regional, %d unlimited, %d free\n", Dim("Coverage: "), s.Local, s.Regional, s.Unlimited, s.Free)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Countries:"), strings.Join(s.Countries, " "))
	return RenderBox("Catalog", strings.TrimRight(b.String(), "\n"))
}

// FormatPlanList renders catalog plans as a table.
func FormatPlanList(plans []*domain.Plan) string {
	if len(plans) == 0 {
		return Dim("No plans found.") + "\n"
	}

	headers := []string{"ID", "PROVIDER", "PLAN", "COVERAGE", "DATA", "DAYS", "PRICE"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		price := p.BasePrice.FormatUSD()
		if p.HasPromo() {
			price = StylePurple.Render(p.PromoPrice.FormatUSD()) + " " + Dim(p.BasePrice.FormatUSD())
		}
		if p.IsFree() {
			price = StyleGreen.Render("FREE")
		}
		rows = append(rows, []string{
			Dim(p.ID),
			domain.CoalesceStr(p.ProviderName, p.ProviderID),
			domain.CoalesceStr(p.Name, "-"),
			StyleBlue.Render(coverageLabel(p.Scope)),
			FormatData(p.DataMB),
			fmt.Sprintf("%d", p.ValidityDays),
			price,
		})
	}
	return RenderTableAligned(headers, rows, 4, 5, 6) + Dim(fmt.Sprintf("%d plan(s)", len(plans))) + "\n"
}

func coverageLabel(s domain.CoverageScope) string {
	if s.IsLocal() {
		return s.Country()
	}
	countries := s.Countries()
	if len(countries) <= 4 {
		return strings.Join(countries, ",")
	}
	return fmt.Sprintf("%s,+%d", strings.Join(countries[:3], ","), len(countries)-3)
}

// FormatPromoList renders the stored promo recurrence table.
func FormatPromoList(entries []app.PromoEntry) string {
	if len(entries) == 0 {
		return Dim("No promo recurrence recorded. Unknown providers use the configured default.") + "\n"
	}

	headers := []string{"PROVIDER", "NAME", "PROMO", "UPDATED"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			Bold(e.ProviderID),
			domain.CoalesceStr(e.Name, "-"),
			RecurrenceStyle(e.Recurrence).Render(recurrenceLabel(e.Recurrence)),
			Dim(HumanTimestamp(e.UpdatedAt)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatOverrideList renders stored override rules in application order.
func FormatOverrideList(rules []domain.OverrideRule) string {
	if len(rules) == 0 {
		return Dim("No overrides.") + "\n"
	}

	headers := []string{"ID", "MATCH", "DIRECTIVES", "NOTE"}
	rows := make([][]string, 0, len(rules))
	for i := range rules {
		r := &rules[i]
		rows = append(rows, []string{
			Dim(TruncID(r.ID)),
			fmt.Sprintf("%s=%s", r.Target, Bold(r.Key)),
			directiveLabel(r),
			domain.CoalesceStr(r.Note, "-"),
		})
	}
	return RenderTable(headers, rows)
}

func directiveLabel(r *domain.OverrideRule) string {
	var parts []string
	if r.Exclude {
		parts = append(parts, StyleRed.Render("exclude"))
	}
	if r.NewUserOnly {
		parts = append(parts, StyleYellow.Render("new-user-only"))
	}
	if r.ForceRecurrence != nil {
		parts = append(parts, RecurrenceStyle(*r.ForceRecurrence).Render("promo "+recurrenceLabel(*r.ForceRecurrence)))
	}
	if len(parts) == 0 {
		return Dim("note")
	}
	return strings.Join(parts, ", ")
}

// FormatOverrideImport summarises what an overrides import stored.
func FormatOverrideImport(res *app.OverrideImportResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported %d override rule(s).\n", res.Rules)
	if res.HassleUnit != nil {
		fmt.Fprintf(&b, "Default hassle per extra plan: %s\n", res.HassleUnit.FormatUSD())
	}
	if res.UnknownAs != nil {
		fmt.Fprintf(&b, "Unknown promos treated as: %s\n", recurrenceLabel(*res.UnknownAs))
	}
	return b.String()
}

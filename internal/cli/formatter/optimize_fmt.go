package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/roamer/internal/app"
	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/alexanderramin/roamer/internal/optimizer"
)

// FormatOptimize renders the ranked solutions of one optimisation run.
func FormatOptimize(resp *app.OptimizeResponse, cur Currency) string {
	var b strings.Builder

	b.WriteString(Header("Itinerary"))
	b.WriteString("\n")
	b.WriteString(FormatItinerary(resp.Itinerary))
	b.WriteString("\n")

	if resp.NoFeasible() {
		b.WriteString(StyleRed.Render("No feasible combination found."))
		b.WriteString("\n")
		b.WriteString(Dim(fmt.Sprintf("Searched %d plans (max %d per combination). Try a larger --max-plans or a wider catalog.",
			resp.Stats.SpaceSize, resp.Params.MaxPlans)))
		b.WriteString("\n")
		writeRunWarnings(&b, resp)
		return b.String()
	}

	b.WriteString(Header(fmt.Sprintf("Top %d of %d plans", len(resp.Solutions), resp.Stats.SpaceSize)))
	b.WriteString("\n")
	for i := range resp.Solutions {
		b.WriteString(FormatSolution(i+1, &resp.Solutions[i], cur))
		b.WriteString("\n")
	}

	writeRunWarnings(&b, resp)

	b.WriteString(Dim(fmt.Sprintf("hassle %s per extra plan · unknown promos as %s · %d combinations scored in %s",
		resp.Params.HassleUnit.FormatUSD(),
		recurrenceLabel(resp.Params.UnknownPromoAs),
		resp.Stats.Feasible,
		resp.Stats.Elapsed.Round(time.Millisecond))))
	b.WriteString("\n")
	return b.String()
}

// FormatItinerary renders one line per segment plus a total.
func FormatItinerary(it domain.Itinerary) string {
	var b strings.Builder
	for _, s := range it {
		fmt.Fprintf(&b, "  %s %-9s %s\n", Bold(fmt.Sprintf("%-6s", s.Label())), FormatDays(s.Days), FormatData(s.DataMB))
	}
	if len(it) > 1 {
		b.WriteString(Dim(fmt.Sprintf("  total  %s, %s", FormatDays(it.TotalDays()), FormatData(it.TotalDataMB()))))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatSolution renders one ranked solution block.
func FormatSolution(rank int, s *optimizer.Solution, cur Currency) string {
	var b strings.Builder

	title := fmt.Sprintf("#%d  %s", rank, FormatMoney(s.DisplayCost, cur))
	if s.RankingCost != s.DisplayCost {
		title += "  " + Dim("ranked as "+s.RankingCost.FormatUSD())
	}
	b.WriteString(StyleBold.Render(title))
	b.WriteString("\n")

	summary := fmt.Sprintf("%d plan(s) · %s · %s", s.PlanCount(), FormatData(s.TotalDataMB()), FormatDays(s.TotalDays()))
	if s.Activations > 1 {
		summary += fmt.Sprintf(" · %d activations", s.Activations)
	}
	if s.TopUps > 0 {
		summary += fmt.Sprintf(" · %d top-up(s)", s.TopUps)
	}
	if s.HassleCost > 0 {
		summary += " · hassle " + s.HassleCost.FormatUSD()
	}
	b.WriteString("   " + Dim(summary))
	b.WriteString("\n")

	for _, l := range s.Lines {
		b.WriteString("   ")
		b.WriteString(formatLine(l))
		b.WriteString("\n")
	}
	for _, w := range s.Warnings {
		b.WriteString("   ")
		b.WriteString(StyleYellow.Render("! " + w))
		b.WriteString("\n")
	}
	return b.String()
}

func formatLine(l optimizer.Line) string {
	p := l.Plan
	price := l.UnitPrice.FormatUSD()
	switch {
	case l.UnitPrice == 0:
		price = StyleGreen.Render("FREE")
	case l.PromoApplied:
		price += " " + StylePurple.Render("[PROMO]")
	case p.HasPromo():
		price += " " + Dim("(promo used)")
	}
	return fmt.Sprintf("%d. %s  %s  %s/%s  %s",
		l.Position+1,
		p.DisplayName(),
		StyleBlue.Render(p.Scope.String()),
		FormatData(p.DataMB),
		fmt.Sprintf("%dd", p.ValidityDays),
		price)
}

func writeRunWarnings(b *strings.Builder, resp *app.OptimizeResponse) {
	if resp.Truncated {
		b.WriteString(StyleYellow.Render("! search stopped early; results are the best found so far"))
		b.WriteString("\n")
	}
	for _, w := range resp.Warnings {
		b.WriteString(StyleYellow.Render("! " + w))
		b.WriteString("\n")
	}
}

func recurrenceLabel(r domain.PromoRecurrence) string {
	switch r {
	case domain.PromoOneTime:
		return "one-time"
	case domain.PromoUnlimited:
		return "unlimited"
	default:
		return "unknown"
	}
}

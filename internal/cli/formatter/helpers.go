package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/roamer/internal/domain"
)

// Currency is an optional secondary currency shown next to USD amounts.
// A zero value shows USD only.
type Currency struct {
	Code string
	Rate float64
}

func (c Currency) enabled() bool {
	return c.Code != "" && c.Rate > 0
}

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// FormatMoney renders "$12.34", followed by "(11.40 EUR)" when a secondary
// currency is configured.
func FormatMoney(m domain.Money, cur Currency) string {
	out := m.FormatUSD()
	if cur.enabled() {
		out += " " + Dim(fmt.Sprintf("(%.2f %s)", m.Convert(cur.Rate), cur.Code))
	}
	return out
}

// FormatData renders a data amount in GB above 1 GB, MB otherwise.
func FormatData(mb int64) string {
	switch {
	case mb == domain.UnlimitedData:
		return "unlimited"
	case mb >= 1024 && mb%1024 == 0:
		return strconv.FormatInt(mb/1024, 10) + "GB"
	case mb >= 1024:
		return fmt.Sprintf("%.1fGB", float64(mb)/1024)
	default:
		return fmt.Sprintf("%dMB", mb)
	}
}

// FormatDays renders "1 day" or "N days".
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// HumanTimestamp returns a format like "Feb 10, 2026 14:30".
func HumanTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

// TruncID shortens a UUID for display.
func TruncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"jobdeck/internal/history"
)

// statusBadge pairs the icon and color shown for a search status.
type statusBadge struct {
	icon  string
	color lipgloss.Color
}

// statusBadges is the complete status-to-badge mapping. Statuses not in
// the table render with no icon and neutral styling.
var statusBadges = map[history.Status]statusBadge{
	history.StatusCompleted:  {icon: "✓", color: Success},
	history.StatusFailed:     {icon: "✗", color: Destructive},
	history.StatusInProgress: {icon: "◌", color: Warning},
}

// statusBadgeFor looks up the badge for a status.
func statusBadgeFor(st history.Status, theme Theme) statusBadge {
	if b, ok := statusBadges[st]; ok {
		return b
	}
	return statusBadge{color: theme.Muted}
}

// RenderHistoryCard renders one saved search as a bordered card. The
// card is pure display: it owns no state and triggers no actions, the
// surrounding page decides what delete or repeat mean.
func RenderHistoryCard(rec history.Record, styles Styles, width int, active bool) string {
	badge := statusBadgeFor(rec.Status, styles.Theme)
	badgeStyle := lipgloss.NewStyle().Foreground(badge.color).Bold(true)

	var b strings.Builder

	// Status and relative age share the top line.
	statusText := string(rec.Status)
	if statusText == "" {
		statusText = "unknown"
	}
	label := statusText
	if badge.icon != "" {
		label = badge.icon + " " + statusText
	}
	age := humanize.Time(rec.SearchedAt)
	top := badgeStyle.Render(label)
	gap := width - 6 - lipgloss.Width(top) - lipgloss.Width(age)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(top)
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(styles.Muted.Render(age))
	b.WriteString("\n")

	b.WriteString(styles.Bold.Render(truncate(rec.Query, width-6)))
	b.WriteString("\n")

	// Filters, skipping whatever was left blank.
	var filters []string
	if rec.Location != "" {
		filters = append(filters, rec.Location)
	}
	if rec.JobType != "" {
		filters = append(filters, rec.JobType)
	}
	if rec.SalaryRange != "" {
		filters = append(filters, rec.SalaryRange)
	}
	if rec.PostedWithin != "" {
		filters = append(filters, "posted "+rec.PostedWithin)
	}
	if len(filters) > 0 {
		b.WriteString(styles.Muted.Render(truncate(strings.Join(filters, " · "), width-6)))
		b.WriteString("\n")
	}

	b.WriteString(styles.Body.Render(fmt.Sprintf("%d results", rec.ResultCount)))

	if len(rec.Tags) > 0 {
		b.WriteString("\n")
		chips := make([]string, len(rec.Tags))
		for i, tag := range rec.Tags {
			chips[i] = styles.InlineCode.Render(tag)
		}
		b.WriteString(strings.Join(chips, " "))
	}

	card := styles.Card
	if active {
		card = styles.CardActive
	}
	if width > 4 {
		card = card.Width(width - 4)
	}
	return card.Render(b.String())
}

// truncate shortens s to max runes, appending an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

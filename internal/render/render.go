// Package render formats analyses for the terminal and for JSON
// export. Terminal output follows the legibility rule: every decision
// readable at a glance, no technical vocabulary required.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/esperstack/esper-mail/internal/packet"
	"github.com/esperstack/esper-mail/internal/router"
)

// #region styles
var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Faint(true)
	glossStyle  = lipgloss.NewStyle().Italic(true)
)

// folderStyle colors the folder name with the category's own color.
func folderStyle(a router.Analysis) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(a.Color))
}

// #endregion styles

// #region pretty

// Pretty renders the full analysis card.
func Pretty(a router.Analysis) string {
	bar := strings.Repeat("=", 70)

	var b strings.Builder
	b.WriteString(bar + "\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %s  Email Analysis", a.Icon)) + "\n")
	b.WriteString(bar + "\n\n")

	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("From:"), a.Metadata.Sender)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Subject:"), a.Metadata.Subject)
	date := a.Metadata.Date
	if date == "" {
		date = "Unknown"
	}
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Date:"), date)

	b.WriteString(glossStyle.Render(a.Gloss) + "\n\n")

	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Routing:"), folderStyle(a).Render(string(a.Folder)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Priority:"), strings.ToUpper(string(a.Priority)))
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Action:"), a.Action)

	b.WriteString(labelStyle.Render("Metrics:") + "\n")
	fmt.Fprintf(&b, "   Urgency:    %s %0.2f\n", metricBar(a.Urgency, 20), a.Urgency)
	fmt.Fprintf(&b, "   Importance: %s %0.2f\n", metricBar(a.Importance, 20), a.Importance)
	fmt.Fprintf(&b, "   Warmth:     %s %0.2f\n", metricBar(a.Warmth, 20), a.Warmth)
	fmt.Fprintf(&b, "   Tension:    %s %0.2f\n\n", metricBar(a.Tension, 20), a.Tension)

	b.WriteString(bar + "\n")
	return b.String()
}

// metricBar draws a fixed-width fill bar. Negative values (warmth can
// be) render empty rather than panicking on a negative repeat count.
func metricBar(value float64, width int) string {
	filled := int(value * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat(" ", width-filled)
}

// #endregion pretty

// #region minimal

// Minimal renders one line per message for batch output.
func Minimal(a router.Analysis) string {
	return fmt.Sprintf("%s %s %s",
		a.Icon,
		folderStyle(a).Render("["+string(a.Folder)+"]"),
		a.Metadata.Subject,
	)
}

// #endregion minimal

// #region verbose

// Verbose renders the per-agent packet dump under the pretty card.
func Verbose(a router.Analysis) string {
	var b strings.Builder
	b.WriteString(Pretty(a))
	b.WriteString("\nAgent Packets:\n")

	for _, role := range packet.Roles {
		p, ok := a.Packets[role]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s (confidence %0.2f)\n", strings.ToUpper(role), p.Confidence)
		fmt.Fprintf(&b, "    %s\n", p.Gloss)
		fmt.Fprintf(&b, "    intent: urgency=%0.2f importance=%0.2f warmth=%0.2f tension=%0.2f\n",
			p.Signal.Urgency, p.Signal.Importance, p.Signal.Warmth, p.Signal.Tension)
	}

	rule, detail := router.FiredRule(a)
	fmt.Fprintf(&b, "\nFired rule: %s (%s)\n", rule, detail)
	return b.String()
}

// #endregion verbose

// #region json

// JSONBytes marshals analyses in wire form: a single object for one
// analysis, an array otherwise.
func JSONBytes(analyses []router.Analysis) ([]byte, error) {
	if len(analyses) == 1 {
		return json.MarshalIndent(router.ToWire(analyses[0]), "", "  ")
	}
	wires := make([]router.WireAnalysis, 0, len(analyses))
	for _, a := range analyses {
		wires = append(wires, router.ToWire(a))
	}
	return json.MarshalIndent(wires, "", "  ")
}

// #endregion json

package ui

import (
	"fmt"
	"strings"

	"aghi-dashboard/internal/types"

	"github.com/charmbracelet/glamour"
	"github.com/rivo/tview"
)

// BriefingMarkdown is the briefing as a markdown document, with the
// diagnosis appended when there is one. It is also what gets copied to the
// clipboard.
func BriefingMarkdown(b types.Briefing, diag *types.Diagnosis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Executive briefing: %s\n\n", b.Target)
	if b.Timestamp != "" {
		fmt.Fprintf(&sb, "_Generated %s_\n\n", b.Timestamp)
	}
	for _, s := range b.Sections {
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n", s.Title, strings.TrimSpace(s.Content))
	}
	if diag != nil {
		sb.WriteString(diagnosisMarkdown(*diag))
	}
	return sb.String()
}

func diagnosisMarkdown(d types.Diagnosis) string {
	var sb strings.Builder
	sb.WriteString("## Root-cause diagnosis\n\n")
	if p := d.PrimaryPillarIssue; p.Label != "" {
		fmt.Fprintf(&sb, "Weakest pillar: **%s** at %.1f (reference %.1f, gap %.1f)\n\n", p.Label, p.Score, p.NationalAvg, p.Gap)
	}
	if d.Diagnosis != "" {
		fmt.Fprintf(&sb, "%s\n\n", d.Diagnosis)
	}
	if d.Trends != "" {
		fmt.Fprintf(&sb, "Trend: %s\n\n", d.Trends)
	}
	if len(d.AllPillars) > 0 {
		sb.WriteString("| Pillar | Score | Reference | Gap |\n|---|---|---|---|\n")
		for _, p := range d.AllPillars {
			fmt.Fprintf(&sb, "| %s | %.1f | %.1f | %.1f |\n", p.Label, p.Score, p.NationalAvg, p.Gap)
		}
		sb.WriteString("\n")
	}
	if len(d.CriticalDistricts) > 0 {
		fmt.Fprintf(&sb, "Critical districts: %s\n\n", strings.Join(d.CriticalDistricts, ", "))
	}
	return sb.String()
}

// RenderMarkdown renders md for a tview text view of the given width. When
// glamour fails the raw markdown is shown, escaped.
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return tview.Escape(md)
	}
	out, err := r.Render(md)
	if err != nil {
		return tview.Escape(md)
	}
	return tview.TranslateANSI(out)
}

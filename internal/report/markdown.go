package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderMarkdown produces the human-readable view of a report document used
// by the report viewer.
func RenderMarkdown(doc *Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Competitive Intelligence Report\n\n")
	if doc.CompanyInfo.Industry != "" {
		fmt.Fprintf(&b, "- Industry: %s\n", sanitizeCell(doc.CompanyInfo.Industry))
		fmt.Fprintf(&b, "- Country: %s\n", sanitizeCell(doc.CompanyInfo.Country))
		fmt.Fprintf(&b, "- Company: %s\n", sanitizeCell(doc.CompanyInfo.CompanyURL))
	}
	if doc.OverallScore > 0 || len(doc.CategoryScores) > 0 {
		fmt.Fprintf(&b, "- AI Readiness Score: %d%%\n", doc.OverallScore)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Executive Summary\n\n")
	s := doc.ExecutiveSummary
	fmt.Fprintf(&b, "%s\n\n", sanitizeCell(s.GlobalTrends))
	fmt.Fprintf(&b, "| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&b, "| Global market size | %s |\n", sanitizeCell(s.MarketSize))
	fmt.Fprintf(&b, "| Growth projection | %s |\n", sanitizeCell(s.GrowthProjection))
	fmt.Fprintf(&b, "| Regional market size | %s |\n", sanitizeCell(s.RegionalMarketSize))
	fmt.Fprintf(&b, "| Regional growth rate | %s |\n", sanitizeCell(s.RegionalGrowthRate))
	fmt.Fprintf(&b, "| Regional competitors | %s |\n\n", sanitizeCell(s.RegionalCompetitorCount))

	fmt.Fprintf(&b, "## Industry Leaders\n\n")
	fmt.Fprintf(&b, "| Company | AI Investment | ROI Increase | Efficiency Gain | Market Cap Impact |\n")
	fmt.Fprintf(&b, "|---------|---------------|--------------|-----------------|-------------------|\n")
	for _, l := range doc.IndustryLeaders {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			sanitizeCell(l.Name), sanitizeCell(l.AIInvestment), sanitizeCell(l.ROIIncrease),
			sanitizeCell(l.EfficiencyGain), sanitizeCell(l.MarketCapImpact))
	}
	b.WriteString("\n")
	for _, l := range doc.IndustryLeaders {
		if l.SMMEInsight != "" {
			fmt.Fprintf(&b, "- **%s**: %s\n", sanitizeCell(l.Name), sanitizeCell(l.SMMEInsight))
		}
		if l.PracticalTip != "" {
			fmt.Fprintf(&b, "  - Tip: %s\n", sanitizeCell(l.PracticalTip))
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Competitor Analysis\n\n")
	for _, c := range doc.CompetitorAnalysis {
		fmt.Fprintf(&b, "### %s\n\n", sanitizeCell(c.Name))
		fmt.Fprintf(&b, "- Region: %s\n", sanitizeCell(c.Region))
		fmt.Fprintf(&b, "- AI maturity: %s (%d/100)\n", sanitizeCell(c.AIMaturity), c.AIMaturityScore)
		fmt.Fprintf(&b, "- Threat level: %s\n", sanitizeCell(c.ThreatLevel))
		fmt.Fprintf(&b, "- Market share: %s\n", sanitizeCell(c.MarketShare))
		if len(c.Initiatives) > 0 {
			fmt.Fprintf(&b, "- Initiatives: %s\n", sanitizeCell(strings.Join(c.Initiatives, ", ")))
		}
		if c.RegionalPresence != "" {
			fmt.Fprintf(&b, "\n%s\n", sanitizeCell(c.RegionalPresence))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Opportunities\n\n")
	for _, o := range doc.Opportunities {
		fmt.Fprintf(&b, "- **%s** (impact: %s, timeline: %s, investment: %s) — %s\n",
			sanitizeCell(o.Title), sanitizeCell(o.Impact), sanitizeCell(o.Timeline),
			sanitizeCell(o.Investment), sanitizeCell(o.Description))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Risks\n\n")
	for _, r := range doc.Risks {
		fmt.Fprintf(&b, "- **%s** (severity: %s) — %s Mitigation: %s\n",
			sanitizeCell(r.Title), sanitizeCell(r.Severity), sanitizeCell(r.Description), sanitizeCell(r.Mitigation))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Recommendations\n\n")
	for _, r := range doc.Recommendations {
		fmt.Fprintf(&b, "- **%s** (priority: %s, expected ROI: %s, timeline: %s) — %s\n",
			sanitizeCell(r.Title), sanitizeCell(r.Priority), sanitizeCell(r.ExpectedROI),
			sanitizeCell(r.Timeline), sanitizeCell(r.Description))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Two-Week Plan\n\n")
	writeWeek(&b, "Week 1", doc.TwoWeekPlan.Week1)
	writeWeek(&b, "Week 2", doc.TwoWeekPlan.Week2)

	return b.String()
}

func writeWeek(b *strings.Builder, label string, week WeekPlan) {
	fmt.Fprintf(b, "### %s: %s\n\n", label, sanitizeCell(week.Focus))
	fmt.Fprintf(b, "Goal: %s\n\n", sanitizeCell(week.WeeklyGoal))
	for _, t := range week.Tasks {
		fmt.Fprintf(b, "- **%s** (%s) — %s Deliverable: %s. Success metric: %s\n",
			sanitizeCell(t.Title), sanitizeCell(t.TimeRequired), sanitizeCell(t.Description),
			sanitizeCell(t.Deliverable), sanitizeCell(t.SuccessMetric))
	}
	b.WriteString("\n")
}

func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// RenderHTML converts the markdown view to HTML for the browser report view.
func RenderHTML(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(RenderMarkdown(doc)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

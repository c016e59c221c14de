package report

import (
	"fmt"
	"strings"

	"github.com/rowanfield/aipulse/internal/assessment"
)

// buildPrompt renders the fixed report prompt. Country and industry are
// repeated in the trailing instructions on purpose; the completion models
// drift toward generic global answers without the emphasis.
func buildPrompt(info assessment.CompanyInfo, overallScore int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a competitive intelligence report for a %s company in %s with AI readiness score of %d%%.\n\n",
		info.Industry, info.Country, overallScore)
	fmt.Fprintf(&b, "Focus on regional market analysis for %s and provide country-specific insights.\n\n", info.Country)
	b.WriteString("Return valid JSON with this structure:\n")
	fmt.Fprintf(&b, `{
  "executiveSummary": {
    "globalTrends": "Global AI adoption accelerating with regional variations",
    "marketSize": "$500 billion by 2025",
    "growthProjection": "35%% CAGR through 2030",
    "regionalMarketSize": "Regional market size for %[1]s",
    "regionalGrowthRate": "Regional growth rate for %[1]s",
    "regionalCompetitorCount": "Number of key competitors in %[1]s"
  },
  "industryLeaders": [
    {
      "name": "Global Tech Corp",
      "aiInvestment": "$3.2B",
      "roiIncrease": "45%%",
      "efficiencyGain": "38%%",
      "marketCapImpact": "32%%",
      "initiatives": ["AI Platform Development", "Predictive Analytics", "Automation"]
    },
    {
      "name": "Innovation Leaders Inc",
      "aiInvestment": "$2.8B",
      "roiIncrease": "42%%",
      "efficiencyGain": "35%%",
      "marketCapImpact": "28%%",
      "initiatives": ["Machine Learning", "Data Science", "Cloud AI"]
    },
    {
      "name": "Digital Transform Ltd",
      "aiInvestment": "$2.1B",
      "roiIncrease": "38%%",
      "efficiencyGain": "31%%",
      "marketCapImpact": "24%%",
      "initiatives": ["Process Automation", "AI Insights", "Smart Systems"]
    }
  ],
  "competitorAnalysis": [
    {
      "name": "Competitor name operating in %[1]s",
      "region": "%[1]s",
      "aiMaturity": "Leader/Challenger/Follower",
      "aiMaturityScore": 90,
      "initiatives": ["AI Platform Development", "Data Analytics"],
      "threatLevel": "High",
      "marketShare": "Market share in %[1]s",
      "regionalPresence": "Description of presence in %[1]s"
    },
    {
      "name": "Another competitor in %[1]s",
      "region": "%[1]s",
      "aiMaturity": "Challenger",
      "aiMaturityScore": 75,
      "initiatives": ["AI Research", "Compliance Solutions"],
      "threatLevel": "Medium",
      "marketShare": "Market share in %[1]s",
      "regionalPresence": "Description of presence in %[1]s"
    }
  ],
  "opportunities": [
    {
      "title": "AI Process Automation",
      "description": "Automate key business processes using AI",
      "impact": "High",
      "timeline": "3-6 months",
      "investment": "Medium"
    }
  ],
  "risks": [
    {
      "title": "Implementation Complexity",
      "description": "Complex integration challenges",
      "severity": "Medium",
      "mitigation": "Phased implementation approach"
    }
  ],
  "recommendations": [
    {
      "title": "AI Strategy Development",
      "description": "Create comprehensive AI transformation strategy",
      "priority": "High",
      "expectedRoi": "200-300%%",
      "timeline": "6-12 months"
    }
  ],
  "twoWeekPlan": {
    "week1": {
      "focus": "Foundation Building",
      "weeklyGoal": "Establish AI governance and baseline assessment",
      "tasks": [
        {
          "title": "AI Governance Framework",
          "description": "Develop internal AI policies and procedures",
          "timeRequired": "2-3 days",
          "deliverable": "Governance document",
          "successMetric": "Framework approved by leadership"
        }
      ]
    },
    "week2": {
      "focus": "Advanced Implementation",
      "weeklyGoal": "Launch pilot AI initiatives",
      "tasks": [
        {
          "title": "Pilot AI Project",
          "description": "Implement first AI use case in controlled environment",
          "timeRequired": "5-7 days",
          "deliverable": "Working prototype",
          "successMetric": "Pilot completed with lessons learned"
        }
      ]
    }
  }
}
`, info.Country)
	b.WriteString("\nBe concise but complete. Ensure valid JSON format.\n\nIMPORTANT:\n")
	fmt.Fprintf(&b, "- Focus on %s market specifically\n", info.Country)
	fmt.Fprintf(&b, "- Provide regional market size and growth rate for %s\n", info.Country)
	fmt.Fprintf(&b, "- Include competitors operating in %s\n", info.Country)
	fmt.Fprintf(&b, "- Include 3 industry leaders with realistic AI investment, ROI, and efficiency metrics for %s industry in %s\n", info.Industry, info.Country)
	fmt.Fprintf(&b, "- All competitor analysis should be focused on %s market\n", info.Country)
	b.WriteString("- Provide country-specific insights and opportunities")
	return b.String()
}

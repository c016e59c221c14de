package report

import "github.com/rowanfield/aipulse/internal/assessment"

// Source records how a document was produced. It never leaves the package
// boundary as part of the document itself; callers receive the same schema
// regardless of provenance.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Generated pairs a finished document with its provenance for logging and
// tests. HTTP handlers unwrap and return only the document.
type Generated struct {
	Source   Source
	Document *Document
}

// Document is the competitive intelligence report schema shared by the AI
// and fallback paths. Field names match the JSON contract the web client
// consumes.
type Document struct {
	ExecutiveSummary   ExecutiveSummary       `json:"executiveSummary"`
	IndustryLeaders    []IndustryLeader       `json:"industryLeaders"`
	CompetitorAnalysis []Competitor           `json:"competitorAnalysis"`
	Opportunities      []Opportunity          `json:"opportunities"`
	Risks              []Risk                 `json:"risks"`
	Recommendations    []Recommendation       `json:"recommendations"`
	TwoWeekPlan        TwoWeekPlan            `json:"twoWeekPlan"`
	CompanyInfo        assessment.CompanyInfo `json:"companyInfo"`
	OverallScore       int                    `json:"overallScore,omitempty"`
	CategoryScores     map[string]int         `json:"categoryScores,omitempty"`
}

type ExecutiveSummary struct {
	GlobalTrends            string `json:"globalTrends"`
	MarketSize              string `json:"marketSize"`
	GrowthProjection        string `json:"growthProjection"`
	RegionalMarketSize      string `json:"regionalMarketSize"`
	RegionalGrowthRate      string `json:"regionalGrowthRate"`
	RegionalCompetitorCount string `json:"regionalCompetitorCount"`
}

type IndustryLeader struct {
	Name            string   `json:"name"`
	Country         string   `json:"country,omitempty"`
	AIInvestment    string   `json:"aiInvestment"`
	ROIIncrease     string   `json:"roiIncrease"`
	EfficiencyGain  string   `json:"efficiencyGain"`
	MarketCapImpact string   `json:"marketCapImpact"`
	Initiatives     []string `json:"initiatives"`
	SMMEInsight     string   `json:"smmeInsight,omitempty"`
	PracticalTip    string   `json:"practicalTip,omitempty"`
}

type Competitor struct {
	Name             string   `json:"name"`
	Region           string   `json:"region"`
	AIMaturity       string   `json:"aiMaturity"`
	AIMaturityScore  int      `json:"aiMaturityScore"`
	Initiatives      []string `json:"initiatives"`
	ThreatLevel      string   `json:"threatLevel"`
	MarketShare      string   `json:"marketShare"`
	RegionalPresence string   `json:"regionalPresence"`
}

type Opportunity struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Timeline    string `json:"timeline"`
	Investment  string `json:"investment"`
}

type Risk struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Probability string `json:"probability,omitempty"`
	Mitigation  string `json:"mitigation"`
}

type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	ExpectedROI string `json:"expectedRoi"`
	Timeline    string `json:"timeline"`
}

type TwoWeekPlan struct {
	Week1 WeekPlan `json:"week1"`
	Week2 WeekPlan `json:"week2"`
}

type WeekPlan struct {
	Focus      string     `json:"focus"`
	WeeklyGoal string     `json:"weeklyGoal"`
	Tasks      []PlanTask `json:"tasks"`
}

type PlanTask struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	TimeRequired  string `json:"timeRequired"`
	Deliverable   string `json:"deliverable"`
	SuccessMetric string `json:"successMetric"`
}

// Valid reports whether a document meets the minimal contract both paths
// must satisfy: an executive summary and at least two competitors.
func (d *Document) Valid() bool {
	if d == nil {
		return false
	}
	if d.ExecutiveSummary == (ExecutiveSummary{}) {
		return false
	}
	return len(d.CompetitorAnalysis) >= 2
}

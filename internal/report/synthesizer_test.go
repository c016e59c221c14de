package report

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/rowanfield/aipulse/internal/assessment"
)

type fakeCaller struct {
	response string
	err      error
	calls    int
}

func (f *fakeCaller) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeArchiver struct {
	saved []*ArchiveRecord
	err   error
}

func (f *fakeArchiver) SaveReport(ctx context.Context, rec *ArchiveRecord) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, rec)
	return "report-1", nil
}

func testCompany() assessment.CompanyInfo {
	return assessment.CompanyInfo{
		Industry:   "healthcare",
		Country:    "Germany",
		CompanyURL: "https://www.medikon.de",
	}
}

func testConfig() SynthesizerConfig {
	return SynthesizerConfig{
		Timeout: time.Second,
		Clock:   func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) },
		Rand:    rand.New(rand.NewSource(1)),
	}
}

func testScores() map[string]int {
	return map[string]int{
		"Strategy & Leadership": 50,
		"Skills & Talent":       25,
		"Data & Infrastructure": 63,
		"Culture & Adoption":    25,
	}
}

const validAIResponse = `Here is the report you asked for:
{
  "executiveSummary": {
    "globalTrends": "AI adoption accelerating",
    "marketSize": "$500 billion by 2025",
    "growthProjection": "35% CAGR through 2030",
    "regionalMarketSize": "$30B in Germany by 2025",
    "regionalGrowthRate": "28% CAGR",
    "regionalCompetitorCount": "15+ active competitors in Germany"
  },
  "industryLeaders": [
    {"name": "A", "aiInvestment": "$3.2B", "roiIncrease": "45%", "efficiencyGain": "38%", "marketCapImpact": "32%", "initiatives": ["X"]},
    {"name": "B", "aiInvestment": "$2.8B", "roiIncrease": "42%", "efficiencyGain": "35%", "marketCapImpact": "28%", "initiatives": ["Y"]},
    {"name": "C", "aiInvestment": "$2.1B", "roiIncrease": "38%", "efficiencyGain": "31%", "marketCapImpact": "24%", "initiatives": ["Z"]}
  ],
  "competitorAnalysis": [
    {"name": "Comp1", "region": "Germany", "aiMaturity": "Leader", "aiMaturityScore": 90, "initiatives": ["AI"], "threatLevel": "High", "marketShare": "25%", "regionalPresence": "Strong"},
    {"name": "Comp2", "region": "Germany", "aiMaturity": "Challenger", "aiMaturityScore": 75, "initiatives": ["ML"], "threatLevel": "Medium", "marketShare": "18%", "regionalPresence": "Growing"}
  ],
  "opportunities": [{"title": "O1", "description": "d", "impact": "High", "timeline": "3-6 months", "investment": "Medium"}],
  "risks": [{"title": "R1", "description": "d", "severity": "Medium", "mitigation": "m"}],
  "recommendations": [{"title": "Rec1", "description": "d", "priority": "High", "expectedRoi": "200-300%", "timeline": "6-12 months"}],
  "twoWeekPlan": {
    "week1": {"focus": "Foundation", "weeklyGoal": "g", "tasks": [{"title": "t", "description": "d", "timeRequired": "2-3 days", "deliverable": "x", "successMetric": "m"}]},
    "week2": {"focus": "Implementation", "weeklyGoal": "g", "tasks": [{"title": "t", "description": "d", "timeRequired": "5-7 days", "deliverable": "x", "successMetric": "m"}]}
  }
}
Let me know if you need anything else.`

func TestGenerateUsesAIPathWhenResponseParses(t *testing.T) {
	caller := &fakeCaller{response: validAIResponse}
	archive := &fakeArchiver{}
	syn := NewSynthesizer(caller, archive, testConfig())

	gen, err := syn.Generate(context.Background(), testCompany(), 41, testScores())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gen.Source != SourceAI {
		t.Fatalf("source = %s, want ai", gen.Source)
	}
	if gen.Document.CompetitorAnalysis[0].Name != "Comp1" {
		t.Fatalf("competitor = %s, want Comp1 from AI response", gen.Document.CompetitorAnalysis[0].Name)
	}
	if gen.Document.OverallScore != 41 {
		t.Fatalf("overall score not attached: %d", gen.Document.OverallScore)
	}
	if gen.Document.CompanyInfo.Country != "Germany" {
		t.Fatal("company info not attached")
	}
	if len(archive.saved) != 1 {
		t.Fatalf("archived %d records, want 1", len(archive.saved))
	}
}

func TestGenerateFallsBackOnCallerError(t *testing.T) {
	caller := &fakeCaller{err: errors.New("completion endpoint exploded")}
	syn := NewSynthesizer(caller, nil, testConfig())

	gen, err := syn.Generate(context.Background(), testCompany(), 41, testScores())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gen.Source != SourceFallback {
		t.Fatalf("source = %s, want fallback", gen.Source)
	}
	assertValidFallback(t, gen.Document)
	if caller.calls != 1 {
		t.Fatalf("caller invoked %d times, want exactly 1 (no retries)", caller.calls)
	}
}

func TestGenerateFallsBackOnUnparsableResponse(t *testing.T) {
	cases := []string{
		"",
		"I am sorry, I cannot produce that report.",
		`{"executiveSummary": {"globalTrends": "x"`,
		`{"opportunities": []}`,
		`{"executiveSummary": {"globalTrends": "x"}, "competitorAnalysis": []}`,
	}
	for _, response := range cases {
		caller := &fakeCaller{response: response}
		syn := NewSynthesizer(caller, nil, testConfig())
		gen, err := syn.Generate(context.Background(), testCompany(), 41, testScores())
		if err != nil {
			t.Fatalf("generate(%q): %v", response, err)
		}
		if gen.Source != SourceFallback {
			t.Fatalf("response %q: source = %s, want fallback", response, gen.Source)
		}
		assertValidFallback(t, gen.Document)
	}
}

func TestGenerateWithoutCallerUsesFallback(t *testing.T) {
	syn := NewSynthesizer(nil, nil, testConfig())
	gen, err := syn.Generate(context.Background(), testCompany(), 41, testScores())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gen.Source != SourceFallback {
		t.Fatalf("source = %s, want fallback", gen.Source)
	}
	assertValidFallback(t, gen.Document)
}

// The fallback must be structurally indistinguishable from an AI document.
func TestGenerateIsSafeForConcurrentUse(t *testing.T) {
	s := NewSynthesizer(nil, nil, testConfig())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				got, err := s.Generate(context.Background(), testCompany(), 41, testScores())
				if err != nil {
					t.Errorf("generate: %v", err)
					return
				}
				if !got.Document.Valid() {
					t.Error("generated document invalid")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func assertValidFallback(t *testing.T, doc *Document) {
	t.Helper()
	if !doc.Valid() {
		t.Fatal("fallback document fails the minimal validity contract")
	}
	if doc.ExecutiveSummary.GlobalTrends == "" {
		t.Fatal("empty executive summary")
	}
	if len(doc.IndustryLeaders) != 3 {
		t.Fatalf("industry leaders = %d, want 3", len(doc.IndustryLeaders))
	}
	if len(doc.CompetitorAnalysis) < 2 {
		t.Fatalf("competitors = %d, want at least 2", len(doc.CompetitorAnalysis))
	}
	if len(doc.Opportunities) == 0 || len(doc.Risks) == 0 || len(doc.Recommendations) == 0 {
		t.Fatal("fallback missing opportunities, risks, or recommendations")
	}
	if len(doc.TwoWeekPlan.Week1.Tasks) == 0 || len(doc.TwoWeekPlan.Week2.Tasks) == 0 {
		t.Fatal("fallback missing two-week plan tasks")
	}
	if doc.CompanyInfo.Industry == "" || doc.OverallScore == 0 || len(doc.CategoryScores) == 0 {
		t.Fatal("company info and scores not attached")
	}
}

func TestFallbackUsesIndustryCompetitorNames(t *testing.T) {
	syn := NewSynthesizer(nil, nil, testConfig())
	info := testCompany() // healthcare
	gen, err := syn.Generate(context.Background(), info, 41, testScores())
	if err != nil {
		t.Fatal(err)
	}
	want := CompetitorNamesFor("healthcare")
	if gen.Document.CompetitorAnalysis[0].Name != want[0] {
		t.Fatalf("competitor 0 = %s, want %s", gen.Document.CompetitorAnalysis[0].Name, want[0])
	}
	if gen.Document.IndustryLeaders[0].Name != want[0] {
		t.Fatalf("leader 0 = %s, want %s", gen.Document.IndustryLeaders[0].Name, want[0])
	}
}

func TestFallbackUnknownIndustryUsesGenericNames(t *testing.T) {
	syn := NewSynthesizer(nil, nil, testConfig())
	info := testCompany()
	info.Industry = "unknown-sector-xyz"
	gen, err := syn.Generate(context.Background(), info, 41, testScores())
	if err != nil {
		t.Fatal(err)
	}
	if gen.Document.CompetitorAnalysis[0].Name != "TechVision Inc" {
		t.Fatalf("competitor 0 = %s, want generic TechVision Inc", gen.Document.CompetitorAnalysis[0].Name)
	}
}

func TestFallbackSMMEIndustryGetsInsights(t *testing.T) {
	syn := NewSynthesizer(nil, nil, testConfig())
	info := testCompany()
	info.Industry = "smme-retail"
	gen, err := syn.Generate(context.Background(), info, 41, testScores())
	if err != nil {
		t.Fatal(err)
	}
	lead := gen.Document.IndustryLeaders[0]
	if lead.AIInvestment != "$850K" {
		t.Fatalf("smme leader investment = %s, want $850K", lead.AIInvestment)
	}
	if lead.SMMEInsight == "" || lead.PracticalTip == "" {
		t.Fatal("smme leader missing insight or practical tip")
	}
}

func TestFallbackRegionalFiguresStayInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		doc := fallbackDocument(testCompany(), rng)
		sum := doc.ExecutiveSummary
		var size, growth, count int
		if _, err := fmt.Sscanf(sum.RegionalMarketSize, "Estimated $%dB in Germany by 2025", &size); err != nil {
			t.Fatalf("regional market size format: %q", sum.RegionalMarketSize)
		}
		if _, err := fmt.Sscanf(sum.RegionalGrowthRate, "%d%% CAGR", &growth); err != nil {
			t.Fatalf("regional growth format: %q", sum.RegionalGrowthRate)
		}
		if _, err := fmt.Sscanf(sum.RegionalCompetitorCount, "%d+ active competitors in Germany", &count); err != nil {
			t.Fatalf("regional competitor count format: %q", sum.RegionalCompetitorCount)
		}
		if size < 20 || size > 69 {
			t.Fatalf("market size %d outside [20,69]", size)
		}
		if growth < 25 || growth > 39 {
			t.Fatalf("growth %d outside [25,39]", growth)
		}
		if count < 10 || count > 29 {
			t.Fatalf("competitor count %d outside [10,29]", count)
		}
	}
}

func TestArchiveFailureDoesNotFailGeneration(t *testing.T) {
	archive := &fakeArchiver{err: errors.New("disk full")}
	syn := NewSynthesizer(nil, archive, testConfig())
	gen, err := syn.Generate(context.Background(), testCompany(), 41, testScores())
	if err != nil {
		t.Fatalf("generate should swallow archive failure, got %v", err)
	}
	if gen.Document == nil {
		t.Fatal("no document returned")
	}
}

func TestArchiveRecordMetadata(t *testing.T) {
	archive := &fakeArchiver{}
	syn := NewSynthesizer(nil, archive, testConfig())
	if _, err := syn.Generate(context.Background(), testCompany(), 41, testScores()); err != nil {
		t.Fatal(err)
	}
	if len(archive.saved) != 1 {
		t.Fatalf("archived %d, want 1", len(archive.saved))
	}
	rec := archive.saved[0]
	if rec.CompanyName != "Medikon" {
		t.Fatalf("company name = %s, want Medikon", rec.CompanyName)
	}
	if rec.AssessmentScore != 41 {
		t.Fatalf("assessment score = %d", rec.AssessmentScore)
	}
	if rec.ReportData["title"] != "healthcare AI Readiness Assessment - Germany" {
		t.Fatalf("title = %v", rec.ReportData["title"])
	}
	if rec.ReportData["type"] != "assessment" {
		t.Fatalf("type = %v", rec.ReportData["type"])
	}
	if rec.ReportData["status"] != "completed" {
		t.Fatalf("status = %v", rec.ReportData["status"])
	}
	if rec.ReportData["downloadUrl"] != "/reports/healthcare-assessment-2026-03-14.pdf" {
		t.Fatalf("downloadUrl = %v", rec.ReportData["downloadUrl"])
	}
	if _, ok := rec.ReportData["executiveSummary"]; !ok {
		t.Fatal("document fields missing from report data")
	}
}

func TestCompanyNameFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.Example.com/path", "Example"},
		{"https://acme.co.za", "Acme"},
		{"http://www.big-corp.io", "Big-corp"},
		{"", "Unknown Company"},
		{"not a url at all", "Unknown Company"},
		{"https://", "Unknown Company"},
	}
	for _, tc := range cases {
		if got := CompanyNameFromURL(tc.url); got != tc.want {
			t.Fatalf("CompanyNameFromURL(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rowanfield/aipulse/internal/assessment"
)

const defaultTimeout = 60 * time.Second

// ArchiveRecord is what the synthesizer hands to the archival collaborator
// after a successful generation.
type ArchiveRecord struct {
	CompanyName     string
	Industry        string
	CompanyURL      string
	AssessmentScore int
	CategoryScores  map[string]int
	ReportData      map[string]any
	GeneratedAt     time.Time
}

// Archiver persists finished reports. Write failures must be absorbed by the
// caller; the generated document is already in hand.
type Archiver interface {
	SaveReport(ctx context.Context, rec *ArchiveRecord) (string, error)
}

// SynthesizerConfig tunes the synthesizer. The zero value gets sensible
// defaults from NewSynthesizer.
type SynthesizerConfig struct {
	Timeout time.Duration
	Clock   func() time.Time
	Rand    *rand.Rand
}

// Synthesizer produces competitive intelligence reports, preferring the
// completion collaborator and degrading to template generation on any
// failure. No failure mode past input validation is surfaced to callers.
type Synthesizer struct {
	caller  ChatCaller
	archive Archiver
	timeout time.Duration
	clock   func() time.Time

	// One synthesizer serves all requests; rand.Rand is not safe for
	// concurrent use.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewSynthesizer builds a synthesizer. caller may be nil (no completion
// backend configured); archive may be nil (archival disabled, e.g. tests).
func NewSynthesizer(caller ChatCaller, archive Archiver, cfg SynthesizerConfig) *Synthesizer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Synthesizer{
		caller:  caller,
		archive: archive,
		timeout: cfg.Timeout,
		clock:   cfg.Clock,
		rng:     cfg.Rand,
	}
}

// Generate produces a report document for the company. The AI path is tried
// once with a bounded timeout; unavailability, transport errors, unparsable
// output, and incomplete documents all fall through to the fallback
// generator. Archival is best-effort and never fails the call.
func (s *Synthesizer) Generate(ctx context.Context, info assessment.CompanyInfo, overallScore int, categoryScores map[string]int) (Generated, error) {
	doc, source := s.generateDocument(ctx, info, overallScore)

	doc.CompanyInfo = info
	doc.OverallScore = overallScore
	doc.CategoryScores = categoryScores

	if s.archive != nil {
		rec, err := s.buildArchiveRecord(doc, info, overallScore, categoryScores)
		if err != nil {
			log.Printf("report: build archive record failed: %v", err)
		} else if id, err := s.archive.SaveReport(ctx, rec); err != nil {
			log.Printf("report: archive write failed: %v", err)
		} else {
			log.Printf("report: archived report id=%s company=%s", id, rec.CompanyName)
		}
	}

	return Generated{Source: source, Document: doc}, nil
}

func (s *Synthesizer) generateDocument(ctx context.Context, info assessment.CompanyInfo, overallScore int) (*Document, Source) {
	if s.caller == nil {
		log.Printf("report: completion backend unavailable, using fallback generation")
		return s.fallback(info), SourceFallback
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.caller.Complete(callCtx, buildPrompt(info, overallScore))
	if err != nil {
		log.Printf("report: completion call failed, using fallback generation: %v", err)
		return s.fallback(info), SourceFallback
	}

	doc, err := parseDocument(raw)
	if err != nil {
		log.Printf("report: completion response unusable, using fallback generation: %v", err)
		return s.fallback(info), SourceFallback
	}
	return doc, SourceAI
}

func (s *Synthesizer) fallback(info assessment.CompanyInfo) *Document {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return fallbackDocument(info, s.rng)
}

// parseDocument extracts and validates a report document from completion
// output. A partially parsed document is never returned.
func parseDocument(raw string) (*Document, error) {
	jsonStr, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return nil, fmt.Errorf("parse report JSON: %w", err)
	}
	if !doc.Valid() {
		return nil, fmt.Errorf("report missing executive summary or competitor analysis")
	}
	return &doc, nil
}

func (s *Synthesizer) buildArchiveRecord(doc *Document, info assessment.CompanyInfo, overallScore int, categoryScores map[string]int) (*ArchiveRecord, error) {
	now := s.clock()
	data, err := reportDataMap(doc)
	if err != nil {
		return nil, err
	}
	meta := map[string]any{
		"title":       fmt.Sprintf("%s AI Readiness Assessment - %s", info.Industry, info.Country),
		"type":        "assessment",
		"generatedAt": now.UTC().Format(time.RFC3339),
		"score":       overallScore,
		"industry":    info.Industry,
		"country":     info.Country,
		"companyUrl":  info.CompanyURL,
		"status":      "completed",
		"downloadUrl": fmt.Sprintf("/reports/%s-assessment-%s.pdf", strings.ToLower(info.Industry), now.UTC().Format("2006-01-02")),
	}
	for k, v := range meta {
		if _, taken := data[k]; !taken {
			data[k] = v
		}
	}
	return &ArchiveRecord{
		CompanyName:     CompanyNameFromURL(info.CompanyURL),
		Industry:        info.Industry,
		CompanyURL:      info.CompanyURL,
		AssessmentScore: overallScore,
		CategoryScores:  categoryScores,
		ReportData:      data,
		GeneratedAt:     now,
	}, nil
}

// reportDataMap flattens a document into the generic JSON object shape the
// archive stores, so metadata keys can ride alongside the document fields.
func reportDataMap(doc *Document) (map[string]any, error) {
	blob, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(blob, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// CompanyNameFromURL derives a display name from a company URL: hostname
// minus a leading www., first dot-separated label, first letter upper-cased.
// Missing or unparsable URLs yield "Unknown Company".
func CompanyNameFromURL(rawURL string) string {
	const unknown = "Unknown Company"
	if strings.TrimSpace(rawURL) == "" {
		return unknown
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return unknown
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	name, _, _ := strings.Cut(host, ".")
	if name == "" {
		return unknown
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

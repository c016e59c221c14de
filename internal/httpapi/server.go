// Package httpapi exposes the assessment, report, consultation, analytics,
// and learning endpoints over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/rowanfield/aipulse/internal/assessment"
	"github.com/rowanfield/aipulse/internal/report"
	"github.com/rowanfield/aipulse/internal/store"
)

// Generator produces a report document for a scored assessment.
type Generator interface {
	Generate(ctx context.Context, info assessment.CompanyInfo, overallScore int, categoryScores map[string]int) (report.Generated, error)
}

type Server struct {
	store   *store.Store
	reports Generator
	auth    *adminAuth
}

// Options configures NewServer. Admin credentials may be empty, which
// disables the admin endpoints entirely.
type Options struct {
	Store         *store.Store
	Reports       Generator
	CORSOrigins   []string
	AdminUsername string
	AdminPassword string
}

func NewServer(opts Options) http.Handler {
	s := &Server{
		store:   opts.Store,
		reports: opts.Reports,
		auth:    newAdminAuth(opts.AdminUsername, opts.AdminPassword),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/generate-report", s.handleGenerateReport).Methods(http.MethodPost)
	r.HandleFunc("/api/save-report", s.handleSaveReport).Methods(http.MethodPost)
	r.HandleFunc("/api/reports", s.handleListReports).Methods(http.MethodGet)
	r.HandleFunc("/api/reports/{id}", s.handleGetReport).Methods(http.MethodGet)
	r.HandleFunc("/api/reports/{id}/view", s.handleViewReport).Methods(http.MethodGet)
	r.HandleFunc("/api/consultation-request", s.handleCreateConsultation).Methods(http.MethodPost)
	r.HandleFunc("/api/consultation-request", s.requireAdmin(s.handleListConsultations)).Methods(http.MethodGet)
	r.HandleFunc("/api/industry-analytics", s.handleGetIndustryAnalytics).Methods(http.MethodGet)
	r.HandleFunc("/api/industry-analytics", s.handleUpdateIndustryAnalytics).Methods(http.MethodPost)
	r.HandleFunc("/api/learning-paths", s.handleListLearningPaths).Methods(http.MethodGet)
	r.HandleFunc("/api/learning-paths", s.handleCreateLearningPath).Methods(http.MethodPost)
	r.HandleFunc("/api/learning-progress", s.handleListLearningProgress).Methods(http.MethodGet)
	r.HandleFunc("/api/learning-progress", s.handleUpsertLearningProgress).Methods(http.MethodPost)
	r.HandleFunc("/api/admin/login", s.handleAdminLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/admin/consultations", s.requireAdmin(s.handleListConsultations)).Methods(http.MethodGet)
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(r)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

func parseLimit(value string) int {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// --- reports ---

type generateReportRequest struct {
	CompanyInfo    assessment.CompanyInfo `json:"companyInfo"`
	Answers        map[string]string      `json:"assessmentAnswers"`
	OverallScore   *int                   `json:"overallScore"`
	CategoryScores map[string]int         `json:"categoryScores"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req generateReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CompanyInfo.Industry == "" || req.CompanyInfo.Country == "" {
		writeError(w, http.StatusBadRequest, "industry and country are required")
		return
	}

	var (
		overallScore   int
		categoryScores map[string]int
		level          assessment.ReadinessLevel
	)
	switch {
	case len(req.Answers) > 0:
		// Raw answers are re-scored server-side; client scores are ignored.
		result, err := assessment.Score(req.Answers)
		if err != nil {
			var unmapped *assessment.UnmappedOptionError
			switch {
			case errors.Is(err, assessment.ErrIncompleteAssessment):
				writeError(w, http.StatusUnprocessableEntity, err.Error())
			case errors.As(err, &unmapped):
				writeError(w, http.StatusUnprocessableEntity, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "scoring failed")
			}
			return
		}
		overallScore = result.OverallScore
		level = result.Level
		categoryScores = make(map[string]int, len(result.CategoryScores))
		for cat, score := range result.CategoryScores {
			categoryScores[string(cat)] = score
		}
	case req.OverallScore != nil:
		if *req.OverallScore < 0 || *req.OverallScore > 100 {
			writeError(w, http.StatusBadRequest, "overallScore must be between 0 and 100")
			return
		}
		overallScore = *req.OverallScore
		categoryScores = req.CategoryScores
		level = assessment.LevelForScore(overallScore)
	default:
		writeError(w, http.StatusBadRequest, "assessmentAnswers or overallScore are required")
		return
	}

	generated, err := s.reports.Generate(r.Context(), req.CompanyInfo, overallScore, categoryScores)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	if err := s.store.RecordAssessment(r.Context(), req.CompanyInfo.Industry, overallScore); err != nil {
		log.Printf("httpapi: record assessment for %s failed: %v", req.CompanyInfo.Industry, err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"report":         generated.Document,
		"overallScore":   overallScore,
		"categoryScores": categoryScores,
		"readinessLevel": level,
	})
}

type saveReportRequest struct {
	CompanyName     string         `json:"companyName"`
	Industry        string         `json:"industry"`
	CompanyURL      string         `json:"companyUrl"`
	AssessmentScore int            `json:"assessmentScore"`
	CategoryScores  map[string]int `json:"categoryScores"`
	ReportData      map[string]any `json:"reportData"`
}

func (s *Server) handleSaveReport(w http.ResponseWriter, r *http.Request) {
	var req saveReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.ReportData) == 0 {
		writeError(w, http.StatusBadRequest, "reportData is required")
		return
	}
	id, err := s.store.SaveReport(r.Context(), &report.ArchiveRecord{
		CompanyName:     req.CompanyName,
		Industry:        req.Industry,
		CompanyURL:      req.CompanyURL,
		AssessmentScore: req.AssessmentScore,
		CategoryScores:  req.CategoryScores,
		ReportData:      req.ReportData,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "save report failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.store.ListReports(r.Context(), parseLimit(r.URL.Query().Get("limit")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list reports failed")
		return
	}
	items := make([]map[string]any, 0, len(reports))
	for _, rec := range reports {
		item := map[string]any{
			"id":             rec.ID,
			"companyName":    rec.CompanyName,
			"companyUrl":     rec.CompanyURL,
			"industry":       rec.Industry,
			"score":          rec.AssessmentScore,
			"categoryScores": rec.CategoryScores,
			"generatedAt":    rec.GeneratedAt,
			"viewUrl":        "/api/reports/" + rec.ID + "/view",
		}
		// Metadata the archive carries inside the payload rides along.
		for _, key := range []string{"title", "type", "status", "downloadUrl"} {
			if v, ok := rec.ReportData[key]; ok {
				item[key] = v
			}
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": items})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetReport(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get report failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleViewReport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetReport(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get report failed")
		return
	}

	doc, err := documentFromArchive(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "archived report is not renderable")
		return
	}
	html, err := report.RenderHTML(doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "render report failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// documentFromArchive rebuilds a typed document from the archive's generic
// JSON object. Metadata keys that rode alongside the document are ignored
// by the unmarshal.
func documentFromArchive(rec *store.ReportArchive) (*report.Document, error) {
	blob, err := json.Marshal(rec.ReportData)
	if err != nil {
		return nil, err
	}
	var doc report.Document
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, err
	}
	if !doc.Valid() {
		return nil, errors.New("archived payload is not a report document")
	}
	return &doc, nil
}

// --- consultations ---

func (s *Server) handleCreateConsultation(w http.ResponseWriter, r *http.Request) {
	var req store.ConsultationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}
	if err := s.store.CreateConsultation(r.Context(), &req); err != nil {
		writeError(w, http.StatusInternalServerError, "create consultation failed")
		return
	}

	// Archival is best-effort: the booking is already recorded. The industry
	// aggregate is not touched here; generate-report already counted this
	// assessment.
	if req.ReportGenerated && req.CompanyURL != "" {
		score := 0
		if req.AssessmentScore != nil {
			score = *req.AssessmentScore
		}
		rec := &report.ArchiveRecord{
			CompanyName:     report.CompanyNameFromURL(req.CompanyURL),
			Industry:        req.Industry,
			CompanyURL:      req.CompanyURL,
			AssessmentScore: score,
			ReportData: map[string]any{
				"title":  req.Industry + " AI Readiness Assessment",
				"type":   "assessment",
				"status": "completed",
			},
		}
		if _, err := s.store.SaveReport(r.Context(), rec); err != nil {
			log.Printf("httpapi: archive consultation report failed: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"consultationRequest": req,
		"message":             "Consultation request submitted successfully",
	})
}

func (s *Server) handleListConsultations(w http.ResponseWriter, r *http.Request) {
	requests, err := s.store.ListConsultations(r.Context(),
		strings.TrimSpace(r.URL.Query().Get("status")),
		parseLimit(r.URL.Query().Get("limit")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list consultations failed")
		return
	}
	if requests == nil {
		requests = []*store.ConsultationRequest{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

// --- industry analytics ---

func (s *Server) handleGetIndustryAnalytics(w http.ResponseWriter, r *http.Request) {
	industry := strings.TrimSpace(r.URL.Query().Get("industry"))
	if industry != "" {
		rec, err := s.store.GetIndustryAnalytics(r.Context(), industry)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no analytics for industry")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "get analytics failed")
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}

	all, err := s.store.ListIndustryAnalytics(r.Context(), "", parseLimit(r.URL.Query().Get("limit")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list analytics failed")
		return
	}
	if all == nil {
		all = []*store.IndustryAnalytics{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"industries": all})
}

type updateIndustryAnalyticsRequest struct {
	Industry            string   `json:"industry"`
	Score               *int     `json:"score"`
	TopCompetitors      []string `json:"topCompetitors"`
	CommonOpportunities []string `json:"commonOpportunities"`
	CommonRisks         []string `json:"commonRisks"`
	MarketTrends        []string `json:"marketTrends"`
}

func (r updateIndustryAnalyticsRequest) hasProfile() bool {
	return r.TopCompetitors != nil || r.CommonOpportunities != nil ||
		r.CommonRisks != nil || r.MarketTrends != nil
}

// handleUpdateIndustryAnalytics folds a score into the industry aggregate
// and/or replaces its editorial profile, depending on which fields the body
// carries.
func (s *Server) handleUpdateIndustryAnalytics(w http.ResponseWriter, r *http.Request) {
	var req updateIndustryAnalyticsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Industry) == "" {
		writeError(w, http.StatusBadRequest, "industry is required")
		return
	}
	if req.Score == nil && !req.hasProfile() {
		writeError(w, http.StatusBadRequest, "score or profile fields are required")
		return
	}

	if req.Score != nil {
		if *req.Score < 0 || *req.Score > 100 {
			writeError(w, http.StatusBadRequest, "score must be between 0 and 100")
			return
		}
		if err := s.store.RecordAssessment(r.Context(), req.Industry, *req.Score); err != nil {
			writeError(w, http.StatusInternalServerError, "record assessment failed")
			return
		}
	}
	if req.hasProfile() {
		if _, err := s.store.UpsertIndustryProfile(r.Context(), req.Industry, store.IndustryProfile{
			TopCompetitors:      req.TopCompetitors,
			CommonOpportunities: req.CommonOpportunities,
			CommonRisks:         req.CommonRisks,
			MarketTrends:        req.MarketTrends,
		}); err != nil {
			writeError(w, http.StatusInternalServerError, "upsert industry profile failed")
			return
		}
	}

	rec, err := s.store.GetIndustryAnalytics(r.Context(), req.Industry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get analytics failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// --- learning paths ---

func (s *Server) handleListLearningPaths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	paths, err := s.store.ListLearningPaths(r.Context(), store.LearningPathFilter{
		Role:       strings.TrimSpace(q.Get("role")),
		Industry:   strings.TrimSpace(q.Get("industry")),
		Difficulty: strings.TrimSpace(q.Get("difficulty")),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list learning paths failed")
		return
	}
	if paths == nil {
		paths = []*store.LearningPath{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"paths": paths})
}

func (s *Server) handleCreateLearningPath(w http.ResponseWriter, r *http.Request) {
	var path store.LearningPath
	if err := decodeJSON(r, &path); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(path.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if err := s.store.CreateLearningPath(r.Context(), &path); err != nil {
		writeError(w, http.StatusInternalServerError, "create learning path failed")
		return
	}
	writeJSON(w, http.StatusOK, path)
}

func (s *Server) handleListLearningProgress(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	progress, err := s.store.ListLearningProgress(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list learning progress failed")
		return
	}
	if progress == nil {
		progress = []*store.LearningProgress{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"progress": progress})
}

func (s *Server) handleUpsertLearningProgress(w http.ResponseWriter, r *http.Request) {
	var progress store.LearningProgress
	if err := decodeJSON(r, &progress); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if progress.UserID == "" || progress.PathID == "" {
		writeError(w, http.StatusBadRequest, "userId and pathId are required")
		return
	}
	if err := s.store.UpsertLearningProgress(r.Context(), &progress); err != nil {
		writeError(w, http.StatusInternalServerError, "upsert learning progress failed")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// --- health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

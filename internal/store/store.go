package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/rowanfield/aipulse/internal/report"
)

// ErrNotFound is returned when a record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS report_archive (
	id               TEXT PRIMARY KEY,
	company_name     TEXT NOT NULL DEFAULT 'Unknown Company',
	industry         TEXT NOT NULL DEFAULT '',
	company_url      TEXT NOT NULL DEFAULT '',
	assessment_score INTEGER NOT NULL DEFAULT 0,
	category_scores  TEXT NOT NULL DEFAULT '{}',
	report_data      TEXT NOT NULL DEFAULT '{}',
	generated_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS consultation_request (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	email             TEXT NOT NULL,
	company           TEXT NOT NULL DEFAULT '',
	industry          TEXT NOT NULL DEFAULT '',
	phone             TEXT NOT NULL DEFAULT '',
	job_title         TEXT NOT NULL DEFAULT '',
	consultation_type TEXT NOT NULL DEFAULT 'strategy',
	preferred_date    TEXT NOT NULL DEFAULT '',
	preferred_time    TEXT NOT NULL DEFAULT '',
	timezone          TEXT NOT NULL DEFAULT '',
	message           TEXT NOT NULL DEFAULT '',
	assessment_score  INTEGER,
	report_generated  INTEGER NOT NULL DEFAULT 0,
	company_url       TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'pending',
	created_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS industry_analytics (
	industry             TEXT PRIMARY KEY,
	total_assessments    INTEGER NOT NULL DEFAULT 0,
	average_score        REAL NOT NULL DEFAULT 0,
	top_competitors      TEXT NOT NULL DEFAULT '[]',
	common_opportunities TEXT NOT NULL DEFAULT '[]',
	common_risks         TEXT NOT NULL DEFAULT '[]',
	market_trends        TEXT NOT NULL DEFAULT '[]',
	last_updated         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS learning_path (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	role        TEXT NOT NULL DEFAULT '',
	industry    TEXT NOT NULL DEFAULT '',
	difficulty  TEXT NOT NULL DEFAULT '',
	duration    TEXT NOT NULL DEFAULT '',
	modules     TEXT NOT NULL DEFAULT '[]',
	outcomes    TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS learning_progress (
	user_id          TEXT NOT NULL,
	path_id          TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'In Progress',
	completion_rate  REAL NOT NULL DEFAULT 0,
	time_spent       INTEGER NOT NULL DEFAULT 0,
	started_at       TEXT NOT NULL,
	last_accessed_at TEXT NOT NULL,
	completed_at     TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (user_id, path_id)
);
`

// Store persists reports, consultation requests, industry aggregates, and
// learning content in SQLite.
type Store struct {
	db    *sqlx.DB
	clock func() time.Time
}

func New(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, clock: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// --- report archive ---

// ReportArchive is an archived report. Rows are created once and never
// updated afterwards.
type ReportArchive struct {
	ID              string         `json:"id"`
	CompanyName     string         `json:"companyName"`
	Industry        string         `json:"industry"`
	CompanyURL      string         `json:"companyUrl"`
	AssessmentScore int            `json:"assessmentScore"`
	CategoryScores  map[string]int `json:"categoryScores"`
	ReportData      map[string]any `json:"reportData"`
	GeneratedAt     time.Time      `json:"generatedAt"`
}

// SaveReport implements report.Archiver.
func (s *Store) SaveReport(ctx context.Context, rec *report.ArchiveRecord) (string, error) {
	id := uuid.NewString()
	scores, err := json.Marshal(orEmptyScores(rec.CategoryScores))
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(rec.ReportData)
	if err != nil {
		return "", err
	}
	generatedAt := rec.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = s.clock()
	}
	companyName := rec.CompanyName
	if companyName == "" {
		companyName = "Unknown Company"
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO report_archive (id, company_name, industry, company_url, assessment_score, category_scores, report_data, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, companyName, rec.Industry, rec.CompanyURL, rec.AssessmentScore, string(scores), string(data), formatTime(generatedAt))
	if err != nil {
		return "", fmt.Errorf("insert report archive: %w", err)
	}
	return id, nil
}

func (s *Store) GetReport(ctx context.Context, id string) (*ReportArchive, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, company_name, industry, company_url, assessment_score, category_scores, report_data, generated_at
		FROM report_archive WHERE id = ?`, id)
	rec, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return rec, err
}

func (s *Store) ListReports(ctx context.Context, limit int) ([]*ReportArchive, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_name, industry, company_url, assessment_score, category_scores, report_data, generated_at
		FROM report_archive ORDER BY generated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*ReportArchive
	for rows.Next() {
		rec, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rec)
	}
	return reports, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*ReportArchive, error) {
	var rec ReportArchive
	var scores, data, generatedAt string
	err := row.Scan(&rec.ID, &rec.CompanyName, &rec.Industry, &rec.CompanyURL, &rec.AssessmentScore, &scores, &data, &generatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(scores), &rec.CategoryScores); err != nil {
		return nil, fmt.Errorf("decode category scores: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &rec.ReportData); err != nil {
		return nil, fmt.Errorf("decode report data: %w", err)
	}
	rec.GeneratedAt, err = parseTime(generatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// --- consultation requests ---

type ConsultationRequest struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Company          string    `json:"company"`
	Industry         string    `json:"industry"`
	Phone            string    `json:"phone,omitempty"`
	JobTitle         string    `json:"jobTitle,omitempty"`
	ConsultationType string    `json:"consultationType"`
	PreferredDate    string    `json:"preferredDate,omitempty"`
	PreferredTime    string    `json:"preferredTime,omitempty"`
	Timezone         string    `json:"timezone,omitempty"`
	Message          string    `json:"message,omitempty"`
	AssessmentScore  *int      `json:"assessmentScore,omitempty"`
	ReportGenerated  bool      `json:"reportGenerated"`
	CompanyURL       string    `json:"companyUrl,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CreateConsultation inserts a booking request, assigning id, status, and
// creation time.
func (s *Store) CreateConsultation(ctx context.Context, req *ConsultationRequest) error {
	req.ID = uuid.NewString()
	if req.Status == "" {
		req.Status = "pending"
	}
	if req.ConsultationType == "" {
		req.ConsultationType = "strategy"
	}
	req.CreatedAt = s.clock()

	var score sql.NullInt64
	if req.AssessmentScore != nil {
		score = sql.NullInt64{Int64: int64(*req.AssessmentScore), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO consultation_request
			(id, name, email, company, industry, phone, job_title, consultation_type,
			 preferred_date, preferred_time, timezone, message, assessment_score,
			 report_generated, company_url, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.Name, req.Email, req.Company, req.Industry, req.Phone, req.JobTitle,
		req.ConsultationType, req.PreferredDate, req.PreferredTime, req.Timezone, req.Message,
		score, boolToInt(req.ReportGenerated), req.CompanyURL, req.Status, formatTime(req.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert consultation request: %w", err)
	}
	return nil
}

// ListConsultations returns recent requests, optionally filtered by status.
func (s *Store) ListConsultations(ctx context.Context, status string, limit int) ([]*ConsultationRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, name, email, company, industry, phone, job_title, consultation_type,
		       preferred_date, preferred_time, timezone, message, assessment_score,
		       report_generated, company_url, status, created_at
		FROM consultation_request`
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*ConsultationRequest
	for rows.Next() {
		var (
			req       ConsultationRequest
			score     sql.NullInt64
			generated int
			createdAt string
		)
		err := rows.Scan(&req.ID, &req.Name, &req.Email, &req.Company, &req.Industry,
			&req.Phone, &req.JobTitle, &req.ConsultationType, &req.PreferredDate,
			&req.PreferredTime, &req.Timezone, &req.Message, &score, &generated,
			&req.CompanyURL, &req.Status, &createdAt)
		if err != nil {
			return nil, err
		}
		if score.Valid {
			v := int(score.Int64)
			req.AssessmentScore = &v
		}
		req.ReportGenerated = generated != 0
		req.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}

func orEmptyScores(scores map[string]int) map[string]int {
	if scores == nil {
		return map[string]int{}
	}
	return scores
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timeLayout is RFC 3339 with fixed-width nanoseconds. RFC3339Nano trims
// trailing zeros, which breaks lexicographic ordering of the TEXT columns
// within a second.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// IndustryAnalytics is the running aggregate for one industry plus optional
// editorial fields maintained by the admin side.
type IndustryAnalytics struct {
	Industry            string    `json:"industry"`
	TotalAssessments    int       `json:"totalAssessments"`
	AverageScore        float64   `json:"averageScore"`
	TopCompetitors      []string  `json:"topCompetitors"`
	CommonOpportunities []string  `json:"commonOpportunities"`
	CommonRisks         []string  `json:"commonRisks"`
	MarketTrends        []string  `json:"marketTrends"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

// RecordAssessment folds one assessment score into the industry's streaming
// mean. The whole read-recompute-write happens inside a single upsert so two
// concurrent assessments for the same industry cannot lose an increment;
// the SET expressions read the pre-update row.
func (s *Store) RecordAssessment(ctx context.Context, industry string, score int) error {
	if industry == "" {
		return errors.New("industry is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO industry_analytics (industry, total_assessments, average_score, last_updated)
		VALUES (?, 1, ?, ?)
		ON CONFLICT(industry) DO UPDATE SET
			average_score     = (average_score * total_assessments + excluded.average_score) / (total_assessments + 1),
			total_assessments = total_assessments + 1,
			last_updated      = excluded.last_updated`,
		industry, float64(score), formatTime(s.clock()))
	if err != nil {
		return fmt.Errorf("record assessment for %s: %w", industry, err)
	}
	return nil
}

// IndustryProfile carries the editorial fields an admin can attach to an
// industry without touching its counters.
type IndustryProfile struct {
	TopCompetitors      []string `json:"topCompetitors"`
	CommonOpportunities []string `json:"commonOpportunities"`
	CommonRisks         []string `json:"commonRisks"`
	MarketTrends        []string `json:"marketTrends"`
}

// UpsertIndustryProfile sets the editorial fields for an industry, creating
// the aggregate row with zero counters when the industry is new.
func (s *Store) UpsertIndustryProfile(ctx context.Context, industry string, profile IndustryProfile) (*IndustryAnalytics, error) {
	if industry == "" {
		return nil, errors.New("industry is required")
	}
	competitors, err := marshalList(profile.TopCompetitors)
	if err != nil {
		return nil, err
	}
	opportunities, err := marshalList(profile.CommonOpportunities)
	if err != nil {
		return nil, err
	}
	risks, err := marshalList(profile.CommonRisks)
	if err != nil {
		return nil, err
	}
	trends, err := marshalList(profile.MarketTrends)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO industry_analytics
			(industry, total_assessments, average_score, top_competitors, common_opportunities, common_risks, market_trends, last_updated)
		VALUES (?, 0, 0, ?, ?, ?, ?, ?)
		ON CONFLICT(industry) DO UPDATE SET
			top_competitors      = excluded.top_competitors,
			common_opportunities = excluded.common_opportunities,
			common_risks         = excluded.common_risks,
			market_trends        = excluded.market_trends,
			last_updated         = excluded.last_updated`,
		industry, competitors, opportunities, risks, trends, formatTime(s.clock()))
	if err != nil {
		return nil, fmt.Errorf("upsert industry profile for %s: %w", industry, err)
	}
	return s.GetIndustryAnalytics(ctx, industry)
}

func (s *Store) GetIndustryAnalytics(ctx context.Context, industry string) (*IndustryAnalytics, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT industry, total_assessments, average_score, top_competitors, common_opportunities, common_risks, market_trends, last_updated
		FROM industry_analytics WHERE industry = ?`, industry)
	rec, err := scanAnalytics(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("industry %s: %w", industry, ErrNotFound)
	}
	return rec, err
}

// ListIndustryAnalytics returns aggregates ordered by assessment volume,
// optionally restricted to one industry.
func (s *Store) ListIndustryAnalytics(ctx context.Context, industry string, limit int) ([]*IndustryAnalytics, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT industry, total_assessments, average_score, top_competitors, common_opportunities, common_risks, market_trends, last_updated
		FROM industry_analytics`
	args := []any{}
	if industry != "" {
		query += " WHERE industry = ?"
		args = append(args, industry)
	}
	query += " ORDER BY total_assessments DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analytics []*IndustryAnalytics
	for rows.Next() {
		rec, err := scanAnalytics(rows)
		if err != nil {
			return nil, err
		}
		analytics = append(analytics, rec)
	}
	return analytics, rows.Err()
}

func scanAnalytics(row rowScanner) (*IndustryAnalytics, error) {
	var rec IndustryAnalytics
	var competitors, opportunities, risks, trends, lastUpdated string
	err := row.Scan(&rec.Industry, &rec.TotalAssessments, &rec.AverageScore,
		&competitors, &opportunities, &risks, &trends, &lastUpdated)
	if err != nil {
		return nil, err
	}
	for _, pair := range []struct {
		raw  string
		dest *[]string
	}{
		{competitors, &rec.TopCompetitors},
		{opportunities, &rec.CommonOpportunities},
		{risks, &rec.CommonRisks},
		{trends, &rec.MarketTrends},
	} {
		if err := json.Unmarshal([]byte(pair.raw), pair.dest); err != nil {
			return nil, fmt.Errorf("decode analytics list: %w", err)
		}
	}
	rec.LastUpdated, err = parseTime(lastUpdated)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	blob, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(blob), nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type LearningPath struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Role        string   `json:"role"`
	Industry    string   `json:"industry"`
	Difficulty  string   `json:"difficulty"`
	Duration    string   `json:"duration"`
	Modules     []string `json:"modules"`
	Outcomes    []string `json:"outcomes"`
}

func (s *Store) CreateLearningPath(ctx context.Context, path *LearningPath) error {
	if path.Title == "" {
		return errors.New("learning path title is required")
	}
	path.ID = uuid.NewString()
	modules, err := marshalList(path.Modules)
	if err != nil {
		return err
	}
	outcomes, err := marshalList(path.Outcomes)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO learning_path (id, title, description, role, industry, difficulty, duration, modules, outcomes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		path.ID, path.Title, path.Description, path.Role, path.Industry, path.Difficulty, path.Duration, modules, outcomes)
	if err != nil {
		return fmt.Errorf("insert learning path: %w", err)
	}
	return nil
}

// LearningPathFilter narrows ListLearningPaths. Zero fields match all rows.
type LearningPathFilter struct {
	Role       string
	Industry   string
	Difficulty string
}

func (s *Store) ListLearningPaths(ctx context.Context, filter LearningPathFilter) ([]*LearningPath, error) {
	query := `SELECT id, title, description, role, industry, difficulty, duration, modules, outcomes FROM learning_path`
	clauses := []string{}
	args := []any{}
	if filter.Role != "" {
		clauses = append(clauses, "role = ?")
		args = append(args, filter.Role)
	}
	if filter.Industry != "" {
		clauses = append(clauses, "industry = ?")
		args = append(args, filter.Industry)
	}
	if filter.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, filter.Difficulty)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY title ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []*LearningPath
	for rows.Next() {
		var (
			path              LearningPath
			modules, outcomes string
		)
		err := rows.Scan(&path.ID, &path.Title, &path.Description, &path.Role,
			&path.Industry, &path.Difficulty, &path.Duration, &modules, &outcomes)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(modules), &path.Modules); err != nil {
			return nil, fmt.Errorf("decode modules: %w", err)
		}
		if err := json.Unmarshal([]byte(outcomes), &path.Outcomes); err != nil {
			return nil, fmt.Errorf("decode outcomes: %w", err)
		}
		paths = append(paths, &path)
	}
	return paths, rows.Err()
}

type LearningProgress struct {
	UserID         string     `json:"userId"`
	PathID         string     `json:"pathId"`
	Status         string     `json:"status"`
	CompletionRate float64    `json:"completionRate"`
	TimeSpent      int        `json:"timeSpent"`
	StartedAt      time.Time  `json:"startedAt"`
	LastAccessedAt time.Time  `json:"lastAccessedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// UpsertLearningProgress creates or refreshes a user's progress on a path.
// completed_at is set when status reaches "Completed" and cleared otherwise.
func (s *Store) UpsertLearningProgress(ctx context.Context, progress *LearningProgress) error {
	if progress.UserID == "" || progress.PathID == "" {
		return errors.New("user id and path id are required")
	}
	now := s.clock()
	completedAt := ""
	if progress.Status == "Completed" {
		completedAt = formatTime(now)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learning_progress (user_id, path_id, status, completion_rate, time_spent, started_at, last_accessed_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, path_id) DO UPDATE SET
			status           = excluded.status,
			completion_rate  = excluded.completion_rate,
			time_spent       = excluded.time_spent,
			last_accessed_at = excluded.last_accessed_at,
			completed_at     = excluded.completed_at`,
		progress.UserID, progress.PathID, progress.Status, progress.CompletionRate,
		progress.TimeSpent, formatTime(now), formatTime(now), completedAt)
	if err != nil {
		return fmt.Errorf("upsert learning progress: %w", err)
	}
	return nil
}

func (s *Store) ListLearningProgress(ctx context.Context, userID string) ([]*LearningProgress, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, path_id, status, completion_rate, time_spent, started_at, last_accessed_at, completed_at
		FROM learning_progress WHERE user_id = ? ORDER BY last_accessed_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progresses []*LearningProgress
	for rows.Next() {
		var (
			p                                  LearningProgress
			startedAt, accessedAt, completedAt string
		)
		err := rows.Scan(&p.UserID, &p.PathID, &p.Status, &p.CompletionRate,
			&p.TimeSpent, &startedAt, &accessedAt, &completedAt)
		if err != nil {
			return nil, err
		}
		if p.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, err
		}
		if p.LastAccessedAt, err = parseTime(accessedAt); err != nil {
			return nil, err
		}
		if completedAt != "" {
			t, err := parseTime(completedAt)
			if err != nil {
				return nil, err
			}
			p.CompletedAt = &t
		}
		progresses = append(progresses, &p)
	}
	return progresses, rows.Err()
}

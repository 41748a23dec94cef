package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ayoisaiah/tally/internal/models"
)

//go:embed schema.sql
var schemaFS embed.FS

const recordColumns = `id, start_time, end_time, activity, description,
	goal_id, parsing_method, duration, confidence, archived, created_at`

const goalColumns = `id, title, deadline, estimated_time, priority, status,
	actual_time, progress, archived, created_at, updated_at`

// SQLite is a SQLite database client.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens the SQLite database at path and applies the schema.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// a single connection serialises writers
	db.SetMaxOpenConns(1)

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db, now: time.Now}, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// leniently converts a stored duration to minutes. NULL, text that is not
// a number and negative values become zero.
func lenientMinutes(v any) models.Minutes {
	var f float64

	switch n := v.(type) {
	case int64:
		f = float64(n)
	case float64:
		f = n
	case []byte:
		f, _ = strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(n), 64)
	}

	if f <= 0 {
		return 0
	}

	return models.Minutes(f)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.TimeRecord, error) {
	var (
		r                   models.TimeRecord
		start, end, created string
		method              string
		duration            any
	)

	err := row.Scan(
		&r.ID,
		&start,
		&end,
		&r.Activity,
		&r.Description,
		&r.GoalID,
		&method,
		&duration,
		&r.Confidence,
		&r.Archived,
		&created,
	)
	if err != nil {
		return nil, err
	}

	r.Method = models.ParseMethod(method)
	r.Duration = lenientMinutes(duration)

	if r.Start, err = parseTime(start); err != nil {
		return nil, fmt.Errorf("record %s start_time: %w", r.ID, err)
	}

	if r.End, err = parseTime(end); err != nil {
		return nil, fmt.Errorf("record %s end_time: %w", r.ID, err)
	}

	if r.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("record %s created_at: %w", r.ID, err)
	}

	return &r, nil
}

func (s *SQLite) queryRecords(
	ctx context.Context,
	query string,
	args ...any,
) ([]*models.TimeRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.TimeRecord

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, r)
	}

	return records, rows.Err()
}

func (s *SQLite) CreateRecord(ctx context.Context, r *models.TimeRecord) error {
	r.ID = uuid.NewString()
	r.CreatedAt = s.now()

	_, err := s.db.ExecContext(ctx, `INSERT INTO records (`+recordColumns+`, start_unix)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		formatTime(r.Start),
		formatTime(r.End),
		r.Activity,
		r.Description,
		r.GoalID,
		string(r.Method),
		int(r.Duration),
		r.Confidence,
		r.Archived,
		formatTime(r.CreatedAt),
		r.Start.UnixNano(),
	)

	return err
}

func (s *SQLite) GetRecord(ctx context.Context, id string) (*models.TimeRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+`
		FROM records WHERE id = ? AND archived = 0`, id)

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}

	return r, err
}

func affected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}

	return nil
}

func (s *SQLite) UpdateRecord(ctx context.Context, r *models.TimeRecord) error {
	res, err := s.db.ExecContext(ctx, `UPDATE records SET
		start_unix = ?, start_time = ?, end_time = ?, activity = ?,
		description = ?, goal_id = ?, parsing_method = ?, duration = ?,
		confidence = ?
		WHERE id = ? AND archived = 0`,
		r.Start.UnixNano(),
		formatTime(r.Start),
		formatTime(r.End),
		r.Activity,
		r.Description,
		r.GoalID,
		string(r.Method),
		int(r.Duration),
		r.Confidence,
		r.ID,
	)
	if err != nil {
		return err
	}

	return affected(res, "record", r.ID)
}

func (s *SQLite) ArchiveRecord(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET archived = 1 WHERE id = ? AND archived = 0`, id)
	if err != nil {
		return err
	}

	return affected(res, "record", id)
}

func (s *SQLite) RecordsBetween(
	ctx context.Context,
	start, end time.Time,
) ([]*models.TimeRecord, error) {
	return s.queryRecords(ctx, `SELECT `+recordColumns+` FROM records
		WHERE archived = 0 AND start_unix >= ? AND start_unix < ?
		ORDER BY start_unix, id`,
		start.UnixNano(),
		end.UnixNano(),
	)
}

func (s *SQLite) RecordsForGoal(
	ctx context.Context,
	goalID string,
) ([]*models.TimeRecord, error) {
	return s.queryRecords(ctx, `SELECT `+recordColumns+` FROM records
		WHERE archived = 0 AND goal_id = ?
		ORDER BY start_unix, id`,
		goalID,
	)
}

func scanGoal(row rowScanner) (*models.Goal, error) {
	var (
		g                          models.Goal
		deadline, created, updated string
		priority, status           string
	)

	err := row.Scan(
		&g.ID,
		&g.Title,
		&deadline,
		&g.EstimatedMinutes,
		&priority,
		&status,
		&g.ActualMinutes,
		&g.Progress,
		&g.Archived,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	g.Priority = models.Priority(priority)
	g.Status = models.Status(status)

	if g.Deadline, err = time.Parse(models.DateLayout, deadline); err != nil {
		return nil, fmt.Errorf("goal %s deadline: %w", g.ID, err)
	}

	if g.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("goal %s created_at: %w", g.ID, err)
	}

	if g.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("goal %s updated_at: %w", g.ID, err)
	}

	return &g, nil
}

func (s *SQLite) queryGoals(
	ctx context.Context,
	query string,
	args ...any,
) ([]*models.Goal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*models.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}

		goals = append(goals, g)
	}

	return goals, rows.Err()
}

func (s *SQLite) CreateGoal(ctx context.Context, g *models.Goal) error {
	g.ID = uuid.NewString()
	g.CreatedAt = s.now()
	g.UpdatedAt = g.CreatedAt

	_, err := s.db.ExecContext(ctx, `INSERT INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID,
		g.Title,
		g.Deadline.Format(models.DateLayout),
		int(g.EstimatedMinutes),
		string(g.Priority),
		string(g.Status),
		int(g.ActualMinutes),
		g.Progress,
		g.Archived,
		formatTime(g.CreatedAt),
		formatTime(g.UpdatedAt),
	)

	return err
}

func (s *SQLite) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+goalColumns+`
		FROM goals WHERE id = ? AND archived = 0`, id)

	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}

	return g, err
}

func (s *SQLite) UpdateGoal(ctx context.Context, g *models.Goal) error {
	res, err := s.db.ExecContext(ctx, `UPDATE goals SET
		title = ?, deadline = ?, estimated_time = ?, priority = ?, updated_at = ?
		WHERE id = ? AND archived = 0`,
		g.Title,
		g.Deadline.Format(models.DateLayout),
		int(g.EstimatedMinutes),
		string(g.Priority),
		formatTime(s.now()),
		g.ID,
	)
	if err != nil {
		return err
	}

	return affected(res, "goal", g.ID)
}

func (s *SQLite) UpdateGoalProgress(
	ctx context.Context,
	id string,
	status models.Status,
	actual models.Minutes,
	progress int,
) error {
	res, err := s.db.ExecContext(ctx, `UPDATE goals SET
		status = ?, actual_time = ?, progress = ?, updated_at = ?
		WHERE id = ? AND archived = 0`,
		string(status),
		int(actual),
		progress,
		formatTime(s.now()),
		id,
	)
	if err != nil {
		return err
	}

	return affected(res, "goal", id)
}

func (s *SQLite) ArchiveGoal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET archived = 1, updated_at = ? WHERE id = ? AND archived = 0`,
		formatTime(s.now()),
		id,
	)
	if err != nil {
		return err
	}

	return affected(res, "goal", id)
}

func (s *SQLite) ActiveGoals(ctx context.Context, day time.Time) ([]*models.Goal, error) {
	return s.queryGoals(ctx, `SELECT `+goalColumns+` FROM goals
		WHERE archived = 0 AND status != ? AND deadline >= ?
		ORDER BY rowid`,
		string(models.StatusCompleted),
		day.Format(models.DateLayout),
	)
}

func (s *SQLite) Goals(ctx context.Context) ([]*models.Goal, error) {
	return s.queryGoals(ctx, `SELECT `+goalColumns+` FROM goals
		WHERE archived = 0
		ORDER BY rowid`,
	)
}

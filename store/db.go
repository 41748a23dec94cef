// Package store persists time records and goals. The default backend is a
// BoltDB file; a SQLite backend is also available.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ayoisaiah/tally/internal/models"
)

// ErrNotFound is returned when a record or goal does not exist or has been
// archived.
var ErrNotFound = errors.New("not found")

// DB is the database storage interface. Archived records and goals are
// excluded from every query.
type DB interface {
	// CreateRecord saves a new record, assigning its ID and creation time.
	CreateRecord(ctx context.Context, r *models.TimeRecord) error
	GetRecord(ctx context.Context, id string) (*models.TimeRecord, error)
	// UpdateRecord overwrites an existing record.
	UpdateRecord(ctx context.Context, r *models.TimeRecord) error
	// ArchiveRecord soft-deletes a record.
	ArchiveRecord(ctx context.Context, id string) error
	// RecordsBetween returns the records whose start time falls in
	// [start, end), ordered by start time.
	RecordsBetween(ctx context.Context, start, end time.Time) ([]*models.TimeRecord, error)
	// RecordsForGoal returns the records that refer to goalID.
	RecordsForGoal(ctx context.Context, goalID string) ([]*models.TimeRecord, error)
	// CreateGoal saves a new goal, assigning its ID and timestamps.
	CreateGoal(ctx context.Context, g *models.Goal) error
	GetGoal(ctx context.Context, id string) (*models.Goal, error)
	// UpdateGoal saves the user-managed fields of a goal: title, deadline,
	// estimate and priority.
	UpdateGoal(ctx context.Context, g *models.Goal) error
	// UpdateGoalProgress saves the derived fields of a goal.
	UpdateGoalProgress(
		ctx context.Context,
		id string,
		status models.Status,
		actual models.Minutes,
		progress int,
	) error
	// ArchiveGoal soft-deletes a goal. Records that refer to it are kept.
	ArchiveGoal(ctx context.Context, id string) error
	// ActiveGoals returns the goals whose deadline is on or after day and
	// whose status is not Completed.
	ActiveGoals(ctx context.Context, day time.Time) ([]*models.Goal, error)
	// Goals returns every goal, oldest first.
	Goals(ctx context.Context) ([]*models.Goal, error)
	// Close ends the database connection
	Close() error
}

// Backend names a storage implementation.
type Backend string

const (
	BackendBolt   Backend = "bolt"
	BackendSQLite Backend = "sqlite"
)

// Open opens the database at path with the named backend.
func Open(backend Backend, path string) (DB, error) {
	switch backend {
	case BackendSQLite:
		return NewSQLite(path)
	default:
		return NewClient(path)
	}
}

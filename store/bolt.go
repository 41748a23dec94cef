package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"

	"github.com/ayoisaiah/tally/internal/models"
)

const (
	recordBucket = "records"
	// recordIndexBucket maps a record ID to its key in the records bucket.
	recordIndexBucket = "record_ids"
	goalBucket        = "goals"
)

// keyLayout has a fixed width so that keys sort in time order.
const keyLayout = "2006-01-02T15:04:05.000000000Z"

var errTallyRunning = errors.New(
	"is tally already running? Only one instance can use the database at a time",
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
	now func() time.Time
}

func recordKey(r *models.TimeRecord) []byte {
	return []byte(r.Start.UTC().Format(keyLayout) + "_" + r.ID)
}

func timeKey(t time.Time) []byte {
	return []byte(t.UTC().Format(keyLayout))
}

func (c *Client) CreateRecord(ctx context.Context, r *models.TimeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.ID = uuid.NewString()
	r.CreatedAt = c.now()

	return c.Update(func(tx *bolt.Tx) error {
		return putRecord(tx, r)
	})
}

func putRecord(tx *bolt.Tx, r *models.TimeRecord) error {
	value, err := json.Marshal(r)
	if err != nil {
		return err
	}

	key := recordKey(r)

	err = tx.Bucket([]byte(recordBucket)).Put(key, value)
	if err != nil {
		return err
	}

	return tx.Bucket([]byte(recordIndexBucket)).Put([]byte(r.ID), key)
}

// lookupRecord returns the key and stored value of a record, including
// archived ones.
func lookupRecord(tx *bolt.Tx, id string) ([]byte, *models.TimeRecord, error) {
	key := tx.Bucket([]byte(recordIndexBucket)).Get([]byte(id))
	if key == nil {
		return nil, nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}

	v := tx.Bucket([]byte(recordBucket)).Get(key)
	if v == nil {
		return nil, nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}

	var r models.TimeRecord

	err := json.Unmarshal(v, &r)
	if err != nil {
		return nil, nil, err
	}

	// bolt keys are only valid for the life of the transaction
	return bytes.Clone(key), &r, nil
}

func (c *Client) GetRecord(ctx context.Context, id string) (*models.TimeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec *models.TimeRecord

	err := c.View(func(tx *bolt.Tx) error {
		_, r, err := lookupRecord(tx, id)
		if err != nil {
			return err
		}

		if r.Archived {
			return fmt.Errorf("record %s: %w", id, ErrNotFound)
		}

		rec = r

		return nil
	})

	return rec, err
}

func (c *Client) UpdateRecord(ctx context.Context, r *models.TimeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		oldKey, old, err := lookupRecord(tx, r.ID)
		if err != nil {
			return err
		}

		if old.Archived {
			return fmt.Errorf("record %s: %w", r.ID, ErrNotFound)
		}

		// the key changes with the start time
		err = tx.Bucket([]byte(recordBucket)).Delete(oldKey)
		if err != nil {
			return err
		}

		r.CreatedAt = old.CreatedAt

		return putRecord(tx, r)
	})
}

func (c *Client) ArchiveRecord(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		_, r, err := lookupRecord(tx, id)
		if err != nil {
			return err
		}

		if r.Archived {
			return fmt.Errorf("record %s: %w", id, ErrNotFound)
		}

		r.Archived = true

		return putRecord(tx, r)
	})
}

func (c *Client) RecordsBetween(
	ctx context.Context,
	start, end time.Time,
) ([]*models.TimeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []*models.TimeRecord

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(recordBucket)).Cursor()
		min := timeKey(start)
		max := timeKey(end)

		for k, v := cur.Seek(min); k != nil && bytes.Compare(k, max) < 0; k, v = cur.Next() {
			var r models.TimeRecord

			err := json.Unmarshal(v, &r)
			if err != nil {
				return err
			}

			if r.Archived {
				continue
			}

			records = append(records, &r)
		}

		return nil
	})

	return records, err
}

func (c *Client) RecordsForGoal(
	ctx context.Context,
	goalID string,
) ([]*models.TimeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []*models.TimeRecord

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(recordBucket)).ForEach(func(_, v []byte) error {
			var r models.TimeRecord

			err := json.Unmarshal(v, &r)
			if err != nil {
				return err
			}

			if !r.Archived && r.GoalID == goalID {
				records = append(records, &r)
			}

			return nil
		})
	})

	return records, err
}

func putGoal(tx *bolt.Tx, g *models.Goal) error {
	value, err := json.Marshal(g)
	if err != nil {
		return err
	}

	return tx.Bucket([]byte(goalBucket)).Put([]byte(g.ID), value)
}

func getGoal(tx *bolt.Tx, id string) (*models.Goal, error) {
	v := tx.Bucket([]byte(goalBucket)).Get([]byte(id))
	if v == nil {
		return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}

	var g models.Goal

	err := json.Unmarshal(v, &g)
	if err != nil {
		return nil, err
	}

	if g.Archived {
		return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}

	return &g, nil
}

func (c *Client) CreateGoal(ctx context.Context, g *models.Goal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.ID = uuid.NewString()
	g.CreatedAt = c.now()
	g.UpdatedAt = g.CreatedAt

	return c.Update(func(tx *bolt.Tx) error {
		return putGoal(tx, g)
	})
}

func (c *Client) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var g *models.Goal

	err := c.View(func(tx *bolt.Tx) error {
		var err error

		g, err = getGoal(tx, id)

		return err
	})

	return g, err
}

func (c *Client) UpdateGoal(ctx context.Context, g *models.Goal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		stored, err := getGoal(tx, g.ID)
		if err != nil {
			return err
		}

		stored.Title = g.Title
		stored.Deadline = g.Deadline
		stored.EstimatedMinutes = g.EstimatedMinutes
		stored.Priority = g.Priority
		stored.UpdatedAt = c.now()

		return putGoal(tx, stored)
	})
}

func (c *Client) UpdateGoalProgress(
	ctx context.Context,
	id string,
	status models.Status,
	actual models.Minutes,
	progress int,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		g, err := getGoal(tx, id)
		if err != nil {
			return err
		}

		g.Status = status
		g.ActualMinutes = actual
		g.Progress = progress
		g.UpdatedAt = c.now()

		return putGoal(tx, g)
	})
}

func (c *Client) ArchiveGoal(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		g, err := getGoal(tx, id)
		if err != nil {
			return err
		}

		g.Archived = true
		g.UpdatedAt = c.now()

		return putGoal(tx, g)
	})
}

func (c *Client) allGoals() ([]*models.Goal, error) {
	var goals []*models.Goal

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(goalBucket)).ForEach(func(_, v []byte) error {
			var g models.Goal

			err := json.Unmarshal(v, &g)
			if err != nil {
				return err
			}

			if !g.Archived {
				goals = append(goals, &g)
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(goals, func(i, j int) bool {
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})

	return goals, nil
}

func (c *Client) ActiveGoals(ctx context.Context, day time.Time) ([]*models.Goal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	goals, err := c.allGoals()
	if err != nil {
		return nil, err
	}

	active := goals[:0]

	for _, g := range goals {
		if g.ActiveOn(day) {
			active = append(active, g)
		}
	}

	return active, nil
}

func (c *Client) Goals(ctx context.Context) ([]*models.Goal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return c.allGoals()
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, berrors.ErrTimeout) {
			return nil, errTallyRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{recordBucket, recordIndexBucket, goalBucket} {
			_, err := tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Client{
		DB:  db,
		now: time.Now,
	}, nil
}

// Package history records past extraction runs in a local database. The
// extraction pipeline itself is stateless; recording happens at the CLI
// boundary and is entirely optional.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const runBucketName = "runs"

// Run is one recorded extraction run.
type Run struct {
	ID          string          `json:"id"`
	SourcePath  string          `json:"source_path"`
	Model       string          `json:"model"`
	Result      json.RawMessage `json:"result"`
	ParseFailed bool            `json:"parse_failed"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Store defines the interface for run-history persistence
type Store interface {
	// Record saves a run, assigning its ID and timestamp
	Record(run *Run) error

	// List returns all recorded runs
	List() ([]*Run, error)

	// Close closes the store
	Close() error
}

// BoltStore implements the Store interface using BoltDB
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore creates a new BoltStore instance
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Record saves a run to the database
func (b *BoltStore) Record(run *Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if run.ID == "" {
		run.ID = fmt.Sprintf("%d", run.CreatedAt.UnixNano())
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(runBucketName))
		data, err := json.Marshal(run)
		if err != nil {
			return fmt.Errorf("marshaling run: %w", err)
		}
		return bucket.Put([]byte(run.ID), data)
	})
}

// List returns all recorded runs
func (b *BoltStore) List() ([]*Run, error) {
	runs := make([]*Run, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(runBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("unmarshaling run: %w", err)
			}
			runs = append(runs, &run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// Close closes the database connection
func (b *BoltStore) Close() error {
	return b.db.Close()
}

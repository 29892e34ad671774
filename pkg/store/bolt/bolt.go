// Package bolt persists draft slots in a single BoltDB file, for
// deployments that keep drafts on the local disk of one node.
package bolt

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/orangecat/campaignsync/pkg/store"
)

const draftBucket = "drafts"

// DraftStore provides a BoltDB-backed draft store.
type DraftStore struct {
	db *bbolt.DB
}

var _ store.DraftStore = (*DraftStore)(nil)

// Open opens or creates the database file at path.
func Open(path string) (*DraftStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("draft store path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open draft db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(draftBucket)); err != nil {
			return fmt.Errorf("create draft bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DraftStore{db: db}, nil
}

func (s *DraftStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *DraftStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(draftBucket)).Get([]byte(key))
		if payload == nil {
			return store.ErrNotFound
		}
		// Bolt values are only valid for the life of the transaction.
		value = append([]byte(nil), payload...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *DraftStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(draftBucket)).Put([]byte(key), value)
	})
}

func (s *DraftStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(draftBucket)).Delete([]byte(key))
	})
}

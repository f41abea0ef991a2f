package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// BadgerCache stores entries in an embedded BadgerDB under a directory.
// It suits a single long-running server that wants a persistent cache
// without an external service.
type BadgerCache struct {
	db *badger.DB
}

// NewBadgerCache opens (or creates) a BadgerDB in dir.
func NewBadgerCache(dir string) (*BadgerCache, error) {
	if err := errs.ValidatePath(dir); err != nil {
		return nil, err
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "open badger at %s", dir)
	}
	return &BadgerCache{db: db}, nil
}

// Get retrieves a value. Expired entries are invisible to badger reads.
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("badger get: %w", err)
	}
	return data, true, nil
}

// Set stores a value. A zero ttl stores it without expiration.
func (c *BadgerCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("badger set: %w", err)
	}
	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}

// Close flushes and closes the database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

var _ Cache = (*BadgerCache)(nil)

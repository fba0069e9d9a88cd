// Package cache keeps the index of installed builds in a pebble database
// under the tool's cache directory. Values are oxfmt-encoded Entry records
// keyed by KSUID, so iteration order is installation order.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/rilipak/pkg/oxfmt"
	"go.uber.org/zap"
)

// ErrNotFound is returned for IDs with no entry.
var ErrNotFound = errors.New("cache entry not found")

// Item is an entry together with its ID.
type Item struct {
	ID    ksuid.KSUID `json:"id"`
	Entry Entry       `json:"entry"`
}

type Cache struct {
	db    *pebble.DB
	sugar *zap.SugaredLogger
}

// IndexDir is the database directory inside a cache directory.
func IndexDir(cacheDir string) string {
	return filepath.Join(cacheDir, "index")
}

// Open opens or creates the index inside cacheDir.
func Open(cacheDir string, logger *zap.Logger) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	db, err := pebble.Open(IndexDir(cacheDir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open build index: %w", err)
	}
	return &Cache{db: db, sugar: logger.Sugar()}, nil
}

// Put stores e under a fresh ID.
func (c *Cache) Put(e *Entry) (ksuid.KSUID, error) {
	data, err := oxfmt.Marshal(e)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("failed to encode entry: %w", err)
	}

	id := ksuid.New()
	if err := c.db.Set(id.Bytes(), data, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store entry: %w", err)
	}
	c.sugar.Debugw("cache put", "id", id, "build", e.Build.ID, "bytes", len(data))
	return id, nil
}

// Get returns the entry stored under id.
func (c *Cache) Get(id ksuid.KSUID) (*Entry, error) {
	data, err := c.Raw(id)
	if err != nil {
		return nil, err
	}
	e, err := oxfmt.Decode[Entry](data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode entry %s: %w", id, err)
	}
	return &e, nil
}

// Raw returns the encoded entry stored under id.
func (c *Cache) Raw(id ksuid.KSUID) ([]byte, error) {
	data, closer, err := c.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %s: %w", id, err)
	}
	defer closer.Close()

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// List returns every entry, oldest first. A value that no longer decodes
// fails the whole listing.
func (c *Cache) List() ([]Item, error) {
	iter, err := c.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate build index: %w", err)
	}
	defer iter.Close()

	var items []Item
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			c.sugar.Warnw("skipping foreign key in build index", "key", iter.Key())
			continue
		}
		e, err := oxfmt.Decode[Entry](iter.Value())
		if err != nil {
			return nil, fmt.Errorf("failed to decode entry %s: %w", id, err)
		}
		items = append(items, Item{ID: id, Entry: e})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate build index: %w", err)
	}
	return items, nil
}

// Delete removes the entry stored under id.
func (c *Cache) Delete(id ksuid.KSUID) error {
	if _, err := c.Raw(id); err != nil {
		return err
	}
	if err := c.db.Delete(id.Bytes(), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", id, err)
	}
	c.sugar.Debugw("cache delete", "id", id)
	return nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

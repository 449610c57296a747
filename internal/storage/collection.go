package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

// Collection is a named, typed keyspace within the shared engine.
//
// Keys are UTF-8 strings; values are JSON-serialized records of type V.
// The collection name becomes a key prefix, so distinct collections
// never collide and a single transaction can span several of them.
type Collection[V any] struct {
	engine *Engine
	name   string
	prefix []byte
}

// OpenCollection opens the named collection on the engine.
func OpenCollection[V any](engine *Engine, name string) *Collection[V] {
	return &Collection[V]{
		engine: engine,
		name:   name,
		prefix: []byte(name + "/"),
	}
}

// Name returns the collection name.
func (c *Collection[V]) Name() string {
	return c.name
}

func (c *Collection[V]) storageKey(key string) []byte {
	return append(append([]byte(nil), c.prefix...), key...)
}

func (c *Collection[V]) decode(key string, data []byte) (V, error) {
	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("storage: collection %s: decode value for key %q: %w", c.name, key, err)
	}
	return value, nil
}

func (c *Collection[V]) encode(key string, value V) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("storage: collection %s: encode value for key %q: %w", c.name, key, err)
	}
	return data, nil
}

// Contains reports whether the key exists.
func (c *Collection[V]) Contains(key string) (bool, error) {
	var found bool
	err := c.engine.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(c.storageKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

// Get retrieves the value for the key. The second return value is
// false if the key is absent.
func (c *Collection[V]) Get(key string) (V, bool, error) {
	var (
		value V
		found bool
	)

	err := c.engine.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(c.storageKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(data []byte) error {
			decoded, err := c.decode(key, data)
			if err != nil {
				return err
			}
			value = decoded
			found = true
			return nil
		})
	})

	return value, found, err
}

// Put stores the value under the key, inserting or replacing.
func (c *Collection[V]) Put(key string, value V) error {
	data, err := c.encode(key, value)
	if err != nil {
		return err
	}

	err = c.engine.db.Update(func(txn *badger.Txn) error {
		return txn.Set(c.storageKey(key), data)
	})
	return mapConflict(err)
}

// Delete removes the key and returns the prior value if one existed.
func (c *Collection[V]) Delete(key string) (V, bool, error) {
	var (
		prior V
		found bool
	)

	err := c.engine.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(c.storageKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := item.Value(func(data []byte) error {
			decoded, err := c.decode(key, data)
			if err != nil {
				return err
			}
			prior = decoded
			found = true
			return nil
		}); err != nil {
			return err
		}

		return txn.Delete(c.storageKey(key))
	})

	if err != nil {
		return prior, false, mapConflict(err)
	}
	return prior, found, nil
}

// Update reads the value for the key, applies the mutator, and writes
// the result atomically with respect to other operations on the key.
//
// Returns false without effect if the key is absent. Returns
// ErrConflict if a concurrent commit touched the key first; the
// caller decides whether to retry.
func (c *Collection[V]) Update(key string, mutate func(V) V) (bool, error) {
	var found bool

	err := c.engine.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(c.storageKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var current V
		if err := item.Value(func(data []byte) error {
			decoded, err := c.decode(key, data)
			if err != nil {
				return err
			}
			current = decoded
			return nil
		}); err != nil {
			return err
		}

		data, err := c.encode(key, mutate(current))
		if err != nil {
			return err
		}

		found = true
		return txn.Set(c.storageKey(key), data)
	})

	if err != nil {
		return false, mapConflict(err)
	}
	return found, nil
}

// Iterate scans the collection in key order, invoking fn for each
// entry. Returning false from fn stops the scan.
//
// Each call opens a fresh read snapshot: concurrent writes never crash
// the scan, and may or may not be reflected in it.
func (c *Collection[V]) Iterate(fn func(key string, value V) bool) error {
	return c.engine.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = c.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key()[len(c.prefix):])

			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			value, err := c.decode(key, data)
			if err != nil {
				return err
			}

			if !fn(key, value) {
				break
			}
		}

		return nil
	})
}

func mapConflict(err error) error {
	if errors.Is(err, badger.ErrConflict) {
		return ErrConflict
	}
	return err
}

package storage

import (
	"errors"

	"github.com/dgraph-io/badger/v3"
)

// Tx is a transactional view over the engine's collections.
//
// All reads and writes performed through a Tx commit together or not
// at all; no other transaction observes an intermediate state. A Tx is
// only valid inside the body passed to Engine.Transaction or
// Engine.View.
type Tx struct {
	txn      *badger.Txn
	writable bool
}

// Transaction executes body as one atomic unit of work across any
// collections it touches.
//
// If body returns an error every write inside it is rolled back and
// the error is returned unchanged. A conflicting concurrent commit
// rolls back too and surfaces as ErrConflict. There is no implicit
// retry; the caller decides whether to retry on conflict.
func (e *Engine) Transaction(body func(tx *Tx) error) error {
	err := e.db.Update(func(txn *badger.Txn) error {
		return body(&Tx{txn: txn, writable: true})
	})
	return mapConflict(err)
}

// View executes body against a read-only snapshot of the engine.
func (e *Engine) View(body func(tx *Tx) error) error {
	return e.db.View(func(txn *badger.Txn) error {
		return body(&Tx{txn: txn})
	})
}

// GetTx retrieves the value for the key inside the transaction.
func (c *Collection[V]) GetTx(tx *Tx, key string) (V, bool, error) {
	var value V

	item, err := tx.txn.Get(c.storageKey(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return value, false, nil
	}
	if err != nil {
		return value, false, err
	}

	data, err := item.ValueCopy(nil)
	if err != nil {
		return value, false, err
	}

	value, err = c.decode(key, data)
	if err != nil {
		return value, false, err
	}
	return value, true, nil
}

// ContainsTx reports whether the key exists inside the transaction.
func (c *Collection[V]) ContainsTx(tx *Tx, key string) (bool, error) {
	_, err := tx.txn.Get(c.storageKey(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PutTx stores the value under the key inside the transaction.
func (c *Collection[V]) PutTx(tx *Tx, key string, value V) error {
	if !tx.writable {
		return errors.New("storage: put inside read-only transaction")
	}

	data, err := c.encode(key, value)
	if err != nil {
		return err
	}
	return tx.txn.Set(c.storageKey(key), data)
}

// DeleteTx removes the key inside the transaction and reports whether
// a value existed.
func (c *Collection[V]) DeleteTx(tx *Tx, key string) (bool, error) {
	if !tx.writable {
		return false, errors.New("storage: delete inside read-only transaction")
	}

	found, err := c.ContainsTx(tx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return true, tx.txn.Delete(c.storageKey(key))
}

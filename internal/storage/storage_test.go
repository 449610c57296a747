package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	cfg := DefaultConfig(t.TempDir())
	cfg.Badger.SyncWrites = false // speed up tests

	engine, err := Open(cfg, slog.Default())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := engine.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	return engine
}

func TestCollection_BasicOperations(t *testing.T) {
	engine := newTestEngine(t)
	records := OpenCollection[record](engine, "records")

	t.Run("Put and Get", func(t *testing.T) {
		if err := records.Put("a", record{Name: "first", Count: 1}); err != nil {
			t.Fatal(err)
		}

		got, found, err := records.Get("a")
		if err != nil {
			t.Fatal(err)
		}
		if !found {
			t.Fatal("Get() found = false, want true")
		}
		if got.Name != "first" || got.Count != 1 {
			t.Errorf("Get() = %+v", got)
		}
	})

	t.Run("Get absent key", func(t *testing.T) {
		_, found, err := records.Get("missing")
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Error("Get() found = true for absent key")
		}
	})

	t.Run("Contains", func(t *testing.T) {
		found, err := records.Contains("a")
		if err != nil {
			t.Fatal(err)
		}
		if !found {
			t.Error("Contains() = false for existing key")
		}

		found, err = records.Contains("missing")
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Error("Contains() = true for absent key")
		}
	})

	t.Run("Put is upsert", func(t *testing.T) {
		if err := records.Put("a", record{Name: "second", Count: 2}); err != nil {
			t.Fatal(err)
		}

		got, _, err := records.Get("a")
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != "second" {
			t.Errorf("Get() after upsert = %+v", got)
		}
	})

	t.Run("Delete returns prior value", func(t *testing.T) {
		prior, found, err := records.Delete("a")
		if err != nil {
			t.Fatal(err)
		}
		if !found {
			t.Fatal("Delete() found = false, want true")
		}
		if prior.Name != "second" {
			t.Errorf("Delete() prior = %+v", prior)
		}

		_, found, err = records.Get("a")
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Error("key still present after Delete()")
		}
	})

	t.Run("Delete absent key", func(t *testing.T) {
		_, found, err := records.Delete("missing")
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Error("Delete() found = true for absent key")
		}
	})
}

func TestCollection_Update(t *testing.T) {
	engine := newTestEngine(t)
	records := OpenCollection[record](engine, "records")

	t.Run("absent key is a no-op", func(t *testing.T) {
		found, err := records.Update("missing", func(r record) record {
			r.Count++
			return r
		})
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Error("Update() found = true for absent key")
		}
	})

	t.Run("mutator is applied atomically", func(t *testing.T) {
		if err := records.Put("k", record{Count: 10}); err != nil {
			t.Fatal(err)
		}

		found, err := records.Update("k", func(r record) record {
			r.Count++
			return r
		})
		if err != nil {
			t.Fatal(err)
		}
		if !found {
			t.Fatal("Update() found = false, want true")
		}

		got, _, err := records.Get("k")
		if err != nil {
			t.Fatal(err)
		}
		if got.Count != 11 {
			t.Errorf("Count = %d, want 11", got.Count)
		}
	})
}

func TestCollection_Iterate(t *testing.T) {
	engine := newTestEngine(t)
	records := OpenCollection[record](engine, "records")
	other := OpenCollection[record](engine, "other")

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("key-%d", i)
		if err := records.Put(key, record{Count: i}); err != nil {
			t.Fatal(err)
		}
	}
	// An entry in another collection must not leak into the scan.
	if err := other.Put("key-0", record{Count: 99}); err != nil {
		t.Fatal(err)
	}

	t.Run("full scan", func(t *testing.T) {
		seen := map[string]int{}
		err := records.Iterate(func(key string, value record) bool {
			seen[key] = value.Count
			return true
		})
		if err != nil {
			t.Fatal(err)
		}

		if len(seen) != 5 {
			t.Errorf("scan saw %d entries, want 5", len(seen))
		}
		for i := 0; i < 5; i++ {
			key := fmt.Sprintf("key-%d", i)
			if seen[key] != i {
				t.Errorf("seen[%s] = %d, want %d", key, seen[key], i)
			}
		}
	})

	t.Run("early stop", func(t *testing.T) {
		count := 0
		err := records.Iterate(func(key string, value record) bool {
			count++
			return count < 2
		})
		if err != nil {
			t.Fatal(err)
		}
		if count != 2 {
			t.Errorf("scan visited %d entries, want 2", count)
		}
	})

	t.Run("scan is restartable", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			count := 0
			err := records.Iterate(func(string, record) bool {
				count++
				return true
			})
			if err != nil {
				t.Fatal(err)
			}
			if count != 5 {
				t.Errorf("pass %d visited %d entries, want 5", i, count)
			}
		}
	})
}

func TestCollection_DecodeErrorSurfaced(t *testing.T) {
	engine := newTestEngine(t)

	// Write a string where an int is expected; the decode failure must
	// surface as an error, never be silently dropped.
	strings := OpenCollection[string](engine, "values")
	ints := OpenCollection[int](engine, "values")

	if err := strings.Put("k", "not a number"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := ints.Get("k"); err == nil {
		t.Error("Get() should surface decode error")
	}

	err := ints.Iterate(func(string, int) bool { return true })
	if err == nil {
		t.Error("Iterate() should surface decode error")
	}
}

func TestTransaction_CrossCollectionCommit(t *testing.T) {
	engine := newTestEngine(t)
	left := OpenCollection[record](engine, "left")
	right := OpenCollection[record](engine, "right")

	err := engine.Transaction(func(tx *Tx) error {
		if err := left.PutTx(tx, "a", record{Count: 1}); err != nil {
			return err
		}
		return right.PutTx(tx, "b", record{Count: 2})
	})
	if err != nil {
		t.Fatalf("Transaction() error = %v", err)
	}

	if _, found, _ := left.Get("a"); !found {
		t.Error("left write missing after commit")
	}
	if _, found, _ := right.Get("b"); !found {
		t.Error("right write missing after commit")
	}
}

func TestTransaction_AbortRollsBackAllWrites(t *testing.T) {
	engine := newTestEngine(t)
	left := OpenCollection[record](engine, "left")
	right := OpenCollection[record](engine, "right")

	abort := errors.New("abort")
	err := engine.Transaction(func(tx *Tx) error {
		if err := left.PutTx(tx, "a", record{Count: 1}); err != nil {
			return err
		}
		if err := right.PutTx(tx, "b", record{Count: 2}); err != nil {
			return err
		}
		// A fault after both writes must leave neither committed.
		return abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("Transaction() error = %v, want abort", err)
	}

	if _, found, _ := left.Get("a"); found {
		t.Error("left write visible after abort")
	}
	if _, found, _ := right.Get("b"); found {
		t.Error("right write visible after abort")
	}
}

func TestTransaction_ConflictDetected(t *testing.T) {
	engine := newTestEngine(t)
	records := OpenCollection[record](engine, "records")

	if err := records.Put("k", record{Count: 0}); err != nil {
		t.Fatal(err)
	}

	err := engine.Transaction(func(tx *Tx) error {
		current, _, err := records.GetTx(tx, "k")
		if err != nil {
			return err
		}

		// A competing transaction commits a write to the same key
		// between our read and our commit.
		if err := engine.Transaction(func(inner *Tx) error {
			return records.PutTx(inner, "k", record{Count: 100})
		}); err != nil {
			return err
		}

		current.Count++
		return records.PutTx(tx, "k", current)
	})

	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Transaction() error = %v, want ErrConflict", err)
	}

	// The competing write won; the conflicted transaction left nothing.
	got, _, err := records.Get("k")
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 100 {
		t.Errorf("Count = %d, want 100", got.Count)
	}
}

func TestView_ReadOnly(t *testing.T) {
	engine := newTestEngine(t)
	records := OpenCollection[record](engine, "records")

	if err := records.Put("k", record{Count: 7}); err != nil {
		t.Fatal(err)
	}

	err := engine.View(func(tx *Tx) error {
		got, found, err := records.GetTx(tx, "k")
		if err != nil {
			return err
		}
		if !found || got.Count != 7 {
			t.Errorf("GetTx() = %+v, found = %v", got, found)
		}

		if err := records.PutTx(tx, "k", record{}); err == nil {
			t.Error("PutTx() should fail inside View")
		}
		if _, err := records.DeleteTx(tx, "k"); err == nil {
			t.Error("DeleteTx() should fail inside View")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestEngine_Reopen(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	cfg.Badger.SyncWrites = false

	engine, err := Open(cfg, slog.Default())
	if err != nil {
		t.Fatal(err)
	}

	records := OpenCollection[record](engine, "records")
	if err := records.Put("durable", record{Count: 42}); err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(cfg, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, found, err := OpenCollection[record](reopened, "records").Get("durable")
	if err != nil {
		t.Fatal(err)
	}
	if !found || got.Count != 42 {
		t.Errorf("Get() after reopen = %+v, found = %v", got, found)
	}
}

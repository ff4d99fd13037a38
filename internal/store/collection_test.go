package store

import (
	"path/filepath"
	"testing"
)

type item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

func (i item) RecordID() string { return i.ID }

func backends(t *testing.T) map[string]KV {
	t.Helper()
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]KV{
		"memory": NewMemoryKV(),
		"sqlite": sqlite,
	}
}

func TestUpsertInsertsThenReplaces(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := NewCollection[item](kv, "items")

			if err := c.Upsert(item{ID: "a", Label: "first"}); err != nil {
				t.Fatalf("Upsert: %v", err)
			}
			if err := c.Upsert(item{ID: "b", Label: "second"}); err != nil {
				t.Fatalf("Upsert: %v", err)
			}
			if err := c.Upsert(item{ID: "a", Label: "edited", Count: 2}); err != nil {
				t.Fatalf("Upsert: %v", err)
			}
			// Repeating an identical upsert must not duplicate the record.
			if err := c.Upsert(item{ID: "a", Label: "edited", Count: 2}); err != nil {
				t.Fatalf("Upsert: %v", err)
			}

			all := c.All()
			if len(all) != 2 {
				t.Fatalf("got %d records, want 2", len(all))
			}
			if all[0] != (item{ID: "a", Label: "edited", Count: 2}) {
				t.Errorf("record a = %+v, want replaced in place", all[0])
			}
			if all[1].ID != "b" {
				t.Errorf("record order changed: %+v", all)
			}
		})
	}
}

func TestRemoveLeavesOthersUntouched(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := NewCollection[item](kv, "items")
			for _, it := range []item{{ID: "a", Count: 1}, {ID: "b", Count: 2}, {ID: "c", Count: 3}} {
				if err := c.Upsert(it); err != nil {
					t.Fatalf("Upsert: %v", err)
				}
			}

			if err := c.Remove("b"); err != nil {
				t.Fatalf("Remove: %v", err)
			}

			all := c.All()
			want := []item{{ID: "a", Count: 1}, {ID: "c", Count: 3}}
			if len(all) != len(want) {
				t.Fatalf("got %+v, want %+v", all, want)
			}
			for i := range want {
				if all[i] != want[i] {
					t.Errorf("record %d = %+v, want %+v", i, all[i], want[i])
				}
			}
			if _, ok := c.Get("b"); ok {
				t.Error("removed record still found")
			}
		})
	}
}

func TestAllOnAbsentOrMalformedData(t *testing.T) {
	kv := NewMemoryKV()
	c := NewCollection[item](kv, "items")

	if got := c.All(); got == nil || len(got) != 0 {
		t.Errorf("absent collection: got %#v, want empty slice", got)
	}

	for _, blob := range []string{"{broken", "null", `{"id":"x"}`, ""} {
		if err := kv.Put("items", []byte(blob)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if got := c.All(); len(got) != 0 {
			t.Errorf("blob %q: got %d records, want 0", blob, len(got))
		}
	}
}

func TestAllAfterClose(t *testing.T) {
	kv := NewMemoryKV()
	c := NewCollection[item](kv, "items")
	if err := c.Upsert(item{ID: "a"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	_ = kv.Close()

	if got := c.All(); len(got) != 0 {
		t.Errorf("read from closed store: got %d records, want 0", len(got))
	}
	if err := c.Upsert(item{ID: "b"}); err == nil {
		t.Error("expected write to closed store to fail")
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banca.db")

	kv, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	c := NewCollection[item](kv, StudentsKey)
	if err := c.Upsert(item{ID: "a", Label: "kept", Count: 7}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	kv, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()

	got, ok := NewCollection[item](kv, StudentsKey).Get("a")
	if !ok {
		t.Fatal("record missing after reopen")
	}
	if got != (item{ID: "a", Label: "kept", Count: 7}) {
		t.Errorf("got %+v after reopen", got)
	}
}

func TestFind(t *testing.T) {
	c := NewCollection[item](NewMemoryKV(), "items")
	for _, it := range []item{{ID: "a", Count: 1}, {ID: "b", Count: 2}, {ID: "c", Count: 3}} {
		if err := c.Upsert(it); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	odd := c.Find(func(i item) bool { return i.Count%2 == 1 })
	if len(odd) != 2 || odd[0].ID != "a" || odd[1].ID != "c" {
		t.Errorf("Find = %+v", odd)
	}
}

func TestOpenDrivers(t *testing.T) {
	kv, err := Open(DriverMemory, "")
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	_ = kv.Close()

	if _, err := Open("bolt", ""); err == nil {
		t.Error("expected unknown driver error")
	}
}

package store

import (
	"encoding/json"
	"fmt"
)

// Collection keys. Both live under the banca_ namespace.
const (
	StudentsKey = "banca_students"
	SessionsKey = "banca_sessions"
)

// Record is anything stored in a Collection.
type Record interface {
	RecordID() string
}

// Collection is a full-snapshot view of one blob in a KV.
// Every mutation reads the whole collection, changes it in memory and writes
// it back. There is no isolation between concurrent writers.
type Collection[T Record] struct {
	kv  KV
	key string
}

// NewCollection binds a collection to key in kv.
func NewCollection[T Record](kv KV, key string) *Collection[T] {
	return &Collection[T]{kv: kv, key: key}
}

// Key returns the KV key backing the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

// All returns every record in store order. Absent, unreadable or malformed
// data is reported as an empty collection.
func (c *Collection[T]) All() []T {
	data, ok, err := c.kv.Get(c.key)
	if err != nil || !ok || len(data) == 0 {
		return []T{}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return []T{}
	}
	if records == nil {
		return []T{}
	}
	return records
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	for _, r := range c.All() {
		if r.RecordID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Find returns the records matching keep, in store order.
func (c *Collection[T]) Find(keep func(T) bool) []T {
	out := []T{}
	for _, r := range c.All() {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Upsert replaces the record with a matching id, or appends rec when none
// matches, then persists the full collection.
func (c *Collection[T]) Upsert(rec T) error {
	records := c.All()

	replaced := false
	for i := range records {
		if records[i].RecordID() == rec.RecordID() {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}

	return c.write(records)
}

// Remove filters out the record with the given id and persists the remainder.
// Removing an absent id rewrites the collection unchanged.
func (c *Collection[T]) Remove(id string) error {
	records := c.All()
	kept := records[:0]
	for _, r := range records {
		if r.RecordID() != id {
			kept = append(kept, r)
		}
	}
	return c.write(kept)
}

func (c *Collection[T]) write(records []T) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.key, err)
	}
	if err := c.kv.Put(c.key, data); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

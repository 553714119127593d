// Package memstore is an in-process document store. Documents are held as
// JSON-normalised maps, so they behave like the network stores round-trip
// wise. Used by tests and DB_DRIVER=memory.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
)

// Store is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	cols map[string]*Collection
}

var _ store.Store = (*Store)(nil)

// New returns an empty store using store.UniqueIndexes.
func New() *Store {
	return &Store{cols: make(map[string]*Collection)}
}

// Collection returns the named collection, creating it on first use.
func (s *Store) Collection(name string) store.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cols[name]
	if !ok {
		c = &Collection{
			docs:   make(map[string]map[string]any),
			unique: store.UniqueIndexes[name],
		}
		s.cols[name] = c
	}
	return c
}

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

// Collection keeps documents in insertion order.
type Collection struct {
	mu     sync.RWMutex
	docs   map[string]map[string]any
	order  []string
	unique [][]string
}

var _ store.Collection = (*Collection)(nil)

func (c *Collection) Insert(_ context.Context, doc any) error {
	m, err := normalize(doc)
	if err != nil {
		return err
	}
	id, _ := m["_id"].(string)
	if id == "" {
		return fmt.Errorf("insert: document has no _id")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; ok {
		return fmt.Errorf("insert %s: %w", id, store.ErrDuplicate)
	}
	if err := c.checkUnique(id, m); err != nil {
		return err
	}
	c.docs[id] = m
	c.order = append(c.order, id)
	return nil
}

func (c *Collection) FindOne(_ context.Context, preds []query.Predicate, dst any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		if matchAll(c.docs[id], preds) {
			return decode(c.docs[id], dst)
		}
	}
	return store.ErrNotFound
}

func (c *Collection) Find(_ context.Context, spec query.Spec, dst any) error {
	c.mu.RLock()
	matched := c.matching(spec.Predicates())
	c.mu.RUnlock()

	if keys := spec.SortKeys(); len(keys) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return less(matched[i], matched[j], keys)
		})
	}

	if skip := spec.Skip(); skip > 0 {
		if skip >= len(matched) {
			matched = nil
		} else {
			matched = matched[skip:]
		}
	}
	if limit := spec.Limit(); limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	if matched == nil {
		matched = []map[string]any{}
	}
	return decode(matched, dst)
}

func (c *Collection) Count(_ context.Context, preds []query.Predicate) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int64(len(c.matching(preds))), nil
}

func (c *Collection) Replace(_ context.Context, id string, doc any) error {
	m, err := normalize(doc)
	if err != nil {
		return err
	}
	m["_id"] = id

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return store.ErrNotFound
	}
	if err := c.checkUnique(id, m); err != nil {
		return err
	}
	c.docs[id] = m
	return nil
}

func (c *Collection) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return store.ErrNotFound
	}
	c.remove(id)
	return nil
}

func (c *Collection) DeleteMany(_ context.Context, preds []query.Predicate) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, id := range slices.Clone(c.order) {
		if matchAll(c.docs[id], preds) {
			c.remove(id)
			n++
		}
	}
	return n, nil
}

// matching returns copies-by-reference of matching docs; callers hold the lock.
func (c *Collection) matching(preds []query.Predicate) []map[string]any {
	var out []map[string]any
	for _, id := range c.order {
		if d := c.docs[id]; matchAll(d, preds) {
			out = append(out, d)
		}
	}
	return out
}

func (c *Collection) remove(id string) {
	delete(c.docs, id)
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == id })
}

func (c *Collection) checkUnique(id string, doc map[string]any) error {
	for _, fields := range c.unique {
		key, ok := uniqueKey(doc, fields)
		if !ok {
			continue
		}
		for otherID, other := range c.docs {
			if otherID == id {
				continue
			}
			if otherKey, ok := uniqueKey(other, fields); ok && otherKey == key {
				return fmt.Errorf("unique %v: %w", fields, store.ErrDuplicate)
			}
		}
	}
	return nil
}

func uniqueKey(doc map[string]any, fields []string) (string, bool) {
	vals := make([]any, 0, len(fields))
	for _, f := range fields {
		v, ok := lookup(doc, f)
		if !ok || v == nil {
			return "", false
		}
		vals = append(vals, v)
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func normalize(doc any) (map[string]any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	return m, nil
}

func decode(v any, dst any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

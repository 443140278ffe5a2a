package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/krasavchik01/rbbb-sub002/internal/cache"
	"github.com/krasavchik01/rbbb-sub002/internal/remote"
	"go.uber.org/zap"
)

// collection binds one cache key to one remote table. mu serializes the
// read-modify-write cycle on the cache document. gen moves on every committed
// local write and on every finished mirror call; inflight counts mirrors not
// yet returned. A remote snapshot is only persisted when gen did not move
// during its fetch and no mirror is pending.
type collection[T any, R any] struct {
	key     string
	table   string
	id      func(T) string
	toRow   func(T) R
	fromRow func(R) T

	mu       sync.Mutex
	gen      uint64
	inflight int
}

// written records a committed cache write. Caller holds c.mu.
func (c *collection[T, R]) written() {
	c.gen++
	c.inflight++
}

// mirrored marks the mirror call of a written write as finished
func (c *collection[T, R]) mirrored() {
	c.mu.Lock()
	c.gen++
	c.inflight--
	c.mu.Unlock()
}

func (c *collection[T, R]) snapshot(ctx context.Context, s *Store) []T {
	return cache.Load[T](ctx, s.cache, c.key)
}

// fetch lists the remote table and maps the rows
func (c *collection[T, R]) fetch(ctx context.Context, s *Store) ([]T, error) {
	var rows []R
	if err := s.remote.List(ctx, c.table, nil, &rows); err != nil {
		return nil, err
	}
	items := make([]T, 0, len(rows))
	for _, r := range rows {
		items = append(items, c.fromRow(r))
	}
	return items, nil
}

// refresh replaces the cache snapshot with the remote rows. When a local
// write committed or was still mirroring while the rows were fetched, the
// cache stays authoritative and its snapshot is returned instead.
func (c *collection[T, R]) refresh(ctx context.Context, s *Store) ([]T, error) {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	items, err := c.fetch(ctx, s)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.inflight > 0 {
		s.logger.Debug("Local write during remote list, keeping cache snapshot", zap.String("collection", c.key))
		return c.snapshot(ctx, s), nil
	}
	if err := cache.Save(ctx, s.cache, c.key, items); err != nil {
		s.logger.Warn("Could not persist remote snapshot", zap.String("collection", c.key), zap.Error(err))
	}
	return items, nil
}

// list prefers the remote mirror and falls back to the cache snapshot
func (c *collection[T, R]) list(ctx context.Context, s *Store) []T {
	if s.remote.Probe(ctx) {
		items, err := c.refresh(ctx, s)
		if err == nil {
			return items
		}
		s.logger.Warn("Remote list failed, serving local snapshot",
			zap.String("collection", c.key),
			zap.Error(err),
		)
	}
	return c.snapshot(ctx, s)
}

func (c *collection[T, R]) find(ctx context.Context, s *Store, id string) (T, bool) {
	for _, item := range c.list(ctx, s) {
		if c.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// create appends item to the cache and then mirrors it remotely
func (c *collection[T, R]) create(ctx context.Context, s *Store, item T) (T, error) {
	c.mu.Lock()
	items := c.snapshot(ctx, s)
	items = append(items, item)
	err := cache.Save(ctx, s.cache, c.key, items)
	if err != nil {
		c.mu.Unlock()
		return item, fmt.Errorf("%w: %v", ErrLocalSave, err)
	}
	c.written()
	c.mu.Unlock()
	defer c.mirrored()

	s.mirror(ctx, c.table, "insert", c.id(item), func(ctx context.Context) error {
		row := c.toRow(item)
		return s.remote.Insert(ctx, c.table, &row)
	})
	return item, nil
}

// lockedSnapshot returns the cached items and the index of id with c.mu
// held. When id is not cached and the mirror is reachable the snapshot is
// refreshed once. On a miss the lock is released and ok is false.
func (c *collection[T, R]) lockedSnapshot(ctx context.Context, s *Store, id string) (items []T, idx int, ok bool) {
	for attempt := 0; attempt < 2; attempt++ {
		c.mu.Lock()
		items = c.snapshot(ctx, s)
		for i := range items {
			if c.id(items[i]) == id {
				return items, i, true
			}
		}
		c.mu.Unlock()
		if attempt > 0 || !s.remote.Probe(ctx) {
			break
		}
		if _, err := c.refresh(ctx, s); err != nil {
			break
		}
	}
	return nil, -1, false
}

// update applies mutate to the cached item with id and mirrors the result.
// A mutate error aborts the update without writing anything.
func (c *collection[T, R]) update(ctx context.Context, s *Store, id string, mutate func(*T) error) (T, error) {
	var zero T

	items, idx, ok := c.lockedSnapshot(ctx, s, id)
	if !ok {
		return zero, ErrNotFound
	}
	candidate := items[idx]
	if err := mutate(&candidate); err != nil {
		c.mu.Unlock()
		return zero, err
	}
	items[idx] = candidate
	err := cache.Save(ctx, s.cache, c.key, items)
	if err != nil {
		c.mu.Unlock()
		return zero, fmt.Errorf("%w: %v", ErrLocalSave, err)
	}
	c.written()
	c.mu.Unlock()
	defer c.mirrored()

	s.mirror(ctx, c.table, "update", id, func(ctx context.Context) error {
		row := c.toRow(candidate)
		err := s.remote.Update(ctx, c.table, id, &row)
		if errors.Is(err, remote.ErrNotFound) {
			return s.remote.Insert(ctx, c.table, &row)
		}
		return err
	})
	return candidate, nil
}

// remove deletes the cached item with id and reports whether it existed
func (c *collection[T, R]) remove(ctx context.Context, s *Store, id string) (bool, error) {
	items, idx, ok := c.lockedSnapshot(ctx, s, id)
	if !ok {
		return false, nil
	}
	kept := append(items[:idx:idx], items[idx+1:]...)
	err := cache.Save(ctx, s.cache, c.key, kept)
	if err != nil {
		c.mu.Unlock()
		return false, fmt.Errorf("%w: %v", ErrLocalSave, err)
	}
	c.written()
	c.mu.Unlock()
	defer c.mirrored()

	s.mirror(ctx, c.table, "delete", id, func(ctx context.Context) error {
		_, err := s.remote.Delete(ctx, c.table, id)
		return err
	})
	return true, nil
}

// Package remote is the client of the managed postgres mirror
package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrUnknownTable is returned for table names outside the mirror schema
	ErrUnknownTable = errors.New("unknown remote table")
	// ErrDisconnected is returned by every operation of a client without a database
	ErrDisconnected = errors.New("remote mirror not configured")
	// ErrNotFound is returned when an update matches no row
	ErrNotFound = errors.New("remote row not found")
)

// Client performs generic CRUD against the mirror tables. The reachability
// probe runs once per process; Reprobe forces a new one.
type Client struct {
	db           *gorm.DB
	logger       *zap.Logger
	metrics      *metrics.Metrics
	probeTimeout time.Duration

	mu        sync.Mutex
	probed    bool
	reachable bool
}

// NewClient wraps db. A nil db yields a disconnected client.
func NewClient(db *gorm.DB, probeTimeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Client {
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	return &Client{
		db:           db,
		logger:       logger,
		metrics:      m,
		probeTimeout: probeTimeout,
	}
}

// NewDisconnectedClient returns a client that is never reachable
func NewDisconnectedClient(logger *zap.Logger) *Client {
	return NewClient(nil, 0, logger, nil)
}

// Connected reports whether a database is configured
func (c *Client) Connected() bool {
	return c.db != nil
}

// Probe reports whether the mirror is reachable, probing on first use only
func (c *Client) Probe(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.probed {
		c.reachable = c.probe(ctx)
		c.probed = true
	}
	return c.reachable
}

// Reprobe discards the cached probe result and probes again
func (c *Client) Reprobe(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reachable = c.probe(ctx)
	c.probed = true
	return c.reachable
}

func (c *Client) probe(ctx context.Context) bool {
	if c.db == nil {
		c.metrics.SetReachable(false)
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	var ids []string
	err := c.db.WithContext(ctx).Table(TableEmployees).Limit(1).Pluck("id", &ids).Error
	c.metrics.RemoteOp(TableEmployees, "probe", err)
	c.metrics.SetReachable(err == nil)
	if err != nil {
		c.logger.Warn("Remote mirror unreachable, running from local cache", zap.Error(err))
		return false
	}
	c.logger.Info("Remote mirror reachable")
	return true
}

func (c *Client) check(table string) error {
	if !knownTables[table] {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if c.db == nil {
		return ErrDisconnected
	}
	return nil
}

// List loads the rows of table matching filter (column -> value) into dest
func (c *Client) List(ctx context.Context, table string, filter map[string]any, dest any) error {
	if err := c.check(table); err != nil {
		return err
	}
	query := c.db.WithContext(ctx).Table(table)
	if len(filter) > 0 {
		query = query.Where(filter)
	}
	err := query.Find(dest).Error
	c.metrics.RemoteOp(table, "list", err)
	if err != nil {
		return fmt.Errorf("list %s: %w", table, err)
	}
	return nil
}

// Insert creates row in table
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	if err := c.check(table); err != nil {
		return err
	}
	err := c.db.WithContext(ctx).Table(table).Create(row).Error
	c.metrics.RemoteOp(table, "insert", err)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// Update overwrites every column of the row with id except id and created_at
func (c *Client) Update(ctx context.Context, table, id string, row any) error {
	if err := c.check(table); err != nil {
		return err
	}
	result := c.db.WithContext(ctx).Table(table).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(row)
	err := result.Error
	if err == nil && result.RowsAffected == 0 {
		err = ErrNotFound
	}
	c.metrics.RemoteOp(table, "update", err)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", table, id, err)
	}
	return nil
}

// Delete removes the row with id and reports whether one existed
func (c *Client) Delete(ctx context.Context, table, id string) (bool, error) {
	if err := c.check(table); err != nil {
		return false, err
	}
	result := c.db.WithContext(ctx).Exec("DELETE FROM ? WHERE id = ?", clause.Table{Name: table}, id)
	c.metrics.RemoteOp(table, "delete", result.Error)
	if result.Error != nil {
		return false, fmt.Errorf("delete %s %s: %w", table, id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

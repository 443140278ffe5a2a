// Package cache is the persistent local snapshot of every collection. Each
// collection is one JSON document stored under a namespaced key.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/krasavchik01/rbbb-sub002/internal/metrics"
	"go.uber.org/zap"
)

// Collection keys
const (
	KeyEmployees     = "employees"
	KeyCompanies     = "companies"
	KeyProjects      = "projects_v3"
	KeyTasks         = "tasks"
	KeyTimesheets    = "timesheets"
	KeyBonuses       = "bonuses"
	KeyNotifications = "notifications"
	KeyTemplates     = "templates"
	KeyEvaluations   = "evaluations"
	KeyProjectFiles  = "project_files"
)

// ProjectDataKey is the key of one project's methodology data
func ProjectDataKey(projectID string) string {
	return "project_data:" + projectID
}

// DefaultMaxDocumentBytes mirrors the per-origin quota of browser storage
const DefaultMaxDocumentBytes = 5 * 1024 * 1024

var (
	// ErrQuotaExceeded is returned when a document is larger than the configured limit
	ErrQuotaExceeded = errors.New("cache document exceeds quota")
)

// Backend stores string documents by key
type Backend interface {
	// Read returns the document and whether it exists
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key, value string) error
	Close() error
}

// Options configures a Cache
type Options struct {
	Namespace        string
	MaxDocumentBytes int
}

// Cache serializes typed collections into backend documents
type Cache struct {
	backend   Backend
	namespace string
	maxBytes  int
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// New creates a cache over backend. m may be nil.
func New(backend Backend, opts Options, logger *zap.Logger, m *metrics.Metrics) *Cache {
	maxBytes := opts.MaxDocumentBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}
	return &Cache{
		backend:   backend,
		namespace: opts.Namespace,
		maxBytes:  maxBytes,
		logger:    logger,
		metrics:   m,
	}
}

func (c *Cache) fullKey(key string) string {
	if c.namespace == "" {
		return key
	}
	return c.namespace + ":" + key
}

// Close releases the backend
func (c *Cache) Close() error {
	return c.backend.Close()
}

// Ping checks that the backend answers reads
func (c *Cache) Ping(ctx context.Context) error {
	if _, _, err := c.backend.Read(ctx, c.fullKey("health")); err != nil {
		return fmt.Errorf("cache backend unavailable: %w", err)
	}
	return nil
}

// readDoc decodes the document under key into dest. A missing key reports
// false with no error.
func (c *Cache) readDoc(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok, err := c.backend.Read(ctx, c.fullKey(key))
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) writeDoc(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if len(raw) > c.maxBytes {
		return fmt.Errorf("%s is %d bytes: %w", key, len(raw), ErrQuotaExceeded)
	}
	if err := c.backend.Write(ctx, c.fullKey(key), string(raw)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	c.metrics.CacheWrite(key, len(raw))
	return nil
}

func (c *Cache) readFault(key string, err error) {
	c.metrics.CacheFault(key, "read")
	c.logger.Warn("Local cache read failed, using empty snapshot",
		zap.String("key", key),
		zap.Error(err),
	)
}

func (c *Cache) writeFault(key string, err error) {
	c.metrics.CacheFault(key, "write")
	c.logger.Error("Local cache write failed",
		zap.String("key", key),
		zap.Error(err),
	)
}

// Load returns the collection stored under key. Missing keys, corrupt
// documents and backend errors all yield an empty, non-nil slice.
func Load[T any](ctx context.Context, c *Cache, key string) []T {
	var items []T
	if _, err := c.readDoc(ctx, key, &items); err != nil {
		c.readFault(key, err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Save replaces the collection stored under key
func Save[T any](ctx context.Context, c *Cache, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	if err := c.writeDoc(ctx, key, items); err != nil {
		c.writeFault(key, err)
		return err
	}
	return nil
}

// LoadDocument reads a single document stored under key. The boolean is
// false when the document is missing or unreadable.
func LoadDocument[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var doc T
	ok, err := c.readDoc(ctx, key, &doc)
	if err != nil {
		c.readFault(key, err)
		var zero T
		return zero, false
	}
	return doc, ok
}

// SaveDocument writes a single document under key
func SaveDocument[T any](ctx context.Context, c *Cache, key string, doc T) error {
	if err := c.writeDoc(ctx, key, doc); err != nil {
		c.writeFault(key, err)
		return err
	}
	return nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one stored cache entry
type Document struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (Document) TableName() string {
	return "cache_documents"
}

// SQLiteBackend stores documents in a gorm-managed table, normally sqlite
type SQLiteBackend struct {
	db *gorm.DB
}

// NewSQLiteBackend migrates the documents table and returns the backend
func NewSQLiteBackend(db *gorm.DB) (*SQLiteBackend, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache table: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Read returns the document stored under key
func (b *SQLiteBackend) Read(ctx context.Context, key string) (string, bool, error) {
	var doc Document
	err := b.db.WithContext(ctx).Where("key = ?", key).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return doc.Value, true, nil
}

// Write upserts the document stored under key
func (b *SQLiteBackend) Write(ctx context.Context, key, value string) error {
	doc := Document{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&doc).Error
}

// Close closes the underlying connection pool
func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

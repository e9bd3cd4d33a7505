package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

// OpenSQL opens a gorm connection for driver "postgres" or "sqlite".
func OpenSQL(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
	return nil, fmt.Errorf("unsupported sql driver %q", driver)
}

// SQL keeps one row per key in kv_entries. Values must be JSON documents.
type SQL struct {
	DB *gorm.DB
}

// NewSQL migrates the kv_entries table and returns the store.
func NewSQL(db *gorm.DB) (*SQL, error) {
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return nil, err
	}
	return &SQL{DB: db}, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var e models.KVEntry
	err := s.DB.WithContext(ctx).Where("key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(e.Value), true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	if !json.Valid([]byte(value)) {
		return fmt.Errorf("%w: key %s", ErrNotJSON, key)
	}
	now := time.Now()
	e := models.KVEntry{
		Key:       key,
		Value:     datatypes.JSON(value),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *SQL) Remove(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Where("key = ?", key).Delete(&models.KVEntry{}).Error
}

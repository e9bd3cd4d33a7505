// internal/models/kv_entry.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry backs the SQL implementation of the key-value store.
type KVEntry struct {
	Key       string         `gorm:"type:varchar(120);primaryKey" json:"key"`
	Value     datatypes.JSON `json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

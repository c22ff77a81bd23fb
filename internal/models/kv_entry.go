package models

import "time"

// KVEntry is one persisted document in the SQL key/value table.
type KVEntry struct {
	Key       string    `gorm:"primarykey;column:storage_key;type:varchar(191)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

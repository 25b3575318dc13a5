package gorm

import "time"

// KVEntryModel is one persisted key.
type KVEntryModel struct {
	Key       string `gorm:"column:kv_key;primaryKey;size:191"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName sets the table name.
func (KVEntryModel) TableName() string {
	return "kv_entries"
}

// Package model defines the GORM persistence models for the local store.
package model

import "time"

// KeyValueModel mirrors the 'keyvalues' table. It holds small singleton
// values such as the bearer credential under well-known keys.
type KeyValueModel struct {
	Key       string `gorm:"type:varchar(64);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (KeyValueModel) TableName() string {
	return "keyvalues"
}

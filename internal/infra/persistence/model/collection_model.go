package model

import "time"

// CollectionEntryModel mirrors the 'collection_entries' table. One row is
// one product line inside a named collection ("cart_<owner>" or
// "wishlist_<owner>"). Position preserves insertion order across loads.
type CollectionEntryModel struct {
	CollectionKey string `gorm:"type:varchar(64);primaryKey"`
	ProductID     int64  `gorm:"primaryKey"`
	Position      int    `gorm:"not null"`
	Quantity      int    `gorm:"not null"`
	Name          string `gorm:"type:varchar(255)"`
	Price         string `gorm:"type:varchar(32)"`
	ImageURL      string `gorm:"type:text"`
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (CollectionEntryModel) TableName() string {
	return "collection_entries"
}

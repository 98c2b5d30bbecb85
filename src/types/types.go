package types

import "time"

// Settings
type Setting struct {
	ID    uint8  `gorm:"primaryKey"`
	Name  string `gorm:"size:64;unique;not null"`
	Value string `gorm:"size:256;not null"`
}

// Audit trail of moderator decisions
type ReviewLog struct {
	ID         uint64 `gorm:"primaryKey"`
	RowIndex   int    `gorm:"index;not null"`
	Moderator  string `gorm:"size:64;not null"`
	Approved   bool   `gorm:"default:false"`
	SequenceID int    `gorm:"default:0"`
	PublishAt  *time.Time
	CreatedAt  time.Time
}

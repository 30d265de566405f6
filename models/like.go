package models

import "time"

// Like records a user -> message endorsement.
type Like struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	MessageID uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

// TableName overrides the table name used by GORM
func (Like) TableName() string {
	return "likes"
}

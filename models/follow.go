package models

import "time"

// Follow records a directed follower -> followed edge. The composite primary
// key keeps the pair unique.
type Follow struct {
	FollowerID uint `gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time
}

// TableName overrides the table name used by GORM
func (Follow) TableName() string {
	return "follows"
}

package models

import "time"

// DeleteLog records every archived search that was physically purged, so
// the dashboard can explain why a file is gone.
type DeleteLog struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SearchID  string     `gorm:"type:varchar(64);not null;index" json:"search_id"`
	Kind      SearchKind `gorm:"type:varchar(20);not null" json:"kind"`
	File      string     `gorm:"type:varchar(255);not null" json:"file"`
	ExpiredAt time.Time  `gorm:"not null" json:"expired_at"`
	DeletedAt time.Time  `gorm:"not null;autoCreateTime;index" json:"deleted_at"`
	Reason    string     `gorm:"type:varchar(50);not null" json:"reason"`
}

// TableName specifies the table name
func (DeleteLog) TableName() string {
	return "delete_logs"
}

// DeleteReason constants
const (
	DeleteReasonExpired = "ttl_expired"
	DeleteReasonManual  = "manual_deletion"
	DeleteReasonOrphan  = "orphaned_file"
)

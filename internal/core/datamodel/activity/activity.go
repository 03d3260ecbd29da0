package activity

import "time"

// ActivityLog is append-only; nothing in the service reads it back except
// the HR listing endpoint.
type ActivityLog struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null"`
	Action    string    `gorm:"column:action;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

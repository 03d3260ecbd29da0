package balance

import "time"

// LeaveBalance is the per-(user, leave type) grant state. available days are
// always derived as total - used, never stored.
type LeaveBalance struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;uniqueIndex:idx_balance_user_type"`
	LeaveTypeID int64     `gorm:"column:leave_type_id;not null;uniqueIndex:idx_balance_user_type"`
	TotalDays   int       `gorm:"column:total_days;not null"`
	UsedDays    int       `gorm:"column:used_days;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (LeaveBalance) TableName() string { return "leave_balances" }

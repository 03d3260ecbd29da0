package leave

import "time"

// LeaveApplication carries the manager by value as captured at submission
// time; the applicant's manager may change afterwards without affecting
// in-flight requests.
type LeaveApplication struct {
	ID             int64      `gorm:"primaryKey"`
	UserID         int64      `gorm:"column:user_id;not null"`
	ManagerID      *int64     `gorm:"column:manager_id"`
	LeaveTypeID    int64      `gorm:"column:leave_type_id;not null"`
	StartDate      time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate        time.Time  `gorm:"column:end_date;type:date;not null"`
	Reason         string     `gorm:"column:reason;not null"`
	Status         string     `gorm:"column:status;not null;default:pending"`
	ManagerRemarks *string    `gorm:"column:manager_remarks"`
	AppliedAt      time.Time  `gorm:"column:applied_at;default:now()"`
	DecidedAt      *time.Time `gorm:"column:decided_at"`
}

func (LeaveApplication) TableName() string { return "leave_applications" }

package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is a leave request as the rest of the service sees it, with
// the applicant and type names joined in for listings.
type Application struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	UserName       string     `json:"user_name,omitempty"`
	ManagerID      *int64     `json:"manager_id,omitempty"`
	LeaveTypeID    int64      `json:"leave_type_id"`
	LeaveTypeName  string     `json:"leave_type_name,omitempty"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Days           int        `json:"days"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	ManagerRemarks *string    `json:"manager_remarks,omitempty"`
	AppliedAt      time.Time  `json:"applied_at"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
}

// DaysInclusive counts calendar days with both endpoints included, so a
// single-day request costs one day. Dates are date-only values.
func DaysInclusive(start, end time.Time) int {
	diff := end.Sub(start)
	return int(diff.Hours()/24) + 1
}

// Overlaps reports whether an existing inclusive range shares at least one
// day with a requested one: the existing range covers the requested start,
// covers the requested end, or sits fully inside the request.
func Overlaps(existingStart, existingEnd, newStart, newEnd time.Time) bool {
	coversStart := !existingStart.After(newStart) && !existingEnd.Before(newStart)
	coversEnd := !existingStart.After(newEnd) && !existingEnd.Before(newEnd)
	contained := !newStart.After(existingStart) && !newEnd.Before(existingEnd)
	return coversStart || coversEnd || contained
}

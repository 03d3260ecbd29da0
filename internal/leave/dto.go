package leave

import (
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

const dateLayout = "2006-01-02"

type SubmitLeaveDTO struct {
	LeaveTypeID int64  `json:"leave_type_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`

	start time.Time
	end   time.Time
}

func (d *SubmitLeaveDTO) Validate() error {
	d.Reason = strings.TrimSpace(d.Reason)

	if d.LeaveTypeID <= 0 || d.StartDate == "" || d.EndDate == "" || d.Reason == "" {
		return internal.NewValidationError("leave type, dates and reason are required", internal.ErrCodeMissingFields)
	}

	start, err := time.Parse(dateLayout, d.StartDate)
	if err != nil {
		return internal.NewValidationError("start_date must be YYYY-MM-DD", internal.ErrCodeInvalidDateRange)
	}
	end, err := time.Parse(dateLayout, d.EndDate)
	if err != nil {
		return internal.NewValidationError("end_date must be YYYY-MM-DD", internal.ErrCodeInvalidDateRange)
	}
	if end.Before(start) {
		return internal.NewValidationError("end date cannot be before start date", internal.ErrCodeInvalidDateRange)
	}

	d.start = start
	d.end = end
	return nil
}

// Start returns the parsed start date; valid only after Validate.
func (d *SubmitLeaveDTO) Start() time.Time { return d.start }

// End returns the parsed end date; valid only after Validate.
func (d *SubmitLeaveDTO) End() time.Time { return d.end }

type DecideLeaveDTO struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

func (d *DecideLeaveDTO) Validate() error {
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
	if !IsValidStatus(d.Status) {
		return internal.NewValidationError("status must be pending, approved or rejected", internal.ErrCodeValidationFailed)
	}
	return nil
}

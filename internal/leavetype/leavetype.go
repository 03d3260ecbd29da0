package leavetype

import "time"

// LeaveType is a catalog entry together with its allocation rules.
type LeaveType struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	GenderRestriction string       `json:"gender_restriction"`
	Allocations       []Allocation `json:"allocations,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Allocation grants days per year to one (role, seniority) pair.
type Allocation struct {
	Role      string `json:"role"`
	Seniority string `json:"seniority"`
	Days      int    `json:"days"`
}

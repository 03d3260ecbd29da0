package leavetype

import (
	"strings"

	"github.com/frahmantamala/leave-management/internal"
)

type AllocationDTO struct {
	Role      string `json:"role"`
	Seniority string `json:"seniority"`
	Days      int    `json:"days"`
}

type CreateLeaveTypeDTO struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Allocations []AllocationDTO `json:"allocations"`
}

func (d *CreateLeaveTypeDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return internal.NewValidationError("leave type name is required", internal.ErrCodeMissingFields)
	}
	return validateAllocations(d.Allocations)
}

type UpdateLeaveTypeDTO struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Allocations []AllocationDTO `json:"allocations"`
}

func (d *UpdateLeaveTypeDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return internal.NewValidationError("leave type name is required", internal.ErrCodeMissingFields)
	}
	return validateAllocations(d.Allocations)
}

func validateAllocations(allocations []AllocationDTO) error {
	seen := make(map[string]bool, len(allocations))
	for _, a := range allocations {
		if !internal.IsValidRole(a.Role) {
			return internal.NewValidationError("allocation role must be employee, manager or hr", internal.ErrCodeValidationFailed)
		}
		if !internal.IsValidSeniority(a.Seniority) {
			return internal.NewValidationError("allocation seniority must be junior, mid, senior or lead", internal.ErrCodeValidationFailed)
		}
		if a.Days < 0 {
			return internal.NewValidationError("allocation days cannot be negative", internal.ErrCodeValidationFailed)
		}
		key := a.Role + "/" + a.Seniority
		if seen[key] {
			return internal.NewValidationError("duplicate allocation for "+key, internal.ErrCodeValidationFailed)
		}
		seen[key] = true
	}
	return nil
}

package leavetype

import (
	"strings"
	"time"
)

// Gender restrictions a leave type can carry. The restriction is stored
// explicitly but kept in sync with the type name on create and rename, so
// "Maternity Leave" behaves the same whether matched by enum or by name.
const (
	RestrictionNone       = "none"
	RestrictionFemaleOnly = "female_only"
	RestrictionMaleOnly   = "male_only"
)

// InferGenderRestriction derives the restriction from the type name using
// case-insensitive substring match.
func InferGenderRestriction(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "maternity"):
		return RestrictionFemaleOnly
	case strings.Contains(lower, "paternity"):
		return RestrictionMaleOnly
	default:
		return RestrictionNone
	}
}

// EligibleForGender reports whether a user of the given gender may hold a
// balance for a type with the given restriction. Genders outside the two
// restricted ones are only excluded by explicit restrictions.
func EligibleForGender(restriction, gender string) bool {
	switch restriction {
	case RestrictionFemaleOnly:
		return gender == "female"
	case RestrictionMaleOnly:
		return gender == "male"
	default:
		return true
	}
}

type LeaveType struct {
	ID                int64     `gorm:"primaryKey"`
	Name              string    `gorm:"column:name;uniqueIndex;not null"`
	Description       string    `gorm:"column:description"`
	GenderRestriction string    `gorm:"column:gender_restriction;not null;default:none"`
	CreatedAt         time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt         time.Time `gorm:"column:updated_at;default:now()"`
}

// LeaveAllocation maps (leave type, role, seniority) to the annual grant in
// days. At most one row per triple.
type LeaveAllocation struct {
	ID          int64  `gorm:"primaryKey"`
	LeaveTypeID int64  `gorm:"column:leave_type_id;not null;uniqueIndex:idx_alloc_type_role_seniority"`
	Role        string `gorm:"column:role;not null;uniqueIndex:idx_alloc_type_role_seniority"`
	Seniority   string `gorm:"column:seniority;not null;uniqueIndex:idx_alloc_type_role_seniority"`
	Days        int    `gorm:"column:days;not null"`
}

func (LeaveType) TableName() string       { return "leave_types" }
func (LeaveAllocation) TableName() string { return "leave_allocations" }

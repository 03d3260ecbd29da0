package user

import (
	"strings"

	"github.com/frahmantamala/leave-management/internal"
)

type CreateUserDTO struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Seniority   string `json:"seniority"`
	Gender      string `json:"gender"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
	ManagerID   *int64 `json:"manager_id"`
}

func (d *CreateUserDTO) Validate() error {
	var errs internal.ValidationErrors

	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))

	if d.Name == "" {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "name", Message: "name is required", Code: "required"})
	}
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "email", Message: "a valid email is required", Code: "invalid"})
	}
	if len(d.Password) < 8 {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "password", Message: "password must be at least 8 characters", Code: "too_short"})
	}
	if d.Role == "" {
		d.Role = internal.RoleEmployee
	}
	if !internal.IsValidRole(d.Role) {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "role", Message: "role must be employee, manager or hr", Code: "invalid"})
	}
	if d.Seniority == "" {
		d.Seniority = internal.SeniorityJunior
	}
	if !internal.IsValidSeniority(d.Seniority) {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "seniority", Message: "seniority must be junior, mid, senior or lead", Code: "invalid"})
	}
	if !internal.IsValidGender(d.Gender) {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "gender", Message: "gender must be male, female or other", Code: "invalid"})
	}

	if len(errs.Errors) > 0 {
		return internal.NewValidationError(errs.Join(), internal.ErrCodeValidationFailed).WithDetails(errs.Errors)
	}
	return nil
}

type UpdateUserDTO struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Seniority   string `json:"seniority"`
	Gender      string `json:"gender"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
	ManagerID   *int64 `json:"manager_id"`
	IsActive    *bool  `json:"is_active"`
}

func (d *UpdateUserDTO) Validate() error {
	var errs internal.ValidationErrors

	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))

	if d.Name == "" {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "name", Message: "name is required", Code: "required"})
	}
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "email", Message: "a valid email is required", Code: "invalid"})
	}
	if !internal.IsValidRole(d.Role) {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "role", Message: "role must be employee, manager or hr", Code: "invalid"})
	}
	if !internal.IsValidSeniority(d.Seniority) {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "seniority", Message: "seniority must be junior, mid, senior or lead", Code: "invalid"})
	}
	if !internal.IsValidGender(d.Gender) {
		errs.Errors = append(errs.Errors, internal.ValidationError{Field: "gender", Message: "gender must be male, female or other", Code: "invalid"})
	}

	if len(errs.Errors) > 0 {
		return internal.NewValidationError(errs.Join(), internal.ErrCodeValidationFailed).WithDetails(errs.Errors)
	}
	return nil
}

// UpdateProfileDTO is the self-service subset: profile edits never touch
// role, seniority, gender or manager.
type UpdateProfileDTO struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

func (d *UpdateProfileDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))

	if d.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeMissingFields)
	}
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return internal.NewValidationError("a valid email is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

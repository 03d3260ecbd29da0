package user

import "time"

// User is the employee record as the rest of the service sees it; the
// password hash never leaves the repository layer.
type User struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Seniority   string    `json:"seniority"`
	Gender      string    `json:"gender"`
	Department  string    `json:"department,omitempty"`
	Designation string    `json:"designation,omitempty"`
	ManagerID   *int64    `json:"manager_id,omitempty"`
	ManagerName string    `json:"manager_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

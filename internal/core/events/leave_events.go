package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserCreated    = "user.created"
	EventTypeLeaveSubmitted = "leave.submitted"
	EventTypeLeaveDecided   = "leave.decided"
)

// UserCreatedEvent is published after an account and its leave balances are
// persisted. The plaintext initial password rides along exactly once so the
// welcome mail can include it; it is never stored.
type UserCreatedEvent struct {
	BaseEvent
	UserID          int64  `json:"user_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	InitialPassword string `json:"-"`
}

func NewUserCreatedEvent(userID int64, name, email, role, initialPassword string) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"email":   email,
				"role":    role,
			},
		},
		UserID:          userID,
		Name:            name,
		Email:           email,
		Role:            role,
		InitialPassword: initialPassword,
	}
}

type LeaveSubmittedEvent struct {
	BaseEvent
	ApplicationID int64     `json:"application_id"`
	EmployeeID    int64     `json:"employee_id"`
	EmployeeName  string    `json:"employee_name"`
	ManagerID     *int64    `json:"manager_id,omitempty"`
	LeaveType     string    `json:"leave_type"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Reason        string    `json:"reason"`
	Days          int       `json:"days"`
}

func NewLeaveSubmittedEvent(applicationID, employeeID int64, employeeName string, managerID *int64, leaveType string, startDate, endDate time.Time, reason string, days int) *LeaveSubmittedEvent {
	return &LeaveSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"application_id": applicationID,
				"employee_id":    employeeID,
				"leave_type":     leaveType,
				"days":           days,
			},
		},
		ApplicationID: applicationID,
		EmployeeID:    employeeID,
		EmployeeName:  employeeName,
		ManagerID:     managerID,
		LeaveType:     leaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		Reason:        reason,
		Days:          days,
	}
}

type LeaveDecidedEvent struct {
	BaseEvent
	ApplicationID int64     `json:"application_id"`
	EmployeeID    int64     `json:"employee_id"`
	DeciderID     int64     `json:"decider_id"`
	DeciderName   string    `json:"decider_name"`
	LeaveType     string    `json:"leave_type"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Status        string    `json:"status"`
	Remarks       string    `json:"remarks"`
}

func NewLeaveDecidedEvent(applicationID, employeeID, deciderID int64, deciderName, leaveType string, startDate, endDate time.Time, status, remarks string) *LeaveDecidedEvent {
	return &LeaveDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveDecided,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"application_id": applicationID,
				"employee_id":    employeeID,
				"decider_id":     deciderID,
				"status":         status,
			},
		},
		ApplicationID: applicationID,
		EmployeeID:    employeeID,
		DeciderID:     deciderID,
		DeciderName:   deciderName,
		LeaveType:     leaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		Status:        status,
		Remarks:       remarks,
	}
}

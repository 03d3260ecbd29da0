package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/core/events"
)

type Repository interface {
	Create(app *Application) error
	GetByID(id int64) (*Application, error)
	// HasOverlap reports whether the user holds a pending or approved
	// application sharing at least one day with the range.
	HasOverlap(userID int64, start, end time.Time) (bool, error)
	UpdateDecision(id int64, status string, remarks *string, decidedAt time.Time) error
	GetByUserID(userID int64) ([]*Application, error)
	GetByManagerID(managerID int64) ([]*Application, error)
	GetAll() ([]*Application, error)
	GetTypeName(leaveTypeID int64) (string, error)
	CountByStatusForUser(userID int64) (map[string]int, error)
	CountPendingForManager(managerID int64) (int, error)
	RecentForUser(userID int64, limit int) ([]*Application, error)
}

// BalanceLedger is the slice of the balance engine the workflow needs.
type BalanceLedger interface {
	Available(userID, leaveTypeID int64) (total, used int, err error)
	ConsumeDays(userID, leaveTypeID int64, days int) error
	RestoreDays(userID, leaveTypeID int64, days int) error
	BalancesForUser(userID int64) ([]balance.Balance, error)
}

type ActivityRecorder interface {
	Record(userID int64, action string)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Applicant is the submitting identity with the manager captured for
// denormalization.
type Applicant struct {
	ID        int64
	Name      string
	ManagerID *int64
}

type Service struct {
	repo     Repository
	balances BalanceLedger
	activity ActivityRecorder
	eventBus EventPublisher
	logger   *slog.Logger
}

func NewService(repo Repository, balances BalanceLedger, activity ActivityRecorder, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		balances: balances,
		activity: activity,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Submit validates and stores a new leave request in pending state. Pending
// requests do not consume balance; availability is only checked here.
func (s *Service) Submit(ctx context.Context, applicant Applicant, dto SubmitLeaveDTO) (*Application, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	typeName, err := s.repo.GetTypeName(dto.LeaveTypeID)
	if err != nil {
		return nil, err
	}

	days := DaysInclusive(dto.Start(), dto.End())
	if days <= 0 {
		return nil, internal.NewValidationError("leave must cover at least one day", internal.ErrCodeInvalidDateRange)
	}

	total, used, err := s.balances.Available(applicant.ID, dto.LeaveTypeID)
	if err != nil {
		return nil, err
	}
	if available := total - used; days > available {
		return nil, internal.ErrInsufficientBalance.WithMessage(
			"insufficient balance: you have %d days of %s available", available, typeName)
	}

	overlap, err := s.repo.HasOverlap(applicant.ID, dto.Start(), dto.End())
	if err != nil {
		return nil, internal.NewInternalError("failed to check overlapping leaves", err)
	}
	if overlap {
		return nil, internal.ErrLeaveOverlap
	}

	app := &Application{
		UserID:      applicant.ID,
		ManagerID:   applicant.ManagerID,
		LeaveTypeID: dto.LeaveTypeID,
		StartDate:   dto.Start(),
		EndDate:     dto.End(),
		Days:        days,
		Reason:      dto.Reason,
		Status:      StatusPending,
	}
	if err := s.repo.Create(app); err != nil {
		s.logger.Error("failed to create leave application", "error", err, "user_id", applicant.ID)
		return nil, internal.NewInternalError("failed to submit leave request", err)
	}
	app.LeaveTypeName = typeName
	app.UserName = applicant.Name

	s.activity.Record(applicant.ID, fmt.Sprintf("applied for %s (%s to %s)", typeName, dto.StartDate, dto.EndDate))
	s.eventBus.Publish(ctx, events.NewLeaveSubmittedEvent(
		app.ID, applicant.ID, applicant.Name, applicant.ManagerID,
		typeName, app.StartDate, app.EndDate, app.Reason, days))

	s.logger.Info("leave submitted", "application_id", app.ID, "user_id", applicant.ID, "days", days)
	return app, nil
}

// Decide runs the decision state machine. Managers may decide their own
// reports' pending requests exactly once; HR may re-decide any request, with
// balance compensation kept symmetric on every transition in or out of
// approved.
func (s *Service) Decide(ctx context.Context, actor internal.Actor, applicationID int64, dto DecideLeaveDTO) (*Application, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	app, err := s.repo.GetByID(applicationID)
	if err != nil {
		return nil, err
	}

	allowRedecide := actor.IsHR()
	if !allowRedecide {
		if app.ManagerID == nil || *app.ManagerID != actor.ID {
			return nil, internal.ErrNotYourReport
		}
		if app.Status != StatusPending {
			return nil, internal.ErrAlreadyDecided
		}
		if dto.Status == StatusPending {
			return nil, internal.NewValidationError("status must be approved or rejected", internal.ErrCodeValidationFailed)
		}
	} else if app.Status == dto.Status {
		return nil, internal.ErrAlreadyDecided
	}

	days := DaysInclusive(app.StartDate, app.EndDate)

	// Compensation is symmetric: entering approved consumes days, leaving
	// approved restores them.
	if dto.Status == StatusApproved && app.Status != StatusApproved {
		if err := s.balances.ConsumeDays(app.UserID, app.LeaveTypeID, days); err != nil {
			return nil, err
		}
	}
	if app.Status == StatusApproved && dto.Status != StatusApproved {
		if err := s.balances.RestoreDays(app.UserID, app.LeaveTypeID, days); err != nil {
			return nil, internal.NewInternalError("failed to restore leave balance", err)
		}
	}

	var remarks *string
	if dto.Remarks != "" {
		remarks = &dto.Remarks
	}
	decidedAt := time.Now()
	if err := s.repo.UpdateDecision(applicationID, dto.Status, remarks, decidedAt); err != nil {
		s.logger.Error("failed to store decision", "error", err, "application_id", applicationID)
		return nil, internal.NewInternalError("failed to update leave request", err)
	}

	s.activity.Record(actor.ID, fmt.Sprintf("marked leave request #%d as %s", applicationID, dto.Status))
	s.eventBus.Publish(ctx, events.NewLeaveDecidedEvent(
		app.ID, app.UserID, actor.ID, actor.Name,
		app.LeaveTypeName, app.StartDate, app.EndDate, dto.Status, dto.Remarks))

	app.Status = dto.Status
	app.ManagerRemarks = remarks
	app.DecidedAt = &decidedAt
	s.logger.Info("leave decided", "application_id", app.ID, "status", dto.Status, "decider_id", actor.ID)
	return app, nil
}

// History lists the user's own applications, newest first.
func (s *Service) History(userID int64) ([]*Application, error) {
	return s.repo.GetByUserID(userID)
}

// TeamRequests lists applications routed to the manager.
func (s *Service) TeamRequests(managerID int64) ([]*Application, error) {
	return s.repo.GetByManagerID(managerID)
}

// AllRequests lists every application; reserved for HR views and reports.
func (s *Service) AllRequests() ([]*Application, error) {
	return s.repo.GetAll()
}

func (s *Service) Balances(userID int64) ([]balance.Balance, error) {
	return s.balances.BalancesForUser(userID)
}

// DashboardSummary aggregates what the landing view shows an employee.
type DashboardSummary struct {
	Balances       []balance.Balance `json:"balances"`
	PendingCount   int              `json:"pending_count"`
	ApprovedCount  int              `json:"approved_count"`
	RejectedCount  int              `json:"rejected_count"`
	TeamPending    int              `json:"team_pending,omitempty"`
	RecentRequests []*Application   `json:"recent_requests"`
}

func (s *Service) Dashboard(actor internal.Actor) (*DashboardSummary, error) {
	balances, err := s.balances.BalancesForUser(actor.ID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatusForUser(actor.ID)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.RecentForUser(actor.ID, 5)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Balances:       balances,
		PendingCount:   counts[StatusPending],
		ApprovedCount:  counts[StatusApproved],
		RejectedCount:  counts[StatusRejected],
		RecentRequests: recent,
	}

	if actor.IsManager() || actor.IsHR() {
		teamPending, err := s.repo.CountPendingForManager(actor.ID)
		if err != nil {
			return nil, err
		}
		summary.TeamPending = teamPending
	}

	return summary, nil
}

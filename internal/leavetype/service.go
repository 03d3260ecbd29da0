package leavetype

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	leavetypedm "github.com/frahmantamala/leave-management/internal/core/datamodel/leavetype"
)

type Repository interface {
	GetAll() ([]*LeaveType, error)
	GetByID(id int64) (*LeaveType, error)
	GetByName(name string) (*LeaveType, error)
	// Create stores the type with its allocation rows in one transaction.
	Create(t *LeaveType) error
	// Update rewrites the type row and replaces its allocation rows in one
	// transaction.
	Update(t *LeaveType) error
	Delete(id int64) error
	// InUse reports whether any leave application references the type.
	InUse(id int64) (bool, error)
}

// CatalogReconciler is the slice of the balance engine the catalog needs.
type CatalogReconciler interface {
	InitializeForType(t balance.TypeInfo, allocations []balance.Allocation) error
	ReconcileCatalog(leaveTypeID int64) error
	RemoveBalancesForType(leaveTypeID int64) error
}

type ActivityRecorder interface {
	Record(userID int64, action string)
}

type Service struct {
	repo     Repository
	balances CatalogReconciler
	activity ActivityRecorder
	logger   *slog.Logger
}

func NewService(repo Repository, balances CatalogReconciler, activity ActivityRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		balances: balances,
		activity: activity,
		logger:   logger,
	}
}

func (s *Service) ListTypes() ([]*LeaveType, error) {
	return s.repo.GetAll()
}

func (s *Service) GetType(id int64) (*LeaveType, error) {
	return s.repo.GetByID(id)
}

// CreateType adds a catalog entry and fans its allocations out to every
// matching user. The gender restriction is inferred from the name.
func (s *Service) CreateType(actorID int64, dto CreateLeaveTypeDTO) (*LeaveType, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByName(dto.Name); err == nil && existing != nil {
		return nil, internal.ErrLeaveTypeExists
	}

	t := &LeaveType{
		Name:              dto.Name,
		Description:       dto.Description,
		GenderRestriction: leavetypedm.InferGenderRestriction(dto.Name),
		Allocations:       toAllocations(dto.Allocations),
	}

	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create leave type", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create leave type", err)
	}

	if err := s.balances.InitializeForType(typeInfo(t), allocationRows(t)); err != nil {
		s.logger.Error("failed to fan out balances for new type", "error", err, "leave_type_id", t.ID)
		return nil, internal.NewInternalError("leave type created but balance fan-out failed", err)
	}

	s.activity.Record(actorID, fmt.Sprintf("created leave type %s", t.Name))
	s.logger.Info("leave type created", "leave_type_id", t.ID, "restriction", t.GenderRestriction)
	return t, nil
}

// UpdateType rewrites a catalog entry. A rename re-infers the gender
// restriction, and changed allocations are re-derived into user balances.
func (s *Service) UpdateType(actorID, id int64, dto UpdateLeaveTypeDTO) (*LeaveType, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != current.Name {
		if existing, err := s.repo.GetByName(dto.Name); err == nil && existing != nil {
			return nil, internal.ErrLeaveTypeExists
		}
	}

	current.Name = dto.Name
	current.Description = dto.Description
	current.GenderRestriction = leavetypedm.InferGenderRestriction(dto.Name)
	current.Allocations = toAllocations(dto.Allocations)

	if err := s.repo.Update(current); err != nil {
		s.logger.Error("failed to update leave type", "error", err, "leave_type_id", id)
		return nil, internal.NewInternalError("failed to update leave type", err)
	}

	if err := s.balances.ReconcileCatalog(id); err != nil {
		s.logger.Error("failed to reconcile balances for type", "error", err, "leave_type_id", id)
		return nil, internal.NewInternalError("leave type updated but balance reconciliation failed", err)
	}

	s.activity.Record(actorID, fmt.Sprintf("updated leave type %s", current.Name))
	return current, nil
}

// DeleteType removes a catalog entry and its balances. Deletion is refused
// while any leave application still references the type.
func (s *Service) DeleteType(actorID, id int64) error {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	inUse, err := s.repo.InUse(id)
	if err != nil {
		return internal.NewInternalError("failed to check leave type usage", err)
	}
	if inUse {
		return internal.ErrLeaveTypeInUse
	}

	if err := s.balances.RemoveBalancesForType(id); err != nil {
		return internal.NewInternalError("failed to remove balances for leave type", err)
	}
	if err := s.repo.Delete(id); err != nil {
		return internal.NewInternalError("failed to delete leave type", err)
	}

	s.activity.Record(actorID, fmt.Sprintf("deleted leave type %s", t.Name))
	return nil
}

func toAllocations(dtos []AllocationDTO) []Allocation {
	out := make([]Allocation, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, Allocation{Role: d.Role, Seniority: d.Seniority, Days: d.Days})
	}
	return out
}

func typeInfo(t *LeaveType) balance.TypeInfo {
	return balance.TypeInfo{ID: t.ID, Name: t.Name, GenderRestriction: t.GenderRestriction}
}

func allocationRows(t *LeaveType) []balance.Allocation {
	out := make([]balance.Allocation, 0, len(t.Allocations))
	for _, a := range t.Allocations {
		out = append(out, balance.Allocation{
			LeaveTypeID: t.ID,
			Role:        a.Role,
			Seniority:   a.Seniority,
			Days:        a.Days,
		})
	}
	return out
}

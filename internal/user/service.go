package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/core/events"
)

type Repository interface {
	Create(u *User, passwordHash string) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetAll() ([]*User, error)
	Update(u *User) error
	UpdateProfile(id int64, name, email, department, designation string) error
	// Delete removes the user together with their balances and leave
	// applications in one transaction.
	Delete(id int64) error
	Managers() ([]*User, error)
	// SyncRolePermissions replaces the user's permission rows with the
	// grant set of the given role.
	SyncRolePermissions(userID int64, permissions []string) error
}

// BalanceProvisioner is the slice of the balance engine user provisioning
// needs.
type BalanceProvisioner interface {
	Initialize(userID int64, role, seniority, gender string) error
	Reconcile(userID int64, newRole, newSeniority, newGender string) error
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type ActivityRecorder interface {
	Record(userID int64, action string)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo     Repository
	balances BalanceProvisioner
	hasher   PasswordHasher
	activity ActivityRecorder
	eventBus EventPublisher
	logger   *slog.Logger
}

func NewService(repo Repository, balances BalanceProvisioner, hasher PasswordHasher, activity ActivityRecorder, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		balances: balances,
		hasher:   hasher,
		activity: activity,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateUser provisions an account and derives its leave balances. The user
// row is committed first; a balance derivation failure is surfaced but does
// not roll the account back.
func (s *Service) CreateUser(ctx context.Context, actorID int64, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.ErrEmailTaken
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:        dto.Name,
		Email:       dto.Email,
		Role:        dto.Role,
		Seniority:   dto.Seniority,
		Gender:      dto.Gender,
		Department:  dto.Department,
		Designation: dto.Designation,
		ManagerID:   dto.ManagerID,
		IsActive:    true,
	}

	if err := s.repo.Create(u, hash); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	if err := s.repo.SyncRolePermissions(u.ID, auth.PermissionsForRole(u.Role)); err != nil {
		s.logger.Error("failed to grant permissions", "error", err, "user_id", u.ID)
		return nil, internal.NewInternalError("user created but permission grant failed", err)
	}

	if err := s.balances.Initialize(u.ID, u.Role, u.Seniority, u.Gender); err != nil {
		s.logger.Error("failed to initialize balances", "error", err, "user_id", u.ID)
		return nil, internal.NewInternalError("user created but balance initialization failed", err)
	}

	s.activity.Record(actorID, fmt.Sprintf("created employee %s (%s)", u.Name, u.Email))
	s.eventBus.Publish(ctx, events.NewUserCreatedEvent(u.ID, u.Name, u.Email, u.Role, dto.Password))

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// UpdateUser applies an HR edit. When role, seniority or gender changed the
// balances are re-derived; used days survive the reconciliation.
func (s *Service) UpdateUser(ctx context.Context, actorID, userID int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if dto.Email != current.Email {
		if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
			return nil, internal.ErrEmailTaken
		}
	}

	roleChanged := dto.Role != current.Role
	attrsChanged := roleChanged ||
		dto.Seniority != current.Seniority ||
		dto.Gender != current.Gender

	current.Name = dto.Name
	current.Email = dto.Email
	current.Role = dto.Role
	current.Seniority = dto.Seniority
	current.Gender = dto.Gender
	current.Department = dto.Department
	current.Designation = dto.Designation
	current.ManagerID = dto.ManagerID
	if dto.IsActive != nil {
		current.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(current); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	if roleChanged {
		if err := s.repo.SyncRolePermissions(userID, auth.PermissionsForRole(dto.Role)); err != nil {
			s.logger.Error("failed to sync permissions", "error", err, "user_id", userID)
			return nil, internal.NewInternalError("user updated but permission sync failed", err)
		}
	}

	if attrsChanged {
		if err := s.balances.Reconcile(userID, current.Role, current.Seniority, current.Gender); err != nil {
			s.logger.Error("failed to reconcile balances", "error", err, "user_id", userID)
			return nil, internal.NewInternalError("user updated but balance reconciliation failed", err)
		}
	}

	s.activity.Record(actorID, fmt.Sprintf("updated employee %s", current.Name))
	return current, nil
}

// DeleteUser removes the account and everything keyed to it.
func (s *Service) DeleteUser(actorID, userID int64) error {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(userID); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.activity.Record(actorID, fmt.Sprintf("deleted employee %s (%s)", u.Name, u.Email))
	s.logger.Info("user deleted", "user_id", userID)
	return nil
}

func (s *Service) GetUser(id int64) (*User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListUsers() ([]*User, error) {
	return s.repo.GetAll()
}

// ListManagers returns users who can be assigned as a manager.
func (s *Service) ListManagers() ([]*User, error) {
	return s.repo.Managers()
}

// UpdateProfile is the self-service edit; attribute fields stay untouched
// so no balance reconciliation can be triggered from here.
func (s *Service) UpdateProfile(userID int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if dto.Email != current.Email {
		if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
			return nil, internal.ErrEmailTaken
		}
	}

	if err := s.repo.UpdateProfile(userID, dto.Name, dto.Email, dto.Department, dto.Designation); err != nil {
		return nil, internal.NewInternalError("failed to update profile", err)
	}

	s.activity.Record(userID, "updated own profile")
	return s.repo.GetByID(userID)
}

package user_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// Mock repository for testing
type mockUserRepository struct {
	users       map[int64]*user.User
	usersByMail map[string]*user.User
	permissions map[int64][]string
	nextID      int64
	createError error
	deleteError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:       make(map[int64]*user.User),
		usersByMail: make(map[string]*user.User),
		permissions: make(map[int64][]string),
		nextID:      1,
	}
}

func (m *mockUserRepository) Create(u *user.User, passwordHash string) error {
	if m.createError != nil {
		return m.createError
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	m.usersByMail[u.Email] = u
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*user.User, error) {
	u, ok := m.usersByMail[email]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetAll() ([]*user.User, error) {
	out := make([]*user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) Update(u *user.User) error {
	stored, ok := m.users[u.ID]
	if !ok {
		return internal.ErrUserNotFound
	}
	delete(m.usersByMail, stored.Email)
	*stored = *u
	m.usersByMail[u.Email] = stored
	return nil
}

func (m *mockUserRepository) UpdateProfile(id int64, name, email, department, designation string) error {
	stored, ok := m.users[id]
	if !ok {
		return internal.ErrUserNotFound
	}
	delete(m.usersByMail, stored.Email)
	stored.Name = name
	stored.Email = email
	stored.Department = department
	stored.Designation = designation
	m.usersByMail[email] = stored
	return nil
}

func (m *mockUserRepository) Delete(id int64) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	u, ok := m.users[id]
	if !ok {
		return internal.ErrUserNotFound
	}
	delete(m.usersByMail, u.Email)
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) Managers() ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		if u.Role == internal.RoleManager || u.Role == internal.RoleHR {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) SyncRolePermissions(userID int64, permissions []string) error {
	m.permissions[userID] = permissions
	return nil
}

// Mock balance provisioner
type mockBalanceProvisioner struct {
	initialized     []int64
	reconciled      []int64
	initializeError error
	reconcileError  error
}

func (m *mockBalanceProvisioner) Initialize(userID int64, role, seniority, gender string) error {
	if m.initializeError != nil {
		return m.initializeError
	}
	m.initialized = append(m.initialized, userID)
	return nil
}

func (m *mockBalanceProvisioner) Reconcile(userID int64, newRole, newSeniority, newGender string) error {
	if m.reconcileError != nil {
		return m.reconcileError
	}
	m.reconciled = append(m.reconciled, userID)
	return nil
}

type mockHasher struct{}

func (mockHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

type mockActivity struct {
	actions []string
}

func (m *mockActivity) Record(userID int64, action string) {
	m.actions = append(m.actions, action)
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("UserService", func() {
	var (
		service   *user.Service
		mockRepo  *mockUserRepository
		balances  *mockBalanceProvisioner
		activity  *mockActivity
		publisher *mockPublisher
		logger    *slog.Logger
	)

	validDTO := func() user.CreateUserDTO {
		return user.CreateUserDTO{
			Name:      "Ana Silva",
			Email:     "ana@company.com",
			Password:  "secret123",
			Role:      "employee",
			Seniority: "junior",
			Gender:    "female",
		}
	}

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		balances = &mockBalanceProvisioner{}
		activity = &mockActivity{}
		publisher = &mockPublisher{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, balances, mockHasher{}, activity, publisher, logger)
	})

	Describe("CreateUser", func() {
		It("creates the user and derives balances", func() {
			created, err := service.CreateUser(context.Background(), 1, validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(balances.initialized).To(ContainElement(created.ID))
		})

		It("grants the role's permission set", func() {
			created, err := service.CreateUser(context.Background(), 1, validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.permissions[created.ID]).To(ContainElement("apply_leave"))
			Expect(mockRepo.permissions[created.ID]).ToNot(ContainElement("manage_users"))
		})

		It("publishes a user created event carrying the initial password", func() {
			_, err := service.CreateUser(context.Background(), 1, validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(publisher.published).To(HaveLen(1))
			evt, ok := publisher.published[0].(*events.UserCreatedEvent)
			Expect(ok).To(BeTrue())
			Expect(evt.InitialPassword).To(Equal("secret123"))
		})

		It("rejects a duplicate email", func() {
			_, err := service.CreateUser(context.Background(), 1, validDTO())
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CreateUser(context.Background(), 1, validDTO())

			Expect(err).To(MatchError(internal.ErrEmailTaken))
		})

		It("rejects an invalid gender", func() {
			dto := validDTO()
			dto.Gender = "unknown"

			_, err := service.CreateUser(context.Background(), 1, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("surfaces a balance initialization failure after the user is stored", func() {
			balances.initializeError = errors.New("allocation query failed")

			_, err := service.CreateUser(context.Background(), 1, validDTO())

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.users).To(HaveLen(1))
		})
	})

	Describe("UpdateUser", func() {
		var createdID int64

		BeforeEach(func() {
			created, err := service.CreateUser(context.Background(), 1, validDTO())
			Expect(err).ToNot(HaveOccurred())
			createdID = created.ID
		})

		It("reconciles balances when seniority changes", func() {
			dto := user.UpdateUserDTO{
				Name: "Ana Silva", Email: "ana@company.com",
				Role: "employee", Seniority: "senior", Gender: "female",
			}

			_, err := service.UpdateUser(context.Background(), 1, createdID, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(balances.reconciled).To(ContainElement(createdID))
		})

		It("does not reconcile on a profile-only change", func() {
			dto := user.UpdateUserDTO{
				Name: "Ana S.", Email: "ana@company.com",
				Role: "employee", Seniority: "junior", Gender: "female",
				Department: "Finance",
			}

			_, err := service.UpdateUser(context.Background(), 1, createdID, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(balances.reconciled).To(BeEmpty())
		})

		It("re-grants permissions when the role changes", func() {
			dto := user.UpdateUserDTO{
				Name: "Ana Silva", Email: "ana@company.com",
				Role: "manager", Seniority: "junior", Gender: "female",
			}

			_, err := service.UpdateUser(context.Background(), 1, createdID, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.permissions[createdID]).To(ContainElement("decide_leave"))
		})

		It("rejects stealing another user's email", func() {
			other := validDTO()
			other.Email = "ben@company.com"
			_, err := service.CreateUser(context.Background(), 1, other)
			Expect(err).ToNot(HaveOccurred())

			dto := user.UpdateUserDTO{
				Name: "Ana Silva", Email: "ben@company.com",
				Role: "employee", Seniority: "junior", Gender: "female",
			}
			_, err = service.UpdateUser(context.Background(), 1, createdID, dto)

			Expect(err).To(MatchError(internal.ErrEmailTaken))
		})
	})

	Describe("DeleteUser", func() {
		It("records the deletion in the activity log", func() {
			created, err := service.CreateUser(context.Background(), 1, validDTO())
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeleteUser(1, created.ID)).To(Succeed())

			Expect(mockRepo.users).To(BeEmpty())
			Expect(activity.actions).To(ContainElement(ContainSubstring("deleted employee")))
		})

		It("returns not found for an unknown user", func() {
			err := service.DeleteUser(1, 999)

			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("UpdateProfile", func() {
		It("never touches role, seniority or gender", func() {
			created, err := service.CreateUser(context.Background(), 1, validDTO())
			Expect(err).ToNot(HaveOccurred())

			updated, err := service.UpdateProfile(created.ID, user.UpdateProfileDTO{
				Name: "Ana Souza", Email: "ana@company.com", Department: "Ops",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Name).To(Equal("Ana Souza"))
			Expect(updated.Role).To(Equal("employee"))
			Expect(balances.reconciled).To(BeEmpty())
		})
	})
})

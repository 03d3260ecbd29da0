package leavetype_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/leavetype"
)

func TestLeaveTypeService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Leave Type Service Suite")
}

// Mock repository for testing
type mockTypeRepository struct {
	types      map[int64]*leavetype.LeaveType
	inUse      map[int64]bool
	nextID     int64
	inUseError error
}

func newMockTypeRepository() *mockTypeRepository {
	return &mockTypeRepository{
		types:  make(map[int64]*leavetype.LeaveType),
		inUse:  make(map[int64]bool),
		nextID: 1,
	}
}

func (m *mockTypeRepository) GetAll() ([]*leavetype.LeaveType, error) {
	out := make([]*leavetype.LeaveType, 0, len(m.types))
	for _, t := range m.types {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTypeRepository) GetByID(id int64) (*leavetype.LeaveType, error) {
	t, ok := m.types[id]
	if !ok {
		return nil, internal.ErrLeaveTypeNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockTypeRepository) GetByName(name string) (*leavetype.LeaveType, error) {
	for _, t := range m.types {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, internal.ErrLeaveTypeNotFound
}

func (m *mockTypeRepository) Create(t *leavetype.LeaveType) error {
	t.ID = m.nextID
	m.nextID++
	stored := *t
	m.types[t.ID] = &stored
	return nil
}

func (m *mockTypeRepository) Update(t *leavetype.LeaveType) error {
	if _, ok := m.types[t.ID]; !ok {
		return internal.ErrLeaveTypeNotFound
	}
	stored := *t
	m.types[t.ID] = &stored
	return nil
}

func (m *mockTypeRepository) Delete(id int64) error {
	if _, ok := m.types[id]; !ok {
		return internal.ErrLeaveTypeNotFound
	}
	delete(m.types, id)
	return nil
}

func (m *mockTypeRepository) InUse(id int64) (bool, error) {
	if m.inUseError != nil {
		return false, m.inUseError
	}
	return m.inUse[id], nil
}

// Mock catalog reconciler
type mockReconciler struct {
	initialized []int64
	reconciled  []int64
	removed     []int64
}

func (m *mockReconciler) InitializeForType(t balance.TypeInfo, allocations []balance.Allocation) error {
	m.initialized = append(m.initialized, t.ID)
	return nil
}

func (m *mockReconciler) ReconcileCatalog(leaveTypeID int64) error {
	m.reconciled = append(m.reconciled, leaveTypeID)
	return nil
}

func (m *mockReconciler) RemoveBalancesForType(leaveTypeID int64) error {
	m.removed = append(m.removed, leaveTypeID)
	return nil
}

type mockActivity struct {
	actions []string
}

func (m *mockActivity) Record(userID int64, action string) {
	m.actions = append(m.actions, action)
}

var _ = Describe("LeaveTypeService", func() {
	var (
		service    *leavetype.Service
		mockRepo   *mockTypeRepository
		reconciler *mockReconciler
		activity   *mockActivity
		logger     *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockTypeRepository()
		reconciler = &mockReconciler{}
		activity = &mockActivity{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = leavetype.NewService(mockRepo, reconciler, activity, logger)
	})

	Describe("CreateType", func() {
		It("infers a female-only restriction from the name", func() {
			created, err := service.CreateType(1, leavetype.CreateLeaveTypeDTO{
				Name: "Maternity Leave",
				Allocations: []leavetype.AllocationDTO{
					{Role: "employee", Seniority: "junior", Days: 90},
				},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(created.GenderRestriction).To(Equal("female_only"))
		})

		It("infers no restriction for ordinary names", func() {
			created, err := service.CreateType(1, leavetype.CreateLeaveTypeDTO{Name: "Casual Leave"})

			Expect(err).ToNot(HaveOccurred())
			Expect(created.GenderRestriction).To(Equal("none"))
		})

		It("fans balances out to matching users", func() {
			created, err := service.CreateType(1, leavetype.CreateLeaveTypeDTO{
				Name: "Study Leave",
				Allocations: []leavetype.AllocationDTO{
					{Role: "employee", Seniority: "senior", Days: 5},
				},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(reconciler.initialized).To(ContainElement(created.ID))
		})

		It("rejects a duplicate name", func() {
			_, err := service.CreateType(1, leavetype.CreateLeaveTypeDTO{Name: "Casual Leave"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CreateType(1, leavetype.CreateLeaveTypeDTO{Name: "Casual Leave"})

			Expect(err).To(MatchError(internal.ErrLeaveTypeExists))
		})

		It("rejects duplicate allocation pairs", func() {
			_, err := service.CreateType(1, leavetype.CreateLeaveTypeDTO{
				Name: "Casual Leave",
				Allocations: []leavetype.AllocationDTO{
					{Role: "employee", Seniority: "junior", Days: 10},
					{Role: "employee", Seniority: "junior", Days: 12},
				},
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("UpdateType", func() {
		var createdID int64

		BeforeEach(func() {
			created, err := service.CreateType(1, leavetype.CreateLeaveTypeDTO{Name: "Casual Leave"})
			Expect(err).ToNot(HaveOccurred())
			createdID = created.ID
		})

		It("re-infers the restriction on rename", func() {
			updated, err := service.UpdateType(1, createdID, leavetype.UpdateLeaveTypeDTO{
				Name: "Paternity Leave",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.GenderRestriction).To(Equal("male_only"))
		})

		It("reconciles balances after the rewrite", func() {
			_, err := service.UpdateType(1, createdID, leavetype.UpdateLeaveTypeDTO{
				Name: "Casual Leave",
				Allocations: []leavetype.AllocationDTO{
					{Role: "employee", Seniority: "junior", Days: 14},
				},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(reconciler.reconciled).To(ContainElement(createdID))
		})

		It("returns not found for an unknown type", func() {
			_, err := service.UpdateType(1, 999, leavetype.UpdateLeaveTypeDTO{Name: "X Leave"})

			Expect(err).To(MatchError(internal.ErrLeaveTypeNotFound))
		})
	})

	Describe("DeleteType", func() {
		var createdID int64

		BeforeEach(func() {
			created, err := service.CreateType(1, leavetype.CreateLeaveTypeDTO{Name: "Casual Leave"})
			Expect(err).ToNot(HaveOccurred())
			createdID = created.ID
		})

		It("removes the type and its balances", func() {
			Expect(service.DeleteType(1, createdID)).To(Succeed())

			Expect(reconciler.removed).To(ContainElement(createdID))
			_, err := service.GetType(createdID)
			Expect(err).To(MatchError(internal.ErrLeaveTypeNotFound))
		})

		It("refuses while leave applications reference the type", func() {
			mockRepo.inUse[createdID] = true

			err := service.DeleteType(1, createdID)

			Expect(err).To(MatchError(internal.ErrLeaveTypeInUse))
			_, getErr := service.GetType(createdID)
			Expect(getErr).ToNot(HaveOccurred())
		})
	})
})

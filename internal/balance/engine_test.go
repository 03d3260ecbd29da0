package balance_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
)

func TestBalanceEngine(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Balance Engine Suite")
}

type balanceKey struct {
	userID      int64
	leaveTypeID int64
}

type balanceRow struct {
	total int
	used  int
}

// Mock repository for testing
type mockBalanceRepository struct {
	types       []balance.TypeInfo
	allocations []balance.Allocation
	users       []balance.UserAttrs
	balances    map[balanceKey]*balanceRow

	allocError  error
	typesError  error
	insertError error
}

func newMockBalanceRepository() *mockBalanceRepository {
	return &mockBalanceRepository{
		balances: make(map[balanceKey]*balanceRow),
	}
}

func (m *mockBalanceRepository) typeByID(id int64) *balance.TypeInfo {
	for i := range m.types {
		if m.types[i].ID == id {
			return &m.types[i]
		}
	}
	return nil
}

func (m *mockBalanceRepository) AllocationsFor(role, seniority string) ([]balance.Grant, error) {
	if m.allocError != nil {
		return nil, m.allocError
	}
	var grants []balance.Grant
	for _, a := range m.allocations {
		if a.Role != role || a.Seniority != seniority {
			continue
		}
		t := m.typeByID(a.LeaveTypeID)
		if t == nil {
			continue
		}
		grants = append(grants, balance.Grant{
			LeaveTypeID:       t.ID,
			LeaveTypeName:     t.Name,
			GenderRestriction: t.GenderRestriction,
			Days:              a.Days,
		})
	}
	return grants, nil
}

func (m *mockBalanceRepository) AllocationsForType(leaveTypeID int64) ([]balance.Allocation, error) {
	var out []balance.Allocation
	for _, a := range m.allocations {
		if a.LeaveTypeID == leaveTypeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockBalanceRepository) AllTypes() ([]balance.TypeInfo, error) {
	if m.typesError != nil {
		return nil, m.typesError
	}
	return m.types, nil
}

func (m *mockBalanceRepository) TypeByID(leaveTypeID int64) (*balance.TypeInfo, error) {
	if t := m.typeByID(leaveTypeID); t != nil {
		return t, nil
	}
	return nil, internal.ErrLeaveTypeNotFound
}

func (m *mockBalanceRepository) BalancesForUser(userID int64) ([]balance.Balance, error) {
	var out []balance.Balance
	for key, row := range m.balances {
		if key.userID != userID {
			continue
		}
		name := ""
		if t := m.typeByID(key.leaveTypeID); t != nil {
			name = t.Name
		}
		out = append(out, balance.Balance{
			LeaveTypeID:   key.leaveTypeID,
			LeaveTypeName: name,
			TotalDays:     row.total,
			UsedDays:      row.used,
		})
	}
	return out, nil
}

func (m *mockBalanceRepository) HasBalance(userID, leaveTypeID int64) (bool, error) {
	_, ok := m.balances[balanceKey{userID, leaveTypeID}]
	return ok, nil
}

func (m *mockBalanceRepository) Insert(userID, leaveTypeID int64, totalDays int) error {
	if m.insertError != nil {
		return m.insertError
	}
	m.balances[balanceKey{userID, leaveTypeID}] = &balanceRow{total: totalDays}
	return nil
}

func (m *mockBalanceRepository) UpdateTotal(userID, leaveTypeID int64, totalDays int) error {
	if row, ok := m.balances[balanceKey{userID, leaveTypeID}]; ok {
		row.total = totalDays
	}
	return nil
}

func (m *mockBalanceRepository) Delete(userID, leaveTypeID int64) error {
	delete(m.balances, balanceKey{userID, leaveTypeID})
	return nil
}

func (m *mockBalanceRepository) DeleteAllForUser(userID int64) error {
	for key := range m.balances {
		if key.userID == userID {
			delete(m.balances, key)
		}
	}
	return nil
}

func (m *mockBalanceRepository) DeleteAllForType(leaveTypeID int64) error {
	for key := range m.balances {
		if key.leaveTypeID == leaveTypeID {
			delete(m.balances, key)
		}
	}
	return nil
}

func (m *mockBalanceRepository) ConsumeDays(userID, leaveTypeID int64, days int) (bool, error) {
	row, ok := m.balances[balanceKey{userID, leaveTypeID}]
	if !ok {
		return false, nil
	}
	if row.used+days > row.total {
		return false, nil
	}
	row.used += days
	return true, nil
}

func (m *mockBalanceRepository) RestoreDays(userID, leaveTypeID int64, days int) error {
	row, ok := m.balances[balanceKey{userID, leaveTypeID}]
	if !ok {
		return nil
	}
	row.used -= days
	if row.used < 0 {
		row.used = 0
	}
	return nil
}

func (m *mockBalanceRepository) Available(userID, leaveTypeID int64) (int, int, error) {
	row, ok := m.balances[balanceKey{userID, leaveTypeID}]
	if !ok {
		return 0, 0, internal.ErrNotEligible
	}
	return row.total, row.used, nil
}

func (m *mockBalanceRepository) UsersMatching(role, seniority string) ([]balance.UserAttrs, error) {
	var out []balance.UserAttrs
	for _, u := range m.users {
		if u.Role == role && u.Seniority == seniority {
			out = append(out, u)
		}
	}
	return out, nil
}

var _ = Describe("BalanceEngine", func() {
	var (
		engine   *balance.Engine
		mockRepo *mockBalanceRepository
		logger   *slog.Logger
	)

	const (
		casualID    = int64(1)
		sickID      = int64(2)
		maternityID = int64(3)
		paternityID = int64(4)
	)

	BeforeEach(func() {
		mockRepo = newMockBalanceRepository()
		mockRepo.types = []balance.TypeInfo{
			{ID: casualID, Name: "Casual Leave", GenderRestriction: "none"},
			{ID: sickID, Name: "Sick Leave", GenderRestriction: "none"},
			{ID: maternityID, Name: "Maternity Leave", GenderRestriction: "female_only"},
			{ID: paternityID, Name: "Paternity Leave", GenderRestriction: "male_only"},
		}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		engine = balance.NewEngine(mockRepo, logger)
	})

	Describe("EligibleGrants", func() {
		Context("when allocation rules match the role and seniority", func() {
			BeforeEach(func() {
				mockRepo.allocations = []balance.Allocation{
					{LeaveTypeID: casualID, Role: "employee", Seniority: "junior", Days: 10},
					{LeaveTypeID: maternityID, Role: "employee", Seniority: "junior", Days: 90},
					{LeaveTypeID: paternityID, Role: "employee", Seniority: "junior", Days: 15},
				}
			})

			It("keeps only gender-eligible grants for a male user", func() {
				grants, err := engine.EligibleGrants("employee", "junior", "male")

				Expect(err).ToNot(HaveOccurred())
				Expect(grants).To(HaveLen(2))
				ids := []int64{grants[0].LeaveTypeID, grants[1].LeaveTypeID}
				Expect(ids).To(ConsistOf(casualID, paternityID))
			})

			It("keeps only gender-eligible grants for a female user", func() {
				grants, err := engine.EligibleGrants("employee", "junior", "female")

				Expect(err).ToNot(HaveOccurred())
				Expect(grants).To(HaveLen(2))
				ids := []int64{grants[0].LeaveTypeID, grants[1].LeaveTypeID}
				Expect(ids).To(ConsistOf(casualID, maternityID))
			})

			It("uses the allocation days, not the default", func() {
				grants, err := engine.EligibleGrants("employee", "junior", "female")

				Expect(err).ToNot(HaveOccurred())
				for _, g := range grants {
					if g.LeaveTypeID == maternityID {
						Expect(g.Days).To(Equal(90))
					}
				}
			})
		})

		Context("when no allocation rule matches", func() {
			It("falls back to the default grant for every eligible type", func() {
				grants, err := engine.EligibleGrants("manager", "lead", "male")

				Expect(err).ToNot(HaveOccurred())
				Expect(grants).To(HaveLen(3))
				for _, g := range grants {
					Expect(g.Days).To(Equal(balance.DefaultAllocationDays))
					Expect(g.LeaveTypeID).ToNot(Equal(maternityID))
				}
			})
		})

		Context("when the repository fails", func() {
			It("propagates the error", func() {
				mockRepo.allocError = errors.New("db down")

				_, err := engine.EligibleGrants("employee", "junior", "male")

				Expect(err).To(MatchError("db down"))
			})
		})
	})

	Describe("Initialize", func() {
		It("creates one balance row per eligible grant", func() {
			mockRepo.allocations = []balance.Allocation{
				{LeaveTypeID: casualID, Role: "employee", Seniority: "junior", Days: 10},
				{LeaveTypeID: sickID, Role: "employee", Seniority: "junior", Days: 7},
			}

			err := engine.Initialize(42, "employee", "junior", "female")

			Expect(err).ToNot(HaveOccurred())
			total, used, err := engine.Available(42, casualID)
			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(10))
			Expect(used).To(Equal(0))
		})

		It("surfaces insert failures", func() {
			mockRepo.insertError = errors.New("constraint violation")

			err := engine.Initialize(42, "employee", "junior", "female")

			Expect(err).To(MatchError("constraint violation"))
		})
	})

	Describe("Reconcile", func() {
		BeforeEach(func() {
			mockRepo.allocations = []balance.Allocation{
				{LeaveTypeID: casualID, Role: "employee", Seniority: "junior", Days: 10},
				{LeaveTypeID: casualID, Role: "manager", Seniority: "senior", Days: 20},
				{LeaveTypeID: paternityID, Role: "employee", Seniority: "junior", Days: 15},
			}
		})

		It("updates totals in place and preserves used days", func() {
			Expect(engine.Initialize(42, "employee", "junior", "male")).To(Succeed())
			Expect(engine.ConsumeDays(42, casualID, 4)).To(Succeed())

			err := engine.Reconcile(42, "manager", "senior", "male")

			Expect(err).ToNot(HaveOccurred())
			total, used, err := engine.Available(42, casualID)
			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(20))
			Expect(used).To(Equal(4))
		})

		It("removes only gender-excluded rows on a gender change", func() {
			Expect(engine.Initialize(42, "employee", "junior", "male")).To(Succeed())

			err := engine.Reconcile(42, "employee", "junior", "female")

			Expect(err).ToNot(HaveOccurred())
			_, _, err = engine.Available(42, paternityID)
			Expect(err).To(MatchError(internal.ErrNotEligible))
			_, _, err = engine.Available(42, casualID)
			Expect(err).ToNot(HaveOccurred())
		})

		It("retains rows that stopped matching the new role and seniority", func() {
			Expect(engine.Initialize(42, "employee", "junior", "male")).To(Succeed())

			// lead has no allocation rows, the fallback path grants new types
			// but the old paternity row must survive with its old total
			err := engine.Reconcile(42, "employee", "lead", "male")

			Expect(err).ToNot(HaveOccurred())
			total, _, err := engine.Available(42, paternityID)
			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(balance.DefaultAllocationDays))
		})
	})

	Describe("ReconcileCatalog", func() {
		BeforeEach(func() {
			mockRepo.users = []balance.UserAttrs{
				{UserID: 1, Role: "employee", Seniority: "junior", Gender: "male"},
				{UserID: 2, Role: "employee", Seniority: "junior", Gender: "female"},
				{UserID: 3, Role: "manager", Seniority: "senior", Gender: "female"},
			}
			mockRepo.allocations = []balance.Allocation{
				{LeaveTypeID: maternityID, Role: "employee", Seniority: "junior", Days: 90},
			}
		})

		It("inserts missing rows and updates existing ones", func() {
			Expect(mockRepo.Insert(2, maternityID, 60)).To(Succeed())

			err := engine.ReconcileCatalog(maternityID)

			Expect(err).ToNot(HaveOccurred())
			total, _, err := engine.Available(2, maternityID)
			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(90))
		})

		It("applies the gender filter on insert", func() {
			err := engine.ReconcileCatalog(maternityID)

			Expect(err).ToNot(HaveOccurred())
			_, _, err = engine.Available(1, maternityID)
			Expect(err).To(MatchError(internal.ErrNotEligible))
			_, _, err = engine.Available(2, maternityID)
			Expect(err).ToNot(HaveOccurred())
		})

		It("leaves users outside every allocation rule untouched", func() {
			err := engine.ReconcileCatalog(maternityID)

			Expect(err).ToNot(HaveOccurred())
			_, _, err = engine.Available(3, maternityID)
			Expect(err).To(MatchError(internal.ErrNotEligible))
		})
	})

	Describe("ConsumeDays", func() {
		BeforeEach(func() {
			Expect(mockRepo.Insert(42, casualID, 10)).To(Succeed())
		})

		It("adds to used days when the balance covers the request", func() {
			err := engine.ConsumeDays(42, casualID, 10)

			Expect(err).ToNot(HaveOccurred())
			_, used, _ := engine.Available(42, casualID)
			Expect(used).To(Equal(10))
		})

		It("rejects a consume that would overdraw the balance", func() {
			Expect(engine.ConsumeDays(42, casualID, 7)).To(Succeed())

			err := engine.ConsumeDays(42, casualID, 4)

			Expect(err).To(MatchError(internal.ErrInsufficientBalance))
			_, used, _ := engine.Available(42, casualID)
			Expect(used).To(Equal(7))
		})
	})

	Describe("RestoreDays", func() {
		It("never drives used days below zero", func() {
			Expect(mockRepo.Insert(42, casualID, 10)).To(Succeed())
			Expect(engine.ConsumeDays(42, casualID, 3)).To(Succeed())

			err := engine.RestoreDays(42, casualID, 5)

			Expect(err).ToNot(HaveOccurred())
			_, used, _ := engine.Available(42, casualID)
			Expect(used).To(Equal(0))
		})
	})

	Describe("BalancesForUser", func() {
		It("derives available days from total and used", func() {
			Expect(mockRepo.Insert(42, casualID, 10)).To(Succeed())
			Expect(engine.ConsumeDays(42, casualID, 3)).To(Succeed())

			balances, err := engine.BalancesForUser(42)

			Expect(err).ToNot(HaveOccurred())
			Expect(balances).To(HaveLen(1))
			Expect(balances[0].AvailableDays).To(Equal(7))
		})
	})
})

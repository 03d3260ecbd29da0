package balance

import (
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
	leavetypedm "github.com/frahmantamala/leave-management/internal/core/datamodel/leavetype"
)

// Engine owns all derivation of leave balances from allocation rules. Every
// path that creates, re-keys or removes balances goes through here so the
// eligibility filter and the fallback grant behave identically everywhere.
type Engine struct {
	repo   Repository
	logger *slog.Logger
}

func NewEngine(repo Repository, logger *slog.Logger) *Engine {
	return &Engine{repo: repo, logger: logger}
}

// EligibleGrants resolves the grants a user with the given attributes is
// entitled to: allocation rows matched on (role, seniority) and filtered by
// gender eligibility. When no allocation row matches at all, every
// gender-eligible leave type is granted DefaultAllocationDays.
func (e *Engine) EligibleGrants(role, seniority, gender string) ([]Grant, error) {
	allocations, err := e.repo.AllocationsFor(role, seniority)
	if err != nil {
		return nil, err
	}

	if len(allocations) == 0 {
		types, err := e.repo.AllTypes()
		if err != nil {
			return nil, err
		}
		grants := make([]Grant, 0, len(types))
		for _, t := range types {
			if !leavetypedm.EligibleForGender(t.GenderRestriction, gender) {
				continue
			}
			grants = append(grants, Grant{
				LeaveTypeID:       t.ID,
				LeaveTypeName:     t.Name,
				GenderRestriction: t.GenderRestriction,
				Days:              DefaultAllocationDays,
			})
		}
		return grants, nil
	}

	grants := make([]Grant, 0, len(allocations))
	for _, g := range allocations {
		if !leavetypedm.EligibleForGender(g.GenderRestriction, gender) {
			continue
		}
		grants = append(grants, g)
	}
	return grants, nil
}

// Initialize creates the balance rows for a newly provisioned user.
func (e *Engine) Initialize(userID int64, role, seniority, gender string) error {
	grants, err := e.EligibleGrants(role, seniority, gender)
	if err != nil {
		return err
	}
	for _, g := range grants {
		if err := e.repo.Insert(userID, g.LeaveTypeID, g.Days); err != nil {
			return err
		}
	}
	e.logger.Info("initialized leave balances", "user_id", userID, "grants", len(grants))
	return nil
}

// Reconcile re-derives a user's balances after their role, seniority or
// gender changed. Existing rows keep their used_days: totals are updated in
// place, missing grants are inserted, and rows the user is no longer
// gender-eligible for are removed. Rows that merely stopped matching the
// new (role, seniority) are retained with their old totals.
func (e *Engine) Reconcile(userID int64, newRole, newSeniority, newGender string) error {
	grants, err := e.EligibleGrants(newRole, newSeniority, newGender)
	if err != nil {
		return err
	}

	for _, g := range grants {
		exists, err := e.repo.HasBalance(userID, g.LeaveTypeID)
		if err != nil {
			return err
		}
		if exists {
			if err := e.repo.UpdateTotal(userID, g.LeaveTypeID, g.Days); err != nil {
				return err
			}
		} else {
			if err := e.repo.Insert(userID, g.LeaveTypeID, g.Days); err != nil {
				return err
			}
		}
	}

	// Purge is gender-driven only: a balance row is deleted when the type's
	// restriction excludes the user's new gender, never because the new
	// (role, seniority) stopped matching an allocation.
	types, err := e.repo.AllTypes()
	if err != nil {
		return err
	}
	for _, t := range types {
		if leavetypedm.EligibleForGender(t.GenderRestriction, newGender) {
			continue
		}
		if err := e.repo.Delete(userID, t.ID); err != nil {
			return err
		}
	}

	e.logger.Info("reconciled leave balances", "user_id", userID, "grants", len(grants))
	return nil
}

// InitializeForType fans a new leave type's allocations out to every user
// matching one of them, applying the gender filter on insert.
func (e *Engine) InitializeForType(t TypeInfo, allocations []Allocation) error {
	return e.fanOut(t, allocations)
}

// ReconcileCatalog re-derives balances for one leave type after its
// allocation rules changed. Users matching a rule get their total updated,
// or a fresh row when none exists yet.
func (e *Engine) ReconcileCatalog(leaveTypeID int64) error {
	t, err := e.repo.TypeByID(leaveTypeID)
	if err != nil {
		return err
	}
	allocations, err := e.repo.AllocationsForType(leaveTypeID)
	if err != nil {
		return err
	}
	return e.fanOut(*t, allocations)
}

func (e *Engine) fanOut(t TypeInfo, allocations []Allocation) error {
	for _, alloc := range allocations {
		users, err := e.repo.UsersMatching(alloc.Role, alloc.Seniority)
		if err != nil {
			return err
		}
		for _, u := range users {
			if !leavetypedm.EligibleForGender(t.GenderRestriction, u.Gender) {
				continue
			}
			exists, err := e.repo.HasBalance(u.UserID, t.ID)
			if err != nil {
				return err
			}
			if exists {
				if err := e.repo.UpdateTotal(u.UserID, t.ID, alloc.Days); err != nil {
					return err
				}
			} else {
				if err := e.repo.Insert(u.UserID, t.ID, alloc.Days); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// RemoveBalancesForType deletes every balance row of a leave type; called
// when the type itself is deleted.
func (e *Engine) RemoveBalancesForType(leaveTypeID int64) error {
	return e.repo.DeleteAllForType(leaveTypeID)
}

// RemoveBalancesForUser deletes every balance row of a user.
func (e *Engine) RemoveBalancesForUser(userID int64) error {
	return e.repo.DeleteAllForUser(userID)
}

// BalancesForUser lists a user's balances with derived availability.
func (e *Engine) BalancesForUser(userID int64) ([]Balance, error) {
	balances, err := e.repo.BalancesForUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range balances {
		balances[i].AvailableDays = balances[i].TotalDays - balances[i].UsedDays
	}
	return balances, nil
}

// Available returns total and used days a user holds for one leave type.
// A missing row is reported as ErrNotEligible.
func (e *Engine) Available(userID, leaveTypeID int64) (total, used int, err error) {
	total, used, err = e.repo.Available(userID, leaveTypeID)
	if err != nil {
		return 0, 0, err
	}
	return total, used, nil
}

// ConsumeDays commits days against a balance. The update is conditional in
// the repository so two concurrent approvals cannot overdraw the balance.
func (e *Engine) ConsumeDays(userID, leaveTypeID int64, days int) error {
	applied, err := e.repo.ConsumeDays(userID, leaveTypeID, days)
	if err != nil {
		return err
	}
	if !applied {
		return internal.ErrInsufficientBalance
	}
	return nil
}

// RestoreDays gives days back after an approved request leaves the approved
// state. used_days never goes below zero.
func (e *Engine) RestoreDays(userID, leaveTypeID int64, days int) error {
	return e.repo.RestoreDays(userID, leaveTypeID, days)
}

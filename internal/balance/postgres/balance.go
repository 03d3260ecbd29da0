package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	balancedm "github.com/frahmantamala/leave-management/internal/core/datamodel/balance"
	leavetypedm "github.com/frahmantamala/leave-management/internal/core/datamodel/leavetype"
	userdm "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) AllocationsFor(role, seniority string) ([]balance.Grant, error) {
	var grants []balance.Grant
	err := r.db.
		Table("leave_allocations").
		Select("leave_allocations.leave_type_id, leave_types.name AS leave_type_name, leave_types.gender_restriction, leave_allocations.days").
		Joins("JOIN leave_types ON leave_types.id = leave_allocations.leave_type_id").
		Where("leave_allocations.role = ? AND leave_allocations.seniority = ?", role, seniority).
		Scan(&grants).Error
	return grants, err
}

func (r *BalanceRepository) AllocationsForType(leaveTypeID int64) ([]balance.Allocation, error) {
	var rows []leavetypedm.LeaveAllocation
	if err := r.db.Where("leave_type_id = ?", leaveTypeID).Find(&rows).Error; err != nil {
		return nil, err
	}
	allocations := make([]balance.Allocation, 0, len(rows))
	for _, row := range rows {
		allocations = append(allocations, balance.Allocation{
			LeaveTypeID: row.LeaveTypeID,
			Role:        row.Role,
			Seniority:   row.Seniority,
			Days:        row.Days,
		})
	}
	return allocations, nil
}

func (r *BalanceRepository) AllTypes() ([]balance.TypeInfo, error) {
	var rows []leavetypedm.LeaveType
	if err := r.db.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	types := make([]balance.TypeInfo, 0, len(rows))
	for _, row := range rows {
		types = append(types, balance.TypeInfo{
			ID:                row.ID,
			Name:              row.Name,
			GenderRestriction: row.GenderRestriction,
		})
	}
	return types, nil
}

func (r *BalanceRepository) TypeByID(leaveTypeID int64) (*balance.TypeInfo, error) {
	var row leavetypedm.LeaveType
	if err := r.db.First(&row, leaveTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrLeaveTypeNotFound
		}
		return nil, err
	}
	return &balance.TypeInfo{
		ID:                row.ID,
		Name:              row.Name,
		GenderRestriction: row.GenderRestriction,
	}, nil
}

func (r *BalanceRepository) BalancesForUser(userID int64) ([]balance.Balance, error) {
	var balances []balance.Balance
	err := r.db.
		Table("leave_balances").
		Select("leave_balances.leave_type_id, leave_types.name AS leave_type_name, leave_balances.total_days, leave_balances.used_days").
		Joins("JOIN leave_types ON leave_types.id = leave_balances.leave_type_id").
		Where("leave_balances.user_id = ?", userID).
		Order("leave_types.name").
		Scan(&balances).Error
	return balances, err
}

func (r *BalanceRepository) HasBalance(userID, leaveTypeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&balancedm.LeaveBalance{}).
		Where("user_id = ? AND leave_type_id = ?", userID, leaveTypeID).
		Count(&count).Error
	return count > 0, err
}

func (r *BalanceRepository) Insert(userID, leaveTypeID int64, totalDays int) error {
	row := balancedm.LeaveBalance{
		UserID:      userID,
		LeaveTypeID: leaveTypeID,
		TotalDays:   totalDays,
	}
	return r.db.Create(&row).Error
}

func (r *BalanceRepository) UpdateTotal(userID, leaveTypeID int64, totalDays int) error {
	return r.db.Model(&balancedm.LeaveBalance{}).
		Where("user_id = ? AND leave_type_id = ?", userID, leaveTypeID).
		Update("total_days", totalDays).Error
}

func (r *BalanceRepository) Delete(userID, leaveTypeID int64) error {
	return r.db.
		Where("user_id = ? AND leave_type_id = ?", userID, leaveTypeID).
		Delete(&balancedm.LeaveBalance{}).Error
}

func (r *BalanceRepository) DeleteAllForUser(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&balancedm.LeaveBalance{}).Error
}

func (r *BalanceRepository) DeleteAllForType(leaveTypeID int64) error {
	return r.db.Where("leave_type_id = ?", leaveTypeID).Delete(&balancedm.LeaveBalance{}).Error
}

// ConsumeDays is a single conditional update so concurrent approvals cannot
// push used_days past total_days.
func (r *BalanceRepository) ConsumeDays(userID, leaveTypeID int64, days int) (bool, error) {
	result := r.db.Model(&balancedm.LeaveBalance{}).
		Where("user_id = ? AND leave_type_id = ? AND used_days + ? <= total_days", userID, leaveTypeID, days).
		Update("used_days", gorm.Expr("used_days + ?", days))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *BalanceRepository) RestoreDays(userID, leaveTypeID int64, days int) error {
	return r.db.Model(&balancedm.LeaveBalance{}).
		Where("user_id = ? AND leave_type_id = ?", userID, leaveTypeID).
		Update("used_days", gorm.Expr("CASE WHEN used_days >= ? THEN used_days - ? ELSE 0 END", days, days)).Error
}

func (r *BalanceRepository) Available(userID, leaveTypeID int64) (int, int, error) {
	var row balancedm.LeaveBalance
	err := r.db.
		Where("user_id = ? AND leave_type_id = ?", userID, leaveTypeID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, internal.ErrNotEligible
		}
		return 0, 0, err
	}
	return row.TotalDays, row.UsedDays, nil
}

func (r *BalanceRepository) UsersMatching(role, seniority string) ([]balance.UserAttrs, error) {
	var rows []userdm.User
	if err := r.db.Where("role = ? AND seniority = ?", role, seniority).Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]balance.UserAttrs, 0, len(rows))
	for _, row := range rows {
		users = append(users, balance.UserAttrs{
			UserID:    row.ID,
			Role:      row.Role,
			Seniority: row.Seniority,
			Gender:    row.Gender,
		})
	}
	return users, nil
}

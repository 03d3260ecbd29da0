package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/leave-management/internal"
	leavedm "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	leavetypedm "github.com/frahmantamala/leave-management/internal/core/datamodel/leavetype"
	"github.com/frahmantamala/leave-management/internal/leavetype"
)

type LeaveTypeRepository struct {
	db *gorm.DB
}

func NewLeaveTypeRepository(db *gorm.DB) *LeaveTypeRepository {
	return &LeaveTypeRepository{db: db}
}

func (r *LeaveTypeRepository) GetAll() ([]*leavetype.LeaveType, error) {
	var rows []leavetypedm.LeaveType
	if err := r.db.Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}

	types := make([]*leavetype.LeaveType, 0, len(rows))
	for i := range rows {
		t := fromModel(&rows[i])
		allocations, err := r.allocationsFor(rows[i].ID)
		if err != nil {
			return nil, err
		}
		t.Allocations = allocations
		types = append(types, t)
	}
	return types, nil
}

func (r *LeaveTypeRepository) GetByID(id int64) (*leavetype.LeaveType, error) {
	var row leavetypedm.LeaveType
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrLeaveTypeNotFound
		}
		return nil, err
	}

	t := fromModel(&row)
	allocations, err := r.allocationsFor(id)
	if err != nil {
		return nil, err
	}
	t.Allocations = allocations
	return t, nil
}

func (r *LeaveTypeRepository) GetByName(name string) (*leavetype.LeaveType, error) {
	var row leavetypedm.LeaveType
	if err := r.db.Where("lower(name) = lower(?)", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrLeaveTypeNotFound
		}
		return nil, err
	}
	return fromModel(&row), nil
}

func (r *LeaveTypeRepository) Create(t *leavetype.LeaveType) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		row := leavetypedm.LeaveType{
			Name:              t.Name,
			Description:       t.Description,
			GenderRestriction: t.GenderRestriction,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		t.ID = row.ID
		t.CreatedAt = row.CreatedAt
		t.UpdatedAt = row.UpdatedAt

		return insertAllocations(tx, t)
	})
}

// Update replaces the allocation rows wholesale; totals already derived into
// balances are reconciled by the caller.
func (r *LeaveTypeRepository) Update(t *leavetype.LeaveType) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&leavetypedm.LeaveType{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
			"name":               t.Name,
			"description":        t.Description,
			"gender_restriction": t.GenderRestriction,
			"updated_at":         gorm.Expr("now()"),
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrLeaveTypeNotFound
		}

		if err := tx.Where("leave_type_id = ?", t.ID).Delete(&leavetypedm.LeaveAllocation{}).Error; err != nil {
			return err
		}
		return insertAllocations(tx, t)
	})
}

func (r *LeaveTypeRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("leave_type_id = ?", id).Delete(&leavetypedm.LeaveAllocation{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&leavetypedm.LeaveType{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrLeaveTypeNotFound
		}
		return nil
	})
}

func (r *LeaveTypeRepository) InUse(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&leavedm.LeaveApplication{}).
		Where("leave_type_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *LeaveTypeRepository) allocationsFor(leaveTypeID int64) ([]leavetype.Allocation, error) {
	var rows []leavetypedm.LeaveAllocation
	err := r.db.
		Where("leave_type_id = ?", leaveTypeID).
		Order("role, seniority").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	allocations := make([]leavetype.Allocation, 0, len(rows))
	for _, row := range rows {
		allocations = append(allocations, leavetype.Allocation{
			Role:      row.Role,
			Seniority: row.Seniority,
			Days:      row.Days,
		})
	}
	return allocations, nil
}

func insertAllocations(tx *gorm.DB, t *leavetype.LeaveType) error {
	for _, a := range t.Allocations {
		row := leavetypedm.LeaveAllocation{
			LeaveTypeID: t.ID,
			Role:        a.Role,
			Seniority:   a.Seniority,
			Days:        a.Days,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func fromModel(row *leavetypedm.LeaveType) *leavetype.LeaveType {
	return &leavetype.LeaveType{
		ID:                row.ID,
		Name:              row.Name,
		Description:       row.Description,
		GenderRestriction: row.GenderRestriction,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

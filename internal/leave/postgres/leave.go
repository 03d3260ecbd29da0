package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/leave-management/internal"
	leavedm "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	leavetypedm "github.com/frahmantamala/leave-management/internal/core/datamodel/leavetype"
	"github.com/frahmantamala/leave-management/internal/leave"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// applicationRow is the listing projection with names joined in.
type applicationRow struct {
	leavedm.LeaveApplication
	UserName      string
	LeaveTypeName string
}

const selectColumns = "leave_applications.*, users.name AS user_name, leave_types.name AS leave_type_name"

func (r *LeaveRepository) listQuery() *gorm.DB {
	return r.db.
		Table("leave_applications").
		Select(selectColumns).
		Joins("JOIN users ON users.id = leave_applications.user_id").
		Joins("JOIN leave_types ON leave_types.id = leave_applications.leave_type_id")
}

func (r *LeaveRepository) Create(app *leave.Application) error {
	row := leavedm.LeaveApplication{
		UserID:      app.UserID,
		ManagerID:   app.ManagerID,
		LeaveTypeID: app.LeaveTypeID,
		StartDate:   app.StartDate,
		EndDate:     app.EndDate,
		Reason:      app.Reason,
		Status:      app.Status,
	}
	if err := r.db.Create(&row).Error; err != nil {
		return err
	}
	app.ID = row.ID
	app.AppliedAt = row.AppliedAt
	return nil
}

func (r *LeaveRepository) GetByID(id int64) (*leave.Application, error) {
	var row applicationRow
	err := r.listQuery().Where("leave_applications.id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrLeaveNotFound
		}
		return nil, err
	}
	return fromRow(&row), nil
}

func (r *LeaveRepository) HasOverlap(userID int64, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&leavedm.LeaveApplication{}).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{leave.StatusPending, leave.StatusApproved}).
		Where("(start_date <= ? AND end_date >= ?) OR (start_date <= ? AND end_date >= ?) OR (? <= start_date AND ? >= end_date)",
			start, start, end, end, start, end).
		Count(&count).Error
	return count > 0, err
}

func (r *LeaveRepository) UpdateDecision(id int64, status string, remarks *string, decidedAt time.Time) error {
	result := r.db.Model(&leavedm.LeaveApplication{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":          status,
		"manager_remarks": remarks,
		"decided_at":      decidedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrLeaveNotFound
	}
	return nil
}

func (r *LeaveRepository) GetByUserID(userID int64) ([]*leave.Application, error) {
	var rows []applicationRow
	err := r.listQuery().
		Where("leave_applications.user_id = ?", userID).
		Order("leave_applications.applied_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *LeaveRepository) GetByManagerID(managerID int64) ([]*leave.Application, error) {
	var rows []applicationRow
	err := r.listQuery().
		Where("leave_applications.manager_id = ?", managerID).
		Order("leave_applications.applied_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *LeaveRepository) GetAll() ([]*leave.Application, error) {
	var rows []applicationRow
	err := r.listQuery().
		Order("leave_applications.applied_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *LeaveRepository) GetTypeName(leaveTypeID int64) (string, error) {
	var row leavetypedm.LeaveType
	if err := r.db.Select("name").First(&row, leaveTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", internal.ErrLeaveTypeNotFound
		}
		return "", err
	}
	return row.Name, nil
}

func (r *LeaveRepository) CountByStatusForUser(userID int64) (map[string]int, error) {
	type statusCount struct {
		Status string
		Count  int
	}
	var rows []statusCount
	err := r.db.Model(&leavedm.LeaveApplication{}).
		Select("status, count(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *LeaveRepository) CountPendingForManager(managerID int64) (int, error) {
	var count int64
	err := r.db.Model(&leavedm.LeaveApplication{}).
		Where("manager_id = ? AND status = ?", managerID, leave.StatusPending).
		Count(&count).Error
	return int(count), err
}

func (r *LeaveRepository) RecentForUser(userID int64, limit int) ([]*leave.Application, error) {
	var rows []applicationRow
	err := r.listQuery().
		Where("leave_applications.user_id = ?", userID).
		Order("leave_applications.applied_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func fromRows(rows []applicationRow) []*leave.Application {
	apps := make([]*leave.Application, 0, len(rows))
	for i := range rows {
		apps = append(apps, fromRow(&rows[i]))
	}
	return apps
}

func fromRow(row *applicationRow) *leave.Application {
	return &leave.Application{
		ID:             row.ID,
		UserID:         row.UserID,
		UserName:       row.UserName,
		ManagerID:      row.ManagerID,
		LeaveTypeID:    row.LeaveTypeID,
		LeaveTypeName:  row.LeaveTypeName,
		StartDate:      row.StartDate,
		EndDate:        row.EndDate,
		Days:           leave.DaysInclusive(row.StartDate, row.EndDate),
		Reason:         row.Reason,
		Status:         row.Status,
		ManagerRemarks: row.ManagerRemarks,
		AppliedAt:      row.AppliedAt,
		DecidedAt:      row.DecidedAt,
	}
}

package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/leave-management/internal/activity"
	activitydm "github.com/frahmantamala/leave-management/internal/core/datamodel/activity"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Insert(userID int64, action string) error {
	row := activitydm.ActivityLog{UserID: userID, Action: action}
	return r.db.Create(&row).Error
}

func (r *ActivityRepository) Latest(limit int) ([]*activity.Entry, error) {
	type entryRow struct {
		activitydm.ActivityLog
		UserName string
	}

	var rows []entryRow
	err := r.db.
		Table("activity_logs").
		Select("activity_logs.*, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = activity_logs.user_id").
		Order("activity_logs.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*activity.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &activity.Entry{
			ID:        row.ID,
			UserID:    row.UserID,
			UserName:  row.UserName,
			Action:    row.Action,
			CreatedAt: row.CreatedAt,
		})
	}
	return entries, nil
}

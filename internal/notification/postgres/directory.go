package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/leave-management/internal"
	userdm "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/notification"
)

type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) RecipientByID(userID int64) (*notification.Recipient, error) {
	var row userdm.User
	if err := r.db.Select("name, email").First(&row, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &notification.Recipient{Name: row.Name, Email: row.Email}, nil
}

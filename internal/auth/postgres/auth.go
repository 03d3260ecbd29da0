package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	userdm "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetCredentialsByEmail(email string) (*auth.Credentials, error) {
	var u userdm.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return credentialsFromModel(&u), nil
}

func (r *AuthRepository) GetCredentialsByID(userID int64) (*auth.Credentials, error) {
	var u userdm.User
	if err := r.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return credentialsFromModel(&u), nil
}

func (r *AuthRepository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	var u userdm.User
	if err := r.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	var perms []string
	err := r.db.
		Table("user_permissions").
		Select("permissions.name").
		Joins("JOIN permissions ON permissions.id = user_permissions.permission_id").
		Where("user_permissions.user_id = ?", userID).
		Pluck("permissions.name", &perms).Error
	if err != nil {
		return nil, err
	}

	return &auth.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		ManagerID:   u.ManagerID,
		Permissions: perms,
	}, nil
}

func (r *AuthRepository) UpdatePasswordHash(userID int64, hash string) error {
	result := r.db.Model(&userdm.User{}).Where("id = ?", userID).Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func credentialsFromModel(u *userdm.User) *auth.Credentials {
	return &auth.Credentials{
		UserID:       u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
	}
}

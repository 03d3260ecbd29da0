package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/leave-management/internal"
	balancedm "github.com/frahmantamala/leave-management/internal/core/datamodel/balance"
	leavedm "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	userdm "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User, passwordHash string) error {
	row := userdm.User{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: passwordHash,
		Role:         u.Role,
		Seniority:    u.Seniority,
		Gender:       u.Gender,
		Department:   u.Department,
		Designation:  u.Designation,
		ManagerID:    u.ManagerID,
		IsActive:     u.IsActive,
	}
	if err := r.db.Create(&row).Error; err != nil {
		return err
	}
	u.ID = row.ID
	u.CreatedAt = row.CreatedAt
	u.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var row userdm.User
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	u := fromModel(&row)
	r.attachManagerName(u)
	return u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var row userdm.User
	if err := r.db.Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return fromModel(&row), nil
}

func (r *UserRepository) GetAll() ([]*user.User, error) {
	var rows []userdm.User
	if err := r.db.Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}

	names, err := r.managerNames()
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(rows))
	for i := range rows {
		u := fromModel(&rows[i])
		if u.ManagerID != nil {
			u.ManagerName = names[*u.ManagerID]
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) Update(u *user.User) error {
	result := r.db.Model(&userdm.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"name":        u.Name,
		"email":       u.Email,
		"role":        u.Role,
		"seniority":   u.Seniority,
		"gender":      u.Gender,
		"department":  u.Department,
		"designation": u.Designation,
		"manager_id":  u.ManagerID,
		"is_active":   u.IsActive,
		"updated_at":  gorm.Expr("now()"),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateProfile(id int64, name, email, department, designation string) error {
	result := r.db.Model(&userdm.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        name,
		"email":       email,
		"department":  department,
		"designation": designation,
		"updated_at":  gorm.Expr("now()"),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

// Delete removes the user and everything keyed to them in one transaction.
func (r *UserRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&leavedm.LeaveApplication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&balancedm.LeaveBalance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&userdm.UserPermission{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&userdm.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrUserNotFound
		}
		return nil
	})
}

func (r *UserRepository) Managers() ([]*user.User, error) {
	var rows []userdm.User
	err := r.db.
		Where("role IN ?", []string{internal.RoleManager, internal.RoleHR}).
		Where("is_active = ?", true).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	users := make([]*user.User, 0, len(rows))
	for i := range rows {
		users = append(users, fromModel(&rows[i]))
	}
	return users, nil
}

// SyncRolePermissions replaces the user's permission rows with the named
// set, resolving permission names to ids.
func (r *UserRepository) SyncRolePermissions(userID int64, permissions []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&userdm.UserPermission{}).Error; err != nil {
			return err
		}

		var perms []userdm.Permission
		if err := tx.Where("name IN ?", permissions).Find(&perms).Error; err != nil {
			return err
		}
		for _, p := range perms {
			row := userdm.UserPermission{UserID: userID, PermissionID: p.ID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) managerNames() (map[int64]string, error) {
	var rows []userdm.User
	if err := r.db.Select("id, name").Find(&rows).Error; err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *UserRepository) attachManagerName(u *user.User) {
	if u.ManagerID == nil {
		return
	}
	var row userdm.User
	if err := r.db.Select("name").First(&row, *u.ManagerID).Error; err == nil {
		u.ManagerName = row.Name
	}
}

func fromModel(row *userdm.User) *user.User {
	return &user.User{
		ID:          row.ID,
		Name:        row.Name,
		Email:       row.Email,
		Role:        row.Role,
		Seniority:   row.Seniority,
		Gender:      row.Gender,
		Department:  row.Department,
		Designation: row.Designation,
		ManagerID:   row.ManagerID,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

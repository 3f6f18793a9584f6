package repository

import (
	"magazine-pro-api/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	SeedDefaults() error
	FindByCode(code string) (*model.Role, error)
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db}
}

// SeedDefaults inserts the default roles if they don't exist yet
func (r *roleRepo) SeedDefaults() error {
	for _, role := range model.DefaultRoles {
		var existing model.Role
		err := r.db.First(&existing, "code = ?", role.Code).Error
		if err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&role).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

func (r *roleRepo) FindByCode(code string) (*model.Role, error) {
	var role model.Role
	err := r.db.First(&role, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

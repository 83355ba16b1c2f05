package model

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const (
	RoleDoctor  = "Doctor"
	RolePatient = "Patient"
)

type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
}

// IsKnownRole reports whether name is one of the roles the service authorizes on.
func IsKnownRole(name string) bool {
	return name == RoleDoctor || name == RolePatient
}

func SeedRoles(db *gorm.DB) error {
	roles := []Role{
		{Name: RoleDoctor},
		{Name: RolePatient},
	}

	for _, role := range roles {
		var existingRole Role
		err := db.Where("name = ?", role.Name).First(&existingRole).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.Name, err)
		}
	}
	return nil
}

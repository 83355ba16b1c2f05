package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedRolesCreatesRoles(t *testing.T) {
	db := setupTestDB(t, "roles", &Role{})

	if err := SeedRoles(db); err != nil {
		t.Fatalf("SeedRoles returned error: %v", err)
	}

	var names []string
	if err := db.Model(&Role{}).Order("name").Pluck("name", &names).Error; err != nil {
		t.Fatalf("failed to list roles: %v", err)
	}
	assert.Equal(t, []string{RoleDoctor, RolePatient}, names)
}

func TestSeedRolesIsIdempotent(t *testing.T) {
	db := setupTestDB(t, "roles_twice", &Role{})

	assert.NoError(t, SeedRoles(db))
	assert.NoError(t, SeedRoles(db))

	var count int64
	db.Model(&Role{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestIsKnownRole(t *testing.T) {
	assert.True(t, IsKnownRole("Doctor"))
	assert.True(t, IsKnownRole("Patient"))
	assert.False(t, IsKnownRole("Admin"))
	assert.False(t, IsKnownRole("doctor"))
}

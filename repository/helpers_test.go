package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ariebrainware/monorec/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter atomic.Int64

// setupTestDB opens a private in-memory sqlite database with the domain tables.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%d_%d?mode=memory&cache=shared", dbCounter.Add(1), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Doctor{}, &model.Patient{}, &model.DoctorPatient{}, &model.Visit{}))
	return db
}

func seedDoctor(t *testing.T, db *gorm.DB, name string) model.Doctor {
	t.Helper()
	doctor, err := NewDoctorRepository(db).CreateDoctor(context.Background(), name)
	require.NoError(t, err)
	return doctor
}

func seedPatient(t *testing.T, db *gorm.DB, name string) model.Patient {
	t.Helper()
	patient, err := NewPatientRepository(db).CreatePatient(context.Background(), name)
	require.NoError(t, err)
	return patient
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

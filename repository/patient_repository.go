package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariebrainware/monorec/model"
	"github.com/ariebrainware/monorec/util"
	"gorm.io/gorm"
)

// PatientRepository covers patients and the doctors associated with them.
type PatientRepository interface {
	ListPatients(ctx context.Context) ([]model.Patient, error)
	ListPatientsByUser(ctx context.Context, userID string) ([]model.Patient, error)
	GetPatient(ctx context.Context, id uint) (model.Patient, error)
	GetPatientByUser(ctx context.Context, userID string) (model.Patient, error)
	CreatePatient(ctx context.Context, name string) (model.Patient, error)
	ListDoctorsForPatient(ctx context.Context, patientID uint) ([]model.Doctor, error)
	AddDoctorToPatient(ctx context.Context, patientID, doctorID uint) (model.Doctor, error)
	RemoveDoctorFromPatient(ctx context.Context, patientID, doctorID uint) (model.Doctor, error)
}

// GormPatientRepository implements PatientRepository on gorm.
type GormPatientRepository struct {
	db *gorm.DB
}

var _ PatientRepository = (*GormPatientRepository)(nil)

func NewPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

func (r *GormPatientRepository) ListPatients(ctx context.Context) ([]model.Patient, error) {
	patients := []model.Patient{}
	if err := r.db.WithContext(ctx).Order("patient_id").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

// ListPatientsByUser returns the patients linked to userID, at most one in practice.
func (r *GormPatientRepository) ListPatientsByUser(ctx context.Context, userID string) ([]model.Patient, error) {
	patients := []model.Patient{}
	if userID == "" {
		return patients, nil
	}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("patient_id").Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("list patients for user: %w", err)
	}
	return patients, nil
}

func (r *GormPatientRepository) GetPatient(ctx context.Context, id uint) (model.Patient, error) {
	return findPatient(ctx, r.db, id)
}

func (r *GormPatientRepository) GetPatientByUser(ctx context.Context, userID string) (model.Patient, error) {
	var patient model.Patient
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Patient{}, fmt.Errorf("patient for user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return model.Patient{}, fmt.Errorf("load patient for user: %w", err)
	}
	return patient, nil
}

func (r *GormPatientRepository) CreatePatient(ctx context.Context, name string) (model.Patient, error) {
	name = util.NormalizeName(name)
	if name == "" {
		return model.Patient{}, fmt.Errorf("patient name is blank: %w", ErrInvalidInput)
	}
	patient := model.Patient{PatientName: name}
	if err := r.db.WithContext(ctx).Create(&patient).Error; err != nil {
		return model.Patient{}, fmt.Errorf("create patient: %w", err)
	}
	return patient, nil
}

func (r *GormPatientRepository) ListDoctorsForPatient(ctx context.Context, patientID uint) ([]model.Doctor, error) {
	if _, err := findPatient(ctx, r.db, patientID); err != nil {
		return nil, err
	}
	doctors := []model.Doctor{}
	err := r.db.WithContext(ctx).
		Model(&model.Doctor{}).
		Joins("JOIN doctors_patients ON doctors_patients.doctor_id = doctors.doctor_id").
		Where("doctors_patients.patient_id = ?", patientID).
		Order("doctors_patients.doctor_patient_id").
		Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("list doctors for patient %d: %w", patientID, err)
	}
	return doctors, nil
}

func (r *GormPatientRepository) AddDoctorToPatient(ctx context.Context, patientID, doctorID uint) (model.Doctor, error) {
	if _, err := findPatient(ctx, r.db, patientID); err != nil {
		return model.Doctor{}, err
	}
	doctor, err := findDoctor(ctx, r.db, doctorID)
	if err != nil {
		return model.Doctor{}, err
	}
	if err := addAssociation(ctx, r.db, doctorID, patientID); err != nil {
		return model.Doctor{}, err
	}
	return doctor, nil
}

func (r *GormPatientRepository) RemoveDoctorFromPatient(ctx context.Context, patientID, doctorID uint) (model.Doctor, error) {
	if _, err := findPatient(ctx, r.db, patientID); err != nil {
		return model.Doctor{}, err
	}
	doctor, err := findDoctor(ctx, r.db, doctorID)
	if err != nil {
		return model.Doctor{}, err
	}
	if err := removeAssociation(ctx, r.db, doctorID, patientID); err != nil {
		return model.Doctor{}, err
	}
	return doctor, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/ariebrainware/monorec/model"
	"github.com/ariebrainware/monorec/util"
	"gorm.io/gorm"
)

// DoctorRepository covers doctors and the patients associated with them.
type DoctorRepository interface {
	ListDoctors(ctx context.Context) ([]model.Doctor, error)
	GetDoctor(ctx context.Context, id uint) (model.Doctor, error)
	CreateDoctor(ctx context.Context, name string) (model.Doctor, error)
	ListPatientsForDoctor(ctx context.Context, doctorID uint) ([]model.Patient, error)
	AddPatientToDoctor(ctx context.Context, doctorID, patientID uint) (model.Patient, error)
	RemovePatientFromDoctor(ctx context.Context, doctorID, patientID uint) (model.Patient, error)
}

// GormDoctorRepository implements DoctorRepository on gorm.
type GormDoctorRepository struct {
	db *gorm.DB
}

var _ DoctorRepository = (*GormDoctorRepository)(nil)

func NewDoctorRepository(db *gorm.DB) *GormDoctorRepository {
	return &GormDoctorRepository{db: db}
}

func (r *GormDoctorRepository) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	doctors := []model.Doctor{}
	if err := r.db.WithContext(ctx).Order("doctor_id").Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (r *GormDoctorRepository) GetDoctor(ctx context.Context, id uint) (model.Doctor, error) {
	return findDoctor(ctx, r.db, id)
}

// CreateDoctor stores a new doctor. Names are not required to be unique.
func (r *GormDoctorRepository) CreateDoctor(ctx context.Context, name string) (model.Doctor, error) {
	name = util.NormalizeName(name)
	if name == "" {
		return model.Doctor{}, fmt.Errorf("doctor name is blank: %w", ErrInvalidInput)
	}
	doctor := model.Doctor{DoctorName: name}
	if err := r.db.WithContext(ctx).Create(&doctor).Error; err != nil {
		return model.Doctor{}, fmt.Errorf("create doctor: %w", err)
	}
	return doctor, nil
}

func (r *GormDoctorRepository) ListPatientsForDoctor(ctx context.Context, doctorID uint) ([]model.Patient, error) {
	if _, err := findDoctor(ctx, r.db, doctorID); err != nil {
		return nil, err
	}
	patients := []model.Patient{}
	err := r.db.WithContext(ctx).
		Model(&model.Patient{}).
		Joins("JOIN doctors_patients ON doctors_patients.patient_id = patients.patient_id").
		Where("doctors_patients.doctor_id = ?", doctorID).
		Order("doctors_patients.doctor_patient_id").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("list patients for doctor %d: %w", doctorID, err)
	}
	return patients, nil
}

func (r *GormDoctorRepository) AddPatientToDoctor(ctx context.Context, doctorID, patientID uint) (model.Patient, error) {
	if _, err := findDoctor(ctx, r.db, doctorID); err != nil {
		return model.Patient{}, err
	}
	patient, err := findPatient(ctx, r.db, patientID)
	if err != nil {
		return model.Patient{}, err
	}
	if err := addAssociation(ctx, r.db, doctorID, patientID); err != nil {
		return model.Patient{}, err
	}
	return patient, nil
}

func (r *GormDoctorRepository) RemovePatientFromDoctor(ctx context.Context, doctorID, patientID uint) (model.Patient, error) {
	if _, err := findDoctor(ctx, r.db, doctorID); err != nil {
		return model.Patient{}, err
	}
	patient, err := findPatient(ctx, r.db, patientID)
	if err != nil {
		return model.Patient{}, err
	}
	if err := removeAssociation(ctx, r.db, doctorID, patientID); err != nil {
		return model.Patient{}, err
	}
	return patient, nil
}

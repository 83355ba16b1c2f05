package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariebrainware/monorec/model"
	"gorm.io/gorm"
)

func findDoctor(ctx context.Context, db *gorm.DB, id uint) (model.Doctor, error) {
	var doctor model.Doctor
	err := db.WithContext(ctx).First(&doctor, "doctor_id = ?", id).Error
	return doctor, translateFirst(err, "doctor", id)
}

func findPatient(ctx context.Context, db *gorm.DB, id uint) (model.Patient, error) {
	var patient model.Patient
	err := db.WithContext(ctx).First(&patient, "patient_id = ?", id).Error
	return patient, translateFirst(err, "patient", id)
}

// addAssociation inserts the (doctorID, patientID) pair. The unique pair
// index backs up the existence check when two requests race.
func addAssociation(ctx context.Context, db *gorm.DB, doctorID, patientID uint) error {
	var count int64
	err := db.WithContext(ctx).Model(&model.DoctorPatient{}).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check association: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("doctor %d and patient %d: %w", doctorID, patientID, ErrAssociationExists)
	}

	link := model.DoctorPatient{DoctorID: doctorID, PatientID: patientID}
	if err := db.WithContext(ctx).Create(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("doctor %d and patient %d: %w", doctorID, patientID, ErrAssociationExists)
		}
		return fmt.Errorf("create association: %w", err)
	}
	return nil
}

// removeAssociation deletes the oldest row linking the pair.
func removeAssociation(ctx context.Context, db *gorm.DB, doctorID, patientID uint) error {
	var link model.DoctorPatient
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Order("doctor_patient_id").
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("doctor %d and patient %d: %w", doctorID, patientID, ErrAssociationNotFound)
	}
	if err != nil {
		return fmt.Errorf("load association: %w", err)
	}

	if err := db.WithContext(ctx).Delete(&model.DoctorPatient{}, link.DoctorPatientID).Error; err != nil {
		return fmt.Errorf("delete association: %w", err)
	}
	return nil
}

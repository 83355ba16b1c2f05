package model

import "time"

// Visit represents one encounter between a doctor and a patient
// @Description Visit information
type Visit struct {
	VisitID   uint      `json:"visitId" gorm:"column:visit_id;primaryKey;autoIncrement" example:"1"`
	DoctorID  uint      `json:"doctorId" gorm:"column:doctor_id;not null;index" example:"1"`
	PatientID uint      `json:"patientId" gorm:"column:patient_id;not null;index" example:"2"`
	VisitDate time.Time `json:"visitDate" gorm:"column:visit_date;not null;index" example:"2026-01-15T09:30:00Z"`
	VisitNote *string   `json:"visitNote" gorm:"column:visit_note;type:text" example:"Follow-up in two weeks"`
}

func (Visit) TableName() string {
	return "visits"
}

// UpdateVisitRequest carries a partial visit update. Nil fields are left untouched.
// @Description Visit update payload
type UpdateVisitRequest struct {
	VisitDate *time.Time `json:"visitDate,omitempty" example:"2026-01-20T10:00:00Z"`
	VisitNote *string    `json:"visitNote,omitempty" example:"Blood pressure normal"`
}

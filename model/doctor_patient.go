package model

// DoctorPatient is one association between a doctor and a patient. A pair
// appears at most once.
type DoctorPatient struct {
	DoctorPatientID uint `json:"doctorPatientId" gorm:"column:doctor_patient_id;primaryKey;autoIncrement"`
	DoctorID        uint `json:"doctorId" gorm:"column:doctor_id;not null;uniqueIndex:idx_doctor_patient_pair"`
	PatientID       uint `json:"patientId" gorm:"column:patient_id;not null;uniqueIndex:idx_doctor_patient_pair;index"`
}

func (DoctorPatient) TableName() string {
	return "doctors_patients"
}

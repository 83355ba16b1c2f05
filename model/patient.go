package model

// Patient represents a patient entity
// @Description Patient information
type Patient struct {
	PatientID    uint    `json:"patientId" gorm:"column:patient_id;primaryKey;autoIncrement" example:"1"`
	PatientName  string  `json:"patientName" gorm:"column:patient_name;type:varchar(255);not null" example:"Alice Patient"`
	PatientEmail *string `json:"patientEmail" gorm:"column:patient_email;type:varchar(191)" example:"alice@monorec.com"`
	UserID       *string `json:"userId" gorm:"column:user_id;type:varchar(36);uniqueIndex" example:"0b7d3f5c-1e2a-4c6b-8d9e-7a6b5c4d3e2f"`
}

func (Patient) TableName() string {
	return "patients"
}

package model

// Doctor represents a doctor entity
// @Description Doctor information
type Doctor struct {
	DoctorID    uint    `json:"doctorId" gorm:"column:doctor_id;primaryKey;autoIncrement" example:"1"`
	DoctorName  string  `json:"doctorName" gorm:"column:doctor_name;type:varchar(255);not null" example:"Dr. Smith"`
	DoctorEmail *string `json:"doctorEmail" gorm:"column:doctor_email;type:varchar(191)" example:"smith@monorec.com"`
	// UserID links the doctor to an identity account; seeded doctors have none.
	UserID *string `json:"userId" gorm:"column:user_id;type:varchar(36);uniqueIndex" example:"6f1c2d0e-8a55-4d4e-9b3e-2f4a1c9d7e21"`
}

func (Doctor) TableName() string {
	return "doctors"
}

package model

import "gorm.io/gorm"

// All lists every model owned by the service, in migration order.
var All = []interface{}{
	&Doctor{},
	&Patient{},
	&DoctorPatient{},
	&Visit{},
	&Role{},
	&User{},
	&Session{},
	&SecurityLog{},
}

// Migrate creates or updates the schema and seeds the roles.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All...); err != nil {
		return err
	}
	return SeedRoles(db)
}

package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityLog is a persisted authentication or authorization event.
type SecurityLog struct {
	gorm.Model
	EventType string `json:"eventType" gorm:"column:event_type;type:varchar(64);index"`
	UserID    string `json:"userId" gorm:"column:user_id;type:varchar(36);index"`
	Email     string `json:"email" gorm:"column:email;type:varchar(191);index"`
	IP        string `json:"ip" gorm:"column:ip;type:varchar(45)"`
	// Location is "City/Country" when the GeoIP lookup succeeds.
	Location  string         `json:"location" gorm:"column:location;type:varchar(255)"`
	UserAgent string         `json:"userAgent" gorm:"column:user_agent;type:varchar(512)"`
	Message   string         `json:"message" gorm:"column:message;type:text"`
	Details   datatypes.JSON `json:"details" gorm:"column:details;type:json"`
}

// TableName overrides the default table name.
func (SecurityLog) TableName() string {
	return "security_logs"
}

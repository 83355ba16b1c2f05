package model

import (
	"time"

	"gorm.io/gorm"
)

// Session records an issued access token so it can be revoked before it expires.
type Session struct {
	gorm.Model
	SessionID string    `json:"session_id" gorm:"column:session_id;type:varchar(36);uniqueIndex;not null"`
	UserID    string    `json:"user_id" gorm:"column:user_id;type:varchar(36);index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"column:expires_at;not null"`
	ClientIP  string    `json:"client_ip" gorm:"column:client_ip;type:varchar(45)"`
	Browser   string    `json:"browser" gorm:"column:browser;type:varchar(512)"`
}

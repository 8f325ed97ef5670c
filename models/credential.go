package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSiteCredential is a creator's personal WordPress login for one site.
// At most one exists per (user, site); a new authentication replaces the old row.
type UserSiteCredential struct {
	ID         string    `json:"id" db:"id" gorm:"type:varchar(36);primaryKey"`
	UserID     string    `json:"userId" db:"user_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_credential_user_site"`
	SiteID     string    `json:"siteId" db:"site_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_credential_user_site;index"`
	WPUsername string    `json:"wpUsername" db:"wp_username" gorm:"column:wp_username;type:text;not null"`
	WPPassword string    `json:"-" db:"wp_password" gorm:"column:wp_password;type:text;not null"`
	WPUserID   string    `json:"wpUserId,omitempty" db:"wp_user_id" gorm:"column:wp_user_id;type:text"`
	IsVerified bool      `json:"isVerified" db:"is_verified" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

func (c *UserSiteCredential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

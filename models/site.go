package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Site is a WordPress installation registered by an administrator
type Site struct {
	ID     string `json:"id" db:"id" gorm:"type:varchar(36);primaryKey"`
	Name   string `json:"name" db:"name" gorm:"type:text;not null"`
	URL    string `json:"url" db:"url" gorm:"type:text;not null"`
	APIURL string `json:"apiUrl" db:"api_url" gorm:"column:api_url;type:text;not null"`
	// Admin credentials are used for site verification and media uploads
	AdminUsername string    `json:"adminUsername" db:"admin_username" gorm:"type:text"`
	AdminPassword string    `json:"-" db:"admin_password" gorm:"type:text"`
	APIToken      string    `json:"-" db:"api_token" gorm:"column:api_token;type:text"`
	SEOPlugin     string    `json:"seoPlugin,omitempty" db:"seo_plugin" gorm:"column:seo_plugin;type:text"`
	IsConnected   bool      `json:"isConnected" db:"is_connected" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

func (s *Site) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

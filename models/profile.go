package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublishingProfile marks that a user may publish to a site
type PublishingProfile struct {
	ID           string    `json:"id" db:"id" gorm:"type:varchar(36);primaryKey"`
	UserID       string    `json:"userId" db:"user_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_profile_user_site"`
	SiteID       string    `json:"siteId" db:"site_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_profile_user_site"`
	CredentialID string    `json:"credentialId" db:"credential_id" gorm:"type:varchar(36);not null"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

func (p *PublishingProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

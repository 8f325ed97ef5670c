package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PublishingStatus string

const (
	PublishingStatusPublished PublishingStatus = "published"
	PublishingStatusFailed    PublishingStatus = "failed"
)

// ArticlePublishing records one successful push of an article to a WordPress site
type ArticlePublishing struct {
	ID        string `json:"id" db:"id" gorm:"type:varchar(36);primaryKey"`
	ArticleID string `json:"articleId" db:"article_id" gorm:"type:varchar(36);not null;index"`
	SiteID    string `json:"siteId" db:"site_id" gorm:"type:varchar(36);not null;index"`
	// CredentialID is the user credential the post was created with
	CredentialID *string          `json:"credentialId,omitempty" db:"credential_id" gorm:"type:varchar(36)"`
	WPPostID     string           `json:"wpPostId" db:"wp_post_id" gorm:"column:wp_post_id;type:text;not null"`
	Link         string           `json:"link,omitempty" db:"link" gorm:"type:text"`
	Status       PublishingStatus `json:"status" db:"status" gorm:"type:varchar(16);not null"`
	PublishedAt  time.Time        `json:"publishedAt" db:"published_at" gorm:"not null"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
}

func (p *ArticlePublishing) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

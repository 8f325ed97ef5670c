package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// Article is a piece of content drafted in the editor
type Article struct {
	ID               string                      `json:"id" db:"id" gorm:"type:varchar(36);primaryKey"`
	UserID           string                      `json:"userId" db:"user_id" gorm:"type:varchar(64);not null;index"`
	SiteID           *string                     `json:"siteId,omitempty" db:"site_id" gorm:"type:varchar(36)"`
	Title            string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Content          string                      `json:"content" db:"content" gorm:"type:text;not null"`
	FeaturedImageURL *string                     `json:"featuredImageUrl,omitempty" db:"featured_image_url" gorm:"column:featured_image_url;type:text"`
	ImageCaption     *string                     `json:"imageCaption,omitempty" db:"image_caption" gorm:"type:text"`
	Categories       datatypes.JSONSlice[int64]  `json:"categories" db:"categories"`
	Tags             datatypes.JSONSlice[TagRef] `json:"tags" db:"tags"`
	SEO              datatypes.JSONMap           `json:"seo,omitempty" db:"seo" gorm:"column:seo"`
	Status           ArticleStatus               `json:"status" db:"status" gorm:"type:varchar(16);not null;default:draft;index"`
	PublishedAt      *time.Time                  `json:"publishedAt,omitempty" db:"published_at"`
	CreatedAt        time.Time                   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time                   `json:"updatedAt" db:"updated_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = ArticleStatusDraft
	}
	return nil
}

func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

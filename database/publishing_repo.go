package database

import (
	"context"

	"github.com/smgmdev/pressdeck/models"
	"gorm.io/gorm"
)

type PublishingRepo struct {
	db *gorm.DB
}

func NewPublishingRepo(db *gorm.DB) *PublishingRepo {
	return &PublishingRepo{db}
}

// FindAll returns every publishing record, newest first
func (r *PublishingRepo) FindAll(ctx context.Context) ([]*models.ArticlePublishing, error) {
	var records []*models.ArticlePublishing
	err := r.db.WithContext(ctx).Order("published_at DESC").Find(&records).Error
	return records, err
}

// FindByArticle returns the publishing records of an article, newest first
func (r *PublishingRepo) FindByArticle(ctx context.Context, articleID string) ([]*models.ArticlePublishing, error) {
	var records []*models.ArticlePublishing
	err := r.db.WithContext(ctx).Where("article_id = ?", articleID).Order("published_at DESC").Find(&records).Error
	return records, err
}

func (r *PublishingRepo) Add(ctx context.Context, record *models.ArticlePublishing) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// DeleteByArticle removes every publishing record of an article
func (r *PublishingRepo) DeleteByArticle(ctx context.Context, articleID string) error {
	return r.db.WithContext(ctx).Where("article_id = ?", articleID).Delete(&models.ArticlePublishing{}).Error
}

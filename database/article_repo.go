package database

import (
	"context"
	"time"

	"github.com/smgmdev/pressdeck/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ArticleRepo struct {
	db *gorm.DB
}

func NewArticleRepo(db *gorm.DB) *ArticleRepo {
	return &ArticleRepo{db}
}

// FindByUser returns a user's articles, most recently edited first
func (r *ArticleRepo) FindByUser(ctx context.Context, userID string) ([]*models.Article, error) {
	var articles []*models.Article
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("updated_at DESC").Find(&articles).Error
	return articles, err
}

// FindByID returns an article by its ID, or nil if it does not exist
func (r *ArticleRepo) FindByID(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&article).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// FindPublished returns every article in published status
func (r *ArticleRepo) FindPublished(ctx context.Context) ([]*models.Article, error) {
	var articles []*models.Article
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ArticleStatusPublished).
		Order("published_at").
		Find(&articles).Error
	return articles, err
}

// FindAll returns all articles
func (r *ArticleRepo) FindAll(ctx context.Context) ([]*models.Article, error) {
	var articles []*models.Article
	err := r.db.WithContext(ctx).Order("created_at").Find(&articles).Error
	return articles, err
}

func (r *ArticleRepo) Add(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

// Update saves every column of an existing article
func (r *ArticleRepo) Update(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

// PublishedState is what a successful publish writes onto the article
type PublishedState struct {
	SiteID           string
	Title            string
	Content          string
	FeaturedImageURL *string
	Categories       []int64
	Tags             []models.TagRef
	PublishedAt      time.Time
}

// MarkPublished moves an article to published status
func (r *ArticleRepo) MarkPublished(ctx context.Context, id string, state PublishedState) error {
	res := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).Updates(map[string]any{
		"status":             models.ArticleStatusPublished,
		"published_at":       state.PublishedAt,
		"site_id":            state.SiteID,
		"title":              state.Title,
		"content":            state.Content,
		"featured_image_url": state.FeaturedImageURL,
		"categories":         datatypes.NewJSONSlice(state.Categories),
		"tags":               datatypes.NewJSONSlice(state.Tags),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an article from the database by id
func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Article{}).Error
}

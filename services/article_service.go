package services

import (
	"context"
	"strings"

	"github.com/smgmdev/pressdeck/database"
	"github.com/smgmdev/pressdeck/errs"
	"github.com/smgmdev/pressdeck/models"
	"gorm.io/datatypes"
)

// ArticleService is the editor's CRUD over a user's own articles
type ArticleService struct {
	db database.Database
}

func NewArticleService(db database.Database) *ArticleService {
	return &ArticleService{db: db}
}

type ArticleInput struct {
	Title            string          `json:"title"`
	Content          string          `json:"content"`
	SiteID           *string         `json:"siteId"`
	FeaturedImageURL *string         `json:"featuredImageUrl"`
	ImageCaption     *string         `json:"imageCaption"`
	Categories       []int64         `json:"categories"`
	Tags             []models.TagRef `json:"tags"`
	SEO              map[string]any  `json:"seo"`
}

func (s *ArticleService) Create(ctx context.Context, userID string, in ArticleInput) (*models.Article, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errs.NewMissingRequiredFieldError("title")
	}
	article := &models.Article{
		UserID: userID,
		Status: models.ArticleStatusDraft,
	}
	applyArticleInput(article, in)

	if err := s.db.ArticleRepo().Add(ctx, article); err != nil {
		return nil, errs.NewDatabaseError("create", "article", err)
	}
	return article, nil
}

func (s *ArticleService) List(ctx context.Context, userID string) ([]*models.Article, error) {
	articles, err := s.db.ArticleRepo().FindByUser(ctx, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "articles", err)
	}
	return articles, nil
}

// Get returns one of the user's articles
func (s *ArticleService) Get(ctx context.Context, userID, articleID string) (*models.Article, error) {
	article, err := s.db.ArticleRepo().FindByID(ctx, articleID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "article", err)
	}
	if article == nil || article.UserID != userID {
		return nil, errs.NewNotFound("article")
	}
	return article, nil
}

// Update edits a draft. Published articles are read-only.
func (s *ArticleService) Update(ctx context.Context, userID, articleID string, in ArticleInput) (*models.Article, error) {
	article, err := s.Get(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	if article.IsPublished() {
		return nil, errs.NewConflictError("published articles cannot be edited")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, errs.NewMissingRequiredFieldError("title")
	}
	applyArticleInput(article, in)

	if err := s.db.ArticleRepo().Update(ctx, article); err != nil {
		return nil, errs.NewDatabaseError("update", "article", err)
	}
	return article, nil
}

// Delete removes an article together with its publishing records
func (s *ArticleService) Delete(ctx context.Context, userID, articleID string) error {
	if _, err := s.Get(ctx, userID, articleID); err != nil {
		return err
	}
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		if err := tx.PublishingRepo().DeleteByArticle(ctx, articleID); err != nil {
			return err
		}
		return tx.ArticleRepo().Delete(ctx, articleID)
	})
	if err != nil {
		return errs.NewTransactionFailedError("deleting article", err)
	}
	return nil
}

// Publishings returns the publish history of one of the user's articles
func (s *ArticleService) Publishings(ctx context.Context, userID, articleID string) ([]*models.ArticlePublishing, error) {
	if _, err := s.Get(ctx, userID, articleID); err != nil {
		return nil, err
	}
	records, err := s.db.PublishingRepo().FindByArticle(ctx, articleID)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "publishing records", err)
	}
	return records, nil
}

func applyArticleInput(article *models.Article, in ArticleInput) {
	article.Title = strings.TrimSpace(in.Title)
	article.Content = in.Content
	article.SiteID = in.SiteID
	article.FeaturedImageURL = in.FeaturedImageURL
	article.ImageCaption = in.ImageCaption
	article.Categories = datatypes.NewJSONSlice(nonNil(in.Categories))
	article.Tags = datatypes.NewJSONSlice(nonNil(in.Tags))
	if in.SEO != nil {
		article.SEO = datatypes.JSONMap(in.SEO)
	} else {
		article.SEO = nil
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

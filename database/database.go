package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Database struct {
	db             *gorm.DB
	siteRepo       *SiteRepo
	credentialRepo *CredentialRepo
	profileRepo    *ProfileRepo
	articleRepo    *ArticleRepo
	publishingRepo *PublishingRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		siteRepo:       NewSiteRepo(db),
		credentialRepo: NewCredentialRepo(db),
		profileRepo:    NewProfileRepo(db),
		articleRepo:    NewArticleRepo(db),
		publishingRepo: NewPublishingRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) SiteRepo() *SiteRepo {
	return d.siteRepo
}

func (d Database) CredentialRepo() *CredentialRepo {
	return d.credentialRepo
}

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}

func (d Database) ArticleRepo() *ArticleRepo {
	return d.articleRepo
}

func (d Database) PublishingRepo() *PublishingRepo {
	return d.publishingRepo
}

// Transaction runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks that the primary connection is alive
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notFound maps gorm's missing-record error onto a nil result
func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

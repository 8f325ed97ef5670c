package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smgmdev/pressdeck/database"
	"github.com/smgmdev/pressdeck/database/dbtest"
	"github.com/smgmdev/pressdeck/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addSite(t *testing.T, db database.Database) *models.Site {
	t.Helper()
	site := &models.Site{Name: "Blog", URL: "https://blog.example", APIURL: "https://blog.example/wp-json"}
	require.NoError(t, db.SiteRepo().Add(context.Background(), site))
	return site
}

func TestSiteRepo_FindByIDMissingReturnsNil(t *testing.T) {
	db := dbtest.New(t)

	site, err := db.SiteRepo().FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, site)
}

func TestSiteRepo_SetConnected(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	site := addSite(t, db)
	assert.False(t, site.IsConnected)

	require.NoError(t, db.SiteRepo().SetConnected(ctx, site.ID, true))

	got, err := db.SiteRepo().FindByID(ctx, site.ID)
	require.NoError(t, err)
	assert.True(t, got.IsConnected)

	assert.Error(t, db.SiteRepo().SetConnected(ctx, "missing", true))
}

func TestCredentialRepo_ReplaceKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	site := addSite(t, db)

	first := &models.UserSiteCredential{UserID: "u1", SiteID: site.ID, WPUsername: "bob", WPPassword: "old"}
	require.NoError(t, db.CredentialRepo().Replace(ctx, first))
	second := &models.UserSiteCredential{UserID: "u1", SiteID: site.ID, WPUsername: "bob", WPPassword: "new", IsVerified: true}
	require.NoError(t, db.CredentialRepo().Replace(ctx, second))

	creds, err := db.CredentialRepo().FindByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, second.ID, creds[0].ID)
	assert.Equal(t, "new", creds[0].WPPassword)
	assert.True(t, creds[0].IsVerified)
}

func TestCredentialRepo_FindForSiteUsersPrefersVerified(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	site := addSite(t, db)

	require.NoError(t, db.CredentialRepo().Replace(ctx, &models.UserSiteCredential{UserID: "u1", SiteID: site.ID, WPUsername: "a", WPPassword: "x"}))
	require.NoError(t, db.CredentialRepo().Replace(ctx, &models.UserSiteCredential{UserID: "u2", SiteID: site.ID, WPUsername: "b", WPPassword: "y", IsVerified: true}))
	require.NoError(t, db.CredentialRepo().Replace(ctx, &models.UserSiteCredential{UserID: "u3", SiteID: site.ID, WPUsername: "c", WPPassword: "z", IsVerified: true}))

	creds, err := db.CredentialRepo().FindForSiteUsers(ctx, site.ID, []string{"u1", "u2"})
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, "u2", creds[0].UserID)
	assert.Equal(t, "u1", creds[1].UserID)

	none, err := db.CredentialRepo().FindForSiteUsers(ctx, site.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	site := addSite(t, db)
	article := &models.Article{UserID: "u1", Title: "Hello", Content: "<p>World</p>"}
	require.NoError(t, db.ArticleRepo().Add(ctx, article))

	boom := errors.New("boom")
	err := db.Transaction(ctx, func(tx database.Database) error {
		require.NoError(t, tx.PublishingRepo().Add(ctx, &models.ArticlePublishing{
			ArticleID:   article.ID,
			SiteID:      site.ID,
			WPPostID:    "900",
			Status:      models.PublishingStatusPublished,
			PublishedAt: time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	records, err := db.PublishingRepo().FindByArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestArticleRepo_MarkPublished(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	site := addSite(t, db)
	article := &models.Article{UserID: "u1", Title: "Hello", Content: "<p>World</p>"}
	require.NoError(t, db.ArticleRepo().Add(ctx, article))
	assert.Equal(t, models.ArticleStatusDraft, article.Status)

	url := "https://blog.example/img.png"
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.ArticleRepo().MarkPublished(ctx, article.ID, database.PublishedState{
		SiteID:           site.ID,
		Title:            "Hello",
		Content:          "<p>World</p>",
		FeaturedImageURL: &url,
		Categories:       []int64{5},
		Tags:             []models.TagRef{models.ExistingTag(7), models.ExistingTag(42)},
		PublishedAt:      now,
	}))

	got, err := db.ArticleRepo().FindByID(ctx, article.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublished())
	require.NotNil(t, got.SiteID)
	assert.Equal(t, site.ID, *got.SiteID)
	assert.Equal(t, []int64{5}, []int64(got.Categories))
	assert.Equal(t, []int64{7, 42}, models.TagIDs(got.Tags))
	require.NotNil(t, got.FeaturedImageURL)
	assert.Equal(t, url, *got.FeaturedImageURL)

	published, err := db.ArticleRepo().FindPublished(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)

	assert.Error(t, db.ArticleRepo().MarkPublished(ctx, "missing", database.PublishedState{}))
}

func TestProfileRepo_SetCredentialAndDelete(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	site := addSite(t, db)

	profile := &models.PublishingProfile{UserID: "u1", SiteID: site.ID, CredentialID: "c1"}
	require.NoError(t, db.ProfileRepo().Add(ctx, profile))
	require.NoError(t, db.ProfileRepo().SetCredential(ctx, profile.ID, "c2"))

	got, err := db.ProfileRepo().FindByUserAndSite(ctx, "u1", site.ID)
	require.NoError(t, err)
	assert.Equal(t, "c2", got.CredentialID)

	n, err := db.ProfileRepo().DeleteByUserAndSite(ctx, "u1", site.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err = db.ProfileRepo().FindByUserAndSite(ctx, "u1", site.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestColumnDriftReport(t *testing.T) {
	gdb := dbtest.Open(t)

	report, err := database.ColumnDriftReport(gdb)
	require.NoError(t, err)
	require.Len(t, report, len(database.Models()))
	for _, table := range report {
		assert.True(t, table.Clean(), "table %s", table.Table)
	}

	require.NoError(t, gdb.Exec("ALTER TABLE sites ADD COLUMN legacy_flag integer").Error)

	report, err = database.ColumnDriftReport(gdb)
	require.NoError(t, err)
	for _, table := range report {
		if table.Table == "sites" {
			assert.Equal(t, []string{"legacy_flag"}, table.UnknownColumns)
			assert.Empty(t, table.MissingColumns)
		}
	}
}

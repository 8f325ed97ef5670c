package services

import (
	"context"
	"testing"

	"github.com/smgmdev/pressdeck/database"
	"github.com/smgmdev/pressdeck/database/dbtest"
	"github.com/smgmdev/pressdeck/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	gdb *gorm.DB
	db  database.Database
	wp  *fakeWordPress
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	return &fixture{gdb: gdb, db: database.New(gdb), wp: newFakeWordPress()}
}

func (f *fixture) site(t *testing.T, connected bool) *models.Site {
	t.Helper()
	ctx := context.Background()
	site := &models.Site{
		Name:          "S1",
		URL:           "https://s1.example",
		APIURL:        "https://s1.example/wp-json",
		AdminUsername: "admin",
		AdminPassword: "admin-pw",
	}
	require.NoError(t, f.db.SiteRepo().Add(ctx, site))
	if connected {
		require.NoError(t, f.db.SiteRepo().SetConnected(ctx, site.ID, true))
		site.IsConnected = true
	}
	return site
}

func (f *fixture) credential(t *testing.T, userID, siteID string, verified bool) *models.UserSiteCredential {
	t.Helper()
	cred := &models.UserSiteCredential{
		UserID:     userID,
		SiteID:     siteID,
		WPUsername: userID + "-wp",
		WPPassword: userID + "-pw",
		IsVerified: verified,
	}
	require.NoError(t, f.db.CredentialRepo().Replace(context.Background(), cred))
	return cred
}

func (f *fixture) article(t *testing.T, userID string) *models.Article {
	t.Helper()
	article := &models.Article{UserID: userID, Title: "Draft", Content: "<p>draft</p>"}
	require.NoError(t, f.db.ArticleRepo().Add(context.Background(), article))
	return article
}

func (f *fixture) countRows(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.gdb.Model(model).Count(&n).Error)
	return n
}

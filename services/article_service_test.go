package services

import (
	"context"
	"testing"
	"time"

	"github.com/smgmdev/pressdeck/errs"
	"github.com/smgmdev/pressdeck/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleService_CRUD(t *testing.T) {
	f := newFixture(t)
	svc := NewArticleService(f.db)
	ctx := context.Background()

	created, err := svc.Create(ctx, "U1", ArticleInput{
		Title:   "Hello",
		Content: "<p>World</p>",
		Tags:    []models.TagRef{models.ExistingTag(7), models.NewTag("go")},
		SEO:     map[string]any{"metaDescription": "greeting"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusDraft, created.Status)

	got, err := svc.Get(ctx, "U1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, []models.TagRef{models.ExistingTag(7), models.NewTag("go")}, []models.TagRef(got.Tags))
	assert.Equal(t, "greeting", got.SEO["metaDescription"])

	_, err = svc.Get(ctx, "U2", created.ID)
	assert.True(t, errs.IsNotFound(err))

	updated, err := svc.Update(ctx, "U1", created.ID, ArticleInput{Title: "Hello again", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Hello again", updated.Title)

	list, err := svc.List(ctx, "U1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, "U1", created.ID))
	_, err = svc.Get(ctx, "U1", created.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestArticleService_PublishedIsReadOnlyAndDeleteRemovesRecords(t *testing.T) {
	f := newFixture(t)
	site := f.site(t, true)
	cred := f.credential(t, "U1", site.ID, true)
	article := f.published(t, "U1", site, cred, "5")
	svc := NewArticleService(f.db)
	ctx := context.Background()

	_, err := svc.Update(ctx, "U1", article.ID, ArticleInput{Title: "edit"})
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)

	history, err := svc.Publishings(ctx, "U1", article.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.WithinDuration(t, time.Now(), history[0].PublishedAt, time.Minute)

	require.NoError(t, svc.Delete(ctx, "U1", article.ID))
	assert.Zero(t, f.countRows(t, &models.ArticlePublishing{}))
}

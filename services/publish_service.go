package services

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/smgmdev/pressdeck/database"
	"github.com/smgmdev/pressdeck/errs"
	"github.com/smgmdev/pressdeck/models"
	"github.com/smgmdev/pressdeck/wordpress"
)

// PublishService pushes drafted articles to WordPress and records the result
type PublishService struct {
	db        database.Database
	wp        WordPress
	locker    Locker
	sanitizer *bluemonday.Policy
	archiver  ImageArchiver
	clock     func() time.Time
}

type PublishOption func(*PublishService)

// WithLocker replaces the default in-process publish lock
func WithLocker(l Locker) PublishOption {
	return func(s *PublishService) {
		s.locker = l
	}
}

// ContentPolicy is a user-content policy that keeps WordPress block markup:
// block comments, class attributes and https iframe embeds.
func ContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowComments()
	p.AllowAttrs("class").Globally()
	p.AllowElements("iframe")
	p.AllowAttrs("width", "height", "title", "frameborder", "allow", "allowfullscreen").OnElements("iframe")
	p.AllowAttrs("src").Matching(httpsURL).OnElements("iframe")
	return p
}

var httpsURL = regexp.MustCompile(`^https://`)

// WithSanitizer filters article HTML through policy before it is posted
func WithSanitizer(policy *bluemonday.Policy) PublishOption {
	return func(s *PublishService) {
		s.sanitizer = policy
	}
}

// WithArchiver keeps a copy of uploaded featured images
func WithArchiver(a ImageArchiver) PublishOption {
	return func(s *PublishService) {
		s.archiver = a
	}
}

func WithClock(clock func() time.Time) PublishOption {
	return func(s *PublishService) {
		s.clock = clock
	}
}

func NewPublishService(db database.Database, wp WordPress, opts ...PublishOption) *PublishService {
	s := &PublishService{
		db:     db,
		wp:     wp,
		locker: NewMemoryLocker(2 * time.Minute),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PublishInput describes one publish request. Empty Title or Content fall
// back to the stored article.
type PublishInput struct {
	ArticleID     string          `json:"-"`
	SiteID        string          `json:"siteId"`
	UserID        string          `json:"-"`
	Title         string          `json:"title"`
	Content       string          `json:"content"`
	Categories    []int64         `json:"categories"`
	Tags          []models.TagRef `json:"tags"`
	FeaturedImage string          `json:"featuredImage,omitempty"`
}

type PublishResult struct {
	Success          bool    `json:"success"`
	WPPostID         int64   `json:"wpPostId"`
	URL              string  `json:"url"`
	FeaturedImageURL *string `json:"featuredImageUrl,omitempty"`
	// Warnings lists the optional steps that were skipped
	Warnings []string `json:"warnings,omitempty"`
}

// PublishArticle runs the publish workflow:
// entry guard, optional image upload, tag resolution, post creation, then a
// single transaction recording the publish. Nothing is written locally unless
// WordPress accepted the post.
func (s *PublishService) PublishArticle(ctx context.Context, in PublishInput) (*PublishResult, error) {
	logger := log.With().
		Str("articleId", in.ArticleID).
		Str("siteId", in.SiteID).
		Str("userId", in.UserID).
		Logger()

	site, cred, article, err := s.checkEntry(ctx, in)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.TryLock(ctx, "publish:"+article.ID)
	if errors.Is(err, ErrLockHeld) {
		return nil, errs.NewPublishInProgress(article.ID)
	}
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("acquiring publish lock", err)
	}
	defer unlock()

	title := firstNonEmptyString(strings.TrimSpace(in.Title), article.Title)
	if title == "" {
		return nil, errs.NewMissingRequiredFieldError("title")
	}
	content := firstNonEmptyString(in.Content, article.Content)
	// only the remote copy is filtered; the article keeps what the author wrote
	postContent := content
	if s.sanitizer != nil {
		postContent = s.sanitizer.Sanitize(content)
	}
	categories := in.Categories
	if categories == nil {
		categories = append([]int64{}, article.Categories...)
	}
	tags := in.Tags
	if tags == nil {
		tags = append([]models.TagRef{}, article.Tags...)
	}

	result := &PublishResult{}
	userCreds := userCredentials(cred)

	var media *wordpress.Media
	if in.FeaturedImage != "" {
		media = s.uploadFeaturedImage(ctx, logger, site, article.ID, in.FeaturedImage, result)
	}

	resolvedTags := s.resolveTags(ctx, logger, site, userCreds, tags, result)

	fields := wordpress.PostFields{
		Title:      title,
		Content:    postContent,
		Status:     "publish",
		Categories: categories,
		Tags:       models.TagIDs(resolvedTags),
	}
	if media != nil {
		fields.FeaturedMedia = &media.ID
	}

	post, err := s.wp.CreatePost(ctx, site.APIURL, userCreds, fields)
	if err != nil {
		logger.Warn().Str("code", errs.CodeOf(err)).Err(err).Msg("WordPress rejected the post")
		return nil, err
	}

	var featuredImageURL *string
	if media != nil {
		featuredImageURL = s.resolveMediaURL(ctx, logger, site, userCreds, media, result)
	}

	now := s.clock().UTC()
	credentialID := cred.ID
	record := &models.ArticlePublishing{
		ArticleID:    article.ID,
		SiteID:       site.ID,
		CredentialID: &credentialID,
		WPPostID:     strconv.FormatInt(post.ID, 10),
		Link:         post.Link,
		Status:       models.PublishingStatusPublished,
		PublishedAt:  now,
	}
	err = s.db.Transaction(ctx, func(tx database.Database) error {
		if err := tx.PublishingRepo().Add(ctx, record); err != nil {
			return err
		}
		return tx.ArticleRepo().MarkPublished(ctx, article.ID, database.PublishedState{
			SiteID:           site.ID,
			Title:            title,
			Content:          content,
			FeaturedImageURL: featuredImageURL,
			Categories:       categories,
			Tags:             resolvedTags,
			PublishedAt:      now,
		})
	})
	if err != nil {
		// the remote post exists; surface enough to reconcile by hand
		logger.Error().Err(err).Int64("wpPostId", post.ID).Str("link", post.Link).Msg("Post created but recording the publish failed")
		return nil, errs.NewTransactionFailedError("recording publish", err)
	}

	logger.Info().Int64("wpPostId", post.ID).Str("link", post.Link).Msg("Article published")
	result.Success = true
	result.WPPostID = post.ID
	result.URL = post.Link
	result.FeaturedImageURL = featuredImageURL
	return result, nil
}

// checkEntry validates everything that can be checked locally. It makes no
// remote calls and no writes.
func (s *PublishService) checkEntry(ctx context.Context, in PublishInput) (*models.Site, *models.UserSiteCredential, *models.Article, error) {
	if in.ArticleID == "" {
		return nil, nil, nil, errs.NewMissingRequiredFieldError("articleId")
	}
	if in.SiteID == "" {
		return nil, nil, nil, errs.NewMissingRequiredFieldError("siteId")
	}

	site, err := s.db.SiteRepo().FindByID(ctx, in.SiteID)
	if err != nil {
		return nil, nil, nil, errs.NewDatabaseError("find", "site", err)
	}
	if site == nil {
		return nil, nil, nil, errs.NewNotFound("site")
	}

	cred, err := s.db.CredentialRepo().FindByUserAndSite(ctx, in.UserID, site.ID)
	if err != nil {
		return nil, nil, nil, errs.NewDatabaseError("find", "credential", err)
	}
	if cred == nil || !cred.IsVerified {
		return nil, nil, nil, errs.NewNotAuthenticated()
	}

	article, err := s.db.ArticleRepo().FindByID(ctx, in.ArticleID)
	if err != nil {
		return nil, nil, nil, errs.NewDatabaseError("find", "article", err)
	}
	if article == nil {
		return nil, nil, nil, errs.NewNotFound("article")
	}
	if article.UserID != in.UserID {
		return nil, nil, nil, errs.NewForbiddenError("article belongs to another user")
	}
	return site, cred, article, nil
}

// uploadFeaturedImage uploads with the site's admin credentials. Every failure
// is absorbed and the publish continues without an image.
func (s *PublishService) uploadFeaturedImage(ctx context.Context, logger zerolog.Logger, site *models.Site, articleID, dataURL string, result *PublishResult) *wordpress.Media {
	img, err := wordpress.DecodeDataURL(dataURL, "article-"+articleID)
	if err != nil {
		logger.Warn().Err(err).Msg("Featured image could not be decoded, publishing without it")
		result.Warnings = append(result.Warnings, "featured image could not be decoded")
		return nil
	}

	if s.archiver != nil {
		if key, err := s.archiver.Archive(ctx, articleID, img); err != nil {
			logger.Warn().Err(err).Msg("Featured image archive failed")
		} else {
			logger.Debug().Str("key", key).Msg("Featured image archived")
		}
	}

	if site.AdminUsername == "" || site.AdminPassword == "" {
		logger.Warn().Msg("Site has no admin credentials, publishing without featured image")
		result.Warnings = append(result.Warnings, "site has no admin credentials for media upload")
		return nil
	}

	media, err := s.wp.UploadMedia(ctx, site.APIURL, adminCredentials(site), img)
	if err != nil {
		logger.Warn().Str("code", errs.CodeOf(err)).Err(err).Msg("Featured image upload failed, publishing without it")
		result.Warnings = append(result.Warnings, "featured image upload failed")
		return nil
	}
	return media
}

// resolveTags turns every new tag name into a remote id. Tags that cannot be
// created are dropped.
func (s *PublishService) resolveTags(ctx context.Context, logger zerolog.Logger, site *models.Site, creds wordpress.Credentials, tags []models.TagRef, result *PublishResult) []models.TagRef {
	resolved := make([]models.TagRef, 0, len(tags))
	seen := make(map[int64]bool, len(tags))
	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			resolved = append(resolved, models.ExistingTag(id))
		}
	}

	for _, tag := range tags {
		if !tag.IsNew() {
			add(tag.ID)
			continue
		}
		name := strings.TrimSpace(tag.Name)
		if name == "" {
			continue
		}
		created, err := s.wp.CreateTag(ctx, site.APIURL, creds, name)
		if err != nil {
			logger.Warn().Str("tag", name).Str("code", errs.CodeOf(err)).Err(err).Msg("Tag creation failed, omitting tag")
			result.Warnings = append(result.Warnings, "tag "+strconv.Quote(name)+" could not be created")
			continue
		}
		add(created.ID)
	}
	return resolved
}

// resolveMediaURL looks up the public URL of an uploaded image. It never fails the publish.
func (s *PublishService) resolveMediaURL(ctx context.Context, logger zerolog.Logger, site *models.Site, creds wordpress.Credentials, media *wordpress.Media, result *PublishResult) *string {
	fetched, err := s.wp.FetchMedia(ctx, site.APIURL, creds, media.ID)
	if err == nil && fetched.SourceURL != "" {
		return &fetched.SourceURL
	}
	if err != nil {
		logger.Warn().Int64("mediaId", media.ID).Err(err).Msg("Media lookup failed")
	}
	if media.SourceURL != "" {
		return &media.SourceURL
	}
	result.Warnings = append(result.Warnings, "featured image URL unavailable")
	return nil
}

func firstNonEmptyString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

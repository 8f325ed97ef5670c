package services

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/smgmdev/pressdeck/database"
	"github.com/smgmdev/pressdeck/errs"
	"github.com/smgmdev/pressdeck/models"
	"github.com/smgmdev/pressdeck/wordpress"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ReconcileService prunes published articles whose WordPress post is gone
type ReconcileService struct {
	db          database.Database
	wp          WordPress
	concurrency int
	rps         rate.Limit
	// serializes sweeps; a second caller waits for the running one
	running sync.Mutex
}

func NewReconcileService(db database.Database, wp WordPress, concurrency int, rps float64) *ReconcileService {
	if concurrency < 1 {
		concurrency = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &ReconcileService{db: db, wp: wp, concurrency: concurrency, rps: limit}
}

type ReconcileResult struct {
	DeletedCount int               `json:"deletedCount"`
	DeletedIDs   []string          `json:"deletedIds"`
	Unverifiable int               `json:"unverifiable"`
	Articles     []*models.Article `json:"articles"`
}

// siteGroup is the published articles whose latest publish went to one site
type siteGroup struct {
	siteID   string
	articles []*models.Article
	records  map[string]*models.ArticlePublishing
}

// sweep collects results from concurrently processed groups
type sweep struct {
	mu           sync.Mutex
	deleted      []string
	unverifiable int
}

func (s *sweep) addDeleted(id string) {
	s.mu.Lock()
	s.deleted = append(s.deleted, id)
	s.mu.Unlock()
}

func (s *sweep) addUnverifiable(n int) {
	s.mu.Lock()
	s.unverifiable += n
	s.mu.Unlock()
}

// ReconcilePublishedArticles re-checks every published article against its
// site. Only a post WordPress confirms missing is deleted locally; network
// errors and authentication failures leave the article untouched.
func (s *ReconcileService) ReconcilePublishedArticles(ctx context.Context) (*ReconcileResult, error) {
	s.running.Lock()
	defer s.running.Unlock()

	logger := log.With().Str("component", "reconcile").Logger()

	groups, skipped, err := s.loadGroups(ctx)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		logger.Debug().Int("articles", skipped).Msg("Published articles without a publishing record skipped")
	}

	siteIDs := make([]string, 0, len(groups))
	for _, g := range groups {
		siteIDs = append(siteIDs, g.siteID)
	}
	sites, err := s.db.SiteRepo().FindByIDs(ctx, siteIDs)
	if err != nil {
		return nil, errs.NewDatabaseError("load", "sites", err)
	}

	var result sweep
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, group := range groups {
		group := group
		g.Go(func() error {
			return s.reconcileGroup(gctx, logger.With().Str("siteId", group.siteID).Logger(), sites[group.siteID], group, &result)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	articles, err := s.db.ArticleRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "articles", err)
	}

	sort.Strings(result.deleted)
	deleted := result.deleted
	if deleted == nil {
		deleted = []string{}
	}
	logger.Info().
		Int("groups", len(groups)).
		Int("deleted", len(deleted)).
		Int("unverifiable", result.unverifiable).
		Msg("Reconciliation finished")

	return &ReconcileResult{
		DeletedCount: len(deleted),
		DeletedIDs:   deleted,
		Unverifiable: result.unverifiable,
		Articles:     articles,
	}, nil
}

// loadGroups groups published articles by the site of their latest publishing record.
// It also returns the number of published articles that have no record.
func (s *ReconcileService) loadGroups(ctx context.Context) ([]*siteGroup, int, error) {
	articles, err := s.db.ArticleRepo().FindPublished(ctx)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("list", "published articles", err)
	}
	records, err := s.db.PublishingRepo().FindAll(ctx)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("list", "publishing records", err)
	}

	// records arrive newest first, keep the first per article
	latest := make(map[string]*models.ArticlePublishing, len(records))
	for _, r := range records {
		if _, ok := latest[r.ArticleID]; !ok {
			latest[r.ArticleID] = r
		}
	}

	bySite := make(map[string]*siteGroup)
	var order []string
	skipped := 0
	for _, a := range articles {
		record, ok := latest[a.ID]
		if !ok {
			skipped++
			continue
		}
		group, ok := bySite[record.SiteID]
		if !ok {
			group = &siteGroup{siteID: record.SiteID, records: make(map[string]*models.ArticlePublishing)}
			bySite[record.SiteID] = group
			order = append(order, record.SiteID)
		}
		group.articles = append(group.articles, a)
		group.records[a.ID] = record
	}

	groups := make([]*siteGroup, 0, len(order))
	for _, id := range order {
		groups = append(groups, bySite[id])
	}
	return groups, skipped, nil
}

func (s *ReconcileService) reconcileGroup(ctx context.Context, logger zerolog.Logger, site *models.Site, group *siteGroup, result *sweep) error {
	if site == nil {
		logger.Warn().Int("articles", len(group.articles)).Msg("Site no longer exists, skipping group")
		result.addUnverifiable(len(group.articles))
		return nil
	}

	owners := make([]string, 0, len(group.articles))
	seenOwner := make(map[string]bool)
	for _, a := range group.articles {
		if !seenOwner[a.UserID] {
			seenOwner[a.UserID] = true
			owners = append(owners, a.UserID)
		}
	}
	candidates, err := s.db.CredentialRepo().FindForSiteUsers(ctx, site.ID, owners)
	if err != nil {
		logger.Warn().Err(err).Msg("Loading credentials failed, skipping group")
		result.addUnverifiable(len(group.articles))
		return nil
	}
	byID := make(map[string]*models.UserSiteCredential, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	limiter := rate.NewLimiter(s.rps, 1)
	for _, article := range group.articles {
		record := group.records[article.ID]

		cred := pickCredential(record, byID, candidates)
		if cred == nil {
			logger.Warn().Str("articleId", article.ID).Msg("No credential available, article left as is")
			result.addUnverifiable(1)
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		lookup, err := s.wp.FetchPost(ctx, site.APIURL, userCredentials(cred), record.WPPostID)
		articleLog := logger.With().Str("articleId", article.ID).Str("wpPostId", record.WPPostID).Logger()
		if err != nil {
			articleLog.Warn().Err(err).Msg("Post lookup failed, article left as is")
			result.addUnverifiable(1)
			continue
		}

		switch lookup.State {
		case wordpress.PostExists:
			continue
		case wordpress.PostMissing:
			if err := s.deleteArticle(ctx, article.ID); err != nil {
				articleLog.Error().Err(err).Msg("Deleting article whose post is gone failed")
				continue
			}
			articleLog.Info().Str("reason", lookup.Reason).Msg("Post no longer exists, article deleted")
			result.addDeleted(article.ID)
		default:
			articleLog.Warn().Str("reason", lookup.Reason).Int("remoteStatus", lookup.RemoteStatus).Msg("Post state unverifiable, article left as is")
			result.addUnverifiable(1)
		}
	}
	return nil
}

// pickCredential prefers the credential the post was published with and
// falls back to the first credential of any owner in the group.
func pickCredential(record *models.ArticlePublishing, byID map[string]*models.UserSiteCredential, candidates []*models.UserSiteCredential) *models.UserSiteCredential {
	if record.CredentialID != nil {
		if cred, ok := byID[*record.CredentialID]; ok {
			return cred
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}

func (s *ReconcileService) deleteArticle(ctx context.Context, articleID string) error {
	return s.db.Transaction(ctx, func(tx database.Database) error {
		if err := tx.PublishingRepo().DeleteByArticle(ctx, articleID); err != nil {
			return err
		}
		return tx.ArticleRepo().Delete(ctx, articleID)
	})
}

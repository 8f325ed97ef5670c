package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/smgmdev/pressdeck/database"
	"github.com/smgmdev/pressdeck/errs"
	"github.com/smgmdev/pressdeck/models"
	"github.com/smgmdev/pressdeck/wordpress"
)

// SiteService registers WordPress sites and verifies admin access to them
type SiteService struct {
	db database.Database
	wp WordPress
}

func NewSiteService(db database.Database, wp WordPress) *SiteService {
	return &SiteService{db: db, wp: wp}
}

type CreateSiteInput struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	APIURL        string `json:"apiUrl"`
	AdminUsername string `json:"adminUsername"`
	AdminPassword string `json:"adminPassword"`
	APIToken      string `json:"apiToken"`
	SEOPlugin     string `json:"seoPlugin"`
}

// CreateSite stores a new, not yet connected site. When no API URL is given
// it defaults to <url>/wp-json.
func (s *SiteService) CreateSite(ctx context.Context, in CreateSiteInput) (*models.Site, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errs.NewMissingRequiredFieldError("name")
	}
	siteURL, err := normalizeURL("url", in.URL)
	if err != nil {
		return nil, err
	}
	apiURL := siteURL + "/wp-json"
	if strings.TrimSpace(in.APIURL) != "" {
		if apiURL, err = normalizeURL("apiUrl", in.APIURL); err != nil {
			return nil, err
		}
	}

	site := &models.Site{
		Name:          name,
		URL:           siteURL,
		APIURL:        apiURL,
		AdminUsername: strings.TrimSpace(in.AdminUsername),
		AdminPassword: in.AdminPassword,
		APIToken:      in.APIToken,
		SEOPlugin:     in.SEOPlugin,
	}
	if err := s.db.SiteRepo().Add(ctx, site); err != nil {
		return nil, errs.NewDatabaseError("create", "site", err)
	}
	log.Info().Str("siteId", site.ID).Str("url", site.URL).Msg("Site registered")
	return site, nil
}

func (s *SiteService) ListSites(ctx context.Context) ([]*models.Site, error) {
	sites, err := s.db.SiteRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "sites", err)
	}
	return sites, nil
}

func (s *SiteService) GetSite(ctx context.Context, siteID string) (*models.Site, error) {
	site, err := s.db.SiteRepo().FindByID(ctx, siteID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "site", err)
	}
	if site == nil {
		return nil, errs.NewNotFound("site")
	}
	return site, nil
}

// VerifySiteResult is returned by a successful verification
type VerifySiteResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Site    *models.Site `json:"site"`
}

// VerifySite checks the supplied admin credentials against the site's REST API
// and marks the site connected. The credentials are not stored; a failed check
// leaves the site untouched.
func (s *SiteService) VerifySite(ctx context.Context, siteID, adminUsername, adminPassword string) (*VerifySiteResult, error) {
	logger := log.With().Str("siteId", siteID).Logger()

	site, err := s.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(adminUsername) == "" {
		return nil, errs.NewMissingRequiredFieldError("adminUsername")
	}
	if adminPassword == "" {
		return nil, errs.NewMissingRequiredFieldError("adminPassword")
	}

	user, err := s.wp.VerifyIdentity(ctx, site.APIURL, wordpress.Credentials{Username: adminUsername, Password: adminPassword})
	if err != nil {
		logger.Warn().Str("code", errs.CodeOf(err)).Err(err).Msg("Site verification failed")
		return nil, err
	}

	if err := s.db.SiteRepo().SetConnected(ctx, site.ID, true); err != nil {
		return nil, errs.NewDatabaseError("update", "site", err)
	}
	site.IsConnected = true

	logger.Info().Int64("wpUserId", user.ID).Msg("Site verified")
	return &VerifySiteResult{
		Success: true,
		Message: fmt.Sprintf("Connected as %s", user.Name),
		Site:    site,
	}, nil
}

// AdminCredentialsUpdate holds the fields to change; nil fields keep their stored value
type AdminCredentialsUpdate struct {
	AdminUsername *string `json:"adminUsername"`
	AdminPassword *string `json:"adminPassword"`
	APIToken      *string `json:"apiToken"`
	APIURL        *string `json:"apiUrl"`
	SEOPlugin     *string `json:"seoPlugin"`
}

// UpdateAdminCredentials rotates the stored admin credentials of a site
func (s *SiteService) UpdateAdminCredentials(ctx context.Context, siteID string, upd AdminCredentialsUpdate) (*models.Site, error) {
	site, err := s.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}

	if upd.AdminUsername != nil {
		site.AdminUsername = strings.TrimSpace(*upd.AdminUsername)
	}
	if upd.AdminPassword != nil {
		site.AdminPassword = *upd.AdminPassword
	}
	if upd.APIToken != nil {
		site.APIToken = *upd.APIToken
	}
	if upd.SEOPlugin != nil {
		site.SEOPlugin = *upd.SEOPlugin
	}
	if upd.APIURL != nil {
		apiURL, err := normalizeURL("apiUrl", *upd.APIURL)
		if err != nil {
			return nil, err
		}
		site.APIURL = apiURL
	}

	if err := s.db.SiteRepo().Update(ctx, site); err != nil {
		return nil, errs.NewDatabaseError("update", "site", err)
	}
	log.Info().Str("siteId", site.ID).Msg("Site admin credentials updated")
	return site, nil
}

func normalizeURL(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errs.NewMissingRequiredFieldError(field)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errs.NewInvalidFieldError(field, "must be an absolute http(s) URL")
	}
	return strings.TrimRight(raw, "/"), nil
}

package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/smgmdev/pressdeck/database"
	"github.com/smgmdev/pressdeck/errs"
	"github.com/smgmdev/pressdeck/models"
	"github.com/smgmdev/pressdeck/wordpress"
)

// AuthService connects creators' personal WordPress accounts to sites
type AuthService struct {
	db database.Database
	wp WordPress
}

func NewAuthService(db database.Database, wp WordPress) *AuthService {
	return &AuthService{db: db, wp: wp}
}

type AuthenticateResult struct {
	Success    bool                       `json:"success"`
	Profile    *models.PublishingProfile  `json:"profile"`
	Credential *models.UserSiteCredential `json:"credential"`
}

// AuthenticateUserToSite verifies a creator's WordPress login against an
// admin-verified site and stores it as their only credential for that site.
// Any earlier credential for the pair is replaced.
func (s *AuthService) AuthenticateUserToSite(ctx context.Context, userID, siteID, wpUsername, wpPassword string) (*AuthenticateResult, error) {
	logger := log.With().Str("userId", userID).Str("siteId", siteID).Logger()

	site, err := s.db.SiteRepo().FindByID(ctx, siteID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "site", err)
	}
	if site == nil {
		return nil, errs.NewNotFound("site")
	}
	if !site.IsConnected {
		return nil, errs.NewSiteNotVerified()
	}

	wpUsername = strings.TrimSpace(wpUsername)
	if wpUsername == "" {
		return nil, errs.NewMissingRequiredFieldError("wpUsername")
	}
	if wpPassword == "" {
		return nil, errs.NewMissingRequiredFieldError("wpPassword")
	}

	user, err := s.wp.VerifyIdentity(ctx, site.APIURL, wordpress.Credentials{Username: wpUsername, Password: wpPassword})
	if err != nil {
		logger.Warn().Str("code", errs.CodeOf(err)).Err(err).Msg("User authentication to site failed")
		return nil, err
	}

	cred := &models.UserSiteCredential{
		UserID:     userID,
		SiteID:     site.ID,
		WPUsername: wpUsername,
		WPPassword: wpPassword,
		WPUserID:   strconv.FormatInt(user.ID, 10),
		IsVerified: true,
	}

	var profile *models.PublishingProfile
	err = s.db.Transaction(ctx, func(tx database.Database) error {
		if err := tx.CredentialRepo().Replace(ctx, cred); err != nil {
			return err
		}

		existing, err := tx.ProfileRepo().FindByUserAndSite(ctx, userID, site.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			profile = &models.PublishingProfile{UserID: userID, SiteID: site.ID, CredentialID: cred.ID}
			return tx.ProfileRepo().Add(ctx, profile)
		}
		if err := tx.ProfileRepo().SetCredential(ctx, existing.ID, cred.ID); err != nil {
			return err
		}
		existing.CredentialID = cred.ID
		profile = existing
		return nil
	})
	if err != nil {
		return nil, errs.NewTransactionFailedError("storing site credential", err)
	}

	logger.Info().Str("wpUserId", cred.WPUserID).Msg("User authenticated to site")
	return &AuthenticateResult{Success: true, Profile: profile, Credential: cred}, nil
}

// DisconnectUserFromSite removes the user's credential and publishing profile for a site
func (s *AuthService) DisconnectUserFromSite(ctx context.Context, userID, siteID string) error {
	var removed int64
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		n, err := tx.CredentialRepo().DeleteByUserAndSite(ctx, userID, siteID)
		if err != nil {
			return err
		}
		removed += n
		n, err = tx.ProfileRepo().DeleteByUserAndSite(ctx, userID, siteID)
		removed += n
		return err
	})
	if err != nil {
		return errs.NewTransactionFailedError("disconnecting from site", err)
	}
	if removed == 0 {
		return errs.NewNotFound("credential")
	}
	log.Info().Str("userId", userID).Str("siteId", siteID).Msg("User disconnected from site")
	return nil
}

// ListProfiles returns the sites a user may publish to
func (s *AuthService) ListProfiles(ctx context.Context, userID string) ([]*models.PublishingProfile, error) {
	profiles, err := s.db.ProfileRepo().FindByUser(ctx, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "publishing profiles", err)
	}
	return profiles, nil
}

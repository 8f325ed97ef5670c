package services

import (
	"context"
	"testing"

	"github.com/smgmdev/pressdeck/errs"
	"github.com/smgmdev/pressdeck/models"
	"github.com/smgmdev/pressdeck/wordpress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticateUserToSite_UnverifiedSiteMakesNoRemoteCalls(t *testing.T) {
	f := newFixture(t)
	site := f.site(t, false)

	_, err := NewAuthService(f.db, f.wp).AuthenticateUserToSite(context.Background(), "u1", site.ID, "bob", "right-pw")

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, errs.IsSiteNotVerified(err))
	assert.NotEmpty(t, apiErr.Hint)
	assert.Zero(t, f.wp.totalCalls())
	assert.Zero(t, f.countRows(t, &models.UserSiteCredential{}))
}

func TestAuthenticateUserToSite_WrongPasswordCreatesNothing(t *testing.T) {
	f := newFixture(t)
	site := f.site(t, true)
	f.wp.verifyFn = func(wordpress.Credentials) (*wordpress.User, error) {
		return nil, errs.NewAuthFailed(nil)
	}

	_, err := NewAuthService(f.db, f.wp).AuthenticateUserToSite(context.Background(), "U1", site.ID, "bob", "wrong-pw")

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Authentication failed", apiErr.Error())
	assert.Contains(t, apiErr.Hint, "Basic Auth")
	assert.Zero(t, f.countRows(t, &models.UserSiteCredential{}))
	assert.Zero(t, f.countRows(t, &models.PublishingProfile{}))
}

func TestAuthenticateUserToSite_StoresVerifiedCredentialAndProfile(t *testing.T) {
	f := newFixture(t)
	site := f.site(t, true)
	f.wp.verifyFn = func(creds wordpress.Credentials) (*wordpress.User, error) {
		return &wordpress.User{ID: 77, Name: "Bob"}, nil
	}
	ctx := context.Background()

	res, err := NewAuthService(f.db, f.wp).AuthenticateUserToSite(ctx, "u1", site.ID, "bob", "right-pw")
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotNil(t, res.Profile)

	cred, err := f.db.CredentialRepo().FindByUserAndSite(ctx, "u1", site.ID)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.True(t, cred.IsVerified)
	assert.Equal(t, "77", cred.WPUserID)
	assert.Equal(t, cred.ID, res.Profile.CredentialID)
}

func TestAuthenticateUserToSite_ReauthenticationReplacesCredential(t *testing.T) {
	f := newFixture(t)
	site := f.site(t, true)
	ctx := context.Background()
	svc := NewAuthService(f.db, f.wp)

	first, err := svc.AuthenticateUserToSite(ctx, "u1", site.ID, "bob", "pw-1")
	require.NoError(t, err)
	second, err := svc.AuthenticateUserToSite(ctx, "u1", site.ID, "bob", "pw-2")
	require.NoError(t, err)

	assert.Equal(t, int64(1), f.countRows(t, &models.UserSiteCredential{}))
	assert.Equal(t, int64(1), f.countRows(t, &models.PublishingProfile{}))
	assert.Equal(t, first.Profile.ID, second.Profile.ID)
	assert.Equal(t, second.Credential.ID, second.Profile.CredentialID)

	cred, err := f.db.CredentialRepo().FindByUserAndSite(ctx, "u1", site.ID)
	require.NoError(t, err)
	assert.Equal(t, "pw-2", cred.WPPassword)
}

func TestAuthenticateUserToSite_MissingSite(t *testing.T) {
	f := newFixture(t)

	_, err := NewAuthService(f.db, f.wp).AuthenticateUserToSite(context.Background(), "u1", "nope", "bob", "pw")
	assert.True(t, errs.IsNotFound(err))
	assert.Zero(t, f.wp.totalCalls())
}

func TestDisconnectUserFromSite(t *testing.T) {
	f := newFixture(t)
	site := f.site(t, true)
	ctx := context.Background()
	svc := NewAuthService(f.db, f.wp)

	_, err := svc.AuthenticateUserToSite(ctx, "u1", site.ID, "bob", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.DisconnectUserFromSite(ctx, "u1", site.ID))
	assert.Zero(t, f.countRows(t, &models.UserSiteCredential{}))
	assert.Zero(t, f.countRows(t, &models.PublishingProfile{}))

	assert.True(t, errs.IsNotFound(svc.DisconnectUserFromSite(ctx, "u1", site.ID)))
}

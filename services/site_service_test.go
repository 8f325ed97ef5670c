package services

import (
	"context"
	"testing"

	"github.com/smgmdev/pressdeck/errs"
	"github.com/smgmdev/pressdeck/wordpress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySite_MarksConnected(t *testing.T) {
	f := newFixture(t)
	site := f.site(t, false)
	f.wp.verifyFn = func(creds wordpress.Credentials) (*wordpress.User, error) {
		assert.Equal(t, "admin", creds.Username)
		assert.Equal(t, "right-pw", creds.Password)
		return &wordpress.User{ID: 1, Name: "Site Admin"}, nil
	}

	res, err := NewSiteService(f.db, f.wp).VerifySite(context.Background(), site.ID, "admin", "right-pw")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "Site Admin")

	stored, err := f.db.SiteRepo().FindByID(context.Background(), site.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsConnected)
	// verification does not store the supplied credentials
	assert.Equal(t, "admin-pw", stored.AdminPassword)
}

func TestVerifySite_401LeavesSiteUntouched(t *testing.T) {
	f := newFixture(t)
	site := f.site(t, false)
	f.wp.verifyFn = func(wordpress.Credentials) (*wordpress.User, error) {
		return nil, errs.NewAuthFailed(nil)
	}

	_, err := NewSiteService(f.db, f.wp).VerifySite(context.Background(), site.ID, "admin", "wrong")
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Hint, "Basic Auth")

	stored, err := f.db.SiteRepo().FindByID(context.Background(), site.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsConnected)
}

func TestVerifySite_UnknownSite(t *testing.T) {
	f := newFixture(t)

	_, err := NewSiteService(f.db, f.wp).VerifySite(context.Background(), "missing", "admin", "pw")
	assert.True(t, errs.IsNotFound(err))
	assert.Zero(t, f.wp.totalCalls())
}

func TestUpdateAdminCredentials_PreservesUnsetFields(t *testing.T) {
	f := newFixture(t)
	site := f.site(t, true)
	ctx := context.Background()
	svc := NewSiteService(f.db, f.wp)

	token := "tok-1"
	_, err := svc.UpdateAdminCredentials(ctx, site.ID, AdminCredentialsUpdate{APIToken: &token})
	require.NoError(t, err)

	password := "rotated"
	updated, err := svc.UpdateAdminCredentials(ctx, site.ID, AdminCredentialsUpdate{AdminPassword: &password})
	require.NoError(t, err)
	assert.Equal(t, "admin", updated.AdminUsername)
	assert.Equal(t, "rotated", updated.AdminPassword)
	assert.Equal(t, "tok-1", updated.APIToken)
	assert.True(t, updated.IsConnected)

	badURL := "ftp://nope"
	_, err = svc.UpdateAdminCredentials(ctx, site.ID, AdminCredentialsUpdate{APIURL: &badURL})
	assert.True(t, errs.IsInvalidFieldError(err))
}

func TestCreateSite_DefaultsAPIURL(t *testing.T) {
	f := newFixture(t)

	site, err := NewSiteService(f.db, f.wp).CreateSite(context.Background(), CreateSiteInput{
		Name: "Blog",
		URL:  "https://blog.example/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example", site.URL)
	assert.Equal(t, "https://blog.example/wp-json", site.APIURL)
	assert.False(t, site.IsConnected)

	_, err = NewSiteService(f.db, f.wp).CreateSite(context.Background(), CreateSiteInput{URL: "https://x"})
	assert.True(t, errs.IsMissingRequiredFieldError(err))
}

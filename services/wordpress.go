package services

import (
	"context"

	"github.com/smgmdev/pressdeck/models"
	"github.com/smgmdev/pressdeck/wordpress"
)

// WordPress is the remote client the workflows depend on. *wordpress.Client implements it.
type WordPress interface {
	VerifyIdentity(ctx context.Context, apiURL string, creds wordpress.Credentials) (*wordpress.User, error)
	UploadMedia(ctx context.Context, apiURL string, creds wordpress.Credentials, img wordpress.Image) (*wordpress.Media, error)
	CreatePost(ctx context.Context, apiURL string, creds wordpress.Credentials, fields wordpress.PostFields) (*wordpress.Post, error)
	FetchMedia(ctx context.Context, apiURL string, creds wordpress.Credentials, mediaID int64) (*wordpress.Media, error)
	FetchPost(ctx context.Context, apiURL string, creds wordpress.Credentials, postID string) (wordpress.PostLookup, error)
	CreateTag(ctx context.Context, apiURL string, creds wordpress.Credentials, name string) (*wordpress.Tag, error)
}

var _ WordPress = (*wordpress.Client)(nil)

func adminCredentials(site *models.Site) wordpress.Credentials {
	return wordpress.Credentials{Username: site.AdminUsername, Password: site.AdminPassword}
}

func userCredentials(cred *models.UserSiteCredential) wordpress.Credentials {
	return wordpress.Credentials{Username: cred.WPUsername, Password: cred.WPPassword}
}

package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/smgmdev/pressdeck/errs"
	"github.com/smgmdev/pressdeck/wordpress"
)

// fakeWordPress records every call and answers from configurable hooks
type fakeWordPress struct {
	mu    sync.Mutex
	calls map[string]int

	verifyFn      func(creds wordpress.Credentials) (*wordpress.User, error)
	uploadFn      func(creds wordpress.Credentials, img wordpress.Image) (*wordpress.Media, error)
	createPostFn  func(creds wordpress.Credentials, fields wordpress.PostFields) (*wordpress.Post, error)
	fetchMediaFn  func(mediaID int64) (*wordpress.Media, error)
	fetchPostFn   func(creds wordpress.Credentials, postID string) (wordpress.PostLookup, error)
	createTagFn   func(name string) (*wordpress.Tag, error)
	lastPost      wordpress.PostFields
	lastPostCreds wordpress.Credentials
	uploadCreds   wordpress.Credentials
	fetchedPosts  []string
}

func newFakeWordPress() *fakeWordPress {
	return &fakeWordPress{calls: make(map[string]int)}
}

func (f *fakeWordPress) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeWordPress) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeWordPress) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeWordPress) VerifyIdentity(_ context.Context, _ string, creds wordpress.Credentials) (*wordpress.User, error) {
	f.record("VerifyIdentity")
	if f.verifyFn != nil {
		return f.verifyFn(creds)
	}
	return &wordpress.User{ID: 1, Name: creds.Username}, nil
}

func (f *fakeWordPress) UploadMedia(_ context.Context, _ string, creds wordpress.Credentials, img wordpress.Image) (*wordpress.Media, error) {
	f.record("UploadMedia")
	f.mu.Lock()
	f.uploadCreds = creds
	f.mu.Unlock()
	if f.uploadFn != nil {
		return f.uploadFn(creds, img)
	}
	return &wordpress.Media{ID: 11}, nil
}

func (f *fakeWordPress) CreatePost(_ context.Context, _ string, creds wordpress.Credentials, fields wordpress.PostFields) (*wordpress.Post, error) {
	f.record("CreatePost")
	f.mu.Lock()
	f.lastPost = fields
	f.lastPostCreds = creds
	f.mu.Unlock()
	if f.createPostFn != nil {
		return f.createPostFn(creds, fields)
	}
	return &wordpress.Post{ID: 900, Link: "http://x/900"}, nil
}

func (f *fakeWordPress) FetchMedia(_ context.Context, _ string, _ wordpress.Credentials, mediaID int64) (*wordpress.Media, error) {
	f.record("FetchMedia")
	if f.fetchMediaFn != nil {
		return f.fetchMediaFn(mediaID)
	}
	return &wordpress.Media{ID: mediaID, SourceURL: fmt.Sprintf("http://x/uploads/%d.png", mediaID)}, nil
}

func (f *fakeWordPress) FetchPost(_ context.Context, _ string, creds wordpress.Credentials, postID string) (wordpress.PostLookup, error) {
	f.record("FetchPost")
	f.mu.Lock()
	f.fetchedPosts = append(f.fetchedPosts, postID)
	f.mu.Unlock()
	if f.fetchPostFn != nil {
		return f.fetchPostFn(creds, postID)
	}
	return wordpress.PostLookup{State: wordpress.PostExists, Post: &wordpress.Post{}}, nil
}

func (f *fakeWordPress) CreateTag(_ context.Context, _ string, _ wordpress.Credentials, name string) (*wordpress.Tag, error) {
	f.record("CreateTag")
	if f.createTagFn != nil {
		return f.createTagFn(name)
	}
	return nil, errs.NewRemoteRejected("tag creation", 400, "")
}

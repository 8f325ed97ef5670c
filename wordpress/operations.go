package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/smgmdev/pressdeck/errs"
)

// User is the account behind a set of credentials
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Media struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

type Post struct {
	ID     int64  `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PostFields is the body of a post creation request
type PostFields struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Status        string  `json:"status"`
	Categories    []int64 `json:"categories"`
	Tags          []int64 `json:"tags"`
	FeaturedMedia *int64  `json:"featured_media,omitempty"`
}

// VerifyIdentity resolves the WordPress user behind creds.
// A 401 means the site does not accept Basic Auth or the login is wrong.
func (c *Client) VerifyIdentity(ctx context.Context, apiURL string, creds Credentials) (*User, error) {
	resp, err := c.getJSON(ctx, Endpoint(apiURL, "users/me"), creds)
	if err != nil {
		return nil, errs.NewRemoteTransient("identity check", err)
	}

	switch {
	case resp.status == http.StatusUnauthorized:
		return nil, errs.NewAuthFailed(nil)
	case !resp.ok():
		return nil, errs.NewInvalidCredentials(resp.status, string(resp.body))
	}

	var user User
	if err := resp.decode(&user); err != nil || user.ID == 0 {
		return nil, errs.NewRemoteRejected("identity check", resp.status, string(resp.body))
	}
	return &user, nil
}

// UploadMedia stores an image in the media library
func (c *Client) UploadMedia(ctx context.Context, apiURL string, creds Credentials, img Image) (*Media, error) {
	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, img.Filename),
	}
	resp, err := c.do(ctx, http.MethodPost, Endpoint(apiURL, "media"), creds, img.ContentType, img.Data, headers)
	if err != nil {
		return nil, errs.NewRemoteTransient("media upload", err)
	}
	if !resp.ok() {
		return nil, errs.NewRemoteRejected("media upload", resp.status, string(resp.body))
	}

	var media Media
	if err := resp.decode(&media); err != nil || media.ID == 0 {
		return nil, errs.NewRemoteRejected("media upload", resp.status, string(resp.body))
	}
	return &media, nil
}

// CreatePost publishes a post. Any non-2xx answer is returned as RemoteRejected
// carrying the WordPress status and body.
func (c *Client) CreatePost(ctx context.Context, apiURL string, creds Credentials, fields PostFields) (*Post, error) {
	if fields.Status == "" {
		fields.Status = "publish"
	}
	if fields.Categories == nil {
		fields.Categories = []int64{}
	}
	if fields.Tags == nil {
		fields.Tags = []int64{}
	}

	resp, err := c.postJSON(ctx, Endpoint(apiURL, "posts"), creds, fields)
	if err != nil {
		return nil, errs.NewRemoteTransient("post creation", err)
	}
	if !resp.ok() {
		return nil, errs.NewRemoteRejected("post creation", resp.status, string(resp.body))
	}

	var post Post
	if err := resp.decode(&post); err != nil || post.ID == 0 {
		return nil, errs.NewRemoteRejected("post creation", resp.status, string(resp.body))
	}
	return &post, nil
}

// FetchMedia looks up a media item, mainly for its public source_url
func (c *Client) FetchMedia(ctx context.Context, apiURL string, creds Credentials, mediaID int64) (*Media, error) {
	resp, err := c.getJSON(ctx, Endpoint(apiURL, "media/"+strconv.FormatInt(mediaID, 10)), creds)
	if err != nil {
		return nil, errs.NewRemoteTransient("media lookup", err)
	}
	if !resp.ok() {
		return nil, errs.NewRemoteRejected("media lookup", resp.status, string(resp.body))
	}

	var media Media
	if err := resp.decode(&media); err != nil {
		return nil, errs.NewRemoteRejected("media lookup", resp.status, string(resp.body))
	}
	return &media, nil
}

// CreateTag creates a tag. When the tag already exists WordPress answers
// term_exists with the existing id, which is returned instead of an error.
func (c *Client) CreateTag(ctx context.Context, apiURL string, creds Credentials, name string) (*Tag, error) {
	resp, err := c.postJSON(ctx, Endpoint(apiURL, "tags"), creds, map[string]string{"name": name})
	if err != nil {
		return nil, errs.NewRemoteTransient("tag creation", err)
	}
	if !resp.ok() {
		if e, ok := resp.remoteError(); ok && e.Code == "term_exists" && e.Data.TermID > 0 {
			return &Tag{ID: e.Data.TermID, Name: name}, nil
		}
		return nil, errs.NewRemoteRejected("tag creation", resp.status, string(resp.body))
	}

	var tag Tag
	if err := resp.decode(&tag); err != nil || tag.ID == 0 {
		return nil, errs.NewRemoteRejected("tag creation", resp.status, string(resp.body))
	}
	return &tag, nil
}

// PostState is the outcome of checking a post on the remote site
type PostState int

const (
	// PostUnverifiable means the answer says nothing reliable about the post
	PostUnverifiable PostState = iota
	PostExists
	PostMissing
)

func (s PostState) String() string {
	switch s {
	case PostExists:
		return "exists"
	case PostMissing:
		return "missing"
	default:
		return "unverifiable"
	}
}

// PostLookup is the classified result of FetchPost
type PostLookup struct {
	State        PostState
	Post         *Post
	RemoteStatus int
	// Reason explains an unverifiable or missing result, for logs
	Reason string
}

// authFailureCodes are error payloads that mean the credentials, not the post, are the problem
const postInvalidIDCode = "rest_post_invalid_id"

var authFailureCodes = map[string]bool{
	"rest_authentication_failed": true,
	"rest_not_logged_in":         true,
	"invalid_username":           true,
	"incorrect_password":         true,
}

// FetchPost checks whether a post still exists. It never reports a post as
// missing unless WordPress said so: transport errors, authentication failures,
// server errors and undecodable answers are all PostUnverifiable.
func (c *Client) FetchPost(ctx context.Context, apiURL string, creds Credentials, postID string) (PostLookup, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return PostLookup{State: PostUnverifiable, Reason: "empty post id"}, nil
	}

	resp, err := c.getJSON(ctx, Endpoint(apiURL, "posts/"+postID), creds)
	if err != nil {
		return PostLookup{State: PostUnverifiable, Reason: "request failed"}, errs.NewRemoteTransient("post lookup", err)
	}
	return classifyPost(resp), nil
}

func classifyPost(resp response) PostLookup {
	lookup := PostLookup{RemoteStatus: resp.status}

	if e, ok := resp.remoteError(); ok {
		if e.Error == "INVALID_PASSWORD" || authFailureCodes[e.Code] {
			lookup.State = PostUnverifiable
			lookup.Reason = "authentication failed: " + firstNonEmpty(e.Code, e.Error)
			return lookup
		}
	}

	switch {
	case resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden:
		lookup.State = PostUnverifiable
		lookup.Reason = "authentication failed"
		return lookup
	case resp.status == http.StatusNotFound || resp.status == http.StatusGone:
		if reason, ok := confirmsMissing(resp); !ok {
			lookup.State = PostUnverifiable
			lookup.Reason = fmt.Sprintf("status %d: %s", resp.status, reason)
			return lookup
		}
		lookup.State = PostMissing
		lookup.Reason = fmt.Sprintf("status %d", resp.status)
		return lookup
	case !resp.ok():
		lookup.State = PostUnverifiable
		lookup.Reason = fmt.Sprintf("status %d", resp.status)
		return lookup
	}

	var post Post
	if err := resp.decode(&post); err != nil {
		lookup.State = PostUnverifiable
		lookup.Reason = "undecodable response"
		return lookup
	}
	if post.ID > 0 {
		lookup.State = PostExists
		lookup.Post = &post
		return lookup
	}
	lookup.State = PostMissing
	lookup.Reason = "response has no post id"
	return lookup
}

// confirmsMissing reports whether a 404/410 body says the post itself is gone.
// A missing route (rest_no_route) or a non-JSON page means the API URL is wrong,
// not that the post was deleted.
func confirmsMissing(resp response) (string, bool) {
	body := bytes.TrimSpace(resp.body)
	if len(body) == 0 {
		return "", true
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return "not a WordPress response", false
	}
	e, hasError := resp.remoteError()
	switch {
	case !hasError && len(doc) == 0:
		return "", true
	case !hasError:
		return "unrecognised body", false
	case e.Code == postInvalidIDCode:
		return "", true
	default:
		return "unexpected error " + firstNonEmpty(e.Code, e.Error), false
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

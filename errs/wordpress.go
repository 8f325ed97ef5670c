package errs

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// Error codes rendered to clients so the dashboard can tell failures apart.
const (
	CodeNotFound           = "not_found"
	CodeAuthFailed         = "auth_failed"
	CodeInvalidCredentials = "invalid_credentials"
	CodeNotAuthenticated   = "not_authenticated"
	CodeSiteNotVerified    = "site_not_verified"
	CodeRemoteRejected     = "remote_rejected"
	CodeRemoteTransient    = "remote_transient"
	CodePublishInProgress  = "publish_in_progress"
)

// WordPress & publishing errors
var (
	ErrAuthFailed         = errors.New("Authentication failed")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated to this site")
	ErrSiteNotVerified    = errors.New("site not verified")
	ErrRemoteRejected     = errors.New("WordPress rejected the request")
	ErrRemoteTransient    = errors.New("WordPress is unreachable")
	ErrPublishInProgress  = errors.New("publish already in progress")
)

const (
	HintBasicAuthPlugin = "WordPress returned 401. Make sure the Basic Auth plugin is installed and active on the site " +
		"and that the account can use the REST API."
	HintCheckCredentials = "Check the WordPress username and password (or application password)."
	HintVerifySiteFirst  = "An administrator must verify the site connection before users can authenticate."
	HintAuthenticateUser = "Connect your WordPress account to this site before publishing."
)

// maxRemoteBody bounds how much of a WordPress response body is echoed back.
const maxRemoteBody = 2048

// NewAuthFailed reports a 401 from WordPress, usually a missing Basic Auth plugin.
func NewAuthFailed(cause error) *ApiErr {
	return &ApiErr{
		StatusCode:   http.StatusUnauthorized,
		Code:         CodeAuthFailed,
		err:          ErrAuthFailed,
		Hint:         HintBasicAuthPlugin,
		RemoteStatus: http.StatusUnauthorized,
		Cause:        cause,
	}
}

// NewInvalidCredentials reports any other non-2xx answer to an identity check.
func NewInvalidCredentials(remoteStatus int, body string) *ApiErr {
	return &ApiErr{
		StatusCode:   http.StatusUnauthorized,
		Code:         CodeInvalidCredentials,
		err:          ErrInvalidCredentials,
		Details:      truncate(body),
		Hint:         HintCheckCredentials,
		RemoteStatus: remoteStatus,
	}
}

func NewNotAuthenticated() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		Code:       CodeNotAuthenticated,
		err:        ErrNotAuthenticated,
		Hint:       HintAuthenticateUser,
	}
}

func NewSiteNotVerified() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusPreconditionFailed,
		Code:       CodeSiteNotVerified,
		err:        ErrSiteNotVerified,
		Hint:       HintVerifySiteFirst,
	}
}

// NewRemoteRejected reports a non-2xx WordPress answer for operation.
func NewRemoteRejected(operation string, remoteStatus int, body string) *ApiErr {
	details := fmt.Sprintf("%s returned status %d", operation, remoteStatus)
	if body != "" {
		details = fmt.Sprintf("%s: %s", details, truncate(body))
	}
	return &ApiErr{
		StatusCode:   http.StatusBadGateway,
		Code:         CodeRemoteRejected,
		err:          ErrRemoteRejected,
		Details:      details,
		RemoteStatus: remoteStatus,
	}
}

// NewRemoteTransient reports a transport failure talking to WordPress.
func NewRemoteTransient(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		Code:       CodeRemoteTransient,
		err:        ErrRemoteTransient,
		Details:    fmt.Sprintf("%s failed", operation),
		Cause:      cause,
	}
}

func NewPublishInProgress(articleID string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		Code:       CodePublishInProgress,
		err:        ErrPublishInProgress,
		Details:    fmt.Sprintf("article %s is being published", articleID),
	}
}

func IsAuthFailed(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}

func IsSiteNotVerified(err error) bool {
	return errors.Is(err, ErrSiteNotVerified)
}

func IsRemoteRejected(err error) bool {
	return errors.Is(err, ErrRemoteRejected)
}

func IsRemoteTransient(err error) bool {
	return errors.Is(err, ErrRemoteTransient)
}

func IsPublishInProgress(err error) bool {
	return errors.Is(err, ErrPublishInProgress)
}

// CodeOf returns the client-facing code carried by err, or "" for plain errors.
func CodeOf(err error) string {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// truncate cuts body to at most maxRemoteBody bytes without splitting a rune
func truncate(body string) string {
	if len(body) <= maxRemoteBody {
		return body
	}
	cut := maxRemoteBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}

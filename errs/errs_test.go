package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestApiErr_ErrorIncludesDetails(t *testing.T) {
	err := NewRemoteRejected("create post", 400, `{"code":"rest_invalid_param"}`)

	assert.Equal(t, `WordPress rejected the request: create post returned status 400: {"code":"rest_invalid_param"}`, err.Error())
	assert.Equal(t, "WordPress rejected the request", err.Message())
	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	assert.Equal(t, 400, err.RemoteStatus)
	assert.True(t, IsRemoteRejected(err))
}

func TestAuthFailed_MentionsBasicAuth(t *testing.T) {
	err := NewAuthFailed(nil)

	assert.Equal(t, "Authentication failed", err.Error())
	assert.Contains(t, err.Hint, "Basic Auth")
	assert.Equal(t, CodeAuthFailed, CodeOf(err))
	assert.True(t, IsAuthFailed(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsInvalidCredentials(err))
}

func TestNewNotFound_IsNotFound(t *testing.T) {
	err := NewNotFound("site")

	assert.Equal(t, "site not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
}

func TestGetFullError_Chain(t *testing.T) {
	inner := NewRemoteTransient("identity check", errors.New("dial tcp: timeout"))
	outer := NewInternalErrorWithCause("verification failed", inner)

	full := outer.GetFullError()
	assert.Contains(t, full, "verification failed")
	assert.Contains(t, full, "identity check failed")
	assert.Contains(t, full, "dial tcp: timeout")
}

func TestNewDatabaseError_Classification(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
	}{
		{"duplicate", errors.New(`ERROR: duplicate key value violates unique constraint`), http.StatusConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: sites.name"), http.StatusConflict},
		{"not found", errors.New("record not found"), http.StatusNotFound},
		{"connection", errors.New("connection refused"), http.StatusServiceUnavailable},
		{"other", errors.New("syntax error"), http.StatusInternalServerError},
		{"api err passthrough", NewSiteNotVerified(), http.StatusPreconditionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("find", "site", tt.cause)
			assert.Equal(t, tt.status, err.StatusCode)
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", maxRemoteBody+10)
	err := NewInvalidCredentials(403, long)

	assert.True(t, strings.HasSuffix(err.Details, "..."))
	assert.Len(t, err.Details, maxRemoteBody+3)
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	// one ASCII byte shifts every 3-byte rune across the cut
	long := "x" + strings.Repeat("€", maxRemoteBody)
	err := NewRemoteRejected("create post", 500, long)

	assert.True(t, utf8.ValidString(err.Details))
	assert.True(t, strings.HasSuffix(err.Details, "€..."))

	got := truncate(long)
	assert.LessOrEqual(t, len(got), maxRemoteBody+3)
	assert.True(t, utf8.ValidString(got))
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, "", CodeOf(errors.New("boom")))
}

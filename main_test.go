package main

import (
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/smgmdev/pressdeck/api"
	"github.com/smgmdev/pressdeck/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() api.Server {
	return api.NewServer(&config.Config{Port: "0", JWTSecret: "test-secret"}, api.Services{})
}

func TestServeUntil_SignalShutsDownCleanly(t *testing.T) {
	signals := make(chan os.Signal, 1)
	signals <- syscall.SIGTERM

	err := serveUntil(testServer(), signals, time.Second)

	require.Error(t, err)
	assert.Equal(t, syscall.SIGTERM.String(), err.Error())
	// the server's own ErrServerClosed lands in the buffer after shutdown
	time.Sleep(50 * time.Millisecond)
}

func TestServeUntil_ServerFailureReturns(t *testing.T) {
	server := testServer()
	server.Addr = "256.0.0.1:bad"

	err := serveUntil(server, make(chan os.Signal), time.Second)

	require.Error(t, err)
	assert.NotErrorIs(t, err, http.ErrServerClosed)
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReconcileScheduler(t *testing.T) {
	f := newFixture(t)
	reconciler := NewReconcileService(f.db, f.wp, 1, 0)

	_, err := NewReconcileScheduler(reconciler, "not a schedule", time.Minute)
	assert.Error(t, err)

	s, err := NewReconcileScheduler(reconciler, "@every 1h", time.Minute)
	require.NoError(t, err)
	s.Start()
	s.Stop()
}

func TestReconcileScheduler_RunSweeps(t *testing.T) {
	f := newFixture(t)
	site := f.site(t, true)
	cred := f.credential(t, "U1", site.ID, true)
	f.published(t, "U1", site, cred, "5")

	s, err := NewReconcileScheduler(NewReconcileService(f.db, f.wp, 1, 0), "@every 1h", time.Minute)
	require.NoError(t, err)

	s.run()
	assert.Equal(t, 1, f.wp.count("FetchPost"))
}

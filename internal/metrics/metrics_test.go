package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateExposesCountersAndGauge(t *testing.T) {
	r := NewRegistry()
	r.Update(Snapshot{MsgCount: 42, PlaneCount: 3, FIFODrops: 1, SweepEvicted: 2})

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "squitter_messages_decoded_total 42"))
	assert.True(t, strings.Contains(body, "squitter_planes_tracked 3"))
	assert.True(t, strings.Contains(body, "squitter_fifo_full_drops_total 1"))
	assert.True(t, strings.Contains(body, "squitter_sweep_evictions_total 2"))
}

func TestUpdateIsIdempotentAtSameValue(t *testing.T) {
	r := NewRegistry()
	r.Update(Snapshot{MsgCount: 10, PlaneCount: 1})
	r.Update(Snapshot{MsgCount: 10, PlaneCount: 1})

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.True(t, strings.Contains(rec.Body.String(), "squitter_messages_decoded_total 10"))
}

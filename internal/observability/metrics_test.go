package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/signin", "POST", 200, 10*time.Millisecond)
	m.RecordRequest("/api/signin", "POST", 200, 30*time.Millisecond)
	m.RecordRequest("/api/signin", "POST", 400, time.Millisecond)
	m.RecordError("/api/signin", "POST", "INVALID_CREDENTIALS")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/signin|POST|200"])
	assert.Equal(t, int64(1), snap.Requests["/api/signin|POST|400"])
	assert.Equal(t, int64(20), snap.AvgLatencyMilli["/api/signin|POST|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/signin|POST|INVALID_CREDENTIALS"])

	snap.Requests["/api/signin|POST|200"] = 99
	assert.Equal(t, int64(2), m.Snapshot().Requests["/api/signin|POST|200"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/v1/sites/{site}/task-groups/{id}", "200", 15*time.Millisecond)
	RecordHTTPRequest("GET", "/v1/sites/{site}/task-groups/{id}", "200", 5*time.Millisecond)

	got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/v1/sites/{site}/task-groups/{id}", "200"))
	assert.Equal(t, 2.0, got)
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestUpdateLiveClients(t *testing.T) {
	UpdateLiveClients(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(LiveClients))

	UpdateLiveClients(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(LiveClients))
}

func TestRecordHandoff(t *testing.T) {
	HandoffsConsumed.Reset()

	RecordHandoff(true)
	RecordHandoff(false)
	RecordHandoff(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(HandoffsConsumed.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(HandoffsConsumed.WithLabelValues("miss")))
}

func TestRecordLiveEvent(t *testing.T) {
	LiveEventsPublished.Reset()
	RecordLiveEvent("InventoryUpdated")
	assert.Equal(t, 1.0, testutil.ToFloat64(LiveEventsPublished.WithLabelValues("InventoryUpdated")))
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	assert.Equal(t, "/goals", canonicalPath("/goals"))
	assert.Equal(t, "/goals", canonicalPath("/goals/"))
	assert.Equal(t, "/pending-goals", canonicalPath("/pending-goals"))
	assert.Equal(t, "other", canonicalPath("/wp-admin/login.php"))
	assert.Equal(t, "other", canonicalPath("/"))
}

func TestInstrumentHandlerCountsRequests(t *testing.T) {
	handler := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("POST", "/completions", "409"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/completions", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("POST", "/completions", "409")))
}

func TestCompletionAttempt(t *testing.T) {
	before := testutil.ToFloat64(completions.WithLabelValues(CompletionQuotaExceeded))
	CompletionAttempt(CompletionQuotaExceeded)
	assert.Equal(t, before+1, testutil.ToFloat64(completions.WithLabelValues(CompletionQuotaExceeded)))
}

func TestHandlerExposesRegistry(t *testing.T) {
	GoalCreated()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goalweek_goals_created_total")
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/characters/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/characters/{name}", "418"))

	for _, name := range []string{"Bob", "Alice"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/characters/"+name, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/characters/{name}", "418"))
	assert.Equal(t, 2.0, after-before)
	assert.Equal(t, 0.0, testutil.ToFloat64(HTTPRequestsInFlight))
}

func TestRecordPurchase(t *testing.T) {
	completed := testutil.ToFloat64(PurchasesTotal.WithLabelValues(OutcomeCompleted))
	items := testutil.ToFloat64(ItemsBought)
	gold := testutil.ToFloat64(GoldSpent)

	RecordPurchase(2, 16)

	assert.Equal(t, 1.0, testutil.ToFloat64(PurchasesTotal.WithLabelValues(OutcomeCompleted))-completed)
	assert.Equal(t, 2.0, testutil.ToFloat64(ItemsBought)-items)
	assert.Equal(t, 16.0, testutil.ToFloat64(GoldSpent)-gold)
}

func TestRecordBarterRoll(t *testing.T) {
	success := testutil.ToFloat64(BarterRollsTotal.WithLabelValues(ResultSuccess))
	failure := testutil.ToFloat64(BarterRollsTotal.WithLabelValues(ResultFailure))

	RecordBarterRoll(true)
	RecordBarterRoll(false)
	RecordBarterRoll(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(BarterRollsTotal.WithLabelValues(ResultSuccess))-success)
	assert.Equal(t, 2.0, testutil.ToFloat64(BarterRollsTotal.WithLabelValues(ResultFailure))-failure)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/platform/metrics"
)

/*
TestInstrument_LabelsByRoutePattern records requests under the chi pattern, not the raw path.
*/
func TestInstrument_LabelsByRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(metrics.Instrument)
	router.Get("/v1/titles/{title_id}", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/v1/titles/{title_id}", "418")
	before := testutil.ToFloat64(counter)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/titles/7", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/titles/8", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

/*
TestRecordHelpers increments the labelled counters.
*/
func TestRecordHelpers(t *testing.T) {
	denials := metrics.PermissionDenialsTotal.WithLabelValues("update", "405")
	sent := metrics.MailDeliveriesTotal.WithLabelValues("sent")

	deniedBefore := testutil.ToFloat64(denials)
	sentBefore := testutil.ToFloat64(sent)

	metrics.RecordPermissionDenial("update", http.StatusMethodNotAllowed)
	metrics.RecordMailDelivery("sent")

	assert.Equal(t, deniedBefore+1, testutil.ToFloat64(denials))
	assert.Equal(t, sentBefore+1, testutil.ToFloat64(sent))
}

/*
TestHandler exposes the registry.
*/
func TestHandler(t *testing.T) {
	metrics.AccessTokensTotal.Inc()

	recorder := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "yamdb_access_tokens_total")
}

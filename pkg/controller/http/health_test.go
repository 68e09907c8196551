package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	controller "github.com/m-mizutani/ecsync/pkg/controller/http"
	"github.com/m-mizutani/ecsync/pkg/domain/model"
)

func TestHealthEndpoint(t *testing.T) {
	server, err := controller.NewServer(
		context.Background(),
		&mockWebhookUseCase{},
		controller.WithAddr("localhost:0"),
		controller.WithWebhookSecret("test-secret"),
	)
	gt.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.Number(t, w.Code).Equal(http.StatusOK)

	var status model.HealthStatus
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	gt.String(t, status.Status).Equal("healthy")
	gt.String(t, status.Service).Equal("ecsync")
	gt.Value(t, status.Version).NotEqual("")
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("served when configured", func(t *testing.T) {
		server, err := controller.NewServer(
			context.Background(),
			&mockWebhookUseCase{},
			controller.WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("ecsync_run_results_total 0\n"))
			})),
		)
		gt.NoError(t, err)

		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		gt.Number(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Body.String()).Contains("ecsync_run_results_total")
	})

	t.Run("absent otherwise", func(t *testing.T) {
		server, err := controller.NewServer(context.Background(), &mockWebhookUseCase{})
		gt.NoError(t, err)

		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		gt.Number(t, w.Code).Equal(http.StatusNotFound)
	})
}

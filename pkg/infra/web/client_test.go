package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ecsync/pkg/domain/model"
	"github.com/m-mizutani/ecsync/pkg/infra/web"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/locale.yml":
			gt.String(t, r.Header.Get("User-Agent")).Equal("ecsync-test")
			_, _ = w.Write([]byte("en:\n  title: Electron\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := web.NewClient(web.WithUserAgent("ecsync-test"))

	t.Run("success", func(t *testing.T) {
		data, err := client.Get(context.Background(), server.URL+"/locale.yml")
		gt.NoError(t, err)
		gt.String(t, string(data)).Equal("en:\n  title: Electron\n")
	})

	t.Run("non-200 status", func(t *testing.T) {
		data, err := client.Get(context.Background(), server.URL+"/missing")
		gt.Error(t, err)
		gt.Value(t, data).Nil()
		gt.True(t, goerr.HasTag(err, model.ErrTagFetch))
	})

	t.Run("transport error", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		closed.Close()

		_, err := client.Get(context.Background(), closed.URL+"/locale.yml")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagFetch))
	})
}

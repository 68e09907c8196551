package cli_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ecsync/pkg/cli"
)

type fakeUpstream struct {
	server   *httptest.Server
	requests atomic.Int32
}

func newFakeUpstream(t *testing.T, assets []string) *fakeUpstream {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"electron-electron-0123abc/docs/guides/intro.md": "# Intro",
		"electron-electron-0123abc/docs/api/foo.md":      "# Foo",
	} {
		w, err := zw.Create(name)
		gt.NoError(t, err)
		_, err = w.Write([]byte(content))
		gt.NoError(t, err)
	}
	gt.NoError(t, zw.Close())
	zipData := buf.Bytes()

	f := &fakeUpstream{}
	mux := http.NewServeMux()

	release := func(w http.ResponseWriter, tag string) {
		var list []map[string]any
		for _, name := range assets {
			list = append(list, map[string]any{
				"name":                 name,
				"browser_download_url": f.server.URL + "/download/" + tag + "/" + name,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"tag_name": tag, "assets": list})
	}

	mux.HandleFunc("GET /repos/electron/electron/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		release(w, "v30.1.0")
	})
	mux.HandleFunc("GET /repos/electron/electron/releases/tags/{tag}", func(w http.ResponseWriter, r *http.Request) {
		release(w, r.PathValue("tag"))
	})
	mux.HandleFunc("GET /repos/electron/electron/zipball/{ref}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", f.server.URL+"/codeload/"+r.PathValue("ref"))
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("GET /codeload/{ref}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(zipData)
	})
	mux.HandleFunc("GET /download/{tag}/electron-api.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"App","description":"desc1"}]`))
	})
	mux.HandleFunc("GET /locale.yml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("en:\n  title: Electron\n"))
	})

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func clearCredentialEnv(t *testing.T) {
	for _, key := range []string{
		"GITHUB_TOKEN",
		"ECSYNC_GITHUB_TOKEN",
		"ECSYNC_GITHUB_APP_ID",
		"ECSYNC_GITHUB_INSTALLATION_ID",
		"ECSYNC_GITHUB_PRIVATE_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestRun_Sync(t *testing.T) {
	clearCredentialEnv(t)
	upstream := newFakeUpstream(t, []string{"electron-api.json"})
	output := filepath.Join(t.TempDir(), "content", "en")

	err := cli.Run(context.Background(), []string{
		"ecsync", "sync",
		"--github-token", "test-token",
		"--github-api-url", upstream.server.URL,
		"--website-url", upstream.server.URL + "/locale.yml",
		"--output", output,
	})
	gt.NoError(t, err)

	intro, err := os.ReadFile(filepath.Join(output, "docs", "guides", "intro.md"))
	gt.NoError(t, err)
	gt.String(t, string(intro)).Equal("# Intro")

	_, err = os.Stat(filepath.Join(output, "docs", "api", "foo.md"))
	gt.True(t, os.IsNotExist(err))

	descriptions, err := os.ReadFile(filepath.Join(output, "api", "api-descriptions.yml"))
	gt.NoError(t, err)
	gt.String(t, string(descriptions)).Equal("App: desc1\n")

	locale, err := os.ReadFile(filepath.Join(output, "website", "locale.yml"))
	gt.NoError(t, err)
	gt.String(t, string(locale)).Equal("en:\n  title: Electron\n")
}

func TestRun_SyncWithTagFromConfigFile(t *testing.T) {
	clearCredentialEnv(t)
	upstream := newFakeUpstream(t, []string{"electron-api.json"})
	dir := t.TempDir()
	output := filepath.Join(dir, "out")

	configPath := filepath.Join(dir, "ecsync.toml")
	gt.NoError(t, os.WriteFile(configPath, []byte(
		"tag = \"v29.0.0\"\nwebsite_url = \""+upstream.server.URL+"/locale.yml\"\n",
	), 0644))

	t.Setenv("GITHUB_TOKEN", "test-token")
	err := cli.Run(context.Background(), []string{
		"ecsync", "sync",
		"--config", configPath,
		"--github-api-url", upstream.server.URL,
		"--output", output,
	})
	gt.NoError(t, err)

	_, err = os.Stat(filepath.Join(output, "api", "electron-api.json"))
	gt.NoError(t, err)
}

func TestRun_DefaultCommandIsSync(t *testing.T) {
	clearCredentialEnv(t)
	upstream := newFakeUpstream(t, []string{"electron-api.json"})
	output := filepath.Join(t.TempDir(), "out")

	t.Setenv("ECSYNC_GITHUB_TOKEN", "test-token")
	t.Setenv("ECSYNC_GITHUB_API_URL", upstream.server.URL)
	t.Setenv("ECSYNC_WEBSITE_URL", upstream.server.URL+"/locale.yml")
	t.Setenv("ECSYNC_OUTPUT", output)

	gt.NoError(t, cli.Run(context.Background(), []string{"ecsync"}))

	_, err := os.Stat(filepath.Join(output, "website", "locale.yml"))
	gt.NoError(t, err)
}

func TestRun_MissingCredential(t *testing.T) {
	clearCredentialEnv(t)
	upstream := newFakeUpstream(t, []string{"electron-api.json"})

	output := filepath.Join(t.TempDir(), "content", "en")
	gt.NoError(t, os.MkdirAll(output, 0755))
	gt.NoError(t, os.WriteFile(filepath.Join(output, "keep.md"), []byte("keep"), 0644))

	err := cli.Run(context.Background(), []string{
		"ecsync", "sync",
		"--github-api-url", upstream.server.URL,
		"--website-url", upstream.server.URL + "/locale.yml",
		"--output", output,
	})
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("GitHub credential is required")

	// Nothing is fetched or removed
	gt.Number(t, upstream.requests.Load()).Equal(int32(0))
	_, err = os.Stat(filepath.Join(output, "keep.md"))
	gt.NoError(t, err)
}

func TestRun_MissingAsset(t *testing.T) {
	clearCredentialEnv(t)
	upstream := newFakeUpstream(t, []string{"other.zip"})
	output := filepath.Join(t.TempDir(), "out")

	err := cli.Run(context.Background(), []string{
		"ecsync", "sync",
		"--github-token", "test-token",
		"--github-api-url", upstream.server.URL,
		"--website-url", upstream.server.URL + "/locale.yml",
		"--output", output,
	})
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("v30.1.0")

	_, err = os.Stat(filepath.Join(output, "website", "locale.yml"))
	gt.True(t, os.IsNotExist(err))
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"ecsync", "--log-level", "verbose", "sync"})
	gt.Error(t, err)
}

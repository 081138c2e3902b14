package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bundlescope/internal/report"
	"github.com/Sumatoshi-tech/bundlescope/internal/server"
	"github.com/Sumatoshi-tech/bundlescope/internal/stats"
)

func newTestServer(t *testing.T, reportsDir string) *httptest.Server {
	t.Helper()

	srv := server.New(server.Options{ReportsDir: reportsDir})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, getErr := http.Get(url)
	require.NoError(t, getErr)

	t.Cleanup(func() { require.NoError(t, resp.Body.Close()) })

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	return resp, body
}

func TestServer_IndexServed(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, t.TempDir())

	for _, path := range []string{"/", "/index.html"} {
		resp, body := get(t, ts.URL+path)

		assert.Equal(t, http.StatusOK, resp.StatusCode, "path %s", path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Contains(t, string(body), "Bundle Analysis Reports")
	}
}

func TestServer_ViewerAssets(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, t.TempDir())

	resp, body := get(t, ts.URL+"/styles.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	assert.Contains(t, string(body), ".report-list")

	resp, body = get(t, ts.URL+"/main.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "fetchReports")

	// Size labels match the CLI table (IEC units over a 1024 base).
	assert.Contains(t, string(body), "'KiB'")
	assert.NotContains(t, string(body), "'KB'")
}

func TestServer_ListReports_EmptyDirectory(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, t.TempDir())

	resp, body := get(t, ts.URL+"/api/reports")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `[]`, string(body))
}

func TestServer_ListReports_MergesFormats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.html"), []byte("<html></html>"), 0o644))

	ts := newTestServer(t, dir)

	resp, body := get(t, ts.URL+"/api/reports")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reports []report.Report
	require.NoError(t, json.Unmarshal(body, &reports))
	require.Len(t, reports, 2)

	byName := map[string][]string{}
	for _, item := range reports {
		byName[item.Name] = item.Formats
	}

	assert.ElementsMatch(t, []string{"json", "html"}, byName["a"])
	assert.ElementsMatch(t, []string{"html"}, byName["b"])
}

func TestServer_GetReportJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Stored bytes are returned opaquely, even when not valid JSON.
	content := []byte("{not json at all")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r1.json"), content, 0o644))

	ts := newTestServer(t, dir)

	resp, body := get(t, ts.URL+"/api/reports/r1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, content, body)

	resp, _ = get(t, ts.URL+"/api/reports/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_GetReportHTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := []byte("<html><body>report</body></html>")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r1.html"), content, 0o644))

	ts := newTestServer(t, dir)

	resp, body := get(t, ts.URL+"/report/r1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, content, body)

	resp, _ = get(t, ts.URL+"/report/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_MissingReportsDirIsEmptyNotError(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, filepath.Join(t.TempDir(), "never-created"))

	resp, body := get(t, ts.URL+"/api/reports")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestServer_TraversalNamesRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.json"), []byte(`{}`), 0o644))

	ts := newTestServer(t, dir)

	resp, _ := get(t, ts.URL+"/api/reports/..%2Fsecret")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_UnknownRoute404(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, t.TempDir())

	resp, _ := get(t, ts.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, t.TempDir())

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestServer_MetricsRouteOnlyWhenConfigured(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, t.TempDir())

	resp, _ := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	withMetrics := server.New(server.Options{
		ReportsDir: t.TempDir(),
		MetricsHandler: http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			rw.WriteHeader(http.StatusOK)
		}),
	})

	rec := httptest.NewRecorder()
	withMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteStatic(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "static")
	require.NoError(t, server.WriteStatic(dir))

	for _, name := range []string{"index.html", "styles.css", "main.js"} {
		data, readErr := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, readErr, name)
		assert.NotEmpty(t, data, name)
	}
}

func TestServer_StoredArtifactServedByteIdentical(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ts := newTestServer(t, dir)

	artifacts := map[string]*stats.Artifact{
		"passthrough-report": {
			Variant: stats.VariantPassthrough,
			Raw:     []byte(`{"assets":[{"name":"main.js","size":1}],"version":"5.0.0"}`),
		},
		"canonical-report": {
			Variant: stats.VariantCanonical,
			Data: map[string]any{
				"assets": []any{map[string]any{"name": "main.js", "size": float64(2048)}},
			},
		},
	}

	store := &report.Store{Dir: dir}

	for name, artifact := range artifacts {
		_, saveErr := store.Save(artifact, name, "")
		require.NoError(t, saveErr, name)

		rendered, renderErr := artifact.Render()
		require.NoError(t, renderErr, name)

		resp, body := get(t, ts.URL+"/api/reports/"+name)
		assert.Equal(t, http.StatusOK, resp.StatusCode, name)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"), name)
		assert.Equal(t, rendered, body, name)
	}
}

package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"budgetviz/internal/core"
	applog "budgetviz/internal/log"
	"budgetviz/internal/services"
	"budgetviz/internal/sheets/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBuilder wraps a report service and counts pipeline runs.
type countingBuilder struct {
	inner  ReportBuilder
	mu     sync.Mutex
	builds int
}

func (c *countingBuilder) Build(ctx context.Context) (core.Report, error) {
	c.mu.Lock()
	c.builds++
	c.mu.Unlock()
	return c.inner.Build(ctx)
}

func (c *countingBuilder) Source() string { return c.inner.Source() }

func (c *countingBuilder) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}

type failingReader struct{}

func (failingReader) ReadTable(context.Context) (core.Table, error) {
	return core.Table{}, &core.LoadError{Source: "Suivi du Budget T3.xlsx", Err: os.ErrNotExist}
}

func quietLogger() *applog.Logger {
	return applog.NewText(io.Discard, slog.LevelDebug, applog.ComponentApp)
}

func budgetValues() [][]string {
	return [][]string{
		{"", "Juillet", "Août", "Total Individuel"},
		{"Alice", "50", "50", "100"},
		{"Bob", "100", "", "100"},
		{"Carol", "", "", "N/A"},
		{"Total", "", "", "200"},
		{"Code couleur", "", "", ""},
	}
}

func newTestServer(t *testing.T, store *memory.Store, opts Options) (*Server, *countingBuilder) {
	t.Helper()
	svc := services.NewReportService(store, core.DefaultCleanOptions(), quietLogger())
	builder := &countingBuilder{inner: svc}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = time.Minute
	}
	srv := NewServer(":0", builder, opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	require.NotNil(t, srv.templates, "embedded templates must parse")
	return srv, builder
}

func serve(srv *Server, method, path string, header map[string]string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexRendersReport(t *testing.T) {
	srv, _ := newTestServer(t, memory.New(budgetValues()), Options{})

	rr := serve(srv, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.Contains(t, body, "<title>Visualisation Budget</title>")
	assert.Contains(t, body, "Total général collecté : 200")
	assert.Contains(t, body, "Tableau des parts")
	assert.Contains(t, body, "50.00%")
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "Bob")
	assert.NotContains(t, body, "Carol")
	assert.NotContains(t, body, "Code couleur")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "50.0%")
	assert.Less(t, strings.Index(body, "Alice"), strings.Index(body, "Bob"), "ties keep sheet order")

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestIndexErrorBanners(t *testing.T) {
	t.Run("load error", func(t *testing.T) {
		svc := services.NewReportService(failingReader{}, core.DefaultCleanOptions(), quietLogger())
		srv := NewServer(":0", svc, Options{Logger: quietLogger(), CacheTTL: time.Minute})
		t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

		rr := serve(srv, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), "Erreur lors du chargement du fichier")
		assert.Contains(t, rr.Body.String(), "file does not exist")
		assert.NotContains(t, rr.Body.String(), "<svg")
	})

	t.Run("missing columns", func(t *testing.T) {
		srv, _ := newTestServer(t, memory.New([][]string{{"Nom", "Montant"}, {"Alice", "10"}}), Options{})
		rr := serve(srv, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "Colonnes disponibles")
		assert.Contains(t, rr.Body.String(), "Montant")
	})

	t.Run("no data", func(t *testing.T) {
		srv, _ := newTestServer(t, memory.New([][]string{
			{"", "Total Individuel"},
			{"Total", "10"},
			{"Alice", "N/A"},
		}), Options{})
		rr := serve(srv, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), core.NoDataText)
		assert.NotContains(t, rr.Body.String(), "NaN")
		assert.NotContains(t, rr.Body.String(), "<svg")
	})
}

func TestChartSVG(t *testing.T) {
	srv, _ := newTestServer(t, memory.New(budgetValues()), Options{})

	rr := serve(srv, http.MethodGet, "/chart.svg", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "<svg"))
	assert.Equal(t, 2, strings.Count(rr.Body.String(), "<path"))

	empty, _ := newTestServer(t, memory.New([][]string{{"", "Total Individuel"}}), Options{})
	rr = serve(empty, http.MethodGet, "/chart.svg", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPIReport(t *testing.T) {
	srv, _ := newTestServer(t, memory.New(budgetValues()), Options{})

	rr := serve(srv, http.MethodGet, "/api/report", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got apiReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "ok", got.State)
	assert.Equal(t, "memory", got.Source)
	assert.Equal(t, "200", got.GrandTotal)
	require.Len(t, got.Contributors, 2)
	assert.Equal(t, apiContributor{Rank: 1, Name: "Alice", Total: "100", Share: "50.00"}, got.Contributors[0])
	assert.Equal(t, apiContributor{Rank: 2, Name: "Bob", Total: "100", Share: "50.00"}, got.Contributors[1])
	require.NotNil(t, got.Stats)
	assert.Equal(t, 5, got.Stats.RowsRead)
	assert.Equal(t, 2, got.Stats.Excluded)
	assert.Equal(t, 1, got.Stats.InvalidAmount)
}

func TestReportIsCachedUntilRefresh(t *testing.T) {
	store := memory.New(budgetValues())
	srv, builder := newTestServer(t, store, Options{})

	serve(srv, http.MethodGet, "/", nil)
	serve(srv, http.MethodGet, "/api/report", nil)
	assert.Equal(t, 1, builder.count())

	store.Replace([][]string{{"", "Total Individuel"}, {"Dora", "40"}})
	rr := serve(srv, http.MethodGet, "/api/report", nil)
	assert.NotContains(t, rr.Body.String(), "Dora", "served from cache")

	rr = serve(srv, http.MethodPost, "/refresh", nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	rr = serve(srv, http.MethodGet, "/api/report", nil)
	assert.Contains(t, rr.Body.String(), "Dora")
	assert.Equal(t, 2, builder.count())
}

func TestRefreshHTMX(t *testing.T) {
	srv, builder := newTestServer(t, memory.New(budgetValues()), Options{})

	rr := serve(srv, http.MethodPost, "/refresh", map[string]string{"HX-Request": "true"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `<section id="report"`)
	assert.NotContains(t, rr.Body.String(), "<html")
	assert.Contains(t, rr.Header().Get("HX-Trigger"), "report:refreshed")
	assert.Contains(t, rr.Header().Get("HX-Trigger"), `"type":"success"`)
	assert.Equal(t, 1, builder.count())
}

func TestRefreshIsRateLimited(t *testing.T) {
	srv, _ := newTestServer(t, memory.New(budgetValues()), Options{RefreshPerMinute: 1})

	assert.Equal(t, http.StatusSeeOther, serve(srv, http.MethodPost, "/refresh", nil).Code)
	rr := serve(srv, http.MethodPost, "/refresh", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))

	// reads are never limited
	assert.Equal(t, http.StatusOK, serve(srv, http.MethodGet, "/", nil).Code)
}

func TestHealthAndReadiness(t *testing.T) {
	srv, _ := newTestServer(t, memory.New(budgetValues()), Options{})
	for _, path := range []string{"/healthz", "/readyz"} {
		assert.Equal(t, http.StatusOK, serve(srv, http.MethodGet, path, nil).Code, path)
	}

	svc := services.NewReportService(failingReader{}, core.DefaultCleanOptions(), quietLogger())
	broken := NewServer(":0", svc, Options{Logger: quietLogger(), CacheTTL: time.Minute})
	t.Cleanup(func() { _ = broken.Shutdown(context.Background()) })
	assert.Equal(t, http.StatusOK, serve(broken, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(broken, http.MethodGet, "/readyz", nil).Code)
}

func TestRoutingAndStatic(t *testing.T) {
	srv, _ := newTestServer(t, memory.New(budgetValues()), Options{})

	assert.Equal(t, http.StatusMethodNotAllowed, serve(srv, http.MethodGet, "/refresh", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(srv, http.MethodGet, "/nope", nil).Code)

	rr := serve(srv, http.MethodGet, "/static/app.js", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Cache-Control"), "max-age=3600")
}

func TestShutdownIsIdempotent(t *testing.T) {
	srv, _ := newTestServer(t, memory.New(budgetValues()), Options{})
	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestChartSVGLabelsZeroShare(t *testing.T) {
	srv, _ := newTestServer(t, memory.New([][]string{
		{"", "Total Individuel"},
		{"Big", "1000000"},
		{"Tiny", "1"},
	}), Options{})

	rr := serve(srv, http.MethodGet, "/chart.svg", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Equal(t, 1, strings.Count(body, "<circle"))
	assert.Zero(t, strings.Count(body, "<path"))
	assert.Contains(t, body, ">Tiny</text>")
	assert.Contains(t, body, ">0.0%</text>")
}

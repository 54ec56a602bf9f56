package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"budgetviz/internal/cache"
	"budgetviz/internal/core"
	applog "budgetviz/internal/log"
	"budgetviz/internal/middleware/ratelimit"
	"budgetviz/internal/middleware/security"
	"budgetviz/internal/middleware/trace"
	appweb "budgetviz/web"
)

// reportKey is the single cache slot: there is one sheet per process.
const reportKey = "report"

// ReportBuilder runs the contributions pipeline.
type ReportBuilder interface {
	Build(ctx context.Context) (core.Report, error)
	Source() string
}

// Options tunes the server. Zero values select defaults.
type Options struct {
	CacheTTL          time.Duration
	RefreshPerMinute  int
	CacheCleanupEvery time.Duration
	Logger            *applog.Logger
}

type Server struct {
	http.Server
	templates *template.Template
	reports   ReportBuilder
	logger    *applog.Logger

	cache        *cache.LRUCache[reportResult]
	cacheManager *cache.Manager
	limiter      *ratelimit.Limiter
	detector     *security.Detector

	loadFailed   atomic.Bool
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, reports ReportBuilder, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if opts.CacheCleanupEvery <= 0 {
		opts.CacheCleanupEvery = 10 * time.Minute
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		reports:      reports,
		logger:       logger.WithComponent(applog.ComponentHTTP),
		cache:        cache.NewLRUCache[reportResult](1, opts.CacheTTL),
		cacheManager: cache.NewManager(),
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RefreshPerMinute}),
		detector:     security.NewDetector(),
	}
	s.cacheManager.Register(s.cache)
	s.cacheManager.StartCleanup(opts.CacheCleanupEvery)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", applog.FieldError, err)
	} else {
		s.templates = t
	}

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	refresh := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited)(http.HandlerFunc(s.handleRefresh))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /chart.svg", s.handleChart)
	mux.HandleFunc("GET /api/report", s.handleAPIReport)
	mux.Handle("POST /refresh", refresh)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Handler = trace.NewMiddleware(logger, s.detector).Middleware(headers.Middleware(mux))
	return s
}

// report returns the cached report, building it on a miss. Concurrent misses
// share one build. The build runs detached from the request so a client
// going away does not poison the shared result.
func (s *Server) report(ctx context.Context) reportResult {
	res, hit := s.cache.GetOrLoad(ctx, reportKey, func(ctx context.Context) reportResult {
		report, err := s.reports.Build(context.WithoutCancel(ctx))
		return reportResult{Report: report, Err: err, BuiltAt: time.Now()}
	})
	if !hit {
		s.loadFailed.Store(core.KindOf(res.Err) == core.KindLoad)
	}
	return res
}

// invalidate drops the cached report so the next request re-reads the source.
func (s *Server) invalidate() {
	s.cache.Delete(reportKey)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

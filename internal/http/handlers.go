package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"budgetviz/internal/core"
	applog "budgetviz/internal/log"
)

// statusFor maps a pipeline error to the page status code. The page is still
// rendered with a banner; the code only tells clients and health checkers what happened.
func statusFor(kind core.ErrorKind) int {
	switch kind {
	case core.KindLoad:
		return http.StatusServiceUnavailable
	case core.KindMissingColumns:
		return http.StatusUnprocessableEntity
	case core.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

// render executes a template into a buffer so a failing template never
// leaves a half-written page behind.
func (s *Server) render(r *http.Request, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate).ErrorContext(r.Context(),
			"Template execution failed", applog.FieldError, err, "template", name, applog.FieldOperation, applog.OpRender)
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	res := s.report(r.Context())
	body, err := s.render(r, "report.html", newPageData(s.reports.Source(), res))
	if err != nil {
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusFor(core.KindOf(res.Err)))
	_, _ = w.Write(body)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	res := s.report(r.Context())
	kind := core.KindOf(res.Err)
	switch kind {
	case core.KindNone:
	case core.KindNoData:
		http.Error(w, core.NoDataText, http.StatusNotFound)
		return
	default:
		http.Error(w, core.UserMessage(res.Err), statusFor(kind))
		return
	}

	data := newPageData(s.reports.Source(), res)
	body, err := s.render(r, "pie", data.Pie)
	if err != nil {
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(body)
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	res := s.report(r.Context())
	payload := newAPIReport(s.reports.Source(), res)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusFor(core.KindOf(res.Err)))
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode report", applog.FieldError, err)
	}
}

// handleRefresh drops the cached report and rebuilds it. htmx callers get the
// report fragment back; plain form posts are redirected to the page.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentCache)
	s.invalidate()
	logger.InfoContext(r.Context(), "Report cache invalidated", applog.FieldOperation, applog.OpRefresh)

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if s.templates == nil {
		InternalServerError("templates not loaded").Write(w)
		return
	}

	res := s.report(r.Context())
	body, err := s.render(r, "report-body", newPageData(s.reports.Source(), res))
	if err != nil {
		InternalServerError("failed to render report").Write(w)
		return
	}

	resp := NewHTMXResponse().BodyHTML(body).TriggerReportRefreshed(s.reports.Source())
	switch core.KindOf(res.Err) {
	case core.KindNone:
		resp.TriggerSuccessNotification("Rapport actualisé")
	case core.KindNoData:
		resp.TriggerNotification(NotificationWarning, core.NoDataText, 5000)
	default:
		resp.TriggerErrorNotification("Échec de l'actualisation du rapport")
	}
	resp.Write(w)
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded", applog.FieldClientIP, s.detector.ExtractClientIP(r), applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Trop de requêtes, réessayez dans une minute.").
		Header("Retry-After", "60").
		TriggerErrorNotification("Trop de requêtes, réessayez dans une minute.").
		Write(w)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports 503 while the source cannot be read. Missing columns or
// an empty sheet still count as ready: the page renders and explains them.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.report(r.Context())
	if s.loadFailed.Load() {
		http.Error(w, "source unavailable: "+s.reports.Source(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

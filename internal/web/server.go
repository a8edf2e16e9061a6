package web

import (
	"context"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vbonduro/folio/internal/gallery"
	"github.com/vbonduro/folio/internal/session"
	"github.com/vbonduro/folio/internal/upload"
	"github.com/vbonduro/folio/internal/vision"
)

// Authenticator exchanges credentials for a backend bearer token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Options are the request-independent knobs of the server.
type Options struct {
	CookieSecure   bool
	MaxUploadBytes int64
	// ImageOrigin is added to the CSP img-src so work images served by the
	// backend can load.
	ImageOrigin string
}

// Deps are the collaborators the handlers call into. Suggester may be nil.
type Deps struct {
	Gallery   *gallery.Controller
	Auth      Authenticator
	Sessions  *session.Store
	Uploads   upload.Store
	Suggester vision.Suggester
	Templates fs.FS
}

type Server struct {
	gallery   *gallery.Controller
	auth      Authenticator
	sessions  *session.Store
	uploads   upload.Store
	suggester vision.Suggester
	templates fs.FS
	opts      Options
	mux       *http.ServeMux
	handler   http.Handler
	logger    *slog.Logger
}

func NewServer(deps Deps, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		gallery:   deps.Gallery,
		auth:      deps.Auth,
		sessions:  deps.Sessions,
		uploads:   deps.Uploads,
		suggester: deps.Suggester,
		templates: deps.Templates,
		opts:      opts,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()
	s.handler = middleware.RequestID(
		middleware.RealIP(
			requestLogger(logger,
				middleware.Recoverer(
					securityHeaders(opts.ImageOrigin, s.mux)))))
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /gallery", s.handleGallery)
	s.mux.HandleFunc("GET /login", s.handleLoginPage)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("POST /logout", s.handleLogout)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.Handle("GET /admin/modal", s.requireAdmin(s.handleModal))
	s.mux.Handle("POST /admin/modal/form", s.requireAdmin(s.handleValidateForm))
	s.mux.Handle("POST /admin/uploads", s.requireAdmin(s.handleStageUpload))
	s.mux.Handle("GET /admin/uploads/{key}", s.requireAdmin(s.handleGetUpload))
	s.mux.Handle("DELETE /admin/uploads/{key}", s.requireAdmin(s.handleRemoveUpload))
	s.mux.Handle("POST /admin/works", s.requireAdmin(s.handleCreateWork))
	s.mux.Handle("DELETE /admin/works/{id}", s.requireAdmin(s.handleDeleteWork))
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(imageOrigin string, next http.Handler) http.Handler {
	imgSrc := "'self' data:"
	if imageOrigin != "" {
		imgSrc += " " + imageOrigin
	}
	csp := "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' https://unpkg.com; " +
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
		"font-src https://fonts.gstatic.com; " +
		"img-src " + imgSrc + "; " +
		"connect-src 'self'"
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", csp)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// renderPage parses base.html, the given page and the partials, then executes
// "base". The page is parsed after base.html so its blocks override the
// defaults.
func (s *Server) renderPage(w http.ResponseWriter, status int, data any, page string) error {
	tmpl, err := template.ParseFS(s.templates, "base.html", page, "partials/*.html")
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", data)
}

// Partial template names, defined under templates/partials.
const (
	tmplUpload     = "upload"
	tmplTitleInput = "title-input"
	tmplSubmit     = "submit"
	tmplModal      = "modal"
	tmplGallery    = "gallery"
)

// fragment is one named partial template and the data it is executed with.
type fragment struct {
	name string
	data any
}

// renderPartials executes the named partial templates one after another into
// a single response. Extra fragments are expected to be out-of-band swaps.
func (s *Server) renderPartials(w http.ResponseWriter, frags ...fragment) error {
	tmpl, err := template.ParseFS(s.templates, "partials/*.html")
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	var buf strings.Builder
	for _, f := range frags {
		if err := tmpl.ExecuteTemplate(&buf, f.name, f.data); err != nil {
			http.Error(w, "template error", http.StatusInternalServerError)
			return err
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = io.WriteString(w, buf.String())
	return err
}

func (s *Server) renderPartial(w http.ResponseWriter, name string, data any) error {
	return s.renderPartials(w, fragment{name: name, data: data})
}

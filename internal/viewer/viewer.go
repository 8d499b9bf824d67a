package viewer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/sweepplot/internal/api"
	"github.com/RMahshie/sweepplot/internal/api/handlers"
	"github.com/RMahshie/sweepplot/internal/repository"
	"github.com/RMahshie/sweepplot/pkg/models"
)

// DefaultAddr lets the OS pick a free loopback port, so several viewers can
// run side by side
const DefaultAddr = "127.0.0.1:0"

const (
	version                = "1.0.0"
	defaultShutdownTimeout = 5 * time.Second
)

// Config holds the viewer server settings. The page's own origin is always
// allowed in addition to AllowedOrigins.
type Config struct {
	Addr            string
	OpenBrowser     bool
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Viewer serves a rendered figure on a local HTTP server until it is dismissed
type Viewer struct {
	cfg  Config
	repo repository.MeasurementRepository

	openURL func(url string) error
}

// New creates a viewer. repo may be nil when measurement history is disabled.
func New(cfg Config, repo repository.MeasurementRepository) *Viewer {
	// Keep stdout for the command's own output
	browser.Stdout = os.Stderr

	return &Viewer{
		cfg:     cfg,
		repo:    repo,
		openURL: browser.OpenURL,
	}
}

// Show serves page and blocks until the page is closed or ctx is done.
// The server is shut down before Show returns.
func (v *Viewer) Show(ctx context.Context, page Page) error {
	addr := v.cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	sess := newSession(page.Summary)
	srv := &http.Server{
		Handler:           v.routes(page, sess, v.origins(ln.Addr())),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	url := "http://" + ln.Addr().String() + "/"
	log.Info().Str("url", url).Str("title", page.Title).Msg("Chart ready, close the page to exit")
	if v.cfg.OpenBrowser {
		if err := v.openURL(url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Failed to open browser, open the URL manually")
		}
	}

	select {
	case <-sess.done:
		log.Info().Msg("Viewer closed")
	case <-ctx.Done():
		log.Info().Msg("Interrupted, shutting down viewer")
	case err := <-serveErr:
		return fmt.Errorf("viewer server failed: %w", err)
	}

	timeout := v.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down viewer: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("viewer server failed: %w", err)
	}
	return nil
}

// origins returns the configured origins plus those the page is served from
func (v *Viewer) origins(addr net.Addr) []string {
	origins := append([]string{"http://" + addr.String()}, v.cfg.AllowedOrigins...)
	if tcp, ok := addr.(*net.TCPAddr); ok && tcp.IP.IsLoopback() {
		origins = append(origins, fmt.Sprintf("http://localhost:%d", tcp.Port))
	}
	return origins
}

func (v *Viewer) routes(page Page, sess *session, origins []string) http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(rejectForeignOrigins(origins))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	config := huma.DefaultConfig("Sweepplot Viewer", version)
	config.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, config)
	api.RegisterRoutes(humaAPI, handlers.NewViewerHandler(sess, v.repo, version))

	router.Get("/", page.serveHTML)
	router.Get("/chart.png", page.serveChart)

	return router
}

// session tracks whether the displayed figure has been dismissed
type session struct {
	summary models.FigureSummary
	once    sync.Once
	done    chan struct{}
}

func newSession(summary models.FigureSummary) *session {
	return &session{summary: summary, done: make(chan struct{})}
}

func (s *session) Summary() models.FigureSummary {
	return s.summary
}

func (s *session) Close() {
	s.once.Do(func() { close(s.done) })
}

package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/config"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/middleware"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

type application struct {
	logger *slog.Logger

	router  chi.Router
	httpSrv *http.Server

	runners []Runner
	closers []io.Closer
	checks  map[string]HealthCheck
}

func New(logger *slog.Logger, cfg config.Config) *application {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(chimw.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Cors.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Idempotency-Key"},
	}))

	httpSrv := &http.Server{
		Handler:           router,
		Addr:              net.JoinHostPort(cfg.Http.Host, cfg.Http.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a := &application{
		logger:  logger,
		httpSrv: httpSrv,
		router:  router,
		checks:  make(map[string]HealthCheck),
	}

	router.Get("/healthz", a.health)
	router.Handle("/metrics", promhttp.Handler())

	return a
}

type HTTPHandler interface {
	Init(r chi.Router)
}

func (a *application) SetHTTPHandlers(handlers ...HTTPHandler) {
	for _, h := range handlers {
		h.Init(a.router)
	}
}

// Runner is a background worker that blocks until ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

func (a *application) SetRunners(runners ...Runner) {
	a.runners = append(a.runners, runners...)
}

// SetClosers registers resources released on shutdown, in order.
func (a *application) SetClosers(closers ...io.Closer) {
	a.closers = append(a.closers, closers...)
}

type HealthCheck func(ctx context.Context) error

func (a *application) SetHealthCheck(name string, check HealthCheck) {
	a.checks[name] = check
}

// Run serves HTTP and runs every worker until ctx is cancelled or one of
// them fails.
func (a *application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, r := range a.runners {
		r := r
		g.Go(func() error {
			return r.Run(gctx)
		})
	}

	g.Go(func() error {
		a.logger.Info("starting http server", slog.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	a.logger.Info("application started")
	return g.Wait()
}

const gracefulShutdownTimeout = 5 * time.Second

func (a *application) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := a.httpSrv.Shutdown(ctx); err != nil {
		a.logger.Error("failed to shutdown http server", slog.Any("error", err))
		return err
	}
	return nil
}

func (a *application) Stop() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Error("failed to close resource", slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application stopped")
	return errors.Join(errs...)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (a *application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := healthResponse{Status: "ok", Checks: make(map[string]string, len(a.checks))}
	code := http.StatusOK
	for name, check := range a.checks {
		if err := check(ctx); err != nil {
			a.logger.WarnContext(ctx, "health check failed", slog.String("check", name), slog.Any("error", err))
			res.Checks[name] = "down"
			res.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		res.Checks[name] = "up"
	}

	utils.WriteJSON(w, res, code)
}

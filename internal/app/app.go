package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/casetracker/internal/auth"
	"github.com/yourusername/casetracker/internal/config"
	"github.com/yourusername/casetracker/internal/email"
	"github.com/yourusername/casetracker/internal/logging"
	"github.com/yourusername/casetracker/internal/metrics"
	"github.com/yourusername/casetracker/internal/search"
	"github.com/yourusername/casetracker/internal/storage"
)

/* ------------------------------------------------------------------
   App struct — runtime container
-------------------------------------------------------------------*/

type App struct {
	// configuration & infrastructure
	cfg    config.Config
	db     *storage.Database
	labels *storage.LabelStorage
	mailer *email.LabelMailer
	log    *zap.Logger

	auth    *auth.Service
	search  *search.Searcher
	metrics *metrics.Metrics
	now     func() time.Time

	server *http.Server
}

/* ------------------------------------------------------------------
   Public getters (used by the api package)
-------------------------------------------------------------------*/

func (a *App) Config() config.Config { return a.cfg }
func (a *App) DB() *storage.Database { return a.db }
func (a *App) Labels() *storage.LabelStorage { return a.labels }
func (a *App) Mailer() *email.LabelMailer { return a.mailer }
func (a *App) Logger() *zap.Logger { return a.log }
func (a *App) Auth() *auth.Service { return a.auth }
func (a *App) Search() *search.Searcher { return a.search }
func (a *App) Metrics() *metrics.Metrics { return a.metrics }
func (a *App) Now() time.Time { return a.now() }
func (a *App) SetClock(now func() time.Time) { a.now = now }
func (a *App) SetMailer(m *email.LabelMailer) { a.mailer = m }

/* ------------------------------------------------------------------
   Init / Run / Close lifecycle
-------------------------------------------------------------------*/

// New wires an App around an already open database.
func New(cfg config.Config, db *storage.Database, log *zap.Logger) (*App, error) {
	labels, err := storage.NewLabelStorage(cfg.Label.StoragePath)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		db:      db,
		labels:  labels,
		mailer:  email.NewLabelMailer(cfg.Label),
		log:     log,
		auth:    auth.NewService(cfg.JWTSecret),
		metrics: metrics.New(),
		now:     time.Now,
	}

	a.search = search.New(search.StoreProviders(db, cfg.SearchJurisdictions)...)
	a.search.OnError = func(provider string, err error) {
		a.metrics.SearchProviderErrors.WithLabelValues(provider).Inc()
		a.log.Warn("search provider failed", zap.String("provider", provider), zap.Error(err))
	}
	return a, nil
}

// Init loads configuration from cfgFile and the environment, builds the
// logger and opens the database.
func Init(cfgFile string) (*App, error) {
	/* 1. configuration */
	c, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	/* 2. logging */
	log, err := logging.New(c.Log)
	if err != nil {
		return nil, err
	}

	/* 3. database */
	db, err := storage.Open(c.DB)
	if err != nil {
		return nil, err
	}
	log.Info("database ready", zap.String("driver", c.DB.Driver))

	a, err := New(c, db, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	if a.mailer == nil {
		log.Info("label mail relay not configured; labels are only spooled",
			zap.String("path", c.Label.StoragePath))
	}
	return a, nil
}

// Run serves h until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context, h http.Handler) error {
	a.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.WebHost, a.cfg.WebPort),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("HTTP listening", zap.String("addr", a.server.Addr))
		errc <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}

func (a *App) Close() error {
	_ = a.log.Sync()
	return a.db.Close()
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/amaumene/gostremiojackett/internal/config"
	"github.com/amaumene/gostremiojackett/internal/constants"
	"github.com/amaumene/gostremiojackett/internal/database"
	"github.com/amaumene/gostremiojackett/internal/handlers"
	"github.com/amaumene/gostremiojackett/internal/metrics"
	"github.com/amaumene/gostremiojackett/internal/middleware"
	"github.com/amaumene/gostremiojackett/internal/services"
	"github.com/amaumene/gostremiojackett/pkg/logger"
	"github.com/amaumene/gostremiojackett/pkg/ssl"
)

const (
	cacheCleanupInterval = time.Hour
	shutdownTimeout      = 10 * time.Second
)

type app struct {
	config   *config.Config
	logger   logger.Logger
	db       *database.BoltStore
	registry *prometheus.Registry
	services *services.Container
}

func newApp(configFile string) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	a := &app{config: cfg}
	a.InitializeLogger()
	if err := a.InitializeDatabase(); err != nil {
		return nil, err
	}
	a.InitializeServices()
	return a, nil
}

func (a *app) InitializeLogger() {
	a.logger = logger.NewWithOptions(logger.Options{
		Level: a.config.LogLevel,
		Path:  a.config.LogPath,
	})

	if !logger.IsKnownLevel(a.config.LogLevel) {
		a.logger.Warnf("[App] warning: unknown log level '%s', defaulting to info", a.config.LogLevel)
	}
}

// InitializeDatabase opens the metadata store when a database path is configured.
func (a *app) InitializeDatabase() error {
	if a.config.DatabasePath == "" {
		a.logger.Infof("[App] no database path configured, title metadata is kept in memory only")
		return nil
	}

	db, err := database.NewBolt(a.config.DatabasePath, constants.MetadataStoreTTL)
	if err != nil {
		return err
	}
	a.db = db
	a.logger.Infof("[App] bbolt database initialized at %s", a.config.DatabasePath)
	return nil
}

func (a *app) InitializeServices() {
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var store database.MetaStore
	if a.db != nil {
		store = a.db
	}
	a.services = services.NewContainer(a.config, store, a.logger, metrics.New(a.registry))

	a.logger.Infof("[App] services initialized with %d sources (engine enabled: %t)", len(a.config.Sources), a.config.EngineEnabled)
}

func (a *app) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(a.logger))
	r.Use(middleware.Gzip())
	r.Use(middleware.CORS())

	handlers.New(a.services, a.config, a.registry).RegisterRoutes(r)
	return r
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Errorf("[App] failed to close database: %v", err)
		}
	}
}

func (a *app) setupTLS(ctx context.Context, server *http.Server) error {
	cert := ssl.NewLocalIPCertificate(ssl.Options{CacheDir: a.config.TLSCacheDir}, a.logger)
	tlsConfig, err := cert.TLSConfig(ctx)
	if err != nil {
		return err
	}
	server.TLSConfig = tlsConfig

	if ip, err := ssl.LocalIP(); err == nil {
		a.logger.Infof("[App] install the addon from https://%s:%d/manifest.json", ssl.Hostname(ip), a.config.Port)
	} else {
		a.logger.Warnf("[App] failed to detect local IP: %v", err)
	}
	return nil
}

func runServe(ctx context.Context, configFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(configFile)
	if err != nil {
		return err
	}
	defer a.Close()

	a.services.Cache.StartCleanup(ctx, cacheCleanupInterval)

	server := &http.Server{
		Addr:              a.config.Addr(),
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.config.TLSLocalIP {
		if err := a.setupTLS(ctx, server); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if server.TLSConfig != nil {
			a.logger.Infof("[App] starting HTTPS server on %s", server.Addr)
			err = server.ListenAndServeTLS("", "")
		} else {
			a.logger.Infof("[App] starting HTTP server on %s", server.Addr)
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Infof("[App] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

package app

import (
	"context"
	"fmt"
	"net"
	"os"

	"gorm.io/gorm"

	"github.com/yungbote/adcopy-backend/internal/compliance"
	"github.com/yungbote/adcopy-backend/internal/db"
	apphttp "github.com/yungbote/adcopy-backend/internal/http"
	"github.com/yungbote/adcopy-backend/internal/observability"
	"github.com/yungbote/adcopy-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Services Services
	Server   *apphttp.Server

	pg           *db.PostgresService
	closers      []func() error
	shutdownOTel func(context.Context) error
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func New(ctx context.Context) (*App, error) {
	LoadEnvFile()
	log, err := NewLogger()
	if err != nil {
		return nil, err
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	shutdownOTel := observability.InitOTel(ctx, log, cfg.OTel)

	pg, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}

	table, err := loadTable(cfg.PlatformSpecPath)
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	a := &App{
		Log:          log,
		DB:           pg.DB(),
		Cfg:          cfg,
		pg:           pg,
		shutdownOTel: shutdownOTel,
	}

	guard, closeGuard := wireIdempotencyGuard(log, cfg)
	if closeGuard != nil {
		a.closers = append(a.closers, closeGuard)
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	a.Services = wireServices(a.DB, log, cfg, table, guard)
	a.Server = apphttp.NewServer(wireRouterConfig(log, cfg, a.Services, metrics))
	log.Info("Platform spec table loaded", "version", table.Version(), "platforms", len(table.Platforms()))
	return a, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := net.JoinHostPort("", a.Cfg.Port)
	a.Log.Info("Starting server", "addr", addr)
	return a.Server.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.Log != nil {
			a.Log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
	if a.pg != nil {
		if err := a.pg.Close(); err != nil && a.Log != nil {
			a.Log.Warn("postgres close failed", "error", err)
		}
		a.pg = nil
	}
	if a.shutdownOTel != nil {
		_ = a.shutdownOTel(context.Background())
		a.shutdownOTel = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

// Migrate connects to postgres and applies the schema without starting the server.
func Migrate(log *logger.Logger) error {
	cfg := LoadConfig(log)
	pg, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}
	defer pg.Close()
	if err := pg.AutoMigrateAll(); err != nil {
		return fmt.Errorf("postgres automigrate: %w", err)
	}
	return nil
}

func loadTable(path string) (*compliance.Table, error) {
	if path == "" {
		table, err := compliance.LoadDefaultTable()
		if err != nil {
			return nil, fmt.Errorf("load platform table: %w", err)
		}
		return table, nil
	}
	table, err := compliance.LoadTableFile(path)
	if err != nil {
		return nil, fmt.Errorf("load platform table %s: %w", path, err)
	}
	return table, nil
}

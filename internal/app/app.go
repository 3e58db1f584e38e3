package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/sundayezeilo/shortlink/codegen"
	"github.com/sundayezeilo/shortlink/internal/config"
	"github.com/sundayezeilo/shortlink/internal/db/migrations"
	db "github.com/sundayezeilo/shortlink/internal/db/sqlc"
	"github.com/sundayezeilo/shortlink/internal/logger"
	"github.com/sundayezeilo/shortlink/internal/server"
	"github.com/sundayezeilo/shortlink/internal/shortener"
)

// App holds the application dependencies and configuration.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DBPool  *pgxpool.Pool // set when DB_DRIVER=postgres
	SQLDB   *sql.DB       // set when DB_DRIVER=sqlite
	Server  *server.Server
	Handler *shortener.Handler

	logCloser io.Closer
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	loadEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	appLogger, logCloser, err := logger.New(cfg.App.LogLevel, cfg.Log, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("starting application",
		"env", cfg.App.Environment,
		"db_driver", cfg.Database.Driver,
	)

	a := &App{Config: cfg, Logger: appLogger, logCloser: logCloser}

	repo, err := a.openRepository(ctx)
	if err != nil {
		_ = a.Shutdown()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	svc := shortener.NewService(repo, &shortener.ServiceConfig{
		CodeGenerator: codegen.New(codegen.Style(cfg.Shortener.CodeStyle)),
		MaxRetries:    cfg.Shortener.MaxRetries,
	})

	if !cfg.App.IsProduction() {
		if err := shortener.Seed(ctx, svc, appLogger, cfg.Shortener.SeedURLs); err != nil {
			_ = a.Shutdown()
			return nil, fmt.Errorf("failed to seed data: %w", err)
		}
	}

	a.Handler = shortener.NewHandler(shortener.HandlerConfig{
		Service: svc,
		Logger:  appLogger,
		BaseURL: cfg.Server.BaseURL,
	})
	a.Server = server.New(cfg, appLogger, a.Handler)

	appLogger.Info("application initialized",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	return a, nil
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown releases storage connections and the log file.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database connection closed")
	}
	if a.SQLDB != nil {
		if err := a.SQLDB.Close(); err != nil {
			a.Logger.Error("failed to close sqlite database", "error", err)
		} else {
			a.Logger.Info("database connection closed")
		}
	}
	if a.logCloser != nil {
		return a.logCloser.Close()
	}
	return nil
}

// loadEnv loads a .env file outside production. A missing file is fine.
func loadEnv() {
	if os.Getenv("APP_ENV") == "production" {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found.")
	}
}

func (a *App) openRepository(ctx context.Context) (shortener.Repository, error) {
	switch a.Config.Database.Driver {
	case config.DriverPostgres:
		pool, err := connectPostgres(ctx, a.Config, a.Logger)
		if err != nil {
			return nil, err
		}
		a.DBPool = pool

		if err := migrations.Postgres(ctx, a.Config.Database.ConnectionString()); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return shortener.NewPostgresRepository(db.New(pool)), nil

	default:
		sqlDB, err := connectSQLite(ctx, a.Config, a.Logger)
		if err != nil {
			return nil, err
		}
		a.SQLDB = sqlDB

		if err := migrations.SQLite(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return shortener.NewSQLiteRepository(sqlDB), nil
	}
}

// connectPostgres establishes a connection pool to the PostgreSQL database.
func connectPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	logger.Info("connecting to database",
		"driver", config.DriverPostgres,
		"host", poolConfig.ConnConfig.Host,
		"port", poolConfig.ConnConfig.Port,
		"database", poolConfig.ConnConfig.Database,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return pool, nil
}

// connectSQLite opens the SQLite file. Writes are serialized through one
// connection; the busy timeout in the DSN covers other processes.
func connectSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	logger.Info("connecting to database", "driver", config.DriverSQLite)

	sqlDB, err := sql.Open("sqlite", cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return sqlDB, nil
}

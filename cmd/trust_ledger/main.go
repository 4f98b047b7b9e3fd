package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/SscSPs/trust_ledger/cmd/docs"
	"github.com/SscSPs/trust_ledger/internal/core/ports/infra"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/trust_ledger/internal/core/services"
	"github.com/SscSPs/trust_ledger/internal/handlers"
	"github.com/SscSPs/trust_ledger/internal/middleware"
	"github.com/SscSPs/trust_ledger/internal/platform/blobstore"
	"github.com/SscSPs/trust_ledger/internal/platform/config"
	"github.com/SscSPs/trust_ledger/internal/platform/events"
	"github.com/SscSPs/trust_ledger/internal/platform/locking"
	"github.com/SscSPs/trust_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/trust_ledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/trust_ledger/pkg/database"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Trust Ledger API
// @version 1.0
// @description Owner directory, chart of accounts, transaction posting and ledger statements.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	repos, closeDB, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	closers = append(closers, closeDB)

	deps, closeInfra, err := openInfra(ctx, cfg, logger)
	closers = append(closers, closeInfra...)
	if err != nil {
		return err
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, deps)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	// multipart bodies above this spill to temp files
	r.MaxMultipartMemory = cfg.MaxAttachmentBytes

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		return err
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("db_driver", cfg.DBDriver), slog.String("blob_driver", cfg.BlobDriver))
	return r.Run(":" + cfg.Port)
}

// openRepositories connects the configured database, applies migrations and
// returns the matching repository adapters.
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := database.NewSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := database.Migrate(db, database.DriverSQLite, cfg.MigrationsPath, logger); err != nil {
			db.Close()
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("SQLite database ready", slog.String("path", cfg.SQLitePath))
		return sqlite.NewRepositoryProvider(db), func() { db.Close() }, nil

	default:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns: cfg.DBMaxConns,
			Ping:     cfg.EnableDBCheck,
		})
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}

		// Open a temporary standard sql.DB connection for migrations
		// Using pgx/v5/stdlib driver to be compatible with the main pool
		migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			database.ClosePgxPool(dbPool)
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to open database connection for migrations: %w", err)
		}
		defer func() {
			if cerr := migrationDB.Close(); cerr != nil {
				logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
			}
		}()
		if err := database.Migrate(migrationDB, database.DriverPostgres, cfg.MigrationsPath, logger); err != nil {
			database.ClosePgxPool(dbPool)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
	}
}

// openInfra builds the blob store, owner locker and event publisher. The
// returned closers are valid even when err is non-nil.
func openInfra(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.Infra, []func(), error) {
	var (
		deps    services.Infra
		closers []func()
	)

	switch cfg.BlobDriver {
	case config.BlobGCS:
		store, err := blobstore.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
		if err != nil {
			return deps, closers, fmt.Errorf("failed to open GCS bucket: %w", err)
		}
		closers = append(closers, func() { _ = store.Close() })
		deps.Blobs = store
	default:
		store, err := blobstore.NewLocalStore(cfg.BlobLocalDir)
		if err != nil {
			return deps, closers, fmt.Errorf("failed to prepare attachment directory: %w", err)
		}
		deps.Blobs = store
	}

	if cfg.RedisURL != "" {
		client, err := locking.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return deps, closers, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		deps.Locker = locking.NewRedisLocker(client, cfg.LockTTL)
		logger.Info("Using redis owner locks")
	} else {
		deps.Locker = locking.NewLocalLocker()
	}

	var publisher infra.EventPublisher = events.NoopPublisher{}
	if cfg.PublishEvents() {
		ps, err := events.NewPubSubPublisher(ctx, cfg.PubSubProjectID, cfg.PubSubTopic, cfg.GCSCredentialsJSON)
		if err != nil {
			return deps, closers, fmt.Errorf("failed to create pubsub publisher: %w", err)
		}
		closers = append(closers, func() { _ = ps.Close() })
		publisher = ps
	}
	deps.Publisher = publisher

	return deps, closers, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

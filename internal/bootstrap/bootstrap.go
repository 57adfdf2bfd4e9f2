package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appMigrations "github.com/yigit/schoolmanager/internal/app/migrations"
	appRepos "github.com/yigit/schoolmanager/internal/app/repositories"
	"github.com/yigit/schoolmanager/internal/app/repositories/memory"
	appRoutes "github.com/yigit/schoolmanager/internal/app/routes"
	appServices "github.com/yigit/schoolmanager/internal/app/services"
	"github.com/yigit/schoolmanager/internal/config"
	"github.com/yigit/schoolmanager/internal/db"
	appMiddleware "github.com/yigit/schoolmanager/internal/middleware"
	pkgAuth "github.com/yigit/schoolmanager/internal/pkg/auth"
	"github.com/yigit/schoolmanager/internal/pkg/cache"
	"github.com/yigit/schoolmanager/internal/pkg/logger"
	"github.com/yigit/schoolmanager/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	DBPool      *pgxpool.Pool // nil with the in-memory store
	Repos       *appRepos.Repositories
	Cache       cache.Cache
	JWTService  *pkgAuth.JWTService
	Services    *appServices.Services
	Controllers *appRoutes.Controllers
	Logger      zerolog.Logger

	closers []func()
}

// Close releases the database pool and the cache connection
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Server.MigrationsPath
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// SetupCache returns the school lookup cache: Redis when enabled, otherwise
// an in-process cache for the memory store and none for Postgres.
func SetupCache(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (cache.Cache, func(), error) {
	if !cfg.Redis.Enabled {
		if cfg.Server.MemoryStore {
			return cache.NewMemory(), func() {}, nil
		}
		return cache.Noop{}, func() {}, nil
	}

	ttl, err := time.ParseDuration(cfg.Redis.TTL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis ttl: %w", err)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      ttl,
		Prefix:   "schoolmanager:",
	})
	if err != nil {
		return nil, nil, err
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", ttl).Msg("Redis cache connected")
	return rc, func() { _ = rc.Close() }, nil
}

// NewJWTService builds the teacher token service from the jwt section
func NewJWTService(cfg *config.Config) (*pkgAuth.JWTService, error) {
	exp, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt expiration: %w", err)
	}
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: exp,
		TokenIssuer:    cfg.JWT.Issuer,
	}), nil
}

// BuildDependencies initializes storage, cache, services and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if cfg.Server.MemoryStore {
		lgr.Warn().Msg("Using the in-memory store, data is lost on shutdown")
		deps.Repos = memory.NewStore().Repositories()
	} else {
		dbPool, err := SetupDatabase(ctx, cfg, lgr)
		if err != nil {
			return nil, err
		}
		deps.DBPool = dbPool
		deps.closers = append(deps.closers, dbPool.Close)
		deps.Repos = appRepos.NewRepositories(dbPool)
	}

	if _, err := seed.CreateDefaultData(ctx, deps.Repos, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	c, closeCache, err := SetupCache(ctx, cfg, lgr)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Cache = c
	deps.closers = append(deps.closers, closeCache)

	if deps.JWTService, err = NewJWTService(cfg); err != nil {
		deps.Close()
		return nil, err
	}

	deps.Services = appServices.NewServices(deps.Repos, deps.Cache, deps.JWTService)
	deps.Controllers = appRoutes.NewControllers(deps.Services)
	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestID(), appMiddleware.RequestLogger())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.JWTService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

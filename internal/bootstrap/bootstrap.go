package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/sis/internal/app/auth"
	appControllers "github.com/yigit/sis/internal/app/controllers"
	appMigrations "github.com/yigit/sis/internal/app/migrations"
	appRepos "github.com/yigit/sis/internal/app/repositories"
	appRoutes "github.com/yigit/sis/internal/app/routes"
	appServices "github.com/yigit/sis/internal/app/services"
	"github.com/yigit/sis/internal/config"
	"github.com/yigit/sis/internal/db"
	appMiddleware "github.com/yigit/sis/internal/middleware"
	pkgAuth "github.com/yigit/sis/internal/pkg/auth"
	"github.com/yigit/sis/internal/pkg/logger"
	"github.com/yigit/sis/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store          *appRepos.Store
	JWTService     *pkgAuth.JWTService
	Gate           *appAuth.Gate
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the pool and checks it answers.
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database.Pool, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, lgr zerolog.Logger) ([]appMigrations.Result, error) {
	lgr.Info().Msg("Running database migrations...")
	results, err := appMigrations.NewMigrator(pool).MigrateEmbedded(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return results, fmt.Errorf("database migrations failed: %w", err)
	}

	applied := 0
	for _, r := range results {
		if r.Applied {
			applied++
		}
	}
	lgr.Info().Int("applied", applied).Int("total", len(results)).Msg("Database migrations complete.")
	return results, nil
}

// SeedAdmin creates the bootstrap admin when it is missing.
func SeedAdmin(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, lgr zerolog.Logger) (bool, error) {
	return seed.EnsureBootstrapAdmin(ctx, appRepos.NewStore(pool), seed.AdminSeed{
		AccountNo: cfg.Bootstrap.AdminAccountNo,
		Password:  cfg.Bootstrap.AdminPassword,
		Hasher:    pkgAuth.DefaultHasher,
	}, lgr)
}

// SetupDatabase connects, migrates and seeds the bootstrap admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	dbPool, err := ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := RunMigrations(ctx, dbPool, lgr); err != nil {
		dbPool.Close()
		return nil, err
	}

	if _, err := SeedAdmin(ctx, cfg, dbPool, lgr); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Store = appRepos.NewStore(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Gate = appAuth.NewGate(deps.JWTService)

	deps.Services = appServices.NewServices(deps.Store, deps.JWTService, appServices.Options{
		BootstrapAdminAccountNo: cfg.Bootstrap.AdminAccountNo,
		DefaultPassword:         cfg.Bootstrap.DefaultPassword,
		Hasher:                  pkgAuth.DefaultHasher,
	}, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Gate)

	svc := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(svc.Auth, svc.Accounts, logger.Component("auth")),
		Accounts:    appControllers.NewAccountController(svc.Accounts, logger.Component("accounts")),
		Students:    appControllers.NewStudentController(svc.Students, svc.Courses, svc.Enrollments, logger.Component("students")),
		Teachers:    appControllers.NewTeacherController(svc.Teachers, svc.Courses, svc.Enrollments, logger.Component("teachers")),
		Courses:     appControllers.NewCourseController(svc.Courses, logger.Component("courses")),
		Enrollments: appControllers.NewEnrollmentController(svc.Enrollments, svc.Export, logger.Component("enrollments")),
		Health:      appControllers.NewHealthController(dbPool),
	}

	return deps, nil
}

// NewRouter builds a gin engine with the standard middleware chain and all
// routes, without touching gin's global mode.
func NewRouter(allowedOrigins []string, deps *Dependencies) *gin.Engine {
	appMiddleware.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(deps.Logger))
	router.Use(appMiddleware.CORS(allowedOrigins))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	return router
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	return NewRouter(cfg.AllowedOrigins(), deps)
}

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/lecturehub/internal/app/auth"
	appControllers "github.com/yigit/lecturehub/internal/app/controllers"
	appMigrations "github.com/yigit/lecturehub/internal/app/migrations"
	"github.com/yigit/lecturehub/internal/app/models/dto"
	appRepos "github.com/yigit/lecturehub/internal/app/repositories"
	appRoutes "github.com/yigit/lecturehub/internal/app/routes"
	appServices "github.com/yigit/lecturehub/internal/app/services"
	"github.com/yigit/lecturehub/internal/config"
	"github.com/yigit/lecturehub/internal/db"
	appMiddleware "github.com/yigit/lecturehub/internal/middleware"
	pkgAuth "github.com/yigit/lecturehub/internal/pkg/auth"
	"github.com/yigit/lecturehub/internal/pkg/filestorage"
	"github.com/yigit/lecturehub/internal/pkg/helpers"
	"github.com/yigit/lecturehub/internal/pkg/logger"
	"github.com/yigit/lecturehub/internal/seed"
)

// localUploadsPath is where the local storage driver's files are served
const localUploadsPath = "/uploads"

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        appServices.AuthService
	MaterialService    appServices.MaterialService
	CourseService      appServices.CourseService
	AuthController     *appControllers.AuthController
	MaterialController *appControllers.MaterialController
	CourseController   *appControllers.CourseController
	HealthController   *appControllers.HealthController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	Sessions           *pkgAuth.SessionService
	AuthzService       *appAuth.AuthorizationService
	FileStorage        filestorage.BlobStore
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the default lecturer.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	lecturers := appRepos.NewLecturerRepository(database.Pool)
	if err := seed.CreateDefaultLecturer(ctx, lecturers, cfg, lgr); err != nil {
		// The service is usable without the seed when accounts already exist
		lgr.Error().Err(err).Msg("Failed to create default lecturer, proceeding anyway...")
	}

	return database, nil
}

// SetupStorage connects the configured blob store.
// The local driver is returned separately so its directory can be served.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (filestorage.BlobStore, *filestorage.LocalStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverLocal:
		local, err := filestorage.NewLocalStorage(cfg.Storage.LocalPath, cfg.PublicBaseURL()+localUploadsPath, lgr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return local, local, nil
	default:
		store, err := filestorage.NewMinioStorage(ctx, filestorage.MinioConfig{
			Endpoint:      cfg.Storage.Endpoint,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			Bucket:        cfg.Storage.Bucket,
			Region:        cfg.Storage.Region,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		}, lgr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		return store, nil, nil
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, store filestorage.BlobStore, database appControllers.Pinger, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		Repos:       repos,
		FileStorage: store,
		Logger:      lgr,
	}

	deps.Sessions = pkgAuth.NewSessionService(pkgAuth.SessionConfig{
		SecretKey: cfg.Session.Secret,
		TTL:       helpers.ParseDuration(cfg.Session.TTL, 7*24*time.Hour),
		Issuer:    cfg.Session.Issuer,
	})

	deps.AuthzService = appAuth.NewAuthorizationService(repos.MaterialRepository)

	deps.AuthService = appServices.NewAuthService(repos.LecturerRepository, repos.CourseRepository, deps.Sessions, lgr)
	deps.MaterialService = appServices.NewMaterialService(repos.MaterialRepository, deps.AuthzService, store, appServices.UploadPolicy{
		MaxFileSize:       cfg.Upload.MaxFileSize,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		Folder:            cfg.Upload.Folder,
	}, lgr)
	deps.CourseService = appServices.NewCourseService(repos.CourseRepository, repos.MaterialRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Sessions, cfg.Session.CookieName)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.Sessions, appControllers.CookieSettings{
		Name:   cfg.Session.CookieName,
		Secure: cfg.IsProduction(),
	}, lgr)
	deps.MaterialController = appControllers.NewMaterialController(deps.MaterialService, cfg.Upload.MaxFileSize, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.HealthController = appControllers.NewHealthController(database)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, local *filestorage.LocalStorage, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	dto.RegisterFieldNames()

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Recovery(lgr),
	)
	router.MaxMultipartMemory = 8 << 20

	appRoutes.SetupRouter(router, appRoutes.Controllers{
		Auth:     deps.AuthController,
		Material: deps.MaterialController,
		Course:   deps.CourseController,
		Health:   deps.HealthController,
	}, deps.AuthMiddleware)

	if local != nil {
		appRoutes.ServeLocalUploads(router, localUploadsPath, local.BasePath())
		lgr.Info().Str("path", local.BasePath()).Msg("Static file serving configured for uploads directory")
	}

	return router
}

package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/gradlink/alumni/internal/app/controllers"
	appMigrations "github.com/gradlink/alumni/internal/app/migrations"
	appRepos "github.com/gradlink/alumni/internal/app/repositories"
	appRoutes "github.com/gradlink/alumni/internal/app/routes"
	appServices "github.com/gradlink/alumni/internal/app/services"
	"github.com/gradlink/alumni/internal/config"
	"github.com/gradlink/alumni/internal/db"
	appMiddleware "github.com/gradlink/alumni/internal/middleware"
	pkgAuth "github.com/gradlink/alumni/internal/pkg/auth"
	"github.com/gradlink/alumni/internal/pkg/filestorage"
	"github.com/gradlink/alumni/internal/pkg/logger"
	"github.com/gradlink/alumni/internal/pkg/messaging"
	"github.com/gradlink/alumni/internal/pkg/websocket"
	"github.com/gradlink/alumni/internal/seed"
	"github.com/gradlink/alumni/internal/workers"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Hub         *websocket.Hub
	Publisher   messaging.Publisher
	Outbox      *workers.OutboxWorker
	RateLimiter *appMiddleware.RateLimiter

	AccountService    appServices.AccountService
	DirectoryService  appServices.DirectoryService
	ConnectionService appServices.ConnectionService
	MentorshipService appServices.MentorshipService
	EventService      appServices.EventService
	JobService        appServices.JobService
	CommunityService  appServices.CommunityService
	MessageService    appServices.MessageService
	HomeService       appServices.HomeService

	Controllers    appRoutes.Controllers
	WSHandler      *websocket.Handler
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// ConfigPath returns the YAML config location, overridable with CONFIG_PATH
func ConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return filepath.Join("configs", "config.yaml")
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(ConfigPath())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// RunMigrations applies the embedded SQL migrations
func RunMigrations(cfg *config.Config, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	migrator, err := appMigrations.NewMigrator(cfg.GetMigrateConnectionString(), lgr.With().Str("component", "migrate").Logger())
	if err != nil {
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			lgr.Warn().Err(err).Msg("Failed to close migrator")
		}
	}()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds reference data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if cfg.Database.AutoMigrate {
		if err := RunMigrations(cfg, lgr); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			database.Close()
			return nil, err
		}
	}

	if cfg.Database.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := seed.CreateDefaultData(ctx,
			appRepos.NewUniversityRepository(database.Pool),
			appRepos.NewEventRepository(database.Pool),
			appRepos.NewJobRepository(database.Pool),
			lgr,
		); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// NewPublisher returns the RabbitMQ publisher when enabled, otherwise a log-only publisher.
// An unreachable broker falls back to logging so the API still starts.
func NewPublisher(cfg *config.Config, lgr zerolog.Logger) messaging.Publisher {
	if !cfg.RabbitMQ.Enabled {
		lgr.Info().Msg("RabbitMQ disabled, outbox events will be logged")
		return messaging.NewLogPublisher(lgr)
	}

	publisher, err := messaging.NewRabbitPublisher(messaging.RabbitConfig{
		URL:      cfg.RabbitMQ.URL,
		Exchange: cfg.RabbitMQ.Exchange,
	}, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to RabbitMQ, falling back to log publisher")
		return messaging.NewLogPublisher(lgr)
	}
	lgr.Info().Str("exchange", cfg.RabbitMQ.Exchange).Msg("RabbitMQ publisher connected")
	return publisher
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, pool db.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	clk := clock.New()

	deps.Repos = appRepos.NewRepositories(pool)
	repos := deps.Repos

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  cfg.AccessTokenTTL(),
		RefreshTokenExp: cfg.RefreshTokenTTL(),
		TokenIssuer:     cfg.JWT.Issuer,
	}, clk)

	deps.Hub = websocket.NewHub(lgr)
	deps.Publisher = NewPublisher(cfg, lgr)
	deps.Outbox = workers.NewOutboxWorker(workers.OutboxConfig{
		Schedule:      cfg.Outbox.Schedule,
		BatchSize:     cfg.Outbox.BatchSize,
		MaxRetries:    cfg.Outbox.MaxRetries,
		RoutingPrefix: cfg.RabbitMQ.RoutingPrefix,
	}, repos.OutboxRepository, deps.Publisher, clk, lgr)

	notifier := appServices.NewNotifier(repos.OutboxRepository, clk, lgr)

	deps.AccountService = appServices.NewAccountService(
		repos.UserRepository,
		repos.ProfileRepository,
		repos.ConnectionRepository,
		deps.FileStorage,
		deps.JWTService,
		logger.WithComponent("account_service"),
	)
	deps.DirectoryService = appServices.NewDirectoryService(repos.DirectoryRepository, repos.UniversityRepository, lgr)
	deps.ConnectionService = appServices.NewConnectionService(repos.ConnectionRepository, repos.UserRepository, notifier, lgr)
	deps.MentorshipService = appServices.NewMentorshipService(repos.MentorshipRepository, repos.ProfileRepository, repos.UserRepository, notifier, lgr)
	deps.EventService = appServices.NewEventService(
		repos.EventRepository,
		repos.EventRegistrationRepository,
		repos.UserRepository,
		notifier,
		clk,
		logger.WithComponent("event_service"),
	)
	deps.JobService = appServices.NewJobService(
		repos.JobRepository,
		repos.JobApplicationRepository,
		repos.UserRepository,
		deps.FileStorage,
		notifier,
		logger.WithComponent("job_service"),
	)
	deps.CommunityService = appServices.NewCommunityService(repos.PostRepository, repos.CommentRepository, repos.UserRepository, lgr)
	deps.MessageService = appServices.NewMessageService(repos.MessageRepository, repos.UserRepository, notifier, deps.Hub, clk, lgr)
	deps.HomeService = appServices.NewHomeService(
		repos.JobRepository,
		repos.EventRepository,
		repos.PostRepository,
		repos.ConnectionRepository,
		repos.MessageRepository,
		repos.UserRepository,
		clk,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.WSHandler = websocket.NewHandler(deps.Hub, cfg.Server.AllowedOrigins, lgr)
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	deps.Controllers = appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(deps.AccountService, lgr),
		User:      appControllers.NewUserController(deps.AccountService, lgr),
		Directory: appControllers.NewDirectoryController(deps.DirectoryService),
		Network:   appControllers.NewNetworkController(deps.ConnectionService, deps.MentorshipService, lgr),
		Event:     appControllers.NewEventController(deps.EventService, lgr),
		Job:       appControllers.NewJobController(deps.JobService),
		Post:      appControllers.NewPostController(deps.CommunityService),
		Message:   appControllers.NewMessageController(deps.MessageService),
		Home:      appControllers.NewHomeController(deps.HomeService),
	}

	return deps, nil
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

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(), appMiddleware.CORS(cfg.Server.AllowedOrigins))
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware())
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.WSHandler, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	googleauth "resume-tailor/internal/auth"
	"resume-tailor/internal/generatedresumes"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/llm/gemini"
	"resume-tailor/internal/llm/openai"
	"resume-tailor/internal/profiles"
	"resume-tailor/internal/queue"
	"resume-tailor/internal/render"
	"resume-tailor/internal/services/health"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/server"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/storage/db"
	"resume-tailor/internal/shared/storage/object"
	localstore "resume-tailor/internal/shared/storage/object/local"
	s3store "resume-tailor/internal/shared/storage/object/s3"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Store     object.ObjectStore
	LLM       llm.Client
	Publisher queue.Publisher
	Redis     *redis.Client
	Health    *health.Service

	UsersService            *users.Service
	ProfilesService         *profiles.Service
	GeneratedResumesService *generatedresumes.Service
	GoogleAuth              *googleauth.GoogleService

	closers []func() error
}

// Options tweaks Build for a specific binary.
type Options struct {
	// DBOptions overrides the connection pool settings.
	DBOptions *db.Options
	// SkipMigrations leaves the schema alone (cmd/migrate manages it explicitly).
	SkipMigrations bool
	// SkipPublisher builds no render queue publisher (the worker only consumes).
	SkipPublisher bool
}

// Build prepares shared dependencies and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	return BuildWithOptions(context.Background(), cfg, Options{})
}

// BuildWithOptions is Build with per-binary overrides.
func BuildWithOptions(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	app := &App{Config: cfg, Health: health.NewService()}

	sqlDB, err := buildDB(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil {
		app.DB = sqlDB
		app.closers = append(app.closers, sqlDB.Close)
		app.Health.Register("database", sqlDB.PingContext)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.LLM = llmClient

	if !opts.SkipPublisher {
		if err := app.buildPublisher(cfg); err != nil {
			app.Close()
			return nil, err
		}
	}

	var limiter middleware.Limiter
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		app.Redis = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.RedisPassword})
		app.closers = append(app.closers, app.Redis.Close)
		app.Health.Register("redis", func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() })
		limiter = middleware.NewRedisLimiter(app.Redis, "resume-tailor:ratelimit:")
	}

	app.buildServices()

	app.Router = server.NewRouter(server.RouterDeps{
		Config:  cfg,
		Health:  app.Health,
		Limiter: limiter,
		Handlers: []server.RouteRegistrar{
			users.NewHandler(app.UsersService, cfg.RequireAuth),
			profiles.NewHandler(app.ProfilesService, cfg.RequireAuth),
			generatedresumes.NewHandler(app.GeneratedResumesService, cfg.RequireAuth),
			app.GoogleAuth,
		},
	})

	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	poolOpts := db.OptionsFromEnv(db.DefaultServerOptions())
	if opts.DBOptions != nil {
		poolOpts = *opts.DBOptions
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, poolOpts)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if !opts.SkipMigrations {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			KMSKeyID:        cfg.SSEKMSKeyID,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			return missingKey(cfg, "OPENAI_API_KEY")
		}
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return missingKey(cfg, "GEMINI_API_KEY")
		}
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	default:
		return llm.PlaceholderClient{}, nil
	}
}

func missingKey(cfg config.Config, key string) (llm.Client, error) {
	if config.IsDevLike(cfg.Env) {
		telemetry.Warn("bootstrap.llm.placeholder", map[string]any{"provider": cfg.LLMProvider, "reason": key + " empty"})
		return llm.PlaceholderClient{}, nil
	}
	return nil, fmt.Errorf("%s is required for LLM_PROVIDER=%s", key, cfg.LLMProvider)
}

func (a *App) buildPublisher(cfg config.Config) error {
	if strings.TrimSpace(cfg.AMQPURL) == "" {
		return nil
	}
	publisher, err := queue.NewRabbitPublisher(cfg.AMQPURL, cfg.RenderQueue)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.queue.disabled", map[string]any{"error": err})
			return nil
		}
		return err
	}
	a.Publisher = publisher
	a.closers = append(a.closers, publisher.Close)
	return nil
}

func (a *App) buildServices() {
	var (
		userRepo    users.Repo
		profileRepo profiles.Repo
		resumeRepo  generatedresumes.Repo
	)
	if a.DB != nil {
		dbx := sqlx.NewDb(a.DB, db.DriverName)
		userRepo = &users.PGRepo{DB: a.DB}
		profileRepo = &profiles.PGRepo{DB: dbx}
		resumeRepo = &generatedresumes.PGRepo{DB: dbx}
	} else {
		userRepo = users.NewMemoryRepo()
		profileRepo = profiles.NewMemoryRepo()
		resumeRepo = generatedresumes.NewMemoryRepo()
	}

	a.UsersService = users.NewService(userRepo)
	a.ProfilesService = profiles.NewService(profileRepo, a.UsersService, a.LLM)
	a.GeneratedResumesService = &generatedresumes.Service{
		Repo:      resumeRepo,
		Users:     a.UsersService,
		Profiles:  a.ProfilesService,
		LLM:       a.LLM,
		Renderer:  render.New(a.Config.PDFLatexBin, a.Config.PDFLatexTimeout),
		Store:     a.Store,
		Publisher: a.Publisher,
	}
	a.GoogleAuth = googleauth.NewGoogleService(
		a.Config.GoogleClientID,
		a.Config.GoogleClientSecret,
		a.Config.GoogleRedirectURL,
		a.Config.UIRedirectURL,
		a.UsersService,
	)
}

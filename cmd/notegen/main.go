package main

// @title           Notegen API
// @version         1.0
// @description     Turns timestamped transcripts into structured Markdown notes through OpenAI-compatible LLM providers.

// @host      localhost:8483
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/notegen/internal/adapters/driven/ai"
	"github.com/custodia-labs/notegen/internal/adapters/driven/auth"
	redisadapter "github.com/custodia-labs/notegen/internal/adapters/driven/redis"
	"github.com/custodia-labs/notegen/internal/adapters/driven/sqlstore"
	"github.com/custodia-labs/notegen/internal/adapters/driving/http"
	"github.com/custodia-labs/notegen/internal/config"
	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
	"github.com/custodia-labs/notegen/internal/core/ports/driving"
	"github.com/custodia-labs/notegen/internal/core/services"
	"github.com/custodia-labs/notegen/internal/postprocessors"
	"github.com/custodia-labs/notegen/internal/prompt"
	"github.com/custodia-labs/notegen/internal/watcher"
)

var version = "dev"

const usage = `usage: notegen [flags] <mode>

modes:
  serve   run the HTTP API
  watch   turn inbox/*.json requests into outbox/*.md notes
  all     serve and watch
  seed    insert the built-in providers and exit
  token   print an API token and exit

flags:
`

func main() {
	fs := flag.NewFlagSet("notegen", flag.ExitOnError)
	configPath := fs.String("config", getEnv("NOTEGEN_CONFIG", "notegen.yaml"), "path to the YAML config file")
	subject := fs.String("subject", "admin", "token subject (token mode)")
	role := fs.String("role", string(domain.RoleAdmin), "token role: admin or member (token mode)")
	ttl := fs.Duration("ttl", 0, "token lifetime, defaults to auth.token_ttl (token mode)")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	// Run mode from RUN_MODE or the first argument
	mode := getEnv("RUN_MODE", "serve")
	if fs.NArg() > 0 {
		mode = fs.Arg(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger := cfg.Logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, mode, cfg, tokenOptions{subject: *subject, role: domain.Role(*role), ttl: *ttl}, logger); err != nil {
		logger.Error("notegen failed", "mode", mode, "error", err)
		os.Exit(1)
	}
}

type tokenOptions struct {
	subject string
	role    domain.Role
	ttl     time.Duration
}

func run(ctx context.Context, mode string, cfg *config.Config, tokenOpts tokenOptions, logger *slog.Logger) error {
	logger.Info("notegen starting", "version", version, "mode", mode)
	if cfg.UsesDevelopmentSecret() {
		logger.Warn("using the development secret; set JWT_SECRET and NOTEGEN_SECRET_KEY in production")
	}

	authService := services.NewAuthService(auth.NewAdapter(cfg.Auth.JWTSecret))

	// Token mode needs no database
	if mode == "token" {
		ttl := tokenOpts.ttl
		if ttl == 0 {
			ttl = cfg.Auth.TokenTTL
		}
		token, err := authService.IssueToken(ctx, tokenOpts.subject, tokenOpts.role, ttl)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Println(token)
		return nil
	}

	switch mode {
	case "serve", "watch", "all", "seed":
	default:
		return fmt.Errorf("unknown mode %q (use: serve, watch, all, seed or token)", mode)
	}

	// ===== Registry database =====
	dbConfig := sqlstore.DefaultConfig(cfg.Database.URL)
	// SQLite keeps its single connection
	if sqlstore.DialectFor(cfg.Database.URL) == sqlstore.DialectPostgres {
		dbConfig.MaxOpenConns = cfg.Database.MaxOpenConns
		dbConfig.MaxIdleConns = cfg.Database.MaxIdleConns
		dbConfig.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
		dbConfig.ConnMaxIdleTime = cfg.Database.ConnMaxIdleTime
	}
	db, err := sqlstore.Connect(ctx, dbConfig)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		return err
	}
	logger.Info("registry database ready", "dialect", db.Dialect())

	encryptor, err := sqlstore.NewSecretEncryptorFromSecret(cfg.Auth.SecretKey)
	if err != nil {
		return fmt.Errorf("secret encryptor: %w", err)
	}
	providerStore := sqlstore.NewProviderStore(db, encryptor)
	modelStore := sqlstore.NewModelStore(db)

	// ===== Redis (optional) =====
	var (
		redisClient *redis.Client
		redisPinger http.Pinger
		lock        driven.DistributedLock = sqlstore.NewLock(db)
		modelCache  driven.ModelListingCache
	)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}

		redisLock := redisadapter.NewLock(redisClient)
		lock = redisLock
		redisPinger = redisLock
		modelCache = redisadapter.NewModelCache(redisClient)
		logger.Info("redis connected; using redis lock and model listing cache")
	}

	// ===== Seed built-in providers =====
	seeded, err := services.SeedDefaults(ctx, providerStore, lock, logger)
	if err != nil {
		return fmt.Errorf("seed providers: %w", err)
	}
	if mode == "seed" {
		logger.Info("seed complete", "inserted", seeded)
		return nil
	}

	// ===== Services =====
	factory := ai.NewFactory(cfg.LLM.Timeout)

	providerService := services.NewProviderService(services.ProviderServiceConfig{
		Providers: providerStore,
		Models:    modelStore,
		Prober:    services.NewProber(factory, logger),
		Cache:     modelCache,
		Logger:    logger,
	})
	modelService := services.NewModelService(services.ModelServiceConfig{
		Providers: providerStore,
		Models:    modelStore,
		Factory:   factory,
		Cache:     modelCache,
		CacheTTL:  cfg.Redis.ModelCacheTTL,
		Logger:    logger,
	})
	noteService := services.NewNoteService(services.NoteServiceConfig{
		Providers:   providerStore,
		Factory:     factory,
		Prompts:     prompt.NewBuilder(),
		Pipeline:    postprocessors.DefaultPipeline(),
		Temperature: cfg.LLM.Temperature,
		Logger:      logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	if mode == "serve" || mode == "all" {
		server := http.NewServer(http.Config{
			Host:           cfg.Server.Host,
			Port:           cfg.Server.Port,
			Version:        version,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			WriteTimeout:   cfg.Server.WriteTimeout,
			Logger:         logger,
		}, authService, noteService, providerService, modelService, db, redisPinger)
		g.Go(func() error { return server.Run(gctx) })
	}

	if mode == "watch" || mode == "all" {
		w, err := newWatcher(cfg, noteService, logger)
		if err != nil {
			return err
		}
		defer w.Close()
		g.Go(func() error {
			if err := w.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

func newWatcher(cfg *config.Config, notes driving.NoteService, logger *slog.Logger) (*watcher.Watcher, error) {
	return watcher.New(watcher.Config{
		Inbox:       cfg.Watcher.Inbox,
		Outbox:      cfg.Watcher.Outbox,
		Concurrency: cfg.Watcher.Concurrency,
		ProviderID:  cfg.Watcher.ProviderID,
		ModelName:   cfg.Watcher.ModelName,
		Logger:      logger,
	}, notes)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

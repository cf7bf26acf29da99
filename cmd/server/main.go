package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AbiralTr/Arc-Web/internal/config"
	"github.com/AbiralTr/Arc-Web/internal/handlers"
	"github.com/AbiralTr/Arc-Web/internal/leaderboard"
	"github.com/AbiralTr/Arc-Web/internal/llm"
	_ "github.com/AbiralTr/Arc-Web/internal/llm/gemini"
	_ "github.com/AbiralTr/Arc-Web/internal/llm/openai"
	"github.com/AbiralTr/Arc-Web/internal/metrics"
	"github.com/AbiralTr/Arc-Web/internal/middleware"
	"github.com/AbiralTr/Arc-Web/internal/prompts"
	"github.com/AbiralTr/Arc-Web/internal/repositories"
	"github.com/AbiralTr/Arc-Web/internal/routers"
	"github.com/AbiralTr/Arc-Web/internal/services"
	"github.com/AbiralTr/Arc-Web/internal/session"
	"github.com/AbiralTr/Arc-Web/internal/utils"
	"github.com/AbiralTr/Arc-Web/internal/web"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 30 * time.Second
)

// appHandlers groups everything registerRoutes mounts.
type appHandlers struct {
	health      *handlers.HealthHandler
	auth        *handlers.AuthHandler
	user        *handlers.UserHandler
	quest       *handlers.QuestHandler
	leaderboard *handlers.LeaderboardHandler
	page        *handlers.PageHandler
	sessions    *session.Resolver
}

func registerRoutes(router *chi.Mux, h *appHandlers) {
	router.Handle("/metrics", metrics.Handler())
	routers.HealthRoutes(router, h.health)
	routers.AuthRoutes(router, h.auth, h.sessions)
	routers.UserRoutes(router, h.user, h.sessions)
	routers.QuestRoutes(router, h.quest, h.sessions)
	routers.LeaderboardRoutes(router, h.leaderboard, h.sessions)
	routers.PageRoutes(router, h.page, h.sessions)
}

func newRouter(cfg *config.Config, h *appHandlers) *chi.Mux {
	router := chi.NewRouter()

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	router.Use(chimw.RequestID, chimw.RealIP, chimw.Logger, chimw.Recoverer, chimw.Timeout(60*time.Second))
	router.Use(chimw.RequestSize(maxBodyBytes), middleware.SecurityHeaders, metrics.Middleware)

	registerRoutes(router, h)
	return router
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "arc",
		Short:         "ARC quest server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate()
		},
	})
	return cmd
}

func setup() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := utils.NewLogger(cfg.AppEnv)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build logger: %w", err)
	}
	db, err := repositories.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}

func migrate() error {
	_, logger, db, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer closeDB(db, logger)

	if err := repositories.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("database migrated")
	return nil
}

// redisDeps is the optional leaderboard cache stack.
type redisDeps struct {
	client     *redis.Client
	cache      *leaderboard.Cache
	publisher  *leaderboard.Publisher
	subscriber *leaderboard.Subscriber
	refresh    *leaderboard.RefreshJob
}

// connectRedis returns nil when redis is not configured or unreachable, in
// which case the leaderboard reads the database directly.
func connectRedis(ctx context.Context, cfg *config.Config, store *repositories.Store, logger *zap.Logger) *redisDeps {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, leaderboard cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return nil
	}

	cache := leaderboard.NewCache(client)
	return &redisDeps{
		client:     client,
		cache:      cache,
		publisher:  leaderboard.NewPublisher(client),
		subscriber: leaderboard.NewSubscriber(client, cache, logger),
		refresh:    leaderboard.NewRefreshJob(store.Users, cache, cfg.RefreshSchedule, logger),
	}
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, db, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer closeDB(db, logger)

	logger.Info("Configuration loaded",
		zap.String("env", cfg.AppEnv),
		zap.String("db_driver", cfg.DBDriver),
		zap.String("provider", cfg.Provider))

	if cfg.AutoMigrate {
		if err := repositories.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	store := repositories.NewStore(db)

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		return fmt.Errorf("initialize prompt manager: %w", err)
	}
	provider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		return fmt.Errorf("initialize quest generator: %w", err)
	}
	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		publisher services.CompletionPublisher
		standings services.StandingPublisher
		cache     *leaderboard.Cache
	)
	rd := connectRedis(ctx, cfg, store, logger)
	if rd != nil {
		defer rd.client.Close()
		publisher, standings, cache = rd.publisher, rd.publisher, rd.cache
		go rd.subscriber.Run(ctx, nil)
		if err := rd.refresh.Start(); err != nil {
			logger.Error("failed to start leaderboard refresh job", zap.Error(err))
		} else {
			defer rd.refresh.Stop()
			logger.Info("leaderboard refresh job started", zap.String("schedule", cfg.RefreshSchedule))
		}
	}

	authService := services.NewAuthService(store, standings, logger, cfg.GuestTTL, cfg.BcryptCost)
	questService := services.NewQuestService(store, provider, promptManager, publisher, logger, cfg.GenerateTimeout)
	boardService := leaderboard.NewService(store, cache, logger)
	sessions := session.NewResolver(session.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL), authService, cfg.SecureCookies(), logger)

	router := newRouter(cfg, &appHandlers{
		health:      handlers.NewHealthHandler(store, provider, promptManager),
		auth:        handlers.NewAuthHandler(authService, sessions, logger),
		user:        handlers.NewUserHandler(services.NewUserService(store), logger),
		quest:       handlers.NewQuestHandler(questService, logger),
		leaderboard: handlers.NewLeaderboardHandler(boardService, logger),
		page:        handlers.NewPageHandler(renderer, authService, questService, boardService, sessions, logger),
		sessions:    sessions,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerateTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("ARC server starting", zap.String("addr", cfg.Addr()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("ARC server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("ARC server exited")
	return nil
}

func closeDB(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("failed to close database", zap.Error(err))
	}
}

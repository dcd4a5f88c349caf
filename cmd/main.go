package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	_ "github.com/wizdeskofficial/wizdeskofficial/docs"
	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/handler"
	"github.com/wizdeskofficial/wizdeskofficial/internal/notify"
	"github.com/wizdeskofficial/wizdeskofficial/internal/prereg"
	"github.com/wizdeskofficial/wizdeskofficial/internal/repository"
	"github.com/wizdeskofficial/wizdeskofficial/internal/router"
	"github.com/wizdeskofficial/wizdeskofficial/internal/service"
	"github.com/wizdeskofficial/wizdeskofficial/pkg/config"
	"github.com/wizdeskofficial/wizdeskofficial/pkg/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:          "wizdesk",
	Short:        "WizDesk team task tracker API",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// @title WizDesk API
// @version 1.0
// @description Team task tracker: email-verified registration, membership approval, tasks and subtasks
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration, installs the logger and connects to
// Postgres. The returned cleanup closes both.
func bootstrap(ctx context.Context) (*config.Config, *slog.Logger, *pgxpool.Pool, func(), error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, logCloser := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	slog.SetDefault(log)

	pool, err := config.MustInitDB(ctx, *cfg)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("successfully connected to database")

	cleanup := func() {
		pool.Close()
		_ = logCloser.Close()
	}
	return cfg, log, pool, cleanup, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_, log, pool, cleanup, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	applied, err := repository.Migrate(cmd.Context(), pool)
	if err != nil {
		return err
	}
	log.Info("migrations applied", "count", applied)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, pool, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.AutoMigrate {
		applied, err := repository.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		log.Info("migrations applied", "count", applied)
	}

	leaders, members, closeStores, err := preRegistrationStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStores()

	notifier := notify.NewEmailNotifier(notify.Config{
		SMTPHost:      cfg.SMTPHost,
		SMTPPort:      cfg.SMTPPort,
		SMTPUser:      cfg.SMTPUser,
		SMTPPass:      cfg.SMTPPass,
		From:          cfg.SMTPFrom,
		AppURL:        cfg.AppURL,
		RetryAttempts: cfg.EmailRetryAttempts,
		RetryDelay:    cfg.EmailRetryDelay,
	}, log)

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	subtaskRepo := repository.NewSubtaskRepository(pool)
	perfRepo := repository.NewPerformanceRepository(pool)

	// Initialize services
	registrationService := service.NewRegistrationService(userRepo, teamRepo, leaders, members, notifier, log, cfg.PreRegTTL)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	memberService := service.NewMemberService(userRepo, notifier, log)
	taskService := service.NewTaskService(taskRepo, subtaskRepo, userRepo, log)
	perfService := service.NewPerformanceService(perfRepo)

	validate := validator.New()
	handler.ExposeErrorDetails(cfg.IsDevelopment())

	r := router.SetupRouter(log, cfg.RequestTimeout, router.Handlers{
		Auth:        handler.NewAuthHandler(registrationService, authService, validate, cfg.AppEnv),
		Team:        handler.NewTeamHandler(memberService, validate),
		Task:        handler.NewTaskHandler(taskService, validate),
		Performance: handler.NewPerformanceHandler(perfService),
		Health:      handler.NewHealthHandler(pool),
	}, authService)

	log.Info("successfully configured services and handlers")

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", "port", cfg.Port, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
	return nil
}

// preRegistrationStores uses Redis when REDIS_ADDR is set and in-process
// maps with a periodic sweep otherwise.
func preRegistrationStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (prereg.Store, prereg.Store, func(), error) {
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("pre-registrations stored in redis", "addr", cfg.RedisAddr)

		closeFn := func() { _ = rdb.Close() }
		return prereg.NewRedisStore(rdb, domain.KindLeader), prereg.NewRedisStore(rdb, domain.KindMember), closeFn, nil
	}

	leaders := prereg.NewMemoryStore()
	members := prereg.NewMemoryStore()
	go prereg.RunSweeper(ctx, leaders, cfg.PreRegSweepInterval, string(domain.KindLeader))
	go prereg.RunSweeper(ctx, members, cfg.PreRegSweepInterval, string(domain.KindMember))
	log.Info("pre-registrations stored in memory", "sweep_interval", cfg.PreRegSweepInterval)

	return leaders, members, func() {}, nil
}

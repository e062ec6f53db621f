package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"family-hub/config"
	_ "family-hub/docs" // Swagger docs
	"family-hub/internal/assistant/fallback"
	"family-hub/internal/assistant/repository"
	"family-hub/internal/assistant/repository/memory"
	"family-hub/internal/assistant/repository/postgre"
	redisRepo "family-hub/internal/assistant/repository/redis"
	"family-hub/internal/assistant/session"
	"family-hub/internal/assistant/usecase"
	"family-hub/internal/httpserver"
	"family-hub/internal/middleware"
	"family-hub/internal/settings"
	"family-hub/pkg/datemath"
	"family-hub/pkg/gcalendar"
	"family-hub/pkg/llmprovider"
	"family-hub/pkg/log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// @title       Family Hub Assistant API
// @description Natural-language assistant for a family's tasks, events, budget and shopping list.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Family Hub assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	readyChecks := map[string]httpserver.ReadyCheck{}

	// 3. Household store
	var repo repository.Repository
	if cfg.Postgres.DSN != "" {
		db, dbErr := sqlx.ConnectContext(ctx, "postgres", cfg.Postgres.DSN)
		if dbErr != nil {
			logger.Errorf(ctx, "Failed to connect to Postgres: %v", dbErr)
			os.Exit(1)
		}
		defer db.Close()
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLife)

		if err := postgre.Migrate(ctx, db); err != nil {
			logger.Errorf(ctx, "Failed to migrate schema: %v", err)
			os.Exit(1)
		}
		repo = postgre.New(db, logger)
		readyChecks["postgres"] = db.PingContext
		logger.Info(ctx, "Household store: postgres")
	} else {
		repo = memory.New()
		logger.Warn(ctx, "Household store: in-memory (set postgres.dsn or DATABASE_URL to persist)")
	}

	// 4. Turn ledger
	var ledger repository.LedgerRepository
	if cfg.Redis.Addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		ledger = redisRepo.NewLedger(rdb, logger, cfg.Assistant.LedgerTTL)
		readyChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Infof(ctx, "Turn ledger: redis at %s", cfg.Redis.Addr)
	} else {
		ledger = memory.NewLedger(cfg.Assistant.LedgerSize, cfg.Assistant.LedgerTTL)
		logger.Info(ctx, "Turn ledger: in-memory")
	}

	// 5. Resolution pipeline
	dates, err := datemath.NewParser(cfg.Assistant.Timezone)
	if err != nil {
		logger.Errorf(ctx, "Invalid timezone: %v", err)
		os.Exit(1)
	}

	gateway := llmprovider.NewGateway(logger, llmprovider.GatewayOptions{
		Timeout:    cfg.Assistant.GatewayTimeout,
		RetryDelay: cfg.Assistant.RetryDelay,
	})

	sessions := session.NewStore(session.Options{
		Window:      cfg.Assistant.ContextWindow,
		MaxSessions: cfg.Assistant.MaxSessions,
		IdleTTL:     cfg.Assistant.SessionTTL,
	})

	// Google Calendar mirror (optional)
	var calendar gcalendar.ICalendar
	if cfg.GoogleCalendar.CredentialsPath != "" {
		client, calErr := gcalendar.New(ctx, gcalendar.Config{
			CredentialsFile: cfg.GoogleCalendar.CredentialsPath,
			TokenFile:       cfg.GoogleCalendar.TokenPath,
		})
		if calErr != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", calErr)
			logger.Warn(ctx, "Run `assistant-cli calendar-auth` to generate token.json")
		} else {
			calendar = client
			logger.Info(ctx, "Google Calendar mirror enabled")
		}
	}

	assistantUC := usecase.New(
		logger,
		gateway,
		fallback.New(dates),
		sessions,
		repo,
		ledger,
		settings.NewViper(viper.GetViper()),
		usecase.Options{
			ConfidenceThreshold: cfg.Assistant.ConfidenceThreshold,
			Location:            dates.Location(),
			Calendar:            calendar,
			CalendarID:          cfg.GoogleCalendar.CalendarID,
		},
	)

	// 6. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		AssistantUC: assistantUC,
		Middleware:  middleware.New(logger, cfg.RateLimit),
		ReadyChecks: readyChecks,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		os.Exit(1)
	}

	// 7. Run
	start := time.Now()
	if err := httpServer.Run(ctx); err != nil {
		logger.Errorf(ctx, "Failed to run server: %v", err)
		os.Exit(1)
	}

	logger.Infof(context.Background(), "Server stopped gracefully after %s", time.Since(start).Round(time.Second))
}

package main

import (
	"context"
	"fmt"

	"family-hub/config"
	"family-hub/internal/assistant"
	"family-hub/internal/assistant/fallback"
	"family-hub/internal/assistant/repository"
	"family-hub/internal/assistant/repository/memory"
	"family-hub/internal/assistant/repository/postgre"
	"family-hub/internal/assistant/session"
	"family-hub/internal/assistant/usecase"
	"family-hub/internal/model"
	"family-hub/internal/settings"
	"family-hub/pkg/datemath"
	"family-hub/pkg/llmprovider"
	"family-hub/pkg/log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/viper"
)

// pipeline is an in-process assistant plus what is needed to talk to it.
type pipeline struct {
	uc      assistant.UseCase
	profile model.Profile
	session string
	close   func()
}

func newPipeline(ctx context.Context) (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := log.NewNop()
	if flagVerbose {
		logger = log.Init(log.ZapConfig{
			Level:    cfg.Logger.Level,
			Mode:     cfg.Logger.Mode,
			Encoding: cfg.Logger.Encoding,
		})
	}

	closeFn := func() {}
	var repo repository.Repository
	if cfg.Postgres.DSN != "" {
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgre.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		repo = postgre.New(db, logger)
		closeFn = func() { db.Close() }
	} else {
		repo = memory.New()
	}

	dates, err := datemath.NewParser(cfg.Assistant.Timezone)
	if err != nil {
		closeFn()
		return nil, err
	}

	reader := settings.NewViper(viper.GetViper())
	if flagOffline {
		reader = settings.NewStatic(model.ProviderConfig{Provider: llmprovider.NullProviderName})
	}

	uc := usecase.New(
		logger,
		llmprovider.NewGateway(logger, llmprovider.GatewayOptions{
			Timeout:    cfg.Assistant.GatewayTimeout,
			RetryDelay: cfg.Assistant.RetryDelay,
		}),
		fallback.New(dates),
		session.NewStore(session.Options{Window: cfg.Assistant.ContextWindow, MaxSessions: 16}),
		repo,
		memory.NewLedger(cfg.Assistant.LedgerSize, cfg.Assistant.LedgerTTL),
		reader,
		usecase.Options{
			ConfidenceThreshold: cfg.Assistant.ConfidenceThreshold,
			Location:            dates.Location(),
		},
	)

	sid := flagSession
	if sid == "" {
		sid = uuid.NewString()
	}
	return &pipeline{
		uc:      uc,
		profile: model.Profile{UserID: flagUser, DisplayName: flagName, Role: model.ParseRole(flagRole)},
		session: sid,
		close:   closeFn,
	}, nil
}

func (p *pipeline) send(ctx context.Context, text string) (assistant.HandleOutput, error) {
	return p.uc.Handle(ctx, assistant.HandleInput{
		SessionID:   p.session,
		WorkspaceID: flagWorkspace,
		Profile:     p.profile,
		Text:        text,
	})
}

func (p *pipeline) Close() {
	p.uc.EndSession(context.Background(), flagWorkspace, p.session)
	p.close()
}

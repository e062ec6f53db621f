package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"family-hub/internal/assistant"
	"family-hub/internal/middleware"
	"family-hub/pkg/log"
)

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Assistant domain
	assistantUC assistant.UseCase
	middleware  middleware.Middleware

	readyChecks map[string]ReadyCheck
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	// Assistant domain
	AssistantUC assistant.UseCase
	Middleware  middleware.Middleware

	// ReadyChecks run on every /ready request, keyed by dependency name.
	ReadyChecks map[string]ReadyCheck
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &HTTPServer{
		l:           logger,
		gin:         gin.New(),
		port:        cfg.Port,
		mode:        cfg.Mode,
		environment: cfg.Environment,
		assistantUC: cfg.AssistantUC,
		middleware:  cfg.Middleware,
		readyChecks: cfg.ReadyChecks,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	srv.mapHandlers()
	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.assistantUC == nil {
		return errors.New("assistant use case is required")
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (srv *HTTPServer) Handler() *gin.Engine {
	return srv.gin
}

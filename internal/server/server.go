package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aliciamunhoz/kanban-next/internal/auth"
	"github.com/aliciamunhoz/kanban-next/internal/config"
	"github.com/aliciamunhoz/kanban-next/internal/database"
	"github.com/aliciamunhoz/kanban-next/internal/events"
	"github.com/aliciamunhoz/kanban-next/internal/session"
	"github.com/aliciamunhoz/kanban-next/internal/telemetry"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const version = "1.0.0"

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Log    *slog.Logger

	sessions       *session.RedisStore
	shutdownTracer func(context.Context) error
}

// NewLogger returns the JSON logger used across the process.
func NewLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func Init(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	shutdownTracer, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		OTLPInsecure:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}

	if cfg.AutoMigrate {
		if err := database.MigrateUp(cfg.MigrationURL(), log); err != nil {
			return nil, err
		}
	}

	db, err := database.Open(cfg.DSN(), log, database.DefaultOptions)
	if err != nil {
		return nil, err
	}
	log.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	var sessions *session.RedisStore
	if cfg.RedisURL != "" {
		sessions, err = session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("session registry enabled")
	}

	engine := NewRouter(Deps{
		DB:        db,
		Tokens:    auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry),
		Sessions:  sessions,
		Bus:       events.NewBus(),
		Log:       log,
		MaxBoards: cfg.MaxBoardsPerUser,
	})

	return &Server{
		Engine:         engine,
		DB:             db,
		Config:         cfg,
		Log:            log,
		sessions:       sessions,
		shutdownTracer: shutdownTracer,
	}, nil
}

// Run serves until SIGINT or SIGTERM, then drains within ShutdownTimeout.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Info("server running", "port", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		s.close(context.Background())
		return fmt.Errorf("failed to listen: %w", err)
	case sig := <-quit:
		s.Log.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.close(ctx)
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.close(ctx)

	s.Log.Info("server exited properly")
	return nil
}

func (s *Server) close(ctx context.Context) {
	if s.shutdownTracer != nil {
		if err := s.shutdownTracer(ctx); err != nil {
			s.Log.Warn("tracer shutdown", "error", err)
		}
	}
	if s.sessions != nil {
		if err := s.sessions.Close(); err != nil {
			s.Log.Warn("redis close", "error", err)
		}
	}
	if err := database.Close(s.DB); err != nil {
		s.Log.Warn("database close", "error", err)
	}
}

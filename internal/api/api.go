package api

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"

	"github.com/curaious/civicpulse/internal/api/authenticator"
	"github.com/curaious/civicpulse/internal/api/throttle"
	"github.com/curaious/civicpulse/internal/config"
	"github.com/curaious/civicpulse/internal/migrations"
	"github.com/curaious/civicpulse/internal/services"
)

// Server is the fasthttp server exposing the JSON API.
type Server struct {
	srv      *fasthttp.Server
	addr     string
	services *services.Services
	cleanup  []func()
}

// New connects every backing store, applies pending migrations and builds the router.
func New(conf *config.Config) (*Server, error) {
	auth, err := authenticator.New(conf)
	if err != nil {
		return nil, err
	}

	svc := services.NewServices(conf)

	m, err := migrations.NewMigrator(svc.DB())
	if err != nil {
		svc.Close()
		return nil, err
	}
	if err := m.Up(0); err != nil {
		svc.Close()
		return nil, err
	}

	s := &Server{
		srv: &fasthttp.Server{
			Name:         "civicpulse",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		addr:     conf.HTTP_ADDR,
		services: svc,
		cleanup:  []func(){svc.Close},
	}

	limiter := s.newLimiter(conf)

	s.srv.Handler = NewHandler(Dependencies{
		Services:       svc,
		Auth:           auth,
		Limiter:        limiter,
		AllowedHeaders: conf.ALLOWED_HEADERS,
	})

	return s, nil
}

// newLimiter prefers a shared Redis bucket and falls back to process memory.
func (s *Server) newLimiter(conf *config.Config) throttle.Limiter {
	rate := throttle.Rate{Limit: conf.ANALYTICS_RATE_LIMIT, Window: conf.ANALYTICS_RATE_WINDOW}
	if rate.Limit <= 0 || rate.Window <= 0 {
		slog.Info("Analytics throttling disabled")
		return nil
	}

	if conf.REDIS_ADDR != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     conf.REDIS_ADDR,
			Password: conf.REDIS_PASSWORD,
			DB:       conf.REDIS_DB,
		})
		limiter := throttle.NewRedisLimiter(client, rate, "civicpulse:throttle:")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := limiter.Ping(ctx)
		if err == nil {
			slog.Info("Using Redis for analytics throttling", slog.String("addr", conf.REDIS_ADDR))
			s.cleanup = append(s.cleanup, func() { _ = limiter.Close() })
			return limiter
		}
		slog.Warn("Redis unavailable, throttling in memory", slog.Any("error", err))
		_ = client.Close()
	}

	limiter := throttle.NewInMemoryLimiter(rate)
	s.cleanup = append(s.cleanup, limiter.Stop)
	return limiter
}

// Start the rest server
func (s *Server) Start() {
	slog.Info("Starting REST server...", slog.String("addr", s.addr))
	go func() {
		if err := s.srv.ListenAndServe(s.addr); err != nil {
			slog.Error("Server shutdown", slog.Any("error", err))
		}
	}()
	slog.Info("REST server started!")

	// Listen for OS interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block till we receive an interrupt
	<-c
	slog.Info("Received interrupt...")

	// Create a timeout
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s.shutdown(ctx)
}

// Shutdown shuts down the rest server
func (s *Server) shutdown(ctx context.Context) {
	slog.Info("Gracefully shutting down REST server...")
	if err := s.srv.ShutdownWithContext(ctx); err != nil {
		slog.Error("Failed to shutdown the server", slog.Any("error", err))
	}

	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
	slog.Info("REST server shutdown!")
}

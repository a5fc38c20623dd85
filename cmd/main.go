package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/hackathon-teams/internal/api"
	"github.com/yakoovad/hackathon-teams/internal/auth"
	"github.com/yakoovad/hackathon-teams/internal/config"
	"github.com/yakoovad/hackathon-teams/internal/db"
	"github.com/yakoovad/hackathon-teams/internal/ratelimit"
	"github.com/yakoovad/hackathon-teams/internal/repository"
	"github.com/yakoovad/hackathon-teams/internal/service"
	"github.com/yakoovad/hackathon-teams/pkg/logger"
	"go.uber.org/zap"
)

const (
	version        = "v0.1.0"
	connectTimeout = 10 * time.Second
	pingTimeout    = 2 * time.Second
)

type store struct {
	tx    db.Transactor
	teams repository.TeamRepository
	users repository.UserRepository
	ping  func(context.Context) error
	close func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting application", zap.String("store", cfg.Store.Driver), zap.String("addr", cfg.HTTP.Addr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.close()

	logger.Info("store connection established")

	team := service.NewTeamService(st.tx).
		WithTeamRepo(st.teams).
		WithUserRepo(st.users).
		WithLimits(cfg.Limits.TeamsList, cfg.Limits.DirectoryUser)
	user := service.NewUserService().WithUserRepo(st.users).WithLimit(cfg.Limits.DirectoryUser)

	checks := []health.Config{api.PingCheck(cfg.Store.Driver, pingTimeout, st.ping)}

	handler := api.NewHandler(logger).
		WithTeamService(team).
		WithUserService(user).
		WithBasePath(cfg.HTTP.BasePath)

	if cfg.Auth.Enabled() {
		handler.WithTokenManager(auth.NewTokenManager(cfg.Auth.TokenSecret))
		logger.Info("bearer auth enabled for mutating routes")
	}

	if cfg.RateLimit.Enabled() {
		limiter, err := ratelimit.NewRateLimiter(ctx, cfg.RateLimit.RedisURL)
		if err != nil {
			logger.Fatal("failed to connect rate limiter", zap.Error(err))
		}
		defer limiter.Close()

		handler.WithRateLimiter(limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   pingTimeout,
			SkipOnErr: true,
			Check:     limiter.Ping,
		})
		logger.Info("rate limiting enabled",
			zap.Int("requests", cfg.RateLimit.Requests),
			zap.Duration("window", cfg.RateLimit.Window))
	}

	healthChecker, err := api.NewHealthChecker(version, checks...)
	if err != nil {
		logger.Fatal("failed to create health checker", zap.Error(err))
	}
	handler.WithHealthChecker(healthChecker)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 15 * time.Second

	handler.RegisterRoutes(e)

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.HTTP.Addr))
		if err := e.Start(cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, err := db.ConnectMongo(ctx, cfg.Store.MongoURI, connectTimeout)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.Store.DatabaseID)

		return &store{
			tx:    db.NewNoopTransactor(),
			teams: repository.NewMongoTeamRepository(database, cfg.Store.TeamsCollection),
			users: repository.NewMongoUserRepository(database, cfg.Store.UsersCollection),
			ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			},
			close: func() {
				_ = client.Disconnect(context.Background())
			},
		}, nil

	default:
		if cfg.Store.Migrate {
			if err := db.Migrate(cfg.Store.DatabaseURL, l); err != nil {
				return nil, err
			}
		}

		pool, err := pgxpool.New(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err = pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}

		return &store{
			tx:    db.NewPgxTransactor(pool),
			teams: repository.NewPgxTeamRepository(pool, cfg.Store.TeamsCollection),
			users: repository.NewPgxUserRepository(pool, cfg.Store.UsersCollection),
			ping:  pool.Ping,
			close: pool.Close,
		}, nil
	}
}

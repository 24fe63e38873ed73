package apiapp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/config"
	"github.com/tiagocodinha/StagelinkApproval/internal/infra/httpclient"
	"github.com/tiagocodinha/StagelinkApproval/internal/infra/s3"
	"github.com/tiagocodinha/StagelinkApproval/internal/jobs/cleanup"
	"github.com/tiagocodinha/StagelinkApproval/internal/repo/postgres"
	redisrepo "github.com/tiagocodinha/StagelinkApproval/internal/repo/redis"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/auth"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/board"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/content"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/media"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/notify"
	"github.com/tiagocodinha/StagelinkApproval/internal/transport/http/handlers"
)

const shutdownTimeout = 10 * time.Second

// App owns the api process: connections, services, the http server and
// the background cleanup job.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	pool    *pgxpool.Pool
	redis   *goredis.Client
	server  *http.Server
	cleanup *cleanup.Job
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := redisrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		pool.Close()
		return nil, err
	}

	minioClient, err := s3.NewClient(s3.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, err
	}

	contentRepo := postgres.NewContentRepo(pool)
	profileRepo := postgres.NewProfileRepo(pool)
	sessionRepo := redisrepo.NewSessionRepo(redisClient)

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewService(profileRepo, sessionRepo, tokens, logger, cfg.Auth.AdminEmail, cfg.Auth.RefreshTTL)
	if err != nil {
		return nil, err
	}

	notifyService, err := notify.NewService(httpclient.New(cfg.Notifier.Timeout), cfg.Notifier.URL, logger)
	if err != nil {
		return nil, err
	}

	contentService, err := content.NewService(contentRepo, profileRepo, notifyService, logger)
	if err != nil {
		return nil, err
	}

	boardService, err := board.NewService(contentRepo, profileRepo, logger, cfg.Auth.AdminEmail)
	if err != nil {
		return nil, err
	}

	storage, err := media.NewS3Storage(minioClient, cfg.S3.Bucket, cfg.S3.PublicURL)
	if err != nil {
		return nil, err
	}

	mediaService, err := media.NewService(storage, logger, cfg.Media.MaxUploadBytes)
	if err != nil {
		return nil, err
	}

	cleanupJob, err := cleanup.NewJob(storage, contentRepo, logger, cfg.Cleanup.Interval, cfg.Cleanup.Retention)
	if err != nil {
		return nil, err
	}

	router := newRouter(
		authService,
		handlers.NewHealthHandler(),
		handlers.NewAuthHandler(authService, logger),
		handlers.NewContentHandler(contentService, boardService, logger),
		handlers.NewBoardHandler(boardService, logger),
		handlers.NewMediaHandler(mediaService, logger),
	)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		redis:   redisClient,
		server:  server,
		cleanup: cleanupJob,
	}, nil
}

// Run serves until the context ends, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	jobCtx, stopJob := context.WithCancel(ctx)
	defer stopJob()
	go a.cleanup.Run(jobCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("api listening", zap.String("addr", a.cfg.HTTP.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

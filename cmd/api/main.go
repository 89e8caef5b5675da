package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/adapter/crypto"
	dbadapter "github.com/vijaynvb/fullstackapp/internal/adapter/db"
	httpadapter "github.com/vijaynvb/fullstackapp/internal/adapter/http"
	"github.com/vijaynvb/fullstackapp/internal/adapter/http/handlers"
	httpmiddleware "github.com/vijaynvb/fullstackapp/internal/adapter/http/middleware"
	"github.com/vijaynvb/fullstackapp/internal/adapter/notify"
	redisadapter "github.com/vijaynvb/fullstackapp/internal/adapter/redis"
	"github.com/vijaynvb/fullstackapp/internal/app/service"
	"github.com/vijaynvb/fullstackapp/internal/config"
	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"
	"github.com/vijaynvb/fullstackapp/pkg/translator"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	sessionKeyPrefix     = "tasks:session:"
	sessionSweepInterval = 10 * time.Minute
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg := config.LoadConfig()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})

	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.String("driver", cfg.DbDriver), zap.Error(err))
	}
	if err := dbadapter.Migrate(context.Background(), db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	userRepository := dbadapter.NewUserRepository(db)
	taskRepository := dbadapter.NewTaskRepository(db)
	historyRepository := dbadapter.NewHistoryRepository(db)
	commentRepository := dbadapter.NewCommentRepository(db)
	sqlSessions := dbadapter.NewSessionRepository(db)
	hasher := crypto.NewBcryptHasher(cfg.BcryptCost)

	if cfg.SeedDefaultUsers {
		if err := service.SeedUsers(context.Background(), userRepository, hasher, service.DefaultSeedUsers); err != nil {
			logger.Fatal("failed to seed users", zap.Error(err))
		}
	}

	var (
		sessionStore ports.SessionStore = sqlSessions
		redisClient  *redis.Client
		redisStore   *redisadapter.SessionStore
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		redisStore = redisadapter.NewSessionStore(redisClient, sessionKeyPrefix)
		if err := redisStore.Ping(context.Background()); err != nil {
			logger.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		sessionStore = redisStore
		logger.Info("sessions stored in redis", zap.String("addr", cfg.RedisAddr))
	}

	var (
		channel     ports.NotificationChannel = notify.NewLogChannel(logger)
		natsConn    *nats.Conn
		natsChannel *notify.NATSChannel
	)
	if cfg.NatsURL != "" {
		natsConn, err = notify.ConnectNATS(cfg.NatsURL)
		if err != nil {
			logger.Fatal("failed to connect to nats", zap.String("url", cfg.NatsURL), zap.Error(err))
		}
		natsChannel = notify.NewNATSChannel(natsConn, cfg.NotifySubjectPrefix)
		channel = natsChannel
	}

	dispatcher := notify.NewDispatcher(channel, notify.Config{
		Workers:   cfg.NotifyWorkers,
		QueueSize: cfg.NotifyQueueSize,
	})
	dispatcher.Start()

	policy := domain.Policy{UsersSeeAllTasks: cfg.UsersSeeAllTasks}

	authService, err := service.NewAuthService(userRepository, sessionStore, sqlSessions, hasher, dispatcher, service.AuthServiceConfig{
		SessionTTL:         cfg.SessionTTL,
		RememberSessionTTL: cfg.SessionRememberTTL,
		ResetTokenTTL:      cfg.ResetTokenTTL,
	})
	if err != nil {
		logger.Fatal("failed to build auth service", zap.Error(err))
	}
	taskService := service.NewTaskService(taskRepository, historyRepository, commentRepository, userRepository, dispatcher, service.TaskServiceConfig{
		Policy:      policy,
		MaxPageSize: cfg.MaxPageSize,
	})
	commentService := service.NewCommentService(taskRepository, commentRepository, policy, nil)
	userService := service.NewUserService(userRepository, sessionStore, policy, nil)

	healthHandler := handlers.NewHealthHandler(cfg.DbDriver, handlers.PingFunc(db.PingContext))
	if redisStore != nil {
		healthHandler.WithOptional("redis", redisStore)
	}
	if natsChannel != nil {
		healthHandler.WithOptional("nats", natsChannel)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Error(err))
	}
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	httpadapter.RegisterRoutes(r, httpadapter.Handlers{
		Health:   healthHandler,
		Auth:     handlers.NewAuthHandler(authService),
		Users:    handlers.NewUserHandler(userService),
		Tasks:    handlers.NewTaskHandler(taskService, cfg.DefaultPageSize, cfg.MaxPageSize),
		Comments: handlers.NewCommentHandler(commentService),
	}, authService)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go sweepExpired(sweepCtx, sqlSessions, sessionSweepInterval)

	addr := ":" + cfg.AppPort
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	// The HTTP server drains first so no request enqueues a notification after the
	// dispatcher stops; the operations themselves run concurrently.
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				stopSweep()
				if err := server.Shutdown(ctx); err != nil {
					return err
				}
				if err := dispatcher.Stop(ctx); err != nil {
					return err
				}
				return closeBackends(db, redisClient, natsConn)
			},
		},
	)

	exitCode := <-wait
	logger.Info("server stopped", zap.Int("exit_code", exitCode))
	_ = logger.Sync()
	os.Exit(exitCode)
}

// sweepExpired purges expired SQL sessions and reset tokens. Redis expires its own keys
// but reset tokens always live in SQL.
func sweepExpired(ctx context.Context, sessions *dbadapter.SessionRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.DeleteExpired(ctx, time.Now())
			if err != nil {
				zap.L().Warn("failed to sweep expired sessions", zap.Error(err))
				continue
			}
			if removed > 0 {
				zap.L().Debug("swept expired sessions", zap.Int64("removed", removed))
			}
		}
	}
}

func closeBackends(db *sqlx.DB, redisClient *redis.Client, natsConn *nats.Conn) error {
	var errs []error
	if natsConn != nil {
		if err := natsConn.Drain(); err != nil {
			errs = append(errs, err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

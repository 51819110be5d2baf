// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"playbook-engine/internal/api"
	"playbook-engine/internal/auth"
	"playbook-engine/internal/billing"
	"playbook-engine/internal/common/aws"
	"playbook-engine/internal/common/config"
	"playbook-engine/internal/common/database"
	"playbook-engine/internal/common/logger"
	"playbook-engine/internal/common/observability"
	"playbook-engine/internal/notify"
	"playbook-engine/internal/playbook"
	"playbook-engine/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting playbook engine",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	obs := observability.New("playbook-engine")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected")

	// --- Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected")

	// --- Elasticsearch (optional) ---
	var search store.StakeholderIndex
	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		search = store.NewStakeholderIndex(esClient.Client, cfg.Database.Elasticsearch.Index, log)
		zapLog.Info("Elasticsearch connected")
	}

	// --- Stores ---
	users := store.NewUserStore(pg.DB)
	stakeholders := store.NewStakeholderStore(pg.DB)
	playbooks := store.NewPlaybookStore(pg.DB)
	goals := store.NewMeetingGoalStore(pg.DB)
	subscriptions := store.NewSubscriptionStore(pg.DB)
	options := store.NewCachedOptionStore(store.NewOptionStore(pg.DB), rdb.Client, log)

	// --- Notifications (best effort, optional) ---
	var notifier *notify.Notifier
	if cfg.Notifications.Email.Enabled || cfg.Notifications.Alerts.Enabled {
		var email notify.EmailSender
		var alerts notify.AlertPublisher
		if cfg.Notifications.Email.Enabled {
			sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Fatal("ses client init failed", zap.Error(err))
			}
			email = sesClient
		}
		if cfg.Notifications.Alerts.Enabled {
			snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Fatal("sns client init failed", zap.Error(err))
			}
			alerts = snsClient
		}
		notifier = notify.NewNotifier(users, email, alerts, cfg.Notifications, log)
	}

	// --- Core protocol ---
	var alerter playbook.Alerter
	var completionNotifier playbook.Notifier
	if notifier != nil {
		alerter = notifier
		completionNotifier = notifier
	}
	dispatcher := playbook.NewDispatcher(users, stakeholders, playbooks, subscriptions, cfg.Worker, obs, alerter, log)
	receiver := playbook.NewReceiver(playbooks, completionNotifier, log)

	// --- Pending reaper ---
	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	if cfg.Worker.PendingTTL > 0 {
		reaper := playbook.NewReaper(playbooks, cfg.Worker, log)
		go reaper.Run(reaperCtx)
	}

	// --- Billing webhook ---
	var billingHandler *billing.WebhookHandler
	if cfg.Billing.StripeWebhookSecret != "" {
		billingHandler = billing.NewWebhookHandler(subscriptions, rdb.Client, cfg.Billing.StripeWebhookSecret, log)
	}

	sessions := auth.NewSessionStore(rdb.Client, cfg.Auth.SessionTTL)

	router := api.NewRouter(api.Deps{
		Config:        cfg,
		Logger:        log,
		Sessions:      sessions,
		Users:         users,
		Stakeholders:  stakeholders,
		Playbooks:     playbooks,
		MeetingGoals:  goals,
		Options:       options,
		Subscriptions: subscriptions,
		Search:        search,
		Dispatcher:    dispatcher,
		Receiver:      receiver,
		Billing:       billingHandler,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")

	stopReaper()

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	zapLog.Info("playbook engine stopped")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/srgjo27/flashsale_ticket/internal/adapter/handler"
	"github.com/srgjo27/flashsale_ticket/internal/adapter/notifier"
	"github.com/srgjo27/flashsale_ticket/internal/adapter/repository/postgres"
	"github.com/srgjo27/flashsale_ticket/internal/adapter/repository/redisstore"
	"github.com/srgjo27/flashsale_ticket/internal/core/ports"
	"github.com/srgjo27/flashsale_ticket/internal/core/services"
	"github.com/srgjo27/flashsale_ticket/internal/platform/cache"
	"github.com/srgjo27/flashsale_ticket/internal/platform/config"
	"github.com/srgjo27/flashsale_ticket/internal/platform/database"
	"github.com/srgjo27/flashsale_ticket/internal/platform/logger"
	"github.com/srgjo27/flashsale_ticket/internal/platform/metrics"
	"github.com/srgjo27/flashsale_ticket/internal/platform/telemetry"
	"github.com/srgjo27/flashsale_ticket/internal/worker"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.IsDevelopment(),
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("engine stopped with error", zap.Error(err))
	}
	log.Info("engine exiting")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	tel, err := telemetry.Init(ctx, cfg.OTel, cfg.App.Version, cfg.App.Environment)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	db, err := database.NewPostgresDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		names, err := database.MigrationNames()
		if err != nil {
			return fmt.Errorf("list migrations: %w", err)
		}
		log.Info("migrations applied", zap.Strings("files", names))
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	publisher, closePublisher, err := newPublisher(cfg.Notify, log)
	if err != nil {
		return fmt.Errorf("build publisher: %w", err)
	}
	defer closePublisher()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	tx := postgres.NewTransactor(db)
	eventRepo := postgres.NewEventRepository(db)
	userRepo := postgres.NewUserRepository(db)
	preRegRepo := postgres.NewPreRegisterRepository(db)
	entryRepo := postgres.NewQueueEntryRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	queueIndex := redisstore.NewQueueIndex(redisClient, cfg.Redis.KeyTTL)

	opts := []services.Option{services.WithLogger(log), services.WithMetrics(m)}

	settings := services.QueueSettings{
		EntryWindow:      cfg.Queue.EntryWindow,
		BatchSize:        cfg.Queue.EntryBatchSize,
		MaxEntered:       cfg.Queue.MaxEnteredLimit,
		WaitingBroadcast: cfg.Queue.WaitingBroadcast,
		ExpireBatchLimit: cfg.Queue.ExpireBatchLimit,
	}

	scheduler := services.NewLifecycleScheduler(eventRepo, cfg.Scheduler.BatchLimit, opts...)
	shuffler := services.NewQueueShuffleService(tx, eventRepo, entryRepo, userRepo, preRegRepo, queueIndex, opts...)
	admission := services.NewQueueAdmissionService(tx, eventRepo, entryRepo, queueIndex, publisher, settings, opts...)
	reader := services.NewQueueReadService(entryRepo, queueIndex, opts...)
	reconciler := services.NewQueueReconciler(eventRepo, entryRepo, queueIndex, opts...)
	seats := services.NewSeatService(eventRepo, seatRepo, reader, publisher, opts...)
	tickets := services.NewTicketService(tx, ticketRepo, seatRepo, eventRepo, userRepo, seats, reader, admission,
		services.TicketSettings{DraftTTL: cfg.Ticket.DraftTTL, DraftSweepLimit: cfg.Ticket.DraftSweepLimit},
		opts...,
	)

	runner := worker.NewRunner(log, m)
	jobs := []worker.Job{
		{Name: "lifecycle", Interval: cfg.Scheduler.LifecycleInterval, Run: func(ctx context.Context) error {
			report, err := scheduler.Tick(ctx)
			if n := report.Advanced(); n > 0 {
				log.Info("lifecycle tick", zap.Int("advanced", n))
			}
			return err
		}},
		{Name: "auto_shuffle", Interval: cfg.Queue.ShuffleInterval, Run: func(ctx context.Context) error {
			_, err := shuffler.AutoShuffle(ctx, cfg.Queue.ShuffleLeadTime, cfg.Queue.ShuffleWindow)
			return err
		}},
		{Name: "admission", Interval: cfg.Queue.AdmissionInterval, Run: admission.ProcessOpenEvents},
		{Name: "queue_expiry", Interval: cfg.Queue.ExpireInterval, Run: func(ctx context.Context) error {
			_, err := admission.ExpireDueEntries(ctx)
			return err
		}},
		{Name: "draft_expiry", Interval: cfg.Ticket.DraftSweepInterval, Run: func(ctx context.Context) error {
			_, err := tickets.ExpireStaleDrafts(ctx)
			return err
		}},
		{Name: "reconcile", Interval: cfg.Queue.ReconcileInterval, Run: func(ctx context.Context) error {
			_, err := reconciler.ReconcileActive(ctx)
			return err
		}},
	}
	for _, job := range jobs {
		if err := runner.Add(job); err != nil {
			return err
		}
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	ops := handler.NewOpsHandler(map[string]handler.Check{
		"postgres": db.PingContext,
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}, reg, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.NewRouter(ops, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()

	// Catch up on work that fell due while the process was down.
	if err := runner.RunOnce(jobCtx); err != nil {
		log.Warn("startup pass finished with errors", zap.Error(err))
	}
	if err := runner.Start(jobCtx); err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("ops server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serverErr:
		if err != nil {
			log.Error("ops server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("ops server forced to shutdown", zap.Error(err))
	}
	cancelJobs()
	runner.Wait()

	return nil
}

// newPublisher selects the realtime notification channel. The returned close
// func is always safe to call.
func newPublisher(cfg config.NotifyConfig, log *zap.Logger) (ports.Publisher, func(), error) {
	switch cfg.Driver {
	case config.NotifyPubNub:
		return notifier.NewPubNubPublisher(notifier.NewPubNub(cfg), log), func() {}, nil
	case config.NotifyKafka:
		client, err := notifier.NewKafkaClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		return notifier.NewKafkaPublisher(client, cfg.KafkaTopic, log), client.Close, nil
	default:
		return notifier.NewLogPublisher(log), func() {}, nil
	}
}

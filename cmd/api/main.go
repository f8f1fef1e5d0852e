package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Child_Shield/internal/config"
	"Child_Shield/internal/handler"
	"Child_Shield/internal/pkg"
	"Child_Shield/internal/repository/mongo"
	"Child_Shield/internal/repository/mysql"
	"Child_Shield/internal/repository/redis"
	"Child_Shield/internal/router"
	"Child_Shield/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting child-shield api", slog.String("env", cfg.Env))

	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	if err := run(rootCtx, cfg, log); err != nil {
		log.Error("service_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("service_stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	db, err := mysql.Open(dbCtx, cfg.MySQL.DSN)
	if err != nil {
		return err
	}
	defer func() { _ = mysql.Close(db) }()
	log.Info("mysql_connected")

	mongoStore, err := mongo.New(dbCtx, cfg.Mongo.URL)
	if err != nil {
		return err
	}
	defer func() { _ = mongoStore.Close(context.Background()) }()
	log.Info("mongo_connected")

	rdb, err := redis.New(dbCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()
	log.Info("redis_connected")

	tokens := pkg.NewTokenIssuer(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	userRepo := mysql.NewUserRepository(db)
	users := service.NewUserService(userRepo, redis.NewSessionRepository(rdb, tokens.AccessTTL()), tokens)
	discussions := service.NewDiscussionService(mongo.NewDiscussionRepository(mongoStore), userRepo)
	reports := service.NewCaseReportService(mysql.NewCaseReportRepository(db))
	events := service.NewEventService(mysql.NewEventRepository(db))

	sender, closeSender := outboxSender(cfg, log)
	defer closeSender()
	relayer := service.NewOutboxRelayer(mysql.NewOutboxRepository(db), sender, cfg.Outbox.BatchSize, cfg.Outbox.Interval, log)

	relayCtx, relayCancel := context.WithCancel(ctx)
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relayer.Run(relayCtx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine := router.InitRouter(router.Deps{
		Logger:         log,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		Users:          users,
		Discussions:    discussions,
		Reports:        reports,
		Events:         events,
		Registry:       reg,
		Checks: map[string]handler.Check{
			"mysql": func(ctx context.Context) error { return mysql.Ping(ctx, db) },
			"mongo": mongoStore.Ping,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown_requested")
	case err = <-serveErr:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Warn("http_shutdown", slog.String("err", serr.Error()))
	}

	relayCancel()
	<-relayDone

	return err
}

// outboxSender publishes to Kafka when brokers are configured and mails the
// safeguarding desk when SMTP is configured. With neither it only logs.
func outboxSender(cfg *config.Config, log *slog.Logger) (service.Sender, func()) {
	var senders []service.Sender
	closeFn := func() {}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		senders = append(senders, service.KafkaSender(producer))
		closeFn = func() { _ = producer.Close() }
		log.Info("outbox_kafka_enabled", slog.String("topic", cfg.Kafka.Topic))
	}

	if cfg.SMTP.Host != "" {
		smtp := pkg.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}
		send := func(to, subject, body string) error { return pkg.SendEmail(smtp, to, subject, body) }
		senders = append(senders, service.AlertSender(send, cfg.SMTP.AlertTo))
		log.Info("outbox_mail_enabled")
	}

	if len(senders) == 0 {
		return service.LogSender(log), closeFn
	}
	return service.MultiSender(senders...), closeFn
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

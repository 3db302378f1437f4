package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/app"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/config"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/handler"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/idempotency"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/middleware"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/mongodb"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/notify"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/payment"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/postgres"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/repo"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/service"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/migrations"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/pkg/cache"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/pkg/trm"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

// @title           Lapzone Order Service API
// @version         1.0
// @description     Orders, inventory reservation and MoMo payments
func main() {
	conf := config.New()
	logger := newLogger(conf.Env, conf.Log)
	panicIfErr("invalid config", conf.Validate())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	application := app.New(logger, conf)

	st := newStorage(ctx, logger, conf, application)

	rdb, err := idempotency.NewRedisClient(ctx, conf.Redis)
	panicIfErr("failed to connect to redis", err)
	logger.Info("redis connected")
	application.SetHealthCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })

	orderCache := cache.New[[]byte](conf.Cache.Capacity, conf.Cache.TTL)
	publisher := notify.NewKafkaPublisher(conf.Kafka)
	momo := payment.NewMomoClient(logger, conf.Momo)

	orderService := service.NewOrderService(service.Deps{
		Logger:      logger,
		TxManager:   st.txManager,
		Orders:      st.repo,
		Inventory:   st.repo,
		Products:    st.repo,
		Carts:       st.repo,
		Gateway:     momo,
		Cache:       orderCache,
		Idempotency: idempotency.NewRedisStore(rdb, conf.Redis.IdempotencyTTL),
		Notifier:    publisher,
	})
	paymentService := service.NewPaymentService(logger, momo, orderService)
	sweeper := service.NewSweeper(logger, conf.Sweeper, st.repo, orderService)

	handler.RegisterMetrics()
	restockHandler := handler.NewKafkaHandler(logger, conf.Kafka, orderService)
	httpHandler := handler.NewHTTPHandler(logger, orderService, paymentService, middleware.Auth(conf.Auth.JWTSecret))

	if err := orderService.WarmUpCache(ctx, conf.Cache.Capacity); err != nil {
		logger.Warn("failed to warm up cache", slog.Any("error", err))
	}

	application.SetHTTPHandlers(httpHandler)
	application.SetRunners(orderCache, sweeper, restockHandler)
	application.SetClosers(restockHandler, publisher, rdb)
	application.SetClosers(st.closers...)

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
	}
	panicIfErr("failed to stop app", application.Stop())
}

type store interface {
	service.OrderStore
	service.InventoryLedger
	service.ProductCatalog
	service.CartStore
}

type storage struct {
	repo      store
	txManager trm.Manager
	closers   []io.Closer
}

func newStorage(ctx context.Context, logger *slog.Logger, conf config.Config, application interface {
	SetHealthCheck(name string, check app.HealthCheck)
}) storage {
	switch conf.Storage.Driver {
	case config.DriverMongo:
		client, db, err := mongodb.New(ctx, conf.Mongo)
		panicIfErr("failed to connect to mongo", err)
		logger.Info("mongo connected")
		application.SetHealthCheck("mongo", func(ctx context.Context) error { return client.Ping(ctx, nil) })

		return storage{
			repo:      repo.NewMongoRepo(db),
			txManager: trm.NewNopManager(),
			closers: []io.Closer{closerFunc(func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return client.Disconnect(ctx)
			})},
		}
	default:
		db, err := postgres.New(ctx, conf.Postgres)
		panicIfErr("failed to connect to db", err)
		logger.Info("postgres connected")
		if conf.Postgres.AutoMigrate {
			applied, err := postgres.Migrate(ctx, db, migrations.FS)
			panicIfErr("failed to migrate db", err)
			logger.Info("migrations applied", slog.Any("versions", applied))
		}
		application.SetHealthCheck("postgres", db.PingContext)

		return storage{
			repo:      repo.NewPostgresRepo(db),
			txManager: trm.NewManager(db, trm.WithIsolation(sql.LevelReadCommitted)),
			closers:   []io.Closer{db},
		}
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func init() {
	godotenv.Load()
}

func newLogger(env string, cfg config.Log) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		})
	}

	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}

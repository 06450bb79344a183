package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mkravtsov/checkout-service/internal/app"
	"github.com/mkravtsov/checkout-service/internal/config"
	"github.com/mkravtsov/checkout-service/internal/events"
	"github.com/mkravtsov/checkout-service/internal/handler"
	"github.com/mkravtsov/checkout-service/internal/postgres"
	"github.com/mkravtsov/checkout-service/internal/repo"
	"github.com/mkravtsov/checkout-service/internal/service"
	"github.com/mkravtsov/checkout-service/pkg/cache"
	"github.com/mkravtsov/checkout-service/pkg/trm"
)

func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	orderRepo := repo.NewOrderRepo(db)
	inventoryRepo := repo.NewInventoryRepo(db)
	productRepo := repo.NewProductRepo(db)
	txManager := trm.NewManager(db)
	orderCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	publisher := events.NewPublisher(logger, conf.Kafka)

	orderService := service.NewOrderService(
		logger, txManager, orderRepo, inventoryRepo,
		orderCache, publisher, conf.Order.PlaceTimeout,
	)
	productService := service.NewProductService(logger, productRepo)

	httpHandler := handler.NewHTTPHandler(logger, orderService, productService)

	app := app.New(logger, conf)

	app.SetHTTPHandlers(httpHandler)
	app.SetStarters(orderCache, cacheWarmUpAdapter{svc: orderService, count: conf.Cache.Capacity})
	app.SetClosers(publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}

type warmUpper interface {
	WarmUpCache(ctx context.Context, count int) error
}

type cacheWarmUpAdapter struct {
	svc   warmUpper
	count int
}

func (a cacheWarmUpAdapter) Start(ctx context.Context) error {
	return a.svc.WarmUpCache(ctx, a.count)
}

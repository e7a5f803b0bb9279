package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/jhoicas/pos-ledger/internal/application/finance"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain/ledger"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/pos-ledger/internal/interfaces/http"
	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Name:  cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	// Notificaciones: siempre al log; a Redis si REDIS_ADDR está definido.
	sinks := []notify.Sink{notify.NewLogSink(log)}
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no responde; las notificaciones a redis fallarán hasta que vuelva")
		}
		sinks = append(sinks, notify.NewRedisSink(rdb, cfg.Redis.Channel))
	}
	dispatcher := notify.NewDispatcher(log, cfg.Notify.Buffer, sinks...)

	stockLedger := inventory.NewStockLedger(inventory.Defaults{
		MinStock:     cfg.Ledger.DefaultMinStock,
		ReorderPoint: cfg.Ledger.DefaultReorderPoint,
	})
	adjustUC := inventory.NewAdjustStockUseCase(store.runner, stockLedger)
	stockUC := inventory.NewStockUseCase(store.runner, stockLedger, store.stock, store.movements)
	lowStockUC := inventory.NewLowStockUseCase(store.stock)
	completeSaleUC := sales.NewCompleteSaleUseCase(
		store.runner, stockLedger, store.branches, store.sales,
		ledger.NewFixedRatioCost(cfg.Ledger.CostRatio), dispatcher, log,
		sales.Config{DefaultBranchID: cfg.Ledger.DefaultBranchID, DefaultActorID: cfg.Ledger.DefaultActorID},
	)
	summaryUC := finance.NewSummaryUseCase(store.finance, store.branches)
	expenseUC := finance.NewExpenseUseCase(store.runner, store.expenses, dispatcher, log)

	var sweeper *cron.Cron
	if cfg.Scheduler.LowStockSweepCron != "" {
		sweep := scheduler.NewLowStockSweep(lowStockUC, dispatcher, log)
		c, err := scheduler.Start(cfg.Scheduler.LowStockSweepCron, sweep)
		if err != nil {
			log.Fatal().Err(err).Msg("programar barrido de stock bajo")
		}
		sweeper = c
		log.Info().Str("cron", cfg.Scheduler.LowStockSweepCron).Msg("barrido de stock bajo programado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Ledger API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AdjustStock:  adjustUC,
		Stock:        stockUC,
		LowStock:     lowStockUC,
		CompleteSale: completeSaleUC,
		Summary:      summaryUC,
		Expenses:     expenseUC,
		Health:       httpRouter.NewHealthHandler(cfg.App.Name, cfg.Storage.Driver, store.pinger),
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if sweeper != nil {
		select {
		case <-sweeper.Stop().Done():
		case <-shutdownCtx.Done():
		}
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("notificaciones pendientes descartadas")
	}

	log.Info().Msg("aplicación detenida")
}

// stockd es el backend local de stock: dépôts, blob de stock por dépôt, diario de
// movimientos e identidad, sobre PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/depot-stock/internal/application/stockd"
	"github.com/jhoicas/depot-stock/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/depot-stock/internal/interfaces/http"
	"github.com/jhoicas/depot-stock/internal/interfaces/stockdapi"
	"github.com/jhoicas/depot-stock/pkg/config"
	"github.com/jhoicas/depot-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "stockd",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("addr", cfg.Stockd.HTTP.Addr()).
		Msg("iniciando stockd")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("crear esquema")
	}

	svc := stockd.NewService(
		postgres.NewDepotRepository(pool),
		postgres.NewStockRepository(pool),
		postgres.NewLogRepository(pool),
		postgres.NewUserRepository(pool),
		postgres.NewTxRunner(pool),
		log.Component("stockd"),
	)
	if err := svc.EnsureAdmin(ctx, cfg.Stockd.AdminUser, cfg.Stockd.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name + "-stockd",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_down", "service": "stockd"})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": "stockd"})
	})

	stockdapi.Register(app, stockdapi.NewHandler(svc, log.Component("stockdapi")))

	go func() {
		if err := app.Listen(cfg.Stockd.HTTP.Addr()); err != nil {
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

	log.Info().Msg("stockd detenido")
}

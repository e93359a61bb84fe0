// @title                       Depot Stock API
// @version                     1.0
// @description                 Panel de stock multi-dépôt: consulta, movimientos y diario.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/swaggo/swag"

	"github.com/jhoicas/depot-stock/docs"
	"github.com/jhoicas/depot-stock/internal/application/auth"
	"github.com/jhoicas/depot-stock/internal/application/movement"
	"github.com/jhoicas/depot-stock/internal/application/usecase"
	"github.com/jhoicas/depot-stock/internal/infrastructure/catalog"
	"github.com/jhoicas/depot-stock/internal/infrastructure/localstock"
	"github.com/jhoicas/depot-stock/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/depot-stock/internal/infrastructure/pdf"
	infraxlsx "github.com/jhoicas/depot-stock/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/depot-stock/internal/interfaces/http"
	"github.com/jhoicas/depot-stock/pkg/config"
	"github.com/jhoicas/depot-stock/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("catalog", cfg.Catalog.BaseURL).
		Str("local_stock", cfg.Local.BaseURL).
		Int64("saint_cannat_id", cfg.Stock.SaintCannatID).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}
	if cfg.Catalog.BaseURL == "" {
		log.Warn().Msg("CATALOG_BASE_URL vacío: Saint-Cannat no estará disponible")
	}

	// Backends: catálogo (Saint-Cannat) y backend local (resto de dépôts, diario, identidad)
	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL:        cfg.Catalog.BaseURL,
		ConsumerKey:    cfg.Catalog.ConsumerKey,
		ConsumerSecret: cfg.Catalog.ConsumerSecret,
		Timeout:        cfg.Catalog.Timeout,
	})
	localClient := localstock.NewClient(cfg.Local.BaseURL, cfg.Local.Timeout)

	stockRouter := movement.NewRouter(cfg.Stock.SaintCannatID, catalogClient, localClient)
	draftStore := memory.NewDraftStore()
	draftUC := movement.NewDraftUseCase(stockRouter, localClient, draftStore)
	reconciler := movement.NewReconciler(stockRouter, localClient, localClient, draftStore, log.Component("reconciler"))

	depotUC := usecase.NewDepotUseCase(localClient, localClient, stockRouter, infraxlsx.NewExcelizeExporter(), log.Component("depots"))
	logUC := usecase.NewLogUseCase(localClient, localClient, infrapdf.NewMarotoReceiptGenerator(), log.Component("logs"))
	authUC := auth.NewAuthUseCase(localClient, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Depot Stock API",
		}))
	}
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return c.SendStatus(fiber.StatusNotFound)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		DepotUC:    depotUC,
		LogUC:      logUC,
		Drafts:     draftUC,
		Reconciler: reconciler,
		JWTSecret:  cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}

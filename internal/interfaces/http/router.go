package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/depot-stock/internal/application/auth"
	"github.com/jhoicas/depot-stock/internal/application/movement"
	"github.com/jhoicas/depot-stock/internal/application/usecase"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	DepotUC    *usecase.DepotUseCase
	LogUC      *usecase.LogUseCase
	Drafts     *movement.DraftUseCase
	Reconciler *movement.Reconciler
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Dépôts
	depotHandler := NewDepotHandler(deps.DepotUC)
	manage := RequireCapability("can_manage_depots", func(c entity.Capabilities) bool { return c.CanManageDepots })
	protected.Get("/depots", depotHandler.List)
	protected.Post("/depots", manage, depotHandler.Create)
	protected.Put("/depots/:id", manage, depotHandler.Update)
	protected.Delete("/depots/:id", manage, depotHandler.Delete)
	protected.Get("/depots/:id/stock", depotHandler.Stock)
	protected.Get("/depots/:id/export", depotHandler.Export)
	protected.Post("/depots/:id/ack", depotHandler.Acknowledge)

	// Movimientos
	movementHandler := NewMovementHandler(deps.Drafts, deps.Reconciler)
	protected.Get("/workflows", movementHandler.Workflows)
	movements := protected.Group("/movements/:op")
	movements.Post("/draft", movementHandler.Start)
	movements.Get("/draft", movementHandler.Get)
	movements.Delete("/draft", movementHandler.Clear)
	movements.Post("/draft/lines", movementHandler.AddLine)
	movements.Put("/draft/lines/:sku", movementHandler.SetQuantity)
	movements.Delete("/draft/lines/:sku", movementHandler.RemoveLine)
	movements.Put("/draft/reason", movementHandler.SetReason)
	movements.Post("/confirm", movementHandler.Confirm)

	// Diario
	logHandler := NewLogHandler(deps.LogUC)
	seeLogs := RequireCapability("can_see_logs", func(c entity.Capabilities) bool { return c.CanSeeLogs })
	protected.Get("/logs", seeLogs, logHandler.List)
	protected.Get("/logs/:id/receipt", logHandler.Receipt)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC   *ledger.UseCase
	TransferUC *transfer.UseCase
	DocumentUC *transfer.DocumentUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Ledger de movimientos (protegido)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.LedgerUC)
	movements.Post("/", movementHandler.Create)
	movements.Get("/", movementHandler.Search)
	movements.Get("/analytics", movementHandler.Analytics)
	movements.Get("/items/:item_id/history", movementHandler.ItemHistory)
	movements.Get("/:id", movementHandler.Get)
	movements.Post("/:id/execute", movementHandler.Execute)
	movements.Post("/:id/cancel", movementHandler.Cancel)

	// Traslados entre bodegas (protegido)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC, deps.DocumentUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.Search)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Get("/:id/document", transferHandler.Document)
	transfers.Post("/:id/submit", transferHandler.Submit)
	transfers.Post("/:id/approve", transferHandler.Approve)
	transfers.Post("/:id/ship", transferHandler.Ship)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/cancel", transferHandler.Cancel)
}

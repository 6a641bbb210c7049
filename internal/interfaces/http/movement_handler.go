package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// MovementHandler maneja las peticiones HTTP del ledger de movimientos (protegido).
type MovementHandler struct {
	uc *ledger.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// mapDomainError traduce la taxonomía de errores de dominio a HTTP:
// validación 400, no encontrado 404, estado inválido 409. Lo demás es 500.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Create godoc
// @Summary      Registrar movimiento de stock
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "type, warehouse_id, item_id, quantity (signo: + entrada, - salida)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.uc.CreateMovement(c.Context(), GetTenantID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(m))
}

// Execute godoc
// @Summary      Ejecutar movimiento pendiente
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/execute [post]
func (h *MovementHandler) Execute(c *fiber.Ctx) error {
	m, err := h.uc.ExecuteMovement(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromMovement(m))
}

// Cancel godoc
// @Summary      Cancelar movimiento no completado
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.CancelMovementRequest  true  "razón de cancelación"
// @Success      200   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/cancel [post]
func (h *MovementHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.uc.CancelMovement(c.Context(), GetTenantID(c), c.Params("id"), in.Reason)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromMovement(m))
}

// Get godoc
// @Summary      Consultar movimiento por ID
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	m, err := h.uc.GetMovement(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromMovement(m))
}

// Search godoc
// @Summary      Buscar movimientos del ledger
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        type          query  string  false  "Tipo de movimiento"
// @Param        status        query  string  false  "Estado"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        item_id       query  string  false  "Ítem"
// @Param        limit         query  int     false  "Tamaño de página (max 100)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/movements [get]
func (h *MovementHandler) Search(c *fiber.Ctx) error {
	var in dto.MovementSearchRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, total, err := h.uc.SearchMovements(c.Context(), GetTenantID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"movements": dto.FromMovements(list),
		"page":      dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	})
}

// ItemHistory godoc
// @Summary      Historial de movimientos completados de un ítem
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        item_id       path   string  true   "Ítem"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        limit         query  int     false  "Máximo de registros (50 por defecto)"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/movements/items/{item_id}/history [get]
func (h *MovementHandler) ItemHistory(c *fiber.Ctx) error {
	list, err := h.uc.GetItemHistory(c.Context(), GetTenantID(c),
		c.Params("item_id"), c.Query("warehouse_id"), c.QueryInt("limit"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"movements": dto.FromMovements(list),
		"total":     len(list),
	})
}

// Analytics godoc
// @Summary      Agregados de movimientos de una bodega
// @Description  Totales por tipo y estado, entradas/salidas y los ítems más
//
//	activos dentro del rango de fechas (últimos 30 días por defecto).
//
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true   "Bodega"
// @Param        date_from     query  string  false  "Inicio del rango (RFC3339)"
// @Param        date_to       query  string  false  "Fin del rango (RFC3339)"
// @Success      200  {object}  ledger.MovementAnalytics
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/analytics [get]
func (h *MovementHandler) Analytics(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id requerido"})
	}
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_from inválido"})
		}
		from = t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_to inválido"})
		}
		to = t
	}
	analytics, err := h.uc.GetMovementAnalytics(c.Context(), GetTenantID(c), warehouseID, from, to)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(analytics)
}

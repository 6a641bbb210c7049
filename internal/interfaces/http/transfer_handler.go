package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/transfer"
)

// TransferHandler maneja las peticiones HTTP de traslados entre bodegas (protegido).
type TransferHandler struct {
	uc  *transfer.UseCase
	doc *transfer.DocumentUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase, doc *transfer.DocumentUseCase) *TransferHandler {
	return &TransferHandler{uc: uc, doc: doc}
}

// Create godoc
// @Summary      Crear traslado en borrador
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "bodegas origen/destino y líneas solicitadas"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.CreateTransfer(c.Context(), GetTenantID(c), GetUserID(c), GetUserName(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTransfer(t))
}

// Submit godoc
// @Summary      Enviar borrador (a aprobación o directo a approved)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/submit [post]
func (h *TransferHandler) Submit(c *fiber.Ctx) error {
	t, err := h.uc.SubmitTransfer(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Approve godoc
// @Summary      Aprobar traslado pendiente de aprobación
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	t, err := h.uc.ApproveTransfer(c.Context(), GetTenantID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Ship godoc
// @Summary      Despachar traslado aprobado
// @Description  Registra las cantidades despachadas por línea y crea en el
//
//	ledger un movimiento de salida por cada línea, todo o nada.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.ShipTransferRequest  true  "cantidades despachadas por línea"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/ship [post]
func (h *TransferHandler) Ship(c *fiber.Ctx) error {
	var in dto.ShipTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.ShipTransfer(c.Context(), GetTenantID(c), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Receive godoc
// @Summary      Registrar recepción (parcial o total)
// @Description  Acredita cantidades recibidas y dañadas por línea y crea en el
//
//	ledger un movimiento de entrada por cada línea con recepción
//	positiva. Puede llamarse varias veces por traslado.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.ReceiveTransferRequest  true  "cantidades recibidas/dañadas por línea"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.ReceiveTransfer(c.Context(), GetTenantID(c), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Cancel godoc
// @Summary      Cancelar traslado
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.CancelTransferRequest  true  "razón de cancelación"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.CancelTransfer(c.Context(), GetTenantID(c), c.Params("id"), in.Reason)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Get godoc
// @Summary      Consultar traslado por ID
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	t, err := h.uc.GetTransfer(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Search godoc
// @Summary      Buscar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status             query  string  false  "Estado"
// @Param        from_warehouse_id  query  string  false  "Bodega origen"
// @Param        to_warehouse_id    query  string  false  "Bodega destino"
// @Param        search             query  string  false  "Texto libre (número o bodegas)"
// @Param        limit              query  int     false  "Tamaño de página (max 100)"
// @Param        offset             query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/transfers [get]
func (h *TransferHandler) Search(c *fiber.Ctx) error {
	var in dto.TransferSearchRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, total, err := h.uc.SearchTransfers(c.Context(), GetTenantID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"transfers": dto.FromTransfers(list),
		"page":      dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	})
}

// Document godoc
// @Summary      Descargar remisión PDF del traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/document [get]
func (h *TransferHandler) Document(c *fiber.Ctx) error {
	pdfBytes, err := h.doc.GenerateRemission(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="remision.pdf"`)
	return c.Send(pdfBytes)
}

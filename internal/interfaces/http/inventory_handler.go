package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ferreteria/internal/application/dto"
	"github.com/jhoicas/inventario-ferreteria/internal/application/inventory"
)

// InventoryHandler expone el kardex: entradas, salidas, ajustes, consulta y reposición.
type InventoryHandler struct {
	ledger        *inventory.LedgerUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, replenishment: replenishment}
}

// CreateEntry godoc
// @Summary      Registrar entrada de mercancía
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EntryRequest  true  "product_id, quantity, observations"
// @Success      201   {object}  dto.EntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/entries [post]
func (h *InventoryHandler) CreateEntry(c *fiber.Ctx) error {
	var in dto.EntryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.RecordEntryFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateExit godoc
// @Summary      Registrar salida de mercancía
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExitRequest  true  "product_id, quantity, reason, observations"
// @Success      201   {object}  dto.ExitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/exits [post]
func (h *InventoryHandler) CreateExit(c *fiber.Ctx) error {
	var in dto.ExitRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.RecordExitFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust godoc
// @Summary      Ajustar stock (Admin)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, new_stock, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.AdjustStockFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Consultar kardex
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "entry, exit, adjustment, creation, update, deletion"
// @Param        product_id  query  string  false  "ID del producto"
// @Param        user_id     query  string  false  "ID del usuario"
// @Param        from        query  string  false  "desde (YYYY-MM-DD o RFC3339)"
// @Param        to          query  string  false  "hasta (YYYY-MM-DD o RFC3339)"
// @Param        limit       query  int     false  "límite (por defecto 50)"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ListResponse[dto.MovementResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidQuery(c)
	}
	filter, err := inventory.MovementFilterFromQuery(q)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.ledger.ListMovements(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	q.DefaultPage()
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, inventory.ToMovementResponse(m))
	}
	return c.JSON(dto.ListResponse[dto.MovementResponse]{
		Success: true,
		Data:    items,
		Page:    dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	})
}

// MovementReport godoc
// @Summary      Reporte PDF del kardex
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        type        query  string  false  "tipo de movimiento"
// @Param        product_id  query  string  false  "ID del producto"
// @Param        from        query  string  false  "desde"
// @Param        to          query  string  false  "hasta"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/report [get]
func (h *InventoryHandler) MovementReport(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidQuery(c)
	}
	filter, err := inventory.MovementFilterFromQuery(q)
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.ledger.MovementReport(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="kardex-%s.pdf"`, time.Now().Format("20060102-150405")))
	return c.Send(pdf)
}

// ListEntries godoc
// @Summary      Listar entradas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "ID del producto"
// @Param        from        query  string  false  "desde"
// @Param        to          query  string  false  "hasta"
// @Param        limit       query  int     false  "límite"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ListResponse[dto.EntryResponse]
// @Router       /api/inventory/entries [get]
func (h *InventoryHandler) ListEntries(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidQuery(c)
	}
	filter, err := inventory.DocumentFilterFromQuery(q)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.ledger.ListEntries(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	q.DefaultPage()
	items := make([]dto.EntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *inventory.ToEntryResponse(e))
	}
	return c.JSON(dto.ListResponse[dto.EntryResponse]{
		Success: true,
		Data:    items,
		Page:    dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	})
}

// GetEntry godoc
// @Summary      Obtener entrada por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.EntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/entries/{id} [get]
func (h *InventoryHandler) GetEntry(c *fiber.Ctx) error {
	e, err := h.ledger.GetEntry(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToEntryResponse(e))
}

// ListExits godoc
// @Summary      Listar salidas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "ID del producto"
// @Param        from        query  string  false  "desde"
// @Param        to          query  string  false  "hasta"
// @Param        limit       query  int     false  "límite"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ListResponse[dto.ExitResponse]
// @Router       /api/inventory/exits [get]
func (h *InventoryHandler) ListExits(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidQuery(c)
	}
	filter, err := inventory.DocumentFilterFromQuery(q)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.ledger.ListExits(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	q.DefaultPage()
	items := make([]dto.ExitResponse, 0, len(list))
	for _, x := range list {
		items = append(items, *inventory.ToExitResponse(x))
	}
	return c.JSON(dto.ListResponse[dto.ExitResponse]{
		Success: true,
		Data:    items,
		Page:    dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	})
}

// GetExit godoc
// @Summary      Obtener salida por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la salida"
// @Success      200  {object}  dto.ExitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/exits/{id} [get]
func (h *InventoryHandler) GetExit(c *fiber.Ctx) error {
	x, err := h.ledger.GetExit(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToExitResponse(x))
}

// Replenishment godoc
// @Summary      Sugerencias de reposición
// @Description  Productos activos en o bajo su stock mínimo, priorizados por margen y rotación.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/depot-stock/internal/application/dto"
	"github.com/jhoicas/depot-stock/internal/application/movement"
	"github.com/jhoicas/depot-stock/internal/domain/entity"
)

// MovementHandler maneja el borrador y la confirmación de movimientos de stock.
// La operación viaja en la ruta: reception, exit, return o transfer.
type MovementHandler struct {
	drafts     *movement.DraftUseCase
	reconciler *movement.Reconciler
}

// NewMovementHandler construye el handler de movimientos.
func NewMovementHandler(drafts *movement.DraftUseCase, reconciler *movement.Reconciler) *MovementHandler {
	return &MovementHandler{drafts: drafts, reconciler: reconciler}
}

// operation copia el parámetro: los valores de c.Params apuntan al buffer de fasthttp,
// que se reutiliza entre peticiones, y la operación se guarda como clave del borrador.
func (h *MovementHandler) operation(c *fiber.Ctx) (entity.Operation, bool) {
	return entity.ParseOperation(utils.CopyString(c.Params("op")))
}

func invalidOperation(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_OPERATION", Message: "operación desconocida"})
}

// Workflows godoc
// @Summary      Operaciones disponibles para la sesión
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  movement.Workflow
// @Router       /api/workflows [get]
func (h *MovementHandler) Workflows(c *fiber.Ctx) error {
	return c.JSON(movement.Workflows(GetSession(c)))
}

// Start godoc
// @Summary      Abrir borrador
// @Description  Reemplaza el borrador anterior de la misma operación. Para transfer, depot_id es el origen.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        op    path  string                 true  "reception | exit | return | transfer"
// @Param        body  body  dto.StartDraftRequest  true  "depot_id, dest_depot_id"
// @Success      201   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/{op}/draft [post]
func (h *MovementHandler) Start(c *fiber.Ctx) error {
	op, ok := h.operation(c)
	if !ok {
		return invalidOperation(c)
	}
	var in dto.StartDraftRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	d, err := h.drafts.Start(c.UserContext(), GetSession(c), op, movement.StartInput{DepotID: in.DepotID, DestDepotID: in.DestDepotID})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDraftResponse(d))
}

// Get godoc
// @Summary      Borrador actual
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        op   path  string  true  "operación"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{op}/draft [get]
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	op, ok := h.operation(c)
	if !ok {
		return invalidOperation(c)
	}
	d, err := h.drafts.Get(GetSession(c), op)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDraftResponse(d))
}

// AddLine godoc
// @Summary      Agregar SKU al borrador
// @Description  Un SKU repetido incrementa la cantidad en 1. En salidas no se supera el stock observado.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        op    path  string              true  "operación"
// @Param        body  body  dto.AddLineRequest  true  "sku"
// @Success      200   {object}  dto.DraftResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/movements/{op}/draft/lines [post]
func (h *MovementHandler) AddLine(c *fiber.Ctx) error {
	op, ok := h.operation(c)
	if !ok {
		return invalidOperation(c)
	}
	var in dto.AddLineRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	d, err := h.drafts.AddBySKU(c.UserContext(), GetSession(c), op, in.SKU)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDraftResponse(d))
}

// SetQuantity godoc
// @Summary      Cambiar cantidad de una línea
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        op    path  string                  true  "operación"
// @Param        sku   path  string                  true  "SKU"
// @Param        body  body  dto.SetQuantityRequest  true  "quantity"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements/{op}/draft/lines/{sku} [put]
func (h *MovementHandler) SetQuantity(c *fiber.Ctx) error {
	op, ok := h.operation(c)
	if !ok {
		return invalidOperation(c)
	}
	var in dto.SetQuantityRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	d, err := h.drafts.SetQuantity(GetSession(c), op, skuParam(c), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDraftResponse(d))
}

// RemoveLine godoc
// @Summary      Quitar línea del borrador
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        op   path  string  true  "operación"
// @Param        sku  path  string  true  "SKU"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{op}/draft/lines/{sku} [delete]
func (h *MovementHandler) RemoveLine(c *fiber.Ctx) error {
	op, ok := h.operation(c)
	if !ok {
		return invalidOperation(c)
	}
	d, err := h.drafts.Remove(GetSession(c), op, skuParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDraftResponse(d))
}

// SetReason godoc
// @Summary      Elegir motivo
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        op    path  string                true  "exit | return"
// @Param        body  body  dto.SetReasonRequest  true  "reason"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/{op}/draft/reason [put]
func (h *MovementHandler) SetReason(c *fiber.Ctx) error {
	op, ok := h.operation(c)
	if !ok {
		return invalidOperation(c)
	}
	var in dto.SetReasonRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	d, err := h.drafts.SetReason(GetSession(c), op, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDraftResponse(d))
}

// Clear godoc
// @Summary      Descartar borrador
// @Tags         movements
// @Security     Bearer
// @Param        op   path  string  true  "operación"
// @Success      204
// @Router       /api/movements/{op}/draft [delete]
func (h *MovementHandler) Clear(c *fiber.Ctx) error {
	op, ok := h.operation(c)
	if !ok {
		return invalidOperation(c)
	}
	h.drafts.Clear(GetSession(c), op)
	return c.SendStatus(fiber.StatusNoContent)
}

// Confirm godoc
// @Summary      Confirmar movimiento
// @Description  Aplica cada línea en el backend autoritativo y registra una entrada de diario.
// @Description  Responde 207 si algún ajuste o el diario fallaron; el reporte lista cada fallo.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        op   path  string  true  "operación"
// @Success      200  {object}  movement.Report
// @Success      207  {object}  movement.Report
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/movements/{op}/confirm [post]
func (h *MovementHandler) Confirm(c *fiber.Ctx) error {
	op, ok := h.operation(c)
	if !ok {
		return invalidOperation(c)
	}
	report, err := h.reconciler.Confirm(c.UserContext(), GetSession(c), op)
	if err != nil {
		return writeError(c, err)
	}
	if report.Partial() {
		return c.Status(fiber.StatusMultiStatus).JSON(report)
	}
	return c.JSON(report)
}

func skuParam(c *fiber.Ctx) string {
	raw := utils.CopyString(c.Params("sku"))
	if sku, err := url.PathUnescape(raw); err == nil {
		return sku
	}
	return raw
}

func toDraftResponse(d *entity.Draft) dto.DraftResponse {
	lines := make([]dto.DraftLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, dto.DraftLineResponse{SKU: l.SKU, Name: l.Name, Quantity: l.Quantity, Available: l.Available})
	}
	return dto.DraftResponse{
		Operation:   string(d.Operation),
		Action:      d.Operation.ActionLabel(),
		DepotID:     d.DepotID,
		DestDepotID: d.DestDepotID,
		Reason:      d.Reason,
		Lines:       lines,
	}
}

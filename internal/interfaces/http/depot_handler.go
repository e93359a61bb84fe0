package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/depot-stock/internal/application/dto"
	"github.com/jhoicas/depot-stock/internal/application/usecase"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DepotHandler maneja dépôts, consulta de stock, exportación y notificaciones.
type DepotHandler struct {
	uc *usecase.DepotUseCase
}

// NewDepotHandler construye el handler de dépôts.
func NewDepotHandler(uc *usecase.DepotUseCase) *DepotHandler {
	return &DepotHandler{uc: uc}
}

// List godoc
// @Summary      Listar dépôts visibles para la sesión
// @Tags         depots
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.DepotResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/depots [get]
func (h *DepotHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Create godoc
// @Summary      Crear dépôt
// @Tags         depots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDepotRequest  true  "name, location, assigned_user"
// @Success      201   {object}  dto.DepotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/depots [post]
func (h *DepotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDepotRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar dépôt
// @Tags         depots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID del dépôt"
// @Param        body  body  dto.UpdateDepotRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.DepotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/depots/{id} [put]
func (h *DepotHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var in dto.UpdateDepotRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetSession(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar dépôt
// @Tags         depots
// @Security     Bearer
// @Param        id   path  int  true  "ID del dépôt"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/depots/{id} [delete]
func (h *DepotHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	if err := h.uc.Delete(c.UserContext(), GetSession(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stock godoc
// @Summary      Stock de un dépôt
// @Description  Con sku busca un producto en el backend autoritativo; con q filtra por nombre sin acentos.
// @Tags         depots
// @Security     Bearer
// @Produce      json
// @Param        id   path   int     true   "ID del dépôt"
// @Param        q    query  string  false  "búsqueda por nombre"
// @Param        sku  query  string  false  "SKU exacto"
// @Success      200  {object}  dto.StockResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/depots/{id}/stock [get]
func (h *DepotHandler) Stock(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var q dto.StockQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.Stock(c.UserContext(), GetSession(c), id, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar stock a Excel
// @Tags         depots
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  int  true  "ID del dépôt"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/depots/{id}/export [get]
func (h *DepotHandler) Export(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	data, filename, err := h.uc.Export(c.UserContext(), GetSession(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, contentTypeXLSX, filename, data)
}

// Acknowledge godoc
// @Summary      Marcar notificación de stock como vista
// @Tags         depots
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del dépôt"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/depots/{id}/ack [post]
func (h *DepotHandler) Acknowledge(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	if err := h.uc.Acknowledge(c.UserContext(), GetSession(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "notificación marcada como vista"})
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/depot-stock/internal/application/dto"
	"github.com/jhoicas/depot-stock/internal/application/usecase"
)

const contentTypePDF = "application/pdf"

// LogHandler maneja el diario de movimientos y sus comprobantes PDF.
type LogHandler struct {
	uc *usecase.LogUseCase
}

// NewLogHandler construye el handler del diario.
func NewLogHandler(uc *usecase.LogUseCase) *LogHandler {
	return &LogHandler{uc: uc}
}

// List godoc
// @Summary      Listar diario de movimientos
// @Description  Más reciente primero. depot_id filtra por dépôt.
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        depot_id  query  int  false  "ID del dépôt"
// @Success      200  {array}   dto.LogEntryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/logs [get]
func (h *LogHandler) List(c *fiber.Ctx) error {
	var q dto.LogQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	list, err := h.uc.List(c.UserContext(), GetSession(c), q.DepotID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Receipt godoc
// @Summary      Comprobante PDF de un movimiento
// @Tags         logs
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la entrada"
// @Success      200  {file}    file
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/logs/{id}/receipt [get]
func (h *LogHandler) Receipt(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	data, filename, err := h.uc.Receipt(c.UserContext(), GetSession(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, contentTypePDF, filename, data)
}

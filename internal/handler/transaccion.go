package handler

import (
	"net/http"

	"github.com/ChristianFajardo2022/audiosmadres/internal/dto"
	"github.com/ChristianFajardo2022/audiosmadres/internal/service"

	"github.com/gin-gonic/gin"
)

const missingTransaccionFields = "Missing required fields: customer_id, trx_status, order_id"

type TransaccionHandler struct{ svc service.TransaccionService }

func NewTransaccionHandler(svc service.TransaccionService) *TransaccionHandler {
	return &TransaccionHandler{svc: svc}
}

// Actualizar godoc
// @Summary      Payment processor callback
// @Description  Records trx_status and order_id; the first approval of a record consumes one stock unit.
// @Tags         transacciones
// @Accept       json
// @Produce      json
// @Param        body body     dto.TransaccionRequest true "Transaction result"
// @Success      200  {object} dto.TransaccionResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /alcarrito [post]
func (h *TransaccionHandler) Actualizar(c *gin.Context) {
	var req dto.TransaccionRequest
	if !bindAndValidate(c, &req, missingTransaccionFields) {
		return
	}
	data, err := h.svc.Actualizar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TransaccionResponse{
		Success: true,
		Message: "Data updated successfully",
		Data:    *data,
	})
}

package handler

import (
	"net/http"

	"github.com/ChristianFajardo2022/audiosmadres/internal/dto"
	"github.com/ChristianFajardo2022/audiosmadres/internal/service"

	"github.com/gin-gonic/gin"
)

type UsuariosHandler struct{ svc service.UsuarioService }

func NewUsuariosHandler(svc service.UsuarioService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Filtrar godoc
// @Summary      Filter submissions by field
// @Description  Exact, case-sensitive equality on one field. Returns every match.
// @Tags         usuarios
// @Produce      json
// @Param        field query    string true "Field name"
// @Param        value query    string true "Value to match"
// @Success      200   {object} dto.FiltrarUsuariosResponse
// @Failure      400   {object} apierror.APIError
// @Failure      404   {object} apierror.APIError
// @Router       /filter-users [get]
func (h *UsuariosHandler) Filtrar(c *gin.Context) {
	var q dto.FiltroQuery
	// Missing keys bind as "", which the service rejects.
	_ = c.ShouldBindQuery(&q)

	usuarios, err := h.svc.Filtrar(c.Request.Context(), q.Field, q.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FiltrarUsuariosResponse{Success: true, Users: usuarios})
}

// ObtenerDatos godoc
// @Summary      Look up a submission by customer id
// @Tags         usuarios
// @Produce      json
// @Param        customer_id query    string true "Customer id"
// @Success      200         {object} dto.UsuarioDataResponse
// @Failure      400         {object} apierror.APIError
// @Failure      404         {object} apierror.APIError
// @Router       /get-user-data [get]
func (h *UsuariosHandler) ObtenerDatos(c *gin.Context) {
	usuarios, err := h.svc.ObtenerPorCustomerID(c.Request.Context(), c.Query("customer_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UsuarioDataResponse{Success: true, Data: usuarios})
}

// ExportarCSV godoc
// @Summary      Export every submission as CSV
// @Tags         usuarios
// @Produce      text/csv
// @Success      200 {file}   file
// @Failure      500 {object} apierror.APIError
// @Router       /export-users-csv [get]
func (h *UsuariosHandler) ExportarCSV(c *gin.Context) {
	data, err := h.svc.ExportarCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="usuarios.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

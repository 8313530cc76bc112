package handler

import (
	"errors"
	"net/http"

	"github.com/ChristianFajardo2022/audiosmadres/internal/apierror"
	"github.com/ChristianFajardo2022/audiosmadres/internal/dto"
	"github.com/ChristianFajardo2022/audiosmadres/internal/service"

	"github.com/gin-gonic/gin"
)

type FormularioHandler struct {
	svc      service.FormularioService
	maxBytes int64
}

// NewFormularioHandler rejects multipart bodies larger than maxBytes.
func NewFormularioHandler(svc service.FormularioService, maxBytes int64) *FormularioHandler {
	return &FormularioHandler{svc: svc, maxBytes: maxBytes}
}

// Enviar godoc
// @Summary      Submit the form with its audio recording
// @Description  Uploads the audio, then stores formData plus the public audioRef.
// @Tags         formulario
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio    formData file   true "Recording"
// @Param        formData formData string true "JSON object with the form fields"
// @Success      201      {object} dto.MensajeResponse
// @Failure      400      {object} apierror.APIError
// @Failure      500      {object} apierror.APIError
// @Router       /submit-form [post]
func (h *FormularioHandler) Enviar(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	fh, err := c.FormFile("audio")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(c, apierror.Validation("Audio file too large"))
		return
	}

	req := dto.EnviarFormularioRequest{FormData: c.PostForm("formData")}
	if err == nil {
		f, err := fh.Open()
		if err != nil {
			respondError(c, apierror.Internal("Error processing your request", err))
			return
		}
		defer f.Close()
		req.Audio = f
	}

	if _, err := h.svc.Enviar(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MensajeResponse{Success: true, Message: "Data and audio uploaded successfully"})
}

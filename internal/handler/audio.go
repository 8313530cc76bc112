package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/ChristianFajardo2022/audiosmadres/internal/service"

	"github.com/gin-gonic/gin"
)

type AudioHandler struct {
	svc         service.AudioService
	contentType string
}

func NewAudioHandler(svc service.AudioService, contentType string) *AudioHandler {
	return &AudioHandler{svc: svc, contentType: contentType}
}

// Descargar godoc
// @Summary      Download a recording
// @Description  ref is either the storage path or the public URL stored in audioRef.
// @Tags         audio
// @Produce      audio/mp3
// @Param        ref query    string true "Storage path or public URL"
// @Success      200 {file}   file
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /download-audio [get]
func (h *AudioHandler) Descargar(c *gin.Context) {
	d, err := h.svc.Descargar(c.Request.Context(), c.Query("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer d.Body.Close()

	// A read failure past this point can only abort the stream; gin records
	// it on c.Errors and the error handler logs it.
	c.DataFromReader(http.StatusOK, d.Size, h.contentType, d.Body, map[string]string{
		"Content-Disposition": `attachment; filename="` + escapeFilename(d.Filename) + `"`,
	})
}

// escapeFilename percent-encodes like encodeURIComponent: spaces become %20.
func escapeFilename(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

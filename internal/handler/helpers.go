package handler

import (
	"net/http"

	"github.com/ChristianFajardo2022/audiosmadres/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds the JSON body and runs go-playground/validator tags.
// Any failure (malformed JSON, a wrongly typed field, a missing required
// field) is answered with 400 and msg, and false is returned; the caller
// should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}, msg string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(msg))
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(msg))
		return false
	}
	return true
}

// respondError writes the {success:false, message} envelope for err. Causes
// of 5xx responses are attached to the context for the error handler to log.
func respondError(c *gin.Context, err error) {
	e := apierror.From(err)
	status := e.Kind.Status()
	if status >= http.StatusInternalServerError {
		_ = c.Error(e)
	}
	c.JSON(status, apierror.New(e.Message))
}

package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindValidation.Status())
	assert.Equal(t, http.StatusNotFound, KindNotFound.Status())
	assert.Equal(t, http.StatusInternalServerError, KindUpstream.Status())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.Status())
}

func TestFromKeepsClassifiedErrors(t *testing.T) {
	cause := errors.New("rpc error: deadline exceeded")
	wrapped := fmt.Errorf("listing usuarios: %w", Upstream("Error processing your request", cause))

	e := From(wrapped)
	assert.Equal(t, KindUpstream, e.Kind)
	assert.ErrorIs(t, e, cause)
}

func TestFromUnclassifiedIsInternal(t *testing.T) {
	e := From(errors.New("boom"))
	assert.Equal(t, KindInternal, e.Kind)
	assert.Equal(t, "Error processing your request", e.Message)
}

func TestNewEnvelope(t *testing.T) {
	env := New("User not found")
	assert.False(t, env.Success)
	assert.Equal(t, "User not found", env.Message)
}

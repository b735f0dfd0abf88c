package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/feral-file/marketplace-api/internal/api/shared/errors"
)

// respondError writes an executor error with its canonical status code.
// Anything that is not an APIError is masked as an internal error.
func respondError(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.HTTPStatus(), apiErr)
		return
	}
	c.JSON(http.StatusInternalServerError, apierrors.NewInternalError("Internal server error"))
}

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, details ...string) {
	apiErr := apierrors.NewValidationError(details...)
	c.JSON(apiErr.HTTPStatus(), apiErr)
}

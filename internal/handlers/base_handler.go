package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/eyuppastirmaci/agenda-pulse/pkg/apperrors"
)

type BaseHandler struct{}

// BindJSON binds the request body and turns binding failures into the
// standard error envelope. Returns false when the request was rejected.
func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			details := make(map[string]string, len(vErrs))
			for _, fieldErr := range vErrs {
				details[fieldErr.Field()] = fieldErr.Tag()
			}
			apperrors.HandleError(c, apperrors.ValidationError(details))
			return false
		}

		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	return true
}

package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
	"github.com/yigit/schoolmanager/internal/pkg/validation"
)

// BindAndValidate binds the request body (form or JSON, by content type)
// into obj and runs its validate tags. Field failures come back as
// *apperrors.ValidationError.
func BindAndValidate(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBind(obj); err != nil {
		return apperrors.NewBadRequestError(fmt.Sprintf("invalid request body: %v", err))
	}
	return validation.Struct(obj)
}

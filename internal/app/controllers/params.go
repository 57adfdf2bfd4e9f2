package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
)

// parseIDParam reads a positive int64 path parameter
func parseIDParam(ctx *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError(fmt.Sprintf("%s must be a positive number", name))
	}
	return id, nil
}

// optionalID reads an id from the query string or the submitted form.
// An absent value is nil.
func optionalID(ctx *gin.Context, name string) (*int64, error) {
	raw := ctx.Query(name)
	if raw == "" {
		raw = ctx.PostForm(name)
	}
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("%s must be a positive number", name))
	}
	return &id, nil
}

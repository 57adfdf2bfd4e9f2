package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolmanager/internal/app/models/dto"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
)

// DeleteExceptionView renders a delete that was blocked by referencing rows
const DeleteExceptionView = "errors/deleteException"

// FormData is the payload of a redisplayed form
type FormData struct {
	Form   interface{}            `json:"form"`
	Fields []apperrors.FieldError `json:"fields"`
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classify(err)
	abortWith(c, err, status, dto.NewErrorResponse(detail))
}

// HandleDeleteError is HandleAPIError for delete handlers: a delete blocked
// by referencing rows also names the deleteException view.
func HandleDeleteError(c *gin.Context, err error) {
	status, detail := classify(err)
	resp := dto.NewErrorResponse(detail)
	if errors.Is(err, apperrors.ErrConstraintViolation) {
		resp.WithView(DeleteExceptionView, nil)
	}
	abortWith(c, err, status, resp)
}

func abortWith(c *gin.Context, err error, status int, resp *dto.ErrorResponse) {
	if status == http.StatusInternalServerError {
		lgr := RequestLog(c)
		lgr.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
	}
	c.AbortWithStatusJSON(status, resp)
}

// HandleFormError redisplays view with the submitted form and its field
// errors when err is a validation failure, and defers to HandleAPIError
// otherwise.
func HandleFormError(c *gin.Context, view string, form interface{}, err error) {
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		HandleAPIError(c, err)
		return
	}

	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
		WithSeverity(dto.ErrorSeverityWarning)
	if len(verr.Fields) > 0 {
		detail.WithField(verr.Fields[0].Field)
	}
	resp := dto.NewErrorResponse(detail).WithView(view, FormData{Form: form, Fields: verr.Fields})
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

func classify(err error) (int, *dto.ErrorDetail) {
	status, detail := classifySentinel(err)
	var cerr *apperrors.CustomError
	if detail.Details == nil && errors.As(err, &cerr) && cerr.Details != nil {
		detail.WithDetails(cerr.Details)
	}
	return status, detail
}

func classifySentinel(err error) (int, *dto.ErrorDetail) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails(verr.Fields)
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
	case errors.Is(err, apperrors.ErrNoSubjectSelected):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeNoSubjectSelected, err.Error())
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())
	case errors.Is(err, apperrors.ErrConstraintViolation):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error())
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())
	case errors.Is(err, apperrors.ErrNoTeacherSession):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeNoTeacherSession, err.Error())
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error())
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

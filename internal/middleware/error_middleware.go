package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/lecturehub/internal/app/models/dto"
	"github.com/yigit/lecturehub/internal/pkg/apperrors"
	"github.com/yigit/lecturehub/internal/pkg/logger"
)

type errorMapping struct {
	status  int
	code    dto.ErrorCode
	message string
}

func classify(err error) errorMapping {
	switch {
	case apperrors.Is(err, apperrors.ErrUnsupportedFileType):
		return errorMapping{http.StatusBadRequest, dto.ErrorCodeUnsupportedFile, "Unsupported file type"}
	case apperrors.Is(err, apperrors.ErrFileTooLarge):
		return errorMapping{http.StatusBadRequest, dto.ErrorCodeFileTooLarge, "File too large"}
	case apperrors.Is(err, apperrors.ErrValidationFailed):
		return errorMapping{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"}
	case apperrors.Is(err, apperrors.ErrBadRequest):
		return errorMapping{http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"}
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"}
	case apperrors.Is(err, apperrors.ErrUnauthenticated):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"}
	case apperrors.Is(err, apperrors.ErrPermissionDenied):
		return errorMapping{http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"}
	case apperrors.Is(err, apperrors.ErrMaterialNotFound, apperrors.ErrLecturerNotFound, apperrors.ErrResourceNotFound):
		return errorMapping{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"}
	case apperrors.Is(err, apperrors.ErrIdentifierExists, apperrors.ErrEmailAlreadyExists, apperrors.ErrConflict):
		return errorMapping{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"}
	case apperrors.Is(err, apperrors.ErrGone):
		return errorMapping{http.StatusGone, dto.ErrorCodeResourceGone, "Resource no longer available"}
	case apperrors.Is(err, apperrors.ErrStorageUnavailable):
		return errorMapping{http.StatusInternalServerError, dto.ErrorCodeExternalServiceError, "Internal server error"}
	default:
		return errorMapping{http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"}
	}
}

// HandleAPIError writes the error envelope for err.
// Messages attached with apperrors.NewCustomError are shown as-is; 500s without one stay generic.
func HandleAPIError(c *gin.Context, err error) {
	mapping := classify(err)

	message := mapping.message
	if userMessage, ok := apperrors.UserMessage(err); ok {
		message = userMessage
	}

	if mapping.status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("requestID", c.GetString(ContextRequestID)).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(mapping.status, dto.NewErrorResponse(mapping.code, message))
}

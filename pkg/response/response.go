package response

import (
	"errors"
	"fmt"
	"net/http"

	"anoa.com/complainthub/pkg/apperror"
	"anoa.com/complainthub/pkg/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Envelope struct {
	Code    int                 `json:"code"`
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data"`
	Meta    *dto.PaginationMeta `json:"meta,omitempty"`
}

type ErrorEnvelope struct {
	Code   int         `json:"code"`
	Status string      `json:"status"`
	Errors interface{} `json:"errors"`
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// FormFile opens an optional multipart file. A missing part gives a nil file
// and a no-op close.
func FormFile(c *gin.Context, field string) (*dto.UploadFile, func(), error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, apperror.BadRequest(err.Error())
	}

	upload, file, err := dto.OpenUpload(fileHeader)
	if err != nil {
		return nil, func() {}, apperror.BadRequest(fmt.Sprintf("Failed to read %s", field))
	}
	return upload, func() { file.Close() }, nil
}

// ParamUUID parses a path parameter, failing with 404 for malformed ids.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound(fmt.Sprintf("%s is not a valid id", name))
	}
	return id, nil
}

func JSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Envelope{
		Code:    code,
		Status:  http.StatusText(code),
		Message: message,
		Data:    data,
	})
}

func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, message, data)
}

func Paginated(c *gin.Context, message string, data interface{}, meta dto.PaginationMeta) {
	c.JSON(http.StatusOK, Envelope{
		Code:    http.StatusOK,
		Status:  http.StatusText(http.StatusOK),
		Message: message,
		Data:    data,
		Meta:    &meta,
	})
}

// ResponseError is the single place where errors become HTTP responses.
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)
	body := ErrorEnvelope{Code: code, Status: http.StatusText(code)}

	var valErr *apperror.ValidationError
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &valErr):
		body.Errors = valErr.Errors
	case errors.As(err, &appErr):
		body.Errors = appErr.Error()
	default:
		if field, ok := apperror.UniqueViolation(err); ok {
			if field == "" {
				field = "value"
			}
			body.Errors = fmt.Sprintf("%s must be unique", field)
			break
		}
		body.Errors = err.Error()
	}

	if code == http.StatusInternalServerError {
		zap.L().Error("internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(code, body)
}

package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-local/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errTaskNotFound       = errors.New("task not found")
	errMissingImportFile  = errors.New("import file is required")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

// persistWarning turns a persistence failure into a message shown next to
// a successful response. Any other error is returned back.
func persistWarning(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if services.IsPersistError(err) {
		return err.Error(), nil
	}
	return "", err
}

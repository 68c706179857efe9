package api

import (
	"fmt"
	"net/http"

	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/gin-gonic/gin"
)

// APIError is the error body of every failed request. Result carries the
// partial outcome when one exists, such as the created attempt of a request
// whose gateway was unreachable.
type APIError struct {
	Status    int    `json:"-"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Result    any    `json:"result,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// statusOf maps a domain error kind to its HTTP status.
func statusOf(kind sharedDomain.Kind) int {
	switch kind {
	case sharedDomain.KindValidation:
		return http.StatusBadRequest
	case sharedDomain.KindNotFound:
		return http.StatusNotFound
	case sharedDomain.KindPrecondition:
		return http.StatusConflict
	case sharedDomain.KindVerificationFailed, sharedDomain.KindAmountMismatch:
		return http.StatusPaymentRequired
	case sharedDomain.KindGatewayUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorOf(err error) *APIError {
	kind := sharedDomain.KindOf(err)
	code := string(kind)
	if code == "" {
		code = "internal"
	}
	return &APIError{
		Status:    statusOf(kind),
		Code:      code,
		Message:   err.Error(),
		Retryable: sharedDomain.Retryable(err),
	}
}

// writeError aborts the request with the mapped status.
func writeError(c *gin.Context, err error) {
	abortWith(c, errorOf(err), err)
}

// writeErrorWith is writeError with a partial result. Callers pass a non-nil
// result.
func writeErrorWith(c *gin.Context, err error, result any) {
	e := errorOf(err)
	e.Result = result
	abortWith(c, e, err)
}

func abortWith(c *gin.Context, e *APIError, err error) {
	if e.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(e.Status, e)
}

// badRequest reports malformed input that never reached a service.
func badRequest(c *gin.Context, format string, args ...any) {
	c.AbortWithStatusJSON(http.StatusBadRequest, &APIError{
		Status:  http.StatusBadRequest,
		Code:    string(sharedDomain.KindValidation),
		Message: fmt.Sprintf(format, args...),
	})
}

// forbidden refuses an operation the public API does not offer.
func forbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, &APIError{
		Status:  http.StatusForbidden,
		Code:    "forbidden",
		Message: message,
	})
}

package handler

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sdsposter/internal/domain"
	"sdsposter/internal/middleware"
	"sdsposter/internal/parser"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// User-facing messages for the two extraction failure classes.
const (
	MessageCredentialRequired = "APIキーが設定されていません。"
	MessageExtractionFailed   = "解析データの処理に失敗しました。キーが有効か確認してください。"
)

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusBadRequest, "CREDENTIAL_REQUIRED", MessageCredentialRequired
	case errors.Is(err, domain.ErrExtraction):
		if _, limited := parser.AsRateLimit(err); limited {
			return http.StatusTooManyRequests, "RATE_LIMITED", "extraction quota exhausted; try again later"
		}
		return http.StatusBadGateway, "EXTRACTION_FAILED", MessageExtractionFailed
	case errors.Is(err, domain.ErrMissingSession):
		return http.StatusBadRequest, "MISSING_SESSION", "X-Session-ID header is required"
	case errors.Is(err, domain.ErrStaleExtraction):
		return http.StatusConflict, "EXTRACTION_SUPERSEDED", "a newer upload replaced this extraction"
	case errors.Is(err, domain.ErrNoCurrentRecord):
		return http.StatusNotFound, "NO_CURRENT_RECORD", "no hazard record for this session"
	case errors.Is(err, domain.ErrUnknownPictogram):
		return http.StatusBadRequest, "UNKNOWN_PICTOGRAM", "unknown pictogram code; allowed: GHS-01 to GHS-09"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrTooManyPages):
		return http.StatusRequestEntityTooLarge, "TOO_MANY_PAGES", "document exceeds maximum allowed page count"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	requestID, _ := c.Get(middleware.ContextKeyRequestID)
	switch {
	case status >= 500:
		log.Printf("[%s] internal error: %v", requestID, err)
	case status == http.StatusTooManyRequests:
		if rl, ok := parser.AsRateLimit(err); ok && rl.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rl.RetryAfter.Seconds()))))
		}
		log.Printf("[%s] rate limited: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}

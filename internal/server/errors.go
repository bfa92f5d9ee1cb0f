package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/orchardworks/presshouse/internal/audit/domain"
	"github.com/orchardworks/presshouse/internal/authorization"
	inventorydomain "github.com/orchardworks/presshouse/internal/inventory/domain"
	productiondomain "github.com/orchardworks/presshouse/internal/production/domain"
	purchasingdomain "github.com/orchardworks/presshouse/internal/purchasing/domain"
	varietydomain "github.com/orchardworks/presshouse/internal/variety/domain"
	vendordomain "github.com/orchardworks/presshouse/internal/vendors/domain"
	vendorvarietydomain "github.com/orchardworks/presshouse/internal/vendorvariety/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// mapError collapses domain sentinels to HTTP statuses. Anything unmapped is
// reported as a plain 500 so internals never leak to clients.
func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authorization.ErrInvalidActor):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, vendordomain.ErrInvalidName),
		errors.Is(err, vendordomain.ErrInvalidID),
		errors.Is(err, varietydomain.ErrInvalidKind),
		errors.Is(err, varietydomain.ErrInvalidName),
		errors.Is(err, varietydomain.ErrInvalidID),
		errors.Is(err, varietydomain.ErrCategoryNotAllowed),
		errors.Is(err, vendorvarietydomain.ErrInvalidVendorID),
		errors.Is(err, vendorvarietydomain.ErrInvalidVarietyID),
		errors.Is(err, vendorvarietydomain.ErrInvalidName),
		errors.Is(err, vendorvarietydomain.ErrInvalidQuery),
		errors.Is(err, purchasingdomain.ErrInvalidID),
		errors.Is(err, purchasingdomain.ErrInvalidVendorID),
		errors.Is(err, purchasingdomain.ErrInvalidType),
		errors.Is(err, purchasingdomain.ErrInvalidQuantity),
		errors.Is(err, purchasingdomain.ErrInvalidUnitCost),
		errors.Is(err, purchasingdomain.ErrInvalidDate),
		errors.Is(err, purchasingdomain.ErrInvalidPageToken),
		errors.Is(err, inventorydomain.ErrInvalidID),
		errors.Is(err, inventorydomain.ErrInvalidName),
		errors.Is(err, inventorydomain.ErrInvalidQuantity),
		errors.Is(err, inventorydomain.ErrInvalidDelta),
		errors.Is(err, inventorydomain.ErrAllocationRange),
		errors.Is(err, productiondomain.ErrInvalidID),
		errors.Is(err, productiondomain.ErrInvalidBatchCode),
		errors.Is(err, productiondomain.ErrInvalidVolume),
		errors.Is(err, productiondomain.ErrInvalidGravity),
		errors.Is(err, productiondomain.ErrInvalidStatus),
		errors.Is(err, productiondomain.ErrInvalidDate),
		errors.Is(err, productiondomain.ErrInvalidPageToken),
		errors.Is(err, auditdomain.ErrInvalidTableName),
		errors.Is(err, auditdomain.ErrInvalidOperation),
		errors.Is(err, auditdomain.ErrInvalidPageToken),
		errors.Is(err, auditdomain.ErrInvalidTimeRange):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, vendordomain.ErrCodeExists),
		errors.Is(err, varietydomain.ErrNameExists),
		errors.Is(err, productiondomain.ErrBatchCodeExists),
		errors.Is(err, productiondomain.ErrAlreadyComplete):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, vendordomain.ErrNotFound),
		errors.Is(err, varietydomain.ErrNotFound),
		errors.Is(err, vendorvarietydomain.ErrVendorNotFound),
		errors.Is(err, vendorvarietydomain.ErrVarietyNotFound),
		errors.Is(err, vendorvarietydomain.ErrLinkNotFound),
		errors.Is(err, purchasingdomain.ErrVendorNotFound),
		errors.Is(err, purchasingdomain.ErrNotFound),
		errors.Is(err, inventorydomain.ErrNotFound),
		errors.Is(err, productiondomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

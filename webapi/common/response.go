// Package common holds the response envelope, problem-details rendering and
// request binding shared by the HTTP handlers.
package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/bankx/transactions/pkg/domain"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON writes a response following RFC 9457 Problem Details.
func ErrorResponseJSON(c *fiber.Ctx, status int, title string, detail any) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()

	// JSON would otherwise reset the content type to application/json.
	return c.Status(status).JSON(pd, "application/problem+json")
}

// ProblemDetailsJSON maps a service error to its status code and writes the
// problem-details response.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error) error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return ErrorResponseJSON(c, ErrorToStatusCode(err), title, detail)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrRiskRejected):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInsufficientFunds):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConcurrentUpdateConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. Returns a pointer to the populated struct, or
// writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	return &input, nil
}

package middleware

import (
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/interfaces/http/dto"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,19}$`)

// storefrontValidations are the custom binding tags used by request DTOs
var storefrontValidations = map[string]validator.Func{
	"variant_size": func(fl validator.FieldLevel) bool {
		return catalog.Size(fl.Field().String()).IsValid()
	},
	"variant_color": func(fl validator.FieldLevel) bool {
		return catalog.Color(fl.Field().String()).IsValid()
	},
	"order_status": func(fl validator.FieldLevel) bool {
		return order.Status(fl.Field().String()).IsValid()
	},
	"phone": func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	},
}

// SetupValidator reports fields by their json (or form) name and registers
// the storefront tags
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	for tag, fn := range storefrontValidations {
		_ = v.RegisterValidation(tag, fn)
	}
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewErrorResponse(dto.ErrCodeValidation, "Request validation failed").WithRequestID(requestID).WithDetails(details)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	requestID := GetRequestID(c)
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestID))
}

// GetRequestID returns the request id set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDContextKey)
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min", "max", "len":
		return boundMessage(e)
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "url":
		return "Invalid URL format"
	case "variant_size":
		return "Must be one of: " + joinValues(catalog.AllSizes())
	case "variant_color":
		return "Must be one of: " + joinValues(catalog.AllColors())
	case "order_status":
		return "Unknown order status"
	case "phone":
		return "Invalid phone number"
	default:
		return "Invalid value"
	}
}

func boundMessage(e validator.FieldError) string {
	unit := ""
	if e.Type().Kind() == reflect.String {
		unit = " characters"
	}
	switch e.Tag() {
	case "min":
		return "Must be at least " + e.Param() + unit
	case "max":
		return "Must be at most " + e.Param() + unit
	default:
		return "Must be exactly " + e.Param() + unit
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, " ")
}

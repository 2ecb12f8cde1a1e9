package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var layoutNames = strings.NewReplacer("2006", "YYYY", "01", "MM", "02", "DD")

// fieldMessages renders a FieldError by validation tag
var fieldMessages = map[string]func(validator.FieldError) string{
	"required": func(validator.FieldError) string { return "This field is required" },
	"oneof":    func(e validator.FieldError) string { return "Must be one of: " + e.Param() },
	"datefield": func(validator.FieldError) string {
		return "Must be one of: " + strings.Join([]string{
			order.DateFieldDue.String(), order.DateFieldPayment.String(), order.DateFieldPreparation.String(),
		}, " ")
	},
	"datetime": func(e validator.FieldError) string { return "Invalid date, expected " + layoutNames.Replace(e.Param()) },
	"max": func(e validator.FieldError) string {
		if e.Kind() == reflect.Slice {
			return "Must have at most " + e.Param() + " entries"
		}
		return "Must be at most " + e.Param() + " characters"
	},
	"min":  func(e validator.FieldError) string { return "Must be at least " + e.Param() + " characters" },
	"dive": func(validator.FieldError) string { return "Invalid entry" },
}

// SetupValidator makes gin report json or form names in validation errors
// and registers the "datefield" tag.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			switch name {
			case "-":
				return ""
			case "":
				continue
			default:
				return name
			}
		}
		return ""
	})
	return v.RegisterValidation("datefield", func(fl validator.FieldLevel) bool {
		return order.DateField(fl.Field().String()).IsValid()
	})
}

// FormatValidationErrors builds the 400 envelope with one detail per failed field.
// Errors that did not come from the validator yield no details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details = make([]dto.ValidationDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: fieldMessage(fe)})
		}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func fieldMessage(fe validator.FieldError) string {
	if render, ok := fieldMessages[fe.Tag()]; ok {
		return render(fe)
	}
	return "Invalid value"
}

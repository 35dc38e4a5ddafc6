package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/aliciamunhoz/kanban-next/internal/apperr"
	"github.com/aliciamunhoz/kanban-next/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string            `json:"error" example:"Access denied"`
	Fields map[string]string `json:"fields,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator and
// makes field errors report json names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
			return model.Priority(fl.Field().String()).Valid()
		})
		// email_addr accepts surrounding whitespace; handlers normalize after binding.
		_ = v.RegisterValidation("email_addr", func(fl validator.FieldLevel) bool {
			return v.Var(strings.TrimSpace(fl.Field().String()), "email") == nil
		})
	})
}

func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.Internal {
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(appErr.Kind.Status(), ErrorResponse{
		Error:  appErr.Message,
		Fields: appErr.Fields,
	})
}

// bindJSON decodes the body into req, responding with a ValidationFailed
// error when decoding or validation fails.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, validationError(err))
		return false
	}
	return true
}

func validationError(err error) *apperr.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return apperr.Validation("Invalid input", fields)
	}
	return apperr.Wrap(apperr.ValidationFailed, "Invalid input", err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email", "email_addr":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "uuid":
		return "must be a valid id"
	case "priority":
		return "must be one of low, medium, high"
	}
	return "is invalid"
}

// requireText trims value and fails validation when nothing is left.
func requireText(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperr.Validation("Invalid input", map[string]string{field: "is required"})
	}
	return trimmed, nil
}

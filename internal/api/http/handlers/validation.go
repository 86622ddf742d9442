package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docquery-auth/internal/service"
	apperrors "github.com/spec-kit/docquery-auth/pkg/util"
)

var errInvalidBody = apperrors.NewValidationError("Invalid request body")

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// bindAndValidate parses a JSON or form body into req and runs its validate tags.
// An empty body is treated as an empty payload so missing fields report as such.
func bindAndValidate(c *fiber.Ctx, v *validator.Validate, req any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return errInvalidBody
		}
	}
	if err := v.Struct(req); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errInvalidBody
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return service.ErrMissingFields
		}
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	if fe.Tag() == "max" {
		return apperrors.NewValidationError(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
	}
	return apperrors.NewValidationError(fmt.Sprintf("%s is invalid", field))
}

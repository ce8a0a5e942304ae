package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/skilltrack/certification-service/internal/errors"
)

// Validator wraps go-playground struct validation with the service's custom
// rules and JSON-tag field names.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	registerCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate validates struct tags and converts failures to ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("export_format", validateExportFormat)
	validate.RegisterValidation("grade_weight", validateGradeWeight)

	// Report field names from json tags for readable error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateExportFormat(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "xlsx", "csv":
		return true
	}
	return false
}

// validateGradeWeight accepts any non-negative fraction. Weights are not
// required to sum to 1; the aggregator passes them through as supplied.
func validateGradeWeight(fl validator.FieldLevel) bool {
	return fl.Field().Float() >= 0
}

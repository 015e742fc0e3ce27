package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/randy-rebucas/localpro-backend/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so messages match what the caller sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("jobstatus", func(fl validator.FieldLevel) bool {
		return models.JobStatus(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// requireID fails when value is empty or whitespace.
func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "%s is required", field)
	}
	return nil
}

// requireIDs checks field/value pairs in order and returns the first failure.
func requireIDs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := requireID(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func validateStatus(status models.JobStatus) error {
	if status == "" {
		return invalid("status", "status is required")
	}
	if !status.Valid() {
		return invalid("status", "status must be one of: %s", joinStatuses())
	}
	return nil
}

// validateStruct runs the struct's validate tags and converts the first failure into a ValidationError.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fieldPath(fe.Namespace())
		return &ValidationError{Field: field, Message: fieldMessage(field, fe)}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// fieldPath drops the struct name from a namespace such as "CreateJobRequest.budget.amount".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return field + " must be a valid email address"
	case "jobstatus":
		return fmt.Sprintf("%s must be one of: %s", field, joinStatuses())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func joinStatuses() string {
	names := make([]string, len(models.JobStatuses))
	for i, s := range models.JobStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

// Validator validates configuration values using go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validation functions
	v.RegisterValidation("provider", validateProvider)
	v.RegisterValidation("log_level", validateLogLevel)
	v.RegisterValidation("log_format", validateLogFormat)

	return &Validator{
		validate: v,
	}
}

// ValidationError describes one invalid setting
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate validates a complete configuration and reports every problem.
func (v *Validator) Validate(config *Config) error {
	err := v.validate.Struct(config)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var result *multierror.Error
	for _, e := range verrs {
		result = multierror.Append(result, ValidationError{
			Field:   strings.TrimPrefix(e.Namespace(), "Config."),
			Message: describe(e),
			Value:   e.Value(),
		})
	}
	return result.ErrorOrNil()
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "provider":
		return fmt.Sprintf("unknown provider %q (want openrouter or openai)", e.Value())
	case "log_level":
		return fmt.Sprintf("unknown log level %q", e.Value())
	case "log_format":
		return fmt.Sprintf("unknown log format %q", e.Value())
	case "url":
		return "must be a URL"
	default:
		return fmt.Sprintf("failed %s=%s with value '%v'", e.Tag(), e.Param(), e.Value())
	}
}

// validateProvider validates API provider values
func validateProvider(fl validator.FieldLevel) bool {
	return slices.Contains([]string{ProviderOpenRouter, ProviderOpenAI}, fl.Field().String())
}

// validateLogLevel validates log level values
func validateLogLevel(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	if value == "" {
		return true
	}
	return slices.Contains([]string{"debug", "info", "warn", "warning", "error"}, value)
}

// validateLogFormat validates log format values
func validateLogFormat(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return slices.Contains([]string{"json", "text"}, value)
}

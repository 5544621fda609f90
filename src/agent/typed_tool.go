package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/swaggest/jsonschema-go"

	"github.com/elee1766/taskchat/src/aisdk"
	"github.com/elee1766/taskchat/src/apperr"
)

// TypedToolHandler is a type-safe handler function. userID is injected by the
// toolbox caller.
type TypedToolHandler[TInput any, TOutput any] func(ctx context.Context, userID string, input TInput) (TOutput, error)

// TypedTool is a tool whose parameter schema is reflected from TInput and
// whose arguments are decoded into TInput and validated before the handler
// runs.
type TypedTool[TInput any, TOutput any] struct {
	Type        string
	Name        string
	Description string
	Schema      *jsonschema.Schema
	Handler     TypedToolHandler[TInput, TOutput]
}

func (gt *TypedTool[TInput, TOutput]) GetType() string {
	return gt.Type
}

func (gt *TypedTool[TInput, TOutput]) GetName() string {
	return gt.Name
}

func (gt *TypedTool[TInput, TOutput]) GetDescription() string {
	return gt.Description
}

func (gt *TypedTool[TInput, TOutput]) GetParameters() *jsonschema.Schema {
	return gt.Schema
}

// Execute decodes and validates the call arguments and runs the handler.
// Every failure is reported to the model as an error response; the returned
// Go error is always nil.
func (gt *TypedTool[TInput, TOutput]) Execute(ctx context.Context, userID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
	input, err := gt.decode(call.Function)
	if err != nil {
		return errorResponse(err), nil
	}

	output, err := gt.Handler(ctx, userID, input)
	if err != nil {
		return errorResponse(err), nil
	}

	resp, err := aisdk.NewJSONToolResponse(output)
	if err != nil {
		return errorResponse(apperr.ToolExecution("agent."+gt.Name, err)), nil
	}
	return resp, nil
}

func (gt *TypedTool[TInput, TOutput]) decode(fn aisdk.FunctionCall) (TInput, error) {
	op := "agent." + gt.Name
	var input TInput

	// the generic parse catches malformed and non-object documents before
	// they reach the typed decoder
	doc, err := fn.ParseArguments()
	if err != nil {
		return input, apperr.Validationf(op, "invalid arguments: %v", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return input, apperr.Validationf(op, "invalid arguments: %v", err)
	}
	if err := json.Unmarshal(raw, &input); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return input, apperr.Validationf(op, "argument %q must be of type %s", typeErr.Field, typeErr.Type)
		}
		return input, apperr.Validationf(op, "invalid arguments: %v", err)
	}
	if err := validate.Struct(input); err != nil {
		return input, apperr.Validation(op, formatValidationError(err))
	}
	return input, nil
}

func errorResponse(err error) *aisdk.ToolResponse {
	pub := apperr.Public(err)
	return aisdk.NewErrorToolResponse(pub.Code, pub.Message)
}

// NewTypedTool creates a new typed tool with automatic schema generation.
func NewTypedTool[TInput any, TOutput any](name, description string, handler TypedToolHandler[TInput, TOutput]) (*TypedTool[TInput, TOutput], error) {
	if name == "" {
		return nil, fmt.Errorf("tool name cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("tool %s has no handler", name)
	}

	var input TInput
	inputType := reflect.TypeOf(input)
	if inputType == nil || inputType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tool input type must be a struct, got %v", inputType)
	}

	// Generate JSON Schema from the input type
	reflector := jsonschema.Reflector{}
	schema, err := reflector.Reflect(input)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	return &TypedTool[TInput, TOutput]{
		Type:        "function",
		Name:        name,
		Description: description,
		Schema:      &schema,
		Handler:     handler,
	}, nil
}

// MustNewTypedTool creates a new typed tool and panics on error
func MustNewTypedTool[TInput any, TOutput any](name, description string, handler TypedToolHandler[TInput, TOutput]) Tool {
	tool, err := NewTypedTool(name, description, handler)
	if err != nil {
		panic(fmt.Sprintf("failed to create typed tool: %v", err))
	}
	return tool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "datetime":
		if fe.Param() == "2006-01-02" {
			return fmt.Sprintf("%s must be a date formatted as YYYY-MM-DD", field)
		}
		return fmt.Sprintf("%s must match the layout %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s check", field, fe.Tag())
	}
}

var _ Tool = (*TypedTool[struct{}, struct{}])(nil)

// Package pipe validates a component.Descriptor decoded from a JSON
// document before it is handed to graph.Factory.Create. Pipes are
// composable Transform steps; ValidationPipe is the go-playground/
// validator-backed step that checks a whole Descriptor document
// against its struct tags.
package pipe

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"bindgraph/component"
)

// ValidationError is one struct-tag validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationErrors is every failure found validating one Descriptor.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed with %d errors", len(ve))
}

// Transform is the core pipe contract: take a value, return either the
// same value (possibly normalized) or an error.
type Transform interface {
	Transform(value interface{}) (interface{}, error)
}

// BasePipe is a no-op Transform, useful to embed.
type BasePipe struct{}

func (BasePipe) Transform(value interface{}) (interface{}, error) {
	return value, nil
}

// CompositePipe runs pipes in order, short-circuiting on the first error.
type CompositePipe struct {
	pipes []Transform
}

// NewCompositePipe builds a CompositePipe running pipes in order.
func NewCompositePipe(pipes ...Transform) *CompositePipe {
	return &CompositePipe{pipes: pipes}
}

func (p *CompositePipe) Transform(value interface{}) (interface{}, error) {
	for _, pipe := range p.pipes {
		var err error
		value, err = pipe.Transform(value)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

// ValidationPipe validates a *component.Descriptor against its
// `validate` struct tags.
type ValidationPipe struct {
	BasePipe
	validator *validator.Validate
}

// NewValidationPipe builds a ValidationPipe.
func NewValidationPipe() *ValidationPipe {
	return &ValidationPipe{validator: validator.New()}
}

// Transform implements Transform, requiring value to be a
// *component.Descriptor.
func (p *ValidationPipe) Transform(value interface{}) (interface{}, error) {
	desc, ok := value.(*component.Descriptor)
	if !ok {
		return nil, fmt.Errorf("pipe: ValidationPipe expects *component.Descriptor, got %T", value)
	}
	if err := p.validateDescriptor(desc); err != nil {
		return nil, err
	}
	return desc, nil
}

func (p *ValidationPipe) validateDescriptor(desc *component.Descriptor) error {
	err := p.validator.Struct(desc)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var errs ValidationErrors
	for _, fe := range validationErrors {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: describeTag(fe),
		})
	}
	return errs
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}

// ValidateDescriptor validates desc and any of its declared entry
// points, returning a ValidationErrors on failure. This is the
// function cmd/bindgraph calls before constructing a graph.Factory
// from a decoded JSON document; the resolver core
// itself never validates a Descriptor, it trusts whatever frontend
// built one, but the bundled demo CLI has no such frontend and must
// guard against malformed JSON input.
func ValidateDescriptor(desc *component.Descriptor) error {
	pipe := NewValidationPipe()
	_, err := pipe.Transform(desc)
	return err
}

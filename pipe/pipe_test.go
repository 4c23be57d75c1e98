package pipe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bindgraph/component"
)

func TestValidateDescriptorRequiresComponentType(t *testing.T) {
	desc := &component.Descriptor{}
	err := ValidateDescriptor(desc)
	assert.Error(t, err)
	verrs, ok := err.(ValidationErrors)
	assert.True(t, ok)
	assert.Equal(t, "ComponentType", verrs[0].Field)
}

func TestValidateDescriptorAcceptsWellFormedDocument(t *testing.T) {
	desc := &component.Descriptor{
		ComponentType: "AppComponent",
		Kind:          component.KindComponent,
	}
	assert.NoError(t, ValidateDescriptor(desc))
}

func TestValidateDescriptorRejectsOutOfRangeKind(t *testing.T) {
	desc := &component.Descriptor{
		ComponentType: "AppComponent",
		Kind:          component.Kind(99),
	}
	err := ValidateDescriptor(desc)
	assert.Error(t, err)
}

func TestCompositePipeReturnsFailingStepError(t *testing.T) {
	failing := &failingPipe{}
	composite := NewCompositePipe(NewValidationPipe(), failing)

	desc := &component.Descriptor{ComponentType: "AppComponent"}
	_, err := composite.Transform(desc)
	assert.Error(t, err)
}

type failingPipe struct{ BasePipe }

func (failingPipe) Transform(value interface{}) (interface{}, error) {
	return nil, assertErr("always fails")
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyStringIsCanonical(t *testing.T) {
	a := New(Plain("Foo")).WithQualifier("Named(\"a\")")
	b := New(Plain("Foo")).WithQualifier("Named(\"a\")")
	c := New(Plain("Foo")).WithQualifier("Named(\"b\")")

	assert.Equal(t, a.String(), b.String())
	assert.True(t, a.Equal(b))
	assert.NotEqual(t, a.String(), c.String())
	assert.False(t, a.Equal(c))
}

func TestKeyContributionIDClearedForAggregate(t *testing.T) {
	contribution := New(Wrap(WrapperSet, Plain("Foo"))).WithContributionID("mod#1")
	aggregate := contribution.AsAggregate()

	assert.NotEqual(t, contribution.String(), aggregate.String())
	assert.Equal(t, "", aggregate.MultibindingContributionID)
}

func TestUnwrapOptional(t *testing.T) {
	f := NewFactory()

	wrapped := New(Wrap(WrapperOptional, Plain("Foo"))).WithQualifier("Q")
	unwrapped, ok := f.UnwrapOptional(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "Foo", unwrapped.Type.Name)
	assert.Equal(t, "Q", unwrapped.Qualifier)

	_, ok = f.UnwrapOptional(New(Plain("Foo")))
	assert.False(t, ok)
}

func TestUnwrapSetKey(t *testing.T) {
	f := NewFactory()

	k := New(Wrap(WrapperSet, Wrap(WrapperProduced, Plain("Foo"))))
	unwrapped, ok := f.UnwrapSetKey(k, WrapperProduced)
	assert.True(t, ok)
	assert.Equal(t, "Set<Foo>", unwrapped.Type.String())

	_, ok = f.UnwrapSetKey(New(Wrap(WrapperSet, Plain("Foo"))), WrapperProduced)
	assert.False(t, ok)
}

func TestRewrapMapKeyIsInvolutionForSwaps(t *testing.T) {
	f := NewFactory()

	k := New(WrapMap(Plain("K"), Wrap(WrapperProducer, Plain("V"))))
	swapped, ok := f.RewrapMapKey(k, WrapperProducer, WrapperProvider)
	assert.True(t, ok)
	assert.Equal(t, "Map<K,Provider<V>>", swapped.Type.String())

	back, ok := f.RewrapMapKey(swapped, WrapperProvider, WrapperProducer)
	assert.True(t, ok)
	assert.True(t, back.Equal(k))
}

func TestImplicitFrameworkMapKeys(t *testing.T) {
	f := NewFactory()

	plain := New(WrapMap(Plain("K"), Plain("V")))
	implicit := f.ImplicitFrameworkMapKeys(plain)
	assert.Len(t, implicit, 2)
	assert.Equal(t, "Map<K,Provider<V>>", implicit[0].Type.String())
	assert.Equal(t, "Map<K,Producer<V>>", implicit[1].Type.String())

	// Already-wrapped map values have no further implicit variants.
	wrapped := New(WrapMap(Plain("K"), Wrap(WrapperProvider, Plain("V"))))
	assert.Nil(t, f.ImplicitFrameworkMapKeys(wrapped))
}

func TestUnwrapMapValueType(t *testing.T) {
	f := NewFactory()

	k := New(WrapMap(Plain("K"), Wrap(WrapperProvider, Plain("V"))))
	v, ok := f.UnwrapMapValueType(k)
	assert.True(t, ok)
	assert.Equal(t, "V", v.Type.Name)

	plainValue := New(WrapMap(Plain("K"), Plain("V")))
	v, ok = f.UnwrapMapValueType(plainValue)
	assert.True(t, ok)
	assert.Equal(t, "V", v.Type.Name)
}

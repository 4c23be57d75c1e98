package eventbus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishDispatchesInSubscriptionOrder(t *testing.T) {
	bus := NewBus(nil)
	var order []string
	bus.Subscribe(ComponentResolved, func(e Event) error {
		order = append(order, "first")
		return nil
	})
	bus.Subscribe(ComponentResolved, func(e Event) error {
		order = append(order, "second")
		return nil
	})

	bus.Publish(New(ComponentResolved, "Root"))

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPublishCollectsErrorsWithoutStopping(t *testing.T) {
	bus := NewBus(nil)
	var ran bool
	bus.Subscribe(KeyResolved, func(e Event) error { return errors.New("boom") })
	bus.Subscribe(KeyResolved, func(e Event) error { ran = true; return nil })

	errs := bus.Publish(New(KeyResolved, nil))

	assert.Len(t, errs, 1)
	assert.True(t, ran)
}

func TestUnsubscribeRemovesHandler(t *testing.T) {
	bus := NewBus(nil)
	var calls int
	unsubscribe := bus.Subscribe(SubcomponentDiscovered, func(e Event) error {
		calls++
		return nil
	})

	bus.Publish(New(SubcomponentDiscovered, nil))
	unsubscribe()
	bus.Publish(New(SubcomponentDiscovered, nil))

	assert.Equal(t, 1, calls)
}

func TestPublishToUnknownEventNameIsNoop(t *testing.T) {
	bus := NewBus(nil)
	errs := bus.Publish(New("nothing.subscribed", nil))
	assert.Nil(t, errs)
}

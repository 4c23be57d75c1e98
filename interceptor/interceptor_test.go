package interceptor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingInterceptor struct {
	name  string
	order *[]string
}

func (r recordingInterceptor) Before(ctx *ResolveContext) error {
	*r.order = append(*r.order, r.name+":before")
	return nil
}

func (r recordingInterceptor) After(ctx *ResolveContext) error {
	*r.order = append(*r.order, r.name+":after")
	return nil
}

func TestRunOrdersBeforeByPriorityAndAfterInReverse(t *testing.T) {
	var order []string
	chain := NewChain()
	assert.NoError(t, chain.Register(Config{Name: "low", Priority: 10, Interceptor: recordingInterceptor{"low", &order}}))
	assert.NoError(t, chain.Register(Config{Name: "high", Priority: 1, Interceptor: recordingInterceptor{"high", &order}}))

	err := chain.Run(&ResolveContext{Component: "Root", RequestKey: "Foo"}, func() error {
		order = append(order, "fn")
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"high:before", "low:before", "fn", "low:after", "high:after"}, order)
}

type rejectingInterceptor struct{}

func (rejectingInterceptor) Before(ctx *ResolveContext) error { return errors.New("denied") }
func (rejectingInterceptor) After(ctx *ResolveContext) error { return nil }

func TestRunSkipsFnWhenBeforeFails(t *testing.T) {
	var ran bool
	chain := NewChain()
	assert.NoError(t, chain.Register(Config{Name: "reject", Interceptor: rejectingInterceptor{}}))

	err := chain.Run(&ResolveContext{}, func() error { ran = true; return nil })

	assert.Error(t, err)
	assert.False(t, ran)
}

func TestRegisterRequiresNameAndInterceptor(t *testing.T) {
	chain := NewChain()
	assert.Error(t, chain.Register(Config{Interceptor: rejectingInterceptor{}}))
	assert.Error(t, chain.Register(Config{Name: "x"}))
}

func TestTimingInterceptorRecordsObservedOrder(t *testing.T) {
	timing := NewTimingInterceptor()
	chain := NewChain()
	assert.NoError(t, chain.Register(Config{Name: "timing", Interceptor: timing}))

	chain.Run(&ResolveContext{Component: "Root", RequestKey: "Foo"}, func() error { return nil })
	chain.Run(&ResolveContext{Component: "Root", RequestKey: "Bar"}, func() error { return nil })

	assert.Equal(t, []string{"Root/Foo", "Root/Bar"}, timing.Observed())
}

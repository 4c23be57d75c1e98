// Package interceptor wraps a before/after chain around one resolver
// operation, used by the CLI to time and log each top-level
// entry-point resolution, and by tests to assert resolution order.
// Interceptors register with a priority and run in priority order
// around the wrapped call.
package interceptor

import (
	"fmt"
	"sort"
	"sync"
)

// ResolveContext carries the identity of the resolve call being
// intercepted, plus a free-form Data map interceptors can use to pass
// information between Before and After.
type ResolveContext struct {
	Component  string
	RequestKey string
	Data       map[string]interface{}
}

// Interceptor observes one resolve call.
type Interceptor interface {
	Before(ctx *ResolveContext) error
	After(ctx *ResolveContext) error
}

// Config pairs an Interceptor with its registration metadata.
type Config struct {
	Name        string
	Priority    int
	Interceptor Interceptor
}

// Chain runs registered interceptors, in priority order, around a
// resolve call.
type Chain struct {
	mu           sync.RWMutex
	interceptors []Config
}

// NewChain creates an empty Chain.
func NewChain() *Chain {
	return &Chain{}
}

// Register adds an interceptor to the chain.
func (c *Chain) Register(cfg Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("interceptor name is required")
	}
	if cfg.Interceptor == nil {
		return fmt.Errorf("interceptor implementation is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.interceptors = append(c.interceptors, cfg)
	return nil
}

// Run executes fn wrapped by every registered interceptor's Before (in
// priority order) and After (in reverse priority order). If a Before
// hook returns an error, fn does not run and Run returns that error
// immediately without calling any After hooks.
func (c *Chain) Run(ctx *ResolveContext, fn func() error) error {
	c.mu.RLock()
	sorted := append([]Config(nil), c.interceptors...)
	c.mu.RUnlock()
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	if ctx.Data == nil {
		ctx.Data = make(map[string]interface{})
	}

	for _, cfg := range sorted {
		if err := cfg.Interceptor.Before(ctx); err != nil {
			return err
		}
	}

	runErr := fn()

	for i := len(sorted) - 1; i >= 0; i-- {
		if err := sorted[i].Interceptor.After(ctx); err != nil {
			fmt.Printf("interceptor: after hook %s failed: %v\n", sorted[i].Name, err)
		}
	}

	return runErr
}

// TimingInterceptor records the component/key of every resolve call it
// observes, in the order Before fires; useful for asserting
// resolution order in tests without wiring a real clock.
type TimingInterceptor struct {
	mu   sync.Mutex
	seen []string
}

func NewTimingInterceptor() *TimingInterceptor { return &TimingInterceptor{} }

func (t *TimingInterceptor) Before(ctx *ResolveContext) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen = append(t.seen, ctx.Component+"/"+ctx.RequestKey)
	return nil
}

func (t *TimingInterceptor) After(ctx *ResolveContext) error { return nil }

// Observed returns every "component/key" pair recorded by Before, in
// call order.
func (t *TimingInterceptor) Observed() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.seen))
	copy(out, t.seen)
	return out
}

package interceptor

import (
	"fmt"
	"time"
)

// LoggingInterceptor prints a line before and after each resolve call,
// used by the CLI's --verbose flag.
type LoggingInterceptor struct{}

// NewLoggingInterceptor creates a new logging interceptor.
func NewLoggingInterceptor() *LoggingInterceptor {
	return &LoggingInterceptor{}
}

// Before implements Interceptor.
func (i *LoggingInterceptor) Before(ctx *ResolveContext) error {
	ctx.Data["startTime"] = time.Now()

	fmt.Printf("[%s] -> resolving %s in %s\n",
		time.Now().Format(time.RFC3339),
		ctx.RequestKey,
		ctx.Component,
	)

	return nil
}

// After implements Interceptor.
func (i *LoggingInterceptor) After(ctx *ResolveContext) error {
	startTime, ok := ctx.Data["startTime"].(time.Time)
	if !ok {
		startTime = time.Now()
	}

	duration := time.Since(startTime)

	fmt.Printf("[%s] <- resolved %s in %s (took %v)\n",
		time.Now().Format(time.RFC3339),
		ctx.RequestKey,
		ctx.Component,
		duration,
	)

	return nil
}

package discogen

import (
	"context"
)

// Invoker sends a call. It is passed to [Interceptor] functions to invoke
// the next interceptor or the request itself.
type Invoker func(ctx context.Context, call *Call) error

// Interceptor is a hook that wraps every call a Client makes:
//
//	func timing(ctx context.Context, call *discogen.Call, next discogen.Invoker) error {
//	    start := time.Now()
//	    err := next(ctx, call)
//	    log.Printf("%s took %v", call.MethodID, time.Since(start))
//	    return err
//	}
//
// Interceptors can inspect or modify the call before calling next, inspect
// call.Response after it, short-circuit by returning an error without
// calling next, and add values to the context.
type Interceptor func(ctx context.Context, call *Call, next Invoker) error

// chainInterceptors combines multiple interceptors into a single one.
// The first interceptor in the slice is the outer-most one (runs first).
func chainInterceptors(interceptors []Interceptor) Interceptor {
	if len(interceptors) == 0 {
		return nil
	}
	if len(interceptors) == 1 {
		return interceptors[0]
	}
	return func(ctx context.Context, call *Call, invoke Invoker) error {
		chain := invoke
		for i := len(interceptors) - 1; i >= 0; i-- {
			current := interceptors[i]
			next := chain
			chain = func(ctx context.Context, call *Call) error {
				return current(ctx, call, next)
			}
		}
		return chain(ctx, call)
	}
}

package oda

import (
	"context"
	"fmt"
)

// Result carries the single outcome of an asynchronous call.
type Result[T any] struct {
	Value T
	Err   error
}

// Async runs fn on its own goroutine and delivers its outcome exactly once on
// the returned channel, which is closed afterwards. A panic inside fn is
// delivered as a NetworkError.
func Async[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		out <- run(ctx, fn)
	}()
	return out
}

func run[T any](ctx context.Context, fn func(context.Context) (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[T]{Err: &NetworkError{Message: "request panicked", Cause: fmt.Errorf("%v", r)}}
		}
	}()
	v, err := fn(ctx)
	if err != nil {
		return Result[T]{Err: Wrap(err)}
	}
	return Result[T]{Value: v}
}

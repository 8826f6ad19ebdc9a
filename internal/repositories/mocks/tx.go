package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Transactor runs fn directly. Err, when set, is returned without calling fn.
type Transactor struct {
	Err   error
	Calls int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	if t.Err != nil {
		return t.Err
	}
	return fn(ctx)
}

func ptrOrNil[T any](args mock.Arguments, i int) *T {
	if v := args.Get(i); v != nil {
		return v.(*T)
	}
	return nil
}

func sliceOrNil[T any](args mock.Arguments, i int) []T {
	if v := args.Get(i); v != nil {
		return v.([]T)
	}
	return nil
}

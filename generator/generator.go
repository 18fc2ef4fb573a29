// Copyright 2025 The LUCI Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package generator contains composable producers of random values.
//
// Every producer implements Generator. Producers draw randomness only from the
// rng.Source they are given; the context carries ambient values (see package
// scope) and the logger.
package generator

import (
	"context"

	"github.com/randsynth/randsynth/rng"
)

// Generator produces values of type T.
//
// Generate must succeed for any valid random stream; errors indicate
// programming or configuration mistakes and are propagated unchanged by all
// combinators in this package.
type Generator[T any] interface {
	Generate(ctx context.Context, r rng.Source) (T, error)
}

// Func adapts a function into a Generator.
type Func[T any] func(ctx context.Context, r rng.Source) (T, error)

// Generate implements Generator.
func (f Func[T]) Generate(ctx context.Context, r rng.Source) (T, error) {
	return f(ctx, r)
}

// Simple adapts an infallible function into a Generator.
func Simple[T any](f func(r rng.Source) T) Generator[T] {
	return Func[T](func(_ context.Context, r rng.Source) (T, error) {
		return f(r), nil
	})
}

// Value returns a Generator which always produces v.
func Value[T any](v T) Generator[T] {
	return Func[T](func(context.Context, rng.Source) (T, error) {
		return v, nil
	})
}

// Map returns a Generator producing f(v) for each v produced by g.
func Map[T, R any](g Generator[T], f func(T) R) Generator[R] {
	return Func[R](func(ctx context.Context, r rng.Source) (R, error) {
		v, err := g.Generate(ctx, r)
		if err != nil {
			var zero R
			return zero, err
		}
		return f(v), nil
	})
}

// FlatMap returns a Generator which produces a value with g, turns it into
// a new Generator with f and produces the final value with it.
//
// Both stages draw from the same random stream, in that order.
func FlatMap[T, R any](g Generator[T], f func(T) Generator[R]) Generator[R] {
	return Func[R](func(ctx context.Context, r rng.Source) (R, error) {
		v, err := g.Generate(ctx, r)
		if err != nil {
			var zero R
			return zero, err
		}
		return f(v).Generate(ctx, r)
	})
}

// Boxed erases the type of the produced values.
//
// It is used to put producers of different types into the same pool.
func Boxed[T any](g Generator[T]) Generator[any] {
	return Func[any](func(ctx context.Context, r rng.Source) (any, error) {
		v, err := g.Generate(ctx, r)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
}

// Optional is a value which may be absent.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a present Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Present is true if the value is present.
func (o Optional[T]) Present() bool {
	return o.ok
}

// OrElse returns the value if present and def otherwise.
func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

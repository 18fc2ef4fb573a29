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

// Package scope implements ambient values scoped to a single call.
//
// A Scope is embedded into pools and pool items. A caller pushes a value onto
// a particular Scope with WithContext; the value is then visible, through the
// context passed to the body, to every producer invoked transitively by that
// body:
//
//	err := pool.WithContext(ctx, luck, func(ctx context.Context) error {
//	  v, err = pool.Generate(ctx, r)
//	  return err
//	})
//
// The value is keyed by the identity of the Scope, so scopes of different
// objects never interfere. Two concurrent WithContext calls on the same Scope
// block each other.
package scope

import (
	"context"
	"sync"
	"sync/atomic"
)

// Scope holds the per-instance state needed to push ambient values.
//
// The zero value is ready to use. A Scope must not be copied after first use.
type Scope struct {
	mu sync.Mutex
}

type valueKey struct{ s *Scope }
type heldKey struct{ s *Scope }
type ambientKey struct{}

// frame is a single pushed value. It stops being visible once the
// WithContext call that created it returns, even if the derived context
// outlives it.
type frame struct {
	value  any
	live   atomic.Bool
	parent *frame
}

func (f *frame) lookup() (any, bool) {
	for ; f != nil; f = f.parent {
		if f.live.Load() {
			return f.value, true
		}
	}
	return nil, false
}

func push(ctx context.Context, key any, value any) (context.Context, *frame) {
	parent, _ := ctx.Value(key).(*frame)
	f := &frame{value: value, parent: parent}
	f.live.Store(true)
	return context.WithValue(ctx, key, f), f
}

// WithContext makes value the ambient context of s for the duration of body.
//
// body receives a derived context through which the value can be read with
// Context or Ambient. The value is removed when body returns, whether it
// returns normally, with an error, or by panicking.
//
// Calls on the same Scope from different call chains are serialized. A nested
// call on the same Scope made from within body (i.e. with the context body
// received) does not block; it shadows the outer value until it returns.
func (s *Scope) WithContext(ctx context.Context, value any, body func(ctx context.Context) error) error {
	if held, _ := ctx.Value(heldKey{s}).(*atomic.Bool); held == nil || !held.Load() {
		s.mu.Lock()
		defer s.mu.Unlock()
		held = &atomic.Bool{}
		held.Store(true)
		defer held.Store(false)
		ctx = context.WithValue(ctx, heldKey{s}, held)
	}

	ctx, own := push(ctx, valueKey{s}, value)
	defer own.live.Store(false)
	ctx, amb := push(ctx, ambientKey{}, value)
	defer amb.live.Store(false)

	return body(ctx)
}

// Context returns the value pushed onto s by the innermost active WithContext
// call visible through ctx.
func (s *Scope) Context(ctx context.Context) (any, bool) {
	f, _ := ctx.Value(valueKey{s}).(*frame)
	return f.lookup()
}

// Ambient returns the innermost active value pushed onto any Scope.
//
// It is meant for nested producers which don't know which object carries the
// value they are interested in.
func Ambient(ctx context.Context) (any, bool) {
	f, _ := ctx.Value(ambientKey{}).(*frame)
	return f.lookup()
}

// As is a typed version of s.Context.
//
// It returns false if there is no value or it is not a T.
func As[T any](ctx context.Context, s *Scope) (T, bool) {
	v, ok := s.Context(ctx)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// AmbientAs is a typed version of Ambient.
func AmbientAs[T any](ctx context.Context) (T, bool) {
	v, ok := Ambient(ctx)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

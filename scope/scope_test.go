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

package scope

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/testing/ftt"
	"go.chromium.org/luci/common/testing/truth/assert"
	"go.chromium.org/luci/common/testing/truth/should"
)

func TestScope(t *testing.T) {
	t.Parallel()

	ftt.Run("Scope", t, func(t *ftt.Test) {
		ctx := context.Background()
		var a, b Scope

		t.Run("Absent outside of WithContext", func(t *ftt.Test) {
			_, ok := a.Context(ctx)
			assert.Loosely(t, ok, should.BeFalse)
			_, ok = Ambient(ctx)
			assert.Loosely(t, ok, should.BeFalse)
		})

		t.Run("Visible inside the body only", func(t *ftt.Test) {
			var inner context.Context
			err := a.WithContext(ctx, 1.5, func(ctx context.Context) error {
				inner = ctx
				v, ok := a.Context(ctx)
				assert.Loosely(t, ok, should.BeTrue)
				assert.Loosely(t, v, should.Equal(1.5))

				luck, ok := As[float64](ctx, &a)
				assert.Loosely(t, ok, should.BeTrue)
				assert.Loosely(t, luck, should.Equal(1.5))

				_, ok = As[string](ctx, &a)
				assert.Loosely(t, ok, should.BeFalse)

				_, ok = b.Context(ctx)
				assert.Loosely(t, ok, should.BeFalse)
				return nil
			})
			assert.Loosely(t, err, should.BeNil)

			_, ok := a.Context(inner)
			assert.Loosely(t, ok, should.BeFalse)
			_, ok = Ambient(inner)
			assert.Loosely(t, ok, should.BeFalse)
		})

		t.Run("Cleared on error and panic", func(t *ftt.Test) {
			var inner context.Context
			boom := errors.New("boom")
			err := a.WithContext(ctx, "x", func(ctx context.Context) error {
				inner = ctx
				return boom
			})
			assert.Loosely(t, err, should.Equal(boom))
			_, ok := a.Context(inner)
			assert.Loosely(t, ok, should.BeFalse)

			func() {
				defer func() { recover() }()
				a.WithContext(ctx, "y", func(ctx context.Context) error {
					inner = ctx
					panic("oops")
				})
			}()
			_, ok = a.Context(inner)
			assert.Loosely(t, ok, should.BeFalse)

			// The mutex was released.
			err = a.WithContext(ctx, "z", func(context.Context) error { return nil })
			assert.Loosely(t, err, should.BeNil)
		})

		t.Run("Nesting", func(t *ftt.Test) {
			err := a.WithContext(ctx, "outer", func(ctx context.Context) error {
				err := b.WithContext(ctx, "other", func(ctx context.Context) error {
					v, _ := a.Context(ctx)
					assert.Loosely(t, v, should.Equal("outer"))
					v, _ = b.Context(ctx)
					assert.Loosely(t, v, should.Equal("other"))
					v, _ = Ambient(ctx)
					assert.Loosely(t, v, should.Equal("other"))
					return nil
				})
				assert.Loosely(t, err, should.BeNil)

				// Re-entrant call on the same scope shadows without deadlocking.
				err = a.WithContext(ctx, "inner", func(ctx context.Context) error {
					v, _ := a.Context(ctx)
					assert.Loosely(t, v, should.Equal("inner"))
					return nil
				})
				assert.Loosely(t, err, should.BeNil)

				v, _ := a.Context(ctx)
				assert.Loosely(t, v, should.Equal("outer"))
				v, _ = Ambient(ctx)
				assert.Loosely(t, v, should.Equal("outer"))
				return nil
			})
			assert.Loosely(t, err, should.BeNil)
		})

		t.Run("Same identity is serialized", func(t *ftt.Test) {
			entered := make(chan struct{})
			release := make(chan struct{})
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				a.WithContext(ctx, 1, func(context.Context) error {
					close(entered)
					<-release
					return nil
				})
			}()
			<-entered

			second := make(chan any, 1)
			go func() {
				a.WithContext(ctx, 2, func(ctx context.Context) error {
					v, _ := a.Context(ctx)
					second <- v
					return nil
				})
			}()

			// A different identity is not blocked.
			err := b.WithContext(ctx, 3, func(context.Context) error { return nil })
			assert.Loosely(t, err, should.BeNil)

			ranEarly := false
			select {
			case <-second:
				ranEarly = true
			case <-time.After(50 * time.Millisecond):
			}
			assert.Loosely(t, ranEarly, should.BeFalse)

			close(release)
			wg.Wait()
			assert.Loosely(t, <-second, should.Equal(2))
		})
	})
}

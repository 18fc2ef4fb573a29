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

package rng

import (
	"context"
	"io"
	"math"
	"math/rand"
	"testing"

	"go.chromium.org/luci/common/data/rand/mathrand"
	"go.chromium.org/luci/common/testing/ftt"
	"go.chromium.org/luci/common/testing/truth/assert"
	"go.chromium.org/luci/common/testing/truth/should"
)

func TestSource(t *testing.T) {
	t.Parallel()

	ftt.Run("Source", t, func(t *ftt.Test) {
		t.Run("Same seed gives same stream", func(t *ftt.Test) {
			a, b := New(42), New(42)
			for range 100 {
				assert.Loosely(t, a.Int63n(1000), should.Equal(b.Int63n(1000)))
				assert.Loosely(t, a.Uint64(), should.Equal(b.Uint64()))
			}
		})

		t.Run("Get uses the context RNG", func(t *ftt.Test) {
			ctx := mathrand.Set(context.Background(), rand.New(rand.NewSource(7)))
			r := rand.New(rand.NewSource(7))
			s := Get(ctx)
			assert.Loosely(t, s.Intn(100), should.Equal(r.Intn(100)))
			assert.Loosely(t, s.Float64(), should.Equal(r.Float64()))
		})

		t.Run("Zero bounds need no draw", func(t *ftt.Test) {
			s := New(1)
			assert.Loosely(t, s.Intn(0), should.BeZero)
			assert.Loosely(t, s.Int63n(-5), should.BeZero)
			assert.Loosely(t, Uint64n(s, 0), should.BeZero)
		})

		t.Run("Bounds are exclusive", func(t *ftt.Test) {
			s := New(3)
			for range 10000 {
				v := s.Intn(3)
				assert.Loosely(t, v >= 0 && v <= 2, should.BeTrue)
				f := s.Float64()
				assert.Loosely(t, f >= 0 && f < 1, should.BeTrue)
			}
		})

		t.Run("Uint64n over the top half", func(t *ftt.Test) {
			s := New(5)
			n := uint64(math.MaxUint64 - 10)
			for range 1000 {
				assert.Loosely(t, Uint64n(s, n) < n, should.BeTrue)
			}
			for range 1000 {
				assert.Loosely(t, Uint64n(s, 3) < 3, should.BeTrue)
			}
		})

		t.Run("Bool yields both values", func(t *ftt.Test) {
			s := New(9)
			seen := map[bool]int{}
			for range 1000 {
				seen[s.Bool()]++
			}
			assert.Loosely(t, seen, should.HaveLength(2))
		})

		t.Run("Reader", func(t *ftt.Test) {
			buf1 := make([]byte, 37)
			buf2 := make([]byte, 37)
			_, err := io.ReadFull(Reader(New(11)), buf1)
			assert.Loosely(t, err, should.BeNil)
			_, err = io.ReadFull(Reader(New(11)), buf2)
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, buf1, should.Match(buf2))
		})
	})
}

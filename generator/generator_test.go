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

package generator

import (
	"context"
	"math"
	"strconv"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"pgregory.net/rapid"

	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/testing/ftt"
	"go.chromium.org/luci/common/testing/truth/assert"
	"go.chromium.org/luci/common/testing/truth/should"

	"github.com/randsynth/randsynth/randerr"
	"github.com/randsynth/randsynth/rng"
)

func TestCombinators(t *testing.T) {
	t.Parallel()

	ftt.Run("Combinators", t, func(t *ftt.Test) {
		ctx := context.Background()

		t.Run("Value", func(t *ftt.Test) {
			v, err := Value("x").Generate(ctx, rng.New(1))
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, v, should.Equal("x"))
		})

		t.Run("Map", func(t *ftt.Test) {
			g := Map(Full[int32](), func(v int32) string { return strconv.Itoa(int(v)) })
			want := strconv.Itoa(int(Full[int32]().Draw(rng.New(5))))
			got, err := g.Generate(ctx, rng.New(5))
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, got, should.Equal(want))
		})

		t.Run("FlatMap uses one stream in order", func(t *ftt.Test) {
			g := FlatMap(Value(3), func(n int) Generator[[]int] {
				s, err := SliceOf[int](&Range[int]{0, 100}, Exactly(n))
				assert.Loosely(t, err, should.BeNil)
				return s
			})
			got, err := g.Generate(ctx, rng.New(9))
			assert.Loosely(t, err, should.BeNil)

			r := rng.New(9)
			rg := &Range[int]{0, 100}
			want := []int{rg.Draw(r), rg.Draw(r), rg.Draw(r)}
			assert.Loosely(t, cmp.Diff(want, got), should.BeEmpty)
		})

		t.Run("Errors propagate unchanged", func(t *ftt.Test) {
			boom := errors.New("boom")
			failing := Func[int](func(context.Context, rng.Source) (int, error) { return 0, boom })

			_, err := Map(failing, func(int) int { return 1 }).Generate(ctx, rng.New(1))
			assert.Loosely(t, err, should.Equal(boom))
			_, err = FlatMap(failing, func(int) Generator[int] { return Value(1) }).Generate(ctx, rng.New(1))
			assert.Loosely(t, err, should.Equal(boom))
			_, err = Boxed[int](failing).Generate(ctx, rng.New(1))
			assert.Loosely(t, err, should.Equal(boom))
		})

		t.Run("Optional", func(t *ftt.Test) {
			v, ok := Some(4).Get()
			assert.Loosely(t, ok, should.BeTrue)
			assert.Loosely(t, v, should.Equal(4))
			assert.Loosely(t, None[int]().Present(), should.BeFalse)
			assert.Loosely(t, None[int]().OrElse(7), should.Equal(7))
		})
	})
}

func TestRanges(t *testing.T) {
	t.Parallel()

	ftt.Run("Ranges", t, func(t *ftt.Test) {
		ctx := context.Background()

		t.Run("Validation", func(t *ftt.Test) {
			_, err := NewRange(5, 1)
			assert.Loosely(t, err, should.ErrLike("min 5 > max 1"))
			assert.Loosely(t, randerr.Configuration.In(err), should.BeTrue)

			_, err = NewFloatRange(0, nan())
			assert.Loosely(t, randerr.Configuration.In(err), should.BeTrue)
			_, err = NewFloatRange(inf(-1), 0)
			assert.Loosely(t, randerr.Configuration.In(err), should.BeTrue)
			_, err = NewFloatRange(2.0, 1.0)
			assert.Loosely(t, randerr.Configuration.In(err), should.BeTrue)

			_, err = Below(0)
			assert.Loosely(t, randerr.Configuration.In(err), should.BeTrue)
			_, err = NewCharRange(-1, 'a')
			assert.Loosely(t, randerr.Configuration.In(err), should.BeTrue)
		})

		t.Run("Full bounds", func(t *ftt.Test) {
			assert.Loosely(t, Full[int8]().Min(), should.Equal[int8](-128))
			assert.Loosely(t, Full[int8]().Max(), should.Equal[int8](127))
			assert.Loosely(t, Full[uint16]().Max(), should.Equal[uint16](65535))
			assert.Loosely(t, Full[int64]().Min(), should.Equal[int64](-1<<63))
		})

		t.Run("Boundaries are reachable", func(t *ftt.Test) {
			g, err := NewRange[int16](-3, 4)
			assert.Loosely(t, err, should.BeNil)
			r := rng.New(1)
			seen := map[int16]int{}
			for range 100000 {
				v, err := g.Generate(ctx, r)
				assert.Loosely(t, err, should.BeNil)
				assert.Loosely(t, g.Contains(v), should.BeTrue)
				seen[v]++
			}
			assert.Loosely(t, seen, should.HaveLength(8))
			assert.Loosely(t, seen[-3], should.BeGreaterThan(0))
			assert.Loosely(t, seen[4], should.BeGreaterThan(0))
		})

		t.Run("Full signed range", func(t *ftt.Test) {
			r := rng.New(2)
			neg, pos := 0, 0
			for range 10000 {
				if Full[int64]().Draw(r) < 0 {
					neg++
				} else {
					pos++
				}
			}
			assert.Loosely(t, neg, should.BeGreaterThan(4000))
			assert.Loosely(t, pos, should.BeGreaterThan(4000))
		})

		t.Run("Narrow unsigned at the top", func(t *ftt.Test) {
			g, err := NewRange[uint8](254, 255)
			assert.Loosely(t, err, should.BeNil)
			r := rng.New(3)
			for range 1000 {
				v := g.Draw(r)
				assert.Loosely(t, v == 254 || v == 255, should.BeTrue)
			}
		})

		t.Run("Float", func(t *ftt.Test) {
			g, err := NewFloatRange[float32](-1, 1)
			assert.Loosely(t, err, should.BeNil)
			r := rng.New(4)
			for range 10000 {
				assert.Loosely(t, g.Contains(g.Draw(r)), should.BeTrue)
			}

			huge, err := NewFloatRange(-maxFloat(), maxFloat())
			assert.Loosely(t, err, should.BeNil)
			for range 1000 {
				v := huge.Draw(r)
				assert.Loosely(t, huge.Contains(v), should.BeTrue)
			}

			point, err := NewFloatRange(2.5, 2.5)
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, point.Draw(r), should.Equal(2.5))
		})

		t.Run("AllChars never yields surrogates", func(t *ftt.Test) {
			r := rng.New(5)
			for range 10000 {
				c, err := AllChars.Generate(ctx, r)
				assert.Loosely(t, err, should.BeNil)
				assert.Loosely(t, utf8.ValidRune(c), should.BeTrue)
			}
		})
	})
}

func TestChoice(t *testing.T) {
	t.Parallel()

	ftt.Run("Choice", t, func(t *ftt.Test) {
		ctx := context.Background()

		t.Run("OneOf stays within the value set", func(t *ftt.Test) {
			g, err := OneOf("a", "b", "c", "d")
			assert.Loosely(t, err, should.BeNil)
			r := rng.New(6)
			seen := map[string]int{}
			for range 10000 {
				v, err := g.Generate(ctx, r)
				assert.Loosely(t, err, should.BeNil)
				seen[v]++
			}
			assert.Loosely(t, seen, should.HaveLength(4))

			_, err = OneOf[int]()
			assert.Loosely(t, randerr.Configuration.In(err), should.BeTrue)
		})

		t.Run("Chance", func(t *ftt.Test) {
			_, err := Chance(1.5)
			assert.Loosely(t, randerr.Configuration.In(err), should.BeTrue)
			_, err = Chance(nan())
			assert.Loosely(t, randerr.Configuration.In(err), should.BeTrue)

			always, err := Chance(1)
			assert.Loosely(t, err, should.BeNil)
			never, err := Chance(0)
			assert.Loosely(t, err, should.BeNil)
			r := rng.New(7)
			for range 1000 {
				v, _ := always.Generate(ctx, r)
				assert.Loosely(t, v, should.BeTrue)
			}
			hits := 0
			for range 1000 {
				if v, _ := never.Generate(ctx, r); v {
					hits++
				}
			}
			// Float64 may return exactly 0, but not a thousand times.
			assert.Loosely(t, hits, should.BeLessThan(2))
		})
	})
}

func TestCollections(t *testing.T) {
	t.Parallel()

	ftt.Run("Collections", t, func(t *ftt.Test) {
		ctx := context.Background()
		r := rng.New(8)

		t.Run("Sizes", func(t *ftt.Test) {
			assert.Loosely(t, randerr.Configuration.In(Sizes{3, 1}.Validate()), should.BeTrue)
			assert.Loosely(t, randerr.Configuration.In(Sizes{-1, 1}.Validate()), should.BeTrue)
			assert.Loosely(t, Sizes{0, 0}.Validate(), should.BeNil)
		})

		t.Run("String", func(t *ftt.Test) {
			abc, err := OneOf('a', 'b', 'c')
			assert.Loosely(t, err, should.BeNil)
			g, err := String(abc, Sizes{2, 5})
			assert.Loosely(t, err, should.BeNil)
			for range 1000 {
				s, err := g.Generate(ctx, r)
				assert.Loosely(t, err, should.BeNil)
				assert.Loosely(t, len(s) >= 2 && len(s) <= 5, should.BeTrue)
				assert.Loosely(t, s, should.MatchRegexp(`^[abc]+$`))
			}
		})

		t.Run("SliceOf", func(t *ftt.Test) {
			g, err := SliceOf(Value(1), Sizes{0, 3})
			assert.Loosely(t, err, should.BeNil)
			lens := map[int]bool{}
			for range 1000 {
				s, _ := g.Generate(ctx, r)
				lens[len(s)] = true
			}
			assert.Loosely(t, lens, should.HaveLength(4))
		})

		t.Run("SetOf", func(t *ftt.Test) {
			g, err := SetOf(Value("same"), Exactly(5))
			assert.Loosely(t, err, should.BeNil)
			s, err := g.Generate(ctx, r)
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, s, should.HaveLength(1))
		})

		t.Run("MapOf merges collisions", func(t *ftt.Test) {
			counter := 0
			vals := Func[int](func(context.Context, rng.Source) (int, error) {
				counter++
				return counter, nil
			})

			keep, err := MapOf(Value("k"), vals, Exactly(3), nil)
			assert.Loosely(t, err, should.BeNil)
			m, err := keep.Generate(ctx, r)
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, m, should.Match(map[string]int{"k": 1}))

			counter = 0
			sum, err := MapOf(Value("k"), vals, Exactly(3), func(a, b int) int { return a + b })
			assert.Loosely(t, err, should.BeNil)
			m, err = sum.Generate(ctx, r)
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, m, should.Match(map[string]int{"k": 6}))
		})

		t.Run("UUID is reproducible", func(t *ftt.Test) {
			a, err := UUID().Generate(ctx, rng.New(10))
			assert.Loosely(t, err, should.BeNil)
			b, err := UUID().Generate(ctx, rng.New(10))
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, a, should.Equal(b))
			assert.Loosely(t, a.Version(), should.Equal(uuid.Version(4)))
		})
	})
}

func nan() float64         { return math.NaN() }
func inf(sign int) float64 { return math.Inf(sign) }
func maxFloat() float64    { return math.MaxFloat64 }

func TestRangeProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.Int64().Draw(t, "lo")
		hi := rapid.Int64Min(lo).Draw(t, "hi")
		seed := rapid.Int64().Draw(t, "seed")

		g, err := NewRange(lo, hi)
		if err != nil {
			t.Fatalf("NewRange(%d, %d): %s", lo, hi, err)
		}
		r := rng.New(seed)
		for range 100 {
			if v := g.Draw(r); v < lo || v > hi {
				t.Fatalf("%d is outside of [%d, %d]", v, lo, hi)
			}
		}
	})

	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.Float64Range(-1e300, 1e300).Draw(t, "lo")
		hi := rapid.Float64Range(lo, 1e300).Draw(t, "hi")

		g, err := NewFloatRange(lo, hi)
		if err != nil {
			t.Fatalf("NewFloatRange(%v, %v): %s", lo, hi, err)
		}
		r := rng.New(rapid.Int64().Draw(t, "seed"))
		for range 100 {
			if v := g.Draw(r); !g.Contains(v) {
				t.Fatalf("%v is outside of [%v, %v]", v, lo, hi)
			}
		}
	})
}

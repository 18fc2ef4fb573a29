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
	"unicode"
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/randsynth/randsynth/randerr"
	"github.com/randsynth/randsynth/rng"
)

// Range produces integers uniformly distributed over the inclusive interval
// [Min(), Max()].
type Range[T constraints.Integer] struct {
	min, max T
}

// NewRange returns a Range over [min, max].
func NewRange[T constraints.Integer](min, max T) (*Range[T], error) {
	if min > max {
		return nil, randerr.Config("bad range: min %v > max %v", min, max)
	}
	return &Range[T]{min, max}, nil
}

// Full returns a Range covering every value of T.
func Full[T constraints.Integer]() *Range[T] {
	min, max := bounds[T]()
	return &Range[T]{min, max}
}

// Below returns a Range over [0, n).
func Below[T constraints.Integer](n T) (*Range[T], error) {
	if n <= 0 {
		return nil, randerr.Config("bad range: upper bound %v must be positive", n)
	}
	return &Range[T]{0, n - 1}, nil
}

// Min is the lower bound, inclusive.
func (g *Range[T]) Min() T { return g.min }

// Max is the upper bound, inclusive.
func (g *Range[T]) Max() T { return g.max }

// Contains is true if min <= v <= max.
func (g *Range[T]) Contains(v T) bool {
	return g.min <= v && v <= g.max
}

// Generate implements Generator.
func (g *Range[T]) Generate(_ context.Context, r rng.Source) (T, error) {
	return g.Draw(r), nil
}

// Draw is Generate without the error.
func (g *Range[T]) Draw(r rng.Source) T {
	// Work in two's complement: uint64(max) - uint64(min) is the span both
	// for signed and unsigned T, since min <= max.
	lo := widen(g.min)
	span := widen(g.max) - lo
	var off uint64
	if span == math.MaxUint64 {
		off = r.Uint64()
	} else {
		off = rng.Uint64n(r, span+1)
	}
	return T(lo + off)
}

func signed[T constraints.Integer]() bool {
	var zero T
	return ^zero < 0
}

// widen converts v to uint64 preserving its two's complement bit pattern,
// sign-extending signed values.
func widen[T constraints.Integer](v T) uint64 {
	if signed[T]() {
		return uint64(int64(v))
	}
	return uint64(v)
}

func bounds[T constraints.Integer]() (min, max T) {
	var zero T
	if !signed[T]() {
		return zero, ^zero
	}
	bits := 8 * unsafe.Sizeof(zero)
	max = T(uint64(1)<<(bits-1) - 1)
	return -max - 1, max
}

// FloatRange produces floats over [Min(), Max()] by linear interpolation.
//
// The density is uniform over the real interval, not over the representable
// floats within it.
type FloatRange[T constraints.Float] struct {
	min, max T
}

// NewFloatRange returns a FloatRange over [min, max].
//
// Both bounds must be finite.
func NewFloatRange[T constraints.Float](min, max T) (*FloatRange[T], error) {
	lo, hi := float64(min), float64(max)
	switch {
	case math.IsNaN(lo) || math.IsNaN(hi):
		return nil, randerr.Config("bad range: NaN bound [%v, %v]", min, max)
	case math.IsInf(lo, 0) || math.IsInf(hi, 0):
		return nil, randerr.Config("bad range: infinite bound [%v, %v]", min, max)
	case min > max:
		return nil, randerr.Config("bad range: min %v > max %v", min, max)
	}
	return &FloatRange[T]{min, max}, nil
}

// Min is the lower bound, inclusive.
func (g *FloatRange[T]) Min() T { return g.min }

// Max is the upper bound, inclusive.
func (g *FloatRange[T]) Max() T { return g.max }

// Contains is true if min <= v <= max.
func (g *FloatRange[T]) Contains(v T) bool {
	return g.min <= v && v <= g.max
}

// Generate implements Generator.
func (g *FloatRange[T]) Generate(_ context.Context, r rng.Source) (T, error) {
	return g.Draw(r), nil
}

// Draw is Generate without the error.
func (g *FloatRange[T]) Draw(r rng.Source) T {
	lo, hi := float64(g.min), float64(g.max)
	u := r.Float64()
	var v float64
	if span := hi - lo; !math.IsInf(span, 0) {
		v = lo + u*span
	} else {
		v = lo*(1-u) + hi*u
	}
	// Rounding (and narrowing to float32) may step outside the bounds.
	out := T(v)
	if out < g.min {
		return g.min
	}
	if out > g.max {
		return g.max
	}
	return out
}

// NewCharRange returns a Range of runes over [min, max].
//
// Both bounds must be valid Unicode code points. Surrogate halves inside the
// range are still produced; they turn into utf8.RuneError when encoded.
func NewCharRange(min, max rune) (*Range[rune], error) {
	if min < 0 || max > unicode.MaxRune {
		return nil, randerr.Config("bad char range: [%d, %d] is outside of [0, %d]", min, max, unicode.MaxRune)
	}
	return NewRange(min, max)
}

// ASCII produces printable ASCII characters.
var ASCII = &Range[rune]{' ', '~'}

// AllChars produces any code point except surrogate halves.
var AllChars Generator[rune] = Simple(func(r rng.Source) rune {
	const surrogates = 0xE000 - 0xD800
	c := rune(r.Int63n(unicode.MaxRune + 1 - surrogates))
	if c >= 0xD800 {
		c += surrogates
	}
	return c
})

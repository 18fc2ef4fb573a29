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
	"math"

	"github.com/randsynth/randsynth/randerr"
	"github.com/randsynth/randsynth/rng"
)

// OneOf returns a Generator picking uniformly among values.
func OneOf[T any](values ...T) (Generator[T], error) {
	if len(values) == 0 {
		return nil, randerr.Config("OneOf needs at least one value")
	}
	vals := append([]T(nil), values...)
	return Simple(func(r rng.Source) T {
		return vals[r.Intn(len(vals))]
	}), nil
}

// Bool returns a Generator of fair coin flips.
func Bool() Generator[bool] {
	return Simple(func(r rng.Source) bool { return r.Bool() })
}

// Chance returns a Generator producing true with probability p.
func Chance(p float64) (Generator[bool], error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, randerr.Config("bad chance %v: must be in [0, 1]", p)
	}
	return Simple(func(r rng.Source) bool {
		return r.Float64() <= p
	}), nil
}

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
	"strings"

	"github.com/randsynth/randsynth/randerr"
	"github.com/randsynth/randsynth/rng"
)

// Sizes is an inclusive [Min, Max] range of container sizes.
type Sizes struct {
	Min, Max int
}

// Exactly returns Sizes admitting only n.
func Exactly(n int) Sizes { return Sizes{n, n} }

// Validate returns a Configuration error if the sizes are negative or
// inverted.
func (s Sizes) Validate() error {
	if s.Min < 0 || s.Max < 0 {
		return randerr.Config("bad sizes [%d, %d]: must not be negative", s.Min, s.Max)
	}
	if s.Min > s.Max {
		return randerr.Config("bad sizes: min %d > max %d", s.Min, s.Max)
	}
	return nil
}

// Draw returns a size uniformly distributed over [Min, Max]. Fixed sizes
// consume no randomness.
func (s Sizes) Draw(r rng.Source) int {
	if s.Min == s.Max {
		return s.Min
	}
	return s.Min + r.Intn(s.Max-s.Min+1)
}

// MergeFunc decides which value to keep when a map key is produced twice.
type MergeFunc[V any] func(earlier, later V) V

// KeepEarlier is the default MergeFunc.
func KeepEarlier[V any](earlier, _ V) V { return earlier }

// String returns a Generator of strings whose length is uniformly distributed
// over sizes and whose characters are produced by chars.
func String(chars Generator[rune], sizes Sizes) (Generator[string], error) {
	if err := sizes.Validate(); err != nil {
		return nil, err
	}
	return Func[string](func(ctx context.Context, r rng.Source) (string, error) {
		n := sizes.Draw(r)
		var sb strings.Builder
		sb.Grow(n)
		for range n {
			c, err := chars.Generate(ctx, r)
			if err != nil {
				return "", err
			}
			sb.WriteRune(c)
		}
		return sb.String(), nil
	}), nil
}

// SliceOf returns a Generator of slices whose length is uniformly distributed
// over sizes.
func SliceOf[T any](elem Generator[T], sizes Sizes) (Generator[[]T], error) {
	if err := sizes.Validate(); err != nil {
		return nil, err
	}
	return Func[[]T](func(ctx context.Context, r rng.Source) ([]T, error) {
		out := make([]T, sizes.Draw(r))
		for i := range out {
			var err error
			if out[i], err = elem.Generate(ctx, r); err != nil {
				return nil, err
			}
		}
		return out, nil
	}), nil
}

// SetOf returns a Generator of sets. The number of elements drawn is
// uniformly distributed over sizes; duplicates collapse, so the set may be
// smaller.
func SetOf[T comparable](elem Generator[T], sizes Sizes) (Generator[map[T]struct{}], error) {
	if err := sizes.Validate(); err != nil {
		return nil, err
	}
	return Func[map[T]struct{}](func(ctx context.Context, r rng.Source) (map[T]struct{}, error) {
		n := sizes.Draw(r)
		out := make(map[T]struct{}, n)
		for range n {
			v, err := elem.Generate(ctx, r)
			if err != nil {
				return nil, err
			}
			out[v] = struct{}{}
		}
		return out, nil
	}), nil
}

// MapOf returns a Generator of maps. The number of entries drawn is uniformly
// distributed over sizes; key collisions are resolved with merge, which
// defaults to KeepEarlier.
func MapOf[K comparable, V any](key Generator[K], val Generator[V], sizes Sizes, merge MergeFunc[V]) (Generator[map[K]V], error) {
	if err := sizes.Validate(); err != nil {
		return nil, err
	}
	if merge == nil {
		merge = KeepEarlier[V]
	}
	return Func[map[K]V](func(ctx context.Context, r rng.Source) (map[K]V, error) {
		n := sizes.Draw(r)
		out := make(map[K]V, n)
		for range n {
			k, err := key.Generate(ctx, r)
			if err != nil {
				return nil, err
			}
			v, err := val.Generate(ctx, r)
			if err != nil {
				return nil, err
			}
			if prev, ok := out[k]; ok {
				v = merge(prev, v)
			}
			out[k] = v
		}
		return out, nil
	}), nil
}

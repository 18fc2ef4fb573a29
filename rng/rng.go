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

// Package rng defines the source of randomness consumed by all producers.
//
// A Source is usually obtained from the context via Get, which uses the
// math/rand instance installed by mathrand.Set (or the global one).
package rng

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand"

	"go.chromium.org/luci/common/data/rand/mathrand"
)

// Source is a source of uniformly distributed random values.
//
// All bounds are exclusive upper bounds. A bound <= 0 means no draw is
// needed: the method returns 0 and leaves the stream untouched.
//
// Implementations are not required to be safe for concurrent use.
type Source interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
	// Int63n returns a value in [0, n).
	Int63n(n int64) int64
	// Uint64 returns a uniformly distributed 64 bit value.
	Uint64() uint64
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Bool returns true or false with equal probability.
	Bool() bool
}

type source struct {
	r mathrand.Rand
}

// Wrap adapts a mathrand.Rand into a Source.
func Wrap(r mathrand.Rand) Source {
	return &source{r}
}

// Get returns a Source backed by the mathrand.Rand in the context.
//
// If the context has none, the global (locked) math/rand generator is used.
func Get(ctx context.Context) Source {
	return Wrap(mathrand.Get(ctx))
}

// New returns a deterministic Source seeded with seed.
func New(seed int64) Source {
	return Get(mathrand.Set(context.Background(), rand.New(rand.NewSource(seed))))
}

// Random returns a Source seeded with bytes from crypto/rand.
func Random() Source {
	var seed int64
	if err := binary.Read(cryptorand.Reader, binary.LittleEndian, &seed); err != nil {
		panic(err)
	}
	return New(seed)
}

func (s *source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}

func (s *source) Int63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	return s.r.Int63n(n)
}

func (s *source) Uint64() uint64 {
	return uint64(s.r.Int63())>>31 | uint64(s.r.Int63())<<32
}

func (s *source) Float64() float64 {
	return s.r.Float64()
}

func (s *source) Bool() bool {
	return s.r.Int63()&1 == 1
}

// Uint64n returns a uniformly distributed value in [0, n) without modulo
// bias. It returns 0 if n == 0.
func Uint64n(s Source, n uint64) uint64 {
	switch {
	case n == 0:
		return 0
	case n <= math.MaxInt64:
		return uint64(s.Int63n(int64(n)))
	}
	// n > 2^63, so a single draw is accepted with probability > 1/2.
	for {
		if v := s.Uint64(); v < n {
			return v
		}
	}
}

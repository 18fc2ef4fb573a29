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

package pool

import (
	"context"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/randsynth/randsynth/generator"
	"github.com/randsynth/randsynth/randerr"
	"github.com/randsynth/randsynth/rng"
	"github.com/randsynth/randsynth/scope"
)

// MaxWeight is the largest weight an item may have.
const MaxWeight int64 = 0xFFFFFFFF

// WeightFunc computes the weight of an item from its pick and ignore
// counters. The context carries the ambient value pushed onto the item, if
// any (see scope.Ambient).
//
// Results outside of [0, MaxWeight] are clamped.
type WeightFunc func(ctx context.Context, picked, ignored int64) int64

// ConditionFunc decides whether an item is eligible for selection.
type ConditionFunc func(ctx context.Context, picked, ignored int64) bool

// ProducerFunc returns the Generator an item uses, given its counters.
type ProducerFunc[T any] func(picked, ignored int64) generator.Generator[T]

// Combiner maps an incremented counter to the value actually stored.
type Combiner func(count int64) int64

// Identity is the default Combiner.
func Identity(count int64) int64 { return count }

// Item is a weighted, conditionally eligible wrapper around a Generator.
//
// Items count how many times they were picked and ignored by the pool they
// belong to; weight and eligibility rules may depend on those counters.
type Item[T any] struct {
	scope.Scope

	producer  ProducerFunc[T]
	weight    WeightFunc
	condition ConditionFunc
	onPick    Combiner
	onIgnore  Combiner

	picked  atomic.Int64
	ignored atomic.Int64
}

// NewItem returns an Item wrapping g with the default rules: weight 1,
// always eligible.
func NewItem[T any](g generator.Generator[T]) *Item[T] {
	return &Item[T]{
		producer:  func(int64, int64) generator.Generator[T] { return g },
		weight:    constWeight(1),
		condition: always,
		onPick:    Identity,
		onIgnore:  Identity,
	}
}

func constWeight(w int64) WeightFunc {
	return func(context.Context, int64, int64) int64 { return w }
}

func always(context.Context, int64, int64) bool { return true }

// Weight returns the current weight of the item, clamped into
// [0, MaxWeight].
func (it *Item[T]) Weight(ctx context.Context) int64 {
	return lo.Clamp(it.weight(ctx, it.picked.Load(), it.ignored.Load()), 0, MaxWeight)
}

// Test returns whether the item is currently eligible.
func (it *Item[T]) Test(ctx context.Context) bool {
	return it.condition(ctx, it.picked.Load(), it.ignored.Load())
}

// Generate produces a value with the item's current Generator.
func (it *Item[T]) Generate(ctx context.Context, r rng.Source) (T, error) {
	g := it.producer(it.picked.Load(), it.ignored.Load())
	if g == nil {
		var zero T
		return zero, randerr.Gen("pool item has no generator for picked=%d ignored=%d", it.picked.Load(), it.ignored.Load())
	}
	return g.Generate(ctx, r)
}

// NotifyPicked records that the pool selected this item.
func (it *Item[T]) NotifyPicked() {
	it.picked.Store(it.onPick(it.picked.Load() + 1))
}

// NotifyIgnored records that the pool did not select this item.
func (it *Item[T]) NotifyIgnored() {
	it.ignored.Store(it.onIgnore(it.ignored.Load() + 1))
}

// Picked is the stored pick counter.
func (it *Item[T]) Picked() int64 { return it.picked.Load() }

// Ignored is the stored ignore counter.
func (it *Item[T]) Ignored() int64 { return it.ignored.Load() }

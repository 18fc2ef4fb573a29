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

// Package pool implements collections of weighted, conditional items with
// four selection algorithms:
//
//   - Ordered: items in insertion order, round robin.
//   - Bundle: shuffle without repetition until every item was dealt, or
//     plain uniform selection.
//   - Weighted: a random eligible item, proportionally to its weight.
//   - Multiple: every eligible item, in insertion order.
//
// After every selection each item is notified whether it was picked or
// ignored, which lets weights and conditions react to history.
//
// If a pool has an ambient value (see package scope), that value is pushed
// onto each item while the item is tested, weighed and asked to generate, so
// item rules can observe it:
//
//	b := pool.NewWeightedBuilder[string]()
//	b.AddWith(func(ib *pool.ItemBuilder[string]) {
//	  ib.Value("jackpot").WeightFunc(func(ctx context.Context, picked, _ int64) int64 {
//	    luck, _ := scope.AmbientAs[int64](ctx)
//	    return 1 + luck
//	  })
//	})
//
// Pools are not safe for concurrent use.
package pool

import (
	"context"
	"iter"

	"go.chromium.org/luci/common/sync/parallel"

	"github.com/randsynth/randsynth/scope"
)

// base holds what all pools share.
type base[T any] struct {
	scope.Scope

	items   []*Item[T]
	workers int
}

// Size is the number of items in the pool.
func (p *base[T]) Size() int { return len(p.items) }

// Get returns the i-th item.
func (p *base[T]) Get(i int) *Item[T] { return p.items[i] }

// All iterates over the items in their current order.
func (p *base[T]) All() iter.Seq2[int, *Item[T]] {
	return func(yield func(int, *Item[T]) bool) {
		for i, it := range p.items {
			if !yield(i, it) {
				return
			}
		}
	}
}

// within runs fn for the item, under the pool's ambient value if there is
// one.
func (p *base[T]) within(ctx context.Context, it *Item[T], fn func(ctx context.Context) error) error {
	if v, ok := p.Context(ctx); ok {
		return it.WithContext(ctx, v, fn)
	}
	return fn(ctx)
}

// generate produces a value with the item, under the pool's ambient value.
func (p *base[T]) generate(ctx context.Context, it *Item[T], gen func(ctx context.Context) (T, error)) (out T, err error) {
	err = p.within(ctx, it, func(ctx context.Context) error {
		out, err = gen(ctx)
		return err
	})
	return
}

// notify tells the item at index `selected` it was picked and all the others
// they were ignored. selected may be -1.
func (p *base[T]) notify(selected int) {
	for i, it := range p.items {
		if i == selected {
			it.NotifyPicked()
		} else {
			it.NotifyIgnored()
		}
	}
}

type verdict struct {
	eligible bool
	weight   int64
}

// evaluate tests (and, if weigh is true, weighs) every item exactly once.
//
// With more than one worker the items are evaluated concurrently; results are
// stored by index so they don't depend on evaluation order.
func (p *base[T]) evaluate(ctx context.Context, weigh bool) ([]verdict, error) {
	out := make([]verdict, len(p.items))
	eval := func(i int) error {
		it := p.items[i]
		return p.within(ctx, it, func(ctx context.Context) error {
			out[i].eligible = it.Test(ctx)
			if out[i].eligible && weigh {
				out[i].weight = it.Weight(ctx)
			}
			return nil
		})
	}

	if p.workers <= 1 || len(p.items) < 2 {
		for i := range p.items {
			if err := eval(i); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	err := parallel.WorkPool(p.workers, func(work chan<- func() error) {
		for i := range p.items {
			work <- func() error { return eval(i) }
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

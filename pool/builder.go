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
	"github.com/randsynth/randsynth/generator"
	"github.com/randsynth/randsynth/randerr"
)

// options are pool settings which don't apply to every variant.
type options struct {
	workers int
	unwrap  bool
}

// Builder assembles a pool of type P out of items producing T.
//
// Items are finalized when the pool is built. Like ItemBuilder, Builder
// reports configuration errors from Build, returns the same pool from every
// Build call and can be cloned at any time.
type Builder[T any, P any] struct {
	draft

	items     []*ItemBuilder[T]
	opts      options
	construct func([]*Item[T], options) (P, error)

	pool P
}

func newBuilder[T, P any](what string, construct func([]*Item[T], options) (P, error)) *Builder[T, P] {
	return &Builder[T, P]{
		draft:     draft{what: what},
		opts:      options{unwrap: true},
		construct: construct,
	}
}

// NewOrderedBuilder returns a builder of Ordered pools.
func NewOrderedBuilder[T any]() *Builder[T, *Ordered[T]] {
	return newBuilder("ordered pool builder", func(items []*Item[T], _ options) (*Ordered[T], error) {
		return NewOrdered(items)
	})
}

// NewBundleBuilder returns a builder of Bundle pools.
func NewBundleBuilder[T any](shuffle bool) *Builder[T, *Bundle[T]] {
	return newBuilder("bundle pool builder", func(items []*Item[T], _ options) (*Bundle[T], error) {
		return NewBundle(items, shuffle)
	})
}

// NewWeightedBuilder returns a builder of Weighted pools.
func NewWeightedBuilder[T any]() *Builder[T, *Weighted[T]] {
	return newBuilder("weighted pool builder", func(items []*Item[T], o options) (*Weighted[T], error) {
		return NewWeighted(items, o.workers), nil
	})
}

// NewMultipleBuilder returns a builder of Multiple pools.
func NewMultipleBuilder() *Builder[any, *Multiple] {
	return newBuilder("multiple pool builder", func(items []*Item[any], o options) (*Multiple, error) {
		return NewMultiple(items, o.unwrap, o.workers), nil
	})
}

// Add adds items producing the given constant values.
func (b *Builder[T, P]) Add(values ...T) *Builder[T, P] {
	for _, v := range values {
		b.AddWith(func(ib *ItemBuilder[T]) { ib.Value(v) })
	}
	return b
}

// AddGenerator adds items producing values with the given generators.
func (b *Builder[T, P]) AddGenerator(gens ...generator.Generator[T]) *Builder[T, P] {
	for _, g := range gens {
		b.AddWith(func(ib *ItemBuilder[T]) { ib.Generator(g) })
	}
	return b
}

// AddItem adds item builders. They are built along with the pool.
func (b *Builder[T, P]) AddItem(items ...*ItemBuilder[T]) *Builder[T, P] {
	if b.mutable() {
		for _, it := range items {
			if it == nil {
				b.fail(randerr.Config("%s: nil item", b.what))
				continue
			}
			b.items = append(b.items, it)
		}
	}
	return b
}

// AddWith adds an item configured by fn.
func (b *Builder[T, P]) AddWith(fn func(ib *ItemBuilder[T])) *Builder[T, P] {
	ib := NewItemBuilder[T]()
	fn(ib)
	return b.AddItem(ib)
}

// Remove removes the i-th item.
func (b *Builder[T, P]) Remove(i int) *Builder[T, P] {
	if b.mutable() {
		if i < 0 || i >= len(b.items) {
			b.fail(randerr.Config("%s: no item #%d to remove, have %d", b.what, i, len(b.items)))
			return b
		}
		b.items = append(b.items[:i:i], b.items[i+1:]...)
	}
	return b
}

// Clear removes all items.
func (b *Builder[T, P]) Clear() *Builder[T, P] {
	if b.mutable() {
		b.items = nil
	}
	return b
}

// Len is the number of items added so far.
func (b *Builder[T, P]) Len() int { return len(b.items) }

// Parallel makes Weighted and Multiple pools evaluate item conditions and
// weights with up to n goroutines. The result doesn't depend on n.
func (b *Builder[T, P]) Parallel(n int) *Builder[T, P] {
	if b.mutable() {
		b.opts.workers = n
	}
	return b
}

// Unwrap sets whether a Multiple pool flattens slice, array and set values
// (the default).
func (b *Builder[T, P]) Unwrap(unwrap bool) *Builder[T, P] {
	if b.mutable() {
		b.opts.unwrap = unwrap
	}
	return b
}

// Build builds all items and the pool.
//
// Calling Build again returns the very same pool.
func (b *Builder[T, P]) Build() (P, error) {
	if b.built {
		return b.pool, b.reuse
	}
	var zero P
	if b.err != nil {
		return zero, b.err
	}
	items := make([]*Item[T], len(b.items))
	for i, ib := range b.items {
		it, err := ib.Build()
		if err != nil {
			return zero, err
		}
		items[i] = it
	}
	p, err := b.construct(items, b.opts)
	if err != nil {
		return zero, err
	}
	b.pool, b.built = p, true
	return p, nil
}

// Clone returns an independent, mutable copy of the builder. Item builders
// are cloned too.
func (b *Builder[T, P]) Clone() *Builder[T, P] {
	items := make([]*ItemBuilder[T], len(b.items))
	for i, ib := range b.items {
		items[i] = ib.Clone()
	}
	return &Builder[T, P]{
		draft:     b.draft.clone(),
		items:     items,
		opts:      b.opts,
		construct: b.construct,
	}
}

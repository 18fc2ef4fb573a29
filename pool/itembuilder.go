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

// draft tracks the two states of a builder: a mutable draft and a built one.
//
// Configuration mistakes are recorded (first one wins) and reported by Build.
// Mutating a builder after Build is also recorded; Build keeps returning the
// instance it built, together with that error.
type draft struct {
	what  string
	err   error
	reuse error
	built bool
}

// mutable returns true if the builder may still be changed.
func (d *draft) mutable() bool {
	if d.built {
		if d.reuse == nil {
			d.reuse = randerr.Config("%s: modified after Build", d.what)
		}
		return false
	}
	return true
}

func (d *draft) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// clone returns a draft in the mutable state carrying the same configuration
// error, if any.
func (d *draft) clone() draft {
	return draft{what: d.what, err: d.err}
}

// ItemBuilder assembles an Item.
//
// Configuration methods return the builder to allow chaining. Errors, such as
// an explicit weight out of [0, MaxWeight], are reported by Build.
type ItemBuilder[T any] struct {
	draft

	producer  ProducerFunc[T]
	weight    WeightFunc
	condition ConditionFunc
	onPick    Combiner
	onIgnore  Combiner

	item *Item[T]
}

// NewItemBuilder returns an empty ItemBuilder. A producer must be set with
// Value, Generator or Producer before Build.
func NewItemBuilder[T any]() *ItemBuilder[T] {
	return &ItemBuilder[T]{draft: draft{what: "pool item builder"}}
}

// Value makes the item always produce v.
func (b *ItemBuilder[T]) Value(v T) *ItemBuilder[T] {
	return b.Generator(generator.Value(v))
}

// Generator makes the item produce values with g.
func (b *ItemBuilder[T]) Generator(g generator.Generator[T]) *ItemBuilder[T] {
	if g == nil {
		if b.mutable() {
			b.fail(randerr.Config("pool item builder: nil generator"))
		}
		return b
	}
	return b.Producer(func(int64, int64) generator.Generator[T] { return g })
}

// Producer makes the item pick its Generator from its counters on every
// call.
func (b *ItemBuilder[T]) Producer(f ProducerFunc[T]) *ItemBuilder[T] {
	if b.mutable() {
		b.producer = f
	}
	return b
}

// Weight sets a constant weight.
//
// Unlike computed weights, which are clamped, an explicit weight outside of
// [0, MaxWeight] is a configuration error.
func (b *ItemBuilder[T]) Weight(w int64) *ItemBuilder[T] {
	if b.mutable() {
		if w < 0 || w > MaxWeight {
			b.fail(randerr.Config("pool item builder: weight %d is outside of [0, %d]", w, MaxWeight))
			return b
		}
		b.weight = constWeight(w)
	}
	return b
}

// WeightFunc sets a computed weight.
func (b *ItemBuilder[T]) WeightFunc(f WeightFunc) *ItemBuilder[T] {
	if b.mutable() {
		b.weight = f
	}
	return b
}

// Condition sets the eligibility rule.
func (b *ItemBuilder[T]) Condition(f ConditionFunc) *ItemBuilder[T] {
	if b.mutable() {
		b.condition = f
	}
	return b
}

// PickCombiner sets the combiner applied to the incremented pick counter.
func (b *ItemBuilder[T]) PickCombiner(c Combiner) *ItemBuilder[T] {
	if b.mutable() {
		b.onPick = c
	}
	return b
}

// IgnoreCombiner sets the combiner applied to the incremented ignore
// counter.
func (b *ItemBuilder[T]) IgnoreCombiner(c Combiner) *ItemBuilder[T] {
	if b.mutable() {
		b.onIgnore = c
	}
	return b
}

// Build returns the Item.
//
// Calling Build again returns the very same Item.
func (b *ItemBuilder[T]) Build() (*Item[T], error) {
	if b.built {
		return b.item, b.reuse
	}
	if b.err != nil {
		return nil, b.err
	}
	if b.producer == nil {
		return nil, randerr.Config("pool item builder: no generator")
	}
	it := &Item[T]{
		producer:  b.producer,
		weight:    b.weight,
		condition: b.condition,
		onPick:    b.onPick,
		onIgnore:  b.onIgnore,
	}
	if it.weight == nil {
		it.weight = constWeight(1)
	}
	if it.condition == nil {
		it.condition = always
	}
	if it.onPick == nil {
		it.onPick = Identity
	}
	if it.onIgnore == nil {
		it.onIgnore = Identity
	}
	b.item, b.built = it, true
	return it, nil
}

// Clone returns an independent builder with the same configuration. The clone
// is mutable even if b was already built.
func (b *ItemBuilder[T]) Clone() *ItemBuilder[T] {
	return &ItemBuilder[T]{
		draft:     b.draft.clone(),
		producer:  b.producer,
		weight:    b.weight,
		condition: b.condition,
		onPick:    b.onPick,
		onIgnore:  b.onIgnore,
	}
}

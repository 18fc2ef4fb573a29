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
	"reflect"

	"github.com/samber/lo"

	"go.chromium.org/luci/common/logging"

	"github.com/randsynth/randsynth/generator"
	"github.com/randsynth/randsynth/randerr"
	"github.com/randsynth/randsynth/rng"
)

// Ordered yields its items one after another, wrapping around. Weights and
// conditions are ignored.
type Ordered[T any] struct {
	base[T]
	current int
}

var _ generator.Generator[int] = (*Ordered[int])(nil)

// NewOrdered returns an Ordered pool. It needs at least one item.
func NewOrdered[T any](items []*Item[T]) (*Ordered[T], error) {
	if len(items) == 0 {
		return nil, randerr.Config("ordered pool needs at least 1 item")
	}
	return &Ordered[T]{base: base[T]{items: items}}, nil
}

// Generate implements generator.Generator.
func (p *Ordered[T]) Generate(ctx context.Context, r rng.Source) (T, error) {
	idx := p.current
	p.current = (p.current + 1) % len(p.items)
	p.notify(idx)
	it := p.items[idx]
	return p.generate(ctx, it, func(ctx context.Context) (T, error) { return it.Generate(ctx, r) })
}

// Bundle deals its items in random order.
//
// In shuffle mode every window of Size() consecutive draws, aligned on the
// start of a deal, contains every item exactly once. Otherwise each draw is
// uniform over all items.
type Bundle[T any] struct {
	base[T]
	// index is the boundary between dealt and undealt items, or -1 in
	// uniform mode.
	index int
}

var _ generator.Generator[int] = (*Bundle[int])(nil)

// NewBundle returns a Bundle pool. It needs at least two items.
func NewBundle[T any](items []*Item[T], shuffle bool) (*Bundle[T], error) {
	if len(items) < 2 {
		return nil, randerr.Config("bundle pool needs at least 2 items, got %d", len(items))
	}
	p := &Bundle[T]{base: base[T]{items: append([]*Item[T](nil), items...)}, index: -1}
	if shuffle {
		p.index = 0
	}
	return p, nil
}

// Generate implements generator.Generator.
func (p *Bundle[T]) Generate(ctx context.Context, r rng.Source) (T, error) {
	n := len(p.items)
	var idx int
	if p.index == -1 {
		idx = r.Intn(n)
	} else {
		sel := p.index + r.Intn(n-p.index)
		p.items[p.index], p.items[sel] = p.items[sel], p.items[p.index]
		idx = p.index
		p.index = (p.index + 1) % n
	}
	p.notify(idx)
	it := p.items[idx]
	return p.generate(ctx, it, func(ctx context.Context) (T, error) { return it.Generate(ctx, r) })
}

// Weighted picks one eligible item with probability proportional to its
// weight. If no eligible item has a positive weight, nothing is picked.
type Weighted[T any] struct {
	base[T]
}

var _ generator.Generator[generator.Optional[int]] = (*Weighted[int])(nil)

// NewWeighted returns a Weighted pool. It may be empty.
//
// With workers > 1, item conditions and weights are evaluated concurrently
// using that many goroutines.
func NewWeighted[T any](items []*Item[T], workers int) *Weighted[T] {
	return &Weighted[T]{base: base[T]{items: items, workers: workers}}
}

// Generate implements generator.Generator.
func (p *Weighted[T]) Generate(ctx context.Context, r rng.Source) (generator.Optional[T], error) {
	verdicts, err := p.evaluate(ctx, true)
	if err != nil {
		return generator.None[T](), err
	}
	total := lo.SumBy(verdicts, func(v verdict) int64 {
		if v.eligible {
			return v.weight
		}
		return 0
	})
	if total == 0 {
		logging.Debugf(ctx, "weighted pool: no eligible weight among %d items", len(p.items))
		p.notify(-1)
		return generator.None[T](), nil
	}

	selected := -1
	pick := r.Int63n(total)
	for i, v := range verdicts {
		if !v.eligible {
			continue
		}
		if pick < v.weight {
			selected = i
			break
		}
		pick -= v.weight
	}

	p.notify(selected)
	it := p.items[selected]
	v, err := p.generate(ctx, it, func(ctx context.Context) (T, error) { return it.Generate(ctx, r) })
	if err != nil {
		return generator.None[T](), err
	}
	return generator.Some(v), nil
}

// Multiple yields the values of all eligible items, in insertion order.
type Multiple struct {
	base[any]
	unwrap bool
}

var _ generator.Generator[[]any] = (*Multiple)(nil)

// NewMultiple returns a Multiple pool. It may be empty.
//
// If unwrap is true, values which are slices, arrays or sets
// (map[E]struct{}) are flattened into the output. Set elements come out in
// map iteration order. Other maps are kept whole.
func NewMultiple(items []*Item[any], unwrap bool, workers int) *Multiple {
	return &Multiple{base: base[any]{items: items, workers: workers}, unwrap: unwrap}
}

// Generate implements generator.Generator.
func (p *Multiple) Generate(ctx context.Context, r rng.Source) ([]any, error) {
	verdicts, err := p.evaluate(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(p.items))
	for i, it := range p.items {
		if !verdicts[i].eligible {
			it.NotifyIgnored()
			continue
		}
		v, err := p.generate(ctx, it, func(ctx context.Context) (any, error) { return it.Generate(ctx, r) })
		if err != nil {
			return nil, err
		}
		if p.unwrap {
			out = appendFlat(out, v)
		} else {
			out = append(out, v)
		}
		it.NotifyPicked()
	}
	return out, nil
}

var emptyStruct = reflect.TypeOf(struct{}{})

// appendFlat appends v to out, or its elements if v is a slice, an array or a
// set. Strings and byte slices are kept whole.
func appendFlat(out []any, v any) []any {
	switch vv := v.(type) {
	case []any:
		return append(out, vv...)
	case []byte, string, nil:
		return append(out, v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	case reflect.Map:
		if rv.Type().Elem() != emptyStruct {
			return append(out, v)
		}
		for _, k := range rv.MapKeys() {
			out = append(out, k.Interface())
		}
		return out
	default:
		return append(out, v)
	}
	for i := range rv.Len() {
		out = append(out, rv.Index(i).Interface())
	}
	return out
}

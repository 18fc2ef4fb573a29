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

// Package synth synthesizes random values of composite types.
//
// A Type describes a Go type: scalars, enums, containers, records (built from
// all of their components) and objects (built by weighted creators or by a
// constructor followed by field assignment). Members are constrained by Meta,
// set inline or loaded from YAML into a MetaSet.
//
// Recursive types terminate through a depth budget: every nested record or
// object consumes one unit, and once it is exhausted the zero value of the
// type is used instead.
//
//	tree := synth.Object[*Tree]("Tree")
//	tree.WithConstructor(...).WithField(...)
//	g, err := synth.For[*Tree](tree, synth.WithDepth(4))
//	...
//	t, err := g.Generate(ctx, rng.New(42))
package synth

import (
	"context"

	"github.com/samber/lo"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"

	"github.com/randsynth/randsynth/generator"
	"github.com/randsynth/randsynth/randerr"
	"github.com/randsynth/randsynth/rng"
)

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithMeta sets the metadata of the root value.
func WithMeta(m *Meta) Option {
	return func(s *Synthesizer) { s.meta = m }
}

// WithDepth sets the depth budget of the root value. Defaults to
// DefaultDepth, or to the root Meta's depth_budget if set.
func WithDepth(depth int) Option {
	return func(s *Synthesizer) { s.depth = &depth }
}

// WithMetaSet sets where to look up metadata of members without inline Meta.
func WithMetaSet(ms MetaSet) Option {
	return func(s *Synthesizer) { s.metas = ms }
}

// Synthesizer generates random values of a Type.
//
// It is immutable once created and safe for concurrent use as long as every
// goroutine uses its own rng.Source.
type Synthesizer struct {
	root  *Type
	meta  *Meta
	depth *int
	metas MetaSet
}

var _ generator.Generator[any] = (*Synthesizer)(nil)

// New validates the type graph reachable from t with all its metadata and
// returns a Synthesizer of it.
//
// Problems that can be detected statically are reported here as
// configuration errors, so that Generate only fails on conditions which
// depend on the drawn values.
func New(t *Type, opts ...Option) (*Synthesizer, error) {
	s := &Synthesizer{}
	for _, o := range opts {
		o(s)
	}
	if t == nil {
		return nil, randerr.Config("nil type")
	}
	s.root = t
	if s.meta == nil {
		s.meta = noMeta
	}
	if s.depth != nil && *s.depth < 0 {
		return nil, randerr.Config("negative depth %d", *s.depth)
	}
	v := &validator{s: s, seen: map[*Type]bool{}}
	if err := v.member(t, s.meta, "root"); err != nil {
		return nil, err
	}
	return s, nil
}

// For returns a generator of T synthesized from t. T must be the Go type t
// describes.
func For[T any](t *Type, opts ...Option) (generator.Generator[T], error) {
	s, err := New(t, opts...)
	if err != nil {
		return nil, err
	}
	return generator.Func[T](func(ctx context.Context, r rng.Source) (T, error) {
		var zero T
		v, err := s.Generate(ctx, r)
		if err != nil || v == nil {
			return zero, err
		}
		out, ok := v.(T)
		if !ok {
			return zero, randerr.Gen("synthesized %T for %s, want %T", v, t.name, zero)
		}
		return out, nil
	}), nil
}

// Generate synthesizes a value of the root type.
func (s *Synthesizer) Generate(ctx context.Context, r rng.Source) (any, error) {
	depth := DefaultDepth
	switch {
	case s.depth != nil:
		depth = *s.depth
	case s.meta.Depth != nil:
		depth = *s.meta.Depth
	}
	return s.value(ctx, r, s.root, s.meta, depth)
}

// metaOf returns the metadata of a member of owner, or noMeta.
func (s *Synthesizer) metaOf(owner *Type, m Member) *Meta {
	if m.Meta != nil {
		return m.Meta
	}
	if meta := s.metas.Lookup(owner.name, m.Name); meta != nil {
		return meta
	}
	return noMeta
}

// childDepth is the depth budget of a member of a value synthesized with
// budget depth.
func childDepth(depth int, m *Meta) int {
	if m.Depth != nil {
		return min(depth-1, *m.Depth)
	}
	return depth - 1
}

// value synthesizes a value of t constrained by m.
func (s *Synthesizer) value(ctx context.Context, r rng.Source, t *Type, m *Meta, depth int) (any, error) {
	if !m.randomize() {
		return defaultValue(t, m), nil
	}
	if m.Generator != nil {
		return m.Generator.Generate(ctx, r)
	}
	switch k := t.kind; {
	case k.isContainer():
		return s.container(ctx, r, t, m, depth)
	case !k.isComposite():
		return scalarValue(ctx, r, t, m)
	case depth <= 0:
		logging.Debugf(ctx, "synth: depth budget of %s exhausted, using zero value", t.name)
		return t.zero, nil
	case k == KindRecord:
		return s.record(ctx, r, t, depth)
	default:
		return s.object(ctx, r, t, depth)
	}
}

func (s *Synthesizer) container(ctx context.Context, r rng.Source, t *Type, m *Meta, depth int) (any, error) {
	sizes := m.containerSizes()
	if t.kind == KindArray {
		sizes = m.arrayLengths()
	}
	n := sizes.Draw(r)
	if t.kind == KindMap {
		keys := make([]any, n)
		vals := make([]any, n)
		for i := range n {
			var err error
			if keys[i], err = s.value(ctx, r, t.key, m, depth-1); err != nil {
				return nil, err
			}
			if vals[i], err = s.value(ctx, r, t.elem, m, depth-1); err != nil {
				return nil, err
			}
		}
		out, err := t.dict(keys, vals, m.merge())
		return out, randerr.WrapGen(err, "building %s", t.name)
	}
	elems := make([]any, n)
	for i := range n {
		var err error
		if elems[i], err = s.value(ctx, r, t.elem, m, depth-1); err != nil {
			return nil, err
		}
	}
	out, err := t.seq(elems)
	return out, randerr.WrapGen(err, "building %s", t.name)
}

// args synthesizes values for the members of owner.
func (s *Synthesizer) args(ctx context.Context, r rng.Source, owner *Type, members []Member, depth int, keepDefaults bool) ([]any, error) {
	args := make([]any, len(members))
	for i, p := range members {
		m := s.metaOf(owner, p)
		if keepDefaults {
			args[i] = defaultValue(p.Type, m)
			continue
		}
		v, err := s.value(ctx, r, p.Type, m, childDepth(depth, m))
		if err != nil {
			return nil, errors.Fmt("%s.%s: %w", owner.name, p.Name, err)
		}
		args[i] = v
	}
	return args, nil
}

func (s *Synthesizer) record(ctx context.Context, r rng.Source, t *Type, depth int) (any, error) {
	args, err := s.args(ctx, r, t, t.components, depth, false)
	if err != nil {
		return nil, err
	}
	out, err := t.construct(args)
	if err != nil {
		return nil, randerr.WrapGen(err, "constructing %s", t.name)
	}
	return out, nil
}

func creatorWeight(c Creator) int64 {
	if c.Weight == 0 {
		return 1
	}
	return c.Weight
}

// pickCreator chooses a creator with probability proportional to its
// weight.
func pickCreator(r rng.Source, creators []Creator) *Creator {
	pick := r.Int63n(lo.SumBy(creators, creatorWeight))
	for i := range creators {
		if pick -= creatorWeight(creators[i]); pick < 0 {
			return &creators[i]
		}
	}
	return &creators[len(creators)-1]
}

func (s *Synthesizer) object(ctx context.Context, r rng.Source, t *Type, depth int) (any, error) {
	if len(t.creators) > 0 {
		c := pickCreator(r, t.creators)
		args, err := s.args(ctx, r, t, c.Params, depth, c.KeepDefaults)
		if err != nil {
			return nil, err
		}
		out, err := c.Invoke(args)
		if err != nil {
			return nil, randerr.WrapGen(err, "creator %q of %s", c.Name, t.name)
		}
		return out, nil
	}
	if len(t.constructors) == 0 {
		return nil, randerr.Gen("no creator or constructor for %s", t.name)
	}

	c := &t.constructors[r.Intn(len(t.constructors))]
	args, err := s.args(ctx, r, t, c.Params, depth, false)
	if err != nil {
		return nil, err
	}
	obj, err := c.Invoke(args)
	if err != nil {
		return nil, randerr.WrapGen(err, "constructor %q of %s", c.Name, t.name)
	}
	for _, f := range t.fields {
		m := s.metaOf(t, f.Member)
		var v any
		if m.randomize() {
			if v, err = s.value(ctx, r, f.Type, m, childDepth(depth, m)); err != nil {
				return nil, errors.Fmt("%s.%s: %w", t.name, f.Name, err)
			}
		} else {
			logging.Debugf(ctx, "synth: keeping default of %s.%s", t.name, f.Name)
			v = defaultValue(f.Type, m)
		}
		if err := f.Set(obj, v); err != nil {
			return nil, randerr.WrapGen(err, "setting %s.%s", t.name, f.Name)
		}
	}
	return obj, nil
}

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

package synth

import (
	"go.chromium.org/luci/common/errors"

	"github.com/randsynth/randsynth/randerr"
)

// validator walks a type graph checking everything that doesn't depend on
// drawn values.
type validator struct {
	s *Synthesizer
	// seen are records and objects already validated. Cycles through them
	// are fine: the depth budget breaks them.
	seen map[*Type]bool
}

// member validates a member called name of type t with metadata m.
func (v *validator) member(t *Type, m *Meta, name string) error {
	if err := v.typ(t, name, nil); err != nil {
		return err
	}
	if err := m.validate(t); err != nil {
		return errors.Fmt("%s: %w", name, err)
	}
	return nil
}

// typ validates t and the types it refers to.
//
// chain holds the containers entered since the last record or object. A
// cycle made only of containers has no depth check to stop it.
func (v *validator) typ(t *Type, name string, chain []*Type) error {
	if t == nil {
		return randerr.Config("%s: nil type", name)
	}
	switch k := t.kind; {
	case k == KindInvalid:
		return randerr.Config("%s: type %q was not created by this package", name, t.name)

	case k.isContainer():
		for _, c := range chain {
			if c == t {
				return randerr.Config("%s: %s contains itself without a record or object in between", name, t.name)
			}
		}
		chain = append(chain, t)
		if k == KindMap {
			if err := v.typ(t.key, name+" key", chain); err != nil {
				return err
			}
		}
		return v.typ(t.elem, name+" element", chain)

	case k.isComposite():
		if v.seen[t] {
			return nil
		}
		v.seen[t] = true
		if k == KindRecord {
			return v.record(t)
		}
		return v.object(t)
	}
	return nil
}

// members validates members of owner, each with its own metadata.
func (v *validator) members(owner *Type, what string, members []Member) error {
	for _, p := range members {
		name := owner.name + "." + p.Name
		if what != "" {
			name = what + " " + name
		}
		if err := v.member(p.Type, v.s.metaOf(owner, p), name); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) record(t *Type) error {
	if t.construct == nil {
		return randerr.Config("record %s has no constructor", t.name)
	}
	for _, c := range t.components {
		if c.Meta == nil && v.s.metas.Lookup(t.name, c.Name) == nil {
			return randerr.Config("record %s: component %q has no metadata", t.name, c.Name)
		}
	}
	return v.members(t, "", t.components)
}

func (v *validator) object(t *Type) error {
	for _, c := range t.creators {
		if c.Weight < 0 {
			return randerr.Config("creator %q of %s: negative weight %d", c.Name, t.name, c.Weight)
		}
		if c.Invoke == nil {
			return randerr.Config("creator %q of %s: nil Invoke", c.Name, t.name)
		}
		if err := v.members(t, "creator "+c.Name, c.Params); err != nil {
			return err
		}
	}
	for _, c := range t.constructors {
		if c.Invoke == nil {
			return randerr.Config("constructor %q of %s: nil Invoke", c.Name, t.name)
		}
		if err := v.members(t, "constructor "+c.Name, c.Params); err != nil {
			return err
		}
	}
	for _, f := range t.fields {
		if f.Set == nil {
			return randerr.Config("field %s.%s: nil Set", t.name, f.Name)
		}
		if err := v.member(f.Type, v.s.metaOf(t, f.Member), t.name+"."+f.Name); err != nil {
			return err
		}
	}
	return nil
}

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
	"context"

	"github.com/google/uuid"

	"github.com/randsynth/randsynth/generator"
	"github.com/randsynth/randsynth/randerr"
	"github.com/randsynth/randsynth/rng"
)

// pick returns a uniformly chosen element of values.
func pick[T any](r rng.Source, values []T) T {
	return values[r.Intn(len(values))]
}

// signedAs converts v to the Go type of a signed kind.
func signedAs(k Kind, v int64) any {
	switch k {
	case KindInt:
		return int(v)
	case KindInt8:
		return int8(v)
	case KindInt16:
		return int16(v)
	case KindInt32:
		return int32(v)
	default:
		return v
	}
}

// unsignedAs converts v to the Go type of an unsigned kind.
func unsignedAs(k Kind, v uint64) any {
	switch k {
	case KindUint:
		return uint(v)
	case KindUint8:
		return uint8(v)
	case KindUint16:
		return uint16(v)
	case KindUint32:
		return uint32(v)
	default:
		return v
	}
}

// scalarValue synthesizes a value of a scalar or enum type. m was validated
// against t when the Synthesizer was created.
func scalarValue(ctx context.Context, r rng.Source, t *Type, m *Meta) (any, error) {
	switch k := t.kind; {
	case k.isSigned():
		if len(m.IntValues) > 0 {
			return signedAs(k, pick(r, m.IntValues)), nil
		}
		lo, hi := m.intRange(k)
		g, err := generator.NewRange(lo, hi)
		if err != nil {
			return nil, err
		}
		return signedAs(k, g.Draw(r)), nil

	case k.isUnsigned():
		if len(m.UintValues) > 0 {
			return unsignedAs(k, pick(r, m.UintValues)), nil
		}
		lo, hi := m.uintRange(k)
		g, err := generator.NewRange(lo, hi)
		if err != nil {
			return nil, err
		}
		return unsignedAs(k, g.Draw(r)), nil

	case k.isFloat():
		if len(m.FloatValues) > 0 {
			v := pick(r, m.FloatValues)
			if k == KindFloat32 {
				return float32(v), nil
			}
			return v, nil
		}
		lo, hi := m.floatRange()
		if k == KindFloat32 {
			g, err := generator.NewFloatRange(float32(lo), float32(hi))
			if err != nil {
				return nil, err
			}
			return g.Draw(r), nil
		}
		g, err := generator.NewFloatRange(lo, hi)
		if err != nil {
			return nil, err
		}
		return g.Draw(r), nil

	case k == KindBool:
		if m.BoolChance != nil {
			g, err := generator.Chance(*m.BoolChance)
			if err != nil {
				return nil, err
			}
			return g.Generate(ctx, r)
		}
		return r.Bool(), nil

	case k == KindRune:
		chars, err := m.chars()
		if err != nil {
			return nil, err
		}
		return chars.Generate(ctx, r)

	case k == KindString:
		if len(m.StringValues) > 0 {
			return pick(r, m.StringValues), nil
		}
		chars, err := m.chars()
		if err != nil {
			return nil, err
		}
		g, err := generator.String(chars, m.stringLengths())
		if err != nil {
			return nil, err
		}
		return g.Generate(ctx, r)

	case k == KindUUID:
		return generator.UUID().Generate(ctx, r)

	case k == KindEnum:
		if len(m.EnumValues) == 0 {
			return pick(r, t.consts).Value, nil
		}
		name := pick(r, m.EnumValues)
		for _, c := range t.consts {
			if c.Name == name {
				return c.Value, nil
			}
		}
		return nil, randerr.Gen("enum %s has no constant %q", t.name, name)
	}
	return nil, randerr.Gen("cannot synthesize %s of kind %s", t.name, t.kind)
}

// defaultValue is the value of a member which is not randomized.
func defaultValue(t *Type, m *Meta) any {
	switch k := t.kind; {
	case k.isSigned():
		return signedAs(k, m.DefaultInt)
	case k.isUnsigned():
		return unsignedAs(k, m.DefaultUint)
	case k == KindFloat32:
		return float32(m.DefaultFloat)
	case k == KindFloat64:
		return m.DefaultFloat
	case k == KindBool:
		return m.DefaultBool
	case k == KindRune:
		return m.DefaultChar
	case k == KindString:
		return m.DefaultString
	case k == KindUUID:
		return uuid.Nil
	case k == KindEnum:
		for _, c := range t.consts {
			if c.Name == m.DefaultEnum {
				return c.Value
			}
		}
		return t.zero
	case k.isContainer():
		return t.empty()
	default:
		return t.zero
	}
}

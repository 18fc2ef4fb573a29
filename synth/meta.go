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
	"math"
	"slices"
	"unicode"
	"unicode/utf8"

	"go.chromium.org/luci/common/errors"

	"github.com/randsynth/randsynth/generator"
	"github.com/randsynth/randsynth/randerr"
)

// Default bounds used when Meta leaves them unset.
const (
	DefaultDepth           = 3
	DefaultStringMinLength = 1
	DefaultStringMaxLength = 10
	DefaultFloatMin        = 0.0
	DefaultFloatMax        = 1.0
	DefaultContainerSize   = 1
)

// Meta constrains how values of a member are synthesized.
//
// Only the knobs relevant to the member's kind are used; container members
// pass their Meta down to their elements, keys and values. The zero Meta
// means "all defaults". Unset bounds are nil.
//
// Meta can be loaded from YAML, see MetaSet.
type Meta struct {
	// Randomize, if false, makes the member take its default value.
	Randomize *bool `yaml:"randomize,omitempty"`
	// Depth caps the remaining depth budget of the member. It never raises
	// the budget inherited from the parent.
	Depth *int `yaml:"depth_budget,omitempty"`

	IntMin     *int64  `yaml:"int_min,omitempty"`
	IntMax     *int64  `yaml:"int_max,omitempty"`
	IntValues  []int64 `yaml:"int_values,omitempty"`
	DefaultInt int64   `yaml:"default_int,omitempty"`

	UintMin     *uint64  `yaml:"uint_min,omitempty"`
	UintMax     *uint64  `yaml:"uint_max,omitempty"`
	UintValues  []uint64 `yaml:"uint_values,omitempty"`
	DefaultUint uint64   `yaml:"default_uint,omitempty"`

	FloatMin     *float64  `yaml:"float_min,omitempty"`
	FloatMax     *float64  `yaml:"float_max,omitempty"`
	FloatValues  []float64 `yaml:"float_values,omitempty"`
	DefaultFloat float64   `yaml:"default_float,omitempty"`

	CharMin     *rune  `yaml:"char_min,omitempty"`
	CharMax     *rune  `yaml:"char_max,omitempty"`
	CharValues  string `yaml:"char_values,omitempty"`
	DefaultChar rune   `yaml:"default_char,omitempty"`

	StringMinLength *int     `yaml:"string_min_length,omitempty"`
	StringMaxLength *int     `yaml:"string_max_length,omitempty"`
	StringValues    []string `yaml:"string_values,omitempty"`
	DefaultString   string   `yaml:"default_string,omitempty"`

	// BoolChance is the probability of true.
	BoolChance  *float64 `yaml:"bool_chance,omitempty"`
	DefaultBool bool     `yaml:"default_bool,omitempty"`

	EnumValues  []string `yaml:"enum_values,omitempty"`
	DefaultEnum string   `yaml:"default_enum,omitempty"`

	ContainerMinSize *int `yaml:"container_min_size,omitempty"`
	ContainerMaxSize *int `yaml:"container_max_size,omitempty"`
	ArrayMinLength   *int `yaml:"array_min_length,omitempty"`
	ArrayMaxLength   *int `yaml:"array_max_length,omitempty"`

	// Merge resolves map key collisions. Defaults to keeping the earlier
	// value.
	Merge generator.MergeFunc[any] `yaml:"-"`
	// Generator, if set, replaces synthesis of the member altogether.
	Generator generator.Generator[any] `yaml:"-"`
}

var noMeta = &Meta{}

func (m *Meta) randomize() bool { return m.Randomize == nil || *m.Randomize }

func (m *Meta) merge() generator.MergeFunc[any] {
	if m.Merge != nil {
		return m.Merge
	}
	return generator.KeepEarlier[any]
}

func orDefault[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}

func (m *Meta) stringLengths() generator.Sizes {
	return generator.Sizes{
		Min: orDefault(m.StringMinLength, DefaultStringMinLength),
		Max: orDefault(m.StringMaxLength, DefaultStringMaxLength),
	}
}

func (m *Meta) containerSizes() generator.Sizes {
	return generator.Sizes{
		Min: orDefault(m.ContainerMinSize, DefaultContainerSize),
		Max: orDefault(m.ContainerMaxSize, DefaultContainerSize),
	}
}

func (m *Meta) arrayLengths() generator.Sizes {
	return generator.Sizes{
		Min: orDefault(m.ArrayMinLength, DefaultContainerSize),
		Max: orDefault(m.ArrayMaxLength, DefaultContainerSize),
	}
}

func (m *Meta) floatRange() (lo, hi float64) {
	return orDefault(m.FloatMin, DefaultFloatMin), orDefault(m.FloatMax, DefaultFloatMax)
}

// chars returns the generator of runes for rune and string members.
func (m *Meta) chars() (generator.Generator[rune], error) {
	if m.CharValues != "" {
		return generator.OneOf([]rune(m.CharValues)...)
	}
	if m.CharMin == nil && m.CharMax == nil {
		return generator.AllChars, nil
	}
	return generator.NewCharRange(orDefault(m.CharMin, 0), orDefault(m.CharMax, unicode.MaxRune))
}

// signedBounds is the range of values representable by a signed kind.
func signedBounds(k Kind) (lo, hi int64) {
	switch k {
	case KindInt8:
		return math.MinInt8, math.MaxInt8
	case KindInt16:
		return math.MinInt16, math.MaxInt16
	case KindInt32:
		return math.MinInt32, math.MaxInt32
	case KindInt:
		return math.MinInt, math.MaxInt
	default:
		return math.MinInt64, math.MaxInt64
	}
}

// unsignedMax is the largest value representable by an unsigned kind.
func unsignedMax(k Kind) uint64 {
	switch k {
	case KindUint8:
		return math.MaxUint8
	case KindUint16:
		return math.MaxUint16
	case KindUint32:
		return math.MaxUint32
	case KindUint:
		return math.MaxUint
	default:
		return math.MaxUint64
	}
}

func (m *Meta) intRange(k Kind) (lo, hi int64) {
	lo, hi = signedBounds(k)
	return orDefault(m.IntMin, lo), orDefault(m.IntMax, hi)
}

func (m *Meta) uintRange(k Kind) (lo, hi uint64) {
	return orDefault(m.UintMin, 0), orDefault(m.UintMax, unsignedMax(k))
}

// validate checks that m is consistent and applicable to values of t. It
// descends into container elements, which share the Meta of the container.
func (m *Meta) validate(t *Type) error {
	if m.Depth != nil && *m.Depth < 0 {
		return randerr.Config("negative depth_budget %d", *m.Depth)
	}
	k := t.kind
	switch {
	case k.isSigned():
		lo, hi := signedBounds(k)
		min, max := m.intRange(k)
		if min > max {
			return randerr.Config("int_min %d > int_max %d", min, max)
		}
		if min < lo || max > hi {
			return randerr.Config("int range [%d, %d] is not representable as %s", min, max, k)
		}
		for _, v := range slices.Concat(m.IntValues, []int64{m.DefaultInt}) {
			if v < lo || v > hi {
				return randerr.Config("value %d is not representable as %s", v, k)
			}
		}
	case k.isUnsigned():
		hi := unsignedMax(k)
		min, max := m.uintRange(k)
		if min > max {
			return randerr.Config("uint_min %d > uint_max %d", min, max)
		}
		if max > hi {
			return randerr.Config("uint_max %d is not representable as %s", max, k)
		}
		for _, v := range slices.Concat(m.UintValues, []uint64{m.DefaultUint}) {
			if v > hi {
				return randerr.Config("value %d is not representable as %s", v, k)
			}
		}
	case k.isFloat():
		for _, v := range m.FloatValues {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return randerr.Config("float value %v is not finite", v)
			}
		}
		min, max := m.floatRange()
		if k == KindFloat32 {
			_, err := generator.NewFloatRange(float32(min), float32(max))
			return err
		}
		_, err := generator.NewFloatRange(min, max)
		return err
	case k == KindRune:
		if !utf8.ValidRune(m.DefaultChar) {
			return randerr.Config("default_char %U is not a valid rune", m.DefaultChar)
		}
		_, err := m.chars()
		return err
	case k == KindString:
		if len(m.StringValues) > 0 {
			return nil
		}
		if err := m.stringLengths().Validate(); err != nil {
			return errors.Fmt("string length: %w", err)
		}
		_, err := m.chars()
		return err
	case k == KindBool:
		if m.BoolChance != nil {
			_, err := generator.Chance(*m.BoolChance)
			return err
		}
	case k == KindEnum:
		if len(t.consts) == 0 {
			return randerr.Config("enum %s has no constants", t.name)
		}
	case k == KindArray:
		if err := m.arrayLengths().Validate(); err != nil {
			return errors.Fmt("array length: %w", err)
		}
		return m.validate(t.elem)
	case k == KindList || k == KindSet:
		if err := m.containerSizes().Validate(); err != nil {
			return errors.Fmt("container size: %w", err)
		}
		return m.validate(t.elem)
	case k == KindMap:
		if err := m.containerSizes().Validate(); err != nil {
			return errors.Fmt("container size: %w", err)
		}
		if err := m.validate(t.key); err != nil {
			return err
		}
		return m.validate(t.elem)
	}
	return nil
}

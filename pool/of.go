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
)

// OfOrdered returns an Ordered pool of constant values.
func OfOrdered[T any](values ...T) (*Ordered[T], error) {
	return NewOrderedBuilder[T]().Add(values...).Build()
}

// OfValues returns a Bundle pool of constant values. If shuffle is false,
// each value is drawn uniformly.
func OfValues[T any](shuffle bool, values ...T) (*Bundle[T], error) {
	return NewBundleBuilder[T](shuffle).Add(values...).Build()
}

// OfWeighted returns a Weighted pool of the generators, each with weight 1.
func OfWeighted[T any](gens ...generator.Generator[T]) (*Weighted[T], error) {
	return NewWeightedBuilder[T]().AddGenerator(gens...).Build()
}

// OfMultiple returns a Multiple pool of the generators, each always
// eligible.
func OfMultiple(gens ...generator.Generator[any]) (*Multiple, error) {
	return NewMultipleBuilder().AddGenerator(gens...).Build()
}

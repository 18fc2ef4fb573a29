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

// Package randerr defines the two kinds of errors produced by randsynth.
//
// Both are errtag tags, so callers check them with e.g.
// `randerr.Configuration.In(err)` and the original cause, if any, stays
// reachable through the standard errors.Is/As machinery.
package randerr

import (
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/errors/errtag"
)

// Configuration tags errors caused by invalid static configuration: bad
// bounds, out of range weights, too few pool items, mutating a finalized
// builder and so on. They are returned when something is constructed, never
// while generating values.
var Configuration = errtag.Make("randsynth: invalid configuration", true)

// Generation tags errors raised while generating a value, e.g. when no
// creator exists for a type or a named enum constant is unknown.
var Generation = errtag.Make("randsynth: generation failed", true)

// Config returns a new error tagged with Configuration.
func Config(format string, args ...any) error {
	return Configuration.Apply(errors.Fmt(format, args...))
}

// Gen returns a new error tagged with Generation.
func Gen(format string, args ...any) error {
	return Generation.Apply(errors.Fmt(format, args...))
}

// WrapGen annotates err and tags it with Generation.
//
// Returns nil if err is nil.
func WrapGen(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Generation.Apply(errors.Fmt(format+": %w", append(args, err)...))
}

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
	"io"
	"os"

	"go.chromium.org/luci/common/errors"
	"gopkg.in/yaml.v2"

	"github.com/randsynth/randsynth/randerr"
)

// MetaSet holds metadata for members of record and object types, keyed by
// "<type name>.<member name>", e.g.:
//
//	Person.age:
//	  int_min: 0
//	  int_max: 120
//	Person.name:
//	  string_values: [alice, bob]
//	Tree.children:
//	  container_max_size: 3
//	  depth_budget: 2
//
// Inline Member.Meta takes precedence over the MetaSet.
type MetaSet map[string]*Meta

// Lookup returns the metadata of the member of the named type or nil.
func (ms MetaSet) Lookup(typeName, member string) *Meta {
	return ms[typeName+"."+member]
}

// ParseMetaSet parses a YAML MetaSet. Unknown knobs are ignored, so the
// members they were meant for keep their defaults.
func ParseMetaSet(data []byte) (MetaSet, error) {
	ms := MetaSet{}
	if err := yaml.Unmarshal(data, &ms); err != nil {
		return nil, randerr.Configuration.Apply(errors.Fmt("bad metadata: %w", err))
	}
	for key, m := range ms {
		if m == nil {
			ms[key] = &Meta{}
		}
	}
	return ms, nil
}

// ReadMetaSet reads and parses a YAML MetaSet.
func ReadMetaSet(r io.Reader) (MetaSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Fmt("reading metadata: %w", err)
	}
	return ParseMetaSet(data)
}

// LoadMetaSet reads and parses a YAML MetaSet file.
func LoadMetaSet(path string) (MetaSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Fmt("opening metadata: %w", err)
	}
	defer f.Close()
	ms, err := ReadMetaSet(f)
	if err != nil {
		return nil, errors.Fmt("%s: %w", path, err)
	}
	return ms, nil
}

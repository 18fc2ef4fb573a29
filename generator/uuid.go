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

package generator

import (
	"context"

	"github.com/google/uuid"

	"github.com/randsynth/randsynth/rng"
)

// UUID returns a Generator of version 4 UUIDs drawn from the random stream,
// so a seeded stream yields reproducible UUIDs.
func UUID() Generator[uuid.UUID] {
	return Func[uuid.UUID](func(_ context.Context, r rng.Source) (uuid.UUID, error) {
		return uuid.NewRandomFromReader(rng.Reader(r))
	})
}

// Copyright 2025 Shelfwise Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package index

import (
	"fmt"

	"github.com/shelfwise/shelfwise/core"
)

// All index errors wrap core.ErrIndex so callers can classify them with a
// single errors.Is check.
var (
	// ErrDimensionMismatch indicates a vector whose length differs from the
	// configured index dimension.
	ErrDimensionMismatch = fmt.Errorf("%w: dimension mismatch", core.ErrIndex)

	// ErrMissingEmbedding indicates a document without an embedding was
	// passed to Build or Add.
	ErrMissingEmbedding = fmt.Errorf("%w: document has no embedding", core.ErrIndex)

	// ErrUnknownID indicates a lookup for a document id the index does not
	// hold.
	ErrUnknownID = fmt.Errorf("%w: unknown document id", core.ErrIndex)

	// ErrCorruptSnapshot indicates a persisted index snapshot that cannot be
	// reconstructed.
	ErrCorruptSnapshot = fmt.Errorf("%w: corrupt index snapshot", core.ErrIndex)
)

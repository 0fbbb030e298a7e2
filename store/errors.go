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

package store

import (
	"fmt"

	"github.com/shelfwise/shelfwise/core"
)

var (
	// ErrNotFound indicates that the requested document was not found.
	ErrNotFound = fmt.Errorf("%w: document not found", core.ErrIndex)

	// ErrTruncatedSnapshot indicates that a persisted artifact ended before
	// all of its declared records could be read.
	ErrTruncatedSnapshot = fmt.Errorf("%w: truncated snapshot", core.ErrIndex)

	// ErrCountMismatch indicates that a mapping artifact's declared record
	// count disagrees with the records it actually holds.
	ErrCountMismatch = fmt.Errorf("%w: record count mismatch", core.ErrIndex)

	// ErrSnapshotRead indicates that a persisted artifact could not be read
	// or parsed with the expected format.
	ErrSnapshotRead = fmt.Errorf("%w: unreadable snapshot", core.ErrIndex)

	// ErrSnapshotWrite indicates that a snapshot artifact could not be
	// written.
	ErrSnapshotWrite = fmt.Errorf("%w: snapshot write failed", core.ErrIndex)
)

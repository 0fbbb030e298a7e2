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

package catalog

import (
	"fmt"

	"github.com/shelfwise/shelfwise/core"
)

// MarshalBook serializes a Book to bytes.
func MarshalBook(book *core.Book) []byte {
	buf := make([]byte, core.BookMUS.Size(*book))
	core.BookMUS.Marshal(*book, buf)
	return buf
}

// UnmarshalBook deserializes a Book from bytes.
func UnmarshalBook(data []byte) (*core.Book, error) {
	book, _, err := core.BookMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &book, nil
}

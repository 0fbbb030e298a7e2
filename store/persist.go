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
	"encoding/binary"
	"fmt"
	"os"

	"github.com/shelfwise/shelfwise/core"
	"github.com/shelfwise/shelfwise/index"
)

// One logical snapshot is three artifacts under a shared base path: the
// exact structure, the partitioned structure, and the document mapping.
const (
	exactSuffix   = ".flat"
	approxSuffix  = ".ivf"
	mappingSuffix = ".mapping"
)

// The mapping artifact opens with a fixed-width record count; every record
// is a fixed-width length prefix followed by a serialized document.
const (
	countWidth  = 8
	prefixWidth = 4
)

func writeSnapshot(path string, exact *index.ExactSnapshot, approx *index.ApproxSnapshot, docs []*core.Document) error {
	if err := os.WriteFile(path+exactSuffix, MarshalExactSnapshot(exact), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotWrite, err)
	}
	if err := os.WriteFile(path+approxSuffix, MarshalApproxSnapshot(approx), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotWrite, err)
	}
	if err := os.WriteFile(path+mappingSuffix, marshalMapping(docs), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotWrite, err)
	}
	return nil
}

func marshalMapping(docs []*core.Document) []byte {
	size := countWidth
	for _, doc := range docs {
		size += prefixWidth + core.DocumentMUS.Size(*doc)
	}

	buf := make([]byte, size)
	binary.LittleEndian.PutUint64(buf, uint64(len(docs)))
	n := countWidth
	for _, doc := range docs {
		recordSize := core.DocumentMUS.Size(*doc)
		binary.LittleEndian.PutUint32(buf[n:], uint32(recordSize))
		n += prefixWidth
		n += core.DocumentMUS.Marshal(*doc, buf[n:])
	}
	return buf
}

func readSnapshot(path string) (*index.ExactSnapshot, *index.ApproxSnapshot, []*core.Document, error) {
	exactData, err := os.ReadFile(path + exactSuffix)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrSnapshotRead, err)
	}
	approxData, err := os.ReadFile(path + approxSuffix)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrSnapshotRead, err)
	}
	mappingData, err := os.ReadFile(path + mappingSuffix)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrSnapshotRead, err)
	}

	exact, err := UnmarshalExactSnapshot(exactData)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: exact structure: %w", ErrSnapshotRead, err)
	}
	approx, err := UnmarshalApproxSnapshot(approxData)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: partitioned structure: %w", ErrSnapshotRead, err)
	}
	docs, err := unmarshalMapping(mappingData)
	if err != nil {
		return nil, nil, nil, err
	}
	return exact, approx, docs, nil
}

func unmarshalMapping(data []byte) ([]*core.Document, error) {
	if len(data) < countWidth {
		return nil, fmt.Errorf("%w: mapping shorter than its count field", ErrTruncatedSnapshot)
	}
	count := binary.LittleEndian.Uint64(data)
	data = data[countWidth:]

	docs := make([]*core.Document, 0, count)
	for i := uint64(0); i < count; i++ {
		if len(data) < prefixWidth {
			return nil, fmt.Errorf("%w: mapping declares %d records, found %d", ErrCountMismatch, count, len(docs))
		}
		recordSize := int(binary.LittleEndian.Uint32(data))
		data = data[prefixWidth:]
		if len(data) < recordSize {
			return nil, fmt.Errorf("%w: record %d needs %d bytes, %d remain", ErrTruncatedSnapshot, i, recordSize, len(data))
		}
		doc, err := UnmarshalDocument(data[:recordSize])
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrSnapshotRead, i, err)
		}
		docs = append(docs, doc)
		data = data[recordSize:]
	}
	if len(data) != 0 {
		return nil, fmt.Errorf("%w: mapping declares %d records, found trailing data", ErrCountMismatch, count)
	}
	return docs, nil
}

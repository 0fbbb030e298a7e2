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
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/shelfwise/shelfwise/core"
	"github.com/shelfwise/shelfwise/index"
)

var (
	vectorMUS     = ord.NewSliceSer[float32](raw.Float32)
	vectorListMUS = ord.NewSliceSer[[]float32](vectorMUS)
	idListMUS     = ord.NewSliceSer[string](ord.String)
	boolListMUS   = ord.NewSliceSer[bool](ord.Bool)
	offsetsMUS    = ord.NewSliceSer[int](varint.Int)
	offsetListMUS = ord.NewSliceSer[[]int](offsetsMUS)
)

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalExactSnapshot serializes the exact index structure to bytes.
func MarshalExactSnapshot(snap *index.ExactSnapshot) []byte {
	buf := make([]byte, exactSnapshotMUS.Size(*snap))
	exactSnapshotMUS.Marshal(*snap, buf)
	return buf
}

// UnmarshalExactSnapshot deserializes the exact index structure from bytes.
func UnmarshalExactSnapshot(data []byte) (*index.ExactSnapshot, error) {
	snap, _, err := exactSnapshotMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// MarshalApproxSnapshot serializes the partitioned index structure to bytes.
func MarshalApproxSnapshot(snap *index.ApproxSnapshot) []byte {
	buf := make([]byte, approxSnapshotMUS.Size(*snap))
	approxSnapshotMUS.Marshal(*snap, buf)
	return buf
}

// UnmarshalApproxSnapshot deserializes the partitioned index structure from
// bytes.
func UnmarshalApproxSnapshot(data []byte) (*index.ApproxSnapshot, error) {
	snap, _, err := approxSnapshotMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

var (
	exactSnapshotMUS  = exactSnapshotSer{}
	approxSnapshotMUS = approxSnapshotSer{}
)

type exactSnapshotSer struct{}

func (s exactSnapshotSer) Marshal(snap index.ExactSnapshot, bs []byte) (n int) {
	n = varint.Int.Marshal(snap.Dim, bs)
	n += idListMUS.Marshal(snap.IDs, bs[n:])
	n += boolListMUS.Marshal(snap.Live, bs[n:])
	n += vectorListMUS.Marshal(snap.Vectors, bs[n:])
	return n
}

func (s exactSnapshotSer) Unmarshal(bs []byte) (snap index.ExactSnapshot, n int, err error) {
	snap.Dim, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return index.ExactSnapshot{}, n, err
	}
	var n1 int
	snap.IDs, n1, err = idListMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return index.ExactSnapshot{}, n, err
	}
	snap.Live, n1, err = boolListMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return index.ExactSnapshot{}, n, err
	}
	snap.Vectors, n1, err = vectorListMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return index.ExactSnapshot{}, n, err
	}
	return snap, n, nil
}

func (s exactSnapshotSer) Size(snap index.ExactSnapshot) (size int) {
	size = varint.Int.Size(snap.Dim)
	size += idListMUS.Size(snap.IDs)
	size += boolListMUS.Size(snap.Live)
	size += vectorListMUS.Size(snap.Vectors)
	return size
}

func (s exactSnapshotSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type approxSnapshotSer struct{}

func (s approxSnapshotSer) Marshal(snap index.ApproxSnapshot, bs []byte) (n int) {
	n = ord.Bool.Marshal(snap.Trained, bs)
	n += varint.Int.Marshal(snap.Partitions, bs[n:])
	n += varint.Int.Marshal(snap.Probes, bs[n:])
	n += vectorListMUS.Marshal(snap.Centroids, bs[n:])
	n += offsetListMUS.Marshal(snap.Lists, bs[n:])
	return n
}

func (s approxSnapshotSer) Unmarshal(bs []byte) (snap index.ApproxSnapshot, n int, err error) {
	snap.Trained, n, err = ord.Bool.Unmarshal(bs)
	if err != nil {
		return index.ApproxSnapshot{}, n, err
	}
	var n1 int
	snap.Partitions, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return index.ApproxSnapshot{}, n, err
	}
	snap.Probes, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return index.ApproxSnapshot{}, n, err
	}
	snap.Centroids, n1, err = vectorListMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return index.ApproxSnapshot{}, n, err
	}
	snap.Lists, n1, err = offsetListMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return index.ApproxSnapshot{}, n, err
	}
	return snap, n, nil
}

func (s approxSnapshotSer) Size(snap index.ApproxSnapshot) (size int) {
	size = ord.Bool.Size(snap.Trained)
	size += varint.Int.Size(snap.Partitions)
	size += varint.Int.Size(snap.Probes)
	size += vectorListMUS.Size(snap.Centroids)
	size += offsetListMUS.Size(snap.Lists)
	return size
}

func (s approxSnapshotSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

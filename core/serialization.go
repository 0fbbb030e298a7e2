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

package core

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the core types. Every serializer below is stateless,
// so the exported variables are safe for concurrent use.
var (
	ValueMUS    = valueMUS{}
	MetadataMUS = metadataMUS{}
	DocumentMUS = documentMUS{}
	BookMUS     = bookMUS{}
)

var (
	stringListMUS = ord.NewSliceSer[string](ord.String)
	embeddingMUS  = ord.NewSliceSer[float32](raw.Float32)
)

// valueMUS serializes a Value as a kind tag followed by the payload for
// that kind. Null carries no payload.
type valueMUS struct{}

func (s valueMUS) Marshal(v Value, bs []byte) (n int) {
	n = varint.Int.Marshal(int(v.kind), bs)
	switch v.kind {
	case KindString:
		n += ord.String.Marshal(v.str, bs[n:])
	case KindNumber:
		n += raw.Float64.Marshal(v.num, bs[n:])
	case KindBool:
		n += ord.Bool.Marshal(v.b, bs[n:])
	case KindStringList:
		n += stringListMUS.Marshal(v.list, bs[n:])
	}
	return n
}

func (s valueMUS) Unmarshal(bs []byte) (v Value, n int, err error) {
	kind, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return Value{}, n, err
	}
	v.kind = Kind(kind)
	var n1 int
	switch v.kind {
	case KindNull:
	case KindString:
		v.str, n1, err = ord.String.Unmarshal(bs[n:])
	case KindNumber:
		v.num, n1, err = raw.Float64.Unmarshal(bs[n:])
	case KindBool:
		v.b, n1, err = ord.Bool.Unmarshal(bs[n:])
	case KindStringList:
		v.list, n1, err = stringListMUS.Unmarshal(bs[n:])
	default:
		return Value{}, n, fmt.Errorf("unknown metadata value kind %d", kind)
	}
	n += n1
	if err != nil {
		return Value{}, n, err
	}
	return v, n, nil
}

func (s valueMUS) Size(v Value) (size int) {
	size = varint.Int.Size(int(v.kind))
	switch v.kind {
	case KindString:
		size += ord.String.Size(v.str)
	case KindNumber:
		size += raw.Float64.Size(v.num)
	case KindBool:
		size += ord.Bool.Size(v.b)
	case KindStringList:
		size += stringListMUS.Size(v.list)
	}
	return size
}

func (s valueMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

// metadataMUS serializes a Metadata mapping as an entry count followed by
// key/value pairs in insertion order, so a round trip preserves ordering.
type metadataMUS struct{}

func (s metadataMUS) Marshal(m Metadata, bs []byte) (n int) {
	n = varint.Int.Marshal(len(m.keys), bs)
	for _, key := range m.keys {
		n += ord.String.Marshal(key, bs[n:])
		n += ValueMUS.Marshal(m.values[key], bs[n:])
	}
	return n
}

func (s metadataMUS) Unmarshal(bs []byte) (m Metadata, n int, err error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return Metadata{}, n, err
	}
	if count < 0 {
		return Metadata{}, n, fmt.Errorf("negative metadata entry count %d", count)
	}
	var n1 int
	for i := 0; i < count; i++ {
		var key string
		key, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return Metadata{}, n, err
		}
		var v Value
		v, n1, err = ValueMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return Metadata{}, n, err
		}
		m.Set(key, v)
	}
	return m, n, nil
}

func (s metadataMUS) Size(m Metadata) (size int) {
	size = varint.Int.Size(len(m.keys))
	for _, key := range m.keys {
		size += ord.String.Size(key)
		size += ValueMUS.Size(m.values[key])
	}
	return size
}

func (s metadataMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

// documentMUS serializes a Document. The creation timestamp is stored as
// Unix nanoseconds in UTC.
type documentMUS struct{}

func (s documentMUS) Marshal(d Document, bs []byte) (n int) {
	n = ord.String.Marshal(d.ID, bs)
	n += ord.String.Marshal(d.Text, bs[n:])
	n += MetadataMUS.Marshal(d.Metadata, bs[n:])
	n += embeddingMUS.Marshal(d.Embedding, bs[n:])
	n += varint.Int64.Marshal(d.CreatedAt.UnixNano(), bs[n:])
	return n
}

func (s documentMUS) Unmarshal(bs []byte) (d Document, n int, err error) {
	d.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return Document{}, n, err
	}
	var n1 int
	d.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Document{}, n, err
	}
	d.Metadata, n1, err = MetadataMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Document{}, n, err
	}
	d.Embedding, n1, err = embeddingMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Document{}, n, err
	}
	var nanos int64
	nanos, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Document{}, n, err
	}
	d.CreatedAt = time.Unix(0, nanos).UTC()
	return d, n, nil
}

func (s documentMUS) Size(d Document) (size int) {
	size = ord.String.Size(d.ID)
	size += ord.String.Size(d.Text)
	size += MetadataMUS.Size(d.Metadata)
	size += embeddingMUS.Size(d.Embedding)
	size += varint.Int64.Size(d.CreatedAt.UnixNano())
	return size
}

func (s documentMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

// bookMUS serializes a Book field by field in declaration order.
type bookMUS struct{}

func (s bookMUS) Marshal(b Book, bs []byte) (n int) {
	n = ord.String.Marshal(b.ID, bs)
	n += ord.String.Marshal(b.Title, bs[n:])
	n += ord.String.Marshal(b.Author, bs[n:])
	n += stringListMUS.Marshal(b.Genres, bs[n:])
	n += ord.String.Marshal(b.Description, bs[n:])
	n += varint.Int.Marshal(b.PageCount, bs[n:])
	n += raw.Float64.Marshal(b.AverageRating, bs[n:])
	n += varint.Int.Marshal(b.RatingsCount, bs[n:])
	n += varint.Int.Marshal(b.ReviewCount, bs[n:])
	n += ord.String.Marshal(b.Series, bs[n:])
	n += ord.String.Marshal(b.Language, bs[n:])
	n += ord.String.Marshal(b.Publisher, bs[n:])
	n += ord.String.Marshal(b.PublicationDate, bs[n:])
	n += ord.String.Marshal(b.ISBN13, bs[n:])
	n += ord.Bool.Marshal(b.IsEbook, bs[n:])
	return n
}

func (s bookMUS) Unmarshal(bs []byte) (b Book, n int, err error) {
	var n1 int
	b.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return Book{}, n, err
	}
	b.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.Author, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.Genres, n1, err = stringListMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.PageCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.AverageRating, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.RatingsCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.ReviewCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.Series, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.Language, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.Publisher, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.PublicationDate, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.ISBN13, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	b.IsEbook, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return Book{}, n, err
	}
	return b, n, nil
}

func (s bookMUS) Size(b Book) (size int) {
	size = ord.String.Size(b.ID)
	size += ord.String.Size(b.Title)
	size += ord.String.Size(b.Author)
	size += stringListMUS.Size(b.Genres)
	size += ord.String.Size(b.Description)
	size += varint.Int.Size(b.PageCount)
	size += raw.Float64.Size(b.AverageRating)
	size += varint.Int.Size(b.RatingsCount)
	size += varint.Int.Size(b.ReviewCount)
	size += ord.String.Size(b.Series)
	size += ord.String.Size(b.Language)
	size += ord.String.Size(b.Publisher)
	size += ord.String.Size(b.PublicationDate)
	size += ord.String.Size(b.ISBN13)
	size += ord.Bool.Size(b.IsEbook)
	return size
}

func (s bookMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

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

import "errors"

// Error categories. Every error surfaced by the engine wraps exactly one of
// these, so callers can classify failures with errors.Is without depending on
// the package that produced them.
var (
	// ErrDataLoad indicates malformed or missing external catalog input.
	ErrDataLoad = errors.New("data load error")

	// ErrIndex indicates an index-level failure: dimension mismatch, unknown
	// document id, or corrupt persisted state.
	ErrIndex = errors.New("index error")

	// ErrQuery indicates a query pipeline failure that could not be recovered
	// by a documented fallback.
	ErrQuery = errors.New("query error")
)

// Metadata access errors.
var (
	// ErrMetadataMissing indicates a required metadata key is absent.
	ErrMetadataMissing = errors.New("metadata key missing")

	// ErrMetadataType indicates a metadata value has an unexpected type.
	ErrMetadataType = errors.New("metadata value has wrong type")
)

// Domain validation errors.
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidBook indicates a Book failed validation.
	ErrInvalidBook = errors.New("invalid book")

	// ErrEmptyID indicates the ID field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrRatingOutOfRange indicates an average rating outside [0, 5].
	ErrRatingOutOfRange = errors.New("average rating must be between 0 and 5")

	// ErrNegativeCount indicates a negative ratings or review count.
	ErrNegativeCount = errors.New("count cannot be negative")
)

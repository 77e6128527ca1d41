// Copyright 2025 Poiesic Systems
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

package storage

import "errors"

var (
	// ErrNotFound indicates that no listing, garage or log entry exists
	// under the requested ID.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidQuery indicates a query the store cannot run: a
	// non-positive limit, a negative offset, or a predicate on an unknown
	// field.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrSerializationFailed indicates a stored record could not be decoded.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData indicates a record ended before all its fields were
	// read.
	ErrTruncatedData = errors.New("truncated data")
)

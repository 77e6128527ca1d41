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

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/carprompt/core"
)

// Records are encoded field by field with mus-go primitives. Each record
// type has one encode function that runs twice: once against a sizer to
// allocate the buffer, then against a writer to fill it.

// sink receives encoded fields.
type sink interface {
	uint64(v uint64)
	int64(v int64)
	string(v string)
	bool(v bool)
	float64(v float64)
	float32(v float32)
}

type sizer struct{ n int }

func (s *sizer) uint64(v uint64)   { s.n += varint.Uint64.Size(v) }
func (s *sizer) int64(v int64)     { s.n += varint.Int64.Size(v) }
func (s *sizer) string(v string)   { s.n += ord.String.Size(v) }
func (s *sizer) bool(v bool)       { s.n += ord.Bool.Size(v) }
func (s *sizer) float64(v float64) { s.n += raw.Float64.Size(v) }
func (s *sizer) float32(v float32) { s.n += raw.Float32.Size(v) }

type writer struct {
	bs []byte
	n  int
}

func (w *writer) uint64(v uint64)   { w.n += varint.Uint64.Marshal(v, w.bs[w.n:]) }
func (w *writer) int64(v int64)     { w.n += varint.Int64.Marshal(v, w.bs[w.n:]) }
func (w *writer) string(v string)   { w.n += ord.String.Marshal(v, w.bs[w.n:]) }
func (w *writer) bool(v bool)       { w.n += ord.Bool.Marshal(v, w.bs[w.n:]) }
func (w *writer) float64(v float64) { w.n += raw.Float64.Marshal(v, w.bs[w.n:]) }
func (w *writer) float32(v float32) { w.n += raw.Float32.Marshal(v, w.bs[w.n:]) }

// reader decodes fields in order and remembers the first error.
type reader struct {
	bs  []byte
	n   int
	err error
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
}

func (r *reader) uint64() uint64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(r.bs[r.n:])
	r.n += n
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *reader) int64() int64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(r.bs[r.n:])
	r.n += n
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *reader) string() string {
	if r.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(r.bs[r.n:])
	r.n += n
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *reader) bool() bool {
	if r.err != nil {
		return false
	}
	v, n, err := ord.Bool.Unmarshal(r.bs[r.n:])
	r.n += n
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *reader) float64() float64 {
	if r.err != nil {
		return 0
	}
	v, n, err := raw.Float64.Unmarshal(r.bs[r.n:])
	r.n += n
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *reader) float32() float32 {
	if r.err != nil {
		return 0
	}
	v, n, err := raw.Float32.Unmarshal(r.bs[r.n:])
	r.n += n
	if err != nil {
		r.fail(err)
	}
	return v
}

// length reads a slice length and rejects one that could not fit in the
// remaining bytes, given each element takes at least minElemSize bytes.
func (r *reader) length(minElemSize int) int {
	l := r.uint64()
	if r.err != nil {
		return 0
	}
	if l > uint64((len(r.bs)-r.n)/minElemSize) {
		r.fail(ErrTruncatedData)
		return 0
	}
	return int(l)
}

func (r *reader) time() time.Time {
	micros := r.int64()
	return time.UnixMicro(micros).UTC()
}

func encodeTime(s sink, t time.Time) {
	s.int64(t.UnixMicro())
}

func encodeStrings(s sink, values []string) {
	s.uint64(uint64(len(values)))
	for _, v := range values {
		s.string(v)
	}
}

func (r *reader) strings() []string {
	l := r.length(1)
	if l == 0 {
		return nil
	}
	out := make([]string, l)
	for i := range out {
		out[i] = r.string()
	}
	return out
}

func encodeVector(s sink, v []float32) {
	s.uint64(uint64(len(v)))
	for _, f := range v {
		s.float32(f)
	}
}

func (r *reader) vector() []float32 {
	l := r.length(4)
	if l == 0 {
		return nil
	}
	out := make([]float32, l)
	for i := range out {
		out[i] = r.float32()
	}
	return out
}

func encodeListing(s sink, l *core.Listing) {
	s.uint64(uint64(l.Id))
	s.string(l.Title)
	s.string(l.Description)
	s.string(l.Make)
	s.string(l.Model)
	s.string(l.Variant)
	s.int64(int64(l.Year))
	s.float64(l.Price)
	s.bool(l.Mileage != nil)
	if l.Mileage != nil {
		s.int64(int64(*l.Mileage))
	}
	s.string(l.FuelType)
	s.string(l.Transmission)
	s.string(l.BodyType)
	s.int64(int64(l.Doors))
	s.string(l.Colour)
	s.bool(l.EngineSize != nil)
	if l.EngineSize != nil {
		s.float64(*l.EngineSize)
	}
	s.string(l.Location)
	s.string(l.Postcode)
	encodeStrings(s, l.Images)
	s.uint64(uint64(l.GarageId))
	encodeVector(s, l.Vector)
	encodeTime(s, l.InsertedAt)
	encodeTime(s, l.UpdatedAt)
}

func (r *reader) listing() *core.Listing {
	l := &core.Listing{}
	l.Id = core.ID(r.uint64())
	l.Title = r.string()
	l.Description = r.string()
	l.Make = r.string()
	l.Model = r.string()
	l.Variant = r.string()
	l.Year = int(r.int64())
	l.Price = r.float64()
	if r.bool() {
		l.Mileage = core.Ptr(int(r.int64()))
	}
	l.FuelType = r.string()
	l.Transmission = r.string()
	l.BodyType = r.string()
	l.Doors = int(r.int64())
	l.Colour = r.string()
	if r.bool() {
		l.EngineSize = core.Ptr(r.float64())
	}
	l.Location = r.string()
	l.Postcode = r.string()
	l.Images = r.strings()
	l.GarageId = core.ID(r.uint64())
	l.Vector = r.vector()
	l.InsertedAt = r.time()
	l.UpdatedAt = r.time()
	return l
}

func encodeGarage(s sink, g *core.Garage) {
	s.uint64(uint64(g.Id))
	s.string(g.Name)
	s.string(g.Email)
	s.string(g.Phone)
	s.string(g.Address)
	s.string(g.Postcode)
	encodeTime(s, g.InsertedAt)
}

func (r *reader) garage() *core.Garage {
	g := &core.Garage{}
	g.Id = core.ID(r.uint64())
	g.Name = r.string()
	g.Email = r.string()
	g.Phone = r.string()
	g.Address = r.string()
	g.Postcode = r.string()
	g.InsertedAt = r.time()
	return g
}

func encodeSearchLog(s sink, e *core.SearchLog) {
	s.uint64(uint64(e.Id))
	s.string(e.Prompt)
	s.string(e.ParsedFilters)
	s.int64(int64(e.ResultsCount))
	encodeTime(s, e.InsertedAt)
}

func (r *reader) searchLog() *core.SearchLog {
	e := &core.SearchLog{}
	e.Id = core.ID(r.uint64())
	e.Prompt = r.string()
	e.ParsedFilters = r.string()
	e.ResultsCount = int(r.int64())
	e.InsertedAt = r.time()
	return e
}

func marshal[T any](encode func(sink, T), v T) []byte {
	var sz sizer
	encode(&sz, v)
	w := writer{bs: make([]byte, sz.n)}
	encode(&w, v)
	return w.bs
}

func unmarshal[T any](data []byte, decode func(*reader) T) (T, error) {
	r := &reader{bs: data}
	if len(data) == 0 {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrSerializationFailed, ErrTruncatedData)
	}
	v := decode(r)
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return v, nil
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	return unmarshal(data, func(r *reader) core.ID { return core.ID(r.uint64()) })
}

// MarshalListing serializes a Listing to bytes.
func MarshalListing(listing *core.Listing) []byte {
	return marshal(encodeListing, listing)
}

// UnmarshalListing deserializes a Listing from bytes.
func UnmarshalListing(data []byte) (*core.Listing, error) {
	return unmarshal(data, (*reader).listing)
}

// MarshalGarage serializes a Garage to bytes.
func MarshalGarage(garage *core.Garage) []byte {
	return marshal(encodeGarage, garage)
}

// UnmarshalGarage deserializes a Garage from bytes.
func UnmarshalGarage(data []byte) (*core.Garage, error) {
	return unmarshal(data, (*reader).garage)
}

// MarshalSearchLog serializes a SearchLog to bytes.
func MarshalSearchLog(entry *core.SearchLog) []byte {
	return marshal(encodeSearchLog, entry)
}

// UnmarshalSearchLog deserializes a SearchLog from bytes.
func UnmarshalSearchLog(data []byte) (*core.SearchLog, error) {
	return unmarshal(data, (*reader).searchLog)
}

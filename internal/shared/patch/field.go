// Package patch models partial updates where a JSON field may be absent, null or set.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field records whether a JSON member was sent and, if so, whether it was null.
// Tag members with `json:",omitzero"` so absent fields are not encoded.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Set returns a present, non-null field.
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

// Clear returns a field explicitly set to null.
func Clear[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// IsZero reports an absent field.
func (f Field[T]) IsZero() bool {
	return !f.Present
}

// Get returns the value when the field is present and not null.
func (f Field[T]) Get() (T, bool) {
	if !f.Present || f.Null {
		var zero T
		return zero, false
	}
	return f.Value, true
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Null = true
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

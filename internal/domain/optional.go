package domain

import (
	"bytes"
	"encoding/json"
)

// Opt holds a value that may be absent. The zero Opt is absent.
//
// JSON null and a missing field both decode to an absent Opt. Use the
// omitzero tag option to leave absent values out of encoded payloads.
type Opt[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, ok: true}
}

func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Or returns the value, or def when absent.
func (o Opt[T]) Or(def T) T {
	if !o.ok {
		return def
	}
	return o.value
}

func (o Opt[T]) IsSome() bool {
	return o.ok
}

// IsZero reports absence; encoding/json consults it for omitzero.
func (o Opt[T]) IsZero() bool {
	return !o.ok
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Opt[T]{value: v, ok: true}
	return nil
}

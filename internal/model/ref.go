package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Ref is a reference that may arrive over the wire as a raw id string or as
// a populated object carrying an "id" field. Both shapes normalize to the
// plain id; the inline value is kept when present.
type Ref[T any] struct {
	ID     uuid.UUID
	Inline *T
}

// RefFromID builds an id-only reference.
func RefFromID[T any](id uuid.UUID) Ref[T] {
	return Ref[T]{ID: id}
}

// ResolveID returns the plain id regardless of which shape the reference
// arrived in.
func (r Ref[T]) ResolveID() uuid.UUID {
	return r.ID
}

func (r Ref[T]) IsZero() bool {
	return r.ID == uuid.Nil
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*r = Ref[T]{}
			return nil
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid reference id %q: %w", s, err)
		}
		*r = Ref[T]{ID: id}
		return nil
	}

	var probe struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("reference is neither an id string nor an object: %w", err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("failed to decode inline reference: %w", err)
	}

	*r = Ref[T]{ID: probe.ID, Inline: &value}
	return nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Inline != nil {
		return json.Marshal(r.Inline)
	}
	if r.ID == uuid.Nil {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID.String())
}

package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Word metadata validation errors.
var (
	ErrEmptyWordTerm = errors.New("word term cannot be empty")
)

// WordMeta carries the identity and scope attributes of a vocabulary
// word as seen by the selection policy. Dictionary content (readings,
// translations, example sentences) lives outside the engine.
type WordMeta struct {
	WordID       uuid.UUID  `json:"word_id"`
	Term         string     `json:"term"`
	SourceID     *uuid.UUID `json:"source_id,omitempty"`     // Source document the word came from, if any.
	CollectionID *uuid.UUID `json:"collection_id,omitempty"` // Named word collection, if any.
}

// Validate checks that the word metadata is usable for selection.
func (w WordMeta) Validate() error {
	if w.WordID == uuid.Nil {
		return ErrEmptyWordID
	}
	if w.Term == "" {
		return ErrEmptyWordTerm
	}
	return nil
}

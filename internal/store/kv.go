package store

import (
	"encoding/json"

	"github.com/just-rehan/vitality-companion/internal/errors"
)

// Load reads and deserializes the collection stored under key. A missing
// key or a blob that no longer unmarshals into T falls back to def without
// surfacing an error. There is no schema version field, so a shape change
// silently resets the collection to its defaults.
func Load[T any](s *Store, key string, def T) T {
	raw, err := s.GetKV(key)
	if err != nil {
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// Save serializes v and writes it under key. Unlike Load, a failed write is
// reported: the caller decides whether to surface it (an error toast) rather
// than silently dropping data.
func Save[T any](s *Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "STORE_002", "failed to serialize collection")
	}

	if err := s.SetKV(key, raw); err != nil {
		return errors.Wrap(err, "STORE_002", "failed to persist collection")
	}
	return nil
}

// Package preference persists the visitor's playback choice (player kind and server)
// behind a pluggable storage medium.
package preference

import (
	"encoding/json"

	"dario.cat/mergo"
	"github.com/Belphemur/Raznime/internal/apperrors"
	"github.com/Belphemur/Raznime/internal/config"
	"github.com/samber/mo"
)

// Key is the fixed storage key of the persisted preference.
const Key = "videoSettings"

// DefaultServer is used when neither the query nor the stored preference names one.
const DefaultServer = "gogocdn"

// Kind selects between the first-party and the embedded player.
type Kind string

const (
	KindDefault  Kind = "default"
	KindEmbedded Kind = "embedded"
)

// ParseKind reports whether raw names a known player kind.
func ParseKind(raw string) (Kind, bool) {
	switch Kind(raw) {
	case KindDefault, KindEmbedded:
		return Kind(raw), true
	}
	return "", false
}

// Preference is the persisted playback choice.
type Preference struct {
	PlayerType Kind   `json:"playerType"`
	Server     string `json:"server"`
}

// Default returns the preference used when nothing is stored.
func Default() Preference {
	return Preference{PlayerType: KindDefault, Server: DefaultServer}
}

// Medium is the key-value capability the store persists into.
type Medium interface {
	// Get returns the stored value, false when the key is absent.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// Store reads and writes the preference through a Medium. Writes replace the whole
// object; the last writer wins.
type Store struct {
	medium Medium
}

// NewStore creates a Store over m.
func NewStore(m Medium) *Store {
	return &Store{medium: m}
}

// Save serializes p under Key.
func (s *Store) Save(p Preference) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return &apperrors.ErrStorageAccess{Op: "encode", Key: Key, Err: err}
	}
	if err := s.medium.Set(Key, raw); err != nil {
		return &apperrors.ErrStorageAccess{Op: "set", Key: Key, Err: err}
	}
	return nil
}

// Load returns the stored preference with missing fields filled from Default and
// unknown fields ignored. Storage and decode failures are logged and reported as no value.
func (s *Store) Load() mo.Option[Preference] {
	logger := config.GetLogger()

	raw, ok, err := s.medium.Get(Key)
	if err != nil {
		logger.Warn().Err(&apperrors.ErrStorageAccess{Op: "get", Key: Key, Err: err}).Msg("Failed to read playback preference")
		return mo.None[Preference]()
	}
	if !ok {
		return mo.None[Preference]()
	}

	var p Preference
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.Warn().Err(&apperrors.ErrStorageAccess{Op: "decode", Key: Key, Err: err}).Msg("Discarding unreadable playback preference")
		return mo.None[Preference]()
	}
	if err := mergo.Merge(&p, Default()); err != nil {
		logger.Warn().Err(err).Msg("Failed to merge playback preference defaults")
		return mo.None[Preference]()
	}
	return mo.Some(p)
}

// LoadOrDefault returns the stored preference or Default.
func (s *Store) LoadOrDefault() Preference {
	return s.Load().OrElse(Default())
}

// Package slug encodes and decodes watch-page identifiers of the form
// "<animeId>-episode-<N>".
package slug

import (
	"strconv"
	"strings"
)

const marker = "episode"

// EpisodeSlug is the decoded form of a watch identifier.
type EpisodeSlug struct {
	AnimeID       string
	EpisodeNumber string
}

// Decode splits slug on "-". The last token is the episode number and every token
// before the episode marker (all but the last two) forms the anime id. It never fails:
// a slug with fewer than three segments yields an empty AnimeID.
func Decode(slug string) EpisodeSlug {
	parts := strings.Split(slug, "-")
	var animeID string
	if len(parts) > 2 {
		animeID = strings.Join(parts[:len(parts)-2], "-")
	}
	return EpisodeSlug{
		AnimeID:       animeID,
		EpisodeNumber: parts[len(parts)-1],
	}
}

// Encode builds the watch identifier for episode n of animeID.
func Encode(animeID string, n int) string {
	return animeID + "-" + marker + "-" + strconv.Itoa(n)
}

// Number parses EpisodeNumber. ok is false when it is not a positive integer.
func (s EpisodeSlug) Number() (n int, ok bool) {
	n, err := strconv.Atoi(s.EpisodeNumber)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Sibling returns the slug of the episode offset away from s within the same anime.
func (s EpisodeSlug) Sibling(offset int) (string, bool) {
	n, ok := s.Number()
	if !ok || s.AnimeID == "" || n+offset < 1 {
		return "", false
	}
	return Encode(s.AnimeID, n+offset), true
}

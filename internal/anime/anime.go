// Package anime holds the data shapes returned by the upstream catalog API and the
// helpers that turn them into list cards and episode lists.
package anime

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Anime is a search result entry.
type Anime struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	ReleaseDate string `json:"releaseDate"`
	SubOrDub    string `json:"subOrDub"`
}

// Movie is an entry of the movies and popular lists.
type Movie struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Image       string `json:"image"`
	URL         string `json:"url"`
	ReleaseDate string `json:"releaseDate"`
}

// TopAiring is an entry of the top-airing list.
type TopAiring struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Image         string   `json:"image"`
	URL           string   `json:"url"`
	Genres        []string `json:"genres"`
	EpisodeID     string   `json:"episodeId"`
	EpisodeNumber int      `json:"episodeNumber"`
}

// RecentEpisode is an entry of the recent-episodes list.
type RecentEpisode struct {
	ID            string `json:"id"`
	EpisodeID     string `json:"episodeId"`
	EpisodeNumber int    `json:"episodeNumber"`
	Title         string `json:"title"`
	Image         string `json:"image"`
	URL           string `json:"url"`
}

// GenreEntry is an entry of a genre listing.
type GenreEntry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	URL      string `json:"url"`
	Released string `json:"released"`
}

// Episode is one episode of an anime detail response.
type Episode struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	URL    string `json:"url"`
}

// Detail is the full record returned by the info endpoint.
type Detail struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Genres        []string  `json:"genres"`
	TotalEpisodes int       `json:"totalEpisodes"`
	Image         string    `json:"image"`
	ReleaseDate   string    `json:"releaseDate"`
	Description   string    `json:"description"`
	SubOrDub      string    `json:"subOrDub"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	OtherName     string    `json:"otherName"`
	Episodes      []Episode `json:"episodes"`
}

// StreamSource is a directly playable source for the default player.
type StreamSource struct {
	URL     string `json:"url"`
	IsM3U8  bool   `json:"isM3U8"`
	Quality string `json:"quality"`
}

// StreamingLinks is the watch endpoint response.
type StreamingLinks struct {
	Headers  json.RawMessage `json:"headers,omitempty"`
	Sources  []StreamSource  `json:"sources"`
	Download string          `json:"download"`
}

// EmbeddedServer is an alternative third-party player for an episode.
type EmbeddedServer struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PageNumber accepts the current page as either a JSON number or a numeric string.
type PageNumber int

// UnmarshalJSON implements json.Unmarshaler.
func (p *PageNumber) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	*p = PageNumber(n)
	return nil
}

// ListResponse is the paginated envelope of every list endpoint.
type ListResponse[T any] struct {
	CurrentPage PageNumber `json:"currentPage"`
	HasNextPage bool       `json:"hasNextPage"`
	Results     []T        `json:"results"`
}

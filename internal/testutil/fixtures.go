// Package testutil holds the fake upstream API and JSON fixtures shared by package tests.
package testutil

import (
	"fmt"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/config"
)

// Config returns a configuration pointing the gateway at baseURL.
func Config(baseURL string) *config.Config {
	return &config.Config{
		ConsumetAPIBaseURL: baseURL,
		PublicBaseURL:      "https://raznime.example",
		ClientTimeout:      "5s",
	}
}

// List wraps results in the paginated envelope.
func List[T any](page int, hasNext bool, results ...T) anime.ListResponse[T] {
	if results == nil {
		results = []T{}
	}
	return anime.ListResponse[T]{CurrentPage: anime.PageNumber(page), HasNextPage: hasNext, Results: results}
}

// RecentEpisodes builds n recent-episode entries starting at offset.
func RecentEpisodes(offset, n int) []anime.RecentEpisode {
	out := make([]anime.RecentEpisode, n)
	for i := range out {
		id := fmt.Sprintf("anime-%d", offset+i)
		out[i] = anime.RecentEpisode{
			ID:            id,
			EpisodeID:     fmt.Sprintf("%s-episode-%d", id, i+1),
			EpisodeNumber: i + 1,
			Title:         fmt.Sprintf("Anime %d", offset+i),
			Image:         fmt.Sprintf("https://img.example/%s.jpg", id),
		}
	}
	return out
}

// Movies builds n movie entries starting at offset.
func Movies(offset, n int) []anime.Movie {
	out := make([]anime.Movie, n)
	for i := range out {
		id := fmt.Sprintf("movie-%d", offset+i)
		out[i] = anime.Movie{ID: id, Title: fmt.Sprintf("Movie %d", offset+i), Image: "https://img.example/" + id + ".jpg", ReleaseDate: "2023"}
	}
	return out
}

// Detail builds an anime detail record with episodes 1..episodes.
func Detail(id string, episodes int) anime.Detail {
	eps := make([]anime.Episode, episodes)
	for i := range eps {
		eps[i] = anime.Episode{ID: fmt.Sprintf("%s-episode-%d", id, i+1), Number: i + 1}
	}
	return anime.Detail{
		ID:            id,
		Title:         "Title of " + id,
		Genres:        []string{"Action", "Adventure"},
		TotalEpisodes: episodes,
		Image:         "https://img.example/" + id + ".jpg",
		ReleaseDate:   "1999",
		Description:   "Description of " + id,
		SubOrDub:      "sub",
		Type:          "TV Series",
		Status:        "Ongoing",
		Episodes:      eps,
	}
}

// StreamingLinks builds a watch response with a default quality source at url.
func StreamingLinks(url string) anime.StreamingLinks {
	return anime.StreamingLinks{
		Sources: []anime.StreamSource{
			{URL: url + "/720.m3u8", IsM3U8: true, Quality: "720p"},
			{URL: url, IsM3U8: true, Quality: "default"},
		},
		Download: "https://download.example/episode",
	}
}

// Servers builds an embedded-servers response.
func Servers(names ...string) []anime.EmbeddedServer {
	out := make([]anime.EmbeddedServer, len(names))
	for i, n := range names {
		out[i] = anime.EmbeddedServer{Name: n, URL: "https://embed.example/" + n}
	}
	return out
}

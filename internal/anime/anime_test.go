package anime

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListResponse_CurrentPageNumberOrString(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected PageNumber
	}{
		{name: "number", body: `{"currentPage":3,"hasNextPage":true,"results":[]}`, expected: 3},
		{name: "string", body: `{"currentPage":"4","hasNextPage":true,"results":[]}`, expected: 4},
		{name: "missing", body: `{"hasNextPage":false,"results":[]}`, expected: 0},
		{name: "null", body: `{"currentPage":null,"results":[]}`, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp ListResponse[Anime]
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if resp.CurrentPage != tt.expected {
				t.Errorf("CurrentPage = %d, want %d", resp.CurrentPage, tt.expected)
			}
		})
	}
}

func TestListResponse_InvalidCurrentPage(t *testing.T) {
	var resp ListResponse[Movie]
	if err := json.Unmarshal([]byte(`{"currentPage":"three"}`), &resp); err == nil {
		t.Fatal("Expected an error for a non numeric currentPage")
	}
}

func TestStreamingLinks_HeadersKeptRaw(t *testing.T) {
	body := `{"headers":{"Referer":"https://gogo.example"},"sources":[{"url":"A","isM3U8":true,"quality":"default"}],"download":"https://dl.example/1"}`
	var links StreamingLinks
	if err := json.Unmarshal([]byte(body), &links); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want := []StreamSource{{URL: "A", IsM3U8: true, Quality: "default"}}
	if diff := cmp.Diff(want, links.Sources); diff != "" {
		t.Errorf("Sources mismatch (-want +got):\n%s", diff)
	}
	if string(links.Headers) != `{"Referer":"https://gogo.example"}` {
		t.Errorf("Unexpected headers %s", links.Headers)
	}
}

func TestCards(t *testing.T) {
	recent := []RecentEpisode{
		{ID: "one-piece", EpisodeID: "one-piece-episode-1100", EpisodeNumber: 1100, Title: "One Piece", Image: "op.png"},
	}
	movies := []Movie{{ID: "your-name", Title: "Your Name", Image: "yn.png", ReleaseDate: "2016"}}
	search := []Anime{{ID: "naruto", Title: "Naruto", ReleaseDate: "2002", SubOrDub: "sub"}}

	if diff := cmp.Diff([]Card{{
		ID: "one-piece-episode-1100", Title: "One Piece", Image: "op.png", Label: "Episode 1100", Href: "/watch/one-piece-episode-1100",
	}}, Cards(recent)); diff != "" {
		t.Errorf("recent cards mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Card{{
		ID: "your-name", Title: "Your Name", Image: "yn.png", Label: "2016", Href: "/detail/your-name",
	}}, Cards(movies)); diff != "" {
		t.Errorf("movie cards mismatch (-want +got):\n%s", diff)
	}
	if got := Cards(search)[0].Label; got != "2002 · sub" {
		t.Errorf("search card label = %q", got)
	}
}

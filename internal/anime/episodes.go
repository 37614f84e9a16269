package anime

import (
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Episode list display limits.
const (
	DefaultDisplayedEpisodes = 40
	DisplayedEpisodesStep    = 16
	DetailDisplayedEpisodes  = 24
)

// SortOrder is the direction of an episode list.
type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

// ParseSortOrder returns SortAsc only for "asc"; anything else sorts descending.
func ParseSortOrder(raw string) SortOrder {
	if strings.EqualFold(raw, string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// SortEpisodes returns a sorted copy of episodes.
func SortEpisodes(episodes []Episode, order SortOrder) []Episode {
	sorted := slices.Clone(episodes)
	slices.SortStableFunc(sorted, func(a, b Episode) int {
		if order == SortAsc {
			return a.Number - b.Number
		}
		return b.Number - a.Number
	})
	return sorted
}

// FilterEpisodes keeps episodes whose number contains query as a substring.
// An empty query keeps everything.
func FilterEpisodes(episodes []Episode, query string) []Episode {
	query = strings.TrimSpace(query)
	if query == "" {
		return episodes
	}
	return lo.Filter(episodes, func(e Episode, _ int) bool {
		return strings.Contains(strconv.Itoa(e.Number), query)
	})
}

// EpisodeWindow is the visible slice of an episode list plus the "show more" bookkeeping.
type EpisodeWindow struct {
	Episodes []Episode
	Shown    int
	Total    int
	HasMore  bool
	NextShow int
}

// Window limits episodes to the first shown entries. Non-positive shown uses the default.
func Window(episodes []Episode, shown int) EpisodeWindow {
	if shown <= 0 {
		shown = DefaultDisplayedEpisodes
	}
	total := len(episodes)
	visible := episodes
	if shown < total {
		visible = episodes[:shown]
	}
	return EpisodeWindow{
		Episodes: visible,
		Shown:    len(visible),
		Total:    total,
		HasMore:  shown < total,
		NextShow: shown + DisplayedEpisodesStep,
	}
}

// FindEpisode looks an episode up by id in the catalog.
func FindEpisode(episodes []Episode, id string) (Episode, bool) {
	return lo.Find(episodes, func(e Episode) bool {
		return e.ID == id
	})
}

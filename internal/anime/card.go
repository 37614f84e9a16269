package anime

import (
	"fmt"

	"github.com/samber/lo"
)

// Card is the uniform entry rendered by every list page.
type Card struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Carder is implemented by every list entry type.
type Carder interface {
	Card() Card
}

// Cards converts a page of list entries into cards, preserving order.
func Cards[T Carder](items []T) []Card {
	return lo.Map(items, func(item T, _ int) Card {
		return item.Card()
	})
}

func (a Anime) Card() Card {
	label := a.ReleaseDate
	if a.SubOrDub != "" {
		label = fmt.Sprintf("%s · %s", a.ReleaseDate, a.SubOrDub)
	}
	return Card{ID: a.ID, Title: a.Title, Image: a.Image, Label: label, Href: "/detail/" + a.ID}
}

func (m Movie) Card() Card {
	return Card{ID: m.ID, Title: m.Title, Image: m.Image, Label: m.ReleaseDate, Href: "/detail/" + m.ID}
}

func (t TopAiring) Card() Card {
	return Card{ID: t.ID, Title: t.Title, Image: t.Image, Label: fmt.Sprintf("Episode %d", t.EpisodeNumber), Href: "/detail/" + t.ID}
}

// Card links recent episodes straight to the watch page.
func (r RecentEpisode) Card() Card {
	return Card{ID: r.EpisodeID, Title: r.Title, Image: r.Image, Label: fmt.Sprintf("Episode %d", r.EpisodeNumber), Href: "/watch/" + r.EpisodeID}
}

func (g GenreEntry) Card() Card {
	return Card{ID: g.ID, Title: g.Title, Image: g.Image, Label: g.Released, Href: "/detail/" + g.ID}
}

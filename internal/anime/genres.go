package anime

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Genre is a browsable genre of the catalog.
type Genre struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Genres lists every genre the upstream genre endpoint accepts, ordered by title.
var Genres = []Genre{
	{ID: "action", Title: "Action"},
	{ID: "adult-cast", Title: "Adult Cast"},
	{ID: "adventure", Title: "Adventure"},
	{ID: "anthropomorphic", Title: "Anthropomorphic"},
	{ID: "avant-garde", Title: "Avant Garde"},
	{ID: "shounen-ai", Title: "Boys Love"},
	{ID: "cars", Title: "Cars"},
	{ID: "cgdct", Title: "CGDCT"},
	{ID: "childcare", Title: "Childcare"},
	{ID: "comedy", Title: "Comedy"},
	{ID: "comic", Title: "Comic"},
	{ID: "crime", Title: "Crime"},
	{ID: "crossdressing", Title: "Crossdressing"},
	{ID: "delinquents", Title: "Delinquents"},
	{ID: "dementia", Title: "Dementia"},
	{ID: "demons", Title: "Demons"},
	{ID: "detective", Title: "Detective"},
	{ID: "drama", Title: "Drama"},
	{ID: "dub", Title: "Dub"},
	{ID: "ecchi", Title: "Ecchi"},
	{ID: "erotica", Title: "Erotica"},
	{ID: "family", Title: "Family"},
	{ID: "fantasy", Title: "Fantasy"},
	{ID: "gag-humor", Title: "Gag Humor"},
	{ID: "game", Title: "Game"},
	{ID: "gender-bender", Title: "Gender Bender"},
	{ID: "gore", Title: "Gore"},
	{ID: "gourmet", Title: "Gourmet"},
	{ID: "harem", Title: "Harem"},
	{ID: "high-stakes-game", Title: "High Stakes Game"},
	{ID: "historical", Title: "Historical"},
	{ID: "horror", Title: "Horror"},
	{ID: "isekai", Title: "Isekai"},
	{ID: "iyashikei", Title: "Iyashikei"},
	{ID: "josei", Title: "Josei"},
	{ID: "kids", Title: "Kids"},
	{ID: "love-polygon", Title: "Love Polygon"},
	{ID: "magic", Title: "Magic"},
	{ID: "magical-sex-shift", Title: "Magical Sex Shift"},
	{ID: "mahou-shoujo", Title: "Mahou Shoujo"},
	{ID: "martial-arts", Title: "Martial Arts"},
	{ID: "mecha", Title: "Mecha"},
	{ID: "medical", Title: "Medical"},
	{ID: "military", Title: "Military"},
	{ID: "music", Title: "Music"},
	{ID: "mystery", Title: "Mystery"},
	{ID: "mythology", Title: "Mythology"},
	{ID: "organized-crime", Title: "Organized Crime"},
	{ID: "parody", Title: "Parody"},
	{ID: "performing-arts", Title: "Performing Arts"},
	{ID: "pets", Title: "Pets"},
	{ID: "police", Title: "Police"},
	{ID: "psychological", Title: "Psychological"},
	{ID: "racing", Title: "Racing"},
	{ID: "reincarnation", Title: "Reincarnation"},
	{ID: "romance", Title: "Romance"},
	{ID: "romantic-subtext", Title: "Romantic Subtext"},
	{ID: "samurai", Title: "Samurai"},
	{ID: "school", Title: "School"},
	{ID: "sci-fi", Title: "Sci-Fi"},
	{ID: "seinen", Title: "Seinen"},
	{ID: "shoujo", Title: "Shoujo"},
	{ID: "shoujo-ai", Title: "Shoujo Ai"},
	{ID: "shounen", Title: "Shounen"},
	{ID: "showbiz", Title: "Showbiz"},
	{ID: "slice-of-life", Title: "Slice of Life"},
	{ID: "space", Title: "Space"},
	{ID: "sports", Title: "Sports"},
	{ID: "strategy-game", Title: "Strategy Game"},
	{ID: "super-power", Title: "Super Power"},
	{ID: "supernatural", Title: "Supernatural"},
	{ID: "survival", Title: "Survival"},
	{ID: "suspense", Title: "Suspense"},
	{ID: "team-sports", Title: "Team Sports"},
	{ID: "thriller", Title: "Thriller"},
	{ID: "time-travel", Title: "Time Travel"},
	{ID: "vampire", Title: "Vampire"},
	{ID: "video-game", Title: "Video Game"},
	{ID: "visual-arts", Title: "Visual Arts"},
	{ID: "work-life", Title: "Work Life"},
	{ID: "workplace", Title: "Workplace"},
}

// FindGenre looks up a genre by id. Unknown ids get a title derived from the id so
// pages for genres missing from the list still render.
func FindGenre(id string) (Genre, bool) {
	if g, ok := lo.Find(Genres, func(g Genre) bool { return g.ID == id }); ok {
		return g, true
	}
	return Genre{ID: id, Title: TitleFromID(id)}, false
}

// TitleFromID turns a hyphenated id into a title cased label.
func TitleFromID(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "-", " "))
}

// FilterGenres keeps genres whose title fuzzily matches query, case-insensitively.
func FilterGenres(genres []Genre, query string) []Genre {
	query = strings.TrimSpace(query)
	if query == "" {
		return genres
	}
	return lo.Filter(genres, func(g Genre, _ int) bool {
		return fuzzy.MatchNormalizedFold(query, g.Title) || fuzzy.MatchNormalizedFold(query, g.ID)
	})
}

// GenreGroup is a run of genres sharing the same first letter.
type GenreGroup struct {
	Letter string
	Genres []Genre
}

// GroupGenres groups genres by the upper-cased first letter of their title, letters ascending.
func GroupGenres(genres []Genre) []GenreGroup {
	grouped := lo.GroupBy(genres, func(g Genre) string {
		for _, r := range g.Title {
			return string(unicode.ToUpper(r))
		}
		return "#"
	})
	letters := lo.Keys(grouped)
	sort.Strings(letters)
	return lo.Map(letters, func(letter string, _ int) GenreGroup {
		return GenreGroup{Letter: letter, Genres: grouped[letter]}
	})
}

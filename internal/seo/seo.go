// Package seo builds the document metadata of every page.
package seo

import (
	"fmt"
	"strings"
)

const (
	SiteName           = "Raznime"
	DefaultTitle       = "Raznime - Stream Anime Online"
	DefaultDescription = "Raznime is your ultimate destination for streaming the latest and greatest anime series, offering a vast library of subbed and dubbed anime series and movies. Indulge in your favorite anime without the hassle of registration or ads, unveiling a world of limitless entertainment, and immerse yourself in captivating stories like never before."
	TwitterDescription = "Your Gateway to Anime Awesomeness"

	mainImagePath = "/images/metadata-main-image.png"
	mainImageSize = 500
)

var baseKeywords = []string{"anime", "watch", "stream", "streaming", "download"}

// Image is an Open Graph or Twitter card image.
type Image struct {
	URL    string
	Width  int
	Height int
}

// Card is the Open Graph or Twitter part of the metadata.
type Card struct {
	Title       string
	Description string
	URL         string
	Images      []Image
}

// Robots are the crawler directives.
type Robots struct {
	Index   bool
	Follow  bool
	NoCache bool
}

// Content renders the directives as a robots meta content value.
func (r Robots) Content() string {
	parts := make([]string, 0, 3)
	if r.Index {
		parts = append(parts, "index")
	} else {
		parts = append(parts, "noindex")
	}
	if r.Follow {
		parts = append(parts, "follow")
	} else {
		parts = append(parts, "nofollow")
	}
	if r.NoCache {
		parts = append(parts, "nocache")
	}
	return strings.Join(parts, ", ")
}

// Metadata is everything rendered in a page head.
type Metadata struct {
	Title       string
	Description string
	Keywords    []string
	OpenGraph   Card
	Twitter     Card
	Robots      Robots
}

// KeywordList joins the keywords for the keywords meta tag.
func (m Metadata) KeywordList() string {
	return strings.Join(m.Keywords, ",")
}

// Params are the page specific inputs. Empty fields fall back to the site defaults.
type Params struct {
	Title       string
	Description string
	Keywords    []string
	// OpenGraph and Twitter replace the default cards when non-nil.
	OpenGraph *Card
	Twitter   *Card
}

// Builder fills metadata defaults for one deployment.
type Builder struct {
	baseURL string
}

// NewBuilder creates a builder whose default image lives under publicBaseURL.
func NewBuilder(publicBaseURL string) *Builder {
	return &Builder{baseURL: strings.TrimRight(publicBaseURL, "/")}
}

// BaseURL is the public origin of the site.
func (b *Builder) BaseURL() string {
	return b.baseURL
}

// Build merges p over the defaults.
func (b *Builder) Build(p Params) Metadata {
	title := p.Title
	if title == "" {
		title = DefaultTitle
	}
	description := p.Description
	if description == "" {
		description = DefaultDescription
	}

	mainImage := []Image{{URL: b.baseURL + mainImagePath, Width: mainImageSize, Height: mainImageSize}}

	og := Card{Title: title, Description: description, Images: mainImage}
	if p.OpenGraph != nil {
		og = *p.OpenGraph
	}

	twitter := Card{Title: p.Title, Description: p.Description, Images: mainImage}
	if twitter.Title == "" {
		twitter.Title = SiteName
	}
	if twitter.Description == "" {
		twitter.Description = TwitterDescription
	}
	if p.Twitter != nil {
		twitter = *p.Twitter
	}

	return Metadata{
		Title:       title,
		Description: description,
		Keywords:    append(append([]string(nil), baseKeywords...), p.Keywords...),
		OpenGraph:   og,
		Twitter:     twitter,
		Robots:      Robots{Index: true, Follow: true, NoCache: true},
	}
}

// PageTitle appends the site suffix to a page name.
func PageTitle(name string) string {
	return fmt.Sprintf("%s - %s", name, DefaultTitle)
}

// Media builds the metadata of a page about a single anime: its detail or one of its
// episodes. An empty name renders the not-found title.
func (b *Builder) Media(name, description, image, path string, genres []string) Metadata {
	if name == "" {
		name = "Not Found"
	}
	title := PageTitle(name)
	images := []Image{{URL: image, Width: 300, Height: 400}}
	return b.Build(Params{
		Title:       title,
		Description: description,
		Keywords:    genres,
		OpenGraph:   &Card{Title: title, Description: description, URL: b.baseURL + path, Images: images},
		Twitter:     &Card{Title: title, Description: description, Images: images},
	})
}

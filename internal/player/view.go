package player

import (
	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/preference"
	"github.com/samber/lo"
)

// ServerButton is one entry of the default or other servers row.
type ServerButton struct {
	Kind     preference.Kind `json:"playerType"`
	Name     string          `json:"name"`
	URL      string          `json:"url"`
	Selected bool            `json:"selected"`
}

// View is everything a watch page renders about playback. At most one of Source,
// Embedded and Error is set; when none is and Loading is false nothing is playable.
type View struct {
	EpisodeID     string          `json:"episodeId"`
	AnimeID       string          `json:"animeId"`
	EpisodeNumber string          `json:"episodeNumber"`
	Kind          preference.Kind `json:"playerType"`
	Server        string          `json:"server"`
	FetchServer   string          `json:"fetchServer"`
	URL           string          `json:"url"`

	Loading  bool                  `json:"loading"`
	Source   *anime.StreamSource   `json:"source,omitempty"`
	Embedded *anime.EmbeddedServer `json:"embedded,omitempty"`
	Error    string                `json:"error,omitempty"`
	Download string                `json:"download,omitempty"`

	DefaultServers []ServerButton `json:"defaultServers"`
	OtherServers   []ServerButton `json:"otherServers"`

	PrevEpisodeID string `json:"prevEpisodeId,omitempty"`
	NextEpisodeID string `json:"nextEpisodeId,omitempty"`
	SelfCorrected bool   `json:"selfCorrected"`
}

// View renders the current state. Failures of the inactive kind never surface here.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		EpisodeID:     m.episodeID,
		AnimeID:       m.slug.AnimeID,
		EpisodeNumber: m.slug.EpisodeNumber,
		Kind:          m.sel.Kind,
		Server:        m.sel.Server,
		FetchServer:   m.sel.FetchServer,
		URL:           m.url(),
		SelfCorrected: m.corrected,
	}
	if m.links != nil {
		v.Download = m.links.Download
	}
	v.PrevEpisodeID, _ = m.sibling(-1)
	v.NextEpisodeID, _ = m.sibling(1)

	v.DefaultServers = lo.Map(DefaultServers, func(name string, _ int) ServerButton {
		return ServerButton{
			Kind:     preference.KindDefault,
			Name:     name,
			URL:      watchURL(m.episodeID, preference.KindDefault, name),
			Selected: m.sel.Kind == preference.KindDefault && name == m.sel.FetchServer,
		}
	})
	v.OtherServers = lo.Map(m.servers, func(s anime.EmbeddedServer, _ int) ServerButton {
		return ServerButton{
			Kind:     preference.KindEmbedded,
			Name:     s.Name,
			URL:      watchURL(m.episodeID, preference.KindEmbedded, s.Name),
			Selected: m.sel.Kind == preference.KindEmbedded && s.Name == m.sel.Server,
		}
	})

	switch m.sel.Kind {
	case preference.KindEmbedded:
		m.embeddedView(&v)
	default:
		m.defaultView(&v)
	}
	return v
}

func (m *Machine) defaultView(v *View) {
	state := m.defaultState
	switch {
	case state.loading:
		v.Loading = true
	case state.failed:
		v.Error = failureMessage(state.err, m.sel.FetchServer)
	case m.links != nil:
		if src, ok := lo.Find(m.links.Sources, func(s anime.StreamSource) bool { return s.Quality == "default" }); ok {
			v.Source = &src
		}
	}
}

func (m *Machine) embeddedView(v *View) {
	state := m.embeddedState
	switch {
	case state.loading:
		v.Loading = true
	case state.failed:
		v.Error = failureMessage(state.err, m.sel.Server)
	default:
		if srv, ok := lo.Find(m.servers, func(s anime.EmbeddedServer) bool { return s.Name == m.sel.Server }); ok {
			v.Embedded = &srv
		}
	}
}

func failureMessage(upstream, server string) string {
	if upstream != "" {
		return upstream
	}
	return "Cannot connect to " + server
}

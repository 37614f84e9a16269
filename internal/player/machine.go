package player

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/config"
	"github.com/Belphemur/Raznime/internal/gateway"
	"github.com/Belphemur/Raznime/internal/metrics"
	"github.com/Belphemur/Raznime/internal/preference"
	"github.com/Belphemur/Raznime/internal/slug"
	"github.com/samber/lo"
)

// Sources fetches the per-episode data both players need.
type Sources interface {
	StreamingLinks(ctx context.Context, episodeID, server string) gateway.Response[anime.StreamingLinks]
	OtherServers(ctx context.Context, episodeID string) gateway.Response[[]anime.EmbeddedServer]
}

type fetchState struct {
	loading bool
	failed  bool
	err     string
}

func (f *fetchState) finish(isError bool, message string) {
	f.loading = false
	f.failed = isError
	f.err = message
}

// Machine tracks source selection for one episode. It is safe for concurrent use.
type Machine struct {
	mu sync.Mutex

	episodeID string
	slug      slug.EpisodeSlug
	episodes  []anime.Episode
	store     *preference.Store
	sel       Selection

	defaultState  fetchState
	embeddedState fetchState
	links         *anime.StreamingLinks
	servers       []anime.EmbeddedServer
	corrected     bool
}

// New resolves the selection for episodeID from the stored preference and q. Both
// fetches start out loading.
func New(episodeID string, episodes []anime.Episode, store *preference.Store, q Query) *Machine {
	return &Machine{
		episodeID:     episodeID,
		slug:          slug.Decode(episodeID),
		episodes:      episodes,
		store:         store,
		sel:           Resolve(store.Load(), q),
		defaultState:  fetchState{loading: true},
		embeddedState: fetchState{loading: true},
	}
}

// Selection returns the current kind and server.
func (m *Machine) Selection() Selection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sel
}

// Fetch loads default-player sources and embedded servers concurrently.
func (m *Machine) Fetch(ctx context.Context, src Sources) {
	sel := m.Selection()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.DefaultLoaded(src.StreamingLinks(ctx, m.episodeID, sel.FetchServer))
	}()
	go func() {
		defer wg.Done()
		m.EmbeddedLoaded(src.OtherServers(ctx, m.episodeID))
	}()
	wg.Wait()
}

// DefaultLoaded records the outcome of the default-player fetch.
func (m *Machine) DefaultLoaded(resp gateway.Response[anime.StreamingLinks]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.defaultState.finish(resp.IsError, resp.Error)
	m.links = resp.Data
}

// EmbeddedLoaded records the outcome of the embedded-servers fetch and self-corrects
// the embedded server when the chosen one is not offered.
func (m *Machine) EmbeddedLoaded(resp gateway.Response[[]anime.EmbeddedServer]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.embeddedState.finish(resp.IsError, resp.Error)
	m.servers = nil
	if resp.Data != nil {
		m.servers = *resp.Data
	}
	m.reconcile()
}

// SwitchServer applies a user server change, persisting it when persist is set, and
// returns the URL that reflects the choice.
func (m *Machine) SwitchServer(kind preference.Kind, server string, persist bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sel = Selection{Kind: kind, Server: server, FetchServer: fetchServer(server)}
	metrics.PlayerServerSwitchesTotal.WithLabelValues(string(kind)).Inc()

	var err error
	if persist {
		err = m.store.Save(preference.Preference{PlayerType: kind, Server: server})
	}
	m.reconcile()
	return m.url(), err
}

// VideoEnded returns the episode to move to when default playback finishes: the next
// episode when it exists in the catalog.
func (m *Machine) VideoEnded() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sel.Kind != preference.KindDefault {
		return "", false
	}
	return m.sibling(1)
}

// URL is the navigable watch URL carrying the current selection.
func (m *Machine) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url()
}

// SelfCorrected reports whether the embedded server was switched automatically.
func (m *Machine) SelfCorrected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.corrected
}

// reconcile switches to the first embedded server when the current one is not
// offered. It never fetches; it only changes which fetched server is shown.
func (m *Machine) reconcile() {
	if m.sel.Kind != preference.KindEmbedded || len(m.servers) == 0 {
		return
	}
	if lo.ContainsBy(m.servers, func(s anime.EmbeddedServer) bool { return s.Name == m.sel.Server }) {
		return
	}

	previous := m.sel.Server
	first := m.servers[0].Name
	m.sel = Selection{Kind: preference.KindEmbedded, Server: first, FetchServer: fetchServer(first)}
	m.corrected = true
	metrics.PlayerSelfCorrectionsTotal.Inc()

	logger := config.GetLogger()
	logger.Debug().Str("episode", m.episodeID).Str("from", previous).Str("to", first).Msg("Embedded server not offered, switching to first available")

	if err := m.store.Save(preference.Preference{PlayerType: preference.KindEmbedded, Server: first}); err != nil {
		logger.Warn().Err(err).Msg("Failed to persist corrected playback preference")
	}
}

func (m *Machine) url() string {
	return watchURL(m.episodeID, m.sel.Kind, m.sel.Server)
}

func (m *Machine) sibling(offset int) (string, bool) {
	id, ok := m.slug.Sibling(offset)
	if !ok {
		return "", false
	}
	if _, found := anime.FindEpisode(m.episodes, id); !found {
		return "", false
	}
	return id, true
}

func watchURL(episodeID string, kind preference.Kind, server string) string {
	q := url.Values{}
	q.Set("playerType", string(kind))
	q.Set("server", server)
	return fmt.Sprintf("/watch/%s?%s", url.PathEscape(episodeID), q.Encode())
}

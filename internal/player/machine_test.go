package player

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/Belphemur/Raznime/internal/anime"
	"github.com/Belphemur/Raznime/internal/gateway"
	"github.com/Belphemur/Raznime/internal/preference"
	"github.com/google/go-cmp/cmp"
)

var catalog = []anime.Episode{
	{ID: "one-piece-episode-1", Number: 1},
	{ID: "one-piece-episode-2", Number: 2},
	{ID: "one-piece-episode-3", Number: 3},
}

func linksOK(sources ...anime.StreamSource) gateway.Response[anime.StreamingLinks] {
	return gateway.Response[anime.StreamingLinks]{
		IsSuccess:  true,
		Data:       &anime.StreamingLinks{Sources: sources, Download: "https://dl.example/op"},
		StatusCode: http.StatusOK,
	}
}

func serversOK(names ...string) gateway.Response[[]anime.EmbeddedServer] {
	servers := make([]anime.EmbeddedServer, len(names))
	for i, n := range names {
		servers[i] = anime.EmbeddedServer{Name: n, URL: "https://embed.example/" + n}
	}
	return gateway.Response[[]anime.EmbeddedServer]{IsSuccess: true, Data: &servers, StatusCode: http.StatusOK}
}

func failed[T any](status int, msg string) gateway.Response[T] {
	return gateway.Response[T]{IsError: true, Error: msg, StatusCode: status}
}

func newMachine(t *testing.T, episodeID string, stored *preference.Preference, q Query) (*Machine, *preference.MemoryMedium) {
	t.Helper()
	medium := preference.NewMemoryMedium()
	store := preference.NewStore(medium)
	if stored != nil {
		if err := store.Save(*stored); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	return New(episodeID, catalog, store, q), medium
}

func storedPreference(t *testing.T, m *preference.MemoryMedium) preference.Preference {
	t.Helper()
	p, ok := preference.NewStore(m).Load().Get()
	if !ok {
		t.Fatal("Expected a stored preference")
	}
	return p
}

func TestMachine_DefaultSourceSelected(t *testing.T) {
	m, _ := newMachine(t, "one-piece-episode-2", nil, Query{})
	m.DefaultLoaded(linksOK(
		anime.StreamSource{URL: "B", Quality: "1080p"},
		anime.StreamSource{URL: "A", Quality: "default", IsM3U8: true},
	))
	m.EmbeddedLoaded(serversOK("vidstreaming"))

	v := m.View()
	if v.Kind != preference.KindDefault {
		t.Fatalf("Expected default kind, got %q", v.Kind)
	}
	if v.Source == nil || v.Source.URL != "A" {
		t.Fatalf("Expected source A, got %+v", v.Source)
	}
	if v.Embedded != nil || v.Error != "" || v.Loading {
		t.Errorf("Expected only the default source to be set, got %+v", v)
	}
	if v.Download != "https://dl.example/op" {
		t.Errorf("Expected download link, got %q", v.Download)
	}
}

func TestMachine_NoDefaultQualityRendersNothing(t *testing.T) {
	m, _ := newMachine(t, "one-piece-episode-2", nil, Query{})
	m.DefaultLoaded(linksOK(anime.StreamSource{URL: "B", Quality: "720p"}))
	m.EmbeddedLoaded(serversOK())

	v := m.View()
	if v.Source != nil || v.Error != "" || v.Loading {
		t.Errorf("Expected an empty player, got %+v", v)
	}
}

func TestMachine_SelfCorrectsAndPersists(t *testing.T) {
	stored := &preference.Preference{PlayerType: preference.KindEmbedded, Server: "streamsb"}
	m, medium := newMachine(t, "one-piece-episode-2", stored, Query{})

	m.EmbeddedLoaded(serversOK("vidstreaming", "mp4upload"))

	v := m.View()
	if v.Server != "vidstreaming" {
		t.Fatalf("Expected self-correction to vidstreaming, got %q", v.Server)
	}
	if v.Embedded == nil || v.Embedded.Name != "vidstreaming" {
		t.Errorf("Expected embedded player for vidstreaming, got %+v", v.Embedded)
	}
	if !v.SelfCorrected || !m.SelfCorrected() {
		t.Error("Expected the correction to be reported")
	}
	want := preference.Preference{PlayerType: preference.KindEmbedded, Server: "vidstreaming"}
	if diff := cmp.Diff(want, storedPreference(t, medium)); diff != "" {
		t.Errorf("Persisted preference mismatch (-want +got):\n%s", diff)
	}
}

func TestMachine_NoCorrectionWhenServerOffered(t *testing.T) {
	stored := &preference.Preference{PlayerType: preference.KindEmbedded, Server: "mp4upload"}
	m, _ := newMachine(t, "one-piece-episode-2", stored, Query{})
	m.EmbeddedLoaded(serversOK("vidstreaming", "mp4upload"))

	if m.SelfCorrected() || m.Selection().Server != "mp4upload" {
		t.Errorf("Did not expect a correction, got %+v", m.Selection())
	}
}

func TestMachine_NoCorrectionForEmptyListOrDefaultKind(t *testing.T) {
	stored := &preference.Preference{PlayerType: preference.KindEmbedded, Server: "streamsb"}
	m, _ := newMachine(t, "one-piece-episode-2", stored, Query{})
	m.EmbeddedLoaded(serversOK())
	if m.SelfCorrected() {
		t.Error("Did not expect a correction for an empty server list")
	}

	d, _ := newMachine(t, "one-piece-episode-2", nil, Query{Server: "streamsb"})
	d.EmbeddedLoaded(serversOK("vidstreaming"))
	if d.SelfCorrected() || d.Selection().Server != "streamsb" {
		t.Error("Did not expect a correction while the default player is active")
	}
}

func TestMachine_ActiveKindFailure(t *testing.T) {
	m, _ := newMachine(t, "one-piece-episode-2", nil, Query{Server: "vidstreaming"})
	m.DefaultLoaded(failed[anime.StreamingLinks](0, ""))
	m.EmbeddedLoaded(serversOK("vidstreaming"))

	if v := m.View(); v.Error != "Cannot connect to vidstreaming" {
		t.Errorf("Expected provider error, got %q", v.Error)
	}

	u, _ := newMachine(t, "one-piece-episode-2", nil, Query{})
	u.DefaultLoaded(failed[anime.StreamingLinks](http.StatusInternalServerError, "Internal Server Error"))
	if v := u.View(); v.Error != "Internal Server Error" {
		t.Errorf("Expected upstream message, got %q", v.Error)
	}
}

func TestMachine_InactiveKindFailureDoesNotBlock(t *testing.T) {
	m, _ := newMachine(t, "one-piece-episode-2", nil, Query{})
	m.DefaultLoaded(linksOK(anime.StreamSource{URL: "A", Quality: "default"}))
	m.EmbeddedLoaded(failed[[]anime.EmbeddedServer](http.StatusBadGateway, "Bad Gateway"))

	v := m.View()
	if v.Error != "" || v.Source == nil {
		t.Errorf("Expected embedded failure to be ignored, got %+v", v)
	}
	if len(v.OtherServers) != 0 {
		t.Errorf("Expected no other servers, got %v", v.OtherServers)
	}
}

func TestMachine_LoadingTrackedPerKind(t *testing.T) {
	m, _ := newMachine(t, "one-piece-episode-2", nil, Query{PlayerType: "embedded", Server: "vidstreaming"})
	m.DefaultLoaded(linksOK(anime.StreamSource{URL: "A", Quality: "default"}))

	if v := m.View(); !v.Loading {
		t.Error("Expected embedded kind to still be loading")
	}
	m.EmbeddedLoaded(serversOK("vidstreaming"))
	if v := m.View(); v.Loading || v.Embedded == nil {
		t.Errorf("Expected embedded player after load, got %+v", v)
	}
}

func TestMachine_SwitchServer(t *testing.T) {
	m, medium := newMachine(t, "one-piece-episode-2", nil, Query{})
	m.EmbeddedLoaded(serversOK("vidstreaming", "mp4upload"))

	target, err := m.SwitchServer(preference.KindEmbedded, "mp4upload", true)
	if err != nil {
		t.Fatalf("SwitchServer: %v", err)
	}
	if target != "/watch/one-piece-episode-2?playerType=embedded&server=mp4upload" {
		t.Errorf("Unexpected URL %q", target)
	}
	if got := storedPreference(t, medium); got.Server != "mp4upload" || got.PlayerType != preference.KindEmbedded {
		t.Errorf("Expected switch to be persisted, got %+v", got)
	}

	if _, err := m.SwitchServer(preference.KindDefault, "streamsb", false); err != nil {
		t.Fatalf("SwitchServer: %v", err)
	}
	if got := storedPreference(t, medium); got.Server != "mp4upload" {
		t.Errorf("Expected suppressed switch to leave storage alone, got %+v", got)
	}
	if m.URL() != "/watch/one-piece-episode-2?playerType=default&server=streamsb" {
		t.Errorf("Unexpected URL %q", m.URL())
	}
}

func TestMachine_VideoEnded(t *testing.T) {
	m, _ := newMachine(t, "one-piece-episode-2", nil, Query{})
	if next, ok := m.VideoEnded(); !ok || next != "one-piece-episode-3" {
		t.Errorf("Expected episode 3, got %q (ok=%v)", next, ok)
	}

	last, _ := newMachine(t, "one-piece-episode-3", nil, Query{})
	if _, ok := last.VideoEnded(); ok {
		t.Error("Expected no transition after the last episode")
	}

	embedded, _ := newMachine(t, "one-piece-episode-1", nil, Query{PlayerType: "embedded"})
	if _, ok := embedded.VideoEnded(); ok {
		t.Error("Expected no transition for the embedded player")
	}
}

func TestMachine_ViewNavigationAndButtons(t *testing.T) {
	m, _ := newMachine(t, "one-piece-episode-1", nil, Query{Server: "streamsb"})
	m.DefaultLoaded(linksOK(anime.StreamSource{URL: "A", Quality: "default"}))
	m.EmbeddedLoaded(serversOK("vidstreaming"))

	v := m.View()
	if v.PrevEpisodeID != "" || v.NextEpisodeID != "one-piece-episode-2" {
		t.Errorf("Unexpected navigation prev=%q next=%q", v.PrevEpisodeID, v.NextEpisodeID)
	}
	selected := 0
	for _, b := range v.DefaultServers {
		if b.Selected {
			selected++
			if b.Name != "streamsb" {
				t.Errorf("Expected streamsb to be selected, got %s", b.Name)
			}
		}
	}
	if selected != 1 {
		t.Errorf("Expected exactly one selected default server, got %d", selected)
	}
	if len(v.OtherServers) != 1 || v.OtherServers[0].Selected {
		t.Errorf("Unexpected other servers %+v", v.OtherServers)
	}
}

type fakeSources struct {
	linkCalls   int32
	serverCalls int32
	server      string
}

func (f *fakeSources) StreamingLinks(_ context.Context, _ string, server string) gateway.Response[anime.StreamingLinks] {
	atomic.AddInt32(&f.linkCalls, 1)
	f.server = server
	return linksOK(anime.StreamSource{URL: "A", Quality: "default"})
}

func (f *fakeSources) OtherServers(context.Context, string) gateway.Response[[]anime.EmbeddedServer] {
	atomic.AddInt32(&f.serverCalls, 1)
	return serversOK("vidstreaming")
}

func TestMachine_Fetch(t *testing.T) {
	m, _ := newMachine(t, "one-piece-episode-2", nil, Query{PlayerType: "embedded", Server: "doodstream"})
	src := &fakeSources{}
	m.Fetch(context.Background(), src)

	if src.linkCalls != 1 || src.serverCalls != 1 {
		t.Errorf("Expected one call per source, got %d/%d", src.linkCalls, src.serverCalls)
	}
	if src.server != "gogocdn" {
		t.Errorf("Expected default sources from gogocdn, got %q", src.server)
	}
	if v := m.View(); v.Embedded == nil || v.Embedded.Name != "vidstreaming" {
		t.Errorf("Expected self-corrected embedded view, got %+v", v)
	}
}

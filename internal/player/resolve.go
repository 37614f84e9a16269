// Package player decides which video source a watch page plays and reacts to server
// switches and the end of playback.
package player

import (
	"slices"

	"github.com/Belphemur/Raznime/internal/preference"
	"github.com/samber/mo"
)

// DefaultServers are the servers the first-party player can fetch sources from.
var DefaultServers = []string{"gogocdn", "vidstreaming", "streamsb"}

// Query holds the raw playerType and server URL overrides.
type Query struct {
	PlayerType string
	Server     string
}

// Selection is the resolved player kind and server.
type Selection struct {
	Kind   preference.Kind
	Server string
	// FetchServer is the server the default-player sources are fetched from.
	FetchServer string
}

// Resolve merges URL overrides over the stored preference. A query value wins when
// it is valid, then the stored value, then the default.
func Resolve(stored mo.Option[preference.Preference], q Query) Selection {
	base := stored.OrElse(preference.Default())

	kind, ok := preference.ParseKind(q.PlayerType)
	if !ok {
		if kind, ok = preference.ParseKind(string(base.PlayerType)); !ok {
			kind = preference.KindDefault
		}
	}

	server := q.Server
	if server == "" {
		server = base.Server
	}
	if server == "" {
		server = preference.DefaultServer
	}

	return Selection{Kind: kind, Server: server, FetchServer: fetchServer(server)}
}

func fetchServer(server string) string {
	if slices.Contains(DefaultServers, server) {
		return server
	}
	return preference.DefaultServer
}

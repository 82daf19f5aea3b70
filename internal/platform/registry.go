package platform

import "sync"

// Registry tracks connected players by steam ID.
type Registry struct {
	mu      sync.RWMutex
	players map[uint64]Player
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{players: make(map[uint64]Player)}
}

// Add registers a connected player, replacing any stale session under
// the same steam ID.
func (r *Registry) Add(p Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[p.SteamID()] = p
}

// Remove drops the player on disconnect.
func (r *Registry) Remove(steamID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, steamID)
}

// Get returns the connected player, or nil.
func (r *Registry) Get(steamID uint64) Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.players[steamID]
}

// All returns a snapshot of the connected players.
func (r *Registry) All() []Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	return out
}

// Count returns the number of connected players.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

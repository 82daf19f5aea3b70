package platform

import "sync"

// rootFlag grants every capability.
const rootFlag = "admin.root"

// Permissions is the in-session capability table. Flags are granted
// when a player's admin record is reconciled at join and dropped on
// disconnect; the database stays the source of truth between
// sessions.
type Permissions struct {
	mu    sync.RWMutex
	flags map[uint64]map[string]struct{}
}

// NewPermissions creates an empty table.
func NewPermissions() *Permissions {
	return &Permissions{flags: make(map[uint64]map[string]struct{})}
}

// Grant adds capability flags to the session.
func (p *Permissions) Grant(steamID uint64, flags ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	set, ok := p.flags[steamID]
	if !ok {
		set = make(map[string]struct{})
		p.flags[steamID] = set
	}
	for _, f := range flags {
		set[f] = struct{}{}
	}
}

// Revoke drops all of the session's flags.
func (p *Permissions) Revoke(steamID uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.flags, steamID)
}

// Has reports whether the session holds the capability. The root flag
// satisfies every check.
func (p *Permissions) Has(steamID uint64, flag string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	set, ok := p.flags[steamID]
	if !ok {
		return false
	}
	if _, root := set[rootFlag]; root {
		return true
	}
	_, has := set[flag]
	return has
}

// List returns the session's flags.
func (p *Permissions) List(steamID uint64) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	set := p.flags[steamID]
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	return out
}

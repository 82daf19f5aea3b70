// Package platform abstracts the game server surface the lifecycle
// logic touches: connected players, their session flags and the
// in-session permission table.
package platform

// Player is one connected session. Implementations are only touched
// from the tick goroutine except where noted.
type Player interface {
	SteamID() uint64
	Name() string
	Slot() int

	// VoiceMuted is the session-local voice flag enforced by the
	// server engine between sweeps.
	VoiceMuted() bool
	SetVoiceMuted(muted bool)

	SendChat(message string)
	Kick(reason string)
}

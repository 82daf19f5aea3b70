package actor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContextDefaultsToConsole(t *testing.T) {
	a := FromContext(context.Background())
	assert.Equal(t, Console(), a)
	assert.Equal(t, uint64(0), a.SteamID)
	assert.NotEmpty(t, a.Name)
}

func TestWithActorRoundTrip(t *testing.T) {
	admin := Actor{Name: "alice", SteamID: 76561198000000001}
	ctx := WithActor(context.Background(), admin)
	assert.Equal(t, admin, FromContext(ctx))
}

func TestWithActorEmptyNameFallsBack(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{SteamID: 42})
	a := FromContext(ctx)
	assert.Equal(t, uint64(42), a.SteamID)
	assert.Equal(t, Console().Name, a.Name)
}

func TestNestedContextsStayIsolated(t *testing.T) {
	base := context.Background()
	first := WithActor(base, Actor{Name: "alice", SteamID: 1})
	second := WithActor(first, Actor{Name: "bob", SteamID: 2})

	assert.Equal(t, "alice", FromContext(first).Name)
	assert.Equal(t, "bob", FromContext(second).Name)
	assert.Equal(t, Console(), FromContext(base))
}

package server

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beastbrawl/beastbrawl-server-go/internal/game"
)

// Hub tests drive handleMessage directly; the websocket pumps are plain
// plumbing around it.

func newTestHub() *Hub {
	return NewHub(zap.NewNop(), nil, 1)
}

func newTestClient(h *Hub) *client {
	c := &client{send: make(chan []byte, 64)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	return c
}

func createWaitingMatch(t *testing.T, h *Hub, host *client) string {
	t.Helper()
	raw, err := json.Marshal(CreatePayload{
		Habitat: game.HabitatForest,
		Player:  PlayerSetup{Name: "Host", Kind: game.KindMammal, Size: game.SizeMedium},
	})
	require.NoError(t, err)
	h.createMatch(host, Message{Type: MsgCreateGame, Action: raw})
	require.NotEmpty(t, host.gameID)
	return host.gameID
}

func joinMsg(t *testing.T, gameID, name string) Message {
	t.Helper()
	raw, err := json.Marshal(JoinPayload{
		GameID: gameID,
		Player: PlayerSetup{Name: name, Kind: game.KindReptile, Size: game.SizeMedium},
	})
	require.NoError(t, err)
	return Message{Type: MsgJoinGame, Action: raw}
}

func TestJoinFillsWaitingSeat(t *testing.T) {
	h := newTestHub()
	host := newTestClient(h)
	gameID := createWaitingMatch(t, h, host)

	guest := newTestClient(h)
	h.joinMatch(guest, joinMsg(t, gameID, "Guest"))

	require.NotEmpty(t, guest.playerID)
	st := h.matches[gameID].driver.State()
	assert.Len(t, st.Players, 2)
	assert.NotNil(t, st.Player(guest.playerID))
}

func TestSecondJoinBecomesSpectator(t *testing.T) {
	h := newTestHub()
	host := newTestClient(h)
	gameID := createWaitingMatch(t, h, host)

	first := newTestClient(h)
	second := newTestClient(h)
	h.joinMatch(first, joinMsg(t, gameID, "First"))
	h.joinMatch(second, joinMsg(t, gameID, "Second"))

	assert.NotEmpty(t, first.playerID)
	assert.Empty(t, second.playerID, "the seat can only be claimed once")
	assert.Equal(t, gameID, second.gameID, "spectators still get the state sync")
	assert.Len(t, h.matches[gameID].driver.State().Players, 2)
}

func TestConcurrentJoinsClaimOneSeat(t *testing.T) {
	h := newTestHub()
	host := newTestClient(h)
	gameID := createWaitingMatch(t, h, host)

	joiners := make([]*client, 8)
	var wg sync.WaitGroup
	for i := range joiners {
		joiners[i] = newTestClient(h)
		wg.Add(1)
		go func(c *client) {
			defer wg.Done()
			h.joinMatch(c, joinMsg(t, gameID, "Racer"))
		}(joiners[i])
	}
	wg.Wait()

	seated := 0
	for _, c := range joiners {
		if c.playerID != "" {
			seated++
		}
	}
	assert.Equal(t, 1, seated)
	assert.Len(t, h.matches[gameID].driver.State().Players, 2)
}

func TestJoinUnknownGame(t *testing.T) {
	h := newTestHub()
	c := newTestClient(h)

	h.joinMatch(c, joinMsg(t, "no-such-game", "Ghost"))

	assert.Empty(t, c.gameID)
	require.NotEmpty(t, c.send)
	var msg Message
	require.NoError(t, json.Unmarshal(<-c.send, &msg))
	assert.Equal(t, MsgError, msg.Type)
}

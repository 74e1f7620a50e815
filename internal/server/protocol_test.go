package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beastbrawl/beastbrawl-server-go/internal/game"
)

func TestDecodeUseAction(t *testing.T) {
	payload := []byte(`{
		"player": "p1",
		"action_type": "ATTACK",
		"card_instance_id": "bite#1",
		"target_player_id": "p2",
		"rng": [0.1, 0.9]
	}`)

	act, err := DecodeAction(game.KindUseAction, payload)
	require.NoError(t, err)

	use, ok := act.(game.UseAction)
	require.True(t, ok, "actions travel by value")
	assert.Equal(t, "p1", use.Player)
	assert.Equal(t, game.ActionAttack, use.ActionType)
	assert.Equal(t, "bite#1", use.CardInstanceID)
	assert.Equal(t, []float64{0.1, 0.9}, use.RNG)
}

func TestDecodeEveryKindByValue(t *testing.T) {
	kinds := []game.ActionKind{
		game.KindPlayCard,
		game.KindPlayEvolveCard,
		game.KindPlayApexEvolution,
		game.KindUseAction,
		game.KindResolveAgile,
		game.KindResolveChoice,
		game.KindEndTurn,
		game.KindClearPoison,
		game.KindClearLeech,
		game.KindAttemptGrappleEscape,
		game.KindUseHabitatAction,
		game.KindAcknowledgeFlip,
		game.KindDismissNotification,
	}
	for _, k := range kinds {
		act, err := DecodeAction(k, []byte(`{"player":"p1"}`))
		require.NoError(t, err, "kind %s", k)
		assert.Equal(t, k, act.Kind(), "kind %s", k)
		// The resolver switches on value types, so pointers must be unwrapped.
		_, isPtr := act.(*game.PlayCard)
		assert.False(t, isPtr)
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := DecodeAction("CAST_FIREBALL", []byte(`{}`))
	assert.Error(t, err)
}

func TestDecodeMalformedPayload(t *testing.T) {
	_, err := DecodeAction(game.KindEndTurn, []byte(`{"player":`))
	assert.Error(t, err)
}

func TestEncodeStateEnvelope(t *testing.T) {
	st := &game.GameState{GameID: "g-1", Habitat: game.HabitatArena, Turn: 3}

	raw, err := EncodeState(st)
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, MsgGameState, msg.Type)
	assert.Equal(t, "g-1", msg.GameID)
	require.NotNil(t, msg.State)
	assert.Equal(t, 3, msg.State.Turn)
	assert.Empty(t, msg.Error)
}

func TestEncodeErrorEnvelope(t *testing.T) {
	raw, err := EncodeError("not your turn")
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, MsgError, msg.Type)
	assert.Equal(t, "not your turn", msg.Error)
	assert.Nil(t, msg.State)
}

package server

import (
	"encoding/json"
	"fmt"

	"github.com/beastbrawl/beastbrawl-server-go/internal/game"
)

// Message is the websocket envelope. Client-to-server messages carry a
// request type plus an action payload; server-to-client messages carry the
// full game state, which doubles as the initial sync for late joiners.
type Message struct {
	Type     string          `json:"type"`
	GameID   string          `json:"game_id,omitempty"`
	PlayerID string          `json:"player_id,omitempty"`
	Kind     game.ActionKind `json:"kind,omitempty"`
	Action   json.RawMessage `json:"action,omitempty"`
	State    *game.GameState `json:"state,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Message type tags.
const (
	MsgCreateGame = "create_game"
	MsgJoinGame   = "join_game"
	MsgAction     = "action"
	MsgGameState  = "game_state"
	MsgError      = "error"
)

// DecodeAction parses one action payload by its kind tag. Unknown kinds and
// malformed payloads are errors; the caller turns them into error messages
// rather than feeding them to the resolver.
func DecodeAction(kind game.ActionKind, payload json.RawMessage) (game.Action, error) {
	unmarshal := func(v game.Action) (game.Action, error) {
		if err := json.Unmarshal(payload, v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		return deref(v), nil
	}

	switch kind {
	case game.KindPlayCard:
		return unmarshal(&game.PlayCard{})
	case game.KindPlayEvolveCard:
		return unmarshal(&game.PlayEvolveCard{})
	case game.KindPlayApexEvolution:
		return unmarshal(&game.PlayApexEvolution{})
	case game.KindUseAction:
		return unmarshal(&game.UseAction{})
	case game.KindResolveAgile:
		return unmarshal(&game.ResolveAgile{})
	case game.KindResolveChoice:
		return unmarshal(&game.ResolveChoice{})
	case game.KindEndTurn:
		return unmarshal(&game.EndTurn{})
	case game.KindClearPoison:
		return unmarshal(&game.ClearPoison{})
	case game.KindClearLeech:
		return unmarshal(&game.ClearLeech{})
	case game.KindAttemptGrappleEscape:
		return unmarshal(&game.AttemptGrappleEscape{})
	case game.KindUseHabitatAction:
		return unmarshal(&game.UseHabitatAction{})
	case game.KindAcknowledgeFlip:
		return unmarshal(&game.AcknowledgeFlip{})
	case game.KindDismissNotification:
		return unmarshal(&game.DismissNotification{})
	default:
		return nil, fmt.Errorf("unknown action kind %q", kind)
	}
}

// deref unwraps the pointer used for unmarshaling so actions travel by
// value, matching how the resolver switches on them.
func deref(v game.Action) game.Action {
	switch a := v.(type) {
	case *game.PlayCard:
		return *a
	case *game.PlayEvolveCard:
		return *a
	case *game.PlayApexEvolution:
		return *a
	case *game.UseAction:
		return *a
	case *game.ResolveAgile:
		return *a
	case *game.ResolveChoice:
		return *a
	case *game.EndTurn:
		return *a
	case *game.ClearPoison:
		return *a
	case *game.ClearLeech:
		return *a
	case *game.AttemptGrappleEscape:
		return *a
	case *game.UseHabitatAction:
		return *a
	case *game.AcknowledgeFlip:
		return *a
	case *game.DismissNotification:
		return *a
	default:
		return v
	}
}

// EncodeState builds a state broadcast message.
func EncodeState(st *game.GameState) ([]byte, error) {
	return json.Marshal(Message{Type: MsgGameState, GameID: st.GameID, State: st})
}

// EncodeError builds an error message for one client.
func EncodeError(reason string) ([]byte, error) {
	return json.Marshal(Message{Type: MsgError, Error: reason})
}

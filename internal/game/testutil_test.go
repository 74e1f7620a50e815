package game

import (
	"fmt"
)

// Deterministic fixtures: states are built by hand rather than through the
// deck factory, so each test controls exactly which cards are in play.

var instSeq int

func inst(def CardID) CardInstance {
	instSeq++
	c := CardInstance{InstanceID: fmt.Sprintf("%s#%d", def, instSeq), DefID: def}
	c.Charges = Cards.Def(def).MaxCharges
	return c
}

func testPlayer(id, name string, kind CreatureKind, size SizeClass) *PlayerState {
	hp, stamina := sizeBaselines(size)
	return &PlayerState{
		ID:         id,
		Name:       name,
		HP:         hp,
		MaxHP:      hp,
		Stamina:    stamina,
		MaxStamina: stamina,
		Kind:       kind,
		Size:       size,
	}
}

// testState builds a two-player Forest match with p1 to act. Both players
// are Medium mammals with empty zones; tests add the cards they need.
func testState() *GameState {
	p1 := testPlayer("p1", "Rex", KindMammal, SizeMedium)
	p2 := testPlayer("p2", "Momo", KindMammal, SizeMedium)
	return &GameState{
		GameID:        "test-game",
		Habitat:       HabitatForest,
		Turn:          1,
		CurrentPlayer: "p1",
		Players:       map[string]*PlayerState{"p1": p1, "p2": p2},
		Phase:         PhaseAction,
	}
}

// putFormation adds a fresh instance of def to the player's formation and
// returns its instance id.
func putFormation(st *GameState, playerID string, def CardID) string {
	c := inst(def)
	p := st.Players[playerID]
	p.Formation = append(p.Formation, c)
	return c.InstanceID
}

// putHand adds a fresh instance of def to the player's hand and returns its
// instance id.
func putHand(st *GameState, playerID string, def CardID) string {
	c := inst(def)
	p := st.Players[playerID]
	p.Hand = append(p.Hand, c)
	return c.InstanceID
}

// attackWith submits a plain attack from p1 against p2.
func attackWith(st *GameState, def CardID, rng ...float64) *GameState {
	id := putFormation(st, "p1", def)
	return Resolve(st, UseAction{
		Player:         "p1",
		ActionType:     ActionAttack,
		CardInstanceID: id,
		TargetPlayerID: "p2",
		RNG:            rng,
	})
}

func lastLog(st *GameState) string {
	if len(st.Log) == 0 {
		return ""
	}
	return st.Log[len(st.Log)-1]
}

func lastNote(st *GameState) Notification {
	if len(st.Notifications) == 0 {
		return Notification{}
	}
	return st.Notifications[len(st.Notifications)-1]
}

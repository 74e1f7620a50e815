package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumStableAcrossClones(t *testing.T) {
	st := testState()
	putFormation(st, "p1", CardBite)
	st.Players["p2"].Statuses = []Status{{Type: StatusPoisoned}}

	assert.Equal(t, st.Checksum(), st.Clone().Checksum())
}

// Map iteration order is randomized in Go; the canonical form must not
// depend on it.
func TestChecksumDeterministic(t *testing.T) {
	st := testState()
	putFormation(st, "p1", CardBite)
	sums := make([]string, 10)
	for i := range sums {
		sums[i] = st.Checksum()
	}
	for i := 1; i < len(sums); i++ {
		assert.Equal(t, sums[0], sums[i])
	}
}

func TestChecksumDetectsDivergence(t *testing.T) {
	st := testState()
	other := st.Clone()
	other.Players["p2"].HP--

	assert.NotEqual(t, st.Checksum(), other.Checksum())
}

func TestChecksumIgnoresNotifications(t *testing.T) {
	st := testState()
	noisy := st.Clone()
	noisy.Notifications = append(noisy.Notifications, Notification{ID: "n1", Message: "hi", Level: NoteInfo})

	assert.Equal(t, st.Checksum(), noisy.Checksum())
}

func TestChecksumStatusOrderInsensitive(t *testing.T) {
	a := testState()
	a.Players["p1"].Statuses = []Status{{Type: StatusPoisoned}, {Type: StatusHidden}}
	b := testState()
	b.Players["p1"].Statuses = []Status{{Type: StatusHidden}, {Type: StatusPoisoned}}

	assert.Equal(t, a.Checksum(), b.Checksum())
}

func TestChecksumDeckOrderSensitive(t *testing.T) {
	a := testState()
	a.Players["p1"].Deck = []CardInstance{inst(CardBite), inst(CardDig)}
	b := a.Clone()
	b.Players["p1"].Deck[0], b.Players["p1"].Deck[1] = b.Players["p1"].Deck[1], b.Players["p1"].Deck[0]

	assert.NotEqual(t, a.Checksum(), b.Checksum())
}

func TestResolvedStatesShareChecksum(t *testing.T) {
	st := testState()
	id := putFormation(st, "p1", CardBite)
	act := UseAction{
		Player: "p1", ActionType: ActionAttack,
		CardInstanceID: id, TargetPlayerID: "p2", RNG: []float64{0.42},
	}

	assert.Equal(t, Resolve(st, act).Checksum(), Resolve(st, act).Checksum())
}

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddStatusOverwritesSameSource(t *testing.T) {
	p := testPlayer("p1", "Rex", KindMammal, SizeMedium)

	p.addStatus(Status{Type: StatusConfused, Duration: 2, SourceID: "p2"})
	p.addStatus(Status{Type: StatusConfused, Duration: 5, SourceID: "p2"})

	assert.Len(t, p.Statuses, 1)
	s, ok := p.StatusFrom(StatusConfused, "p2")
	assert.True(t, ok)
	assert.Equal(t, 5, s.Duration)
}

func TestAddStatusStacksAcrossSources(t *testing.T) {
	p := testPlayer("p1", "Rex", KindMammal, SizeMedium)

	p.addStatus(Status{Type: StatusLeeched, SourceID: "a"})
	p.addStatus(Status{Type: StatusLeeched, SourceID: "b"})

	assert.Len(t, p.Statuses, 2)
}

func TestClearStatusDropsAllSources(t *testing.T) {
	p := testPlayer("p1", "Rex", KindMammal, SizeMedium)
	p.addStatus(Status{Type: StatusLeeched, SourceID: "a"})
	p.addStatus(Status{Type: StatusLeeched, SourceID: "b"})
	p.addStatus(Status{Type: StatusPoisoned})

	p.clearStatus(StatusLeeched)

	assert.Len(t, p.Statuses, 1)
	assert.True(t, p.HasStatus(StatusPoisoned))
}

func TestKeepOnlyStatus(t *testing.T) {
	p := testPlayer("p1", "Rex", KindMammal, SizeMedium)
	p.addStatus(Status{Type: StatusPoisoned})
	p.addStatus(Status{Type: StatusDamageBuff, Duration: 1})
	p.addStatus(Status{Type: StatusGrappled, SourceID: "p2"})

	p.keepOnlyStatus(StatusDamageBuff, StatusHidden, StatusFlying)

	assert.Len(t, p.Statuses, 1)
	assert.True(t, p.HasStatus(StatusDamageBuff))
}

func TestTickStatusesExpiry(t *testing.T) {
	p := testPlayer("p1", "Rex", KindMammal, SizeMedium)
	p.addStatus(Status{Type: StatusConfused, Duration: 1})
	p.addStatus(Status{Type: StatusFlying, Duration: 3})
	p.addStatus(Status{Type: StatusPoisoned}) // permanent

	expired := p.tickStatuses()

	assert.Equal(t, []StatusType{StatusConfused}, expired)
	assert.False(t, p.HasStatus(StatusConfused))
	assert.True(t, p.HasStatus(StatusPoisoned))
	s, _ := p.StatusFrom(StatusFlying, "")
	assert.Equal(t, 2, s.Duration)
}

func TestTickStatusesLeavesPermanentForever(t *testing.T) {
	p := testPlayer("p1", "Rex", KindMammal, SizeMedium)
	p.addStatus(Status{Type: StatusHidden})

	for i := 0; i < 10; i++ {
		assert.Empty(t, p.tickStatuses())
	}
	assert.True(t, p.HasStatus(StatusHidden))
}

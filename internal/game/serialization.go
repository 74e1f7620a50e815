package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Checksum computes a deterministic digest of the state. Two drivers that
// resolved the same action sequence must produce identical checksums, so a
// mismatch between peers (or between a live match and its replay) means the
// states have diverged.
func (g *GameState) Checksum() string {
	hash := sha256.New()
	hash.Write([]byte(g.canonicalForm()))
	return hex.EncodeToString(hash.Sum(nil))
}

// canonicalForm renders the state independent of map iteration order.
// Transient UI fields (notifications, the displayed flip) are excluded:
// they do not affect future transitions.
func (g *GameState) canonicalForm() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%s|%d|%s|%s|%s\n",
		g.GameID, g.Habitat, g.Turn, g.CurrentPlayer, g.Phase, g.Winner)
	if g.PendingReaction != nil {
		fmt.Fprintf(&buf, "REACTION:%s|%s|%s\n",
			g.PendingReaction.AttackerID, g.PendingReaction.TargetID, g.PendingReaction.AttackCardID)
	}
	if g.PendingChoice != nil {
		fmt.Fprintf(&buf, "CHOICE:%s|%s|%s\n",
			g.PendingChoice.PlayerID, g.PendingChoice.CardID, g.PendingChoice.TargetPlayerID)
	}
	if g.Last != nil {
		fmt.Fprintf(&buf, "LAST:%s|%s\n", g.Last.PlayerID, g.Last.CardID)
	}

	ids := make([]string, 0, len(g.Players))
	for id := range g.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := g.Players[id]
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%s|%s|%d|%d|%d|%d|%t|%t|%t|%d\n",
			id, p.Name, p.Kind, p.Size,
			p.HP, p.MaxHP, p.Stamina, p.MaxStamina,
			p.HasActedThisTurn, p.GuaranteedHeads, p.UsedHabitatHide,
			p.CardsPlayedThisTurn)
		writeZone(&buf, "HAND", p.Hand)
		writeZone(&buf, "DECK", p.Deck)
		writeZone(&buf, "DISCARD", p.Discard)
		writeZone(&buf, "FORMATION", p.Formation)
		for _, s := range sortedStatuses(p.Statuses) {
			fmt.Fprintf(&buf, "STATUS:%s|%d|%s\n", s.Type, s.Duration, s.SourceID)
		}
	}

	for _, line := range g.Log {
		fmt.Fprintf(&buf, "LOG:%s\n", line)
	}
	return buf.String()
}

// writeZone emits card instances in zone order: hand and deck order are
// game-relevant and must match exactly.
func writeZone(buf *bytes.Buffer, tag string, zone []CardInstance) {
	for _, c := range zone {
		fmt.Fprintf(buf, "%s:%s|%s|%d\n", tag, c.InstanceID, c.DefID, c.Charges)
	}
}

func sortedStatuses(in []Status) []Status {
	out := append([]Status(nil), in...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].SourceID < out[j].SourceID
	})
	return out
}

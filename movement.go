package main

import "time"

// HandleMove applies a position/orientation intent from a living player.
// Orientation is always accepted; position only when the destination is
// unblocked. A blocked move is rejected silently, never surfaced as an error.
func (g *Game) HandleMove(playerID string, msg MoveMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok || !p.Alive {
		return
	}
	p.Angle = msg.Angle
	if !IsBlocked(msg.X, msg.Y, TankRadius) {
		p.X = msg.X
		p.Y = msg.Y
	}

	g.resolvePickups(p, time.Now())
	g.broadcastExcept(playerID, Envelope{T: MsgPlayerMoved, Data: movedMsg(p)})
}

// resolvePickups collects every orb within the player's pickup range,
// credits its exp, and schedules the ambient replacement
func (g *Game) resolvePickups(p *Player, now time.Time) {
	for _, o := range g.orbs {
		if DistanceSq(p.X, p.Y, o.X, o.Y) > p.Stats.PickupRange*p.Stats.PickupRange {
			continue
		}
		delete(g.orbs, o.ID)
		g.broadcast(Envelope{T: MsgOrbCollected, Data: OrbCollectedMsg{OrbID: o.ID, PlayerID: p.ID}})
		g.orbRespawns = append(g.orbRespawns, now.Add(OrbRespawnDelay))
		g.addExp(p, o.Value, now)
	}
}

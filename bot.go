package main

import (
	"math"
	"math/rand"
	"time"
)

const (
	BotAdvanceRange = 200.0 // farther than this: close in
	BotRetreatRange = 150.0 // closer than this: back off
	BotAimThreshold = 0.12  // radians of facing error allowed when firing
	BotTurnGain     = 0.2   // proportional rotation per tick
	BotOrbSense     = 600.0 // orb seeking radius
	BotWanderDrift  = 0.5   // max radians of wander perturbation per tick
)

// stepBots drives every bot one AI tick: pick the nearest viable human,
// rotate and keep distance, fire when lined up; without a target, graze
// orbs or wander.
func (g *Game) stepBots(now time.Time, dt float64) {
	for _, p := range g.players {
		if !p.IsBot || !p.Alive {
			continue
		}
		g.stepBot(p, now, dt)
	}
}

func (g *Game) stepBot(p *Player, now time.Time, dt float64) {
	target := g.nearestHumanTarget(p, now)

	if target != nil {
		desired := math.Atan2(target.Y-p.Y, target.X-p.X)
		err := NormalizeAngle(desired - p.Angle)
		p.Angle = NormalizeAngle(p.Angle + err*BotTurnGain)

		dist := math.Sqrt(DistanceSq(p.X, p.Y, target.X, target.Y))
		if dist > BotAdvanceRange {
			g.botStep(p, desired, dt)
		} else if dist < BotRetreatRange {
			g.botStep(p, desired+math.Pi, dt)
		}

		if math.Abs(err) < BotAimThreshold && p.CanFire(now) {
			g.fireVolley(p, p.Angle, now)
		}
	} else if orb := g.nearestOrb(p); orb != nil {
		desired := math.Atan2(orb.Y-p.Y, orb.X-p.X)
		p.Angle = NormalizeAngle(p.Angle + NormalizeAngle(desired-p.Angle)*BotTurnGain)
		g.botStep(p, desired, dt)
	} else {
		p.WanderAngle += (rand.Float64() - 0.5) * BotWanderDrift
		p.Angle = NormalizeAngle(p.Angle + NormalizeAngle(p.WanderAngle-p.Angle)*BotTurnGain)
		g.botStep(p, p.Angle, dt)
	}

	g.resolvePickups(p, now)
	g.broadcast(Envelope{T: MsgPlayerMoved, Data: movedMsg(p)})
}

// botStep moves the bot through the same collision gate as human moves
func (g *Game) botStep(p *Player, angle, dt float64) {
	nx := p.X + math.Cos(angle)*p.Stats.MoveSpeed*dt
	ny := p.Y + math.Sin(angle)*p.Stats.MoveSpeed*dt
	if !IsBlocked(nx, ny, TankRadius) {
		p.X = nx
		p.Y = ny
	}
}

// nearestHumanTarget picks the closest human that is alive and not immune
func (g *Game) nearestHumanTarget(bot *Player, now time.Time) *Player {
	var best *Player
	bestD := 0.0
	for _, p := range g.players {
		if p.IsBot || !p.Alive || p.Immune(now) {
			continue
		}
		d := DistanceSq(bot.X, bot.Y, p.X, p.Y)
		if best == nil || d < bestD {
			best = p
			bestD = d
		}
	}
	return best
}

// nearestOrb returns the closest orb within sensing range, or nil
func (g *Game) nearestOrb(bot *Player) *Orb {
	var best *Orb
	bestD := BotOrbSense * BotOrbSense
	for _, o := range g.orbs {
		d := DistanceSq(bot.X, bot.Y, o.X, o.Y)
		if d < bestD {
			best = o
			bestD = d
		}
	}
	return best
}

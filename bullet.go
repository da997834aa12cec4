package main

import (
	"math"
	"time"
)

const (
	BulletSpawnOffset = 30.0 // spawn distance from tank center
	KillExp           = 50.0 // exp credited for destroying a player
)

// Bullet is a live projectile. Damage and speed are copied from the
// shooter's StatBlock at fire time; later stat changes do not touch
// in-flight bullets.
type Bullet struct {
	ID      string
	OwnerID string
	X, Y    float64
	Angle   float64
	Damage  float64
	Speed   float64
	Expires time.Time // lifetime deadline checked on the global tick
	Alive   bool
}

func newBullet(p *Player, angle float64, now time.Time) *Bullet {
	return &Bullet{
		ID:      GenerateID(3),
		OwnerID: p.ID,
		X:       p.X + math.Cos(angle)*BulletSpawnOffset,
		Y:       p.Y + math.Sin(angle)*BulletSpawnOffset,
		Angle:   angle,
		Damage:  p.Stats.BulletDamage,
		Speed:   p.Stats.BulletSpeed,
		Expires: now.Add(time.Duration(p.Stats.BulletLifeTime) * time.Millisecond),
		Alive:   true,
	}
}

// SpawnVolley creates the bullets of one shot: bulletCount pellets fanned
// symmetrically across spreadAngle degrees, plus one backward bullet when
// the shooter has rear guard.
func SpawnVolley(p *Player, angle float64, now time.Time) []*Bullet {
	count := p.Stats.BulletCount
	if count < 1 {
		count = 1
	}

	bullets := make([]*Bullet, 0, count+1)
	if count == 1 {
		bullets = append(bullets, newBullet(p, angle, now))
	} else {
		spread := p.Stats.SpreadAngle * math.Pi / 180
		step := spread / float64(count-1)
		start := angle - spread/2
		for i := 0; i < count; i++ {
			bullets = append(bullets, newBullet(p, start+step*float64(i), now))
		}
	}

	if p.Stats.RearGuard {
		bullets = append(bullets, newBullet(p, angle+math.Pi, now))
	}
	return bullets
}

// Advance moves the bullet along its fixed angle
func (b *Bullet) Advance(dt float64) {
	b.X += math.Cos(b.Angle) * b.Speed * dt
	b.Y += math.Sin(b.Angle) * b.Speed * dt
}

// ToState converts to the wire representation
func (b *Bullet) ToState() BulletState {
	return BulletState{
		ID:    b.ID,
		X:     round1(b.X),
		Y:     round1(b.Y),
		Angle: round1(b.Angle),
		Owner: b.OwnerID,
	}
}

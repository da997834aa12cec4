package main

import (
	"math/rand"
	"time"
)

const (
	BaseMaxHP       = 100.0
	BaseMaxExp      = 100.0
	LevelUpImmunity = 10 * time.Second
	RespawnImmunity = 3 * time.Second
)

// Color palette assigned round-robin to joining tanks
var ColorPalette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c",
	"#fabebe", "#008080", "#ffd8b1", "#808000",
}

// StatBlock holds every tunable combat stat of a tank. Mutated only by
// upgrade effects and respawn resets.
type StatBlock struct {
	MaxHP          float64 `json:"maxHp" msgpack:"maxHp"`
	FireRate       float64 `json:"fireRate" msgpack:"fireRate"` // cooldown, ms
	BulletCount    int     `json:"bulletCount" msgpack:"bulletCount"`
	BulletDamage   float64 `json:"bulletDamage" msgpack:"bulletDamage"`
	BulletSpeed    float64 `json:"bulletSpeed" msgpack:"bulletSpeed"` // units/s
	MoveSpeed      float64 `json:"moveSpeed" msgpack:"moveSpeed"`     // units/s
	PickupRange    float64 `json:"pickupRange" msgpack:"pickupRange"`
	RearGuard      bool    `json:"rearGuard" msgpack:"rearGuard"`
	BulletLifeTime float64 `json:"bulletLifeTime" msgpack:"bulletLifeTime"` // ms
	SpreadAngle    float64 `json:"spreadAngle" msgpack:"spreadAngle"`       // degrees
	RegenRate      float64 `json:"regenRate" msgpack:"regenRate"`           // hp/s
}

// DefaultStats is the StatBlock of a freshly spawned human tank
func DefaultStats() StatBlock {
	return StatBlock{
		MaxHP:          BaseMaxHP,
		FireRate:       500,
		BulletCount:    1,
		BulletDamage:   20,
		BulletSpeed:    360,
		MoveSpeed:      220,
		PickupRange:    50,
		BulletLifeTime: 3000,
		SpreadAngle:    30,
		RegenRate:      0,
	}
}

// BotStats is the StatBlock of a bot tank: weaker, with passive regen so
// bots recover without visiting heal mechanics humans use
func BotStats() StatBlock {
	s := DefaultStats()
	s.MaxHP = 80
	s.BulletDamage = 15
	s.MoveSpeed = 180
	s.RegenRate = 1
	return s
}

// Player is a tank controlled by a session or by the bot driver
type Player struct {
	ID    string
	X, Y  float64
	Angle float64
	Color string

	HP     float64
	Exp    float64
	MaxExp float64
	Level  int
	Stats  StatBlock

	Alive          bool
	ImmuneUntil    time.Time
	PendingLevelUp bool
	Upgrades       []string // owned catalog ids, acquisition order
	IsBot          bool

	LastShot time.Time

	// Draft offered on the pending level-up; selection must come from it
	offer []string

	// Bot driver state
	WanderAngle float64
}

// NewPlayer creates a player at a random unblocked position
func NewPlayer(id, color string, isBot bool) *Player {
	stats := DefaultStats()
	if isBot {
		stats = BotStats()
	}
	x, y := randomSpawnPoint()
	return &Player{
		ID:          id,
		X:           x,
		Y:           y,
		Color:       color,
		HP:          stats.MaxHP,
		MaxExp:      BaseMaxExp,
		Level:       1,
		Stats:       stats,
		Alive:       true,
		IsBot:       isBot,
		WanderAngle: rand.Float64() * 6.28,
	}
}

// randomSpawnPoint rejection-samples the inner map area until unblocked
func randomSpawnPoint() (float64, float64) {
	for {
		x := TankRadius + rand.Float64()*(WorldWidth-2*TankRadius)
		y := TankRadius + rand.Float64()*(WorldHeight-2*TankRadius)
		if !IsBlocked(x, y, TankRadius) {
			return x, y
		}
	}
}

// Immune reports whether the player ignores damage at the given instant
func (p *Player) Immune(now time.Time) bool {
	return now.Before(p.ImmuneUntil)
}

// TakeDamage reduces HP (floor 0) and returns true if the player died.
// Damage is ignored entirely while immune.
func (p *Player) TakeDamage(dmg float64, now time.Time) bool {
	if !p.Alive || p.Immune(now) {
		return false
	}
	p.HP -= dmg
	if p.HP <= 0 {
		p.HP = 0
		p.Alive = false
		return true
	}
	return false
}

// Respawn resets the player to level 1 defaults at a fresh random position
// with a short immunity window. Bots go through the same reset.
func (p *Player) Respawn(now time.Time) {
	stats := DefaultStats()
	if p.IsBot {
		stats = BotStats()
	}
	p.Stats = stats
	p.HP = stats.MaxHP
	p.Exp = 0
	p.MaxExp = BaseMaxExp
	p.Level = 1
	p.Upgrades = nil
	p.offer = nil
	p.PendingLevelUp = false
	p.Alive = true
	p.X, p.Y = randomSpawnPoint()
	p.ImmuneUntil = now.Add(RespawnImmunity)
}

// CanFire reports whether the fire-rate cooldown has elapsed
func (p *Player) CanFire(now time.Time) bool {
	return p.Alive && now.Sub(p.LastShot) >= time.Duration(p.Stats.FireRate)*time.Millisecond
}

// ToState converts to the wire representation
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:     p.ID,
		X:      round1(p.X),
		Y:      round1(p.Y),
		Angle:  round1(p.Angle),
		Color:  p.Color,
		HP:     round1(p.HP),
		MaxHP:  p.Stats.MaxHP,
		Exp:    round1(p.Exp),
		MaxExp: p.MaxExp,
		Level:  p.Level,
		Alive:  p.Alive,
		Bot:    p.IsBot,
	}
}

package main

import (
	"math"
	"math/rand"
)

const (
	EnemyCap    = 50
	EnemyRadius = 18.0
	EnemyMaxHP  = 40.0
	EnemySpeed  = 120.0 // units/s
	EnemyDamage = 1.0   // contact damage per AI tick
	EnemyExp    = 40.0  // exp credited to the killer
)

// Enemy is an ambient hostile. It only dies to lethal bullet damage;
// the contact damage it deals never destroys it.
type Enemy struct {
	ID     string
	X, Y   float64
	HP     float64
	MaxHP  float64
	Speed  float64
	Radius float64
	Damage float64
	Exp    float64
}

// NewEnemy spawns a hostile at a random unblocked position
func NewEnemy() *Enemy {
	x, y := randomEnemyPoint()
	return &Enemy{
		ID:     GenerateID(4),
		X:      x,
		Y:      y,
		HP:     EnemyMaxHP,
		MaxHP:  EnemyMaxHP,
		Speed:  EnemySpeed,
		Radius: EnemyRadius,
		Damage: EnemyDamage,
		Exp:    EnemyExp,
	}
}

func randomEnemyPoint() (float64, float64) {
	for {
		x := EnemyRadius + rand.Float64()*(WorldWidth-2*EnemyRadius)
		y := EnemyRadius + rand.Float64()*(WorldHeight-2*EnemyRadius)
		if !IsBlocked(x, y, EnemyRadius) {
			return x, y
		}
	}
}

// Seek steps the enemy toward (tx,ty) at its fixed speed, collision-checked.
// A blocked step leaves the enemy in place for this tick.
func (e *Enemy) Seek(tx, ty, dt float64) {
	angle := math.Atan2(ty-e.Y, tx-e.X)
	nx := e.X + math.Cos(angle)*e.Speed*dt
	ny := e.Y + math.Sin(angle)*e.Speed*dt
	if !IsBlocked(nx, ny, e.Radius) {
		e.X = nx
		e.Y = ny
	}
}

// InContact reports whether the enemy touches the given tank
func (e *Enemy) InContact(p *Player) bool {
	return CheckCollision(e.X, e.Y, e.Radius, p.X, p.Y, TankRadius)
}

// TakeDamage reduces HP and returns true if the enemy died
func (e *Enemy) TakeDamage(dmg float64) bool {
	e.HP -= dmg
	if e.HP <= 0 {
		e.HP = 0
		return true
	}
	return false
}

// ToState converts to the wire representation
func (e *Enemy) ToState() EnemyState {
	return EnemyState{
		ID:    e.ID,
		X:     round1(e.X),
		Y:     round1(e.Y),
		HP:    round1(e.HP),
		MaxHP: e.MaxHP,
	}
}

package main

import (
	"math/rand"
	"time"
)

const (
	OrbPopulation   = 50   // ambient orb target
	OrbValue        = 20.0 // ambient orb exp
	OrbEnemyValue   = 10.0 // orb dropped by a dying hostile
	OrbRespawnDelay = time.Second
)

// Orb is a collectable experience pellet
type Orb struct {
	ID    string
	X, Y  float64
	Value float64
}

// NewOrb spawns an orb at a random unblocked position
func NewOrb() *Orb {
	x, y := randomOrbPoint()
	return &Orb{
		ID:    GenerateID(4),
		X:     x,
		Y:     y,
		Value: OrbValue,
	}
}

// NewEnemyOrb spawns the reduced-value orb a hostile drops on death
func NewEnemyOrb(x, y float64) *Orb {
	return &Orb{
		ID:    GenerateID(4),
		X:     x,
		Y:     y,
		Value: OrbEnemyValue,
	}
}

func randomOrbPoint() (float64, float64) {
	for {
		x := 50 + rand.Float64()*(WorldWidth-100)
		y := 50 + rand.Float64()*(WorldHeight-100)
		if !IsBlocked(x, y, 10) {
			return x, y
		}
	}
}

// ToState converts to the wire representation
func (o *Orb) ToState() OrbState {
	return OrbState{
		ID:    o.ID,
		X:     round1(o.X),
		Y:     round1(o.Y),
		Value: o.Value,
	}
}

package main

import "encoding/json"

// Client -> Server message types
const (
	MsgPlayerMove    = "playerMove"
	MsgShoot         = "shoot"
	MsgSelectUpgrade = "selectUpgrade"
	MsgRespawn       = "respawn"
	MsgDebugLevelUp  = "debugLevelUp"
)

// Server -> Client message types
const (
	MsgWelcome       = "welcome"
	MsgGameState     = "gameState"
	MsgPlayerJoined  = "playerJoined"
	MsgPlayerLeft    = "playerLeft"
	MsgPlayerMoved   = "playerMoved"
	MsgBulletShot    = "bulletShot"
	MsgBulletRemoved = "bulletRemoved"
	MsgOrbSpawned    = "orbSpawned"
	MsgOrbCollected  = "orbCollected"
	MsgEnemySpawned  = "enemySpawned"
	MsgEnemiesMoved  = "enemiesMoved"
	MsgEnemyDied     = "enemyDied"
	MsgPlayerHit     = "playerHit"
	MsgPlayerExp     = "playerExpUpdate"
	MsgPlayerImmune  = "playerImmunity"
	MsgLevelOptions  = "levelUpOptions"
	MsgPlayerDied    = "playerDied"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// MoveMsg carries a position/orientation intent
type MoveMsg struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// ShootMsg carries a fire intent
type ShootMsg struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// SelectUpgradeMsg picks one option from a pending draft
type SelectUpgradeMsg struct {
	UpgradeID string `json:"upgradeId"`
}

// DebugMsg carries the admin password for dev-only commands
type DebugMsg struct {
	Password string `json:"password"`
}

// WelcomeMsg is sent to a player right after their tank is created.
// Token lets the client reclaim this identity after a reconnect.
type WelcomeMsg struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Token string `json:"token,omitempty"`
}

// PlayerState is the full wire representation of a tank
type PlayerState struct {
	ID     string  `json:"id" msgpack:"id"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Angle  float64 `json:"angle" msgpack:"angle"`
	Color  string  `json:"color" msgpack:"color"`
	HP     float64 `json:"hp" msgpack:"hp"`
	MaxHP  float64 `json:"maxHp" msgpack:"maxHp"`
	Exp    float64 `json:"exp" msgpack:"exp"`
	MaxExp float64 `json:"maxExp" msgpack:"maxExp"`
	Level  int     `json:"level" msgpack:"level"`
	Alive  bool    `json:"alive" msgpack:"alive"`
	Bot    bool    `json:"bot" msgpack:"bot"`
}

// BulletState is the wire representation of a bullet
type BulletState struct {
	ID    string  `json:"id" msgpack:"id"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Angle float64 `json:"angle" msgpack:"angle"`
	Owner string  `json:"owner" msgpack:"owner"`
}

// OrbState is the wire representation of an orb
type OrbState struct {
	ID    string  `json:"id" msgpack:"id"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Value float64 `json:"value" msgpack:"value"`
}

// EnemyState is the wire representation of a hostile
type EnemyState struct {
	ID    string  `json:"id" msgpack:"id"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	HP    float64 `json:"hp" msgpack:"hp"`
	MaxHP float64 `json:"maxHp" msgpack:"maxHp"`
}

// GameState is the full snapshot sent to a joining player (msgpack, binary)
type GameState struct {
	SelfID  string        `msgpack:"selfId"`
	Players []PlayerState `msgpack:"players"`
	Bullets []BulletState `msgpack:"bullets"`
	Orbs    []OrbState    `msgpack:"orbs"`
	Enemies []EnemyState  `msgpack:"enemies"`
}

// PlayerMovedMsg is broadcast after a validated move (mover excluded)
type PlayerMovedMsg struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
	HP    float64 `json:"hp"`
	Exp   float64 `json:"exp"`
	Level int     `json:"level"`
}

// BulletRemovedMsg fires exactly once per bullet id
type BulletRemovedMsg struct {
	ID string `json:"id"`
}

// OrbCollectedMsg announces an orb pickup
type OrbCollectedMsg struct {
	OrbID    string `json:"orbId"`
	PlayerID string `json:"playerId"`
}

// EnemiesMovedMsg carries every hostile position, once per AI tick
type EnemiesMovedMsg struct {
	Enemies []EnemyState `json:"enemies"`
}

// EnemyDiedMsg announces a hostile death
type EnemyDiedMsg struct {
	ID       string `json:"id"`
	KillerID string `json:"killerId"`
}

// PlayerHitMsg carries a health change
type PlayerHitMsg struct {
	ID string  `json:"id"`
	HP float64 `json:"hp"`
}

// PlayerExpMsg carries a progression change
type PlayerExpMsg struct {
	ID     string  `json:"id"`
	Exp    float64 `json:"exp"`
	MaxExp float64 `json:"maxExp"`
	Level  int     `json:"level"`
}

// PlayerImmunityMsg announces an immunity window
type PlayerImmunityMsg struct {
	ID    string `json:"id"`
	Until int64  `json:"until"` // unix ms
}

// UpgradeOption is the client-safe draft DTO; effect internals never leave
// the server
type UpgradeOption struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Desc   string `json:"description"`
	Rarity int    `json:"rarity"`
}

// LevelUpOptionsMsg offers a draft to one player
type LevelUpOptionsMsg struct {
	Options []UpgradeOption `json:"options"`
}

// PlayerLeftMsg announces a session close
type PlayerLeftMsg struct {
	ID string `json:"id"`
}

// PlayerDiedMsg announces a death
type PlayerDiedMsg struct {
	ID       string `json:"id"`
	KillerID string `json:"killerId,omitempty"`
}

package main

import (
	"log"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickDuration = 50 * time.Millisecond // simulation tick
	TicksPerSec  = 20

	RegenEveryTicks      = 20 // 1s
	EnemySpawnEveryTicks = 40 // 2s

	BotPopulation = 8
)

// Broadcaster is the outbound half of the transport boundary
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game is the single authoritative World State aggregate. It exclusively
// owns every entity collection; all mutation happens under one coarse mutex
// held for the duration of each logical step, so a step that touches several
// entities (bullet, victim, shooter) is atomic.
type Game struct {
	mu      sync.Mutex
	players map[string]*Player
	bullets map[string]*Bullet
	orbs    map[string]*Orb
	enemies map[string]*Enemy
	clients map[string]Broadcaster

	// Orb respawn deadlines; spawned once due, never a blocked timer
	orbRespawns []time.Time

	tick      uint64
	nextColor int
	running   bool
	stop      chan struct{}

	analytics *Analytics
}

// NewGame creates a game world seeded with the ambient orb population and
// the bot roster
func NewGame(analytics *Analytics) *Game {
	g := &Game{
		players:   make(map[string]*Player),
		bullets:   make(map[string]*Bullet),
		orbs:      make(map[string]*Orb),
		enemies:   make(map[string]*Enemy),
		clients:   make(map[string]Broadcaster),
		stop:      make(chan struct{}),
		analytics: analytics,
	}
	for i := 0; i < OrbPopulation; i++ {
		o := NewOrb()
		g.orbs[o.ID] = o
	}
	for i := 0; i < BotPopulation; i++ {
		g.spawnBot()
	}
	return g
}

// spawnBot seeds one bot player. Bots are never removed, only respawned.
func (g *Game) spawnBot() {
	id := "bot_" + GenerateID(3)
	p := NewPlayer(id, g.pickColor(), true)
	g.players[id] = p
}

func (g *Game) pickColor() string {
	c := ColorPalette[g.nextColor%len(ColorPalette)]
	g.nextColor++
	return c
}

// Run starts the game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// update runs one simulation tick. Every periodic driver is phased off the
// same tick counter so no two steps ever interleave.
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	dt := TickDuration.Seconds()
	g.tick++

	g.stepBullets(now, dt)
	g.stepEnemies(now, dt)
	g.stepBots(now, dt)
	g.spawnDueOrbs(now)

	if g.tick%RegenEveryTicks == 0 {
		g.regenTick()
	}
	if g.tick%EnemySpawnEveryTicks == 0 {
		g.spawnEnemyTick()
	}
}

// --- Connection lifecycle ---

// AddHumanPlayer creates a tank for a new session, sends it the full
// snapshot, and announces the join to everyone else. id and color may come
// from a validated rejoin token; empty means fresh.
func (g *Game) AddHumanPlayer(client Broadcaster, id, color string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id == "" {
		id = GenerateID(4)
	}
	if color == "" {
		color = g.pickColor()
	}
	p := NewPlayer(id, color, false)
	g.players[id] = p
	g.clients[id] = client

	g.sendSnapshot(client, id)
	g.broadcastExcept(id, Envelope{T: MsgPlayerJoined, Data: p.ToState()})
	g.analytics.Track(EvtJoin, id, "")
	return p
}

// RemovePlayer removes a human player and every bullet it owns
func (g *Game) RemovePlayer(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.players[id]; !ok {
		return
	}
	delete(g.players, id)
	delete(g.clients, id)
	for _, b := range g.bullets {
		if b.OwnerID == id {
			g.removeBullet(b)
		}
	}
	g.broadcast(Envelope{T: MsgPlayerLeft, Data: PlayerLeftMsg{ID: id}})
	g.analytics.Track(EvtLeave, id, "")
}

// HasPlayer reports whether a player id is live
func (g *Game) HasPlayer(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.players[id]
	return ok
}

// PlayerCount returns the number of players, bots included
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// sendSnapshot delivers the full world state as a binary msgpack frame
func (g *Game) sendSnapshot(client Broadcaster, selfID string) {
	state := GameState{
		SelfID:  selfID,
		Players: make([]PlayerState, 0, len(g.players)),
		Bullets: make([]BulletState, 0, len(g.bullets)),
		Orbs:    make([]OrbState, 0, len(g.orbs)),
		Enemies: make([]EnemyState, 0, len(g.enemies)),
	}
	for _, p := range g.players {
		state.Players = append(state.Players, p.ToState())
	}
	for _, b := range g.bullets {
		state.Bullets = append(state.Bullets, b.ToState())
	}
	for _, o := range g.orbs {
		state.Orbs = append(state.Orbs, o.ToState())
	}
	for _, e := range g.enemies {
		state.Enemies = append(state.Enemies, e.ToState())
	}
	data, err := msgpack.Marshal(state)
	if err != nil {
		log.Printf("snapshot marshal: %v", err)
		return
	}
	client.SendBinary(data)
}

// --- Shooting ---

// HandleShoot processes a fire intent from a living shooter
func (g *Game) HandleShoot(playerID string, msg ShootMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok || !p.Alive {
		return
	}
	g.fireVolley(p, msg.Angle, time.Now())
}

// fireVolley spawns a volley if the shooter's cooldown has elapsed
func (g *Game) fireVolley(p *Player, angle float64, now time.Time) {
	if !p.CanFire(now) {
		return
	}
	p.LastShot = now
	for _, b := range SpawnVolley(p, angle, now) {
		g.bullets[b.ID] = b
		g.broadcast(Envelope{T: MsgBulletShot, Data: b.ToState()})
	}
}

// stepBullets advances every live bullet and resolves hits in the order
// players, enemies, geometry, then lifetime expiry
func (g *Game) stepBullets(now time.Time, dt float64) {
	for _, b := range g.bullets {
		if !b.Alive {
			continue
		}
		b.Advance(dt)

		if g.resolveBulletPlayerHit(b, now) {
			continue
		}
		if g.resolveBulletEnemyHit(b, now) {
			continue
		}
		if IsBlocked(b.X, b.Y, BulletRadius) {
			g.removeBullet(b)
			continue
		}
		if now.After(b.Expires) {
			g.removeBullet(b)
		}
	}
}

// resolveBulletPlayerHit removes the bullet on contact with any living
// non-owner tank. An immune victim absorbs the bullet without damage.
func (g *Game) resolveBulletPlayerHit(b *Bullet, now time.Time) bool {
	for _, p := range g.players {
		if !p.Alive || p.ID == b.OwnerID {
			continue
		}
		if !CheckCollision(b.X, b.Y, BulletRadius, p.X, p.Y, TankRadius) {
			continue
		}
		g.removeBullet(b)
		if p.Immune(now) {
			return true
		}
		died := p.TakeDamage(b.Damage, now)
		g.broadcast(Envelope{T: MsgPlayerHit, Data: PlayerHitMsg{ID: p.ID, HP: round1(p.HP)}})
		if died {
			g.handlePlayerDeath(p, b.OwnerID, now)
			if shooter, ok := g.players[b.OwnerID]; ok {
				g.addExp(shooter, KillExp, now)
			}
		}
		return true
	}
	return false
}

// resolveBulletEnemyHit removes the bullet on contact with a hostile and
// credits the shooter on a lethal hit
func (g *Game) resolveBulletEnemyHit(b *Bullet, now time.Time) bool {
	for _, e := range g.enemies {
		if !CheckCollision(b.X, b.Y, BulletRadius, e.X, e.Y, e.Radius) {
			continue
		}
		g.removeBullet(b)
		if e.TakeDamage(b.Damage) {
			delete(g.enemies, e.ID)
			g.broadcast(Envelope{T: MsgEnemyDied, Data: EnemyDiedMsg{ID: e.ID, KillerID: b.OwnerID}})
			orb := NewEnemyOrb(e.X, e.Y)
			g.orbs[orb.ID] = orb
			g.broadcast(Envelope{T: MsgOrbSpawned, Data: orb.ToState()})
			if shooter, ok := g.players[b.OwnerID]; ok {
				g.analytics.Track(EvtEnemyKill, shooter.ID, e.ID)
				g.addExp(shooter, e.Exp, now)
			}
		}
		return true
	}
	return false
}

// removeBullet retires a bullet exactly once; the Alive guard makes a
// second call on the same bullet a no-op
func (g *Game) removeBullet(b *Bullet) {
	if !b.Alive {
		return
	}
	b.Alive = false
	delete(g.bullets, b.ID)
	g.broadcast(Envelope{T: MsgBulletRemoved, Data: BulletRemovedMsg{ID: b.ID}})
}

// --- Death & respawn ---

// handlePlayerDeath marks a human dead until it asks to respawn; bots
// respawn in place immediately
func (g *Game) handlePlayerDeath(p *Player, killerID string, now time.Time) {
	g.broadcast(Envelope{T: MsgPlayerDied, Data: PlayerDiedMsg{ID: p.ID, KillerID: killerID}})
	g.analytics.Track(EvtDeath, p.ID, killerID)
	if killerID != "" {
		g.analytics.Track(EvtKill, killerID, p.ID)
	}
	if p.IsBot {
		g.respawnPlayer(p, now)
	}
}

// HandleRespawn revives a dead human at a fresh position
func (g *Game) HandleRespawn(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok || p.Alive {
		return
	}
	g.respawnPlayer(p, time.Now())
}

func (g *Game) respawnPlayer(p *Player, now time.Time) {
	p.Respawn(now)
	g.broadcast(Envelope{T: MsgPlayerMoved, Data: movedMsg(p)})
	g.broadcast(Envelope{T: MsgPlayerImmune, Data: PlayerImmunityMsg{
		ID:    p.ID,
		Until: p.ImmuneUntil.UnixMilli(),
	}})
}

// regenTick heals every regenerating player once per second
func (g *Game) regenTick() {
	for _, p := range g.players {
		if !p.Alive || p.Stats.RegenRate <= 0 || p.HP >= p.Stats.MaxHP {
			continue
		}
		p.HP += p.Stats.RegenRate
		if p.HP > p.Stats.MaxHP {
			p.HP = p.Stats.MaxHP
		}
		g.broadcast(Envelope{T: MsgPlayerHit, Data: PlayerHitMsg{ID: p.ID, HP: round1(p.HP)}})
	}
}

// --- Leveling ---

// addExp credits experience and runs the level-up check
func (g *Game) addExp(p *Player, amount float64, now time.Time) {
	p.Exp += amount
	g.broadcast(Envelope{T: MsgPlayerExp, Data: expMsg(p)})
	g.checkLevelUp(p, now)
}

// checkLevelUp starts a draft when the exp threshold is crossed. The
// pendingLevelUp flag keeps a second draft from being issued while one is
// unresolved, however far exp is pushed past the threshold.
func (g *Game) checkLevelUp(p *Player, now time.Time) {
	if p.Exp < p.MaxExp || p.PendingLevelUp {
		return
	}
	p.PendingLevelUp = true
	p.ImmuneUntil = now.Add(LevelUpImmunity)
	g.broadcast(Envelope{T: MsgPlayerImmune, Data: PlayerImmunityMsg{
		ID:    p.ID,
		Until: p.ImmuneUntil.UnixMilli(),
	}})
	g.analytics.Track(EvtLevelUp, p.ID, "")

	if p.IsBot {
		draft := GenerateUpgrades(1, p)
		if len(draft) > 0 {
			advanceLevel(p, draft[0])
		} else {
			advanceLevelEmpty(p)
		}
		g.broadcast(Envelope{T: MsgPlayerExp, Data: expMsg(p)})
		return
	}

	draft := GenerateUpgrades(3, p)
	if len(draft) == 0 {
		advanceLevelEmpty(p)
		g.broadcast(Envelope{T: MsgPlayerExp, Data: expMsg(p)})
		return
	}
	options := make([]UpgradeOption, 0, len(draft))
	p.offer = p.offer[:0]
	for _, u := range draft {
		p.offer = append(p.offer, u.ID)
		options = append(options, UpgradeOption{ID: u.ID, Name: u.Name, Desc: u.Desc, Rarity: u.Rarity})
	}
	g.sendTo(p.ID, Envelope{T: MsgLevelOptions, Data: LevelUpOptionsMsg{Options: options}})
}

// HandleSelectUpgrade resolves a pending draft. Ids outside the offered
// draft or unknown to the catalog are silently ignored.
func (g *Game) HandleSelectUpgrade(playerID, upgradeID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok || !p.PendingLevelUp {
		return
	}
	offered := false
	for _, id := range p.offer {
		if id == upgradeID {
			offered = true
			break
		}
	}
	if !offered {
		return
	}
	u, ok := UpgradeCatalogMap[upgradeID]
	if !ok {
		return
	}
	advanceLevel(p, u)
	g.broadcast(Envelope{T: MsgPlayerExp, Data: expMsg(p)})
	g.broadcast(Envelope{T: MsgPlayerHit, Data: PlayerHitMsg{ID: p.ID, HP: round1(p.HP)}})
	now := time.Now()
	g.checkLevelUp(p, now) // leftover exp may cross the next threshold
}

// HandleDebugLevelUp force-fills exp to the threshold (dev-only, gated
// upstream by the admin password)
func (g *Game) HandleDebugLevelUp(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok || !p.Alive {
		return
	}
	p.Exp = p.MaxExp
	g.broadcast(Envelope{T: MsgPlayerExp, Data: expMsg(p)})
	g.checkLevelUp(p, time.Now())
}

// --- Hostiles ---

// spawnEnemyTick adds one hostile while under the population cap
func (g *Game) spawnEnemyTick() {
	if len(g.enemies) >= EnemyCap {
		return
	}
	e := NewEnemy()
	g.enemies[e.ID] = e
	g.broadcast(Envelope{T: MsgEnemySpawned, Data: e.ToState()})
}

// stepEnemies runs the hostile AI: each hostile seeks the nearest living
// tank and contact-damages it while touching. Positions go out once per tick.
func (g *Game) stepEnemies(now time.Time, dt float64) {
	if len(g.enemies) == 0 {
		return
	}
	for _, e := range g.enemies {
		target := g.nearestLivingPlayer(e.X, e.Y)
		if target == nil {
			continue
		}
		e.Seek(target.X, target.Y, dt)
		if e.InContact(target) {
			died := target.TakeDamage(e.Damage, now)
			if !target.Immune(now) {
				g.broadcast(Envelope{T: MsgPlayerHit, Data: PlayerHitMsg{ID: target.ID, HP: round1(target.HP)}})
			}
			if died {
				g.handlePlayerDeath(target, e.ID, now)
			}
		}
	}
	states := make([]EnemyState, 0, len(g.enemies))
	for _, e := range g.enemies {
		states = append(states, e.ToState())
	}
	g.broadcast(Envelope{T: MsgEnemiesMoved, Data: EnemiesMovedMsg{Enemies: states}})
}

func (g *Game) nearestLivingPlayer(x, y float64) *Player {
	var best *Player
	bestD := 0.0
	for _, p := range g.players {
		if !p.Alive {
			continue
		}
		d := DistanceSq(x, y, p.X, p.Y)
		if best == nil || d < bestD {
			best = p
			bestD = d
		}
	}
	return best
}

// --- Orbs ---

// spawnDueOrbs replaces collected orbs whose respawn delay has elapsed
func (g *Game) spawnDueOrbs(now time.Time) {
	remaining := g.orbRespawns[:0]
	for _, due := range g.orbRespawns {
		if now.Before(due) {
			remaining = append(remaining, due)
			continue
		}
		o := NewOrb()
		g.orbs[o.ID] = o
		g.broadcast(Envelope{T: MsgOrbSpawned, Data: o.ToState()})
	}
	g.orbRespawns = remaining
}

// --- Broadcast plumbing ---

func (g *Game) broadcast(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}

func (g *Game) broadcastExcept(exceptID string, msg Envelope) {
	for id, client := range g.clients {
		if id == exceptID {
			continue
		}
		client.SendJSON(msg)
	}
}

func (g *Game) sendTo(playerID string, msg Envelope) {
	if client, ok := g.clients[playerID]; ok {
		client.SendJSON(msg)
	}
}

func movedMsg(p *Player) PlayerMovedMsg {
	return PlayerMovedMsg{
		ID:    p.ID,
		X:     round1(p.X),
		Y:     round1(p.Y),
		Angle: round1(p.Angle),
		HP:    round1(p.HP),
		Exp:   round1(p.Exp),
		Level: p.Level,
	}
}

func expMsg(p *Player) PlayerExpMsg {
	return PlayerExpMsg{
		ID:     p.ID,
		Exp:    round1(p.Exp),
		MaxExp: p.MaxExp,
		Level:  p.Level,
	}
}

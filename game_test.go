package main

import (
	"sync"
	"testing"
	"time"
)

// mockBroadcaster captures sent messages for testing
type mockBroadcaster struct {
	mu     sync.Mutex
	msgs   []Envelope
	binary [][]byte
}

func (m *mockBroadcaster) SendJSON(msg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if env, ok := msg.(Envelope); ok {
		m.msgs = append(m.msgs, env)
	}
}

func (m *mockBroadcaster) SendBinary(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.binary = append(m.binary, data)
}

func (m *mockBroadcaster) count(msgType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, env := range m.msgs {
		if env.T == msgType {
			n++
		}
	}
	return n
}

func (m *mockBroadcaster) last(msgType string) (Envelope, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.msgs) - 1; i >= 0; i-- {
		if m.msgs[i].T == msgType {
			return m.msgs[i], true
		}
	}
	return Envelope{}, false
}

// newTestGame builds an empty deterministic world (no bots, orbs, enemies)
func newTestGame() *Game {
	g := NewGame(nil)
	g.players = make(map[string]*Player)
	g.orbs = make(map[string]*Orb)
	g.enemies = make(map[string]*Enemy)
	g.bullets = make(map[string]*Bullet)
	return g
}

// addTestPlayer inserts a human player with a mock client at a fixed position
func addTestPlayer(g *Game, id string, x, y float64) (*Player, *mockBroadcaster) {
	p := NewPlayer(id, "#ffffff", false)
	p.X = x
	p.Y = y
	client := &mockBroadcaster{}
	g.players[id] = p
	g.clients[id] = client
	return p, client
}

func TestAddHumanPlayerSendsSnapshotAndAnnounces(t *testing.T) {
	g := newTestGame()
	_, existing := addTestPlayer(g, "a", 100, 100)

	joiner := &mockBroadcaster{}
	p := g.AddHumanPlayer(joiner, "", "")
	if p == nil {
		t.Fatal("expected player")
	}
	if len(joiner.binary) != 1 {
		t.Fatalf("expected 1 binary snapshot for joiner, got %d", len(joiner.binary))
	}
	if existing.count(MsgPlayerJoined) != 1 {
		t.Errorf("expected 1 playerJoined for existing client, got %d", existing.count(MsgPlayerJoined))
	}
	if joiner.count(MsgPlayerJoined) != 0 {
		t.Error("joiner should not receive its own join event")
	}
}

func TestRemovePlayerRemovesOwnedBullets(t *testing.T) {
	g := newTestGame()
	p, _ := addTestPlayer(g, "a", 100, 100)
	_, other := addTestPlayer(g, "b", 3000, 3000)

	now := time.Now()
	g.fireVolley(p, 0, now)
	if len(g.bullets) != 1 {
		t.Fatalf("expected 1 bullet, got %d", len(g.bullets))
	}

	g.RemovePlayer("a")
	if len(g.bullets) != 0 {
		t.Errorf("expected owned bullets removed, got %d", len(g.bullets))
	}
	if other.count(MsgPlayerLeft) != 1 {
		t.Errorf("expected 1 playerLeft, got %d", other.count(MsgPlayerLeft))
	}
	if other.count(MsgBulletRemoved) != 1 {
		t.Errorf("expected 1 bulletRemoved, got %d", other.count(MsgBulletRemoved))
	}
}

func TestLevelUpScenario(t *testing.T) {
	g := newTestGame()
	p, client := addTestPlayer(g, "a", 100, 100)
	_, other := addTestPlayer(g, "b", 3000, 3000)
	p.Angle = 0

	now := time.Now()
	// Four orbs: exp 80, no level-up yet
	for i := 0; i < 4; i++ {
		o := &Orb{ID: GenerateID(4), X: 110, Y: 100, Value: OrbValue}
		g.orbs[o.ID] = o
		g.resolvePickups(p, now)
	}
	if p.Exp != 80 {
		t.Fatalf("expected exp 80, got %v", p.Exp)
	}
	if p.PendingLevelUp {
		t.Fatal("level-up should not be pending at exp 80")
	}

	// Fifth orb crosses the threshold
	o := &Orb{ID: GenerateID(4), X: 110, Y: 100, Value: OrbValue}
	g.orbs[o.ID] = o
	g.resolvePickups(p, now)

	if !p.PendingLevelUp {
		t.Fatal("expected pendingLevelUp")
	}
	until := p.ImmuneUntil.Sub(now)
	if until < 9*time.Second || until > 11*time.Second {
		t.Errorf("expected ~10s immunity window, got %v", until)
	}
	if client.count(MsgLevelOptions) != 1 {
		t.Fatalf("expected exactly 1 levelUpOptions, got %d", client.count(MsgLevelOptions))
	}
	if other.count(MsgLevelOptions) != 0 {
		t.Error("levelUpOptions must go to the leveling player only")
	}

	env, _ := client.last(MsgLevelOptions)
	opts := env.Data.(LevelUpOptionsMsg).Options
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}
	seen := make(map[string]bool)
	for _, o := range opts {
		if seen[o.ID] {
			t.Errorf("duplicate option %s in draft", o.ID)
		}
		seen[o.ID] = true
	}
}

func TestPendingLevelUpBlocksSecondDraft(t *testing.T) {
	g := newTestGame()
	p, client := addTestPlayer(g, "a", 100, 100)

	now := time.Now()
	g.addExp(p, 100, now)
	if client.count(MsgLevelOptions) != 1 {
		t.Fatalf("expected 1 draft, got %d", client.count(MsgLevelOptions))
	}

	// Exp pushed further above the threshold while the draft is unresolved
	g.addExp(p, 500, now)
	if client.count(MsgLevelOptions) != 1 {
		t.Errorf("second draft issued while one pending: got %d", client.count(MsgLevelOptions))
	}
}

func TestSelectUpgradeAdvancesLevel(t *testing.T) {
	g := newTestGame()
	p, _ := addTestPlayer(g, "a", 100, 100)

	g.addExp(p, 120, time.Now())
	if !p.PendingLevelUp || len(p.offer) == 0 {
		t.Fatal("expected pending draft")
	}
	chosen := p.offer[0]
	g.HandleSelectUpgrade("a", chosen)

	if p.Level != 2 {
		t.Errorf("expected level 2, got %d", p.Level)
	}
	if p.Exp != 20 {
		t.Errorf("expected leftover exp 20, got %v", p.Exp)
	}
	if p.MaxExp != 120 {
		t.Errorf("expected maxExp 120, got %v", p.MaxExp)
	}
	if p.HP != p.Stats.MaxHP {
		t.Errorf("expected full heal, got %v/%v", p.HP, p.Stats.MaxHP)
	}
	if p.PendingLevelUp {
		t.Error("pendingLevelUp should be cleared")
	}
	if len(p.Upgrades) != 1 || p.Upgrades[0] != chosen {
		t.Errorf("expected owned list [%s], got %v", chosen, p.Upgrades)
	}
	if p.Immune(time.Now()) {
		t.Error("immunity should be cleared after selection")
	}
}

func TestSelectUpgradeOutsideOfferIgnored(t *testing.T) {
	g := newTestGame()
	p, _ := addTestPlayer(g, "a", 100, 100)

	g.addExp(p, 100, time.Now())
	notOffered := ""
	for _, u := range UpgradeCatalog {
		offered := false
		for _, id := range p.offer {
			if id == u.ID {
				offered = true
			}
		}
		if !offered && u.Requires == "" {
			notOffered = u.ID
			break
		}
	}
	if notOffered == "" {
		t.Skip("every root upgrade happened to be offered")
	}

	g.HandleSelectUpgrade("a", notOffered)
	if p.Level != 1 || !p.PendingLevelUp {
		t.Error("selection outside the offered draft must be ignored")
	}

	g.HandleSelectUpgrade("a", "no_such_upgrade")
	if p.Level != 1 || !p.PendingLevelUp {
		t.Error("unknown upgrade id must be ignored")
	}
}

func TestRegenTickHealsAndBroadcasts(t *testing.T) {
	g := newTestGame()
	p, client := addTestPlayer(g, "a", 100, 100)
	p.Stats.RegenRate = 2
	p.HP = 50

	g.regenTick()
	if p.HP != 52 {
		t.Errorf("expected hp 52, got %v", p.HP)
	}
	if client.count(MsgPlayerHit) != 1 {
		t.Errorf("expected 1 health broadcast, got %d", client.count(MsgPlayerHit))
	}

	// Never past maxHp
	p.HP = p.Stats.MaxHP - 1
	g.regenTick()
	if p.HP != p.Stats.MaxHP {
		t.Errorf("expected hp clamped to maxHp, got %v", p.HP)
	}
}

func TestHumanDeathWaitsForRespawnRequest(t *testing.T) {
	g := newTestGame()
	p, _ := addTestPlayer(g, "a", 100, 100)
	p.HP = 5

	now := time.Now()
	p.TakeDamage(10, now)
	g.handlePlayerDeath(p, "killer", now)
	if p.Alive {
		t.Fatal("human should stay dead until respawn request")
	}

	g.HandleRespawn("a")
	if !p.Alive {
		t.Fatal("expected respawn")
	}
	if p.Level != 1 || p.Exp != 0 || p.MaxExp != BaseMaxExp {
		t.Errorf("respawn should reset progression: level=%d exp=%v maxExp=%v", p.Level, p.Exp, p.MaxExp)
	}
	if !p.Immune(time.Now()) {
		t.Error("expected respawn immunity window")
	}
}

func TestRespawnIgnoredWhileAlive(t *testing.T) {
	g := newTestGame()
	p, _ := addTestPlayer(g, "a", 100, 100)
	p.Level = 4

	g.HandleRespawn("a")
	if p.Level != 4 {
		t.Error("respawn of a living player must be a no-op")
	}
}

func TestDebugLevelUpForcesDraft(t *testing.T) {
	g := newTestGame()
	p, client := addTestPlayer(g, "a", 100, 100)

	g.HandleDebugLevelUp("a")
	if !p.PendingLevelUp {
		t.Fatal("expected forced level-up check to trip")
	}
	if client.count(MsgLevelOptions) != 1 {
		t.Errorf("expected 1 draft, got %d", client.count(MsgLevelOptions))
	}
}

func TestWorldSeeding(t *testing.T) {
	g := NewGame(nil)
	if len(g.orbs) != OrbPopulation {
		t.Errorf("expected %d ambient orbs, got %d", OrbPopulation, len(g.orbs))
	}
	bots := 0
	for _, p := range g.players {
		if p.IsBot {
			bots++
		}
	}
	if bots != BotPopulation {
		t.Errorf("expected %d bots, got %d", BotPopulation, bots)
	}
}

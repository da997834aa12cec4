package main

import (
	"math"
	"testing"
	"time"
)

func addTestBot(g *Game, id string, x, y float64) *Player {
	b := NewPlayer(id, "#00ff00", true)
	b.X = x
	b.Y = y
	g.players[id] = b
	return b
}

func TestBotTargetsNearestNonImmuneHuman(t *testing.T) {
	g := newTestGame()
	bot := addTestBot(g, "bot", 500, 500)

	closeButImmune, _ := addTestPlayer(g, "immune", 560, 500)
	closeButImmune.ImmuneUntil = time.Now().Add(5 * time.Second)
	viable, _ := addTestPlayer(g, "viable", 900, 500)
	other := addTestBot(g, "other-bot", 520, 500)
	_ = other

	target := g.nearestHumanTarget(bot, time.Now())
	if target != viable {
		t.Fatalf("expected the non-immune human as target, got %+v", target)
	}
}

func TestBotAdvancesWhenFar(t *testing.T) {
	g := newTestGame()
	bot := addTestBot(g, "bot", 500, 500)
	addTestPlayer(g, "h", 800, 500) // dist 300, beyond advance range

	g.stepBot(bot, time.Now(), 0.05)

	want := 500 + bot.Stats.MoveSpeed*0.05
	if math.Abs(bot.X-want) > 0.001 || bot.Y != 500 {
		t.Errorf("expected advance to x=%v, got (%v,%v)", want, bot.X, bot.Y)
	}
}

func TestBotRetreatsWhenClose(t *testing.T) {
	g := newTestGame()
	bot := addTestBot(g, "bot", 500, 500)
	addTestPlayer(g, "h", 600, 500) // dist 100, inside retreat range

	g.stepBot(bot, time.Now(), 0.05)

	want := 500 - bot.Stats.MoveSpeed*0.05
	if math.Abs(bot.X-want) > 0.001 || bot.Y != 500 {
		t.Errorf("expected retreat to x=%v, got (%v,%v)", want, bot.X, bot.Y)
	}
}

func TestBotHoldsInsideComfortBand(t *testing.T) {
	g := newTestGame()
	bot := addTestBot(g, "bot", 500, 500)
	addTestPlayer(g, "h", 675, 500) // between retreat and advance ranges

	g.stepBot(bot, time.Now(), 0.05)

	if bot.X != 500 || bot.Y != 500 {
		t.Errorf("expected the bot to hold position, got (%v,%v)", bot.X, bot.Y)
	}
}

func TestBotFiresOnlyWhenAligned(t *testing.T) {
	g := newTestGame()
	bot := addTestBot(g, "bot", 500, 500)
	addTestPlayer(g, "h", 675, 500)
	bot.Angle = math.Pi // facing away

	g.stepBot(bot, time.Now(), 0.05)
	if len(g.bullets) != 0 {
		t.Fatal("misaligned bot must not fire")
	}

	// A few more ticks of proportional turning brings it on target
	for i := 0; i < 40 && len(g.bullets) == 0; i++ {
		g.stepBot(bot, time.Now(), 0.05)
	}
	if len(g.bullets) == 0 {
		t.Error("bot never fired after converging on the target")
	}
}

func TestBotFireHonorsCooldown(t *testing.T) {
	g := newTestGame()
	bot := addTestBot(g, "bot", 500, 500)
	_, client := addTestPlayer(g, "h", 675, 500)

	now := time.Now()
	g.stepBot(bot, now, 0.05)
	if client.count(MsgBulletShot) != 1 {
		t.Fatalf("expected 1 bulletShot, got %d", client.count(MsgBulletShot))
	}
	g.stepBot(bot, now.Add(50*time.Millisecond), 0.05)
	if client.count(MsgBulletShot) != 1 {
		t.Errorf("cooldown ignored, got %d bulletShot", client.count(MsgBulletShot))
	}
	g.stepBot(bot, now.Add(time.Duration(bot.Stats.FireRate+10)*time.Millisecond), 0.05)
	if client.count(MsgBulletShot) != 2 {
		t.Errorf("expected a second volley after cooldown, got %d", client.count(MsgBulletShot))
	}
}

func TestBotSeeksOrbWithoutTarget(t *testing.T) {
	g := newTestGame()
	bot := addTestBot(g, "bot", 500, 500)
	g.orbs["o"] = &Orb{ID: "o", X: 800, Y: 500, Value: OrbValue}

	g.stepBot(bot, time.Now(), 0.05)

	want := 500 + bot.Stats.MoveSpeed*0.05
	if math.Abs(bot.X-want) > 0.001 || bot.Y != 500 {
		t.Errorf("expected orb seek to x=%v, got (%v,%v)", want, bot.X, bot.Y)
	}
	if len(g.bullets) != 0 {
		t.Error("no firing while grazing")
	}
}

func TestBotIgnoresOrbBeyondSense(t *testing.T) {
	g := newTestGame()
	bot := addTestBot(g, "bot", 500, 500)
	g.orbs["o"] = &Orb{ID: "o", X: 500 + BotOrbSense + 100, Y: 500, Value: OrbValue}

	if g.nearestOrb(bot) != nil {
		t.Error("orb beyond sensing range must be invisible to the bot")
	}
}

func TestBotWandersWhenWorldIsEmpty(t *testing.T) {
	g := newTestGame()
	bot := addTestBot(g, "bot", 2000, 2000)

	g.stepBot(bot, time.Now(), 0.05)
	if bot.X == 2000 && bot.Y == 2000 {
		t.Error("wandering bot should drift from its position")
	}
}

func TestBotRespawnsImmediatelyOnDeath(t *testing.T) {
	g := newTestGame()
	bot := addTestBot(g, "bot", 500, 500)
	_, client := addTestPlayer(g, "h", 3000, 3000)

	now := time.Now()
	bot.HP = 0
	bot.Alive = false
	g.handlePlayerDeath(bot, "h", now)

	if !bot.Alive {
		t.Fatal("bot must respawn without a respawn request")
	}
	if bot.HP != bot.Stats.MaxHP {
		t.Errorf("expected full heal, got hp %v", bot.HP)
	}
	if !bot.Immune(now.Add(2 * time.Second)) {
		t.Error("expected respawn immunity")
	}
	if client.count(MsgPlayerDied) != 1 {
		t.Errorf("expected 1 playerDied, got %d", client.count(MsgPlayerDied))
	}
}

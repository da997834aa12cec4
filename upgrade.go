package main

import (
	"math"
	"math/rand"
	"time"
)

// Rarity tiers for upgrades
const (
	RarityCommon    = 0
	RarityUncommon  = 1
	RarityRare      = 2
	RarityEpic      = 3
	RarityLegendary = 4
)

// EffectKind selects which stat an upgrade modifies. Effects are plain
// data (kind + value); Apply is the single interpreter.
type EffectKind int

const (
	EffectMaxHPMul EffectKind = iota
	EffectFireRateMul
	EffectBulletCountAdd
	EffectBulletDamageMul
	EffectBulletSpeedMul
	EffectMoveSpeedMul
	EffectPickupRangeMul
	EffectRearGuard
	EffectBulletLifeMul
	EffectSpreadAngleAdd
	EffectRegenAdd
)

// Upgrade is an immutable catalog entry
type Upgrade struct {
	ID       string
	Name     string
	Desc     string
	Rarity   int
	Requires string // prerequisite upgrade id, "" if none
	Effect   EffectKind
	Value    float64
}

// UpgradeCatalog is the process-wide upgrade table. Read-only after init.
var UpgradeCatalog = []Upgrade{
	// Hull line
	{ID: "titan_hull_1", Name: "Titan Hull", Desc: "+25% max HP", Rarity: RarityCommon, Effect: EffectMaxHPMul, Value: 1.25},
	{ID: "titan_hull_2", Name: "Titan Hull II", Desc: "+50% max HP", Rarity: RarityRare, Requires: "titan_hull_1", Effect: EffectMaxHPMul, Value: 1.5},
	{ID: "titan_hull_3", Name: "Titan Hull III", Desc: "Double max HP", Rarity: RarityLegendary, Requires: "titan_hull_2", Effect: EffectMaxHPMul, Value: 2.0},

	// Fire rate line
	{ID: "rapid_loader_1", Name: "Rapid Loader", Desc: "15% faster reload", Rarity: RarityCommon, Effect: EffectFireRateMul, Value: 0.85},
	{ID: "rapid_loader_2", Name: "Rapid Loader II", Desc: "30% faster reload", Rarity: RarityUncommon, Requires: "rapid_loader_1", Effect: EffectFireRateMul, Value: 0.7},
	{ID: "autoloader", Name: "Autoloader", Desc: "Half reload time", Rarity: RarityEpic, Requires: "rapid_loader_2", Effect: EffectFireRateMul, Value: 0.5},

	// Barrel line
	{ID: "twin_cannon", Name: "Twin Cannon", Desc: "+1 bullet per shot", Rarity: RarityUncommon, Effect: EffectBulletCountAdd, Value: 1},
	{ID: "triple_cannon", Name: "Triple Cannon", Desc: "+1 bullet per shot", Rarity: RarityRare, Requires: "twin_cannon", Effect: EffectBulletCountAdd, Value: 1},
	{ID: "bullet_storm", Name: "Bullet Storm", Desc: "+2 bullets per shot", Rarity: RarityLegendary, Requires: "triple_cannon", Effect: EffectBulletCountAdd, Value: 2},
	{ID: "wide_spread", Name: "Wide Spread", Desc: "+15 degrees of spread", Rarity: RarityCommon, Requires: "twin_cannon", Effect: EffectSpreadAngleAdd, Value: 15},

	// Damage line
	{ID: "heavy_shells_1", Name: "Heavy Shells", Desc: "+30% bullet damage", Rarity: RarityCommon, Effect: EffectBulletDamageMul, Value: 1.3},
	{ID: "heavy_shells_2", Name: "Heavy Shells II", Desc: "+60% bullet damage", Rarity: RarityRare, Requires: "heavy_shells_1", Effect: EffectBulletDamageMul, Value: 1.6},
	{ID: "siege_rounds", Name: "Siege Rounds", Desc: "Double bullet damage", Rarity: RarityEpic, Requires: "heavy_shells_2", Effect: EffectBulletDamageMul, Value: 2.0},

	// Ballistics
	{ID: "velocity_coils", Name: "Velocity Coils", Desc: "+25% bullet speed", Rarity: RarityCommon, Effect: EffectBulletSpeedMul, Value: 1.25},
	{ID: "long_barrel", Name: "Long Barrel", Desc: "+50% bullet lifetime", Rarity: RarityUncommon, Effect: EffectBulletLifeMul, Value: 1.5},
	{ID: "rear_guard", Name: "Rear Guard", Desc: "Fire a backward bullet", Rarity: RarityEpic, Effect: EffectRearGuard, Value: 0},

	// Mobility & utility
	{ID: "light_treads", Name: "Light Treads", Desc: "+20% move speed", Rarity: RarityCommon, Effect: EffectMoveSpeedMul, Value: 1.2},
	{ID: "overdrive", Name: "Overdrive", Desc: "+40% move speed", Rarity: RarityRare, Requires: "light_treads", Effect: EffectMoveSpeedMul, Value: 1.4},
	{ID: "magnet_core", Name: "Magnet Core", Desc: "+50% pickup range", Rarity: RarityUncommon, Effect: EffectPickupRangeMul, Value: 1.5},
	{ID: "repair_drones", Name: "Repair Drones", Desc: "Regenerate 2 HP/s", Rarity: RarityUncommon, Effect: EffectRegenAdd, Value: 2},
	{ID: "nano_swarm", Name: "Nano Swarm", Desc: "Regenerate 5 HP/s", Rarity: RarityEpic, Requires: "repair_drones", Effect: EffectRegenAdd, Value: 5},
}

// UpgradeCatalogMap provides O(1) lookup by upgrade ID
var UpgradeCatalogMap map[string]Upgrade

func init() {
	UpgradeCatalogMap = make(map[string]Upgrade, len(UpgradeCatalog))
	for _, u := range UpgradeCatalog {
		UpgradeCatalogMap[u.ID] = u
	}
}

// Apply mutates a StatBlock according to the upgrade's effect
func (u Upgrade) Apply(s *StatBlock) {
	switch u.Effect {
	case EffectMaxHPMul:
		s.MaxHP *= u.Value
	case EffectFireRateMul:
		s.FireRate *= u.Value
	case EffectBulletCountAdd:
		s.BulletCount += int(u.Value)
	case EffectBulletDamageMul:
		s.BulletDamage *= u.Value
	case EffectBulletSpeedMul:
		s.BulletSpeed *= u.Value
	case EffectMoveSpeedMul:
		s.MoveSpeed *= u.Value
	case EffectPickupRangeMul:
		s.PickupRange *= u.Value
	case EffectRearGuard:
		s.RearGuard = true
	case EffectBulletLifeMul:
		s.BulletLifeTime *= u.Value
	case EffectSpreadAngleAdd:
		s.SpreadAngle += u.Value
	case EffectRegenAdd:
		s.RegenRate += u.Value
	}
}

// rarityForRoll maps a uniform [0,1) roll to a rarity tier
func rarityForRoll(roll float64) int {
	switch {
	case roll > 0.98:
		return RarityLegendary
	case roll > 0.90:
		return RarityEpic
	case roll > 0.70:
		return RarityRare
	case roll > 0.50:
		return RarityUncommon
	default:
		return RarityCommon
	}
}

// eligibleUpgrades returns catalog entries the player does not own yet and
// whose prerequisite (if any) is owned
func eligibleUpgrades(p *Player) []Upgrade {
	owned := make(map[string]bool, len(p.Upgrades))
	for _, id := range p.Upgrades {
		owned[id] = true
	}
	var pool []Upgrade
	for _, u := range UpgradeCatalog {
		if owned[u.ID] {
			continue
		}
		if u.Requires != "" && !owned[u.Requires] {
			continue
		}
		pool = append(pool, u)
	}
	return pool
}

// GenerateUpgrades rolls a draft of up to count distinct eligible upgrades.
// Each slot rolls a rarity bucket; an empty bucket falls back to the whole
// remaining pool. Fewer than count options are returned when the pool runs dry.
func GenerateUpgrades(count int, p *Player) []Upgrade {
	pool := eligibleUpgrades(p)
	var draft []Upgrade
	for i := 0; i < count && len(pool) > 0; i++ {
		rarity := rarityForRoll(rand.Float64())

		candidates := pool[:0:0]
		for _, u := range pool {
			if u.Rarity == rarity {
				candidates = append(candidates, u)
			}
		}
		if len(candidates) == 0 {
			candidates = pool
		}

		picked := candidates[rand.Intn(len(candidates))]
		draft = append(draft, picked)

		for j, u := range pool {
			if u.ID == picked.ID {
				pool = append(pool[:j], pool[j+1:]...)
				break
			}
		}
	}
	return draft
}

// advanceLevel applies the chosen upgrade and runs the shared leveling
// arithmetic. Humans carry leftover exp over; bots reset to zero.
func advanceLevel(p *Player, u Upgrade) {
	u.Apply(&p.Stats)
	p.Upgrades = append(p.Upgrades, u.ID)
	advanceLevelEmpty(p)
}

// advanceLevelEmpty runs the leveling arithmetic alone, used directly when
// the catalog has been exhausted and no upgrade can be offered
func advanceLevelEmpty(p *Player) {
	p.Level++
	if p.IsBot {
		p.Exp = 0
	} else {
		p.Exp = math.Max(0, p.Exp-p.MaxExp)
	}
	p.MaxExp = math.Floor(p.MaxExp * 1.2)
	p.HP = p.Stats.MaxHP
	p.PendingLevelUp = false
	p.offer = nil
	p.ImmuneUntil = time.Time{}
}

package main

import "math"

// ActorKind discriminates enemy behaviours
type ActorKind uint8

const (
	KindEnemy ActorKind = iota
	KindBoss
	kindCount
)

func (k ActorKind) String() string {
	switch k {
	case KindEnemy:
		return "enemy"
	case KindBoss:
		return "boss"
	}
	return "unknown"
}

// Phase is a boss behaviour mode, picked purely from its health fraction
type Phase uint8

const (
	PhaseNone Phase = iota // not evaluated yet
	PhaseAggressive
	PhaseEnraged
	PhaseDesperate
)

func (p Phase) String() string {
	switch p {
	case PhaseAggressive:
		return "aggressive"
	case PhaseEnraged:
		return "enraged"
	case PhaseDesperate:
		return "desperate"
	}
	return "none"
}

// Actor is an enemy ship. Kind selects its row in the behaviour table.
type Actor struct {
	ID        uint32
	Kind      ActorKind
	Pos       Vec3
	HP        int
	MaxHP     int
	Active    bool
	Defeated  bool    // hp reached zero; a despawn leaves this false
	FireTimer float64 // seconds since last volley
	Age       float64
	Phase     Phase // boss only
}

// behavior is the per-kind table entry. A nil func means the kind has no
// such behaviour.
type behavior struct {
	move    func(a *Actor, e *Engine, dt float64)
	phase   func(a *Actor, e *Engine) bool
	fire    func(a *Actor, e *Engine, dt float64)
	despawn func(a *Actor, cfg *Config) bool
}

var behaviors = [kindCount]behavior{
	KindEnemy: {
		move:    moveEnemy,
		fire:    fireEnemy,
		despawn: enemyLeftField,
	},
	KindBoss: {
		move:  moveBoss,
		phase: evaluateBossPhase,
		fire:  fireBoss,
	},
}

// NewEnemy creates a basic enemy at horizontal offset x on the spawn line
func NewEnemy(id uint32, x float64, cfg *Config) *Actor {
	return &Actor{
		ID:     id,
		Kind:   KindEnemy,
		Pos:    Vec3{X: x, Z: cfg.Enemy.SpawnZ},
		HP:     cfg.Enemy.HP,
		MaxHP:  cfg.Enemy.HP,
		Active: true,
	}
}

// NewBoss creates a boss at the top of the field. Its phase stays
// uninitialised until the first update.
func NewBoss(id uint32, cfg *Config) *Actor {
	return &Actor{
		ID:     id,
		Kind:   KindBoss,
		Pos:    Vec3{Z: cfg.Boss.SpawnZ},
		HP:     cfg.Boss.HP,
		MaxHP:  cfg.Boss.HP,
		Active: true,
	}
}

// Update advances one tick: movement, phase evaluation, firing, despawn
func (a *Actor) Update(e *Engine, dt float64) {
	if !a.Active {
		return
	}
	b := &behaviors[a.Kind]
	a.Age += dt
	if b.move != nil {
		b.move(a, e, dt)
	}
	if b.phase != nil && b.phase(a, e) {
		e.director.phaseChanged(e)
	}
	if b.fire != nil {
		b.fire(a, e, dt)
	}
	if b.despawn != nil && b.despawn(a, &e.cfg) {
		a.Active = false
	}
}

// TakeDamage applies damage immediately. Returns true if this hit defeated
// the actor.
func (a *Actor) TakeDamage(amount int, events *EventQueue) bool {
	if !a.Active {
		return false
	}
	a.HP -= amount
	if a.Kind == KindBoss {
		events.Push(Event{Type: EvtBossHealth, Data: HPEvent{HP: ClampHP(a.HP), MaxHP: a.MaxHP}})
	}
	if a.HP <= 0 {
		a.Active = false
		a.Defeated = true
		return true
	}
	events.Push(Event{Type: EvtActorFlashed, Data: a.ref()})
	return false
}

// IsBoss reports whether the actor is boss kind
func (a *Actor) IsBoss() bool { return a.Kind == KindBoss }

// BodyRadius is the radius used against the player's body
func (a *Actor) BodyRadius(cfg *Config) float64 {
	if a.Kind == KindBoss {
		return cfg.Boss.BodyRadius
	}
	return cfg.Enemy.BodyRadius
}

// ShotRadius is the radius used against player shots. Boss-class actors are
// recognised by their max health.
func (a *Actor) ShotRadius(cfg *Config) float64 {
	if a.MaxHP > cfg.Boss.ClassHP {
		return cfg.Boss.ShotRadius
	}
	return cfg.Enemy.ShotRadius
}

func (a *Actor) ref() ActorEvent {
	return ActorEvent{ActorID: a.ID, Kind: a.Kind, Boss: a.IsBoss()}
}

// PhaseFor maps health to a boss phase
func PhaseFor(hp, maxHP int, cfg *BossConfig) Phase {
	switch {
	case hp*100 > maxHP*cfg.AggressiveAbove:
		return PhaseAggressive
	case hp*100 > maxHP*cfg.EnragedAbove:
		return PhaseEnraged
	default:
		return PhaseDesperate
	}
}

func moveEnemy(a *Actor, e *Engine, dt float64) {
	c := &e.cfg.Enemy
	a.Pos.Z += c.AdvanceSpeed * dt
	a.Pos.X += math.Sin(a.Age*c.SwayFreq) * c.SwayAmp * dt
}

func fireEnemy(a *Actor, e *Engine, dt float64) {
	a.FireTimer += dt
	if a.FireTimer > e.cfg.Enemy.FireInterval {
		a.FireTimer = 0
		e.enemyPatterns.FireAimed(a.Pos, e.player.Pos)
	}
}

func enemyLeftField(a *Actor, cfg *Config) bool {
	return a.Pos.Z > cfg.Enemy.DespawnZ
}

// moveBoss traces a figure eight above the player
func moveBoss(a *Actor, e *Engine, dt float64) {
	c := &e.cfg.Boss
	a.Pos.X = math.Sin(a.Age*0.5) * c.SwingX
	a.Pos.Z = c.SpawnZ + math.Sin(a.Age)*c.SwingZ
}

// evaluateBossPhase recomputes the phase from current health. The first
// evaluation only initialises it. Returns true on a change.
func evaluateBossPhase(a *Actor, e *Engine) bool {
	next := PhaseFor(a.HP, a.MaxHP, &e.cfg.Boss)
	changed := next != a.Phase && a.Phase != PhaseNone
	if changed {
		e.events.Push(Event{Type: EvtPhaseChanged, Data: PhaseEvent{ActorID: a.ID, Phase: next}})
	}
	a.Phase = next
	return changed
}

// fireBoss runs the current phase's volley once its interval elapsed. The
// timer is reset, not reduced, so overshoot is dropped.
func fireBoss(a *Actor, e *Engine, dt float64) {
	c := &e.cfg.Boss
	a.FireTimer += dt
	target := e.player.Pos

	switch a.Phase {
	case PhaseAggressive:
		if a.FireTimer > c.Aggressive.FireInterval {
			e.enemyPatterns.FireSpiral(a.Pos, a.Age)
			a.FireTimer = 0
		}
	case PhaseEnraged:
		if a.FireTimer > c.Enraged.FireInterval {
			e.enemyPatterns.FireNWay(a.Pos, target, 7, math.Pi/2)
			e.enemyPatterns.FireAimed(a.Pos, target)
			a.FireTimer = 0
		}
	case PhaseDesperate:
		if a.FireTimer > c.Desperate.FireInterval {
			e.enemyPatterns.FireFlower(a.Pos, 12, a.Age)
			if e.rng.Float64() < c.WaveChance {
				e.enemyPatterns.FireWave(a.Pos, a.Age)
			}
			a.FireTimer = 0
		}
	}
}

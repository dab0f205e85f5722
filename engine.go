package main

import "math/rand/v2"

// GameStateID is the engine's top-level mode
type GameStateID uint8

const (
	StateTitle GameStateID = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s GameStateID) String() string {
	switch s {
	case StateTitle:
		return "title"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameover"
	}
	return "unknown"
}

// RunStats accumulates over one run
type RunStats struct {
	BossKills  int
	EnemyKills int
	BombsUsed  int
	Duration   float64
	GodUsed    bool
}

// Engine is the simulation context. Every subsystem receives it explicitly;
// there is no package-level state, so several engines may run side by side.
// Engine is not safe for concurrent use.
type Engine struct {
	cfg     Config
	pending *Config // applied on the next reset

	rng           *rand.Rand
	enemyShots    *ProjectilePool
	playerShots   *ProjectilePool
	enemyPatterns *Patterns
	player        *Player
	director      *Director
	resolver      *CollisionResolver
	events        EventQueue
	listener      Listener

	state    GameStateID
	score    int
	stats    RunStats
	tick     uint64
	bombHeld bool
}

// NewEngine builds an engine in the title state. The seed drives spawn
// positions and chance-based patterns.
func NewEngine(cfg Config, seed uint64, l Listener) *Engine {
	e := &Engine{
		cfg:      cfg,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		director: NewDirector(),
		listener: l,
	}
	e.buildPools()
	e.player = NewPlayer(&e.cfg)
	e.player.Active = false
	return e
}

func (e *Engine) buildPools() {
	b := e.cfg.Bounds()
	e.enemyShots = NewProjectilePool(e.cfg.Pools.EnemyCapacity, b)
	e.playerShots = NewProjectilePool(e.cfg.Pools.PlayerCapacity, b)
	e.enemyPatterns = NewPatterns(e.enemyShots)
	e.resolver = NewCollisionResolver(b)
}


// SetConfig queues a new tuning. It takes effect on the next reset so a run
// never changes rules midway.
func (e *Engine) SetConfig(cfg Config) {
	e.pending = &cfg
}

// Config returns the tuning in effect
func (e *Engine) Config() Config { return e.cfg }

// State returns the current mode
func (e *Engine) State() GameStateID { return e.state }

// Score returns the running score
func (e *Engine) Score() int { return e.score }

// Stats returns the statistics of the current run
func (e *Engine) Stats() RunStats { return e.stats }

// TickCount returns the number of simulated ticks
func (e *Engine) TickCount() uint64 { return e.tick }

// Player returns the player entity
func (e *Engine) Player() *Player { return e.player }

// Director returns the encounter director
func (e *Engine) Director() *Director { return e.director }

// EnemyShots returns the enemy fire pool
func (e *Engine) EnemyShots() *ProjectilePool { return e.enemyShots }

// PlayerShots returns the player fire pool
func (e *Engine) PlayerShots() *ProjectilePool { return e.playerShots }

// Tick advances the simulation by dt seconds. Stages run in a fixed order:
// input, player, actors, spawns, pools, collision, cleanup, events.
func (e *Engine) Tick(dt float64, in Input) {
	switch e.state {
	case StatePlaying, StateGameOver:
	default:
		return
	}
	if dt <= 0 {
		return
	}
	e.tick++

	if e.state == StatePlaying {
		e.stats.Duration += dt
		if in != nil {
			held := in.IsActionActive(ActionBomb)
			if held && !e.bombHeld {
				e.director.bomb(e)
			}
			e.bombHeld = held
		}
	}

	e.player.Update(&e.cfg, in, e.playerShots, dt)
	e.director.updateActors(e, dt)
	e.director.updateSpawns(e, dt)
	e.playerShots.Tick(dt)
	e.enemyShots.Tick(dt)
	e.resolver.Resolve(&e.cfg, e.player, e.director.roster, e.enemyShots, e.playerShots, &e.events)
	e.director.cleanup(e)
	e.flush()

	if e.state == StateGameOver && e.director.countdown(e, dt) {
		e.Reset()
	}
}

// flush drains the queue until empty. The director reacts first, then the
// listener sees the event. Reactions may queue more events.
func (e *Engine) flush() {
	for e.events.Len() > 0 {
		for _, evt := range e.events.Drain() {
			e.director.react(e, evt)
			if e.listener != nil {
				e.listener.HandleEvent(evt)
			}
		}
	}
}

func (e *Engine) setState(s GameStateID) {
	if e.state == s {
		return
	}
	e.state = s
	e.events.Push(Event{Type: EvtStateChanged, Data: StateEvent{State: s}})
}

func (e *Engine) addScore(points int) {
	e.score += points
	e.events.Push(Event{Type: EvtScore, Data: ScoreEvent{Points: points, Total: e.score}})
}

func (e *Engine) gameOver() {
	if e.state != StatePlaying {
		return
	}
	e.setState(StateGameOver)
	e.events.Push(Event{Type: EvtBossShown, Data: ShownEvent{Shown: false}})
	e.events.Push(Event{Type: EvtRunEnded, Data: e.result()})
}

func (e *Engine) result() RunResult {
	return RunResult{
		Score:        e.score,
		BossKills:    e.stats.BossKills,
		EnemiesKills: e.stats.EnemyKills,
		BombsUsed:    e.stats.BombsUsed,
		Duration:     round2(e.stats.Duration),
		GodMode:      e.stats.GodUsed,
	}
}

// Reset starts a fresh run: pending tuning applied, pools and roster
// cleared, player restored and a boss spawned
func (e *Engine) Reset() {
	if e.pending != nil {
		old := e.cfg.Pools
		e.cfg = *e.pending
		e.pending = nil
		if e.cfg.Pools != old {
			e.buildPools()
		} else {
			b := e.cfg.Bounds()
			e.enemyShots.SetBounds(b)
			e.playerShots.SetBounds(b)
			e.resolver = NewCollisionResolver(b)
		}
	}
	e.enemyShots.Clear()
	e.playerShots.Clear()
	e.director.Reset()
	e.player.Reset(&e.cfg)
	e.score = 0
	e.stats = RunStats{}
	e.bombHeld = false

	e.setState(StatePlaying)
	e.events.Push(Event{Type: EvtScore, Data: ScoreEvent{Total: 0}})
	e.events.Push(Event{Type: EvtBombsChanged, Data: CountEvent{Count: e.player.Bombs}})
	e.director.SpawnBoss(e)
	e.flush()
}

// Start leaves the title screen
func (e *Engine) Start() {
	if e.state == StateTitle {
		e.Reset()
	}
}

// Pause freezes a running game
func (e *Engine) Pause() {
	if e.state == StatePlaying {
		e.setState(StatePaused)
		e.flush()
	}
}

// Resume continues a paused game
func (e *Engine) Resume() {
	if e.state == StatePaused {
		e.setState(StatePlaying)
		e.flush()
	}
}

// ToTitle abandons the current run
func (e *Engine) ToTitle() {
	e.enemyShots.Clear()
	e.playerShots.Clear()
	e.director.Reset()
	e.player.Active = false
	e.events.Push(Event{Type: EvtBossShown, Data: ShownEvent{Shown: false}})
	e.setState(StateTitle)
	e.flush()
}

// SpawnBoss adds another boss to a running game
func (e *Engine) SpawnBoss() {
	if e.state != StatePlaying && e.state != StatePaused {
		return
	}
	e.director.SpawnBoss(e)
	e.flush()
}

// ClearEnemyProjectiles retires all enemy fire
func (e *Engine) ClearEnemyProjectiles() {
	e.enemyShots.Clear()
}

// UseBomb fires a bomb outside the input path. Actors it defeats are scored
// immediately.
func (e *Engine) UseBomb() bool {
	if e.state != StatePlaying {
		return false
	}
	if !e.director.bomb(e) {
		return false
	}
	e.director.cleanup(e)
	e.flush()
	return true
}

// SetGodMode toggles the player override
func (e *Engine) SetGodMode(on bool) {
	e.player.SetGodMode(&e.cfg, on)
	if on {
		e.stats.GodUsed = true
	}
	e.events.Push(Event{Type: EvtBombsChanged, Data: CountEvent{Count: e.player.Bombs}})
	e.flush()
}

// Snapshot captures what the rendering collaborator needs. Shot lists are
// only filled for pools that changed since the previous snapshot; taking a
// snapshot acknowledges those changes.
func (e *Engine) Snapshot() GameState {
	p := e.player
	gs := GameState{
		Tick:  e.tick,
		State: e.state,
		Score: e.score,
		Player: PlayerState{
			X:      round2(p.Pos.X),
			Z:      round2(p.Pos.Z),
			HP:     ClampHP(p.HP),
			Bombs:  p.Bombs,
			Alive:  p.Active,
			Invuln: p.InvulnT > 0,
			God:    p.GodMode,
		},
		Actors: make([]ActorState, 0, len(e.director.roster)),
	}
	for _, a := range e.director.roster {
		if !a.Active {
			continue
		}
		gs.Actors = append(gs.Actors, ActorState{
			ID:    a.ID,
			Kind:  a.Kind,
			X:     round2(a.Pos.X),
			Z:     round2(a.Pos.Z),
			HP:    ClampHP(a.HP),
			MaxHP: a.MaxHP,
			Phase: a.Phase,
		})
	}
	gs.EnemyShots = shotsState(e.enemyShots)
	gs.PlayerShots = shotsState(e.playerShots)
	return gs
}

func shotsState(p *ProjectilePool) *ShotsState {
	if !p.Dirty() {
		return nil
	}
	s := &ShotsState{Pos: make([]float32, 0, p.ActiveCount()*3)}
	p.Each(func(_ int, pos Vec3) {
		s.Pos = append(s.Pos, float32(pos.X), float32(pos.Y), float32(pos.Z))
	})
	p.MarkClean()
	return s
}

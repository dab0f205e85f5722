package main

// Director sequences the encounter: it owns the roster, the spawn cadence,
// pending boss respawns and the restart countdown after a game over.
type Director struct {
	roster       []*Actor
	spawnT       float64
	bossRespawns []float64 // seconds left per defeated boss
	restartT     float64
	nextID       uint32
}

// NewDirector returns an empty encounter
func NewDirector() *Director {
	return &Director{roster: make([]*Actor, 0, 32)}
}

// Reset drops the roster and every timer
func (d *Director) Reset() {
	for i := range d.roster {
		d.roster[i] = nil
	}
	d.roster = d.roster[:0]
	d.spawnT = 0
	d.bossRespawns = d.bossRespawns[:0]
	d.restartT = 0
}

// Roster returns the live roster in spawn order. Callers must not keep it
// across ticks.
func (d *Director) Roster() []*Actor { return d.roster }

// Boss returns the first active boss, or nil
func (d *Director) Boss() *Actor {
	for _, a := range d.roster {
		if a.Active && a.IsBoss() {
			return a
		}
	}
	return nil
}

// PendingRespawns returns how many boss respawns are scheduled
func (d *Director) PendingRespawns() int { return len(d.bossRespawns) }

func (d *Director) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Director) spawnEnemy(e *Engine, x float64) *Actor {
	a := NewEnemy(d.id(), x, &e.cfg)
	d.roster = append(d.roster, a)
	e.events.Push(Event{Type: EvtActorSpawned, Data: a.ref()})
	return a
}

// SpawnBoss adds a boss and shows its encounter display
func (d *Director) SpawnBoss(e *Engine) *Actor {
	a := NewBoss(d.id(), &e.cfg)
	d.roster = append(d.roster, a)
	e.events.Push(Event{Type: EvtActorSpawned, Data: a.ref()})
	e.events.Push(Event{Type: EvtBossShown, Data: ShownEvent{Shown: true}})
	e.events.Push(Event{Type: EvtBossHealth, Data: HPEvent{HP: a.HP, MaxHP: a.MaxHP}})
	return a
}

func (d *Director) updateActors(e *Engine, dt float64) {
	for _, a := range d.roster {
		a.Update(e, dt)
	}
}

func (d *Director) updateSpawns(e *Engine, dt float64) {
	c := &e.cfg.Enemy
	d.spawnT += dt
	if d.spawnT > c.SpawnInterval {
		d.spawnT = 0
		d.spawnEnemy(e, (e.rng.Float64()-0.5)*c.SpawnSpread)
	}

	n := 0
	for _, t := range d.bossRespawns {
		t -= dt
		if t <= 0 {
			d.SpawnBoss(e)
			continue
		}
		d.bossRespawns[n] = t
		n++
	}
	d.bossRespawns = d.bossRespawns[:n]
}

// cleanup removes inactive actors, preserving roster order, and scores the
// defeated ones
func (d *Director) cleanup(e *Engine) {
	n := 0
	for _, a := range d.roster {
		if a.Active {
			d.roster[n] = a
			n++
			continue
		}
		if !a.Defeated {
			continue
		}
		e.events.Push(Event{Type: EvtActorDefeated, Data: a.ref()})
		if a.IsBoss() {
			e.stats.BossKills++
			e.addScore(e.cfg.Boss.Score)
			e.enemyShots.Clear()
			e.events.Push(Event{Type: EvtBossShown, Data: ShownEvent{Shown: false}})
			d.bossRespawns = append(d.bossRespawns, e.cfg.Boss.RespawnDelay)
		} else {
			e.stats.EnemyKills++
			e.addScore(e.cfg.Enemy.Score)
		}
	}
	for i := n; i < len(d.roster); i++ {
		d.roster[i] = nil
	}
	d.roster = d.roster[:n]
}

// bomb clears enemy fire and damages every active actor. Returns false when
// the bomb was refused.
func (d *Director) bomb(e *Engine) bool {
	p := e.player
	if !p.Active || (p.Bombs <= 0 && !p.GodMode) {
		return false
	}
	if !p.GodMode {
		p.Bombs--
		e.events.Push(Event{Type: EvtBombsChanged, Data: CountEvent{Count: p.Bombs}})
	}
	e.stats.BombsUsed++
	e.enemyShots.Clear()
	for _, a := range d.roster {
		if a.Active {
			a.TakeDamage(e.cfg.Encounter.BombDamage, &e.events)
		}
	}
	return true
}

// phaseChanged clears enemy fire. It runs inside the boss update, before the
// new phase fires.
func (d *Director) phaseChanged(e *Engine) {
	e.enemyShots.Clear()
}

// react handles drained events the director owns the consequences of
func (d *Director) react(e *Engine, evt Event) {
	switch evt.Type {
	case EvtPlayerDefeated:
		d.restartT = 0
		e.gameOver()
	}
}

// countdown advances the restart timer during a game over. Returns true once
// the delay elapsed.
func (d *Director) countdown(e *Engine, dt float64) bool {
	d.restartT += dt
	return d.restartT >= e.cfg.Encounter.RestartDelay
}

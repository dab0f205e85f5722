package main

// Input actions sampled once per tick
const (
	ActionShot = "SHOT"
	ActionSlow = "SLOW"
	ActionBomb = "BOMB"
)

// Player is the single ship controlled through the input collaborator
type Player struct {
	Pos     Vec3
	HP      int
	Bombs   int
	Active  bool
	GodMode bool
	InvulnT float64 // invulnerability remaining; no damage while > 0
	ShotT   float64 // seconds since last twin shot
}

// NewPlayer creates a player at its start position
func NewPlayer(cfg *Config) *Player {
	p := &Player{}
	p.Reset(cfg)
	return p
}

// Reset restores a fresh player. God mode is switched off.
func (p *Player) Reset(cfg *Config) {
	p.Pos = Vec3{Z: cfg.Player.StartZ}
	p.Active = true
	p.GodMode = false
	p.InvulnT = 0
	p.ShotT = 0
	p.HP = cfg.Player.HP
	p.Bombs = cfg.Player.Bombs
}

// Update counts down invulnerability, moves the ship and fires twin shots
// into out while SHOT is held
func (p *Player) Update(cfg *Config, in Input, out Spawner, dt float64) {
	if !p.Active {
		return
	}
	if p.InvulnT > 0 {
		p.InvulnT -= dt
		if p.InvulnT < 0 {
			p.InvulnT = 0
		}
	}
	if in == nil {
		return
	}

	c := &cfg.Player
	speed := c.Speed
	if in.IsActionActive(ActionSlow) {
		speed *= c.SlowFactor
	}
	ax, ay := in.MovementAxis()
	ax = Clamp(ax, -1, 1)
	ay = Clamp(ay, -1, 1)
	halfW := cfg.Stage.Width / 2
	halfH := cfg.Stage.Height / 2
	p.Pos.X = Clamp(p.Pos.X+ax*speed*dt, -halfW, halfW)
	// screen up is -Z
	p.Pos.Z = Clamp(p.Pos.Z-ay*speed*dt, -halfH, halfH)

	p.ShotT += dt
	if in.IsActionActive(ActionShot) && p.ShotT > c.ShotInterval {
		p.ShotT = 0
		vel := Vec3{Z: -c.ShotSpeed}
		out.Spawn(p.Pos.Add(Vec3{X: -c.ShotOffset}), vel)
		out.Spawn(p.Pos.Add(Vec3{X: c.ShotOffset}), vel)
	}
}

// Hit is the single damage entry point. It is a no-op while invulnerable, in
// god mode or already defeated. Returns true if damage was applied.
func (p *Player) Hit(cfg *Config, events *EventQueue) bool {
	if !p.Active || p.GodMode || p.InvulnT > 0 {
		return false
	}
	p.HP--
	p.InvulnT = cfg.Player.Invulnerable
	events.Push(Event{Type: EvtPlayerHit, Data: HPEvent{HP: ClampHP(p.HP), MaxHP: cfg.Player.HP}})
	if p.HP <= 0 {
		p.Active = false
		events.Push(Event{Type: EvtPlayerDefeated, Data: HPEvent{HP: 0, MaxHP: cfg.Player.HP}})
	}
	return true
}

// SetGodMode toggles the override. Turning it on tops hp and bombs up,
// turning it off restores the stock values.
func (p *Player) SetGodMode(cfg *Config, on bool) {
	p.GodMode = on
	if on {
		p.HP = cfg.Player.GodHP
		p.Bombs = cfg.Player.GodBombs
	} else {
		p.HP = cfg.Player.HP
		p.Bombs = cfg.Player.Bombs
	}
}

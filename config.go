package main

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// StageConfig describes the play field and the culling box around it
type StageConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"` // player clamp along Z
	Depth   float64 `yaml:"depth"`
	MarginX float64 `yaml:"margin_x"`
	MarginZ float64 `yaml:"margin_z"`
	MinY    float64 `yaml:"min_y"`
	MaxY    float64 `yaml:"max_y"`
}

// PoolConfig holds capacities and hit radii of both shot pools
type PoolConfig struct {
	EnemyCapacity   int     `yaml:"enemy_capacity"`
	PlayerCapacity  int     `yaml:"player_capacity"`
	EnemyShotRadius float64 `yaml:"enemy_shot_radius"`
}

// PlayerConfig contains all player-related tuning
type PlayerConfig struct {
	HP           int     `yaml:"hp"`
	Bombs        int     `yaml:"bombs"`
	Speed        float64 `yaml:"speed"`
	SlowFactor   float64 `yaml:"slow_factor"`
	HitRadius    float64 `yaml:"hit_radius"`
	BodyRadius   float64 `yaml:"body_radius"`
	Invulnerable float64 `yaml:"invulnerable"` // seconds
	ShotInterval float64 `yaml:"shot_interval"`
	ShotSpeed    float64 `yaml:"shot_speed"`
	ShotOffset   float64 `yaml:"shot_offset"`
	StartZ       float64 `yaml:"start_z"`
	GodHP        int     `yaml:"god_hp"`
	GodBombs     int     `yaml:"god_bombs"`
}

// EnemyConfig tunes the basic enemy kind and its spawn cadence
type EnemyConfig struct {
	HP            int     `yaml:"hp"`
	BodyRadius    float64 `yaml:"body_radius"`
	ShotRadius    float64 `yaml:"shot_radius"`
	AdvanceSpeed  float64 `yaml:"advance_speed"`
	SwayFreq      float64 `yaml:"sway_freq"`
	SwayAmp       float64 `yaml:"sway_amp"`
	FireInterval  float64 `yaml:"fire_interval"`
	DespawnZ      float64 `yaml:"despawn_z"`
	SpawnZ        float64 `yaml:"spawn_z"`
	SpawnSpread   float64 `yaml:"spawn_spread"`
	SpawnInterval float64 `yaml:"spawn_interval"`
	Score         int     `yaml:"score"`
}

// PhaseConfig is one boss phase: fire interval in seconds
type PhaseConfig struct {
	FireInterval float64 `yaml:"fire_interval"`
}

// BossConfig tunes the boss kind
type BossConfig struct {
	HP              int         `yaml:"hp"`
	BodyRadius      float64     `yaml:"body_radius"`
	ShotRadius      float64     `yaml:"shot_radius"`
	ClassHP         int         `yaml:"class_hp"` // maxHp above this uses ShotRadius
	SpawnZ          float64     `yaml:"spawn_z"`
	SwingX          float64     `yaml:"swing_x"`
	SwingZ          float64     `yaml:"swing_z"`
	RespawnDelay    float64     `yaml:"respawn_delay"`
	Score           int         `yaml:"score"`
	AggressiveAbove int         `yaml:"aggressive_above"` // percent of maxHp
	EnragedAbove    int         `yaml:"enraged_above"`
	WaveChance      float64     `yaml:"wave_chance"`
	Aggressive      PhaseConfig `yaml:"aggressive"`
	Enraged         PhaseConfig `yaml:"enraged"`
	Desperate       PhaseConfig `yaml:"desperate"`
}

// EncounterConfig covers director-level rules
type EncounterConfig struct {
	BombDamage   int     `yaml:"bomb_damage"`
	RestartDelay float64 `yaml:"restart_delay"`
}

// ServerConfig holds the real-time loop and bridge settings
type ServerConfig struct {
	TickRate      int     `yaml:"tick_rate"`
	BroadcastRate int     `yaml:"broadcast_rate"`
	MaxFrameDelta float64 `yaml:"max_frame_delta"`
	PublicURL     string  `yaml:"public_url"`
	OperatorHash  string  `yaml:"operator_hash"` // bcrypt hash of the operator password
}

// Config is the whole tuning file
type Config struct {
	Stage     StageConfig     `yaml:"stage"`
	Pools     PoolConfig      `yaml:"pools"`
	Player    PlayerConfig    `yaml:"player"`
	Enemy     EnemyConfig     `yaml:"enemy"`
	Boss      BossConfig      `yaml:"boss"`
	Encounter EncounterConfig `yaml:"encounter"`
	Server    ServerConfig    `yaml:"server"`
}

// DefaultConfig returns the stock tuning of the game
func DefaultConfig() Config {
	return Config{
		Stage: StageConfig{
			Width:   40,
			Height:  30,
			Depth:   60,
			MarginX: 20,
			MarginZ: 50,
			MinY:    -10,
			MaxY:    50,
		},
		Pools: PoolConfig{
			EnemyCapacity:   5000,
			PlayerCapacity:  1000,
			EnemyShotRadius: 0.3,
		},
		Player: PlayerConfig{
			HP:           5,
			Bombs:        3,
			Speed:        15,
			SlowFactor:   0.5,
			HitRadius:    0.2,
			BodyRadius:   0.5,
			Invulnerable: 2.0,
			ShotInterval: 0.08,
			ShotSpeed:    40,
			ShotOffset:   0.5,
			StartZ:       10,
			GodHP:        999,
			GodBombs:     999,
		},
		Enemy: EnemyConfig{
			HP:            10,
			BodyRadius:    1.0,
			ShotRadius:    1.5,
			AdvanceSpeed:  2.0,
			SwayFreq:      2.0,
			SwayAmp:       5.0,
			FireInterval:  1.0,
			DespawnZ:      20,
			SpawnZ:        -30,
			SpawnSpread:   30,
			SpawnInterval: 3.0,
			Score:         100,
		},
		Boss: BossConfig{
			HP:              500,
			BodyRadius:      3.0,
			ShotRadius:      3.0,
			ClassHP:         100,
			SpawnZ:          -20,
			SwingX:          10,
			SwingZ:          5,
			RespawnDelay:    3.0,
			Score:           5000,
			AggressiveAbove: 70,
			EnragedAbove:    30,
			WaveChance:      0.1,
			Aggressive:      PhaseConfig{FireInterval: 0.15},
			Enraged:         PhaseConfig{FireInterval: 0.4},
			Desperate:       PhaseConfig{FireInterval: 0.1},
		},
		Encounter: EncounterConfig{
			BombDamage:   50,
			RestartDelay: 2.0,
		},
		Server: ServerConfig{
			TickRate:      60,
			BroadcastRate: 30,
			MaxFrameDelta: 0.25,
			PublicURL:     "http://localhost:8080",
		},
	}
}

// LoadConfig reads a YAML tuning file over the defaults. Keys missing from
// the file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects tunings the engine cannot run with
func (c Config) Validate() error {
	if c.Pools.EnemyCapacity <= 0 || c.Pools.PlayerCapacity <= 0 {
		return fmt.Errorf("pool capacities must be positive")
	}
	if c.Stage.Width <= 0 || c.Stage.Height <= 0 || c.Stage.Depth <= 0 {
		return fmt.Errorf("stage dimensions must be positive")
	}
	if c.Stage.MinY >= c.Stage.MaxY {
		return fmt.Errorf("stage min_y must be below max_y")
	}
	if c.Player.HP <= 0 || c.Enemy.HP <= 0 || c.Boss.HP <= 0 {
		return fmt.Errorf("hp values must be positive")
	}
	if c.Boss.EnragedAbove < 0 || c.Boss.AggressiveAbove <= c.Boss.EnragedAbove || c.Boss.AggressiveAbove > 100 {
		return fmt.Errorf("boss thresholds must satisfy 0 <= enraged_above < aggressive_above <= 100")
	}
	if c.Server.TickRate <= 0 || c.Server.BroadcastRate <= 0 || c.Server.BroadcastRate > c.Server.TickRate {
		return fmt.Errorf("tick_rate must be positive and >= broadcast_rate")
	}
	for _, v := range []float64{c.Player.Speed, c.Player.ShotSpeed, c.Server.MaxFrameDelta} {
		if math.IsNaN(v) || v <= 0 {
			return fmt.Errorf("speeds and max_frame_delta must be positive")
		}
	}
	return nil
}

// Bounds returns the culling box for both shot pools
func (c Config) Bounds() Bounds {
	return Bounds{
		HalfX: c.Stage.Width/2 + c.Stage.MarginX,
		HalfZ: c.Stage.Depth/2 + c.Stage.MarginZ,
		MinY:  c.Stage.MinY,
		MaxY:  c.Stage.MaxY,
	}
}

package main

import "encoding/json"

// Client -> Server message types
const (
	MsgInput   = "input"
	MsgControl = "control" // attach as the input device, d = {token}
	MsgLogin   = "login"   // operator password
	MsgAuth    = "auth"    // operator token from an earlier login
	MsgCommand = "command" // operator control surface
	MsgRuns    = "runs"    // best runs
)

// Server -> Client message types
const (
	MsgState     = "state" // binary msgpack frames only
	MsgWelcome   = "welcome"
	MsgEvent     = "event"
	MsgError     = "error"
	MsgAuthOK    = "auth_ok"
	MsgControlOK = "control_ok"
	MsgCtrlOn    = "ctrl_on"  // notify viewers: controller attached
	MsgCtrlOff   = "ctrl_off" // notify viewers: controller detached
	MsgRunsData  = "runs_data"
)

// Operator commands
const (
	CmdReset     = "reset"
	CmdSpawnBoss = "spawn_boss"
	CmdClear     = "clear"
	CmdBomb      = "bomb"
	CmdTitle     = "title"
	CmdStart     = "start"
	CmdPause     = "pause"
	CmdResume    = "resume"
	CmdGodMode   = "god"
)

// Binary input frame: [0x01, ax int8, ay int8, flags]
const (
	binInputTag   = 0x01
	binInputLen   = 4
	inputFlagShot = 0x01
	inputFlagSlow = 0x02
	inputFlagBomb = 0x04
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; D stays raw until the type is known
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is the polled state of the input device
type ClientInput struct {
	AX   float64 `json:"ax"` // [-1,1], right positive
	AY   float64 `json:"ay"` // [-1,1], up positive
	Shot bool    `json:"shot"`
	Slow bool    `json:"slow"`
	Bomb bool    `json:"bomb"`
}

// ControlMsg attaches a controller using the token from the QR code
type ControlMsg struct {
	Token string `json:"token"`
}

// LoginMsg carries the operator password
type LoginMsg struct {
	Password string `json:"password"`
}

// AuthMsg re-authenticates with a token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms operator access
type AuthOKMsg struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// CommandMsg invokes the control surface
type CommandMsg struct {
	Cmd string `json:"cmd"`
	On  bool   `json:"on,omitempty"` // god mode
}

// WelcomeMsg is sent on connect
type WelcomeMsg struct {
	Role  string      `json:"role"`
	State GameStateID `json:"state"`
	Best  int         `json:"best"`
}

// EventMsg forwards one engine notification
type EventMsg struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// PlayerState is the player part of a snapshot
type PlayerState struct {
	X      float64 `json:"x" msgpack:"x"`
	Z      float64 `json:"z" msgpack:"z"`
	HP     int     `json:"hp" msgpack:"hp"`
	Bombs  int     `json:"b" msgpack:"b"`
	Alive  bool    `json:"a" msgpack:"a"`
	Invuln bool    `json:"i,omitempty" msgpack:"i,omitempty"`
	God    bool    `json:"g,omitempty" msgpack:"g,omitempty"`
}

// ActorState is broadcast per active actor
type ActorState struct {
	ID    uint32    `json:"id" msgpack:"id"`
	Kind  ActorKind `json:"k" msgpack:"k"`
	X     float64   `json:"x" msgpack:"x"`
	Z     float64   `json:"z" msgpack:"z"`
	HP    int       `json:"hp" msgpack:"hp"`
	MaxHP int       `json:"mhp" msgpack:"mhp"`
	Phase Phase     `json:"ph,omitempty" msgpack:"ph,omitempty"`
}

// ShotsState holds the active shots of one pool as flat x,y,z triples
type ShotsState struct {
	Pos []float32 `json:"p" msgpack:"p"`
}

// GameState is the full snapshot. A nil shots field means that pool did not
// change since the previous snapshot.
type GameState struct {
	Tick        uint64       `json:"tick" msgpack:"tick"`
	State       GameStateID  `json:"st" msgpack:"st"`
	Score       int          `json:"sc" msgpack:"sc"`
	Player      PlayerState  `json:"p" msgpack:"p"`
	Actors      []ActorState `json:"m" msgpack:"m"`
	EnemyShots  *ShotsState  `json:"es,omitempty" msgpack:"es,omitempty"`
	PlayerShots *ShotsState  `json:"ps,omitempty" msgpack:"ps,omitempty"`
}

// RunRow is one finished run as listed by the history API
type RunRow struct {
	ID        int64   `json:"id"`
	Score     int     `json:"score"`
	BossKills int     `json:"boss_kills"`
	Kills     int     `json:"enemy_kills"`
	BombsUsed int     `json:"bombs_used"`
	Duration  float64 `json:"duration"`
	GodMode   bool    `json:"god"`
	CreatedAt string  `json:"created_at"`
}

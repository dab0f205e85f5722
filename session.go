package main

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Broadcaster fans messages out to every connected viewer
type Broadcaster interface {
	BroadcastJSON(msg interface{})
	BroadcastBinary(data []byte)
}

// Session drives one engine in real time. The engine has no locks of its
// own; every access goes through mu.
type Session struct {
	mu     sync.Mutex
	engine *Engine
	input  *InputState
	out    Broadcaster
	db     *DB
	stats  *Analytics

	tickRate       int
	broadcastEvery int
	maxDelta       float64
	ticks          int
	last           time.Time

	running bool
	stop    chan struct{}
}

// NewSession wraps a fresh engine. out, db and stats may be nil.
func NewSession(cfg Config, seed uint64, out Broadcaster, db *DB, stats *Analytics) *Session {
	s := &Session{
		input:          NewInputState(),
		out:            out,
		db:             db,
		stats:          stats,
		tickRate:       cfg.Server.TickRate,
		broadcastEvery: cfg.Server.TickRate / cfg.Server.BroadcastRate,
		maxDelta:       cfg.Server.MaxFrameDelta,
	}
	if s.broadcastEvery < 1 {
		s.broadcastEvery = 1
	}
	s.engine = NewEngine(cfg, seed, s)
	return s
}

// Input returns the polled input the bridge writes into
func (s *Session) Input() *InputState { return s.input }

// Run starts the simulation loop (blocking). It returns at once if the loop
// is already running.
func (s *Session) Run() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	stop := s.stop
	s.last = time.Now()
	s.mu.Unlock()

	ticker := time.NewTicker(time.Second / time.Duration(s.tickRate))
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.step(now)
		case <-stop:
			return
		}
	}
}

// Stop halts the simulation loop
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.running = false
		close(s.stop)
	}
}

// step advances the engine by the wall time since the previous step, clamped
// to maxDelta
func (s *Session) step(now time.Time) {
	s.mu.Lock()
	dt := now.Sub(s.last).Seconds()
	s.last = now
	if dt > s.maxDelta {
		dt = s.maxDelta
	}
	if s.engine.State() == StateTitle && s.input.IsActionActive(ActionShot) {
		s.engine.Start()
	}
	s.engine.Tick(dt, s.input)
	s.ticks++
	var frame []byte
	if s.out != nil && s.ticks%s.broadcastEvery == 0 {
		var err error
		frame, err = msgpack.Marshal(s.engine.Snapshot())
		if err != nil {
			log.Printf("session: snapshot encode: %v", err)
			frame = nil
		}
	}
	s.mu.Unlock()

	if frame != nil {
		s.out.BroadcastBinary(frame)
	}
}

// HandleEvent forwards engine notifications. Runs with mu held.
func (s *Session) HandleEvent(evt Event) {
	if s.out != nil {
		s.out.BroadcastJSON(Envelope{T: MsgEvent, Data: EventMsg{Type: evt.Type, Data: evt.Data}})
	}
	if s.stats != nil {
		data, err := json.Marshal(evt.Data)
		if err != nil {
			log.Printf("session: event encode: %v", err)
		} else {
			s.stats.Track(evt.Type, string(data))
		}
	}
	if evt.Type == EvtRunEnded && s.db != nil {
		if r, ok := evt.Data.(RunResult); ok {
			go func() {
				if _, err := s.db.RecordRun(r); err != nil {
					log.Printf("session: record run: %v", err)
				}
			}()
		}
	}
}

// Command applies one operator command to the engine
func (s *Session) Command(cmd CommandMsg) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.engine
	switch cmd.Cmd {
	case CmdReset:
		e.Reset()
	case CmdSpawnBoss:
		e.SpawnBoss()
	case CmdClear:
		e.ClearEnemyProjectiles()
	case CmdBomb:
		e.UseBomb()
	case CmdTitle:
		e.ToTitle()
	case CmdStart:
		e.Start()
	case CmdPause:
		e.Pause()
	case CmdResume:
		e.Resume()
	case CmdGodMode:
		e.SetGodMode(cmd.On)
	default:
		return fmt.Errorf("unknown command %q", cmd.Cmd)
	}
	return nil
}

// ApplyConfig queues a new tuning for the next reset
func (s *Session) ApplyConfig(cfg Config) {
	s.mu.Lock()
	s.engine.SetConfig(cfg)
	s.mu.Unlock()
}

// State returns the engine's current mode
func (s *Session) State() GameStateID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// Snapshot returns a snapshot taken under the lock
func (s *Session) Snapshot() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

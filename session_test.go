package main

import (
	"sync"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// recorder is a Broadcaster that keeps everything it is given
type recorder struct {
	mu     sync.Mutex
	json   []interface{}
	frames [][]byte
}

func (r *recorder) BroadcastJSON(msg interface{}) {
	r.mu.Lock()
	r.json = append(r.json, msg)
	r.mu.Unlock()
}

func (r *recorder) BroadcastBinary(data []byte) {
	r.mu.Lock()
	r.frames = append(r.frames, data)
	r.mu.Unlock()
}

func (r *recorder) frameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *recorder) lastFrame(t *testing.T) GameState {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		t.Fatal("no frames broadcast")
	}
	var gs GameState
	if err := msgpack.Unmarshal(r.frames[len(r.frames)-1], &gs); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return gs
}

func (r *recorder) events(typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.json {
		env, ok := m.(Envelope)
		if !ok || env.T != MsgEvent {
			continue
		}
		if env.Data.(EventMsg).Type == typ {
			n++
		}
	}
	return n
}

func TestSessionBroadcastsSnapshots(t *testing.T) {
	out := &recorder{}
	s := NewSession(DefaultConfig(), 1, out, nil, nil)
	if err := s.Command(CommandMsg{Cmd: CmdStart}); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	s.step(now)
	s.step(now.Add(time.Second / 60))
	if out.frameCount() != 1 {
		t.Fatalf("expected one frame per two ticks, got %d", out.frameCount())
	}
	gs := out.lastFrame(t)
	if gs.State != StatePlaying || gs.Tick != 2 {
		t.Errorf("unexpected snapshot state %s tick %d", gs.State, gs.Tick)
	}
	if len(gs.Actors) != 1 || gs.Actors[0].Kind != KindBoss {
		t.Errorf("expected the boss in the snapshot, got %+v", gs.Actors)
	}
	if out.events(EvtStateChanged) == 0 {
		t.Error("expected state_changed to be forwarded")
	}
}

func TestSessionClampsFrameDelta(t *testing.T) {
	s := NewSession(DefaultConfig(), 1, nil, nil, nil)
	s.Command(CommandMsg{Cmd: CmdStart})
	start := time.Now()
	s.step(start)
	before := s.engine.Stats().Duration
	s.step(start.Add(10 * time.Second))
	if d := s.engine.Stats().Duration - before; d > s.maxDelta+1e-9 {
		t.Errorf("a long stall advanced the run by %f s", d)
	}
}

func TestSessionStartsOnShot(t *testing.T) {
	s := NewSession(DefaultConfig(), 1, nil, nil, nil)
	s.step(time.Now())
	if s.State() != StateTitle {
		t.Fatal("should stay on title without input")
	}
	s.Input().SetAction(ActionShot, true)
	s.step(time.Now())
	if s.State() != StatePlaying {
		t.Errorf("holding SHOT on title should start, got %s", s.State())
	}
}

func TestSessionCommands(t *testing.T) {
	s := NewSession(DefaultConfig(), 1, nil, nil, nil)
	steps := []struct {
		cmd  CommandMsg
		want GameStateID
	}{
		{CommandMsg{Cmd: CmdStart}, StatePlaying},
		{CommandMsg{Cmd: CmdPause}, StatePaused},
		{CommandMsg{Cmd: CmdSpawnBoss}, StatePaused},
		{CommandMsg{Cmd: CmdResume}, StatePlaying},
		{CommandMsg{Cmd: CmdGodMode, On: true}, StatePlaying},
		{CommandMsg{Cmd: CmdBomb}, StatePlaying},
		{CommandMsg{Cmd: CmdClear}, StatePlaying},
		{CommandMsg{Cmd: CmdReset}, StatePlaying},
		{CommandMsg{Cmd: CmdTitle}, StateTitle},
	}
	for _, st := range steps {
		if err := s.Command(st.cmd); err != nil {
			t.Fatalf("%s: %v", st.cmd.Cmd, err)
		}
		if s.State() != st.want {
			t.Errorf("after %s: state %s, want %s", st.cmd.Cmd, s.State(), st.want)
		}
	}
	if err := s.Command(CommandMsg{Cmd: "warp"}); err == nil {
		t.Error("expected unknown command error")
	}
}

func TestSessionRecordsFinishedRun(t *testing.T) {
	db := openTestDB(t)
	s := NewSession(DefaultConfig(), 1, nil, db, nil)
	s.HandleEvent(Event{Type: EvtRunEnded, Data: RunResult{Score: 77, BossKills: 1}})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if best, _ := db.BestScore(); best == 77 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("finished run was not recorded")
}

func TestSessionAppliesConfigOnReset(t *testing.T) {
	s := NewSession(DefaultConfig(), 1, nil, nil, nil)
	cfg := DefaultConfig()
	cfg.Player.HP = 2
	s.ApplyConfig(cfg)
	s.Command(CommandMsg{Cmd: CmdStart})
	if hp := s.Snapshot().Player.HP; hp != 2 {
		t.Errorf("expected new tuning after start, hp %d", hp)
	}
}

func TestSessionRunAndStop(t *testing.T) {
	out := &recorder{}
	s := NewSession(DefaultConfig(), 1, out, nil, nil)
	s.Command(CommandMsg{Cmd: CmdStart})
	done := make(chan struct{})
	go func() {
		s.Run()
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for out.frameCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if out.frameCount() < 3 {
		t.Error("loop produced no frames")
	}
	s.Stop()
	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestSessionRestartAfterStop(t *testing.T) {
	s := NewSession(DefaultConfig(), 1, nil, nil, nil)
	s.Stop() // not running yet

	for i := 0; i < 2; i++ {
		done := make(chan struct{})
		go func() {
			s.Run()
			close(done)
		}()
		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if running {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		s.Stop()
		s.Stop()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("run %d did not return after Stop", i)
		}
	}
}

func TestSessionSkipsUnencodableEvent(t *testing.T) {
	db := openTestDB(t)
	stats := NewAnalytics(db)
	s := NewSession(DefaultConfig(), 1, nil, nil, stats)

	s.HandleEvent(Event{Type: "broken", Data: make(chan int)})
	s.HandleEvent(Event{Type: EvtScore, Data: ScoreEvent{Points: 100, Total: 100}})
	stats.Stop()

	counts, err := stats.EventCounts(7)
	if err != nil {
		t.Fatal(err)
	}
	if counts["broken"] != 0 || counts[EvtScore] != 1 {
		t.Errorf("unexpected tracked events %v", counts)
	}
}

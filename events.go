package main

// Event types delivered to collaborators
const (
	EvtActorSpawned   = "actor_spawned"
	EvtActorDefeated  = "actor_defeated"
	EvtActorFlashed   = "actor_flashed"
	EvtPhaseChanged   = "phase_changed"
	EvtPlayerHit      = "player_hit"
	EvtPlayerDefeated = "player_defeated"
	EvtBombsChanged   = "bombs_changed"
	EvtScore          = "score"
	EvtBossHealth     = "boss_health"
	EvtBossShown      = "boss_shown"
	EvtRunEnded       = "run_ended"
	EvtStateChanged   = "state_changed"
)

// Event is one notification produced during a tick
type Event struct {
	Type string
	Data any
}

// ActorEvent identifies the actor an event is about
type ActorEvent struct {
	ActorID uint32    `json:"id" msgpack:"id"`
	Kind    ActorKind `json:"kind" msgpack:"kind"`
	Boss    bool      `json:"boss" msgpack:"boss"`
}

// PhaseEvent is queued by a boss whose phase changed
type PhaseEvent struct {
	ActorID uint32 `json:"id" msgpack:"id"`
	Phase   Phase  `json:"phase" msgpack:"phase"`
}

// HPEvent carries a player or boss health change (never negative)
type HPEvent struct {
	HP    int `json:"hp" msgpack:"hp"`
	MaxHP int `json:"mhp,omitempty" msgpack:"mhp,omitempty"`
}

// CountEvent carries bomb counts
type CountEvent struct {
	Count int `json:"count" msgpack:"count"`
}

// ScoreEvent carries a score increment and the running total
type ScoreEvent struct {
	Points int `json:"points" msgpack:"points"`
	Total  int `json:"total" msgpack:"total"`
}

// ShownEvent toggles the boss encounter display
type ShownEvent struct {
	Shown bool `json:"shown" msgpack:"shown"`
}

// StateEvent reports engine state transitions
type StateEvent struct {
	State GameStateID `json:"state" msgpack:"state"`
}

// RunResult summarises a finished run
type RunResult struct {
	Score        int     `json:"score" msgpack:"score"`
	BossKills    int     `json:"boss_kills" msgpack:"boss_kills"`
	EnemiesKills int     `json:"enemy_kills" msgpack:"enemy_kills"`
	BombsUsed    int     `json:"bombs_used" msgpack:"bombs_used"`
	Duration     float64 `json:"duration" msgpack:"duration"`
	GodMode      bool    `json:"god,omitempty" msgpack:"god,omitempty"`
}

// Listener receives engine events synchronously, inside the tick or control
// call that produced them. Implementations must not call back into the
// engine.
type Listener interface {
	HandleEvent(evt Event)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(evt Event)

// HandleEvent calls f(evt)
func (f ListenerFunc) HandleEvent(evt Event) { f(evt) }

// EventQueue is a simple FIFO drained once per tick by the director. It
// double-buffers so events pushed while a drained batch is being handled
// land in the next batch.
type EventQueue struct {
	items []Event
	spare []Event
}

// Push adds an event
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue. The returned slice stays
// valid until the following Drain.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = q.spare[:0]
	q.spare = out
	return out
}

// Reset discards pending events
func (q *EventQueue) Reset() {
	if q == nil {
		return
	}
	q.items = q.items[:0]
}

package main

import "sync"

// Input is the input collaborator, polled once per tick
type Input interface {
	IsActionActive(name string) bool
	MovementAxis() (x, y float64) // each in [-1,1]
}

// InputState is a thread-safe Input written by the bridge and read by the
// tick loop
type InputState struct {
	mu      sync.Mutex
	actions map[string]bool
	ax, ay  float64
}

// NewInputState returns an idle input
func NewInputState() *InputState {
	return &InputState{actions: make(map[string]bool)}
}

// SetAction records whether an action is held
func (s *InputState) SetAction(name string, on bool) {
	s.mu.Lock()
	s.actions[name] = on
	s.mu.Unlock()
}

// SetAxis records the movement axis, clamped to [-1,1]
func (s *InputState) SetAxis(x, y float64) {
	s.mu.Lock()
	s.ax = Clamp(x, -1, 1)
	s.ay = Clamp(y, -1, 1)
	s.mu.Unlock()
}

// Release clears every action and centres the axis
func (s *InputState) Release() {
	s.mu.Lock()
	for k := range s.actions {
		delete(s.actions, k)
	}
	s.ax, s.ay = 0, 0
	s.mu.Unlock()
}

func (s *InputState) IsActionActive(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actions[name]
}

func (s *InputState) MovementAxis() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ax, s.ay
}

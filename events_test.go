package main

import "testing"

func TestEventQueueFIFO(t *testing.T) {
	var q EventQueue
	q.Push(Event{Type: EvtScore})
	q.Push(Event{Type: EvtBombsChanged})
	if q.Len() != 2 {
		t.Fatalf("expected 2 queued, got %d", q.Len())
	}
	evts := q.Drain()
	if len(evts) != 2 || evts[0].Type != EvtScore || evts[1].Type != EvtBombsChanged {
		t.Errorf("unexpected drain %+v", evts)
	}
	if q.Len() != 0 || q.Drain() != nil {
		t.Error("queue should be empty after drain")
	}
}

func TestEventQueuePushDuringDrain(t *testing.T) {
	var q EventQueue
	q.Push(Event{Type: EvtPhaseChanged})
	q.Push(Event{Type: EvtPlayerHit})

	batch := q.Drain()
	for range batch {
		q.Push(Event{Type: EvtScore})
	}
	if batch[0].Type != EvtPhaseChanged || batch[1].Type != EvtPlayerHit {
		t.Errorf("pushes during handling overwrote the batch: %+v", batch)
	}
	next := q.Drain()
	if len(next) != 2 || next[0].Type != EvtScore {
		t.Errorf("expected follow-up batch of 2 score events, got %+v", next)
	}
}

func TestEventQueueReset(t *testing.T) {
	var q EventQueue
	q.Push(Event{Type: EvtScore})
	q.Reset()
	if q.Len() != 0 {
		t.Error("reset should discard events")
	}
}

func TestNilEventQueue(t *testing.T) {
	var q *EventQueue
	q.Push(Event{Type: EvtScore})
	if q.Len() != 0 || q.Drain() != nil {
		t.Error("nil queue should be inert")
	}
}

func TestListenerFunc(t *testing.T) {
	var got string
	var l Listener = ListenerFunc(func(evt Event) { got = evt.Type })
	l.HandleEvent(Event{Type: EvtRunEnded})
	if got != EvtRunEnded {
		t.Errorf("expected run_ended, got %q", got)
	}
}

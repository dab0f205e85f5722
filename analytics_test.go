package main

import "testing"

func TestAnalyticsFlushOnStop(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db)
	a.Track(EvtPhaseChanged, `{"id":1,"phase":2}`)
	a.Track(EvtPhaseChanged, `{"id":1,"phase":3}`)
	a.Track(EvtPhaseChanged, `{"id":4,"phase":2}`)
	a.Track(EvtPlayerHit, "")
	a.Stop()

	counts, err := a.EventCounts(7)
	if err != nil {
		t.Fatal(err)
	}
	if counts[EvtPhaseChanged] != 3 || counts[EvtPlayerHit] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}

	phases, err := a.PhaseReach(7)
	if err != nil {
		t.Fatal(err)
	}
	if phases[int(PhaseEnraged)] != 2 || phases[int(PhaseDesperate)] != 1 {
		t.Errorf("unexpected phase reach %v", phases)
	}
}

func TestAnalyticsWithoutDB(t *testing.T) {
	a := NewAnalytics(nil)
	a.Track(EvtScore, `{"points":100}`)
	a.Stop()
	counts, err := a.EventCounts(7)
	if err != nil || counts != nil {
		t.Errorf("expected no data without a database, got %v %v", counts, err)
	}
}

func TestAnalyticsPeakViewers(t *testing.T) {
	a := NewAnalytics(nil)
	defer a.Stop()
	a.ObserveViewers(4)
	a.ObserveViewers(2)
	if a.PeakViewers() != 4 {
		t.Errorf("expected peak of 4, got %d", a.PeakViewers())
	}
}

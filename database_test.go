package main

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndListRuns(t *testing.T) {
	db := openTestDB(t)

	runs := []RunResult{
		{Score: 300, EnemiesKills: 3},
		{Score: 5100, BossKills: 1, EnemiesKills: 1, BombsUsed: 2, Duration: 61.5},
		{Score: 99999, GodMode: true},
		{Score: 300, EnemiesKills: 2},
	}
	for _, r := range runs {
		if _, err := db.RecordRun(r); err != nil {
			t.Fatalf("record run: %v", err)
		}
	}

	top, err := db.TopRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 runs without god mode, got %d", len(top))
	}
	if top[0].Score != 5100 || top[0].BossKills != 1 || top[0].BombsUsed != 2 || top[0].Duration != 61.5 {
		t.Errorf("unexpected best run %+v", top[0])
	}
	// ties keep insertion order
	if top[1].Kills != 3 || top[2].Kills != 2 {
		t.Errorf("expected tie broken by id, got %+v %+v", top[1], top[2])
	}
	if top[0].CreatedAt == "" {
		t.Error("expected created_at to be filled in")
	}
}

func TestTopRunsLimit(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 15; i++ {
		db.RecordRun(RunResult{Score: i})
	}
	cases := []struct{ limit, want int }{
		{3, 3},
		{0, 10},
		{-1, 10},
		{1000, 10},
	}
	for _, c := range cases {
		top, err := db.TopRuns(c.limit)
		if err != nil {
			t.Fatal(err)
		}
		if len(top) != c.want {
			t.Errorf("TopRuns(%d) returned %d rows, want %d", c.limit, len(top), c.want)
		}
	}
}

func TestBestScore(t *testing.T) {
	db := openTestDB(t)
	best, err := db.BestScore()
	if err != nil || best != 0 {
		t.Fatalf("empty table: best %d, err %v", best, err)
	}
	db.RecordRun(RunResult{Score: 700})
	db.RecordRun(RunResult{Score: 50000, GodMode: true})
	best, _ = db.BestScore()
	if best != 700 {
		t.Errorf("expected 700, got %d", best)
	}
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)
	if v := db.GetSetting("missing"); v != "" {
		t.Errorf("expected empty value, got %q", v)
	}
	if err := db.SetSetting("k", "one"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetSetting("k", "two"); err != nil {
		t.Fatal(err)
	}
	if v := db.GetSetting("k"); v != "two" {
		t.Errorf("expected upserted value, got %q", v)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	db, err := OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	db.RecordRun(RunResult{Score: 42})
	db.Close()

	db, err = OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	best, _ := db.BestScore()
	if best != 42 {
		t.Errorf("expected 42 after reopen, got %d", best)
	}
}

package main

import (
	"path/filepath"
	"testing"
	"time"
)

func TestWatchConfigReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	writeFile(t, path, "player:\n  hp: 5\n")

	applied := make(chan Config, 4)
	w, err := WatchConfig(path, func(c Config) { applied <- c })
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	writeFile(t, path, "player:\n  hp: 9\n")

	select {
	case cfg := <-applied:
		if cfg.Player.HP != 9 {
			t.Errorf("expected reloaded hp 9, got %d", cfg.Player.HP)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("config change not applied")
	}
}

func TestWatchConfigSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	writeFile(t, path, "player:\n  hp: 5\n")

	applied := make(chan Config, 4)
	w, err := WatchConfig(path, func(c Config) { applied <- c })
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	writeFile(t, path, "player:\n  hp: 0\n")
	// other files in the directory are ignored
	writeFile(t, filepath.Join(dir, "other.yaml"), "player:\n  hp: 7\n")

	select {
	case cfg := <-applied:
		t.Errorf("invalid config applied: hp %d", cfg.Player.HP)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchConfigCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	writeFile(t, path, "")
	w, err := WatchConfig(path, func(Config) {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	w.Close()
}

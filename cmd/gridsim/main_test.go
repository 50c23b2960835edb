package main

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/gridsim/config"
	"github.com/nathoo/gridsim/engine"
	"github.com/nathoo/gridsim/engine/events"
)

func TestParseFlags(t *testing.T) {
	f, err := parseFlags([]string{"--plain", "--rounds", "20", "--seed", "-3", "--radius", "2.5", "--trace", "worlds/cave"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	cfg := config.Default()
	f.apply(&cfg)

	if !cfg.Plain || !cfg.Trace {
		t.Errorf("plain=%v trace=%v, want both true", cfg.Plain, cfg.Trace)
	}
	if cfg.MaxRounds != 20 || cfg.Seed != -3 || cfg.VisionRadius != 2.5 {
		t.Errorf("rounds=%d seed=%d radius=%g", cfg.MaxRounds, cfg.Seed, cfg.VisionRadius)
	}
	if cfg.World != "worlds/cave" {
		t.Errorf("world = %q", cfg.World)
	}
}

func TestParseFlags_ScriptForcesPlain(t *testing.T) {
	f, err := parseFlags([]string{"--script", "moves.txt"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	cfg := config.Default()
	f.apply(&cfg)

	if !cfg.Plain {
		t.Error("script mode should use the plain interface")
	}
	if f.scriptFile != "moves.txt" {
		t.Errorf("script = %q", f.scriptFile)
	}
}

func TestParseFlags_UnsetFlagsKeepConfig(t *testing.T) {
	f, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	cfg := config.Default()
	cfg.Seed = 42
	cfg.World = "from-config"
	f.apply(&cfg)

	if cfg.Seed != 42 || cfg.World != "from-config" {
		t.Errorf("config overridden: seed=%d world=%q", cfg.Seed, cfg.World)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := [][]string{
		{"--rounds"},
		{"--rounds", "many"},
		{"--seed", "1.5"},
		{"--radius", "far"},
		{"one", "two"},
	}
	for _, args := range tests {
		if _, err := parseFlags(args); err == nil {
			t.Errorf("parseFlags(%q) succeeded, want error", args)
		}
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 11
	cfg.MaxRounds = 7
	cfg.EventCapacity = 3

	log := logrus.New()
	log.SetOutput(io.Discard)
	w := engine.New(nil, engineOptions(cfg, log)...)

	if w.RNG().Seed() != 11 || w.MaxRounds() != 7 {
		t.Errorf("seed=%d max rounds=%d", w.RNG().Seed(), w.MaxRounds())
	}
	for i := 0; i < 5; i++ {
		w.Events().Record(events.Event{Round: i})
	}
	if n := w.Events().Len(); n != 3 {
		t.Errorf("events kept = %d, want 3", n)
	}
}

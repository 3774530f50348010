package config

import (
	"testing"
	"time"
)

func TestParseEnvDefaults(t *testing.T) {
	var s Server
	if err := ParseEnv(&s); err != nil {
		t.Fatal(err)
	}
	if s.ConfigDir != "config" || s.WatchInterval != 2*time.Second || s.SessionTTL != 6*time.Hour {
		t.Fatalf("defaults: %+v", s)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("BART_ADDR", ":9090")
	t.Setenv("BART_SQLITE_PATH", "/tmp/bart.db")
	t.Setenv("BART_WATCH_INTERVAL", "500ms")
	t.Setenv("BART_WATCH_TASKS", "pilot,pilot/risky")
	var s Server
	if err := ParseEnv(&s); err != nil {
		t.Fatal(err)
	}
	if s.Addr != ":9090" || s.SQLitePath != "/tmp/bart.db" || s.WatchInterval != 500*time.Millisecond {
		t.Fatalf("overrides: %+v", s)
	}
	if len(s.WatchTasks) != 2 || s.WatchTasks[1] != "pilot/risky" {
		t.Fatalf("watch tasks: %v", s.WatchTasks)
	}
}

func TestParseEnvBadDuration(t *testing.T) {
	t.Setenv("BART_WATCH_INTERVAL", "soon")
	var s Server
	if err := ParseEnv(&s); err == nil {
		t.Fatal("expected an error")
	}
}

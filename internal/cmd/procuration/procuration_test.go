package procuration

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("procuration", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("COLLECTIF_PROCURATION_PORT", "9090")

	fs := flag.NewFlagSet("procuration", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9091"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9091 {
		t.Fatalf("expected port override 9091, got %d", cfg.Port)
	}
}

func TestParseConfigEnvFallback(t *testing.T) {
	t.Setenv("COLLECTIF_PROCURATION_PORT", "9090")

	fs := flag.NewFlagSet("procuration", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("expected env port 9090, got %d", cfg.Port)
	}
}

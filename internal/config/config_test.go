package config

import "testing"

func TestLoadLogDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "info" {
		t.Fatalf("Level = %q, want info", cfg.Level)
	}
}

func TestLoadLogParse(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "debug" {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
}

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/casino?sslmode=disable")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.TxRetryMax != 3 {
		t.Fatalf("TxRetryMax = %d, want 3", cfg.TxRetryMax)
	}
	if cfg.AMQPExchange != "casino.wallet" {
		t.Fatalf("AMQPExchange = %q", cfg.AMQPExchange)
	}
}

func TestLoadServerRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := LoadServer()
	if err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}

func TestLoadJackpotDefaults(t *testing.T) {
	cfg, err := LoadJackpot()
	if err != nil {
		t.Fatalf("LoadJackpot() error = %v", err)
	}
	if cfg.MinorSeed != 10000 {
		t.Fatalf("MinorSeed = %d, want 10000", cfg.MinorSeed)
	}
	if cfg.MinorRate != 0.01 {
		t.Fatalf("MinorRate = %v, want 0.01", cfg.MinorRate)
	}
	if cfg.GrandMax != 0 {
		t.Fatalf("GrandMax = %d, want 0 (uncapped)", cfg.GrandMax)
	}
}

func TestLoadJackpotOverrides(t *testing.T) {
	t.Setenv("JACKPOT_MINOR_RATE", "0.02")
	t.Setenv("JACKPOT_GRAND_SEED", "5000000")

	cfg, err := LoadJackpot()
	if err != nil {
		t.Fatalf("LoadJackpot() error = %v", err)
	}
	if cfg.MinorRate != 0.02 || cfg.GrandSeed != 5000000 {
		t.Fatalf("unexpected jackpot config: %+v", cfg)
	}
}

package config

import "github.com/caarlos0/env/v11"

// JackpotConfig carries the bootstrap defaults for the three pool tiers.
// Amounts are minor currency units, rates are fractions of the wager.
type JackpotConfig struct {
	MinorSeed int64   `env:"JACKPOT_MINOR_SEED" envDefault:"10000"`
	MinorRate float64 `env:"JACKPOT_MINOR_RATE" envDefault:"0.01"`
	MinorMax  int64   `env:"JACKPOT_MINOR_MAX" envDefault:"1000000"`

	MajorSeed int64   `env:"JACKPOT_MAJOR_SEED" envDefault:"100000"`
	MajorRate float64 `env:"JACKPOT_MAJOR_RATE" envDefault:"0.005"`
	MajorMax  int64   `env:"JACKPOT_MAJOR_MAX" envDefault:"0"`

	GrandSeed int64   `env:"JACKPOT_GRAND_SEED" envDefault:"1000000"`
	GrandRate float64 `env:"JACKPOT_GRAND_RATE" envDefault:"0.001"`
	GrandMax  int64   `env:"JACKPOT_GRAND_MAX" envDefault:"0"`
}

func LoadJackpot() (JackpotConfig, error) {
	var cfg JackpotConfig
	err := env.Parse(&cfg)
	return cfg, err
}

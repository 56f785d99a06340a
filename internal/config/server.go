package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	// AMQPURL enables the settled-event publisher when set.
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"casino.wallet"`

	TxRetryMax       int `env:"TX_RETRY_MAX" envDefault:"3"`
	TxRetryBaseMS    int `env:"TX_RETRY_BASE_DELAY_MS" envDefault:"50"`
	BodyCaptureBytes int `env:"LOG_BODY_CAPTURE_BYTES" envDefault:"4096"`

	SeedDemoData       bool  `env:"SEED_DEMO_DATA" envDefault:"false"`
	DemoInitialBalance int64 `env:"DEMO_INITIAL_BALANCE" envDefault:"100000"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}

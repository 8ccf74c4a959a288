package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_SERVER_URL targets an already running server; empty spins one up in-process
	ServerURL string `envconfig:"E2E_SERVER_URL"`
	// E2E_DEBUG_JSON dumps every received frame as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Simulator SimulatorConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadSimulator reads only the simulator section, so gateway-sim can run
// without the api-side required variables.
func LoadSimulator() (*SimulatorConfig, error) {
	var cfg SimulatorConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing simulator config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PAYFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"PAYFLOW_APP_PORT" default:"8104"`
	LogLevel     string `envconfig:"PAYFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PAYFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SimulatorConfig drives cmd/gateway-sim, the fake gateway used to exercise
// the webhook contract against a running api.
type SimulatorConfig struct {
	TargetURL      string        `envconfig:"PAYFLOW_SIM_TARGET_URL" default:"http://localhost:8104"`
	Replays        int           `envconfig:"PAYFLOW_SIM_REPLAYS" default:"5"`
	RequestTimeout time.Duration `envconfig:"PAYFLOW_SIM_REQUEST_TIMEOUT" default:"5s"`
}

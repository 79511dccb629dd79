// Package config resolves the module's non-cryptographic operational
// knobs from flags, environment variables and defaults, layered with
// viper and pflag the way the teacher's cmd/davinci-sequencer/config.go
// resolves its Web3/API/worker settings.
package config

import (
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/electionguard-go/core/dlog"
)

const (
	defaultLogLevel  = "info"
	defaultLogOutput = "stderr"
)

// Config holds the operational settings this module reads at startup.
// Every cryptographic parameter (P, Q, G, R) is a fixed constant, not
// configurable; only discrete-log search bound and logging are.
type Config struct {
	BoundedDlogMax int64     `mapstructure:"bounded_dlog_max"`
	Log            LogConfig `mapstructure:"log"`
}

// LogConfig selects the global logger's verbosity and destination.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// Load resolves EG_BOUNDED_DLOG_MAX and EG_LOG_LEVEL/EG_LOG_OUTPUT (or
// their --bounded-dlog-max/--log.level/--log.output flag equivalents),
// falling back to dlog.DefaultMaxResult and the module's quiet defaults.
// registerFlags controls whether flag.Parse is invoked, so a caller that
// has already parsed its own flags (e.g. a test) can skip it.
func Load(registerFlags bool) (*Config, error) {
	v := viper.New()

	v.SetDefault("bounded_dlog_max", dlog.DefaultMaxResult)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)

	if flag.Lookup("bounded-dlog-max") == nil {
		flag.Int64("bounded-dlog-max", dlog.DefaultMaxResult, "upper bound for bounded discrete-log recovery during decryption")
	}
	if flag.Lookup("log.level") == nil {
		flag.String("log.level", defaultLogLevel, "log level (debug, info, warn, error)")
	}
	if flag.Lookup("log.output") == nil {
		flag.String("log.output", defaultLogOutput, "log output (stdout, stderr or filepath)")
	}

	if registerFlags && !flag.Parsed() {
		flag.Parse()
	}

	v.SetEnvPrefix("EG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlag("bounded_dlog_max", flag.Lookup("bounded-dlog-max")); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := v.BindPFlag("log.level", flag.Lookup("log.level")); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := v.BindPFlag("log.output", flag.Lookup("log.output")); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.BoundedDlogMax <= 0 {
		cfg.BoundedDlogMax = dlog.DefaultMaxResult
	}
	return cfg, nil
}

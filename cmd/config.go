package cmd

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultScanConcurrency = 4
	defaultServeAddr       = "127.0.0.1:8080"
	defaultServeRateLimit  = 10
	defaultServeRateBurst  = 20
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Defaults DefaultValues
	Scan     ScanRuntimeConfig
	Serve    ServeRuntimeConfig
}

// DefaultValues are operator-level defaults, overridable per invocation by
// flags (flag > config file > built-in default).
type DefaultValues struct {
	Strict   bool
	SaveRuns bool
}

// ScanRuntimeConfig consolidates settings for the batch scan command.
type ScanRuntimeConfig struct {
	Concurrency int
}

// ServeRuntimeConfig groups API service options.
type ServeRuntimeConfig struct {
	Addr      string
	RateLimit int
	RateBurst int
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Defaults: DefaultValues{
			Strict:   false,
			SaveRuns: false,
		},
		Scan: ScanRuntimeConfig{
			Concurrency: defaultScanConcurrency,
		},
		Serve: ServeRuntimeConfig{
			Addr:      defaultServeAddr,
			RateLimit: defaultServeRateLimit,
			RateBurst: defaultServeRateBurst,
		},
	}
}

// applyViperOverrides folds config-file values into the runtime config.
// Only keys present in the file override the built-in defaults.
func applyViperOverrides(cfg *CLIConfig) {
	if viper.IsSet("strict") {
		cfg.Defaults.Strict = viper.GetBool("strict")
	}
	if viper.IsSet("save_runs") {
		cfg.Defaults.SaveRuns = viper.GetBool("save_runs")
	}
	if viper.IsSet("scan.concurrency") {
		if v := viper.GetInt("scan.concurrency"); v > 0 {
			cfg.Scan.Concurrency = v
		}
	}
	if viper.IsSet("serve.addr") {
		if v := viper.GetString("serve.addr"); v != "" {
			cfg.Serve.Addr = v
		}
	}
	if viper.IsSet("serve.rate_limit") {
		cfg.Serve.RateLimit = viper.GetInt("serve.rate_limit")
	}
	if viper.IsSet("serve.rate_burst") {
		cfg.Serve.RateBurst = viper.GetInt("serve.rate_burst")
	}
}

// applyBoolDefault invokes setter with value unless the named flag was
// set on the command line. Flags always win over config-file values.
func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	if flag := flags.Lookup(name); flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	if flag := flags.Lookup(name); flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil || value == "" {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}

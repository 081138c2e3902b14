package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".bundlescope"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for bundlescope settings.
const envPrefix = "BUNDLESCOPE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Default values applied when neither config file nor environment set a key.
const (
	DefaultServerPort          = 3001
	DefaultReportsDir          = "reports"
	DefaultStatsFile           = ".next/stats.json"
	DefaultBuildCommand        = "ANALYZE=true npm run build"
	DefaultAtomicWrites        = false
	DefaultMinPerformanceScore = 0.7
	DefaultAuditRuns           = 3
	DefaultLogLevel            = "info"
)

// DefaultAlternates returns the candidate stats locations checked, in
// order, when the primary file is absent.
func DefaultAlternates() []string {
	return []string{
		".next/analyze/client.json",
		".next/analyze/server.json",
		".next/analyze/client.html",
		".next/analyze/edge.html",
		".next/analyze/nodejs.html",
	}
}

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("server.port", DefaultServerPort)

	viperCfg.SetDefault("reports.dir", DefaultReportsDir)
	viperCfg.SetDefault("reports.atomic_writes", DefaultAtomicWrites)

	viperCfg.SetDefault("stats.file", DefaultStatsFile)
	viperCfg.SetDefault("stats.alternates", DefaultAlternates())
	viperCfg.SetDefault("stats.build_command", DefaultBuildCommand)

	viperCfg.SetDefault("audit.min_performance_score", DefaultMinPerformanceScore)
	viperCfg.SetDefault("audit.runs", DefaultAuditRuns)
	viperCfg.SetDefault("audit.urls", []string{})

	viperCfg.SetDefault("log.level", DefaultLogLevel)
	viperCfg.SetDefault("log.json", false)
}

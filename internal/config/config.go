package config

import "errors"

// Config is the top-level configuration struct for bundlescope.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Reports ReportsConfig `mapstructure:"reports"`
	Stats   StatsConfig   `mapstructure:"stats"`
	Audit   AuditConfig   `mapstructure:"audit"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds catalog server settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ReportsConfig holds report store settings.
type ReportsConfig struct {
	Dir          string `mapstructure:"dir"`
	AtomicWrites bool   `mapstructure:"atomic_writes"`
}

// StatsConfig holds stats discovery settings: where analyzer output is
// searched for and how to regenerate it when absent.
type StatsConfig struct {
	File         string   `mapstructure:"file"`
	Alternates   []string `mapstructure:"alternates"`
	BuildCommand string   `mapstructure:"build_command"`
}

// AuditConfig holds thresholds consumed by external performance tooling.
// The pipeline loads and emits them but never computes scores itself.
type AuditConfig struct {
	MinPerformanceScore float64  `mapstructure:"min_performance_score"`
	Runs                int      `mapstructure:"runs"`
	URLs                []string `mapstructure:"urls"`
}

// LogConfig holds diagnostic output settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// maxPort is the largest valid TCP port.
const maxPort = 65535

// Sentinel errors for configuration validation.
var (
	// ErrInvalidPort indicates the server port is out of range.
	ErrInvalidPort = errors.New("server.port must be between 1 and 65535")
	// ErrEmptyReportsDir indicates the report directory is unset.
	ErrEmptyReportsDir = errors.New("reports.dir must not be empty")
	// ErrEmptyStatsFile indicates the primary stats path is unset.
	ErrEmptyStatsFile = errors.New("stats.file must not be empty")
	// ErrInvalidAuditScore indicates the minimum performance score is out of range.
	ErrInvalidAuditScore = errors.New("audit.min_performance_score must be between 0 and 1")
	// ErrInvalidAuditRuns indicates the audit run count is negative.
	ErrInvalidAuditRuns = errors.New("audit.runs must be non-negative")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return ErrInvalidPort
	}

	if c.Reports.Dir == "" {
		return ErrEmptyReportsDir
	}

	if c.Stats.File == "" {
		return ErrEmptyStatsFile
	}

	if c.Audit.MinPerformanceScore < 0 || c.Audit.MinPerformanceScore > 1 {
		return ErrInvalidAuditScore
	}

	if c.Audit.Runs < 0 {
		return ErrInvalidAuditRuns
	}

	return nil
}

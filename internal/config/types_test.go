package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bundlescope/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port: 3001,
		},
		Reports: config.ReportsConfig{
			Dir: "reports",
		},
		Stats: config.StatsConfig{
			File:         ".next/stats.json",
			Alternates:   config.DefaultAlternates(),
			BuildCommand: "ANALYZE=true npm run build",
		},
		Audit: config.AuditConfig{
			MinPerformanceScore: 0.7,
			Runs:                3,
		},
	}
}

func TestValidate_ValidConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_PortOutOfRange_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Server.Port = 0

	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidPort)

	cfg.Server.Port = 70000
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidPort)
}

func TestValidate_EmptyReportsDir_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Reports.Dir = ""

	assert.ErrorIs(t, cfg.Validate(), config.ErrEmptyReportsDir)
}

func TestValidate_EmptyStatsFile_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Stats.File = ""

	assert.ErrorIs(t, cfg.Validate(), config.ErrEmptyStatsFile)
}

func TestValidate_AuditScoreOutOfRange_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Audit.MinPerformanceScore = 1.5

	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidAuditScore)
}

func TestValidate_NegativeAuditRuns_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Audit.Runs = -1

	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidAuditRuns)
}

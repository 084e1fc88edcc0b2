package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/freshmart/grocery-api/internal/config"
)

func TestRun_RejectsMemoryDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverMemory}}

	err := run(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a SQL database")
	assert.False(t, cfg.Database.AutoMigrate)
}

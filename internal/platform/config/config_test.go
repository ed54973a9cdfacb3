package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "flashsale-ticket", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Queue.EntryWindow)
	assert.Equal(t, int64(1000), cfg.Queue.MaxEnteredLimit)
	assert.Equal(t, NotifyLog, cfg.Notify.Driver)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "QUEUE_MAX_ENTERED_LIMIT=50\nQUEUE_ENTRY_BATCH_SIZE=10\nDB_NAME=from_file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DB_NAME", "from_env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(50), cfg.Queue.MaxEnteredLimit)
	assert.Equal(t, int64(10), cfg.Queue.EntryBatchSize)
	assert.Equal(t, "from_env", cfg.Database.DBName)
	assert.Equal(t, "postgres://postgres:@localhost:5432/from_env?sslmode=disable", cfg.Database.DSN())
}

func TestLoad_KafkaBrokersList(t *testing.T) {
	t.Setenv("NOTIFY_DRIVER", "kafka")
	t.Setenv("NOTIFY_KAFKA_BROKERS", "b1:9092, b2:9092")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Notify.KafkaBrokers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"zero batch", func(c *Config) { c.Queue.EntryBatchSize = 0 }, "batch size"},
		{"zero capacity", func(c *Config) { c.Queue.MaxEnteredLimit = 0 }, "max entered limit"},
		{"pubnub without keys", func(c *Config) { c.Notify.Driver = NotifyPubNub }, "pubnub"},
		{"unknown driver", func(c *Config) { c.Notify.Driver = "smtp" }, "unknown notify driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

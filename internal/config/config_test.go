package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewConfig(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, ModePipe, cfg.Input.Mode)
	assert.Equal(t, DefaultPipe, cfg.Input.Pipe)
	assert.Equal(t, OnErrorFatal, cfg.Input.OnError)
	assert.Equal(t, SPIConf{Driver: DriverSpidev, SpeedHz: 7629}, cfg.SPI)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[logger]
log-level = "debug"

[input]
mode = "stdin"
on-error = "skip"

[spi]
driver = "log"
device = 1
`), 0o600))

	t.Setenv("DACRELAY_SPI_SPEED", "100000")

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, ModeStdin, cfg.Input.Mode)
	assert.Equal(t, OnErrorSkip, cfg.Input.OnError)
	assert.Equal(t, DriverLog, cfg.SPI.Driver)
	assert.Equal(t, 1, cfg.SPI.Device)
	assert.Equal(t, int64(100000), cfg.SPI.SpeedHz)
	// untouched by file or env
	assert.Equal(t, DefaultPipe, cfg.Input.Pipe)
}

func TestNewConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.toml")
	require.NoError(t, os.WriteFile(path, []byte("[input\nmode="), 0o600))
	_, err := NewConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"mode", func(c *Config) { c.Input.Mode = "socket" }},
		{"pipe", func(c *Config) { c.Input.Pipe = "" }},
		{"on-error", func(c *Config) { c.Input.OnError = "retry" }},
		{"driver", func(c *Config) { c.SPI.Driver = "i2c" }},
		{"speed", func(c *Config) { c.SPI.SpeedHz = 0 }},
		{"spi mode", func(c *Config) { c.SPI.Mode = 4 }},
		{"topic", func(c *Config) { c.Input.Mode = ModeMQTT; c.MQTT.Topic = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

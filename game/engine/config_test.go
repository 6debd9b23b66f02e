package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GameConfig)
		wantErr string
	}{
		{"default is valid", func(c *GameConfig) {}, ""},
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name is required"},
		{"width too small", func(c *GameConfig) { c.Width = 1 }, "width must be between"},
		{"height too large", func(c *GameConfig) { c.Height = MaxGridSize + 1 }, "height must be between"},
		{"too many initial tiles", func(c *GameConfig) { c.InitialTiles = 17 }, "initial_tiles"},
		{"negative initial tiles", func(c *GameConfig) { c.InitialTiles = -1 }, "initial_tiles"},
		{"no spawn values", func(c *GameConfig) { c.SpawnValues = nil }, "at least one entry"},
		{"negative spawn value", func(c *GameConfig) { c.SpawnValues = []SpawnWeight{{Value: -1, Weight: 1}} }, "value must be between"},
		{"spawn value too large", func(c *GameConfig) { c.SpawnValues = []SpawnWeight{{Value: 64, Weight: 1}} }, "value must be between"},
		{"largest spawn value", func(c *GameConfig) { c.SpawnValues = []SpawnWeight{{Value: MaxSpawnValue, Weight: 1}} }, ""},
		{"negative weight", func(c *GameConfig) { c.SpawnValues = []SpawnWeight{{Value: 0, Weight: -1}} }, "weight must be non-negative"},
		{"all zero weights", func(c *GameConfig) { c.SpawnValues = []SpawnWeight{{Value: 0, Weight: 0}} }, "positive weight"},
		{"queue capacity zero", func(c *GameConfig) { c.QueueCapacity = 0 }, "queue_capacity"},
		{"queue capacity too large", func(c *GameConfig) { c.QueueCapacity = MaxQueueCapacity + 1 }, "queue_capacity"},
		{"missing welcome", func(c *GameConfig) { c.Messages.Welcome = "" }, "messages.welcome"},
		{"missing game over", func(c *GameConfig) { c.Messages.GameOver = "" }, "messages.game_over"},
		{"rectangular board", func(c *GameConfig) { c.Width, c.Height = 6, 3 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := ValidateGameConfig(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

const tomlConfig = `
name = "standard"
description = "Mostly ones, sometimes twos"
width = 4
height = 4
initial_tiles = 2
queue_capacity = 4
coalesce_input = false
reset_on_terminal = true

[[spawn_values]]
value = 0
weight = 9

[[spawn_values]]
value = 1
weight = 1

[messages]
welcome = "hi"
game_over = "bye"
`

func TestDecodeGameConfig(t *testing.T) {
	t.Run("toml", func(t *testing.T) {
		config, err := DecodeGameConfig([]byte(tomlConfig), FormatTOML)
		require.NoError(t, err)
		assert.Equal(t, "standard", config.Name)
		assert.Equal(t, []SpawnWeight{{Value: 0, Weight: 9}, {Value: 1, Weight: 1}}, config.SpawnValues)
		assert.False(t, config.CoalesceInput)
		assert.Equal(t, "bye", config.Messages.GameOver)
	})

	t.Run("json round trip", func(t *testing.T) {
		data, err := EncodeGameConfig(DefaultConfig(), FormatJSON)
		require.NoError(t, err)
		config, err := DecodeGameConfig(data, FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		_, err := DecodeGameConfig([]byte(`{"name":"x","width":1}`), FormatJSON)
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := DecodeGameConfig([]byte(`{}`), "yaml")
		assert.Error(t, err)
	})
}

func TestLoadGameConfig(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "standard.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlConfig), 0644))
	config, err := LoadGameConfig(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "standard", config.Name)

	_, err = LoadGameConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = LoadGameConfig(filepath.Join(dir, "config.yaml"))
	assert.Error(t, err)
}

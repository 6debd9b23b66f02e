package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config file formats
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.Width < MinGridSize || config.Width > MaxGridSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Width)
	}
	if config.Height < MinGridSize || config.Height > MaxGridSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Height)
	}

	if config.InitialTiles < 0 || config.InitialTiles > config.Width*config.Height {
		return fmt.Errorf("config validation: initial_tiles must be between 0 and %d, got %d",
			config.Width*config.Height, config.InitialTiles)
	}

	if len(config.SpawnValues) == 0 {
		return fmt.Errorf("config validation: spawn_values must contain at least one entry")
	}
	positive := false
	for i, sv := range config.SpawnValues {
		if sv.Value < 0 || sv.Value > MaxSpawnValue {
			return fmt.Errorf("config validation: spawn_values[%d].value must be between 0 and %d, got %d", i, MaxSpawnValue, sv.Value)
		}
		if sv.Weight < 0 {
			return fmt.Errorf("config validation: spawn_values[%d].weight must be non-negative, got %d", i, sv.Weight)
		}
		if sv.Weight > 0 {
			positive = true
		}
	}
	if !positive {
		return fmt.Errorf("config validation: spawn_values needs at least one positive weight")
	}

	if config.QueueCapacity < 1 || config.QueueCapacity > MaxQueueCapacity {
		return fmt.Errorf("config validation: queue_capacity must be between 1 and %d, got %d", MaxQueueCapacity, config.QueueCapacity)
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.GameOver == "" {
		return fmt.Errorf("config validation: messages.game_over is required")
	}

	return nil
}

// DefaultConfig returns the classic 4x4 configuration. Every spawned tile
// starts at exponent 0, as in the reference game.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:          "classic",
		Description:   "Classic 4x4 board, every new tile is a 1",
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		InitialTiles:  DefaultInitialTiles,
		SpawnValues:   []SpawnWeight{{Value: 0, Weight: 1}},
		QueueCapacity: DefaultQueueCapacity,
		CoalesceInput: true,
		// The host restarts on a full board
		ResetOnTerminal: true,
		Messages: Messages{
			Welcome:  "Swipe with W/A/S/D to merge equal tiles.",
			GameOver: "Board full! Game over.",
			NoChange: "Nothing moved.",
		},
	}
}

// FormatFromPath derives the config format from a file extension
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
}

// DecodeGameConfig parses and validates a configuration in the given format
func DecodeGameConfig(data []byte, format string) (*GameConfig, error) {
	var config GameConfig
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parsing json config: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &config); err != nil {
			return nil, fmt.Errorf("parsing toml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// EncodeGameConfig serializes a configuration in the given format
func EncodeGameConfig(config *GameConfig, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(config, "", "  ")
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported config format %q", format)
}

// LoadGameConfig loads a game configuration from a JSON or TOML file
func LoadGameConfig(filename string) (*GameConfig, error) {
	format, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return DecodeGameConfig(data, format)
}

// Package config provides configuration management for the merge game.
//
// The config package handles:
//   - Loading game configurations from JSON or TOML files
//   - Configuration validation
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game configurations are stored in the configs directory, one file per
// configuration. The file name without its extension is the config ID used
// when creating sessions. Each configuration defines:
//   - Board width and height
//   - Number of tiles placed at the start of a game
//   - The weighted distribution of starting values for spawned tiles
//   - Command queue capacity and whether extra input per tick is dropped
//   - Whether a full board restarts automatically
//   - Messages shown to the player
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("standard")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
package config

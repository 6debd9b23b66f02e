// Package engine provides the core logic of the sliding-tile merge game.
//
// The engine package implements the game mechanics including:
//   - Lane-by-lane sliding and merging of tiles toward a wall
//   - Spawning one tile on a random free cell after every effective swipe
//   - A bounded command queue drained one direction per tick
//   - Terminal detection (the board is full)
//   - Configuration loading and validation (JSON or TOML)
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GridState is the flat collection of live tiles;
// each Tile stores the exponent of its displayed number, so a tile with
// Value 3 shows 8. Snapshot is the read-only view handed to renderers.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Queue a swipe and resolve it on the next frame
//	_ = gameEngine.SubmitDirection(engine.Left)
//	result := gameEngine.Tick()
//	snapshot := gameEngine.Snapshot()
//
// Coordinates:
//
// y = 0 is the bottom row. Up moves tiles toward y = Height-1 and Right
// toward x = Width-1. A full board is terminal even if a merge is still
// possible; restarting is left to the caller.
package engine

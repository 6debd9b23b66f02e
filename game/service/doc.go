// Package service provides the business logic layer for the merge game.
//
// The service package implements:
//   - Multi-session game management
//   - Swipe resolution, either immediate or queued for the next tick
//   - The restart policy for full boards
//   - Swipe history paging
//
// Core Interfaces:
//
// GameService is the main service interface used by every transport.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads, lists and saves game configurations.
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the engine. Each session owns its own engine; one service-wide lock keeps
// a swipe and a tick from interleaving on the same board.
//
// Usage:
//
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(session.NewManager(), configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Resolve now
//	outcome, err := gameService.Swipe(ctx, info.ID, "left")
//
//	// Or queue and let the frame loop resolve it
//	_, err = gameService.Submit(ctx, info.ID, "w")
//	reports, err := gameService.Tick(ctx)
package service

// Package api exposes the game service over HTTP.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                 create a session ({"config_id": "classic"})
//   - GET    /api/sessions                 list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/unified         several boards at once (?sessionIds=a,b or ?configName=x)
//   - GET    /api/sessions/{id}            session info with snapshot and possible swipes
//   - DELETE /api/sessions/{id}            delete a session
//
// Game:
//   - GET  /api/sessions/{id}/state        current snapshot
//   - POST /api/sessions/{id}/swipe        resolve one swipe now ({"direction": "left"})
//   - POST /api/sessions/{id}/bulk-swipe   resolve several in order ({"directions": ["w","a"]})
//   - POST /api/sessions/{id}/queue        queue a direction for the next tick (202)
//   - POST /api/sessions/{id}/reset        clear the board and seed a new game
//   - GET  /api/sessions/{id}/history      paginated swipe history (?page&limit&order)
//
// Configuration:
//   - GET  /api/configs                    list configs
//   - GET  /api/configs/{name}             one config
//   - POST /api/configs                    validate and save a config
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}                 websocket updates, see package websocket
//
// Errors are JSON bodies of the form {"error": "...", "code": 404}. Session
// and config lookups map to 404, invalid directions and configs to 400, a
// full command queue to 409.
//
// When an Authenticator with a secret is installed, every POST and DELETE
// route requires an "Authorization: Bearer <jwt>" header signed with HS256.
// Reads stay public.
package api

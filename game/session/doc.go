// Package session provides in-memory session management for the merge game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short unique session IDs derived from random UUIDs
//   - Session expiry after a period of inactivity
//
// Each session owns its own engine instance. Sessions are not persisted;
// a restarted server starts with an empty session table.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// IDs are case-insensitive
//	sess, err = manager.Get(strings.ToUpper(sess.ID))
//
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session

package client

import "sync/atomic"

// Latest is a generation counter for suspending actions that may be
// superseded before they complete (classification, session checks).
// Each call takes a new generation before suspending and applies its
// result only if no later call started in the meantime, so a stale
// completion can never overwrite newer state.
type Latest struct {
	gen atomic.Uint64
}

// Begin starts a new generation and returns its token.
func (l *Latest) Begin() uint64 {
	return l.gen.Add(1)
}

// Current reports whether the token still identifies the newest call.
func (l *Latest) Current(token uint64) bool {
	return l.gen.Load() == token
}

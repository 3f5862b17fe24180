// Package rerr holds the core's error taxonomy: sentinel-wrapped types
// for the five failure categories named in the spec, so callers can
// distinguish them with errors.Is/errors.As instead of string matching.
package rerr

import "errors"

// ErrDesync is the sentinel behind OutcomeMismatch: the peer's outcome
// token disagreed with the local replica's computed result.
var ErrDesync = errors.New("outcome mismatch: peer's claim disagrees with local replica")

// ErrUserAbort is the sentinel behind a local user quitting mid-turn.
var ErrUserAbort = errors.New("user aborted during local turn")

// ErrPeerError is the sentinel for receiving an ERROR line from the peer.
var ErrPeerError = errors.New("peer reported a protocol error")

// DiscoveryError wraps a socket-level failure encountered during one
// discovery round. Errors inside a round are absorbed by the discovery
// package and the round is retried; the one that reaches the caller of
// DiscoverAndConnect is a failure to open the UDP sockets before the
// first round. It never reaches the session layer.
type DiscoveryError struct {
	Op  string
	Err error
}

func (e *DiscoveryError) Error() string {
	return "discovery: " + e.Op + ": " + e.Err.Error()
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// OutcomeMismatch reports the disagreement between the peer's claimed
// token and the locally computed one.
type OutcomeMismatch struct {
	Claimed string
	Local   string
}

func (e *OutcomeMismatch) Error() string {
	return "outcome mismatch: peer sent " + e.Claimed + ", local computes " + e.Local
}

func (e *OutcomeMismatch) Unwrap() error { return ErrDesync }

// Package ui declares the collaborator contract the session driver
// talks to. The driver makes no assumptions about how announcements
// are rendered or how a move gets chosen; it only needs these two
// operations answered.
package ui

import "github.com/ehrlich-b/reversi/internal/board"

// EventKind tags the three shapes of Announce event.
type EventKind int

const (
	// EventBoardState carries a fresh board snapshot, whose turn it is,
	// and the current move number.
	EventBoardState EventKind = iota
	// EventPass carries the colour that had to pass.
	EventPass
	// EventGameOver carries the final board and the outcome from the
	// local player's point of view.
	EventGameOver
)

// Event is the single type passed to Announce; only the fields that
// apply to Kind are populated.
type Event struct {
	Kind EventKind

	Board      board.Board
	SideToMove board.Colour
	MoveNum    int

	PassedColour board.Colour

	Outcome string // "win", "loss", or "draw"
	Black   int
	White   int
}

// Collaborator is the local player's side of a session: it renders
// state and supplies move choices. Implementations must not block
// Announce indefinitely; ChooseMove may block on user input.
type Collaborator interface {
	// Announce reports a state change. It never returns an error: a
	// rendering failure is the collaborator's problem to handle (e.g.
	// log and continue), not the session driver's.
	Announce(event Event)

	// ChooseMove is called only when legalMoves is non-empty. It
	// returns the index into legalMoves the player picked, or quit=true
	// if the player aborted instead of moving.
	ChooseMove(b board.Board, colour board.Colour, legalMoves []board.Move) (index int, quit bool)
}

// Package session runs the gameplay state machine described in the
// component design: alternating between the local collaborator and a
// blocking read of the peer's next line, until the board reaches a
// terminal state, the peer errors out, or the user aborts.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ehrlich-b/reversi/internal/board"
	"github.com/ehrlich-b/reversi/internal/logger"
	"github.com/ehrlich-b/reversi/internal/outcome"
	"github.com/ehrlich-b/reversi/internal/protocol"
	"github.com/ehrlich-b/reversi/internal/rerr"
	"github.com/ehrlich-b/reversi/internal/rules"
	"github.com/ehrlich-b/reversi/internal/transport"
	"github.com/ehrlich-b/reversi/internal/ui"
)

// Status is the terminal classification of a finished session.
type Status int

const (
	StatusOK Status = iota
	StatusUserAbort
	StatusProtocolViolation
	StatusDesync
	StatusPeerError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUserAbort:
		return "user-abort"
	case StatusProtocolViolation:
		return "protocol-violation"
	case StatusDesync:
		return "desync"
	case StatusPeerError:
		return "peer-error"
	default:
		return "unknown"
	}
}

// Role is the caller's role as decided by discovery.
type Role int

const (
	RoleP1 Role = iota // accepted the connection, plays Black
	RoleP2             // connected out, plays White
)

// Driver owns one live gameplay conversation.
type Driver struct {
	conn     *transport.Conn
	collab   ui.Collaborator
	myColour board.Colour
	corrID   string
}

// New constructs a driver for a freshly connected stream. role decides
// myColour: P1 is Black (moves first), P2 is White.
func New(conn *transport.Conn, role Role, collab ui.Collaborator) *Driver {
	myColour := board.White
	if role == RoleP1 {
		myColour = board.Black
	}
	return &Driver{
		conn:     conn,
		collab:   collab,
		myColour: myColour,
		corrID:   uuid.NewString(),
	}
}

// Run drives the session to completion and returns its terminal
// status. It never panics on peer misbehavior; every failure path
// closes the stream and returns, and every one except receiving the
// peer's own ERROR first sends a best-effort ERROR.
func (d *Driver) Run() (Status, error) {
	b := board.Initial()
	sideToMove := board.Black
	moveNum := 1
	passes := 0

	log := logger.Log.With("session", d.corrID, "colour", d.myColour)
	log.Info("session started")

	for {
		if rules.IsTerminal(b) {
			return d.finish(b, log)
		}

		if sideToMove == d.myColour {
			status, next, done, err := d.takeLocalTurn(b, moveNum, log, &passes)
			if done {
				return status, err
			}
			if next.set {
				b = next.board
				moveNum++
			}
			sideToMove = sideToMove.Opposite()
			continue
		}

		status, next, done, err := d.takePeerTurn(b, log, &passes)
		if done {
			return status, err
		}
		if next.set {
			b = next.board
			moveNum++
		}
		sideToMove = sideToMove.Opposite()
	}
}

type boardUpdate struct {
	board board.Board
	set   bool
}

// takeLocalTurn handles the "side_to_move == my_colour" branch. When
// it returns done=false, the caller must still flip side_to_move and
// advance moveNum — that's shared with takePeerTurn in Run's loop.
func (d *Driver) takeLocalTurn(b board.Board, moveNum int, log *slog.Logger, passes *int) (Status, boardUpdate, bool, error) {
	legal := rules.LegalMoves(b, d.myColour)

	d.collab.Announce(ui.Event{Kind: ui.EventBoardState, Board: b, SideToMove: d.myColour, MoveNum: moveNum})

	if len(legal) == 0 {
		d.collab.Announce(ui.Event{Kind: ui.EventPass, PassedColour: d.myColour})
		if err := d.conn.SendLine(string(protocol.Pass)); err != nil {
			d.sendErrorAndClose()
			return StatusProtocolViolation, boardUpdate{}, true, err
		}
		*passes++
		if *passes >= 2 || !rules.HasAnyMove(b, d.myColour.Opposite()) {
			status, err := d.finish(b, log)
			return status, boardUpdate{}, true, err
		}
		return StatusOK, boardUpdate{}, false, nil
	}

	idx, quit := d.collab.ChooseMove(b, d.myColour, legal)
	if quit {
		_ = d.conn.SendLine(string(protocol.Error))
		d.conn.Close()
		return StatusUserAbort, boardUpdate{}, true, rerr.ErrUserAbort
	}

	mv := legal[idx]
	nb, err := rules.Apply(b, d.myColour, mv.Row, mv.Col)
	if err != nil {
		// A locally chosen move failing to apply is a programming bug,
		// not a protocol condition: legal_moves and apply must agree.
		panic(fmt.Sprintf("session: locally chosen legal move rejected by apply: %v", err))
	}

	line, err := protocol.EncodeMove(mv.Row, mv.Col)
	if err != nil {
		panic(fmt.Sprintf("session: could not encode a move returned by legal_moves: %v", err))
	}
	if err := d.conn.SendLine(line); err != nil {
		d.sendErrorAndClose()
		return StatusProtocolViolation, boardUpdate{}, true, err
	}
	*passes = 0
	return StatusOK, boardUpdate{board: nb, set: true}, false, nil
}

// takePeerTurn handles the "else (peer's turn)" branch.
func (d *Driver) takePeerTurn(b board.Board, log *slog.Logger, passes *int) (Status, boardUpdate, bool, error) {
	line, err := d.conn.RecvLine()
	if err != nil {
		d.sendErrorAndClose()
		return StatusProtocolViolation, boardUpdate{}, true, err
	}

	if protocol.IsToken(line) {
		tok, terr := protocol.DecodeToken(line)
		if terr != nil {
			d.sendErrorAndClose()
			return StatusProtocolViolation, boardUpdate{}, true, terr
		}

		switch tok.Kind {
		case protocol.Pass:
			*passes++
			if *passes >= 2 || !rules.HasAnyMove(b, d.myColour) {
				status, err := d.finish(b, log)
				return status, boardUpdate{}, true, err
			}
			return StatusOK, boardUpdate{}, false, nil

		case protocol.YouWin, protocol.YouLose, protocol.Draw:
			if !outcome.Verify(b, d.myColour, tok.Kind) {
				d.sendErrorAndClose()
				return StatusDesync, boardUpdate{}, true, &rerr.OutcomeMismatch{
					Claimed: string(tok.Kind),
					Local:   string(outcome.TokenFor(b, d.myColour)),
				}
			}
			d.announceOutcome(b, tok.Kind)
			d.conn.Close()
			return StatusOK, boardUpdate{}, true, nil

		case protocol.Error:
			d.conn.Close()
			return StatusPeerError, boardUpdate{}, true, rerr.ErrPeerError
		}
	}

	mv, merr := protocol.DecodeMove(line)
	if merr != nil {
		d.sendErrorAndClose()
		return StatusProtocolViolation, boardUpdate{}, true, merr
	}

	peerColour := d.myColour.Opposite()
	nb, aerr := rules.Apply(b, peerColour, mv.Row, mv.Col)
	if aerr != nil {
		d.sendErrorAndClose()
		var illegal *rules.IllegalMoveError
		if errors.As(aerr, &illegal) {
			return StatusProtocolViolation, boardUpdate{}, true, aerr
		}
		return StatusProtocolViolation, boardUpdate{}, true, aerr
	}

	*passes = 0
	return StatusOK, boardUpdate{board: nb, set: true}, false, nil
}

func (d *Driver) sendErrorAndClose() {
	_ = d.conn.SendLine(string(protocol.Error))
	d.conn.Close()
}

// finish computes and sends the peer-addressed outcome token, then
// announces the final result locally and closes the stream.
func (d *Driver) finish(b board.Board, log *slog.Logger) (Status, error) {
	tok := outcome.TokenFor(b, d.myColour)
	if err := d.conn.SendLine(string(tok)); err != nil {
		d.sendErrorAndClose()
		return StatusProtocolViolation, err
	}
	d.announceLocalOutcome(b)
	d.conn.Close()
	log.Info("session finished", "status", "ok")
	return StatusOK, nil
}

func (d *Driver) announceLocalOutcome(b board.Board) {
	black, white := rules.Score(b)
	outcomeStr := "draw"
	switch {
	case black == white:
		outcomeStr = "draw"
	case d.myColour == board.Black && black > white, d.myColour == board.White && white > black:
		outcomeStr = "win"
	default:
		outcomeStr = "loss"
	}
	d.collab.Announce(ui.Event{Kind: ui.EventGameOver, Board: b, Outcome: outcomeStr, Black: black, White: white})
}

// announceOutcome is used when the *peer's* outcome token is the one
// that ends the session (the peer was the one that detected terminal).
func (d *Driver) announceOutcome(b board.Board, tok protocol.Token) {
	black, white := rules.Score(b)
	outcomeStr := "draw"
	switch tok {
	case protocol.YouWin:
		outcomeStr = "win"
	case protocol.YouLose:
		outcomeStr = "loss"
	}
	d.collab.Announce(ui.Event{Kind: ui.EventGameOver, Board: b, Outcome: outcomeStr, Black: black, White: white})
}

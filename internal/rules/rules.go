// Package rules is the Othello rules engine: legal-move enumeration, move
// application with flipping, terminal detection, and scoring. Every
// function here is pure — no I/O, no shared state, boards are values.
package rules

import (
	"fmt"
	"sort"

	"github.com/ehrlich-b/reversi/internal/board"
)

// directions walked from a candidate cell, compass order: N, NE, E, SE,
// S, SW, W, NW. Order only matters for determinism of intermediate
// slices; the legality test itself doesn't care which direction fires.
var directions = [8][2]int{
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
}

// IllegalMoveError is returned by Apply when (row, col) is not a legal
// move for colour on board. Raising it for a move produced by LegalMoves
// is a local programming error; raising it for a peer-supplied move is
// the session driver's cue to send ERROR.
type IllegalMoveError struct {
	Colour   board.Colour
	Row, Col int
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move for %s at (%d,%d)", e.Colour, e.Row, e.Col)
}

// lineFlips walks from (r,c) in direction (dr,dc) and returns the run of
// opponent cells that would flip, or nil if the ray doesn't bracket
// cleanly: the immediate neighbour must be an opponent stone, and the
// ray must reach a same-colour stone before running off the board or
// hitting an Empty cell.
func lineFlips(b board.Board, colour board.Colour, r, c, dr, dc int) [][2]int {
	opp := colour.Opposite()
	rr, cc := r+dr, c+dc

	if !board.InBounds(rr, cc) {
		return nil
	}
	if col, ok := b.ColourAt(rr, cc); !ok || col != opp {
		return nil
	}

	var flips [][2]int
	for board.InBounds(rr, cc) {
		col, ok := b.ColourAt(rr, cc)
		if !ok {
			return nil // Empty before closing the bracket
		}
		if col == opp {
			flips = append(flips, [2]int{rr, cc})
		} else {
			return flips // closed by our own colour
		}
		rr += dr
		cc += dc
	}
	return nil // ran off the board without closing
}

// FlipsForMove returns every cell that would flip if colour plays at
// (r, c), or nil if the move is illegal (out of bounds, occupied, or no
// direction brackets an opponent run).
func FlipsForMove(b board.Board, colour board.Colour, r, c int) [][2]int {
	if !board.InBounds(r, c) {
		return nil
	}
	if _, occupied := b.ColourAt(r, c); occupied {
		return nil
	}
	var flips [][2]int
	for _, d := range directions {
		flips = append(flips, lineFlips(b, colour, r, c, d[0], d[1])...)
	}
	return flips
}

// LegalMoves returns every (row, col) where colour may legally play on
// b, sorted row-major for determinism. Empty iff colour must pass.
func LegalMoves(b board.Board, colour board.Colour) []board.Move {
	// Only empty cells adjacent to an opponent stone can possibly be
	// legal — a cheap prune before the full bracket walk.
	opp := colour.Opposite()
	candidates := make(map[[2]int]struct{})
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			col, ok := b.ColourAt(r, c)
			if !ok || col != opp {
				continue
			}
			for _, d := range directions {
				rr, cc := r+d[0], c+d[1]
				if board.InBounds(rr, cc) {
					if _, occupied := b.ColourAt(rr, cc); !occupied {
						candidates[[2]int{rr, cc}] = struct{}{}
					}
				}
			}
		}
	}

	var out []board.Move
	for pos := range candidates {
		if FlipsForMove(b, colour, pos[0], pos[1]) != nil {
			out = append(out, board.Move{Row: pos[0], Col: pos[1]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Apply returns a new Board with colour's stone placed at (r, c) and
// every bracketed cell flipped. It requires the move be legal; b is
// never mutated, so a failed Apply cannot corrupt the caller's board.
func Apply(b board.Board, colour board.Colour, r, c int) (board.Board, error) {
	flips := FlipsForMove(b, colour, r, c)
	if len(flips) == 0 {
		return board.Board{}, &IllegalMoveError{Colour: colour, Row: r, Col: c}
	}
	out := b.WithStone(r, c, colour)
	for _, f := range flips {
		out = out.WithStone(f[0], f[1], colour)
	}
	return out, nil
}

// HasAnyMove reports whether colour has at least one legal move on b.
func HasAnyMove(b board.Board, colour board.Colour) bool {
	return len(LegalMoves(b, colour)) > 0
}

// IsTerminal reports whether the game on b is over: the board is full,
// or neither colour has a legal move.
func IsTerminal(b board.Board) bool {
	_, _, empty := b.Counts()
	if empty == 0 {
		return true
	}
	return !HasAnyMove(b, board.Black) && !HasAnyMove(b, board.White)
}

// Score returns (black_count, white_count).
func Score(b board.Board) (black, white int) {
	black, white, _ = b.Counts()
	return black, white
}

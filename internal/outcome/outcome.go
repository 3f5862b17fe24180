// Package outcome computes and verifies the peer-addressed end-of-game
// token. A sender's token describes the recipient's result ("YOU WIN"
// means "you, the reader, won"), so the receiver can independently
// verify it against its own replica — the core's main desync check.
package outcome

import (
	"github.com/ehrlich-b/reversi/internal/board"
	"github.com/ehrlich-b/reversi/internal/protocol"
	"github.com/ehrlich-b/reversi/internal/rules"
)

// TokenFor computes the token myColour should SEND to its peer, given
// the final board from myColour's point of view.
func TokenFor(b board.Board, myColour board.Colour) protocol.Token {
	black, white := rules.Score(b)
	if black == white {
		return protocol.Draw
	}
	if myColour == board.Black {
		if black > white {
			return protocol.YouLose
		}
		return protocol.YouWin
	}
	if white > black {
		return protocol.YouLose
	}
	return protocol.YouWin
}

// Verify checks a token RECEIVED from the peer (addressed to myColour)
// against myColour's own replica of the final board.
func Verify(b board.Board, myColour board.Colour, peerToken protocol.Token) bool {
	black, white := rules.Score(b)
	if peerToken == protocol.Draw {
		return black == white
	}
	if myColour == board.Black {
		if peerToken == protocol.YouWin {
			return black > white
		}
		return white > black
	}
	if peerToken == protocol.YouWin {
		return white > black
	}
	return black > white
}

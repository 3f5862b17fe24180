package session

import (
	"github.com/ehrlich-b/reversi/internal/board"
	"github.com/ehrlich-b/reversi/internal/rules"
	"github.com/ehrlich-b/reversi/internal/ui"
)

// RunHotseat plays a complete local game with no network component,
// both sides driven by the same collaborator. It mirrors the same
// terminal/pass/score logic as Run but skips the wire protocol
// entirely — there's no peer to desync from.
func RunHotseat(collab ui.Collaborator) (black, white int) {
	b := board.Initial()
	sideToMove := board.Black
	moveNum := 1
	passes := 0

	for {
		if rules.IsTerminal(b) {
			black, white = rules.Score(b)
			outcomeStr := "draw"
			if black > white {
				outcomeStr = "win" // reported from Black's perspective in hotseat
			} else if white > black {
				outcomeStr = "loss"
			}
			collab.Announce(ui.Event{Kind: ui.EventGameOver, Board: b, Outcome: outcomeStr, Black: black, White: white})
			return black, white
		}

		legal := rules.LegalMoves(b, sideToMove)
		collab.Announce(ui.Event{Kind: ui.EventBoardState, Board: b, SideToMove: sideToMove, MoveNum: moveNum})

		if len(legal) == 0 {
			collab.Announce(ui.Event{Kind: ui.EventPass, PassedColour: sideToMove})
			passes++
			if passes >= 2 {
				black, white = rules.Score(b)
				collab.Announce(ui.Event{Kind: ui.EventGameOver, Board: b, Outcome: "draw", Black: black, White: white})
				return black, white
			}
			sideToMove = sideToMove.Opposite()
			continue
		}
		passes = 0

		idx, quit := collab.ChooseMove(b, sideToMove, legal)
		if quit {
			black, white = rules.Score(b)
			return black, white
		}

		mv := legal[idx]
		nb, err := rules.Apply(b, sideToMove, mv.Row, mv.Col)
		if err != nil {
			panic("hotseat: legal_moves and apply disagreed")
		}
		b = nb
		moveNum++
		sideToMove = sideToMove.Opposite()
	}
}

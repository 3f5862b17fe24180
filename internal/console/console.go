// Package console implements ui.Collaborator over a plain terminal:
// it renders the board as text and reads move choices as line input.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/ehrlich-b/reversi/internal/board"
	"github.com/ehrlich-b/reversi/internal/ui"
)

// Console is a ui.Collaborator backed by stdin/stdout.
type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	isTerm bool
}

// New builds a Console over os.Stdin/os.Stdout.
func New() *Console {
	fd := int(os.Stdin.Fd())
	return &Console{
		in:     bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
		isTerm: term.IsTerminal(fd),
	}
}

func (c *Console) Announce(ev ui.Event) {
	switch ev.Kind {
	case ui.EventBoardState:
		c.printBoard(ev.Board)
		fmt.Fprintf(c.out, "move %d: %s to play\n", ev.MoveNum, colourName(ev.SideToMove))

	case ui.EventPass:
		fmt.Fprintf(c.out, "%s has no legal move and passes\n", colourName(ev.PassedColour))

	case ui.EventGameOver:
		c.printBoard(ev.Board)
		switch ev.Outcome {
		case "draw":
			fmt.Fprintf(c.out, "game over: draw %d-%d\n", ev.Black, ev.White)
		case "win":
			fmt.Fprintf(c.out, "game over: you win %d-%d\n", ev.Black, ev.White)
		case "loss":
			fmt.Fprintf(c.out, "game over: you lose %d-%d\n", ev.Black, ev.White)
		}
	}
}

func (c *Console) ChooseMove(b board.Board, colour board.Colour, legal []board.Move) (int, bool) {
	fmt.Fprintf(c.out, "your move (row,col), or one of the numbered options, or 'q' to quit:\n")
	for i, m := range legal {
		fmt.Fprintf(c.out, "  %d: %s\n", i+1, m)
	}

	for {
		// Only decorate the prompt when a human is actually looking at
		// a terminal; a piped/redirected stdin (scripted play, tests)
		// gets the informational lines above with no "> " noise.
		if c.isTerm {
			fmt.Fprint(c.out, "> ")
		}
		if !c.in.Scan() {
			return 0, true
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "q" || line == "quit" {
			return 0, true
		}

		if idx, err := strconv.Atoi(line); err == nil {
			if idx >= 1 && idx <= len(legal) {
				return idx - 1, false
			}
			fmt.Fprintf(c.out, "choose a number between 1 and %d\n", len(legal))
			continue
		}

		row, col, ok := parseCoord(line)
		if !ok {
			fmt.Fprintln(c.out, "couldn't parse that; try \"row,col\" or a listed number")
			continue
		}
		for i, m := range legal {
			if m.Row == row && m.Col == col {
				return i, false
			}
		}
		fmt.Fprintln(c.out, "that cell isn't a legal move")
	}
}

func parseCoord(s string) (row, col int, ok bool) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	r, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	c, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return r, c, true
}

func (c *Console) printBoard(b board.Board) {
	var sb strings.Builder
	sb.WriteString("  0 1 2 3 4 5 6 7\n")
	for r := 0; r < board.Size; r++ {
		sb.WriteString(strconv.Itoa(r))
		sb.WriteByte(' ')
		for col := 0; col < board.Size; col++ {
			sb.WriteString(cellGlyph(b.At(r, col)))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(c.out, sb.String())
}

func cellGlyph(cell board.Cell) string {
	switch cell {
	case board.CellBlack:
		return "B"
	case board.CellWhite:
		return "W"
	default:
		return "."
	}
}

func colourName(c board.Colour) string {
	if c == board.Black {
		return "black"
	}
	return "white"
}

// Package board defines the immutable Othello board value type and the
// colour/cell/move primitives the rest of the core builds on.
package board

import "fmt"

// Colour is one of Black or White. There is no third colour.
type Colour uint8

const (
	Black Colour = iota
	White
)

// Opposite returns the other colour. Total over {Black, White}.
func (c Colour) Opposite() Colour {
	if c == Black {
		return White
	}
	return Black
}

func (c Colour) String() string {
	if c == Black {
		return "Black"
	}
	return "White"
}

// Cell is the content of one board square.
type Cell uint8

const (
	Empty Cell = iota
	CellBlack
	CellWhite
)

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "B"
	case CellWhite:
		return "W"
	default:
		return "."
	}
}

func cellFor(c Colour) Cell {
	if c == Black {
		return CellBlack
	}
	return CellWhite
}

func (c Cell) colour() (Colour, bool) {
	switch c {
	case CellBlack:
		return Black, true
	case CellWhite:
		return White, true
	default:
		return 0, false
	}
}

// Size is the board's edge length. Othello is played on an 8x8 grid.
const Size = 8

// Board is an immutable 8x8 grid of Cell. The zero value is not a valid
// board; use Initial() or FromRows() to construct one.
type Board struct {
	cells [Size][Size]Cell
}

// InBounds reports whether (r, c) names a cell on the board.
func InBounds(r, c int) bool {
	return r >= 0 && r < Size && c >= 0 && c < Size
}

// Initial returns the canonical Othello opening position: Black at (3,4)
// and (4,3), White at (3,3) and (4,4), all else Empty.
func Initial() Board {
	var b Board
	b.cells[3][3] = CellWhite
	b.cells[4][4] = CellWhite
	b.cells[3][4] = CellBlack
	b.cells[4][3] = CellBlack
	return b
}

// FromRows builds a Board from an 8x8 slice of Cell, validating shape.
func FromRows(rows [][]Cell) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("board: want %d rows, got %d", Size, len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("board: row %d has %d cols, want %d", r, len(row), Size)
		}
		copy(b.cells[r][:], row)
	}
	return b, nil
}

// At returns the cell at (r, c). Panics if out of bounds; callers are
// expected to check InBounds first, as the rules engine always does.
func (b Board) At(r, c int) Cell {
	return b.cells[r][c]
}

// ColourAt returns the stone colour at (r, c), or ok=false for Empty.
func (b Board) ColourAt(r, c int) (Colour, bool) {
	return b.cells[r][c].colour()
}

// WithStone returns a new Board with (r, c) set to the given colour's
// stone, leaving b untouched. This is how the rules package builds the
// post-move board: Board is a value type, so this is an ordinary copy.
func (b Board) WithStone(r, c int, col Colour) Board {
	b.cells[r][c] = cellFor(col)
	return b
}

// Equal reports cell-wise equality between two boards.
func (b Board) Equal(other Board) bool {
	return b.cells == other.cells
}

// Count returns the number of stones of the given colour.
func (b Board) Count(col Colour) int {
	target := cellFor(col)
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.cells[r][c] == target {
				n++
			}
		}
	}
	return n
}

// Counts returns (black, white, empty) stone counts.
func (b Board) Counts() (black, white, empty int) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			switch b.cells[r][c] {
			case CellBlack:
				black++
			case CellWhite:
				white++
			default:
				empty++
			}
		}
	}
	return black, white, empty
}

// Rows returns the board as row-major Cell slices, for rendering/tests.
func (b Board) Rows() [][]Cell {
	out := make([][]Cell, Size)
	for r := 0; r < Size; r++ {
		row := make([]Cell, Size)
		copy(row, b.cells[r][:])
		out[r] = row
	}
	return out
}

func (b Board) String() string {
	s := ""
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			s += b.cells[r][c].String()
		}
		s += "\n"
	}
	return s
}

// Move is a concrete (row, col) placement, or the Pass sentinel.
type Move struct {
	Row, Col int
	IsPass   bool
}

// Pass is the sentinel move meaning "no legal move, turn forfeit."
var Pass = Move{IsPass: true}

func (m Move) String() string {
	if m.IsPass {
		return "Pass"
	}
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

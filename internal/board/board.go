// FILE: internal/board/board.go
package board

import (
	"errors"
	"fmt"
	"strings"

	"checkers/internal/core"
)

var ErrOutOfBounds = errors.New("position out of bounds")

// Board is the 8x8 grid. A nil cell is empty.
// Operations enforce grid bounds only, never game rules.
type Board struct {
	cells [core.BoardSize][core.BoardSize]*core.Piece
}

// New returns an empty board
func New() *Board {
	return &Board{}
}

// NewStandard returns the starting placement: Black men on the dark squares
// of rows 0-2, White men on the dark squares of rows 5-7.
func NewStandard() *Board {
	b := New()
	for r := 0; r < core.BoardSize; r++ {
		for c := 0; c < core.BoardSize; c++ {
			pos := core.Position{Row: r, Col: c}
			if !pos.IsDark() {
				continue
			}
			switch {
			case r < 3:
				b.cells[r][c] = &core.Piece{Owner: core.ColorBlack, Rank: core.RankMan}
			case r > 4:
				b.cells[r][c] = &core.Piece{Owner: core.ColorWhite, Rank: core.RankMan}
			}
		}
	}
	return b
}

func checkBounds(pos core.Position) error {
	if !pos.InBounds() {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, pos)
	}
	return nil
}

// PieceAt returns the piece at pos, or nil if the cell is empty
func (b *Board) PieceAt(pos core.Position) (*core.Piece, error) {
	if err := checkBounds(pos); err != nil {
		return nil, err
	}
	return b.cells[pos.Row][pos.Col], nil
}

// PlacePiece puts a copy of piece at pos, replacing whatever is there
func (b *Board) PlacePiece(piece core.Piece, pos core.Position) error {
	if err := checkBounds(pos); err != nil {
		return err
	}
	p := piece
	b.cells[pos.Row][pos.Col] = &p
	return nil
}

func (b *Board) RemovePiece(pos core.Position) error {
	if err := checkBounds(pos); err != nil {
		return err
	}
	b.cells[pos.Row][pos.Col] = nil
	return nil
}

// MovePieceTo relocates the piece at from. The caller ensures to is empty.
func (b *Board) MovePieceTo(from, to core.Position) error {
	if err := checkBounds(from); err != nil {
		return err
	}
	if err := checkBounds(to); err != nil {
		return err
	}
	b.cells[to.Row][to.Col] = b.cells[from.Row][from.Col]
	b.cells[from.Row][from.Col] = nil
	return nil
}

// Clone returns a deep copy
func (b *Board) Clone() *Board {
	out := New()
	for r := range b.cells {
		for c, p := range b.cells[r] {
			if p != nil {
				cp := *p
				out.cells[r][c] = &cp
			}
		}
	}
	return out
}

// Count returns the number of pieces owned by color
func (b *Board) Count(color core.Color) int {
	n := 0
	for r := range b.cells {
		for _, p := range b.cells[r] {
			if p != nil && p.Owner == color {
				n++
			}
		}
	}
	return n
}

// ToASCII creates an ASCII representation of the board, row 0 at the top
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  0 1 2 3 4 5 6 7\n")

	for r := 0; r < core.BoardSize; r++ {
		sb.WriteString(fmt.Sprintf("%d ", r))
		for c := 0; c < core.BoardSize; c++ {
			if p := b.cells[r][c]; p != nil {
				sb.WriteString(fmt.Sprintf("%c ", p.Symbol()))
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r))
	}
	sb.WriteString("  0 1 2 3 4 5 6 7")

	return sb.String()
}

// FILE: internal/core/core.go
package core

import "fmt"

// BoardSize is the number of rows and columns on the board
const BoardSize = 8

type Color byte

const (
	ColorBlack Color = 'b'
	ColorWhite Color = 'w'
)

func (c Color) String() string {
	switch c {
	case ColorBlack:
		return "b"
	case ColorWhite:
		return "w"
	default:
		return "-"
	}
}

// Name returns the human readable color name
func (c Color) Name() string {
	if c == ColorBlack {
		return "Black"
	}
	return "White"
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// Forward returns the row step a color's men advance by
func (c Color) Forward() int {
	if c == ColorBlack {
		return 1
	}
	return -1
}

// PromotionRow is the far edge from a color's starting side
func (c Color) PromotionRow() int {
	if c == ColorBlack {
		return BoardSize - 1
	}
	return 0
}

type Rank int

const (
	RankMan Rank = iota
	RankKing
)

func (r Rank) String() string {
	if r == RankKing {
		return "king"
	}
	return "man"
}

type Piece struct {
	Owner Color `json:"owner"`
	Rank  Rank  `json:"rank"`
}

// Symbol returns the single character used by the layout codec and ASCII board
func (p Piece) Symbol() byte {
	switch {
	case p.Owner == ColorBlack && p.Rank == RankKing:
		return 'B'
	case p.Owner == ColorBlack:
		return 'b'
	case p.Rank == RankKing:
		return 'W'
	default:
		return 'w'
	}
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// IsDark reports whether the square can ever hold a piece
func (p Position) IsDark() bool {
	return (p.Row+p.Col)%2 == 1
}

// Offset returns the position shifted by the given row and column deltas
func (p Position) Offset(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Move is a single step or jump. Captured is set iff the move is a jump.
type Move struct {
	From     Position  `json:"from"`
	To       Position  `json:"to"`
	Captured *Position `json:"captured,omitempty"`
}

func (m Move) IsCapture() bool {
	return m.Captured != nil
}

func (m Move) String() string {
	if m.Captured != nil {
		return fmt.Sprintf("%d%dx%d%d", m.From.Row, m.From.Col, m.To.Row, m.To.Col)
	}
	return fmt.Sprintf("%d%d-%d%d", m.From.Row, m.From.Col, m.To.Row, m.To.Col)
}

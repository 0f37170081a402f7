package board

import (
	"errors"
	"fmt"
	"strings"

	"checkers/internal/core"
)

const (
	StartingLayout = "1b1b1b1b/b1b1b1b1/1b1b1b1b/8/8/w1w1w1w1/1w1w1w1w/w1w1w1w1 b"
)

var ErrInvalidLayout = errors.New("invalid layout")

// ParseLayout decodes "<row0>/.../<row7> <turn>". Rows run from row 0;
// b/B and w/W are men/kings, digits are runs of empty cells.
func ParseLayout(layout string) (*Board, core.Color, error) {
	parts := strings.Fields(layout)
	if len(parts) != 2 {
		return nil, 0, fmt.Errorf("%w: expected 2 parts, got %d", ErrInvalidLayout, len(parts))
	}

	rows := strings.Split(parts[0], "/")
	if len(rows) != core.BoardSize {
		return nil, 0, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidLayout, core.BoardSize, len(rows))
	}

	b := New()
	for r, row := range rows {
		col := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}

			var piece core.Piece
			switch ch {
			case 'b':
				piece = core.Piece{Owner: core.ColorBlack, Rank: core.RankMan}
			case 'B':
				piece = core.Piece{Owner: core.ColorBlack, Rank: core.RankKing}
			case 'w':
				piece = core.Piece{Owner: core.ColorWhite, Rank: core.RankMan}
			case 'W':
				piece = core.Piece{Owner: core.ColorWhite, Rank: core.RankKing}
			default:
				return nil, 0, fmt.Errorf("%w: unexpected character %q in row %d", ErrInvalidLayout, ch, r)
			}

			if col >= core.BoardSize {
				return nil, 0, fmt.Errorf("%w: too many cells in row %d", ErrInvalidLayout, r)
			}
			pos := core.Position{Row: r, Col: col}
			if !pos.IsDark() {
				return nil, 0, fmt.Errorf("%w: piece on light square %s", ErrInvalidLayout, pos)
			}
			b.cells[r][col] = &piece
			col++
		}
		if col != core.BoardSize {
			return nil, 0, fmt.Errorf("%w: row %d has %d cells", ErrInvalidLayout, r, col)
		}
	}

	var turn core.Color
	switch parts[1] {
	case "b":
		turn = core.ColorBlack
	case "w":
		turn = core.ColorWhite
	default:
		return nil, 0, fmt.Errorf("%w: turn must be 'b' or 'w'", ErrInvalidLayout)
	}

	return b, turn, nil
}

// Layout encodes the board with turn as side to move
func (b *Board) Layout(turn core.Color) string {
	var sb strings.Builder
	for r := 0; r < core.BoardSize; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < core.BoardSize; c++ {
			p := b.cells[r][c]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Symbol())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(turn.String())
	return sb.String()
}

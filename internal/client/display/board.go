package display

import (
	"fmt"
	"io"
	"strings"

	"checkers/internal/core"
)

// View is the read-only surface of a game a renderer needs
type View interface {
	CurrentPlayer() core.Color
	PieceAt(pos core.Position) (core.Piece, bool)
	Selected() (core.Position, bool)
	HighlightedDestinations() []core.Position
}

const (
	emptySymbol     = "."
	highlightSymbol = "*"
)

// Renderer draws a game view as a labelled text grid, row 0 at the top
type Renderer struct {
	out     io.Writer
	palette Palette
}

func NewRenderer(out io.Writer, color bool) *Renderer {
	return &Renderer{out: out, palette: Palette{Enabled: color}}
}

func (r *Renderer) Palette() Palette {
	return r.palette
}

// RenderBoard writes the grid. The selected piece is drawn in yellow and
// legal destinations are marked with highlightSymbol.
func (r *Renderer) RenderBoard(v View) {
	highlighted := make(map[core.Position]bool)
	for _, pos := range v.HighlightedDestinations() {
		highlighted[pos] = true
	}
	selected, hasSelection := v.Selected()

	header := r.columnHeader()
	fmt.Fprintln(r.out, header)

	for row := 0; row < core.BoardSize; row++ {
		var sb strings.Builder
		label := r.palette.Paint(Cyan, fmt.Sprintf("%d", row))
		sb.WriteString(label)
		sb.WriteByte(' ')

		for col := 0; col < core.BoardSize; col++ {
			pos := core.Position{Row: row, Col: col}
			sb.WriteString(r.cell(v, pos, hasSelection && pos == selected, highlighted[pos]))
			sb.WriteByte(' ')
		}

		sb.WriteByte(' ')
		sb.WriteString(label)
		fmt.Fprintln(r.out, sb.String())
	}

	fmt.Fprintln(r.out, header)
}

func (r *Renderer) columnHeader() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for col := 0; col < core.BoardSize; col++ {
		if col > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%d", col))
	}
	return r.palette.Paint(Cyan, sb.String())
}

func (r *Renderer) cell(v View, pos core.Position, selected, highlighted bool) string {
	piece, ok := v.PieceAt(pos)
	switch {
	case ok && selected:
		return r.palette.Paint(Yellow, string(piece.Symbol()))
	case ok:
		return r.palette.Paint(pieceColor(piece.Owner), string(piece.Symbol()))
	case highlighted:
		return r.palette.Paint(Green, highlightSymbol)
	default:
		return emptySymbol
	}
}

func pieceColor(c core.Color) string {
	if c == core.ColorWhite {
		return Blue
	}
	return Red
}

// ColorForTurn returns colored turn indicator
func (p Palette) ColorForTurn(c core.Color) string {
	return p.Paint(pieceColor(c), c.Name())
}

// RenderStatus writes a one-line summary of whose turn it is and what is selected
func (r *Renderer) RenderStatus(v View) {
	line := fmt.Sprintf("%s to move", r.palette.ColorForTurn(v.CurrentPlayer()))
	if pos, ok := v.Selected(); ok {
		dests := v.HighlightedDestinations()
		parts := make([]string, 0, len(dests))
		for _, d := range dests {
			parts = append(parts, d.String())
		}
		line += fmt.Sprintf(", selected %s", pos)
		if len(parts) > 0 {
			line += " -> " + strings.Join(parts, " ")
		}
	}
	fmt.Fprintln(r.out, line)
}

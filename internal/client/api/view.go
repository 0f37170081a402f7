package api

import (
	"fmt"

	"checkers/internal/board"
	"checkers/internal/core"
)

// Snapshot is a read-only view of a server game decoded from its response
type Snapshot struct {
	board       *board.Board
	turn        core.Color
	selected    *core.Position
	highlighted []core.Position
	moves       []string
}

// NewSnapshot rebuilds the board from the layout carried by resp
func NewSnapshot(resp *core.GameResponse) (*Snapshot, error) {
	b, turn, err := board.ParseLayout(resp.Layout)
	if err != nil {
		return nil, fmt.Errorf("server sent bad layout: %w", err)
	}
	return &Snapshot{
		board:       b,
		turn:        turn,
		selected:    resp.Selected,
		highlighted: resp.Highlighted,
		moves:       resp.Moves,
	}, nil
}

func (s *Snapshot) CurrentPlayer() core.Color {
	return s.turn
}

func (s *Snapshot) PieceAt(pos core.Position) (core.Piece, bool) {
	p, err := s.board.PieceAt(pos)
	if err != nil || p == nil {
		return core.Piece{}, false
	}
	return *p, true
}

func (s *Snapshot) Selected() (core.Position, bool) {
	if s.selected == nil {
		return core.Position{}, false
	}
	return *s.selected, true
}

func (s *Snapshot) HighlightedDestinations() []core.Position {
	return s.highlighted
}

func (s *Snapshot) MoveCount() int {
	return len(s.moves)
}

// FILE: internal/game/game.go
package game

import (
	"errors"
	"fmt"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/movegen"
)

var (
	ErrNoPiece       = errors.New("no piece at origin")
	ErrInvalidUndo   = errors.New("invalid undo count")
	ErrNothingToUndo = errors.New("not enough moves to undo")
)

type Snapshot struct {
	Layout       string     `json:"layout"`                 // Board state at this point
	PreviousMove *core.Move `json:"previousMove,omitempty"` // Move that created this position (nil for initial)
	NextTurn     core.Color `json:"nextTurn"`               // Whose turn it is at this position

	board *board.Board // restored on undo; never shared with the live board
}

// MoveResult tracks the outcome of an executed move
type MoveResult struct {
	Move        core.Move  `json:"move"`
	PlayerColor core.Color `json:"playerColor"`
	Promoted    bool       `json:"promoted"`
}

// Result reports what a single activation did. Move is set only for
// OutcomeMoved.
type Result struct {
	Outcome core.Outcome
	Move    *MoveResult
}

// Machine owns the board and the turn/selection state of one game.
// It is not safe for concurrent use.
type Machine struct {
	board      *board.Board
	turn       core.Color
	selected   *core.Position
	legal      []core.Move
	snapshots  []Snapshot
	lastResult *MoveResult
}

// New starts a game from the standard placement with Black to move
func New() *Machine {
	m, _ := NewFromLayout(board.StartingLayout)
	return m
}

// NewFromLayout starts a game from an encoded position
func NewFromLayout(layout string) (*Machine, error) {
	b, turn, err := board.ParseLayout(layout)
	if err != nil {
		return nil, err
	}
	return NewWithBoard(b, turn), nil
}

// NewWithBoard starts a game from an already built board. The machine takes
// ownership of b.
func NewWithBoard(b *board.Board, turn core.Color) *Machine {
	return &Machine{
		board: b,
		turn:  turn,
		snapshots: []Snapshot{
			{Layout: b.Layout(turn), NextTurn: turn, board: b.Clone()},
		},
	}
}

// Activate is the single input entry point. In Idle, an own piece at pos
// becomes selected and anything else is ignored. In Selected, a legal
// destination executes that move and anything else cancels the selection.
func (m *Machine) Activate(pos core.Position) Result {
	if m.selected == nil {
		return m.selectAt(pos)
	}

	for _, mv := range m.legal {
		if mv.To != pos {
			continue
		}
		res, err := m.ApplyMove(mv)
		if err != nil {
			m.clearSelection()
			return Result{Outcome: core.OutcomeDeselected}
		}
		return Result{Outcome: core.OutcomeMoved, Move: res}
	}

	m.clearSelection()
	return Result{Outcome: core.OutcomeDeselected}
}

func (m *Machine) selectAt(pos core.Position) Result {
	p, err := m.board.PieceAt(pos)
	if err != nil || p == nil || p.Owner != m.turn {
		return Result{Outcome: core.OutcomeIgnored}
	}

	sel := pos
	m.selected = &sel
	m.legal = movegen.LegalMovesFor(m.board, pos, m.turn)
	return Result{Outcome: core.OutcomeSelected}
}

// ApplyMove executes move without checking game legality: relocate, remove
// the piece at the move's own captured position, promote, flip the turn and
// clear the selection.
func (m *Machine) ApplyMove(move core.Move) (*MoveResult, error) {
	piece, err := m.board.PieceAt(move.From)
	if err != nil {
		return nil, err
	}
	if piece == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPiece, move.From)
	}
	if !move.To.InBounds() {
		return nil, fmt.Errorf("%w: %s", board.ErrOutOfBounds, move.To)
	}
	if move.Captured != nil && !move.Captured.InBounds() {
		return nil, fmt.Errorf("%w: %s", board.ErrOutOfBounds, *move.Captured)
	}

	// Bounds are checked above, board errors cannot occur past this point
	_ = m.board.MovePieceTo(move.From, move.To)
	if move.Captured != nil {
		_ = m.board.RemovePiece(*move.Captured)
	}

	promoted := false
	if piece.Rank == core.RankMan && move.To.Row == piece.Owner.PromotionRow() {
		piece.Rank = core.RankKing
		promoted = true
	}

	result := &MoveResult{
		Move:        move,
		PlayerColor: m.turn,
		Promoted:    promoted,
	}

	m.turn = core.OppositeColor(m.turn)
	m.clearSelection()

	recorded := move
	m.snapshots = append(m.snapshots, Snapshot{
		Layout:       m.board.Layout(m.turn),
		PreviousMove: &recorded,
		NextTurn:     m.turn,
		board:        m.board.Clone(),
	})
	m.lastResult = result

	return result, nil
}

func (m *Machine) clearSelection() {
	m.selected = nil
	m.legal = nil
}

func (m *Machine) CurrentPlayer() core.Color {
	return m.turn
}

func (m *Machine) Phase() core.Phase {
	if m.selected == nil {
		return core.PhaseIdle
	}
	return core.PhaseSelected
}

// PieceAt returns a copy of the piece at pos; false for empty or out of bounds
func (m *Machine) PieceAt(pos core.Position) (core.Piece, bool) {
	p, err := m.board.PieceAt(pos)
	if err != nil || p == nil {
		return core.Piece{}, false
	}
	return *p, true
}

func (m *Machine) Selected() (core.Position, bool) {
	if m.selected == nil {
		return core.Position{}, false
	}
	return *m.selected, true
}

// LegalMoves returns the moves of the selected piece; empty when idle
func (m *Machine) LegalMoves() []core.Move {
	out := make([]core.Move, len(m.legal))
	copy(out, m.legal)
	return out
}

// HighlightedDestinations returns the destinations of the active legal moves
func (m *Machine) HighlightedDestinations() []core.Position {
	out := make([]core.Position, 0, len(m.legal))
	for _, mv := range m.legal {
		out = append(out, mv.To)
	}
	return out
}

// Board returns a copy of the current board
func (m *Machine) Board() *board.Board {
	return m.board.Clone()
}

func (m *Machine) Layout() string {
	return m.board.Layout(m.turn)
}

func (m *Machine) LastResult() *MoveResult {
	return m.lastResult
}

// CurrentSnapshot returns the latest game snapshot
func (m *Machine) CurrentSnapshot() Snapshot {
	return m.snapshots[len(m.snapshots)-1]
}

func (m *Machine) InitialLayout() string {
	return m.snapshots[0].Layout
}

// Moves returns executed moves in order
func (m *Machine) Moves() []core.Move {
	moves := make([]core.Move, 0, len(m.snapshots)-1)
	for i := 1; i < len(m.snapshots); i++ {
		if mv := m.snapshots[i].PreviousMove; mv != nil {
			moves = append(moves, *mv)
		}
	}
	return moves
}

// MoveCount is the number of executed moves still in history
func (m *Machine) MoveCount() int {
	return len(m.snapshots) - 1
}

// UndoMoves reverts the last count moves and clears the selection
func (m *Machine) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidUndo, count)
	}

	available := len(m.snapshots) - 1
	if available < count {
		return fmt.Errorf("%w: cannot undo %d moves, only %d available", ErrNothingToUndo, count, available)
	}

	target := m.snapshots[len(m.snapshots)-1-count]
	m.snapshots = m.snapshots[:len(m.snapshots)-count]
	m.board = target.board.Clone()
	m.turn = target.NextTurn
	m.lastResult = nil
	m.clearSelection()
	return nil
}

// Reset returns the game to its initial position and drops all history
func (m *Machine) Reset() {
	initial := m.snapshots[0]
	m.snapshots = m.snapshots[:1]
	m.board = initial.board.Clone()
	m.turn = initial.NextTurn
	m.clearSelection()
	m.lastResult = nil
}

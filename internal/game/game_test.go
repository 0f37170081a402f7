package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkers/internal/board"
	"checkers/internal/core"
)

func pos(r, c int) core.Position {
	return core.Position{Row: r, Col: c}
}

func mustMachine(t *testing.T, layout string) *Machine {
	t.Helper()
	m, err := NewFromLayout(layout)
	require.NoError(t, err)
	return m
}

func TestInitialState(t *testing.T) {
	m := New()

	assert.Equal(t, core.ColorBlack, m.CurrentPlayer())
	assert.Equal(t, core.PhaseIdle, m.Phase())
	assert.Empty(t, m.HighlightedDestinations())
	assert.Empty(t, m.LegalMoves())
	assert.Equal(t, board.StartingLayout, m.Layout())
	assert.Equal(t, 0, m.MoveCount())

	for r := 3; r <= 4; r++ {
		for c := 0; c < core.BoardSize; c++ {
			_, ok := m.PieceAt(pos(r, c))
			assert.False(t, ok, "row %d must start empty", r)
		}
	}
}

func TestSelectAndSimpleMove(t *testing.T) {
	m := New()

	res := m.Activate(pos(2, 1))
	assert.Equal(t, core.OutcomeSelected, res.Outcome)
	assert.Equal(t, core.PhaseSelected, m.Phase())

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, pos(2, 1), sel)
	assert.ElementsMatch(t, []core.Position{pos(3, 0), pos(3, 2)}, m.HighlightedDestinations())
	for _, mv := range m.LegalMoves() {
		assert.False(t, mv.IsCapture())
	}

	res = m.Activate(pos(3, 0))
	require.Equal(t, core.OutcomeMoved, res.Outcome)
	require.NotNil(t, res.Move)
	assert.Equal(t, core.ColorBlack, res.Move.PlayerColor)

	p, ok := m.PieceAt(pos(3, 0))
	require.True(t, ok)
	assert.Equal(t, core.ColorBlack, p.Owner)
	_, ok = m.PieceAt(pos(2, 1))
	assert.False(t, ok)

	assert.Equal(t, core.ColorWhite, m.CurrentPlayer())
	assert.Equal(t, core.PhaseIdle, m.Phase())
	assert.Empty(t, m.HighlightedDestinations())
	assert.Equal(t, 1, m.MoveCount())
}

func TestCaptureRemovesJumpedPiece(t *testing.T) {
	b := board.New()
	require.NoError(t, b.PlacePiece(core.Piece{Owner: core.ColorWhite, Rank: core.RankMan}, pos(4, 3)))
	require.NoError(t, b.PlacePiece(core.Piece{Owner: core.ColorBlack, Rank: core.RankMan}, pos(3, 2)))
	m := NewWithBoard(b, core.ColorBlack)

	m.Activate(pos(3, 2))
	var capture *core.Move
	for _, mv := range m.LegalMoves() {
		if mv.To == pos(5, 4) {
			mv := mv
			capture = &mv
		}
	}
	require.NotNil(t, capture, "expected capture to (5,4)")
	require.NotNil(t, capture.Captured)
	assert.Equal(t, pos(4, 3), *capture.Captured)

	victim, ok := m.PieceAt(pos(4, 3))
	require.True(t, ok)
	assert.Equal(t, core.ColorWhite, victim.Owner)

	res := m.Activate(pos(5, 4))
	require.Equal(t, core.OutcomeMoved, res.Outcome)

	_, ok = m.PieceAt(pos(4, 3))
	assert.False(t, ok, "captured piece must be removed")
	p, ok := m.PieceAt(pos(5, 4))
	require.True(t, ok)
	assert.Equal(t, core.ColorBlack, p.Owner)
	assert.Equal(t, core.ColorWhite, m.CurrentPlayer())
}

func TestCaptureUsesChosenMove(t *testing.T) {
	// Black at (2,3) may jump either White at (3,2) or White at (3,4)
	m := mustMachine(t, "8/8/3b4/2w1w3/8/8/8/8 b")

	m.Activate(pos(2, 3))
	require.Len(t, m.LegalMoves(), 2)

	res := m.Activate(pos(4, 5))
	require.Equal(t, core.OutcomeMoved, res.Outcome)
	require.NotNil(t, res.Move.Move.Captured)
	assert.Equal(t, pos(3, 4), *res.Move.Move.Captured)

	_, ok := m.PieceAt(pos(3, 4))
	assert.False(t, ok, "jumped piece must be removed")
	_, ok = m.PieceAt(pos(3, 2))
	assert.True(t, ok, "the other white piece must stay")
}

func TestSimpleMoveNeverCaptures(t *testing.T) {
	// Capture is generated first but a simple step is chosen
	m := mustMachine(t, "8/8/3b4/2w5/8/8/8/8 b")

	m.Activate(pos(2, 3))
	res := m.Activate(pos(3, 4))
	require.Equal(t, core.OutcomeMoved, res.Outcome)

	_, ok := m.PieceAt(pos(3, 2))
	assert.True(t, ok)
	assert.Equal(t, 1, m.Board().Count(core.ColorWhite))
}

func TestIdleActivationsAreNoOps(t *testing.T) {
	tests := []struct {
		name string
		at   core.Position
	}{
		{name: "light square", at: pos(0, 0)},
		{name: "empty dark square", at: pos(3, 0)},
		{name: "opponent piece", at: pos(5, 0)},
		{name: "out of bounds", at: pos(8, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			res := m.Activate(tt.at)

			assert.Equal(t, core.OutcomeIgnored, res.Outcome)
			assert.Equal(t, core.PhaseIdle, m.Phase())
			_, ok := m.Selected()
			assert.False(t, ok)
			assert.Empty(t, m.LegalMoves())
			assert.Equal(t, core.ColorBlack, m.CurrentPlayer())
			assert.Equal(t, board.StartingLayout, m.Layout())
		})
	}
}

func TestNonLegalDestinationDeselects(t *testing.T) {
	tests := []struct {
		name string
		at   core.Position
	}{
		{name: "empty unreachable", at: pos(4, 1)},
		{name: "another own piece", at: pos(2, 3)},
		{name: "same piece", at: pos(2, 1)},
		{name: "out of bounds", at: pos(-1, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.Activate(pos(2, 1))
			require.Equal(t, core.PhaseSelected, m.Phase())

			res := m.Activate(tt.at)

			assert.Equal(t, core.OutcomeDeselected, res.Outcome)
			assert.Equal(t, core.PhaseIdle, m.Phase())
			assert.Empty(t, m.HighlightedDestinations())
			assert.Equal(t, core.ColorBlack, m.CurrentPlayer())
			assert.Equal(t, board.StartingLayout, m.Layout())
		})
	}
}

func TestSelectionWithNoMovesStillSelects(t *testing.T) {
	m := New()
	res := m.Activate(pos(0, 1))

	assert.Equal(t, core.OutcomeSelected, res.Outcome)
	assert.Empty(t, m.LegalMoves())

	res = m.Activate(pos(1, 0))
	assert.Equal(t, core.OutcomeDeselected, res.Outcome)
}

func TestLegalMovesRecomputedPerSelection(t *testing.T) {
	m := New()
	m.Activate(pos(2, 1))
	first := m.HighlightedDestinations()
	m.Activate(pos(7, 7))

	m.Activate(pos(2, 7))
	assert.Equal(t, []core.Position{pos(3, 6)}, m.HighlightedDestinations())
	assert.NotEqual(t, first, m.HighlightedDestinations())
}

func TestPromotion(t *testing.T) {
	t.Run("black man reaches row 7", func(t *testing.T) {
		m := mustMachine(t, "8/8/8/8/8/8/3b4/8 b")
		m.Activate(pos(6, 3))
		res := m.Activate(pos(7, 4))

		require.Equal(t, core.OutcomeMoved, res.Outcome)
		assert.True(t, res.Move.Promoted)
		p, _ := m.PieceAt(pos(7, 4))
		assert.Equal(t, core.RankKing, p.Rank)
	})

	t.Run("white man reaches row 0 by capture", func(t *testing.T) {
		m := mustMachine(t, "8/4b3/5w2/8/8/8/8/8 w")
		m.Activate(pos(2, 5))
		res := m.Activate(pos(0, 3))

		require.Equal(t, core.OutcomeMoved, res.Outcome)
		assert.True(t, res.Move.Promoted)
		p, _ := m.PieceAt(pos(0, 3))
		assert.Equal(t, core.Piece{Owner: core.ColorWhite, Rank: core.RankKing}, p)
		assert.Equal(t, 0, m.Board().Count(core.ColorBlack))
	})

	t.Run("man elsewhere stays a man", func(t *testing.T) {
		m := New()
		m.Activate(pos(2, 1))
		res := m.Activate(pos(3, 2))

		assert.False(t, res.Move.Promoted)
		p, _ := m.PieceAt(pos(3, 2))
		assert.Equal(t, core.RankMan, p.Rank)
	})

	t.Run("king landing elsewhere keeps rank", func(t *testing.T) {
		m := mustMachine(t, "8/8/8/2B5/8/8/8/8 b")
		m.Activate(pos(3, 2))
		res := m.Activate(pos(4, 3))

		assert.False(t, res.Move.Promoted)
		p, _ := m.PieceAt(pos(4, 3))
		assert.Equal(t, core.RankKing, p.Rank)
	})
}

func TestTurnAlternatesOverSeveralMoves(t *testing.T) {
	m := New()
	script := []struct {
		from, to core.Position
		mover    core.Color
	}{
		{pos(2, 1), pos(3, 2), core.ColorBlack},
		{pos(5, 4), pos(4, 3), core.ColorWhite},
		{pos(3, 2), pos(5, 4), core.ColorBlack}, // jumps (4,3)
		{pos(6, 5), pos(4, 3), core.ColorWhite}, // jumps (5,4)
	}

	for i, step := range script {
		require.Equal(t, step.mover, m.CurrentPlayer(), "step %d", i)
		require.Equal(t, core.OutcomeSelected, m.Activate(step.from).Outcome, "step %d select", i)
		require.Equal(t, core.OutcomeMoved, m.Activate(step.to).Outcome, "step %d move", i)
		require.Equal(t, core.OppositeColor(step.mover), m.CurrentPlayer(), "step %d turn", i)
	}

	assert.Len(t, m.Moves(), 4)
	assert.Equal(t, 11, m.Board().Count(core.ColorBlack))
	assert.Equal(t, 11, m.Board().Count(core.ColorWhite))
}

func TestApplyMoveRejectsBadInput(t *testing.T) {
	m := New()

	_, err := m.ApplyMove(core.Move{From: pos(3, 0), To: pos(4, 1)})
	assert.ErrorIs(t, err, ErrNoPiece)

	_, err = m.ApplyMove(core.Move{From: pos(2, 1), To: pos(8, 0)})
	assert.ErrorIs(t, err, board.ErrOutOfBounds)

	assert.Equal(t, board.StartingLayout, m.Layout(), "rejected moves must not mutate the board")
}

func TestUndoAndReset(t *testing.T) {
	m := New()
	m.Activate(pos(2, 1))
	m.Activate(pos(3, 0))
	afterFirst := m.Layout()
	m.Activate(pos(5, 2))
	m.Activate(pos(4, 1))
	require.Equal(t, 2, m.MoveCount())

	require.NoError(t, m.UndoMoves(1))
	assert.Equal(t, afterFirst, m.Layout())
	assert.Equal(t, core.ColorWhite, m.CurrentPlayer())
	assert.Nil(t, m.LastResult())

	assert.ErrorIs(t, m.UndoMoves(0), ErrInvalidUndo)
	assert.ErrorIs(t, m.UndoMoves(5), ErrNothingToUndo)

	m.Activate(pos(5, 2))
	m.Reset()
	assert.Equal(t, board.StartingLayout, m.Layout())
	assert.Equal(t, core.PhaseIdle, m.Phase())
	assert.Equal(t, 0, m.MoveCount())
}

func TestUndoClearsSelection(t *testing.T) {
	m := New()
	m.Activate(pos(2, 1))
	m.Activate(pos(3, 0))
	m.Activate(pos(5, 2))
	require.Equal(t, core.PhaseSelected, m.Phase())

	require.NoError(t, m.UndoMoves(1))
	assert.Equal(t, core.PhaseIdle, m.Phase())
	assert.Empty(t, m.LegalMoves())
}

func TestResetRestoresHandBuiltBoard(t *testing.T) {
	b := board.New()
	require.NoError(t, b.PlacePiece(core.Piece{Owner: core.ColorBlack, Rank: core.RankMan}, pos(2, 1)))
	// Light square; such a board has no layout string that parses back
	require.NoError(t, b.PlacePiece(core.Piece{Owner: core.ColorWhite, Rank: core.RankKing}, pos(0, 0)))

	m := NewWithBoard(b, core.ColorBlack)
	_, err := m.ApplyMove(core.Move{From: pos(2, 1), To: pos(3, 0)})
	require.NoError(t, err)
	require.NoError(t, m.UndoMoves(1))

	_, err = m.ApplyMove(core.Move{From: pos(2, 1), To: pos(3, 2)})
	require.NoError(t, err)
	m.Activate(pos(0, 0))
	m.Reset()

	assert.Equal(t, 0, m.MoveCount())
	assert.Equal(t, core.ColorBlack, m.CurrentPlayer())
	assert.Equal(t, core.PhaseIdle, m.Phase())

	p, ok := m.PieceAt(pos(2, 1))
	require.True(t, ok)
	assert.Equal(t, core.ColorBlack, p.Owner)
	p, ok = m.PieceAt(pos(0, 0))
	require.True(t, ok)
	assert.Equal(t, core.RankKing, p.Rank)
	_, ok = m.PieceAt(pos(3, 2))
	assert.False(t, ok)
}

func TestUndoDoesNotAliasSnapshots(t *testing.T) {
	m := New()
	m.Activate(pos(2, 1))
	m.Activate(pos(3, 0))
	require.NoError(t, m.UndoMoves(1))

	m.Activate(pos(2, 1))
	m.Activate(pos(3, 2))
	m.Reset()
	assert.Equal(t, board.StartingLayout, m.Layout())
}

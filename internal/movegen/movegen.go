// Package movegen computes the legal moves of a single piece.
package movegen

import (
	"checkers/internal/board"
	"checkers/internal/core"
)

var columnOffsets = [2]int{-1, 1}

// Directions returns the row steps a color's pieces may take. Kings use the
// same set as men.
func Directions(player core.Color) []int {
	return []int{player.Forward()}
}

// LegalMovesFor lists the simple moves and captures of the piece at pos, in
// generation order: for each direction and column offset, the step first and
// then the jump. Nothing is suppressed when a capture exists. The result is
// empty unless pos holds a piece owned by player.
func LegalMovesFor(b *board.Board, pos core.Position, player core.Color) []core.Move {
	origin, err := b.PieceAt(pos)
	if err != nil || origin == nil || origin.Owner != player {
		return nil
	}

	var moves []core.Move
	for _, d := range Directions(player) {
		for _, o := range columnOffsets {
			target := pos.Offset(d, o)
			if isEmpty(b, target) {
				moves = append(moves, core.Move{From: pos, To: target})
			}

			landing := pos.Offset(2*d, 2*o)
			if canCapture(b, target, landing, player) {
				captured := target
				moves = append(moves, core.Move{From: pos, To: landing, Captured: &captured})
			}
		}
	}
	return moves
}

// isEmpty treats out-of-bounds cells as unusable
func isEmpty(b *board.Board, pos core.Position) bool {
	p, err := b.PieceAt(pos)
	return err == nil && p == nil
}

func canCapture(b *board.Board, mid, landing core.Position, player core.Color) bool {
	if !isEmpty(b, landing) {
		return false
	}
	jumped, err := b.PieceAt(mid)
	if err != nil || jumped == nil {
		return false
	}
	return jumped.Owner != player
}

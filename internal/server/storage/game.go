// FILE: internal/server/storage/game.go
package storage

import (
	"database/sql"
	"fmt"

	"checkers/internal/core"
)

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) {
	s.enqueue("game record", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO games (game_id, initial_layout, start_time_utc) VALUES (?, ?, ?)`,
			record.GameID, record.InitialLayout, record.StartTimeUTC,
		)
		return err
	})
}

// RecordMove asynchronously records an executed move
func (s *Store) RecordMove(record MoveRecord) {
	s.enqueue("move record", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, from_row, from_col, to_row, to_col,
			captured_row, captured_col, promoted, layout_after_move, player_color, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber,
			record.FromRow, record.FromCol, record.ToRow, record.ToCol,
			record.CapturedRow, record.CapturedCol, record.Promoted,
			record.LayoutAfterMove, record.PlayerColor, record.MoveTimeUTC,
		)
		return err
	})
}

// DeleteUndoneMoves asynchronously deletes moves after an undo or reset
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) {
	s.enqueue("undo operation", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND move_number > ?`, gameID, afterMoveNumber)
		return err
	})
}

// DeleteGame asynchronously removes a game and its moves. Moves are deleted
// explicitly since foreign_keys is a per-connection pragma.
func (s *Store) DeleteGame(gameID string) {
	s.enqueue("game delete", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM moves WHERE game_id = ?`, gameID); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM games WHERE game_id = ?`, gameID)
		return err
	})
}

// QueryGames retrieves games, newest first. An empty or "*" gameID matches all.
func (s *Store) QueryGames(gameID string) ([]GameRecord, error) {
	query := `SELECT game_id, initial_layout, start_time_utc FROM games WHERE 1=1`

	var args []any
	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}
	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.GameID, &g.InitialLayout, &g.StartTimeUTC); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMoves retrieves the recorded moves of a game in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT
		move_id, game_id, move_number, from_row, from_col, to_row, to_col,
		captured_row, captured_col, promoted, layout_after_move, player_color, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber,
			&m.FromRow, &m.FromCol, &m.ToRow, &m.ToCol,
			&m.CapturedRow, &m.CapturedCol, &m.Promoted,
			&m.LayoutAfterMove, &m.PlayerColor, &m.MoveTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return moves, nil
}

// NewMoveRecord flattens an executed move into a row
func NewMoveRecord(gameID string, number int, move core.Move, player core.Color, promoted bool, layoutAfter string) MoveRecord {
	record := MoveRecord{
		GameID:          gameID,
		MoveNumber:      number,
		FromRow:         move.From.Row,
		FromCol:         move.From.Col,
		ToRow:           move.To.Row,
		ToCol:           move.To.Col,
		Promoted:        promoted,
		LayoutAfterMove: layoutAfter,
		PlayerColor:     player.String(),
	}
	if move.Captured != nil {
		record.CapturedRow = sql.NullInt64{Int64: int64(move.Captured.Row), Valid: true}
		record.CapturedCol = sql.NullInt64{Int64: int64(move.Captured.Col), Valid: true}
	}
	return record
}

// Move rebuilds the engine move from a row
func (m MoveRecord) Move() core.Move {
	mv := core.Move{
		From: core.Position{Row: m.FromRow, Col: m.FromCol},
		To:   core.Position{Row: m.ToRow, Col: m.ToCol},
	}
	if m.CapturedRow.Valid && m.CapturedCol.Valid {
		mv.Captured = &core.Position{Row: int(m.CapturedRow.Int64), Col: int(m.CapturedCol.Int64)}
	}
	return mv
}

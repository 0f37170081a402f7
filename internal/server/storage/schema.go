package storage

import (
	"database/sql"
	"time"
)

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID        string    `db:"game_id"`
	InitialLayout string    `db:"initial_layout"`
	StartTimeUTC  time.Time `db:"start_time_utc"`
}

// MoveRecord represents a row in the moves table. Captured cells are NULL
// for simple steps.
type MoveRecord struct {
	MoveID          int64         `db:"move_id"`
	GameID          string        `db:"game_id"`
	MoveNumber      int           `db:"move_number"`
	FromRow         int           `db:"from_row"`
	FromCol         int           `db:"from_col"`
	ToRow           int           `db:"to_row"`
	ToCol           int           `db:"to_col"`
	CapturedRow     sql.NullInt64 `db:"captured_row"`
	CapturedCol     sql.NullInt64 `db:"captured_col"`
	Promoted        bool          `db:"promoted"`
	LayoutAfterMove string        `db:"layout_after_move"`
	PlayerColor     string        `db:"player_color"`
	MoveTimeUTC     time.Time     `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_layout TEXT NOT NULL,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	from_row INTEGER NOT NULL CHECK(from_row BETWEEN 0 AND 7),
	from_col INTEGER NOT NULL CHECK(from_col BETWEEN 0 AND 7),
	to_row INTEGER NOT NULL CHECK(to_row BETWEEN 0 AND 7),
	to_col INTEGER NOT NULL CHECK(to_col BETWEEN 0 AND 7),
	captured_row INTEGER,
	captured_col INTEGER,
	promoted INTEGER NOT NULL DEFAULT 0,
	layout_after_move TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('b', 'w')),
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_start_time ON games(start_time_utc);
`

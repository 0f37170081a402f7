package storage

import (
	"encoding/hex"
	"fmt"
)

const seatSecretKey = "seat_secret"

// SeatSecret returns the seat token signing secret kept in the database.
// The first call on a fresh database stores candidate; later calls, including
// those after a restart, return that stored value and ignore candidate.
// Written synchronously; tokens signed before it is durable would not
// survive a restart.
func (s *Store) SeatSecret(candidate []byte) ([]byte, error) {
	if len(candidate) == 0 {
		return nil, fmt.Errorf("empty seat secret")
	}

	_, err := s.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		seatSecretKey, hex.EncodeToString(candidate))
	if err != nil {
		return nil, fmt.Errorf("store seat secret: %w", err)
	}

	var encoded string
	if err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, seatSecretKey).Scan(&encoded); err != nil {
		return nil, fmt.Errorf("load seat secret: %w", err)
	}

	secret, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode seat secret: %w", err)
	}
	return secret, nil
}

// FILE: internal/server/service/game.go
package service

import (
	"fmt"
	"time"

	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/server/storage"

	"github.com/google/uuid"
)

// CreateGame registers a new game starting from layout and returns its ID
func (s *Service) CreateGame(layout string) (string, error) {
	m, err := game.NewFromLayout(layout)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.games) >= MaxGames {
		return "", ErrGameLimit
	}

	id := uuid.New().String()
	for s.games[id] != nil {
		id = uuid.New().String()
	}
	s.games[id] = m

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:        id,
			InitialLayout: m.InitialLayout(),
			StartTimeUTC:  time.Now().UTC(),
		})
	}

	return id, nil
}

// View runs fn against a game under the read lock. fn must not retain m.
func (s *Service) View(gameID string, fn func(m *game.Machine) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return fn(m)
}

// MoveCount returns the number of executed moves in a game
func (s *Service) MoveCount(gameID string) (int, error) {
	var n int
	err := s.View(gameID, func(m *game.Machine) error {
		n = m.MoveCount()
		return nil
	})
	return n, err
}

// Activate feeds a coordinate to the game on behalf of seat. Only the
// current player's seat may activate.
func (s *Service) Activate(gameID string, seat core.Color, pos core.Position) (game.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.games[gameID]
	if !ok {
		return game.Result{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if seat != m.CurrentPlayer() {
		return game.Result{}, fmt.Errorf("%w: %s to move", ErrNotYourTurn, m.CurrentPlayer().Name())
	}

	res := m.Activate(pos)
	if res.Outcome != core.OutcomeMoved {
		return res, nil
	}

	count := m.MoveCount()
	s.waiter.NotifyGame(gameID, count)

	if s.store != nil {
		record := storage.NewMoveRecord(gameID, count, res.Move.Move, res.Move.PlayerColor, res.Move.Promoted, m.Layout())
		record.MoveTimeUTC = time.Now().UTC()
		s.store.RecordMove(record)
	}

	return res, nil
}

// UndoMoves removes the specified number of moves from game history
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	if err := m.UndoMoves(count); err != nil {
		return err
	}
	s.afterRewind(gameID, m.MoveCount())
	return nil
}

// ResetGame returns a game to its initial layout
func (s *Service) ResetGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	hadMoves := m.MoveCount() > 0
	m.Reset()
	if hadMoves {
		s.afterRewind(gameID, 0)
	}
	return nil
}

// afterRewind notifies waiters and trims persisted moves; caller holds the lock
func (s *Service) afterRewind(gameID string, remaining int) {
	s.waiter.NotifyGame(gameID, remaining)
	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, remaining)
	}
}

// DeleteGame removes a game from memory and storage
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)
	if s.store != nil {
		s.store.DeleteGame(gameID)
	}
	return nil
}

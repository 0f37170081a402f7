package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"checkers/internal/game"
	"checkers/internal/server/storage"
)

const (
	MaxGames = 1000
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameLimit    = errors.New("game limit reached")
	ErrNotYourTurn  = errors.New("not your turn")
)

// Service owns every live game and serializes access to them. Machines are
// never handed out; callers read them through View.
type Service struct {
	games     map[string]*game.Machine
	mu        sync.RWMutex
	store     *storage.Store // nil if persistence disabled
	jwtSecret []byte
	waiter    *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store, jwtSecret []byte) *Service {
	return &Service{
		games:     make(map[string]*game.Machine),
		store:     store,
		jwtSecret: jwtSecret,
		waiter:    NewWaitRegistry(),
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// GameCount returns the number of live games
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// RegisterWait registers a client to wait for the move count of a game to
// change. The returned channel has already fired when moveCount is stale or
// the game is gone. Registration holds the read lock, so a move cannot land
// between the check and the registration.
func (s *Service) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m, ok := s.games[gameID]; !ok || m.MoveCount() != moveCount {
		fired := make(chan struct{}, 1)
		fired <- struct{}{}
		return fired
	}
	return s.waiter.RegisterWait(ctx, gameID, moveCount)
}

// RestoreGames rebuilds live games from storage by replaying recorded moves
func (s *Service) RestoreGames() (int, error) {
	if s.store == nil {
		return 0, nil
	}

	records, err := s.store.QueryGames("*")
	if err != nil {
		return 0, fmt.Errorf("load games: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restored := 0
	for _, rec := range records {
		m, err := game.NewFromLayout(rec.InitialLayout)
		if err != nil {
			log.Printf("restore: skipping game %s: %v", rec.GameID, err)
			continue
		}

		moves, err := s.store.QueryMoves(rec.GameID)
		if err != nil {
			return restored, fmt.Errorf("load moves for %s: %w", rec.GameID, err)
		}

		replayed := true
		for _, mv := range moves {
			if _, err := m.ApplyMove(mv.Move()); err != nil {
				log.Printf("restore: game %s stopped at move %d: %v", rec.GameID, mv.MoveNumber, err)
				replayed = false
				break
			}
		}
		if !replayed {
			continue
		}

		s.games[rec.GameID] = m
		restored++
	}

	return restored, nil
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Machine)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}

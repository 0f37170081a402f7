package service

import (
	"errors"
	"fmt"
	"time"

	"checkers/internal/core"

	"github.com/lixenwraith/auth"
)

const SeatTokenTTL = 7 * 24 * time.Hour

var ErrInvalidSeat = errors.New("invalid seat token")

// IssueSeatTokens creates one token per color for a game. The token subject
// is the game ID and the color travels as a claim.
func (s *Service) IssueSeatTokens(gameID string) (black, white string, err error) {
	black, err = auth.GenerateHS256Token(s.jwtSecret, gameID, map[string]any{"color": core.ColorBlack.String()}, SeatTokenTTL)
	if err != nil {
		return "", "", fmt.Errorf("black seat: %w", err)
	}
	white, err = auth.GenerateHS256Token(s.jwtSecret, gameID, map[string]any{"color": core.ColorWhite.String()}, SeatTokenTTL)
	if err != nil {
		return "", "", fmt.Errorf("white seat: %w", err)
	}
	return black, white, nil
}

// ValidateSeat returns the color a token grants in gameID
func (s *Service) ValidateSeat(gameID, token string) (core.Color, error) {
	subject, claims, err := auth.ValidateHS256Token(s.jwtSecret, token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSeat, err)
	}
	if subject != gameID {
		return 0, fmt.Errorf("%w: token is for another game", ErrInvalidSeat)
	}

	color, _ := claims["color"].(string)
	switch color {
	case "b":
		return core.ColorBlack, nil
	case "w":
		return core.ColorWhite, nil
	default:
		return 0, fmt.Errorf("%w: missing color claim", ErrInvalidSeat)
	}
}

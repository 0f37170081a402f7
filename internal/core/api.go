// FILE: internal/core/api.go
package core

// Request types

type CreateGameRequest struct {
	Layout string `json:"layout,omitempty" validate:"omitempty,max=90"`
}

type ActivateRequest struct {
	Row *int `json:"row" validate:"required,min=0,max=7"`
	Col *int `json:"col" validate:"required,min=0,max=7"`
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=500"`
}

// Response types

type GameResponse struct {
	GameID      string         `json:"gameId"`
	Layout      string         `json:"layout"`
	Turn        string         `json:"turn"`  // "b" or "w"
	Phase       string         `json:"phase"` // "idle" or "selected"
	Selected    *Position      `json:"selected,omitempty"`
	Highlighted []Position     `json:"highlighted"`
	Moves       []string       `json:"moves"`
	Pieces      PiecesResponse `json:"pieces"`
	LastMove    *MoveInfo      `json:"lastMove,omitempty"`
	Outcome     string         `json:"outcome,omitempty"` // Set on activate responses
}

type PiecesResponse struct {
	Black int `json:"black"`
	White int `json:"white"`
}

type MoveInfo struct {
	Move        string    `json:"move"`
	From        Position  `json:"from"`
	To          Position  `json:"to"`
	Captured    *Position `json:"captured,omitempty"`
	PlayerColor string    `json:"playerColor"` // "b" or "w"
	Promoted    bool      `json:"promoted,omitempty"`
}

// CreateGameResponse carries the one-time seat tokens alongside the game
type CreateGameResponse struct {
	GameResponse
	Seats SeatsResponse `json:"seats"`
}

type SeatsResponse struct {
	Black string `json:"black"`
	White string `json:"white"`
}

type BoardResponse struct {
	Layout string `json:"layout"`
	Board  string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

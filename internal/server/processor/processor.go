// FILE: internal/server/processor/processor.go
package processor

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"unicode"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/server/service"
)

// Layout validation regex, full structure is checked by board.ParseLayout
var layoutPattern = regexp.MustCompile(`^[bBwW1-8/]+ [bw]$`)

// Processor validates commands and turns service results into API responses
type Processor struct {
	svc *service.Service
}

func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdActivate:
		return p.handleActivate(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdResetGame:
		return p.handleResetGame(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// isLayoutSafe rejects control characters and anything outside the layout alphabet
func isLayoutSafe(layout string) bool {
	for _, r := range layout {
		if unicode.IsControl(r) {
			return false
		}
	}
	return layoutPattern.MatchString(layout)
}

// handleCreateGame creates a game and issues its seat tokens
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	layout := board.StartingLayout
	if args.Layout != "" {
		if !isLayoutSafe(args.Layout) {
			return p.errorResponse("invalid layout format or characters", core.ErrInvalidLayout)
		}
		layout = args.Layout
	}

	gameID, err := p.svc.CreateGame(layout)
	if err != nil {
		if errors.Is(err, board.ErrInvalidLayout) {
			return p.errorResponse(err.Error(), core.ErrInvalidLayout)
		}
		if errors.Is(err, service.ErrGameLimit) {
			return p.errorResponse(err.Error(), core.ErrInvalidRequest)
		}
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	black, white, err := p.svc.IssueSeatTokens(gameID)
	if err != nil {
		log.Printf("Seat token error for game %s: %v", gameID, err)
		p.svc.DeleteGame(gameID)
		return p.errorResponse("failed to issue seat tokens", core.ErrInternalError)
	}

	resp, errResp := p.gameResponse(gameID)
	if errResp != nil {
		return *errResp
	}

	return ProcessorResponse{
		Success: true,
		Data: core.CreateGameResponse{
			GameResponse: resp,
			Seats:        core.SeatsResponse{Black: black, White: white},
		},
	}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	resp, errResp := p.gameResponse(cmd.GameID)
	if errResp != nil {
		return *errResp
	}
	return ProcessorResponse{Success: true, Data: resp}
}

// handleActivate forwards a coordinate from the seat holding the token
func (p *Processor) handleActivate(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ActivateRequest)
	if !ok || args.Row == nil || args.Col == nil {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	if _, err := p.svc.MoveCount(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	if cmd.SeatToken == "" {
		return p.errorResponse("missing seat token", core.ErrUnauthorized)
	}
	seat, err := p.svc.ValidateSeat(cmd.GameID, cmd.SeatToken)
	if err != nil {
		return p.errorResponse("invalid seat token", core.ErrUnauthorized)
	}

	res, err := p.svc.Activate(cmd.GameID, seat, core.Position{Row: *args.Row, Col: *args.Col})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotYourTurn):
			return p.errorResponse(err.Error(), core.ErrNotYourTurn)
		case errors.Is(err, service.ErrGameNotFound):
			return p.errorResponse("game not found", core.ErrGameNotFound)
		default:
			return p.errorResponse(err.Error(), core.ErrInternalError)
		}
	}

	resp, errResp := p.gameResponse(cmd.GameID)
	if errResp != nil {
		return *errResp
	}
	resp.Outcome = res.Outcome.String()
	if res.Move != nil {
		resp.LastMove = moveInfo(res.Move)
	}

	return ProcessorResponse{Success: true, Data: resp}
}

func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	args := core.UndoRequest{Count: 1}
	if req, ok := cmd.Args.(core.UndoRequest); ok && req.Count > 0 {
		args = req
	}

	if err := p.svc.UndoMoves(cmd.GameID, args.Count); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return p.errorResponse("game not found", core.ErrGameNotFound)
		}
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	return p.handleGetGame(cmd)
}

func (p *Processor) handleResetGame(cmd Command) ProcessorResponse {
	if err := p.svc.ResetGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	return p.handleGetGame(cmd)
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	return ProcessorResponse{Success: true}
}

// handleGetBoard returns board visualization
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	var resp core.BoardResponse
	err := p.svc.View(cmd.GameID, func(m *game.Machine) error {
		resp.Layout = m.Layout()
		resp.Board = m.Board().ToASCII()
		return nil
	})
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{Success: true, Data: resp}
}

// gameResponse snapshots a game under the service read lock
func (p *Processor) gameResponse(gameID string) (core.GameResponse, *ProcessorResponse) {
	var resp core.GameResponse
	err := p.svc.View(gameID, func(m *game.Machine) error {
		resp = buildGameResponse(gameID, m)
		return nil
	})
	if err != nil {
		errResp := p.errorResponse("game not found", core.ErrGameNotFound)
		return resp, &errResp
	}
	return resp, nil
}

// buildGameResponse constructs standard game response
func buildGameResponse(gameID string, m *game.Machine) core.GameResponse {
	b := m.Board()
	resp := core.GameResponse{
		GameID:      gameID,
		Layout:      m.Layout(),
		Turn:        m.CurrentPlayer().String(),
		Phase:       m.Phase().String(),
		Highlighted: m.HighlightedDestinations(),
		Moves:       []string{},
		Pieces: core.PiecesResponse{
			Black: b.Count(core.ColorBlack),
			White: b.Count(core.ColorWhite),
		},
	}

	if sel, ok := m.Selected(); ok {
		resp.Selected = &sel
	}
	for _, mv := range m.Moves() {
		resp.Moves = append(resp.Moves, mv.String())
	}
	if result := m.LastResult(); result != nil {
		resp.LastMove = moveInfo(result)
	}

	return resp
}

func moveInfo(result *game.MoveResult) *core.MoveInfo {
	return &core.MoveInfo{
		Move:        result.Move.String(),
		From:        result.Move.From,
		To:          result.Move.To,
		Captured:    result.Move.Captured,
		PlayerColor: result.PlayerColor.String(),
		Promoted:    result.Promoted,
	}
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

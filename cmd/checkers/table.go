package main

import (
	"fmt"

	"checkers/internal/client/api"
	"checkers/internal/client/display"
	"checkers/internal/core"
	"checkers/internal/game"
)

// activation is what one square input did, independent of where the game lives
type activation struct {
	Outcome  string
	Player   core.Color
	Move     string
	Promoted bool
}

// table is a game the terminal can drive
type table interface {
	View() (display.View, error)
	Activate(pos core.Position) (activation, error)
	Undo(count int) error
	Reset() error
	Load(layout string) error
	Moves() ([]string, error)
	Layout() (string, error)
}

// waiter is implemented by tables whose state can change without local input
type waiter interface {
	Wait() (changed bool, err error)
}

// localTable is a hot-seat game held in process
type localTable struct {
	m *game.Machine
}

func newLocalTable(m *game.Machine) *localTable {
	return &localTable{m: m}
}

func (t *localTable) View() (display.View, error) {
	return t.m, nil
}

func (t *localTable) Activate(pos core.Position) (activation, error) {
	player := t.m.CurrentPlayer()
	res := t.m.Activate(pos)

	act := activation{Outcome: res.Outcome.String(), Player: player}
	if res.Move != nil {
		act.Move = res.Move.Move.String()
		act.Promoted = res.Move.Promoted
	}
	return act, nil
}

func (t *localTable) Undo(count int) error {
	return t.m.UndoMoves(count)
}

func (t *localTable) Reset() error {
	t.m.Reset()
	return nil
}

func (t *localTable) Load(layout string) error {
	m, err := game.NewFromLayout(layout)
	if err != nil {
		return err
	}
	t.m = m
	return nil
}

func (t *localTable) Moves() ([]string, error) {
	moves := t.m.Moves()
	out := make([]string, len(moves))
	for i, mv := range moves {
		out[i] = mv.String()
	}
	return out, nil
}

func (t *localTable) Layout() (string, error) {
	return t.m.Layout(), nil
}

// remoteTable is a game hosted by a checkers server. seats holds the tokens
// this terminal may play with.
type remoteTable struct {
	client *api.Client
	gameID string
	seats  map[core.Color]string
	state  *core.GameResponse
}

func newRemoteTable(client *api.Client, gameID string, seats map[core.Color]string) (*remoteTable, error) {
	t := &remoteTable{client: client, gameID: gameID, seats: seats}
	if err := t.refresh(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *remoteTable) refresh() error {
	state, err := t.client.GetGame(t.gameID)
	if err != nil {
		return err
	}
	t.state = state
	return nil
}

func (t *remoteTable) View() (display.View, error) {
	return api.NewSnapshot(t.state)
}

func (t *remoteTable) Activate(pos core.Position) (activation, error) {
	if err := t.refresh(); err != nil {
		return activation{}, err
	}

	turn := core.Color(t.state.Turn[0])
	token, ok := t.seats[turn]
	if !ok {
		return activation{}, fmt.Errorf("waiting for %s, use 'wait'", turn.Name())
	}

	state, err := t.client.Activate(t.gameID, token, pos)
	if err != nil {
		return activation{}, err
	}
	t.state = state

	act := activation{Outcome: state.Outcome, Player: turn}
	if state.Outcome == core.OutcomeMoved.String() && state.LastMove != nil {
		act.Move = state.LastMove.Move
		act.Promoted = state.LastMove.Promoted
	}
	return act, nil
}

func (t *remoteTable) Undo(count int) error {
	state, err := t.client.UndoMoves(t.gameID, count)
	if err != nil {
		return err
	}
	t.state = state
	return nil
}

func (t *remoteTable) Reset() error {
	state, err := t.client.ResetGame(t.gameID)
	if err != nil {
		return err
	}
	t.state = state
	return nil
}

// Load starts a fresh server game from layout and takes both of its seats
func (t *remoteTable) Load(layout string) error {
	created, err := t.client.CreateGame(layout)
	if err != nil {
		return err
	}
	t.gameID = created.GameID
	t.seats = map[core.Color]string{
		core.ColorBlack: created.Seats.Black,
		core.ColorWhite: created.Seats.White,
	}
	state := created.GameResponse
	t.state = &state
	return nil
}

func (t *remoteTable) Moves() ([]string, error) {
	if err := t.refresh(); err != nil {
		return nil, err
	}
	return t.state.Moves, nil
}

func (t *remoteTable) Layout() (string, error) {
	if err := t.refresh(); err != nil {
		return "", err
	}
	return t.state.Layout, nil
}

// Wait long-polls once for a move by the other side
func (t *remoteTable) Wait() (bool, error) {
	known := len(t.state.Moves)
	state, err := t.client.WaitForMove(t.gameID, known)
	if err != nil {
		return false, err
	}
	t.state = state
	return len(state.Moves) != known, nil
}

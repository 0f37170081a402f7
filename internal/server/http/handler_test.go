package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/server/processor"
	"checkers/internal/server/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := service.New(nil, []byte("test-secret-minimum-32-characters-long"))
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return NewFiberApp(processor.New(svc), svc, true)
}

func doRequest(t *testing.T, app *fiber.App, method, path, body, token string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func createGame(t *testing.T, app *fiber.App, body string) core.CreateGameResponse {
	t.Helper()
	status, data := doRequest(t, app, http.MethodPost, "/api/v1/games", body, "")
	require.Equal(t, http.StatusCreated, status, string(data))

	var created core.CreateGameResponse
	require.NoError(t, json.Unmarshal(data, &created))
	return created
}

func decodeGame(t *testing.T, data []byte) core.GameResponse {
	t.Helper()
	var g core.GameResponse
	require.NoError(t, json.Unmarshal(data, &g), string(data))
	return g
}

func decodeError(t *testing.T, data []byte) core.ErrorResponse {
	t.Helper()
	var e core.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &e), string(data))
	return e
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	status, data := doRequest(t, app, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, status)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disabled", body["storage"])
}

func TestCreateGame(t *testing.T) {
	app := newTestApp(t)

	created := createGame(t, app, "")
	assert.Equal(t, board.StartingLayout, created.Layout)
	assert.Equal(t, "b", created.Turn)
	assert.NotEmpty(t, created.Seats.Black)

	custom := createGame(t, app, `{"layout":"8/8/8/2b5/3w4/8/8/8 b"}`)
	assert.Equal(t, 1, custom.Pieces.Black)
	assert.Equal(t, 1, custom.Pieces.White)

	status, data := doRequest(t, app, http.MethodPost, "/api/v1/games", `{"layout":"nonsense"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, core.ErrInvalidLayout, decodeError(t, data).Code)

	status, data = doRequest(t, app, http.MethodPost, "/api/v1/games", `{"layout":`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, core.ErrInvalidRequest, decodeError(t, data).Code)
}

func TestContentTypeRejected(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", strings.NewReader("layout=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestActivateFlow(t *testing.T) {
	app := newTestApp(t)
	created := createGame(t, app, "")
	path := "/api/v1/games/" + created.GameID + "/activate"

	status, data := doRequest(t, app, http.MethodPost, path, `{"row":2,"col":1}`, created.Seats.Black)
	require.Equal(t, http.StatusOK, status, string(data))
	g := decodeGame(t, data)
	assert.Equal(t, "selected", g.Outcome)
	assert.Len(t, g.Highlighted, 2)

	status, data = doRequest(t, app, http.MethodPost, path, `{"row":3,"col":2}`, created.Seats.Black)
	require.Equal(t, http.StatusOK, status, string(data))
	g = decodeGame(t, data)
	assert.Equal(t, "moved", g.Outcome)
	assert.Equal(t, "w", g.Turn)
	assert.Equal(t, []string{"21-32"}, g.Moves)
}

func TestActivateAuthorization(t *testing.T) {
	app := newTestApp(t)
	created := createGame(t, app, "")
	path := "/api/v1/games/" + created.GameID + "/activate"

	status, data := doRequest(t, app, http.MethodPost, path, `{"row":2,"col":1}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, core.ErrUnauthorized, decodeError(t, data).Code)

	status, _ = doRequest(t, app, http.MethodPost, path, `{"row":2,"col":1}`, "forged")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, data = doRequest(t, app, http.MethodPost, path, `{"row":5,"col":0}`, created.Seats.White)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, core.ErrNotYourTurn, decodeError(t, data).Code)
}

func TestActivateValidation(t *testing.T) {
	app := newTestApp(t)
	created := createGame(t, app, "")
	path := "/api/v1/games/" + created.GameID + "/activate"

	tests := []struct {
		name string
		body string
	}{
		{"missing col", `{"row":2}`},
		{"row too large", `{"row":8,"col":1}`},
		{"negative col", `{"row":2,"col":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := doRequest(t, app, http.MethodPost, path, tt.body, created.Seats.Black)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, core.ErrInvalidRequest, decodeError(t, data).Code)
		})
	}

	// Row 0 is a real coordinate, not a missing field
	status, data := doRequest(t, app, http.MethodPost, path, `{"row":0,"col":1}`, created.Seats.Black)
	require.Equal(t, http.StatusOK, status, string(data))
	assert.Equal(t, "selected", decodeGame(t, data).Outcome)
}

func TestUndoResetBoardDelete(t *testing.T) {
	app := newTestApp(t)
	created := createGame(t, app, "")
	base := "/api/v1/games/" + created.GameID

	doRequest(t, app, http.MethodPost, base+"/activate", `{"row":2,"col":1}`, created.Seats.Black)
	doRequest(t, app, http.MethodPost, base+"/activate", `{"row":3,"col":0}`, created.Seats.Black)

	status, data := doRequest(t, app, http.MethodPost, base+"/undo", `{"count":2}`, "")
	assert.Equal(t, http.StatusBadRequest, status, string(data))

	status, data = doRequest(t, app, http.MethodPost, base+"/undo", "", "")
	require.Equal(t, http.StatusOK, status, string(data))
	g := decodeGame(t, data)
	assert.Equal(t, board.StartingLayout, g.Layout)
	assert.Empty(t, g.Moves)

	status, data = doRequest(t, app, http.MethodPost, base+"/reset", "", "")
	require.Equal(t, http.StatusOK, status, string(data))

	status, data = doRequest(t, app, http.MethodGet, base+"/board", "", "")
	require.Equal(t, http.StatusOK, status)
	var b core.BoardResponse
	require.NoError(t, json.Unmarshal(data, &b))
	assert.Equal(t, board.StartingLayout, b.Layout)

	status, _ = doRequest(t, app, http.MethodDelete, base, "", "")
	assert.Equal(t, http.StatusNoContent, status)

	status, data = doRequest(t, app, http.MethodGet, base, "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, core.ErrGameNotFound, decodeError(t, data).Code)
}

func TestInvalidGameID(t *testing.T) {
	app := newTestApp(t)
	status, data := doRequest(t, app, http.MethodGet, "/api/v1/games/not-a-uuid", "", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, core.ErrInvalidRequest, decodeError(t, data).Code)
}

func TestLongPoll(t *testing.T) {
	svc := service.New(nil, []byte("test-secret-minimum-32-characters-long"))
	defer svc.Shutdown(time.Second)
	proc := processor.New(svc)
	app := NewFiberApp(proc, svc, true)

	created := createGame(t, app, "")
	base := "/api/v1/games/" + created.GameID

	// Stale move count returns immediately
	status, data := doRequest(t, app, http.MethodGet, base+"?wait=true&moveCount=5", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeGame(t, data).Moves)

	go func() {
		time.Sleep(50 * time.Millisecond)
		svc.Activate(created.GameID, core.ColorBlack, core.Position{Row: 2, Col: 1})
		svc.Activate(created.GameID, core.ColorBlack, core.Position{Row: 3, Col: 0})
	}()

	status, data = doRequest(t, app, http.MethodGet, base+"?wait=true&moveCount=0", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"21-30"}, decodeGame(t, data).Moves)
}

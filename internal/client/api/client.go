// Package api is a typed client for the checkers server REST API.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"checkers/internal/core"
)

// pollTimeout leaves headroom over the server's long-poll window
const pollTimeout = 35 * time.Second

// APIError is a non-2xx response decoded from the error envelope
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	PollClient *http.Client
	Verbose    bool
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		PollClient: &http.Client{Timeout: pollTimeout},
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

type request struct {
	method string
	path   string
	body   any
	token  string
	client *http.Client
}

func (c *Client) do(r request, result any) error {
	var bodyReader io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		if c.Verbose {
			log.Printf("[API] %s %s %s", r.method, r.path, data)
		}
	} else if c.Verbose {
		log.Printf("[API] %s %s", r.method, r.path)
	}

	req, err := http.NewRequest(r.method, c.BaseURL+r.path, bodyReader)
	if err != nil {
		return err
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	hc := r.client
	if hc == nil {
		hc = c.HTTPClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if c.Verbose {
		log.Printf("[API] %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope core.ErrorResponse
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Code != "" {
			apiErr.Code = envelope.Code
			apiErr.Message = envelope.Error
			apiErr.Details = envelope.Details
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// API Methods

func (c *Client) Health() (map[string]any, error) {
	var resp map[string]any
	err := c.do(request{method: http.MethodGet, path: "/health"}, &resp)
	return resp, err
}

// CreateGame starts a game; an empty layout uses the standard opening
func (c *Client) CreateGame(layout string) (*core.CreateGameResponse, error) {
	var resp core.CreateGameResponse
	err := c.do(request{
		method: http.MethodPost,
		path:   "/api/v1/games",
		body:   core.CreateGameRequest{Layout: layout},
	}, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do(request{method: http.MethodGet, path: "/api/v1/games/" + gameID}, &resp)
	return &resp, err
}

// WaitForMove long-polls until the game's move count differs from moveCount
// or the server's wait window ends
func (c *Client) WaitForMove(gameID string, moveCount int) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do(request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/v1/games/%s?wait=true&moveCount=%d", gameID, moveCount),
		client: c.PollClient,
	}, &resp)
	return &resp, err
}

// Activate sends a square on behalf of the seat the token belongs to
func (c *Client) Activate(gameID, seatToken string, pos core.Position) (*core.GameResponse, error) {
	row, col := pos.Row, pos.Col
	var resp core.GameResponse
	err := c.do(request{
		method: http.MethodPost,
		path:   "/api/v1/games/" + gameID + "/activate",
		body:   core.ActivateRequest{Row: &row, Col: &col},
		token:  seatToken,
	}, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(gameID string, count int) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do(request{
		method: http.MethodPost,
		path:   "/api/v1/games/" + gameID + "/undo",
		body:   core.UndoRequest{Count: count},
	}, &resp)
	return &resp, err
}

func (c *Client) ResetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do(request{method: http.MethodPost, path: "/api/v1/games/" + gameID + "/reset"}, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.do(request{method: http.MethodDelete, path: "/api/v1/games/" + gameID}, nil)
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.do(request{method: http.MethodGet, path: "/api/v1/games/" + gameID + "/board"}, &resp)
	return &resp, err
}

// Package main implements a terminal checkers client. It plays a hot-seat
// game in process, or a game hosted by checkers-server when -server is set.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"checkers/internal/client/api"
	"checkers/internal/client/display"
	"checkers/internal/core"
	"checkers/internal/game"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	var (
		layout  = flag.String("layout", "", "Starting layout (standard opening if empty)")
		noColor = flag.Bool("no-color", false, "Disable colored output")
		server  = flag.String("server", "", "Server base URL, e.g. http://localhost:8080 (local game if empty)")
		gameID  = flag.String("game", "", "Join an existing server game (requires -seat and -color)")
		seat    = flag.String("seat", "", "Seat token for the joined game")
		color   = flag.String("color", "", "Seat color of -seat: b or w")
		verbose = flag.Bool("v", false, "Log API requests")
	)
	flag.Parse()

	t, err := openTable(*server, *layout, *gameID, *seat, *color, *verbose)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	useColor := !*noColor && term.IsTerminal(int(os.Stdout.Fd()))
	s := newSession(t, os.Stdout, useColor)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.palette.Prompt("checkers"),
		HistoryFile:     ".checkers_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		log.Fatalf("readline: %v", err)
	}
	defer rl.Close()

	fmt.Println(s.palette.Paint(display.Cyan, "Checkers"))
	if rt, ok := t.(*remoteTable); ok {
		fmt.Printf("%s\n", s.palette.Paint(display.Cyan, "Game: "+rt.gameID))
		if *gameID == "" {
			fmt.Printf("Black seat: %s\n", rt.seats[core.ColorBlack])
			fmt.Printf("White seat: %s\n", rt.seats[core.ColorWhite])
		}
	}
	fmt.Println("Type 'help' for commands")
	fmt.Println()
	if err := s.show(); err != nil {
		fmt.Println(s.palette.Paint(display.Red, "Error: "+err.Error()))
	}

	registry := newRegistry(s)
	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := registry.Execute(line); err != nil {
			break
		}
	}
}

// openTable picks the local engine or a server game from the flags
func openTable(server, layout, gameID, seat, color string, verbose bool) (table, error) {
	if server == "" {
		if layout == "" {
			return newLocalTable(game.New()), nil
		}
		m, err := game.NewFromLayout(layout)
		if err != nil {
			return nil, err
		}
		return newLocalTable(m), nil
	}

	client := api.New(server)
	client.SetVerbose(verbose)

	if gameID == "" {
		created, err := client.CreateGame(layout)
		if err != nil {
			return nil, fmt.Errorf("create game: %w", err)
		}
		return newRemoteTable(client, created.GameID, map[core.Color]string{
			core.ColorBlack: created.Seats.Black,
			core.ColorWhite: created.Seats.White,
		})
	}

	if seat == "" || (color != "b" && color != "w") {
		return nil, fmt.Errorf("-game requires -seat and -color b|w")
	}
	return newRemoteTable(client, gameID, map[core.Color]string{core.Color(color[0]): seat})
}

func buildPrompt(s *session) string {
	v, err := s.table.View()
	if err != nil {
		return s.palette.Prompt("checkers")
	}
	return s.palette.Prompt(fmt.Sprintf("checkers [%s]", s.palette.ColorForTurn(v.CurrentPlayer())))
}

package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"checkers/internal/board"
	"checkers/internal/client/display"
	"checkers/internal/core"
)

var errQuit = errors.New("quit")

// session ties a table to the terminal output
type session struct {
	table    table
	renderer *display.Renderer
	palette  display.Palette
	out      io.Writer
}

func newSession(t table, out io.Writer, color bool) *session {
	r := display.NewRenderer(out, color)
	return &session{
		table:    t,
		renderer: r,
		palette:  r.Palette(),
		out:      out,
	}
}

// command defines a client command with its handler
type command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(*session, []string) error
}

type registry struct {
	session  *session
	commands map[string]*command
	ordered  []*command
}

func newRegistry(s *session) *registry {
	r := &registry{
		session:  s,
		commands: make(map[string]*command),
	}

	r.register(&command{Name: "board", ShortName: "b", Description: "Show the board", Usage: "board", Handler: boardHandler})
	r.register(&command{Name: "undo", ShortName: "u", Description: "Take back moves", Usage: "undo [count]", Handler: undoHandler})
	r.register(&command{Name: "reset", ShortName: "r", Description: "Return to the starting layout", Usage: "reset", Handler: resetHandler})
	r.register(&command{Name: "history", ShortName: "h", Description: "List executed moves", Usage: "history", Handler: historyHandler})
	r.register(&command{Name: "layout", ShortName: "l", Description: "Print the current layout string", Usage: "layout", Handler: layoutHandler})
	r.register(&command{Name: "load", Description: "Start a new game from a layout", Usage: "load <rows> <b|w>", Handler: loadHandler})
	if _, ok := s.table.(waiter); ok {
		r.register(&command{Name: "wait", ShortName: "w", Description: "Wait for the other side to move", Usage: "wait", Handler: waitHandler})
	}
	r.register(&command{Name: "help", ShortName: "?", Description: "Show available commands", Usage: "help", Handler: r.helpHandler})
	r.register(&command{Name: "quit", ShortName: "q", Description: "Exit the client", Usage: "quit", Handler: quitHandler})

	return r
}

func (r *registry) register(cmd *command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
	r.ordered = append(r.ordered, cmd)
}

// Execute runs one input line. A line of two integers activates that square.
// Returns errQuit when the user asked to leave.
func (r *registry) Execute(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	var handler func(*session) error
	if pos, ok := parseCoordinate(parts); ok {
		handler = func(s *session) error { return s.activate(pos) }
	} else if cmd, exists := r.commands[parts[0]]; exists {
		handler = func(s *session) error { return cmd.Handler(s, parts[1:]) }
	} else {
		fmt.Fprintln(r.session.out, r.session.palette.Paint(display.Red, "Unknown command: "+parts[0]))
		fmt.Fprintln(r.session.out, "Type 'help' for available commands")
		return nil
	}

	err := handler(r.session)
	if err != nil && !errors.Is(err, errQuit) {
		fmt.Fprintln(r.session.out, r.session.palette.Paint(display.Red, "Error: "+err.Error()))
		return nil
	}
	return err
}

// parseCoordinate accepts "row col" or "row,col"
func parseCoordinate(parts []string) (core.Position, bool) {
	if len(parts) == 1 {
		parts = strings.Split(parts[0], ",")
	}
	if len(parts) != 2 {
		return core.Position{}, false
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return core.Position{}, false
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return core.Position{}, false
	}
	return core.Position{Row: row, Col: col}, true
}

func (s *session) activate(pos core.Position) error {
	act, err := s.table.Activate(pos)
	if err != nil {
		return err
	}

	switch act.Outcome {
	case core.OutcomeIgnored.String():
		fmt.Fprintf(s.out, "Nothing to select at %s\n", pos)
		return nil
	case core.OutcomeDeselected.String():
		fmt.Fprintln(s.out, "Selection cleared")
	case core.OutcomeMoved.String():
		line := fmt.Sprintf("%s played %s", s.palette.ColorForTurn(act.Player), act.Move)
		if act.Promoted {
			line += ", crowned"
		}
		fmt.Fprintln(s.out, line)
	}

	return s.show()
}

func (s *session) show() error {
	v, err := s.table.View()
	if err != nil {
		return err
	}
	s.renderer.RenderBoard(v)
	s.renderer.RenderStatus(v)
	return nil
}

func boardHandler(s *session, args []string) error {
	return s.show()
}

func undoHandler(s *session, args []string) error {
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count: %s", args[0])
		}
		count = n
	}

	if err := s.table.Undo(count); err != nil {
		return err
	}
	return s.show()
}

func resetHandler(s *session, args []string) error {
	if err := s.table.Reset(); err != nil {
		return err
	}
	return s.show()
}

func historyHandler(s *session, args []string) error {
	moves, err := s.table.Moves()
	if err != nil {
		return err
	}
	if len(moves) == 0 {
		fmt.Fprintln(s.out, "No moves yet")
		return nil
	}

	// Pair moves into numbered turns of two
	for i := 0; i < len(moves); i += 2 {
		line := fmt.Sprintf("%3d. %s", i/2+1, moves[i])
		if i+1 < len(moves) {
			line += " " + moves[i+1]
		}
		fmt.Fprintln(s.out, line)
	}
	return nil
}

func layoutHandler(s *session, args []string) error {
	layout, err := s.table.Layout()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, layout)
	return nil
}

func loadHandler(s *session, args []string) error {
	layout := strings.Join(args, " ")
	if layout == "" {
		layout = board.StartingLayout
	}

	if err := s.table.Load(layout); err != nil {
		return err
	}
	return s.show()
}

func waitHandler(s *session, args []string) error {
	w := s.table.(waiter)
	fmt.Fprintln(s.out, "Waiting for the other side...")
	changed, err := w.Wait()
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(s.out, "No move yet")
		return nil
	}
	return s.show()
}

func (r *registry) helpHandler(s *session, args []string) error {
	fmt.Fprintln(s.out, s.palette.Paint(display.Cyan, "Available Commands:"))
	fmt.Fprintf(s.out, "  %-18s %s\n", "<row> <col>", "Select a piece or move the selected piece")

	cmds := append([]*command(nil), r.ordered...)
	sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	for _, cmd := range cmds {
		fmt.Fprintf(s.out, "  %-18s %s\n", cmd.Usage, cmd.Description)
	}
	return nil
}

func quitHandler(s *session, args []string) error {
	fmt.Fprintln(s.out, s.palette.Paint(display.Cyan, "Goodbye!"))
	return errQuit
}

// Package cli implements the database maintenance subcommands of checkers-server.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"checkers/internal/server/storage"
)

// Run is the entry point for the db subcommands
func Run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], out)
	case "query":
		return runQuery(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// openStore parses the shared -path flag plus any extra flags registered by setup
func openStore(name string, args []string, setup func(fs *flag.FlagSet)) (*storage.Store, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	if setup != nil {
		setup(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *path == "" {
		return nil, fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string, out io.Writer) error {
	store, err := openStore("init", args, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized at: %s\n", store.Path())
	return nil
}

func runDelete(args []string, out io.Writer) error {
	store, err := openStore("delete", args, nil)
	if err != nil {
		return err
	}

	path := store.Path()
	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", path)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	var gameID *string
	var showMoves *bool
	store, err := openStore("query", args, func(fs *flag.FlagSet) {
		gameID = fs.String("gameId", "", "Game ID to filter (optional, * for all)")
		showMoves = fs.Bool("moves", false, "List the recorded moves of each game")
	})
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tMoves\tInitial Layout\tStart Time")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	moveLists := make([][]storage.MoveRecord, len(games))
	for i, g := range games {
		moves, err := store.QueryMoves(g.GameID)
		if err != nil {
			return fmt.Errorf("query moves failed: %w", err)
		}
		moveLists[i] = moves

		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			g.GameID,
			len(moves),
			g.InitialLayout,
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	if *showMoves {
		for i, g := range games {
			if len(moveLists[i]) == 0 {
				continue
			}
			fmt.Fprintf(out, "\n%s\n", g.GameID)
			mw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(mw, "#\tColor\tMove\tPromoted\tLayout After")
			for _, m := range moveLists[i] {
				fmt.Fprintf(mw, "%d\t%s\t%s\t%v\t%s\n",
					m.MoveNumber, m.PlayerColor, m.Move(), m.Promoted, m.LayoutAfterMove)
			}
			mw.Flush()
		}
	}

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
	return nil
}

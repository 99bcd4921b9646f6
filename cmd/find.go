package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/face"
	"github.com/smazurov/wordclock/internal/logging"
	"github.com/smazurov/wordclock/internal/puzzle"
)

// ErrNotPlaceable is returned when a word cannot be spelled on the faceplate.
var ErrNotPlaceable = errors.New("word cannot be placed")

// CreateFindCmd creates the find command.
func CreateFindCmd() *cobra.Command {
	var layout string

	cmd := &cobra.Command{
		Use:   "find WORD",
		Short: "Find the cheapest path for a puzzle word",
		Long:  `Runs the puzzle solver for WORD and prints the letters it would reveal, in order.`,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logging.Initialize(logging.Config{Level: "warn", Format: "text"})
			logger := logging.GetLogger("puzzle")

			if err := findWord(cmd.OutOrStdout(), layout, args[0]); err != nil {
				logger.Error("Puzzle search failed", "word", args[0], "error", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&layout, "layout", "l", "english", "Faceplate layout")
	return cmd
}

func findWord(w io.Writer, layout, word string) error {
	b, err := face.NewBoard(layout, board.SensorBottom)
	if err != nil {
		return err
	}
	word = puzzle.Canonicalize(word)
	sol, ok := puzzle.New(b, logging.GetLogger("puzzle")).Find(word)
	if !ok {
		return fmt.Errorf("%w: %q on %s", ErrNotPlaceable, word, layout)
	}

	if _, err := fmt.Fprintf(w, "%s cost %d\n", word, sol.Cost); err != nil {
		return err
	}
	for i, c := range sol.Cells {
		if _, err := fmt.Fprintf(w, "%2d. %c row %d col %d\n", i+1, b.Letter(c), c.Row, c.Col); err != nil {
			return err
		}
	}

	lit := make(map[int]bool, len(sol.Pixels))
	for _, i := range sol.Pixels {
		lit[i] = true
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return printBoard(w, b, func(i int) bool { return lit[i] })
}

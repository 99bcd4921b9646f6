package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/face"
	"github.com/smazurov/wordclock/internal/logging"
)

// CreateRenderCmd creates the render command.
func CreateRenderCmd() *cobra.Command {
	var layout, position string
	var showAmPm bool

	cmd := &cobra.Command{
		Use:   "render [HH:MM]",
		Short: "Print the lit faceplate for a time",
		Long: `Renders the phrase for the given time (default: now) on the chosen layout ` +
			`and prints the faceplate with unlit letters dimmed. No LEDs are touched.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logging.Initialize(logging.Config{Level: "warn", Format: "text"})
			logger := logging.GetLogger("face")

			at := time.Now()
			if len(args) == 1 {
				var err error
				if at, err = time.Parse("15:04", args[0]); err != nil {
					logger.Error("Invalid time, want HH:MM", "time", args[0], "error", err)
					os.Exit(1)
				}
			}
			if err := renderFace(cmd.OutOrStdout(), layout, position, at.Hour(), at.Minute(), showAmPm); err != nil {
				logger.Error("Failed to render", "error", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&layout, "layout", "l", "english", "Faceplate layout ("+strings.Join(face.Layouts(), ", ")+")")
	cmd.Flags().StringVar(&position, "sensor-position", "bottom", "Side the light sensor is on (top, bottom)")
	cmd.Flags().BoolVar(&showAmPm, "ampm", false, "Light AM/PM where the layout has them")
	return cmd
}

func renderFace(w io.Writer, layout, position string, hour, minute int, showAmPm bool) error {
	o, err := board.ParseOrientation(position)
	if err != nil {
		return err
	}
	b, err := face.NewBoard(layout, o)
	if err != nil {
		return err
	}
	f, err := face.New(layout, b, nil)
	if err != nil {
		return err
	}
	f.Render(hour, minute, 0, showAmPm)

	if _, err := fmt.Fprintf(w, "%02d:%02d %s\n\n", hour, minute, strings.Join(f.Words(), " ")); err != nil {
		return err
	}
	state := f.State()
	return printBoard(w, b, func(i int) bool { return state[i] })
}

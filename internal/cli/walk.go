package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/devsanthoshmk/home360"
	"github.com/devsanthoshmk/home360/internal/presentation/tui"
	"github.com/devsanthoshmk/home360/pkg/domain"
)

// WalkOptions configures the walk command.
type WalkOptions struct {
	TourPath string
	Debug    bool
}

// Walk opens the tour and runs the interactive walkthrough on the process
// TTY until the visitor quits or the tour is interrupted.
func Walk(opts WalkOptions) error {
	logger := createLogger(opts.Debug)

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	tourOpts := []home360.Option{
		// The headless viewer swaps instantly; there is no fade to wait for.
		home360.WithExitDuration(0),
	}
	if opts.Debug {
		tourOpts = append(tourOpts, home360.WithLogger(logger))
	}

	tour, err := home360.Open(opts.TourPath, tourOpts...)
	if err != nil {
		return err
	}
	defer tour.Close()

	out := os.Stdout
	tui.PrintBanner(out, home360.Version)
	if tour.Title() != "" {
		printSystemMessage(out, "Touring '%s' (%d scenes)", tour.Title(), tour.Registry().Len())
	}

	if err := tour.Start(sigCtx); err != nil {
		return fmt.Errorf("enter tour: %w", err)
	}

	in := NewInterruptibleReader(os.Stdin, sigCtx.Done())
	err = RunWalk(sigCtx, tour, in, out, terminalWidth())
	if sigCtx.Err() != nil && err == nil {
		err = sigCtx.Err()
	}

	logWalkCompletion(out, tour.CurrentSceneID(), err, sigCtx.Signal())
	return handleExecutionError(err)
}

// RunWalk drives the walkthrough loop over the given IO. It prints the
// current scene card, reads one command per line, and reports every
// non-committed outcome. A quit command or EOF ends the visit cleanly.
func RunWalk(ctx context.Context, tour *home360.Tour, in io.Reader, out io.Writer, width int) error {
	render := tui.NewRenderer(width)
	reader := bufio.NewReader(in)

	for {
		scene, err := tour.CurrentScene()
		if err != nil {
			return err
		}
		fmt.Fprint(out, tui.Card(scene, tour.Controller().Index(), tour.Registry().Len(), render))
		fmt.Fprint(out, "\n> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		input := strings.TrimSpace(line)

		var res *domain.Result
		var navErr error
		switch {
		case input == "":
			continue

		case input == "q" || input == "quit" || input == "exit":
			fmt.Fprintln(out, "Bye!")
			return nil

		case input == "h" || input == "help" || input == "?":
			fmt.Fprintln(out, "Commands: 1-9 take that exit, n next room, p previous room, g <scene-id> jump, q quit.")
			continue

		case input == "n" || input == "next":
			res, navErr = tour.NavigateNext(ctx)

		case input == "p" || input == "prev":
			res, navErr = tour.NavigatePrev(ctx)

		case strings.HasPrefix(input, "g "):
			res, navErr = tour.NavigateTo(ctx, strings.TrimSpace(strings.TrimPrefix(input, "g ")))

		default:
			i, convErr := strconv.Atoi(input)
			if convErr != nil {
				fmt.Fprintf(out, "Unknown command %q. Type 'h' for help.\n", input)
				continue
			}
			if i < 1 || i > len(scene.Hotspots) {
				fmt.Fprintf(out, "No exit %d in this room.\n", i)
				continue
			}
			res, navErr = tour.NavigateTo(ctx, scene.Hotspots[i-1].Target)
		}

		if navErr != nil {
			return navErr
		}
		reportOutcome(out, res)
	}
}

// reportOutcome tells the visitor why nothing changed. Committed moves stay
// silent; the next card speaks for itself.
func reportOutcome(w io.Writer, res *domain.Result) {
	if res == nil || res.Committed() {
		return
	}
	switch res.Outcome {
	case domain.OutcomeSkipped:
		switch res.Reason {
		case domain.SkipAlreadyCurrent:
			fmt.Fprintln(w, "Already in that room.")
		case domain.SkipUnknownScene:
			fmt.Fprintf(w, "No scene %q in this tour.\n", res.To)
		default:
			fmt.Fprintln(w, "Still moving, try again in a moment.")
		}
	case domain.OutcomeTimedOut:
		fmt.Fprintf(w, "Loading %q timed out; staying put.\n", res.To)
	default:
		if res.Err != nil {
			fmt.Fprintf(w, "Could not enter %q: %v\n", res.To, res.Err)
		} else {
			fmt.Fprintf(w, "Could not enter %q.\n", res.To)
		}
	}
}

func logWalkCompletion(out io.Writer, sceneID string, err error, sig os.Signal) {
	if err == nil {
		printSystemMessage(out, "Visit ended in '%s'.", sceneID)
		return
	}
	if isInterrupted(err) {
		if sig == os.Interrupt {
			fmt.Fprintln(out, "[CTRL+C]")
		} else {
			fmt.Fprintln(out)
		}
		printSystemMessage(out, "Visit interrupted in '%s'.", sceneID)
	}
}

// terminalWidth returns the stdout width for markdown wrapping, capped so
// wide monitors keep readable lines. Non-TTY output wraps at 80.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	if w > 100 {
		w = 100
	}
	return w
}

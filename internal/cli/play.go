package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"butterfly-quiz-service/internal/app"
	"butterfly-quiz-service/internal/config"
	"butterfly-quiz-service/internal/domain"
	"butterfly-quiz-service/internal/game"
	"github.com/spf13/cobra"
)

// NewPlayCmd runs a single game in the terminal against the configured catalog.
func NewPlayCmd(configPath *string) *cobra.Command {
	var difficulty string
	var rounds int
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			level, err := domain.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL != "" {
				if err := migrateSchema(ctx, cfg); err != nil {
					return err
				}
			}
			cfg.Catalog.Seed = true
			st, err := buildStack(ctx, cfg, game.RealClock{})
			if err != nil {
				return err
			}
			defer st.Close()
			return runPlay(ctx, st.games, cmd.InOrStdin(), cmd.OutOrStdout(), rounds, level)
		},
	}
	cmd.Flags().StringVar(&difficulty, "difficulty", "easy", "easy, medium or hard")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "number of rounds (default from config)")
	return cmd
}

// runPlay drives one session from line-based input: a number picks an option,
// "b" skips the preview, "n" advances, "r" reloads a failed question, "q" quits.
func runPlay(ctx context.Context, games *app.GameService, in io.Reader, out io.Writer, rounds int, difficulty domain.Difficulty) error {
	id, _, err := games.Start(ctx, rounds, difficulty)
	if id == "" {
		return err
	}
	defer games.End(id)

	updates, cancel, err := games.Subscribe(ctx, id)
	if err != nil {
		return err
	}
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, "Type the option number to answer, b to skip the preview, n for the next round, r to reload, q to quit.")
	r := &renderer{out: out}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case view, ok := <-updates:
			if !ok {
				return nil
			}
			r.render(view)
			if view.Finished {
				return nil
			}
		case line, ok := <-lines:
			if !ok || line == "q" {
				view, err := games.State(id)
				if err == nil && view.Finished {
					r.render(view)
				}
				return nil
			}
			view, err := playCommand(ctx, games, id, line)
			if err != nil {
				fmt.Fprintf(out, "! %v\n", err)
			}
			r.render(view)
			if view.Finished {
				return nil
			}
		}
	}
}

func playCommand(ctx context.Context, games *app.GameService, id, line string) (game.View, error) {
	switch line {
	case "b":
		return games.Begin(id)
	case "n":
		return games.Advance(ctx, id)
	case "r":
		return games.Reload(ctx, id)
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		view, _ := games.State(id)
		return view, fmt.Errorf("unknown command %q", line)
	}
	view, err := games.State(id)
	if err != nil {
		return view, err
	}
	if n < 1 || n > len(view.Options) {
		return view, fmt.Errorf("pick an option between 1 and %d", len(view.Options))
	}
	view, accepted, err := games.Submit(id, view.Options[n-1].ID)
	if err == nil && !accepted {
		err = fmt.Errorf("answer ignored")
	}
	return view, err
}

// renderer prints a view only when something the player can see has changed.
type renderer struct {
	out     io.Writer
	last    game.View
	printed bool
	done    bool
}

func (r *renderer) render(v game.View) {
	if r.done {
		return
	}
	changed := !r.printed || v.Round != r.last.Round || v.State != r.last.State || v.Error != r.last.Error
	ticked := v.RemainingSeconds != r.last.RemainingSeconds
	r.last, r.printed = v, true

	switch {
	case v.Finished && v.Summary != nil:
		r.done = true
		s := v.Summary
		fmt.Fprintf(r.out, "\n%s  %d/%d correct (%d%%), %d wrong, %s\n", s.Message, s.Score, s.TotalRounds, s.Percentage, s.Wrong, s.DifficultyLabel)
	case v.Error != "" && changed:
		fmt.Fprintf(r.out, "Round %d/%d could not load: %s (r to retry)\n", v.Round, v.TotalRounds, v.Error)
	case v.State == domain.RoundPreview && changed:
		fmt.Fprintf(r.out, "\nRound %d/%d  score %d\nStudy the picture: %s\n", v.Round, v.TotalRounds, v.Score, v.ImageURL)
	case v.State == domain.RoundAnswering && changed:
		fmt.Fprintln(r.out, "Which butterfly is it?")
		for i, opt := range v.Options {
			fmt.Fprintf(r.out, "  %d) %s (%s)\n", i+1, opt.Name, opt.FormalName)
		}
	case v.State == domain.RoundAnswering && ticked:
		fmt.Fprintf(r.out, "  %ds left\n", v.RemainingSeconds)
	case v.State == domain.RoundResolved && changed:
		answer := ""
		if v.Correct != nil {
			answer = v.Correct.Name
		}
		switch v.Outcome {
		case domain.OutcomeCorrect:
			fmt.Fprintf(r.out, "Correct! It is the %s. (n to continue)\n", answer)
		case domain.OutcomeTimedOut:
			fmt.Fprintf(r.out, "Time's up! It was the %s. (n to continue)\n", answer)
		default:
			fmt.Fprintf(r.out, "Wrong. It was the %s. (n to continue)\n", answer)
		}
	}
}

package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"butterfly-quiz-service/internal/config"
	"butterfly-quiz-service/internal/domain"
	"butterfly-quiz-service/internal/game"
)

func TestRunPlayOneRound(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Catalog.Seed = true

	st, err := buildStack(ctx, cfg, game.NewManualClock())
	if err != nil {
		t.Fatalf("build stack: %v", err)
	}
	defer st.Close()

	var out bytes.Buffer
	in := strings.NewReader("b\n9\n1\nn\n")
	if err := runPlay(ctx, st.games, in, &out, 1, domain.DifficultyMedium); err != nil {
		t.Fatalf("play: %v", err)
	}

	text := out.String()
	for _, want := range []string{"Round 1/1", "Which butterfly is it?", "pick an option between 1 and 4", "/1 correct (", "Medium"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, text)
		}
	}

	summaries, err := st.games.RecentSummaries(ctx, 5)
	if err != nil || len(summaries) != 1 {
		t.Fatalf("expected stored summary, got %+v %v", summaries, err)
	}
}

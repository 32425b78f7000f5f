package domain

import (
	"errors"
	"testing"
)

func TestQuestionValidate(t *testing.T) {
	correct := Item{ID: "a"}
	cases := []struct {
		name    string
		q       Question
		count   int
		wantErr bool
	}{
		{"valid", Question{Correct: correct, Options: []Item{{ID: "b"}, correct, {ID: "c"}, {ID: "d"}}}, 4, false},
		{"any count", Question{Correct: correct, Options: []Item{correct, {ID: "b"}}}, 0, false},
		{"wrong count", Question{Correct: correct, Options: []Item{correct, {ID: "b"}}}, 4, true},
		{"missing correct", Question{Correct: correct, Options: []Item{{ID: "b"}, {ID: "c"}}}, 2, true},
		{"duplicate", Question{Correct: correct, Options: []Item{correct, {ID: "b"}, {ID: "b"}}}, 3, true},
		{"correct twice", Question{Correct: correct, Options: []Item{correct, correct}}, 2, true},
		{"empty id", Question{Correct: correct, Options: []Item{correct, {}}}, 2, true},
	}
	for _, tc := range cases {
		err := tc.q.Validate(tc.count)
		if tc.wantErr && !errors.Is(err, ErrInvalidQuestion) {
			t.Fatalf("%s: expected invalid question, got %v", tc.name, err)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	for raw, want := range map[string]Difficulty{"1": DifficultyEasy, " medium ": DifficultyMedium, "HARD": DifficultyHard, "3": DifficultyHard} {
		got, err := ParseDifficulty(raw)
		if err != nil || got != want {
			t.Fatalf("ParseDifficulty(%q) = %v, %v", raw, got, err)
		}
	}
	for _, raw := range []string{"", "0", "4", "extreme"} {
		if _, err := ParseDifficulty(raw); !errors.Is(err, ErrUnknownDifficulty) {
			t.Fatalf("ParseDifficulty(%q): expected unknown difficulty, got %v", raw, err)
		}
	}
}

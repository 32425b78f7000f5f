package domain

import (
	"strconv"
	"strings"
)

// Difficulty is the tier picked before a session starts.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// Difficulties lists every valid tier in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// ParseDifficulty accepts either the numeric tier ("2") or its label ("medium").
func ParseDifficulty(raw string) (Difficulty, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		d := Difficulty(n)
		if !d.Valid() {
			return 0, ErrUnknownDifficulty
		}
		return d, nil
	}
	for _, d := range Difficulties {
		if strings.EqualFold(raw, d.String()) {
			return d, nil
		}
	}
	return 0, ErrUnknownDifficulty
}

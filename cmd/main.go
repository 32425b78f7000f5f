package main

import (
	"fmt"
	"os"

	"butterfly-quiz-service/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "quiz-service: %v\n", err)
		os.Exit(1)
	}
}

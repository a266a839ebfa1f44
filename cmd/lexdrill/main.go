// lexdrill is a spaced-repetition vocabulary trainer. It schedules word
// reviews with a memory model, runs study sessions over HTTP, and stores
// progress in SQLite or PostgreSQL.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"fmt"
	"os"

	"contentguard/internal/audit"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, audit.ErrNoKeywords) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

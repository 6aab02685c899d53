package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			if msg := exitError(err); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
		}
		os.Exit(1)
	}
}

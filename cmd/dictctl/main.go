// Command dictctl looks up and searches the dictionaries defined in the
// configuration file. Results are written to stdout as JSON; logs go to
// stderr.
//
// Exit codes: 0 = success, 1 = error (including a key that is not found
// by get and label).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

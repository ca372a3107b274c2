package main

import (
	"fmt"

	"github.com/fwojciec/pagekeep/bridge"
)

// Run executes the native command. Messages arrive on stdin and answers go
// to stdout, so nothing else may write to stdout.
func (c *NativeCmd) Run(deps *Dependencies) error {
	if err := deps.Session.Activate(deps.Ctx); err != nil {
		deps.Logger.Warn("initial record list failed", "err", err)
	}

	d := bridge.NewDispatcher(deps.Session, deps.Logger)
	if err := bridge.Serve(deps.Ctx, d, deps.Stdin, deps.Stdout); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", message(err))
		return err
	}
	return nil
}

package main

import (
	"fmt"
	"time"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	rec, err := deps.Session.Check(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", message(err))
		return err
	}

	if rec == nil {
		fmt.Fprintf(deps.Stdout, "Not saved: %s\n", c.URL)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Saved as %s (updated %s)\n", rec.ID, rec.UpdatedAt.Format(time.RFC3339))
	return nil
}

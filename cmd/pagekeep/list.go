package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/pagekeep"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	if err := deps.Session.Activate(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", message(err))
		return err
	}

	records := deps.Session.List()
	if c.JSON {
		return writeJSON(deps.Stdout, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'pagekeep scrape --save' to add one.")
		return nil
	}
	printRecords(deps.Stdout, records)
	return nil
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	if err := deps.Session.Activate(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", message(err))
		return err
	}

	records := deps.Session.Search(c.Query)
	if c.JSON {
		if records == nil {
			records = []*pagekeep.StoredRecord{}
		}
		return writeJSON(deps.Stdout, records)
	}
	if len(records) == 0 {
		fmt.Fprintf(deps.Stdout, "No records match %q.\n", c.Query)
		return nil
	}
	printRecords(deps.Stdout, records)
	return nil
}

func printRecords(w io.Writer, records []*pagekeep.StoredRecord) {
	for _, r := range records {
		fmt.Fprintf(w, "%s  %-7s  %s  %s\n", r.ID, r.Kind, field(r.PrimaryField), r.SourceURL)
	}
}

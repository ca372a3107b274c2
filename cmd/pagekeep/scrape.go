package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/pagekeep"
	"github.com/fwojciec/pagekeep/session"
)

// scrapeOutput is the --json shape of the scrape command.
type scrapeOutput struct {
	Scrape *session.ScrapeResult `json:"scrape"`
	Save   *session.SaveResult   `json:"save,omitempty"`
}

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	res, err := deps.Session.Scrape(deps.Ctx, session.ScrapeOptions{Extractor: c.Extractor})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", message(err))
		return err
	}

	out := scrapeOutput{Scrape: res}
	if !c.JSON {
		printRecord(deps.Stdout, res.Record)
		printDuplicate(deps.Stdout, res)
	}

	if c.Save {
		if res.Duplicate && !c.Force {
			if !c.JSON {
				fmt.Fprintln(deps.Stdout, "Not saved: already saved. Use --force to replace it.")
			}
		} else {
			saved, err := c.save(deps, res.Record)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", message(err))
				return err
			}
			out.Save = saved
			if !c.JSON {
				verb := "Saved"
				if saved.Replaced {
					verb = "Replaced"
				}
				fmt.Fprintf(deps.Stdout, "%s %s (position %d)\n", verb, saved.Record.ID, saved.Index+1)
			}
		}
	}

	if c.JSON {
		return writeJSON(deps.Stdout, out)
	}
	return nil
}

// save refreshes the cache first so the reported position matches the
// service's list order. A failed refresh does not block the save; the
// position then reflects the local cache only.
func (c *ScrapeCmd) save(deps *Dependencies, rec *pagekeep.ExtractedRecord) (*session.SaveResult, error) {
	if err := deps.Session.Activate(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: could not refresh records: %s\n", message(err))
	}
	return deps.Session.Save(deps.Ctx, rec)
}

func printDuplicate(w io.Writer, res *session.ScrapeResult) {
	switch {
	case res.CheckFailed:
		fmt.Fprintln(w, "Saved state unknown: record service unavailable.")
	case res.Duplicate && res.Unchanged:
		fmt.Fprintf(w, "Already saved as %s (unchanged).\n", res.Existing.ID)
	case res.Duplicate:
		fmt.Fprintf(w, "Already saved as %s (content differs).\n", res.Existing.ID)
	}
}

// printRecord writes one labeled line per field; missing fields show as "-".
func printRecord(w io.Writer, rec *pagekeep.ExtractedRecord) {
	primary, secondary, tertiary, body := "Title", "Description", "Site", "Text"
	if rec.Kind == pagekeep.KindProfile {
		primary, secondary, tertiary, body = "Name", "Headline", "Location", "About"
	}

	fmt.Fprintf(w, "URL:         %s\n", rec.SourceURL)
	fmt.Fprintf(w, "%-12s %s\n", primary+":", field(rec.PrimaryField))
	fmt.Fprintf(w, "%-12s %s\n", secondary+":", field(rec.SecondaryField))
	fmt.Fprintf(w, "%-12s %s\n", tertiary+":", field(rec.TertiaryField))
	fmt.Fprintf(w, "%-12s %s\n", body+":", field(rec.BodyText))
	if s := rec.Stats; s != nil {
		fmt.Fprintf(w, "Counts:      %d headings, %d images, %d paragraphs\n", s.Headings, s.Images, s.Paragraphs)
	}
}

func field(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// message returns the text shown to the user for err.
func message(err error) string {
	if pagekeep.ErrorCode(err) == pagekeep.EINTERNAL {
		return err.Error()
	}
	return pagekeep.ErrorMessage(err)
}

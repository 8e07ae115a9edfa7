package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/pageqa"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	resp, err := deps.QA.Ask(deps.Ctx, &pageqa.QARequest{URL: c.URL, Question: c.Question})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageqa.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if resp.Title != "" {
		fmt.Fprintln(deps.Stdout, resp.Title)
	}
	fmt.Fprintln(deps.Stdout, resp.URL)
	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, resp.Answer)

	if len(resp.SourceQuotes) > 0 {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Quotes:")
		for _, q := range resp.SourceQuotes {
			fmt.Fprintf(deps.Stdout, "  > %s\n", q)
		}
	}
	if resp.ConfidenceNote != "" {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintf(deps.Stdout, "Confidence: %s\n", resp.ConfidenceNote)
	}
	if len(resp.RelatedLinks) > 0 {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Related:")
		for _, l := range resp.RelatedLinks {
			fmt.Fprintf(deps.Stdout, "  - %s <%s>\n", l.Text, l.Href)
		}
	}
	return nil
}

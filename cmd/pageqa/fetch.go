package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/pageqa"
)

// Run executes the fetch command. Pages are printed as markdown when a
// conversion is available, otherwise as plain text.
func (c *FetchCmd) Run(deps *Dependencies) error {
	pages, err := deps.Content.FetchContent(deps.Ctx, c.URLs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageqa.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pages)
	}

	for i, p := range pages {
		if i > 0 {
			fmt.Fprintln(deps.Stdout, "\n---")
		}
		fmt.Fprintf(deps.Stdout, "# %s\n%s\n\n", p.Title, p.URL)
		body := p.Markdown
		if body == "" {
			body = p.MainText
		}
		fmt.Fprintln(deps.Stdout, body)
		fmt.Fprintf(deps.Stdout, "\n%d links\n", len(p.Links))
	}
	return nil
}

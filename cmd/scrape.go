package cmd

import (
	"errors"
	"fmt"
	"io"

	"article-scraper/scraper"
	"article-scraper/summarizer"

	"github.com/spf13/cobra"
)

func newScrapeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape [url]",
		Short: "Render one page to markdown and summarize it with a local model",
		Long: `Render a page (executing its scripts), save it as scraped_<hash>.md and send it
to the Ollama endpoint for cleanup. The cleaned copy is saved as
scraped_<hash>_llm.md. Without an argument the URL is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var input string
			if len(args) == 1 {
				input = args[0]
			} else {
				var err error
				if input, err = scraper.PromptURL(cmd.InOrStdin(), out); err != nil {
					return err
				}
			}

			d, err := loadDeps(opts)
			if err != nil {
				return err
			}
			defer func() { _ = d.log.Sync() }()

			renderer, release := d.newRenderer()
			defer release()

			pages, err := d.newPageScraper(renderer)
			if err != nil {
				return err
			}

			res, err := pages.Run(cmd.Context(), input, nil)
			if errors.Is(err, scraper.ErrEmptyURL) {
				fmt.Fprintln(out, "No URL entered. Exiting.")
				return nil
			}
			if err != nil {
				return err
			}

			reportResult(out, res)
			return nil
		},
	}
}

func reportResult(out io.Writer, res *scraper.Result) {
	fmt.Fprintf(out, "Saved: %s\n", res.MarkdownPath)

	switch {
	case res.SummaryPath != "":
		fmt.Fprintf(out, "LLM-cleaned and summarized markdown saved: %s\n", res.SummaryPath)
	case errors.Is(res.SummaryErr, summarizer.ErrEmptyResponse):
		fmt.Fprintln(out, "LLM did not return any content.")
	case res.SummaryErr != nil:
		fmt.Fprintf(out, "Error communicating with Ollama LLM: %v\n", res.SummaryErr)
	}
}

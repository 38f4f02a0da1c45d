package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCrawlCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "crawl [hub-url]",
		Short: "Save the HTML of every article linked from a hub page",
		Long: `Fetch a hub page, select its article links with the configured CSS selector
and save each article's raw HTML to the output directory, named after its title.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(opts)
			if err != nil {
				return err
			}
			defer func() { _ = d.log.Sync() }()

			hubURL := d.cfg.Crawl.HubURL
			if len(args) == 1 {
				hubURL = args[0]
			}
			if hubURL == "" {
				return fmt.Errorf("no hub URL given and crawl.hub_url is not set")
			}

			stats, err := d.newHubCrawler().Crawl(cmd.Context(), hubURL)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Crawled %s: %d links, %d saved, %d failed\n",
				hubURL, stats.Links, stats.Saved, stats.Failed)
			return nil
		},
	}
}

// Package cmd implements the command-line interface of the article scraper.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every subcommand
type globalOptions struct {
	configPath string
	debug      bool
}

// Execute runs the root command
func Execute() error {
	// .env is optional; it only supplies environment variables such as the bot token
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCommand().ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "article-scraper",
		Short:         "Save news articles and web pages to disk",
		Long:          "Crawl a news hub page for article HTML, or render a single page to markdown and have a local model summarize it.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ./config.yaml when present)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newCrawlCommand(opts),
		newScrapeCommand(opts),
		newBotCommand(opts),
	)

	return root
}

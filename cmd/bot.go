package cmd

import (
	"os"

	"article-scraper/bot"
	"article-scraper/scheduler"

	"github.com/spf13/cobra"
)

// tokenEnv names the environment variable holding the Telegram bot token
const tokenEnv = "SCRAPER_TELEGRAM_TOKEN"

func newBotCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Accept URLs to scrape as Telegram messages",
		Long: `Run a Telegram bot. Every URL sent to it goes through the same pipeline as
the scrape command, one request at a time, with status updates sent back to
the chat. The token is read from ` + tokenEnv + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(opts)
			if err != nil {
				return err
			}
			defer func() { _ = d.log.Sync() }()

			b, err := bot.New(os.Getenv(tokenEnv), d.cfg.Bot, d.log)
			if err != nil {
				return err
			}

			renderer, release := d.newRenderer()
			defer release()

			pages, err := d.newPageScraper(renderer)
			if err != nil {
				return err
			}

			sched := scheduler.NewScheduler(pages, b, d.cfg.Bot.QueueSize, d.log)
			sched.Start()
			defer sched.Stop()

			d.log.Info("Bot started, waiting for URLs")
			return b.Run(cmd.Context(), sched)
		},
	}
}

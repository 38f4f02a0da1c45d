// Package bot accepts URLs to scrape as Telegram messages and reports the
// results back to the chat.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"article-scraper/config"
	"article-scraper/logger"
	"article-scraper/scheduler"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	helpText         = "Send me a URL and I will save the page as markdown, then ask the local model for a cleaned-up summary.\n\nCommands:\n/start - Start the bot\n/help - Show this help"
	unauthorizedText = "Sorry, you are not authorized to use this bot."
	emptyText        = "Please send me a URL to scrape."
	invalidURLText   = "Please send a valid URL starting with http:// or https://"
	queuedText       = "📝 Request received! It has been queued and you'll receive status updates as it progresses."
	busyText         = "⏳ Too many pending requests, please try again later."
	unknownText      = "Unknown command. Use /help for available commands."
)

// Submitter queues scrape requests
type Submitter interface {
	Submit(req scheduler.Request) error
}

// Bot is the Telegram front end of the page scraper
type Bot struct {
	api *tgbotapi.BotAPI
	cfg config.BotConfig
	log logger.Logger
}

// New authorizes against the Telegram API with token
func New(token string, cfg config.BotConfig, log logger.Logger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram token is empty")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	log.Info("Authorized on Telegram", logger.String("account", api.Self.UserName))
	return &Bot{api: api, cfg: cfg, log: log}, nil
}

// Notify implements scheduler.Notifier by replying to the request message
func (b *Bot) Notify(req scheduler.Request, text string) error {
	msg := tgbotapi.NewMessage(req.ChatID, text)
	msg.ReplyToMessageID = req.MessageID
	_, err := b.api.Send(msg)
	return err
}

// Run polls for updates until ctx is cancelled, handing URLs to submit
func (b *Bot) Run(ctx context.Context, submit Submitter) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.cfg.PollTimeoutSec

	updates := b.api.GetUpdatesChan(updateConfig)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}

			reply := b.handleMessage(update.Message, submit)
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
			msg.ReplyToMessageID = update.Message.MessageID
			if _, err := b.api.Send(msg); err != nil {
				b.log.Warn("Failed to send reply", logger.Int64("chat_id", update.Message.Chat.ID), logger.Err(err))
			}
		}
	}
}

// handleMessage decides the immediate reply to an incoming message and
// queues a request when the message carries a URL
func (b *Bot) handleMessage(msg *tgbotapi.Message, submit Submitter) string {
	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}

	if !b.cfg.IsUserAllowed(userID) {
		b.log.Warn("Unauthorized user attempted to use bot", logger.Int64("user_id", userID))
		return unauthorizedText
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			return helpText
		default:
			return unknownText
		}
	}

	url := strings.TrimSpace(msg.Text)
	if url == "" {
		return emptyText
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return invalidURLText
	}

	req := scheduler.Request{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		UserID:    userID,
		URL:       url,
	}
	if err := submit.Submit(req); err != nil {
		b.log.Warn("Failed to queue request", logger.String("url", url), logger.Err(err))
		return busyText
	}

	b.log.Info("Queued request", logger.Int64("user_id", userID), logger.String("url", url))
	return queuedText
}

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"article-scraper/logger"
	"article-scraper/scraper"
)

// Scheduler errors
var (
	ErrQueueFull = errors.New("request queue is full")
	ErrStopped   = errors.New("scheduler is stopped")
)

// Request is one URL submitted from a chat
type Request struct {
	ChatID    int64
	MessageID int
	UserID    int64
	URL       string
}

// Runner executes the single-page pipeline
type Runner interface {
	Run(ctx context.Context, input string, observe scraper.StateObserver) (*scraper.Result, error)
}

// Notifier reports progress back to whoever submitted a request
type Notifier interface {
	Notify(req Request, text string) error
}

// Scheduler processes scrape requests one at a time in submission order
type Scheduler struct {
	runner   Runner
	notifier Notifier
	log      logger.Logger
	queue    chan Request

	mu      sync.Mutex
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewScheduler creates a new scheduler with room for queueSize pending requests
func NewScheduler(runner Runner, notifier Notifier, queueSize int, log logger.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		runner:   runner,
		notifier: notifier,
		log:      log,
		queue:    make(chan Request, queueSize),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start starts the scheduler in a goroutine
func (s *Scheduler) Start() {
	go s.run()
}

// Stop cancels the request in flight, drops pending ones and waits for
// the worker to exit
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	<-s.done
	s.log.Info("Scheduler stopped")
}

// Submit queues a request without blocking
func (s *Scheduler) Submit(req Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}

	select {
	case s.queue <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued requests not yet started
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

func (s *Scheduler) run() {
	defer close(s.done)

	for {
		select {
		case <-s.ctx.Done():
			return
		case req := <-s.queue:
			s.process(req)
		}
	}
}

func (s *Scheduler) process(req Request) {
	log := s.log.With(logger.Int64("user_id", req.UserID), logger.String("url", req.URL))
	log.Info("Processing request")

	res, err := s.runner.Run(s.ctx, req.URL, func(state scraper.State) {
		if text, ok := progressText(state); ok {
			s.notify(req, text)
		}
	})
	if err != nil {
		log.Error("Request failed", logger.Err(err))
		s.notify(req, fmt.Sprintf("❌ Error: %v", err))
		return
	}

	s.notify(req, completionText(res))
}

func (s *Scheduler) notify(req Request, text string) {
	if err := s.notifier.Notify(req, text); err != nil {
		s.log.Warn("Failed to send status update", logger.Int64("chat_id", req.ChatID), logger.Err(err))
	}
}

func progressText(state scraper.State) (string, bool) {
	switch state {
	case scraper.StateRendering:
		return "🔄 Rendering page...", true
	case scraper.StateCallingSummarizer:
		return "🧠 Markdown saved. Asking the model for a cleaned-up summary...", true
	default:
		return "", false
	}
}

func completionText(res *scraper.Result) string {
	text := fmt.Sprintf("✅ Saved: %s", res.MarkdownPath)
	switch {
	case res.SummaryPath != "":
		text += fmt.Sprintf("\n✅ Summary saved: %s", res.SummaryPath)
	case res.SummaryErr != nil:
		text += fmt.Sprintf("\n⚠️ No summary: %v", res.SummaryErr)
	}
	return text
}

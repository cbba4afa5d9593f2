// Package sender provides an asynchronous outbound message dispatcher
// with bounded queueing and retry on transient Telegram API errors.
package sender

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/core/telegram/netutil"
)

var (
	// ErrQueueFull is returned when the outbound queue has no capacity.
	ErrQueueFull = errors.New("sender: queue full")
	// ErrQueueClosed is returned after Close.
	ErrQueueClosed = errors.New("sender: queue closed")
)

// Options tunes the dispatcher.
type Options struct {
	QueueSize  int
	Workers    int
	MaxRetries int
	Backoff    time.Duration
}

type job struct {
	recipient tele.Recipient
	what      any
	opts      []any
	rid       string
}

// Dispatcher fans outbound sends over a worker pool.
type Dispatcher struct {
	bot   tele.API
	opts  Options
	queue chan job

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a Dispatcher and starts its workers.
func New(bot tele.API, opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}

	d := &Dispatcher{
		bot:   bot,
		opts:  opts,
		queue: make(chan job, opts.QueueSize),
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Enqueue schedules a send. It never blocks: when the queue is full the
// caller gets ErrQueueFull and may fall back to a synchronous send.
func (d *Dispatcher) Enqueue(recipient tele.Recipient, what any, rid string, opts ...any) error {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return ErrQueueClosed
	}

	select {
	case d.queue <- job{recipient: recipient, what: what, opts: opts, rid: rid}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting jobs and waits for in-flight sends to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.queue {
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	attempts := d.opts.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		_, err := d.bot.Send(j.recipient, j.what, j.opts...)
		if err == nil {
			if attempt > 1 {
				logger.Sender.Info("send.retried_ok",
					slog.String("rid", j.rid),
					slog.Int("attempts", attempt),
				)
			}
			return
		}
		lastErr = err
		if !classifyRetryable(err) || attempt == attempts {
			break
		}
		time.Sleep(d.opts.Backoff * time.Duration(attempt))
	}

	logger.Sender.Error("send.failed",
		slog.String("rid", j.rid),
		slog.Int("attempts", attempts),
		slog.String("err", sanitizeErrorMessage(lastErr)),
	)
}

// classifyRetryable treats network-level failures and Telegram flood
// control as retryable, everything else as a permanent delivery error.
func classifyRetryable(err error) bool {
	if err == nil {
		return false
	}
	if netutil.ShouldRetry(err) {
		return true
	}
	var floodErr tele.FloodError
	if errors.As(err, &floodErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "retry after") || strings.Contains(msg, "Too Many Requests")
}

var tokenRe = regexp.MustCompile(`bot\d+:[\w-]+`)

// sanitizeErrorMessage redacts the bot token from API error strings
// before they reach the logs.
func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}

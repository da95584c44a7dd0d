// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"codeberg.org/zblogs/zblogs-api/internal/metrics"
)

// Priority decides whether a delivery failure reaches the caller.
type Priority int

const (
	// BestEffort messages are queued; failures are logged only.
	BestEffort Priority = iota
	// Critical messages are sent inline and their error is returned.
	Critical
)

func (p Priority) String() string {
	if p == Critical {
		return "critical"
	}
	return "best_effort"
}

// ErrNotifierClosed is returned for critical sends after Close.
var ErrNotifierClosed = errors.New("notifier closed")

type job struct {
	ctx context.Context
	msg Message
}

// Notifier dispatches messages through a Mailer, in the background for
// best-effort messages.
type Notifier struct {
	mailer  Mailer
	queue   chan job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	timeout time.Duration
	closed  bool
}

// NotifierOption customises a Notifier.
type NotifierOption func(*notifierOptions)

type notifierOptions struct {
	queueSize int
	workers   int
	timeout   time.Duration
}

// WithQueueSize sets the best-effort buffer length.
func WithQueueSize(n int) NotifierOption {
	return func(o *notifierOptions) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithWorkers sets the number of background senders.
func WithWorkers(n int) NotifierOption {
	return func(o *notifierOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithSendTimeout bounds each delivery attempt.
func WithSendTimeout(d time.Duration) NotifierOption {
	return func(o *notifierOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// NewNotifier starts the background workers.
func NewNotifier(mailer Mailer, opts ...NotifierOption) *Notifier {
	o := notifierOptions{queueSize: 64, workers: 1, timeout: 15 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	n := &Notifier{
		mailer:  mailer,
		queue:   make(chan job, o.queueSize),
		timeout: o.timeout,
	}
	for range o.workers {
		n.wg.Add(1)
		go n.work()
	}
	return n
}

func (n *Notifier) work() {
	defer n.wg.Done()
	for j := range n.queue {
		if err := n.deliver(j.ctx, j.msg, BestEffort); err != nil {
			slog.WarnContext(j.ctx, "email_send_failed",
				"kind", j.msg.Kind,
				"to", j.msg.To,
				"error", err,
			)
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, msg Message, p Priority) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	err := n.mailer.Send(ctx, msg)
	metrics.EmailDispatched(msg.Kind, p.String(), err)
	if err == nil {
		slog.DebugContext(ctx, "email_sent", "kind", msg.Kind, "to", msg.To, "priority", p.String())
	}
	return err
}

// Notify sends msg. Critical messages are delivered before Notify returns
// and report failure; best-effort messages never return an error.
func (n *Notifier) Notify(ctx context.Context, msg Message, p Priority) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if p == Critical {
		if n.closed {
			return ErrNotifierClosed
		}
		return n.deliver(ctx, msg, Critical)
	}

	if n.closed {
		slog.WarnContext(ctx, "email_dropped", "kind", msg.Kind, "reason", "notifier closed")
		return nil
	}

	// The request context ends with the response; keep its values only.
	select {
	case n.queue <- job{ctx: context.WithoutCancel(ctx), msg: msg}:
	default:
		slog.WarnContext(ctx, "email_dropped", "kind", msg.Kind, "reason", "queue full")
		metrics.EmailDispatched(msg.Kind, BestEffort.String(), errors.New("queue full"))
	}
	return nil
}

// Close stops accepting messages and waits for queued ones to be sent.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	n.wg.Wait()
}

// Package channelrun owns the bot's polling loop: approve pending
// threads, poll the inbox, ingest new events and dispatch them through
// the dialog engine. Dispatch is serialized per thread and bounded
// globally by a worker pool.
package channelrun

import (
	"context"
	"log/slog"
	"time"

	"github.com/SelfMadeDev/pytaibot/dialog"
	"github.com/SelfMadeDev/pytaibot/internal/ingest"
	"github.com/SelfMadeDev/pytaibot/internal/instagram"
	"github.com/SelfMadeDev/pytaibot/internal/pubsub"
	"github.com/SelfMadeDev/pytaibot/internal/worker"
)

type Dependencies struct {
	Client   instagram.Client
	Engine   *dialog.Engine
	Ingestor *ingest.Ingestor
	Events   pubsub.Publisher
	Logger   *slog.Logger
}

type Options struct {
	PollInterval    time.Duration
	MaxConcurrency  int
	DispatchTimeout time.Duration
}

func normalizeOptions(opts Options) Options {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 3
	}
	if opts.DispatchTimeout <= 0 {
		opts.DispatchTimeout = time.Minute
	}
	return opts
}

// Run polls until ctx is cancelled. Shutdown is graceful: no new poll
// iteration starts and in-flight dispatches drain before Run returns.
func Run(ctx context.Context, d Dependencies, opts Options) error {
	opts = normalizeOptions(opts)
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	events := d.Events
	if events == nil {
		events = pubsub.Nop{}
	}

	pool := worker.NewPool(worker.Options[dialog.Event]{
		Ctx:            ctx,
		MaxConcurrency: opts.MaxConcurrency,
		Handle: func(workerCtx context.Context, ev dialog.Event) {
			dispatch(workerCtx, d.Engine, events, logger, ev, opts.DispatchTimeout)
		},
	})
	defer pool.Close()

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	logger.Info("poll_loop_started", "interval", opts.PollInterval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("poll_loop_stopping")
			return ctx.Err()
		case <-ticker.C:
		}
		if err := pollOnce(ctx, d, pool, logger); err != nil {
			if ctx.Err() != nil {
				logger.Info("poll_loop_stopping")
				return ctx.Err()
			}
			logger.Warn("poll_iteration_failed", "error", err.Error())
		}
	}
}

// pollOnce runs one iteration: approvals, inbox snapshot, ingest,
// dispatch fan-out.
func pollOnce(ctx context.Context, d Dependencies, pool *worker.Pool[dialog.Event], logger *slog.Logger) error {
	approvePending(ctx, d.Client, logger)

	inbox, err := d.Client.PollInbox(ctx)
	if err != nil {
		return err
	}

	for _, ev := range d.Ingestor.Collect(inbox) {
		logger.Debug("inbound_event",
			"thread", ev.Thread.ID,
			"sender", ev.Sender.Username,
			"kind", string(ev.Kind))
		if err := pool.Dispatch(ev.Thread.ID, ev); err != nil {
			return err
		}
	}
	return nil
}

// approvePending accepts waiting threads so their messages show up in
// the next inbox poll. Failures only log; the poll still proceeds.
func approvePending(ctx context.Context, client instagram.Client, logger *slog.Logger) {
	pending, err := client.PendingThreads(ctx)
	if err != nil {
		logger.Warn("pending_inbox_failed", "error", err.Error())
		return
	}
	for _, threadID := range pending {
		if err := client.ApprovePending(ctx, threadID); err != nil {
			logger.Warn("approve_pending_failed", "thread", threadID, "error", err.Error())
		}
	}
}

func dispatch(ctx context.Context, engine *dialog.Engine, events pubsub.Publisher, logger *slog.Logger, ev dialog.Event, timeout time.Duration) {
	dispatchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := engine.HandleEvent(dispatchCtx, ev); err != nil {
		// The event is dropped; state was not advanced past the failure.
		logger.Error("dispatch_failed", "thread", ev.Thread.ID, "event", ev.ID, "error", err.Error())
		publish(dispatchCtx, events, logger, pubsub.TypeDispatchFailed, pubsub.DispatchFailed{
			ThreadID: ev.Thread.ID,
			EventID:  ev.ID,
			Error:    err.Error(),
		})
		return
	}
	publish(dispatchCtx, events, logger, pubsub.TypeMessageProcessed, pubsub.MessageProcessed{
		ThreadID:  ev.Thread.ID,
		EventID:   ev.ID,
		Timestamp: ev.Timestamp,
		Kind:      string(ev.Kind),
	})
}

func publish(ctx context.Context, events pubsub.Publisher, logger *slog.Logger, eventType string, data any) {
	if err := events.Publish(ctx, eventType, pubsub.NewEnvelope(eventType, data)); err != nil {
		logger.Warn("event_publish_failed", "type", eventType, "error", err.Error())
	}
}

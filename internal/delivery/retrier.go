// Package delivery wraps outbound sends with bounded retry. A message
// that keeps failing earns the user an escalating "hold on" filler per
// attempt, then a final apology, while the operator gets a notification
// carrying the last HTTP status.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = time.Second

	apologyText = "On, boy! Something went wrong...\n" +
		"I've sent a message to developer already\n" +
		"Please, try again!"
)

// Messenger is the single send primitive the retrier needs.
type Messenger interface {
	SendText(ctx context.Context, userID, text string) error
}

// statusCoder is implemented by channel-client errors that carry the
// platform's HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// Retrier delivers one payload synchronously, blocking between attempts.
type Retrier struct {
	messenger   Messenger
	operatorID  string
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
	log         *slog.Logger
}

type Options struct {
	OperatorID  string
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *slog.Logger
}

func NewRetrier(messenger Messenger, opts Options) (*Retrier, error) {
	if messenger == nil {
		return nil, errors.New("delivery: messenger is required")
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{
		messenger:   messenger,
		operatorID:  strings.TrimSpace(opts.OperatorID),
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
		sleep:       time.Sleep,
		log:         logger,
	}, nil
}

// Deliver sends text to userID, retrying up to the attempt limit. Every
// failed attempt is followed by a filler message and an
// attempt-proportional delay. On exhaustion the user gets the apology and
// the operator a failure notification; the last send error is returned.
func (r *Retrier) Deliver(ctx context.Context, userID, text string) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := r.messenger.SendText(ctx, userID, text)
		if err == nil {
			return nil
		}
		lastErr = err
		r.log.Warn("delivery_attempt_failed", "user", userID, "attempt", attempt, "error", err.Error())

		if fillErr := r.messenger.SendText(ctx, userID, fillerText(attempt)); fillErr != nil {
			r.log.Warn("delivery_filler_failed", "user", userID, "error", fillErr.Error())
		}
		if attempt < r.maxAttempts {
			r.sleep(time.Duration(attempt) * r.baseDelay)
		}
	}

	if err := r.messenger.SendText(ctx, userID, apologyText); err != nil {
		r.log.Warn("delivery_apology_failed", "user", userID, "error", err.Error())
	}
	r.notifyOperator(ctx, userID, lastErr)
	return fmt.Errorf("delivery: giving up after %d attempts: %w", r.maxAttempts, lastErr)
}

func (r *Retrier) notifyOperator(ctx context.Context, userID string, lastErr error) {
	if r.operatorID == "" {
		return
	}
	note := fmt.Sprintf("%s got an error %d", userID, statusCodeOf(lastErr))
	if err := r.messenger.SendText(ctx, r.operatorID, note); err != nil {
		r.log.Error("delivery_operator_notify_failed", "operator", r.operatorID, "error", err.Error())
	}
}

// fillerText builds the escalating hold message: one extra "o" and one
// more promised second per attempt.
func fillerText(attempt int) string {
	unit := "seconds"
	if attempt == 1 {
		unit = "second"
	}
	return fmt.Sprintf("H%sld on! I need %d more %s... ⌛", strings.Repeat("o", attempt), attempt, unit)
}

func statusCodeOf(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return 0
}

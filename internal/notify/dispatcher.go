package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/infra"
)

const (
	backoffBase  = 10 * time.Second
	backoffMax   = time.Hour
	defaultLease = 2 * time.Minute
)

// PushSender delivers push notifications.
type PushSender interface {
	SendPush(ctx context.Context, token, title, body, deepLink string) error
}

// EmailSender delivers email.
type EmailSender interface {
	SendEmail(ctx context.Context, key, to, subject, html string) error
}

// InAppStore persists in-app notifications keyed by the outbox job key.
type InAppStore interface {
	Store(ctx context.Context, key string, n domain.Notification) error
}

// ContactSource resolves where a user can be reached.
type ContactSource interface {
	Contact(ctx context.Context, id string) (*domain.Contact, error)
}

// Options configures a Dispatcher.
type Options struct {
	BatchSize    int
	MaxAttempts  int
	PollInterval time.Duration
	Lease        time.Duration
}

// Dispatcher drains the notification outbox. Jobs are leased, delivered on
// their channel and settled: sent, rescheduled with backoff or buried once
// they run out of attempts.
type Dispatcher struct {
	outbox   domain.OutboxRepository
	contacts ContactSource
	renderer *Renderer
	push     PushSender
	email    EmailSender
	inApp    InAppStore
	logger   infra.Logger
	opts     Options
	now      func() time.Time
}

// NewDispatcher wires a dispatcher. Zero options fall back to defaults.
func NewDispatcher(outbox domain.OutboxRepository, contacts ContactSource, renderer *Renderer, push PushSender, email EmailSender, inApp InAppStore, logger infra.Logger, opts Options) *Dispatcher {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 8
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.Lease <= 0 {
		opts.Lease = defaultLease
	}
	return &Dispatcher{
		outbox:   outbox,
		contacts: contacts,
		renderer: renderer,
		push:     push,
		email:    email,
		inApp:    inApp,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
}

// Backoff returns the delay before the next attempt of a job that has
// failed attempts times.
func Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := backoffBase
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= backoffMax {
			return backoffMax
		}
	}
	return d
}

// Run polls the outbox until ctx is cancelled. A full batch is followed
// immediately by another claim.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info().Msg("dispatcher: started")
	for {
		n, err := d.RunOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error().Err(err).Msg("dispatcher: claim failed")
		}
		if n >= d.opts.BatchSize && err == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.opts.PollInterval):
		}
	}
}

// RunOnce claims and settles one batch and returns its size.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	jobs, err := d.outbox.Claim(ctx, d.opts.BatchSize, d.opts.Lease)
	if err != nil {
		return 0, err
	}
	for _, job := range jobs {
		d.settle(ctx, job, d.deliver(ctx, job))
	}
	return len(jobs), nil
}

func (d *Dispatcher) deliver(ctx context.Context, job domain.OutboxJob) error {
	contact, err := d.contacts.Contact(ctx, job.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Permanent(fmt.Errorf("recipient %s: %w", job.UserID, err))
		}
		return fmt.Errorf("load recipient: %w", err)
	}
	msg, err := d.renderer.Render(job.Kind, contact.Locale, job.Params)
	if err != nil {
		return Permanent(err)
	}

	switch job.Channel {
	case domain.ChannelPush:
		return d.push.SendPush(ctx, contact.PushToken, msg.Title, msg.Body, job.DeepLink)
	case domain.ChannelInApp:
		return d.inApp.Store(ctx, job.IdempotencyKey, domain.Notification{
			UserID:   job.UserID,
			Title:    msg.Title,
			Body:     msg.Body,
			DeepLink: job.DeepLink,
		})
	case domain.ChannelEmail:
		return d.email.SendEmail(ctx, job.IdempotencyKey, contact.Email, msg.Title, msg.HTML)
	default:
		return Permanent(fmt.Errorf("unknown channel %q", job.Channel))
	}
}

func (d *Dispatcher) settle(ctx context.Context, job domain.OutboxJob, deliveryErr error) {
	log := d.logger.With().
		Int64("job_id", job.ID).
		Str("key", job.IdempotencyKey).
		Int("attempts", job.Attempts).
		Logger()

	if deliveryErr == nil {
		if err := d.outbox.MarkSent(ctx, job.ID); err != nil {
			log.Error().Err(err).Msg("dispatcher: mark sent failed")
			return
		}
		log.Debug().Msg("dispatcher: delivered")
		return
	}

	if IsPermanent(deliveryErr) || job.Attempts >= d.opts.MaxAttempts {
		if err := d.outbox.Bury(ctx, job.ID, deliveryErr.Error()); err != nil {
			log.Error().Err(err).Msg("dispatcher: bury failed")
			return
		}
		log.Error().Err(deliveryErr).Msg("dispatcher: job dead")
		return
	}

	next := d.now().Add(Backoff(job.Attempts))
	if err := d.outbox.Retry(ctx, job.ID, deliveryErr.Error(), next); err != nil {
		log.Error().Err(err).Msg("dispatcher: reschedule failed")
		return
	}
	log.Warn().Err(deliveryErr).Time("next_attempt_at", next).Msg("dispatcher: delivery failed, retrying")
}

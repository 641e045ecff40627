package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/noahxzhu/daily-post/internal/model"
	"github.com/noahxzhu/daily-post/internal/storage"
)

const (
	DefaultPollInterval = time.Second
	DefaultCooldown     = time.Minute
)

var separator = strings.Repeat("~", 35)

// Publisher posts a message to a social platform.
type Publisher interface {
	Publish(ctx context.Context, text string) error
}

// Worker checks the wall clock against the schedule and posts once when the
// trigger minute comes around. It owns the schedule file for its lifetime.
type Worker struct {
	store     *storage.Store
	publisher Publisher
	log       logrus.FieldLogger
	console   io.Writer

	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
	pollInterval time.Duration
	cooldown     time.Duration
}

type Option func(*Worker)

func WithClock(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

// WithSleep replaces the suspension between checks. sleep must return a
// non-nil error once ctx is done.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(w *Worker) { w.sleep = sleep }
}

func WithPollInterval(d time.Duration) Option {
	return func(w *Worker) { w.pollInterval = d }
}

// WithCooldown sets how long the worker sleeps after a post. It must cover
// the rest of the trigger minute or the post repeats; config.Validate
// rejects anything under a minute.
func WithCooldown(d time.Duration) Option {
	return func(w *Worker) { w.cooldown = d }
}

// WithConsole sets where the schedule is printed after each post.
func WithConsole(out io.Writer) Option {
	return func(w *Worker) { w.console = out }
}

func NewWorker(store *storage.Store, publisher Publisher, log logrus.FieldLogger, opts ...Option) *Worker {
	w := &Worker{
		store:        store,
		publisher:    publisher,
		log:          log,
		console:      os.Stdout,
		now:          time.Now,
		sleep:        sleepContext,
		pollInterval: DefaultPollInterval,
		cooldown:     DefaultCooldown,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run loops until ctx is done or an error occurs. Load, validation, publish
// and persistence errors end the loop and are returned; nothing is
// retried. The schedule file is re-read on every check so that edits made
// while running take effect at the next tick.
func (w *Worker) Run(ctx context.Context) error {
	rec, err := w.load()
	if err != nil {
		return err
	}
	trigger, _ := rec.TimeOfDay()
	w.PrintSchedule()
	w.log.WithFields(logrus.Fields{
		"file":    w.store.Path(),
		"trigger": trigger.String(),
		"next":    trigger.Next(w.now()).Format(time.RFC3339),
	}).Info("Worker started")

	for {
		rec, err := w.load()
		if err != nil {
			return err
		}
		trigger, _ := rec.TimeOfDay()

		now := w.now()
		wait := w.pollInterval
		if trigger.Matches(now) {
			if err := w.post(ctx, rec); err != nil {
				if ctx.Err() != nil {
					w.log.WithError(err).Warn("Post interrupted by shutdown")
					return nil
				}
				return err
			}
			wait = w.cooldown
			w.log.WithField("next", trigger.Next(now).Format(time.RFC3339)).Info("Next post scheduled")
		}

		if err := w.sleep(ctx, wait); err != nil {
			w.log.Info("Worker stopped")
			return nil
		}
	}
}

func (w *Worker) load() (model.ScheduleRecord, error) {
	rec, err := w.store.Load()
	if err != nil {
		return rec, fmt.Errorf("load schedule: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return rec, fmt.Errorf("schedule %s: %w", w.store.Path(), err)
	}
	return rec, nil
}

// post publishes one message and records it. The counter only advances
// after the platform accepted the post.
func (w *Worker) post(ctx context.Context, rec model.ScheduleRecord) error {
	log := w.log.WithFields(logrus.Fields{
		"attempt": uuid.NewString(),
		"days":    rec.Days,
	})

	text, err := rec.Render()
	if err != nil {
		return err
	}

	start := w.now()
	log.WithField("text", text).Info("Posting")
	if err := w.publisher.Publish(ctx, text); err != nil {
		log.WithError(err).Error("Failed to post")
		return fmt.Errorf("publish: %w", err)
	}

	updated, err := w.store.RecordSuccess()
	if err != nil {
		log.WithError(err).Error("Posted but failed to record")
		return fmt.Errorf("record success: %w", err)
	}
	log.WithFields(logrus.Fields{
		"took":     w.now().Sub(start),
		"new_days": updated.Days,
	}).Info("Posted")

	w.PrintSchedule()
	return nil
}

// PrintSchedule writes the schedule file, framed by separator lines, to the
// console.
func (w *Worker) PrintSchedule() {
	data, err := w.store.Pretty()
	if err != nil {
		w.log.WithError(err).Warn("Failed to print schedule")
		return
	}
	fmt.Fprintf(w.console, "%s\nJSON data for next post\n%s\n%s\n", separator, data, separator)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

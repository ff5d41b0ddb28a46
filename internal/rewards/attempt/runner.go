package attempt

import (
	"context"
	"earn-server/internal/clients/adnetwork"
	"earn-server/internal/observability"
	"errors"
	"fmt"
	"time"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=runner.go -destination=mocks_test.go -package=attempt

// ErrAdLoadFailed is returned once every retry of a display has failed.
var ErrAdLoadFailed = errors.New("ad failed to load")

// AdCapability displays one ad and blocks until it settles.
type AdCapability interface {
	RequestAd(ctx context.Context, req adnetwork.Request) error
}

// Policy bounds the retries of one surface.
type Policy struct {
	MaxRetries int
	Backoff    time.Duration
	// StaleAfter resets the retry counter when the previous attempt is older.
	StaleAfter time.Duration
}

// NoticeLevel matches the toast styles of the webapp.
type NoticeLevel string

const (
	NoticeLoading NoticeLevel = "loading"
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user facing message emitted during a display.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Transition records one state change.
type Transition struct {
	From    State     `json:"from"`
	To      State     `json:"to"`
	Attempt int       `json:"attempt"`
	At      time.Time `json:"at"`
}

// Outcome summarizes a finished display.
type Outcome struct {
	State       State        `json:"state"`
	Attempts    int          `json:"attempts"`
	Retries     int          `json:"retries"`
	Transitions []Transition `json:"transitions"`
	Notices     []Notice     `json:"notices"`
}

func (o *Outcome) notify(level NoticeLevel, msg string) {
	o.Notices = append(o.Notices, Notice{Level: level, Message: msg})
}

// Messages are the notices a runner emits. Empty strings are skipped.
type Messages struct {
	Loading string
	Retry   string // formatted with the backoff seconds, retry number, max retries
	Failed  string
}

// DefaultMessages are the notices of the watch surface.
func DefaultMessages() Messages {
	return Messages{
		Loading: "Loading ad...",
		Retry:   "Ad failed to load. Retrying in %d seconds (%d/%d)",
		Failed:  "Ad canceled - no reward given",
	}
}

// Runner drives one surface: single flight per user, bounded retries with
// a fixed backoff, and an effect applied while the surface is still held.
type Runner struct {
	surface  string
	ads      AdCapability
	policy   Policy
	messages Messages
	clock    Clock
	states   *Surfaces
	logger   *observability.Logger
}

func NewRunner(surface string, ads AdCapability, policy Policy, logger *observability.Logger) *Runner {
	return &Runner{
		surface:  surface,
		ads:      ads,
		policy:   policy,
		messages: DefaultMessages(),
		clock:    RealClock(),
		states:   NewSurfaces(),
		logger:   logger,
	}
}

func (r *Runner) WithClock(c Clock) *Runner {
	r.clock = c
	return r
}

func (r *Runner) WithMessages(m Messages) *Runner {
	r.messages = m
	return r
}

func (r *Runner) Surfaces() *Surfaces {
	return r.states
}

// Run displays req for userID. onRewarded runs after a completed display
// and before the surface is released; its error is returned as is.
// Exhausted retries return an error wrapping ErrAdLoadFailed.
func (r *Runner) Run(ctx context.Context, userID string, req adnetwork.Request, onRewarded func(ctx context.Context, out *Outcome) error) (Outcome, error) {
	key := Key(r.surface, userID)
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "surface", Value: r.surface},
		observability.Field{Key: "user_id", Value: userID},
	)

	st, err := r.states.acquire(key, r.clock.Now(), r.policy.StaleAfter)
	if err != nil {
		return Outcome{State: StateLoading}, err
	}
	defer r.states.release(key)

	out := Outcome{State: StateIdle, Retries: st.Retries}
	persist := func() {
		r.states.update(key, func(s *SurfaceState) {
			s.State = out.State
			s.Retries = out.Retries
		})
	}
	move := func(to State) {
		out.Transitions = append(out.Transitions, Transition{From: out.State, To: to, Attempt: out.Attempts, At: r.clock.Now()})
		out.State = to
		persist()
	}

	for {
		out.Attempts++
		now := r.clock.Now()
		r.states.update(key, func(s *SurfaceState) { s.LastAttemptAt = now })
		move(StateLoading)
		if r.messages.Loading != "" {
			out.notify(NoticeLoading, r.messages.Loading)
		}

		adErr := r.ads.RequestAd(ctx, req)
		if adErr == nil {
			out.Retries = 0
			move(StateRewarded)
			if onRewarded != nil {
				if err := onRewarded(ctx, &out); err != nil {
					return out, err
				}
			}
			observability.AdAttempts.WithLabelValues(r.surface, "rewarded").Inc()
			return out, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			observability.AdAttempts.WithLabelValues(r.surface, "cancelled").Inc()
			return out, ctxErr
		}

		r.logger.Warn(ctx, fmt.Sprintf("ad attempt %d failed: %v", out.Attempts, adErr))

		if out.Retries < r.policy.MaxRetries {
			out.Retries++
			move(StateRetryPending)
			if r.messages.Retry != "" {
				out.notify(NoticeInfo, fmt.Sprintf(r.messages.Retry, int(r.policy.Backoff/time.Second), out.Retries, r.policy.MaxRetries))
			}
			observability.AdAttempts.WithLabelValues(r.surface, "retry").Inc()
			if err := r.clock.Sleep(ctx, r.policy.Backoff); err != nil {
				return out, err
			}
			continue
		}

		out.Retries = 0
		move(StateFailed)
		if r.messages.Failed != "" {
			out.notify(NoticeError, r.messages.Failed)
		}
		observability.AdAttempts.WithLabelValues(r.surface, "failed").Inc()
		return out, fmt.Errorf("%w: %w", ErrAdLoadFailed, adErr)
	}
}

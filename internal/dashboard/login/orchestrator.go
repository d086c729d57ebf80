package login

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/auth"
)

const (
	// DefaultRedirectDelay is the pause between success and navigation.
	DefaultRedirectDelay = 500 * time.Millisecond
	// DefaultCallbackURL is used when the caller supplies no destination.
	DefaultCallbackURL = "/dashboard"
)

// Navigator performs the final navigation.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function into a Navigator.
type NavigatorFunc func(target string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(target string) { f(target) }

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithRedirectDelay overrides the success-to-navigation pause. Negative values are ignored.
func WithRedirectDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.delay = d
		}
	}
}

// WithCallbackURL sets the destination used when the backend names none.
func WithCallbackURL(target string) Option {
	return func(o *Orchestrator) {
		if target != "" {
			o.callbackURL = target
		}
	}
}

// WithLogger sets the logger receiving one event per transition.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver registers a callback invoked with every new state, outside the
// lock and in transition order. Observers are never called concurrently.
func WithObserver(fn func(State)) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// Orchestrator owns the login form state. It is safe for concurrent use.
type Orchestrator struct {
	submitter   Submitter
	navigator   Navigator
	delay       time.Duration
	callbackURL string
	logger      *zap.Logger
	observers   []func(State)

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu       sync.Mutex
	state    State
	inflight context.CancelFunc
	wg       sync.WaitGroup
	navDone  chan struct{}

	// pending holds snapshots not yet delivered to observers; flushing is
	// set while one goroutine delivers them.
	pending  []State
	flushing bool
}

// New constructs an Orchestrator in the Idle state.
func New(submitter Submitter, navigator Navigator, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		submitter:   submitter,
		navigator:   navigator,
		delay:       DefaultRedirectDelay,
		callbackURL: DefaultCallbackURL,
		logger:      zap.NewNop(),
		baseCtx:     ctx,
		baseCancel:  cancel,
		state:       State{Status: StatusIdle},
		navDone:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns a snapshot of the current form state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// Navigated is closed once navigation has happened.
func (o *Orchestrator) Navigated() <-chan struct{} {
	return o.navDone
}

// Submit validates the input locally and, when well formed, starts an
// asynchronous submission that supersedes any in-flight one. Submissions
// after success are ignored. The returned state reflects the synchronous
// transition (Error for field errors, Submitting otherwise).
func (o *Orchestrator) Submit(email, password string) State {
	o.mu.Lock()

	switch o.state.Status {
	case StatusSuccess, StatusRedirecting, StatusNavigated:
		snapshot := o.state.clone()
		o.mu.Unlock()
		o.logger.Debug("login submit ignored", zap.Stringer("status", snapshot.Status))
		return snapshot
	}
	if o.baseCtx.Err() != nil {
		snapshot := o.state.clone()
		o.mu.Unlock()
		return snapshot
	}

	if o.inflight != nil {
		o.inflight()
		o.inflight = nil
	}
	o.state.Submission++
	submission := o.state.Submission

	cred, fieldErrs := auth.ValidateCredential(email, password)
	if fieldErrs != nil {
		next := State{Status: StatusError, FieldErrors: fieldErrs, Submission: submission}
		snapshot := o.transitionLocked(next, "local validation failed")
		o.mu.Unlock()
		o.flush()
		return snapshot
	}

	ctx, cancel := context.WithCancel(o.baseCtx)
	o.inflight = cancel
	snapshot := o.transitionLocked(State{Status: StatusSubmitting, Submission: submission}, "submission started")
	o.wg.Add(1)
	o.mu.Unlock()
	o.flush()

	go o.run(ctx, submission, cred)
	return snapshot
}

// Wait blocks until every background submission and pending navigation has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close cancels any in-flight submission or pending navigation and waits for them.
func (o *Orchestrator) Close() {
	o.baseCancel()
	o.wg.Wait()
}

func (o *Orchestrator) run(ctx context.Context, submission uint64, cred auth.Credential) {
	defer o.wg.Done()

	outcome := o.submit(ctx, cred)

	o.mu.Lock()
	if submission != o.state.Submission || o.state.Status != StatusSubmitting {
		o.mu.Unlock()
		o.logger.Debug("login outcome discarded", zap.Uint64("submission", submission))
		return
	}
	o.inflight = nil

	var next State
	switch out := outcome.(type) {
	case Granted:
		next = State{Status: StatusSuccess, Target: o.targetOr(out.Target), Submission: submission}
	case Redirected:
		next = State{Status: StatusSuccess, Target: o.targetOr(out.Target), Submission: submission}
	case Denied:
		msg := out.Message
		if msg == "" {
			msg = auth.MessageTransient
		}
		next = State{Status: StatusError, Message: msg, Submission: submission}
	case Invalid:
		next = State{Status: StatusError, FieldErrors: out.FieldErrors, Submission: submission}
	default:
		next = State{Status: StatusError, Message: auth.MessageTransient, Submission: submission}
	}
	snapshot := o.transitionLocked(next, "submission settled")
	o.mu.Unlock()
	o.flush()

	if snapshot.Status == StatusSuccess {
		o.redirectAfterDelay(submission)
	}
}

func (o *Orchestrator) submit(ctx context.Context, cred auth.Credential) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Error("login submitter panic", zap.Any("panic", rec))
			outcome = transientDenied()
		}
	}()
	if o.submitter == nil {
		return transientDenied()
	}
	return o.submitter.Submit(ctx, cred, o.callbackURL)
}

func (o *Orchestrator) redirectAfterDelay(submission uint64) {
	timer := time.NewTimer(o.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-o.baseCtx.Done():
		o.logger.Debug("login navigation cancelled", zap.Uint64("submission", submission))
		return
	}

	o.mu.Lock()
	if o.state.Status != StatusSuccess || o.state.Submission != submission {
		o.mu.Unlock()
		return
	}
	next := o.state
	next.Status = StatusRedirecting
	snapshot := o.transitionLocked(next, "redirect delay elapsed")
	o.mu.Unlock()
	o.flush()

	if o.navigator != nil {
		o.navigator.Navigate(snapshot.Target)
	}

	o.mu.Lock()
	next = o.state
	next.Status = StatusNavigated
	o.transitionLocked(next, "navigated")
	close(o.navDone)
	o.mu.Unlock()
	o.flush()
}

func (o *Orchestrator) targetOr(target string) string {
	if target == "" {
		return o.callbackURL
	}
	return target
}

func (o *Orchestrator) transitionLocked(next State, cause string) State {
	prev := o.state.Status
	o.state = next
	fields := []zap.Field{
		zap.Stringer("from", prev),
		zap.Stringer("to", next.Status),
		zap.Uint64("submission", next.Submission),
		zap.String("cause", cause),
	}
	if next.Target != "" {
		fields = append(fields, zap.String("target", next.Target))
	}
	if next.Message != "" {
		fields = append(fields, zap.String("message", next.Message))
	}
	if len(next.FieldErrors) > 0 {
		invalid := make([]string, 0, len(next.FieldErrors))
		for field := range next.FieldErrors {
			invalid = append(invalid, field)
		}
		fields = append(fields, zap.Strings("invalid_fields", invalid))
	}
	o.logger.Info("login transition", fields...)
	if len(o.observers) > 0 {
		o.pending = append(o.pending, next.clone())
	}
	return next.clone()
}

// flush delivers queued snapshots. A goroutine that finds another one
// already delivering leaves its snapshots to that goroutine.
func (o *Orchestrator) flush() {
	o.mu.Lock()
	if o.flushing {
		o.mu.Unlock()
		return
	}
	o.flushing = true
	for {
		batch := o.pending
		o.pending = nil
		if len(batch) == 0 {
			o.flushing = false
			o.mu.Unlock()
			return
		}
		o.mu.Unlock()
		for _, s := range batch {
			for _, fn := range o.observers {
				fn(s)
			}
		}
		o.mu.Lock()
	}
}

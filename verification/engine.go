// Package verification implements the payment verification state machine:
// the bridge between the gateway redirect and permit issuance. It consumes
// a resume token once, polls verify-by-reference on a bounded budget, and
// resolves every entry to an issued permit or a typed failure. It never
// hangs: budget exhaustion is itself a reported, retryable failure.
package verification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"permit-portal/errors"
	"permit-portal/logger"
	"permit-portal/models"
)

// Verifier is the gateway's verify-by-reference operation.
type Verifier interface {
	VerifyByReference(ctx context.Context, reference string) (*models.VerificationResult, error)
}

// PermitFetcher is the idempotent get-or-create permit operation.
type PermitFetcher interface {
	GetOrCreatePermit(ctx context.Context, code string, profile *models.StudentProfile) (*models.Permit, error)
}

// State is the engine's position in the workflow.
type State int

const (
	StateIdle State = iota
	StatePending
	StateVerifying
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateVerifying:
		return "verifying"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config bounds the polling loop. The budget is explicit: exhaustion
// resolves to a retryable timeout instead of polling forever.
type Config struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultConfig is the production cadence: 10s ticks, 30 attempts.
func DefaultConfig() Config {
	return Config{Interval: 10 * time.Second, MaxAttempts: 30}
}

// Engine drives one verification session. Build one per resume token; the
// token is consumed by Run and the engine is not reusable afterwards.
type Engine struct {
	verifier Verifier
	permits  PermitFetcher
	cfg      Config

	mu        sync.Mutex
	state     State
	attempts  int
	startedAt time.Time
	inFlight  bool
	reference string
	profile   *models.StudentProfile
	permit    *models.Permit
	result    *models.VerificationResult
	lastErr   error
	poller    *Poller
}

// Snapshot is the engine's user-facing progress: current state, verify
// attempts so far, wall-clock time since entry, and the terminal error if
// any.
type Snapshot struct {
	State    State
	Attempts int
	Elapsed  time.Duration
	Err      error
}

// NewEngine builds an engine over the given collaborators.
func NewEngine(verifier Verifier, permits PermitFetcher, cfg Config) *Engine {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	return &Engine{
		verifier: verifier,
		permits:  permits,
		cfg:      cfg,
		state:    StateIdle,
	}
}

// Run consumes the resume token and drives the workflow to a terminal
// state. A token with a permit code and no reference means verification
// already succeeded on an earlier visit, so the engine skips straight to
// permit fetch. Run blocks until success, a typed failure, or context
// cancellation.
func (e *Engine) Run(ctx context.Context, token models.ResumeToken, profile *models.StudentProfile) (*models.Permit, error) {
	e.mu.Lock()
	e.startedAt = time.Now()
	e.profile = profile
	e.reference = token.Reference
	e.mu.Unlock()

	if token.Empty() {
		return nil, e.fail(errors.E(errors.MissingReference,
			"no transaction reference or permit code present; start the payment from the request form"))
	}

	// Reload shortcut: a permit code with no reference is evidence that
	// verification already succeeded, so do not re-run payment checks.
	if token.Reference == "" {
		return e.issue(ctx, token.PermitCode, false)
	}

	if done := e.step(ctx); done {
		return e.outcome()
	}

	// First verify came back PENDING: poll until terminal or budget spent.
	e.mu.Lock()
	e.poller = NewPoller(e.cfg.Interval)
	p := e.poller
	e.mu.Unlock()

	err := p.Run(ctx, func() bool { return e.step(ctx) })
	if err != nil {
		// Teardown or context cancellation; an in-flight verify call may
		// still complete but its result is discarded.
		return nil, e.fail(errors.E(errors.Internal, "verification aborted", err))
	}

	return e.outcome()
}

// Stop tears down any active polling. Idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	p := e.poller
	e.mu.Unlock()
	if p != nil {
		p.Stop()
	}
}

// Result returns the last gateway verification result, or nil when no
// verify call completed (the reload shortcut, or a failure before the
// first response).
func (e *Engine) Result() *models.VerificationResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Snapshot reports current progress for user-facing feedback.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	var elapsed time.Duration
	if !e.startedAt.IsZero() {
		elapsed = time.Since(e.startedAt)
	}
	return Snapshot{
		State:    e.state,
		Attempts: e.attempts,
		Elapsed:  elapsed,
		Err:      e.lastErr,
	}
}

// step performs one verification attempt. It returns true when the engine
// has reached a terminal state. A step is suppressed (returns false
// without a network call) while a previous verify call is still in
// flight, so ticks never produce overlapping calls.
func (e *Engine) step(ctx context.Context) bool {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return false
	}
	if e.attempts >= e.cfg.MaxAttempts {
		e.state = StateFailed
		e.lastErr = errors.E(errors.Timeout,
			fmt.Sprintf("payment not confirmed after %d verification attempts; try verifying again", e.cfg.MaxAttempts))
		e.mu.Unlock()
		return true
	}
	e.inFlight = true
	e.attempts++
	e.state = StateVerifying
	reference := e.reference
	e.mu.Unlock()

	result, err := e.verifier.VerifyByReference(ctx, reference)

	e.mu.Lock()
	e.inFlight = false
	e.mu.Unlock()

	if err != nil {
		if errors.KindOf(err) == errors.Other {
			err = errors.E(errors.Network, "verification call failed", err)
		}
		e.fail(err)
		return true
	}

	e.mu.Lock()
	e.result = result
	e.mu.Unlock()

	switch result.Status {
	case models.PaymentSuccess:
		code := result.PermitCode
		if code == "" {
			code = models.DerivePermitCode(reference)
		}
		e.issue(ctx, code, true)
		return true
	case models.PaymentFailed:
		// A FAILED verification never proceeds to permit fetch, even when
		// the response carries a permit code.
		msg := result.Message
		if msg == "" {
			msg = "the gateway reported the payment as failed"
		}
		e.fail(errors.E(errors.VerificationFailed, msg))
		return true
	default:
		e.mu.Lock()
		e.state = StatePending
		e.mu.Unlock()
		return false
	}
}

// issue fetches (or idempotently creates) the permit. With postPayment
// set, a confirmed payment precedes the call and any failure outranks
// ordinary retryable errors: money has been captured, so the caller is
// sent to support instead of back into the payment loop. Only the reload
// shortcut keeps malformed or unknown codes as their own kinds, since no
// payment was verified on that visit.
func (e *Engine) issue(ctx context.Context, code string, postPayment bool) (*models.Permit, error) {
	e.mu.Lock()
	profile := e.profile
	e.mu.Unlock()

	permit, err := e.permits.GetOrCreatePermit(ctx, code, profile)
	if err != nil {
		logger.Error("Permit issuance failed for code %s: %v", code, err)
		if !postPayment {
			if k := errors.KindOf(err); k == errors.Invalid || k == errors.NotFound {
				return nil, e.fail(err)
			}
		}
		return nil, e.fail(errors.E(errors.PermitGenerationFailed,
			"payment was confirmed but the permit could not be issued; contact support with your reference", err))
	}

	e.mu.Lock()
	e.permit = permit
	e.state = StateSuccess
	e.lastErr = nil
	e.mu.Unlock()
	return permit, nil
}

func (e *Engine) fail(err error) error {
	e.mu.Lock()
	e.state = StateFailed
	e.lastErr = err
	e.mu.Unlock()
	return err
}

func (e *Engine) outcome() (*models.Permit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastErr != nil {
		return nil, e.lastErr
	}
	return e.permit, nil
}

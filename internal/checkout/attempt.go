// Package checkout models one checkout attempt as it moves through the
// storefront: Cart -> Details -> Payment, then a single asynchronous
// resolution when the hosted payment UI calls back (or the user walks away).
package checkout

import (
	"context"
	"errors"
	"sync"
)

type Step int

const (
	StepCart Step = iota + 1
	StepDetails
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepCart:
		return "cart"
	case StepDetails:
		return "details"
	case StepPayment:
		return "payment"
	default:
		return "unknown"
	}
}

// OutcomeKind distinguishes user abandonment from technical failure:
// a dismissed hosted UI is Cancelled, not Failed, and keeps the cart.
type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota + 1
	OutcomeCancelled
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CallbackPayload is what the gateway's client library hands back after the
// user completes payment. Single use; verified exactly once.
type CallbackPayload struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

type Outcome struct {
	Kind    OutcomeKind
	Payload CallbackPayload
	Err     error
}

var (
	ErrForwardOnly = errors.New("checkout steps advance forward only")
	ErrResolved    = errors.New("checkout attempt already resolved")
	ErrNotBound    = errors.New("attempt has no gateway order yet")
)

// Attempt is a forward-only step machine plus a single-shot completion
// future. Resolution methods succeed at most once across all of them.
type Attempt struct {
	mu       sync.Mutex
	step     Step
	gwOrder  string
	resolved bool
	outcome  Outcome
	done     chan struct{}
}

func NewAttempt() *Attempt {
	return &Attempt{step: StepCart, done: make(chan struct{})}
}

func (a *Attempt) Step() Step {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.step
}

// Advance moves one step forward; it cannot pass the payment step.
func (a *Attempt) Advance() (Step, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.resolved {
		return a.step, ErrResolved
	}
	if a.step >= StepPayment {
		return a.step, ErrForwardOnly
	}
	a.step++
	return a.step, nil
}

// Back is the one allowed backward move, a single explicit step.
func (a *Attempt) Back() (Step, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.resolved {
		return a.step, ErrResolved
	}
	if a.step > StepCart {
		a.step--
	}
	return a.step, nil
}

// Bind attaches the gateway order handle. The attempt must already stand
// at the payment step; earlier steps cannot hold a gateway order.
func (a *Attempt) Bind(gatewayOrderID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.resolved {
		return ErrResolved
	}
	if a.step != StepPayment {
		return ErrForwardOnly
	}
	a.gwOrder = gatewayOrderID
	return nil
}

// Begin walks a fresh attempt through the steps a checkout request has
// already satisfied: the request carries the reviewed cart and the delivery
// details, so the attempt lands on the payment step bound to the gateway
// order and waits for the hosted UI callback.
func Begin(gatewayOrderID string) (*Attempt, error) {
	a := NewAttempt()
	if _, err := a.Advance(); err != nil { // cart reviewed
		return nil, err
	}
	if _, err := a.Advance(); err != nil { // delivery details supplied
		return nil, err
	}
	if err := a.Bind(gatewayOrderID); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Attempt) GatewayOrderID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gwOrder
}

func (a *Attempt) Complete(p CallbackPayload) error {
	return a.resolve(Outcome{Kind: OutcomeCompleted, Payload: p})
}

// Cancel records user dismissal of the hosted UI. Not an error condition:
// the cart survives and the attempt can be replaced by a fresh one.
func (a *Attempt) Cancel() error {
	return a.resolve(Outcome{Kind: OutcomeCancelled})
}

func (a *Attempt) Fail(err error) error {
	return a.resolve(Outcome{Kind: OutcomeFailed, Err: err})
}

func (a *Attempt) resolve(o Outcome) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.resolved {
		return ErrResolved
	}
	if a.gwOrder == "" && o.Kind == OutcomeCompleted {
		return ErrNotBound
	}
	a.resolved = true
	a.outcome = o
	close(a.done)
	return nil
}

// Outcome blocks until the attempt resolves or ctx expires.
func (a *Attempt) Outcome(ctx context.Context) (Outcome, error) {
	select {
	case <-a.done:
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Resolved reports whether the future has fired, without blocking.
func (a *Attempt) Resolved() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resolved
}

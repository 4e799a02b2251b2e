package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func begun(t *testing.T, gatewayOrderID string) *Attempt {
	t.Helper()
	a, err := Begin(gatewayOrderID)
	require.NoError(t, err)
	return a
}

func TestBeginLandsOnPaymentStep(t *testing.T) {
	a := begun(t, "gw_order_1")
	require.Equal(t, StepPayment, a.Step())
	require.Equal(t, "gw_order_1", a.GatewayOrderID())
	require.False(t, a.Resolved())
}

func TestBindRequiresPaymentStep(t *testing.T) {
	a := NewAttempt()
	require.ErrorIs(t, a.Bind("gw_order_1"), ErrForwardOnly)

	_, err := a.Advance()
	require.NoError(t, err)
	require.ErrorIs(t, a.Bind("gw_order_1"), ErrForwardOnly)

	_, err = a.Advance()
	require.NoError(t, err)
	require.NoError(t, a.Bind("gw_order_1"))
}

func TestStepsAdvanceForwardOnly(t *testing.T) {
	a := NewAttempt()
	require.Equal(t, StepCart, a.Step())

	step, err := a.Advance()
	require.NoError(t, err)
	require.Equal(t, StepDetails, step)

	step, err = a.Advance()
	require.NoError(t, err)
	require.Equal(t, StepPayment, step)

	// cannot pass the payment step
	_, err = a.Advance()
	require.ErrorIs(t, err, ErrForwardOnly)
	require.Equal(t, StepPayment, a.Step())
}

func TestBackStepsOneAtATime(t *testing.T) {
	a := NewAttempt()
	_, _ = a.Advance()
	_, _ = a.Advance()

	step, err := a.Back()
	require.NoError(t, err)
	require.Equal(t, StepDetails, step)

	step, err = a.Back()
	require.NoError(t, err)
	require.Equal(t, StepCart, step)

	// already at the first step
	step, err = a.Back()
	require.NoError(t, err)
	require.Equal(t, StepCart, step)
}

func TestCompleteResolvesOnce(t *testing.T) {
	a := begun(t, "gw_order_1")

	payload := CallbackPayload{GatewayOrderID: "gw_order_1", GatewayPaymentID: "pay_1", Signature: "sig"}
	require.NoError(t, a.Complete(payload))

	// single-shot: every further resolution fails
	require.ErrorIs(t, a.Complete(payload), ErrResolved)
	require.ErrorIs(t, a.Cancel(), ErrResolved)
	require.ErrorIs(t, a.Fail(context.Canceled), ErrResolved)

	out, err := a.Outcome(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeCompleted, out.Kind)
	require.Equal(t, payload, out.Payload)
}

func TestCompleteRequiresBoundGatewayOrder(t *testing.T) {
	a := NewAttempt()
	err := a.Complete(CallbackPayload{GatewayOrderID: "gw_order_1"})
	require.ErrorIs(t, err, ErrNotBound)
	require.False(t, a.Resolved())
}

func TestCancelIsDistinctFromFailure(t *testing.T) {
	a := begun(t, "gw_order_1")
	require.NoError(t, a.Cancel())

	out, err := a.Outcome(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeCancelled, out.Kind)
	require.NoError(t, out.Err)
}

func TestOutcomeWaitsForResolution(t *testing.T) {
	a := begun(t, "gw_order_1")

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = a.Fail(context.DeadlineExceeded)
	}()

	out, err := a.Outcome(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeFailed, out.Kind)
	require.ErrorIs(t, out.Err, context.DeadlineExceeded)
}

func TestOutcomeHonoursContext(t *testing.T) {
	a := NewAttempt()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := a.Outcome(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestManagerTrackAndResolve(t *testing.T) {
	m := NewManager()

	a := begun(t, "gw_order_1")
	m.Track("u1", a)

	got, ok := m.Lookup("gw_order_1")
	require.True(t, ok)
	require.Same(t, a, got)

	payload := CallbackPayload{GatewayOrderID: "gw_order_1", GatewayPaymentID: "pay_1"}
	require.NoError(t, m.Complete(payload))

	// resolved attempts are dropped
	_, ok = m.Lookup("gw_order_1")
	require.False(t, ok)
	require.ErrorIs(t, m.Complete(payload), ErrUnknownAttempt)
}

func TestManagerCancelUnknown(t *testing.T) {
	m := NewManager()
	require.ErrorIs(t, m.Cancel("nope"), ErrUnknownAttempt)
}

func TestManagerReplacesAbandonedAttempt(t *testing.T) {
	m := NewManager()

	old := begun(t, "gw_order_1")
	m.Track("u1", old)

	// the user started over; the stale attempt resolves cancelled
	fresh := begun(t, "gw_order_2")
	m.Track("u1", fresh)

	out, err := old.Outcome(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeCancelled, out.Kind)

	_, ok := m.Lookup("gw_order_1")
	require.False(t, ok)
	_, ok = m.Lookup("gw_order_2")
	require.True(t, ok)
}

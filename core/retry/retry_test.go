package retry_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/parsekit/core/ledger"
	"github.com/dmitrymomot/parsekit/core/retry"
	"github.com/dmitrymomot/parsekit/core/scheduler"
)

// failing returns a unit that fails the first n calls and then succeeds with v.
func failing(n int32, v string, calls *atomic.Int32) scheduler.Unit[string] {
	return func(context.Context) (string, error) {
		if calls.Add(1) <= n {
			return "", errors.New("transient")
		}
		return v, nil
	}
}

func TestWrap_SucceedsOnLastAttempt(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	l := ledger.NewLedger()
	p := retry.Policy{MaxTries: 3, Delay: time.Millisecond}

	unit := retry.Wrap(failing(2, "ok", &calls), "https://example.com/1", p, l)
	v, err := unit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(3), calls.Load())
	assert.Zero(t, l.Len(), "successful unit must not touch the ledger")
}

func TestWrap_ExhaustedRecordsOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	l := ledger.NewLedger()
	p := retry.Policy{MaxTries: 3, Delay: 0}

	unit := retry.Wrap(failing(100, "never", &calls), "https://example.com/2", p, l)
	v, err := unit(context.Background())

	require.ErrorIs(t, err, scheduler.ErrNoResult)
	assert.Empty(t, v)
	assert.Equal(t, int32(3), calls.Load())

	records := l.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "https://example.com/2", records[0].Label)
	assert.EqualError(t, records[0].Err, "transient")
}

func TestWrap_SingleTry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	l := ledger.NewLedger()

	unit := retry.Wrap(failing(1, "x", &calls), "item", retry.Policy{MaxTries: 1}, l)
	_, err := unit(context.Background())

	require.ErrorIs(t, err, scheduler.ErrNoResult)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, l.Len())
}

func TestWrap_WaitsBetweenAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	p := retry.Policy{MaxTries: 3, Delay: 20 * time.Millisecond}

	start := time.Now()
	_, err := retry.Wrap(failing(2, "ok", &calls), "item", p, nil)(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestWrap_Permanent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	l := ledger.NewLedger()
	notFound := ledger.New(ledger.KindHTTPStatus, "status 404")

	unit := retry.Wrap(func(context.Context) (int, error) {
		calls.Add(1)
		return 0, retry.Permanent(notFound)
	}, "item", retry.Policy{MaxTries: 5, Delay: time.Second}, l)

	_, err := unit(context.Background())
	require.ErrorIs(t, err, scheduler.ErrNoResult)
	assert.Equal(t, int32(1), calls.Load())

	records := l.Records()
	require.Len(t, records, 1)
	assert.Equal(t, notFound, records[0].Err)
	assert.Equal(t, ledger.KindHTTPStatus, records[0].Kind)
}

func TestWrap_CancelledDuringDelay(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	l := ledger.NewLedger()

	unit := retry.Wrap(func(context.Context) (int, error) {
		cancel()
		return 0, errors.New("fail")
	}, "item", retry.Policy{MaxTries: 3, Delay: time.Minute}, l)

	start := time.Now()
	_, err := unit(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
	assert.Zero(t, l.Len())
}

func TestWrap_NoResultPassesThrough(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	l := ledger.NewLedger()

	unit := retry.Wrap(func(context.Context) (int, error) {
		calls.Add(1)
		return 0, scheduler.ErrNoResult
	}, "item", retry.Policy{MaxTries: 4}, l)

	_, err := unit(context.Background())
	require.ErrorIs(t, err, scheduler.ErrNoResult)
	assert.Equal(t, int32(1), calls.Load())
	assert.Zero(t, l.Len())
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, retry.DefaultPolicy().Validate())
	assert.NoError(t, retry.Policy{MaxTries: 1}.Validate())
	assert.ErrorIs(t, retry.Policy{MaxTries: 0}.Validate(), retry.ErrInvalidPolicy)
	assert.ErrorIs(t, retry.Policy{MaxTries: 1, Delay: -time.Second}.Validate(), retry.ErrInvalidPolicy)
}

func TestPermanent(t *testing.T) {
	t.Parallel()

	base := errors.New("bad request")
	err := retry.Permanent(base)
	assert.True(t, retry.IsPermanent(err))
	assert.ErrorIs(t, err, base)
	assert.False(t, retry.IsPermanent(base))
	assert.Nil(t, retry.Permanent(nil))
}

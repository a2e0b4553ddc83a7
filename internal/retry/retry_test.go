package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackoff_PureExponential(t *testing.T) {
	require.Equal(t, time.Second, Backoff(1, time.Second))
	require.Equal(t, 2*time.Second, Backoff(2, time.Second))
	require.Equal(t, 4*time.Second, Backoff(3, time.Second))
	require.Equal(t, 500*time.Millisecond, Backoff(1, 500*time.Millisecond))
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	var slept []time.Duration

	v, err := Do(context.Background(), "download", func() (string, error) {
		calls++
		return "ok", nil
	}, WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	require.NoError(t, err)
	require.Equal(t, "ok", v)
	require.Equal(t, 1, calls)
	require.Empty(t, slept)
}

func TestDo_RecoversAfterFailures(t *testing.T) {
	calls := 0
	var slept []time.Duration

	v, err := Do(context.Background(), "download", func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	}, WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, 3, calls)
	// k=2 failures: delays are base*2^0 and base*2^1.
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
}

func TestDo_Exhaustion(t *testing.T) {
	calls := 0
	cause := errors.New("network down")

	_, err := Do(context.Background(), "upload", func() (string, error) {
		calls++
		return "", cause
	}, WithSleep(func(time.Duration) {}))

	require.Error(t, err)
	require.Equal(t, 3, calls)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "upload")
	require.Contains(t, err.Error(), "3 attempts")
}

func TestDo_NoSleepAfterFinalAttempt(t *testing.T) {
	var slept []time.Duration

	_, err := Do(context.Background(), "upload", func() (string, error) {
		return "", errors.New("always")
	}, WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	require.Error(t, err)
	require.Len(t, slept, 2)
}

func TestDo_CustomOptions(t *testing.T) {
	calls := 0
	var slept []time.Duration

	_, err := Do(context.Background(), "upload", func() (string, error) {
		calls++
		return "", errors.New("always")
	},
		WithMaxAttempts(5),
		WithBaseDelay(100*time.Millisecond),
		WithSleep(func(d time.Duration) { slept = append(slept, d) }),
	)

	require.Error(t, err)
	require.Equal(t, 5, calls)
	require.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
	}, slept)
	require.Contains(t, err.Error(), "5 attempts")
}

package monitor_test

import (
	"testing"

	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrimarySucceeds(t *testing.T) {
	calls := 0
	v, err := monitor.Resolve(
		func() (float64, error) { return 3600.0, nil },
		func() (float64, error) { calls++; return 0, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, 3600.0, v)
	assert.Equal(t, 0, calls, "secondary must not run when primary succeeds")
}

func TestResolveFallsBackToSecondary(t *testing.T) {
	v, err := monitor.Resolve(
		func() (float64, error) { return 0, errors.New().New(errors.ErrUnavailable) },
		func() (float64, error) { return 3200.0, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, 3200.0, v)
}

func TestResolvePreservesBothErrors(t *testing.T) {
	primaryErr := errors.New().WithMessage(errors.ErrUnavailable, "native counter missing")
	secondaryErr := errors.New().WithMessage(errors.ErrOperationFailed, "registry query failed")

	_, err := monitor.Resolve(
		func() (int, error) { return 0, primaryErr },
		func() (int, error) { return 0, secondaryErr },
	)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, monitor.ErrFallbackExhausted))

	var exhausted *monitor.FallbackExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, primaryErr, exhausted.Primary)
	assert.Equal(t, secondaryErr, exhausted.Secondary)
	assert.Contains(t, err.Error(), "native counter missing")
	assert.Contains(t, err.Error(), "registry query failed")
}

func TestMockBackend(t *testing.T) {
	mock := monitor.NewMock()
	mock.TemperatureValue = 48.5
	mock.Fans = []monitor.FanInfo{{Index: 0, SpeedRPM: 1500, MinRPM: 1000, MaxRPM: 5000, Percentage: 12.5}}

	temp, err := mock.Temperature()
	require.NoError(t, err)
	assert.Equal(t, 48.5, temp)

	count, err := mock.FanCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = mock.FanInfo(3)
	require.Error(t, err)

	mock.ThermalErr = errors.New().New(errors.ErrUnavailable)
	_, err = mock.ThermalInfo()
	require.Error(t, err)

	assert.Equal(t, 1, mock.Calls["temperature"])
	assert.Equal(t, 1, mock.Calls["thermal_info"])
}

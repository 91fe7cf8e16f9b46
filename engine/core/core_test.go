package core

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorKindsSurviveWrapping(t *testing.T) {
	cause := fmt.Errorf("VK_ERROR_OUT_OF_POOL_MEMORY")

	err := ResourceCreationFailure(cause, "allocating %d descriptor sets", 2)
	wrapped := errors.Wrap(err, "material")

	require.ErrorIs(t, wrapped, ErrResourceCreation)
	require.NotErrorIs(t, wrapped, ErrContractViolation)
	require.Equal(t, ErrResourceCreation, Kind(wrapped))
	require.Contains(t, wrapped.Error(), "VK_ERROR_OUT_OF_POOL_MEMORY")

	require.Equal(t, ErrContractViolation, Kind(ContractViolation("set %d out of range", 7)))
	require.Equal(t, ErrSynchronizationTimeout, Kind(SynchronizationTimeout(nil, "acquire")))
	require.Equal(t, ErrPresentation, Kind(PresentationFailure(cause, "present")))
	require.Nil(t, Kind(cause))
}

func TestErrorKindsVisibleToStandardLibrary(t *testing.T) {
	err := SynchronizationTimeout(stderrors.New("VK_TIMEOUT"), "waiting for frame fence")
	wrapped := fmt.Errorf("frame 3: %w", err)

	require.True(t, stderrors.Is(wrapped, ErrSynchronizationTimeout))
	require.False(t, stderrors.Is(wrapped, ErrResourceCreation))
	require.True(t, errors.Is(wrapped, ErrSynchronizationTimeout))
	require.Equal(t, ErrSynchronizationTimeout, Kind(wrapped))
	require.Contains(t, fmt.Sprintf("%+v", wrapped), "waiting for frame fence")

	require.True(t, stderrors.Is(ContractViolation("bad offset"), ErrContractViolation))
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() {
		require.NoError(t, SetLogLevel("debug"))
	})

	require.NoError(t, SetLogLevel("error"))
	LogInfo("hidden")
	require.Empty(t, buf.String())

	LogError("shown %d", 1)
	require.Contains(t, buf.String(), "shown 1")

	require.Error(t, SetLogLevel("loud"))
}

func TestClock(t *testing.T) {
	now := time.Unix(100, 0)
	c := &Clock{now: func() time.Time { return now }}

	c.Update()
	require.Zero(t, c.Elapsed())

	c.Start()
	now = now.Add(250 * time.Millisecond)
	c.Update()
	require.Equal(t, 250*time.Millisecond, c.Elapsed())

	c.Stop()
	now = now.Add(time.Second)
	c.Update()
	require.Equal(t, 250*time.Millisecond, c.Elapsed())
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < 101; i++ {
		m.Update(10 * time.Millisecond)
	}
	require.InDelta(t, 10.0, m.FrameTime(), 1e-9)
	require.Equal(t, 100.0, m.FPS())
}

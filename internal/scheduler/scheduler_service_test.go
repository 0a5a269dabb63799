package scheduler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestService_StartStopLifecycle(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	assert.False(t, svc.IsRunning())
	require.NoError(t, svc.Start())
	assert.True(t, svc.IsRunning())

	// Second start is rejected.
	require.Error(t, svc.Start())

	require.NoError(t, svc.Stop())
	assert.False(t, svc.IsRunning())

	// Stop on a stopped scheduler is a no-op.
	require.NoError(t, svc.Stop())
}

func TestService_IsRunningConcurrent(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				svc.IsRunning()
			}
		}()
	}
	require.NoError(t, svc.Start())
	wg.Wait()
	require.NoError(t, svc.Stop())
}

func TestService_RegisterDaily(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	require.NoError(t, svc.RegisterDaily("morning", "0 6 * * *", func() {}))
	assert.Error(t, svc.RegisterDaily("morning", "0 7 * * *", func() {}), "duplicate name rejected")
	assert.Error(t, svc.RegisterDaily("broken", "not a schedule", func() {}))
}

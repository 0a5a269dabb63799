package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_DailyCap(t *testing.T) {
	state := NewState(3)

	for i := 0; i < 3; i++ {
		assert.True(t, state.CanPost(), "post %d should be allowed", i+1)
		state.Increment()
	}

	assert.False(t, state.CanPost(), "cap reached")
	assert.Equal(t, 3, state.DailyCount())
}

func TestState_ResetResumesPosting(t *testing.T) {
	state := NewState(1)
	state.Increment()
	state.Add("posted content")

	assert.False(t, state.CanPost())
	assert.True(t, state.Contains("posted content"))

	state.Reset()

	assert.Equal(t, 0, state.DailyCount())
	assert.True(t, state.CanPost())
	assert.False(t, state.Contains("posted content"))
}

func TestState_Contains(t *testing.T) {
	state := NewState(10)

	assert.False(t, state.Contains("x"))
	state.Add("x")
	assert.True(t, state.Contains("x"))
	assert.False(t, state.Contains("y"))
}

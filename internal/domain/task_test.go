package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAfterProgress(t *testing.T) {
	tests := []struct {
		current  SubtaskStatus
		progress Progress
		want     SubtaskStatus
	}{
		{SubtaskAssigned, ProgressInProgress, SubtaskTaken},
		{SubtaskTaken, ProgressInProgress, SubtaskTaken},
		{SubtaskAssigned, ProgressTesting, SubtaskAssigned},
		{SubtaskTaken, ProgressCompleted, SubtaskCompleted},
		{SubtaskAvailable, ProgressCompleted, SubtaskCompleted},
		{SubtaskCompleted, ProgressInProgress, SubtaskCompleted},
		{SubtaskTaken, ProgressNotStarted, SubtaskTaken},
	}

	for _, tt := range tests {
		t.Run(string(tt.current)+"/"+string(tt.progress), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusAfterProgress(tt.current, tt.progress))
		})
	}
}

func TestProgressValid(t *testing.T) {
	for _, p := range []Progress{ProgressNotStarted, ProgressAssigned, ProgressInProgress, ProgressTesting, ProgressCompleted} {
		assert.True(t, p.Valid(), p)
	}
	assert.False(t, Progress("done").Valid())
	assert.False(t, Progress("").Valid())
}

func TestInitialAssignment(t *testing.T) {
	status, progress := InitialAssignment(nil)
	assert.Equal(t, SubtaskAvailable, status)
	assert.Equal(t, ProgressNotStarted, progress)

	id := int64(7)
	status, progress = InitialAssignment(&id)
	assert.Equal(t, SubtaskAssigned, status)
	assert.Equal(t, ProgressAssigned, progress)
}

func TestTaskProgressPercent(t *testing.T) {
	assert.Equal(t, 0, (&Task{}).ProgressPercent())
	assert.Equal(t, 33, (&Task{TotalSubtasks: 3, CompletedSubtasks: 1}).ProgressPercent())
	assert.Equal(t, 67, (&Task{TotalSubtasks: 3, CompletedSubtasks: 2}).ProgressPercent())
}

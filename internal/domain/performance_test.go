package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0, CompletionRate(0, 0))
	assert.Equal(t, 75, CompletionRate(3, 4))
	assert.Equal(t, 67, CompletionRate(2, 3))
	assert.Equal(t, 50, CompletionRate(1, 2))
	assert.Equal(t, 100, CompletionRate(5, 5))
}

func TestBuildPerformanceOrdering(t *testing.T) {
	members := []User{{ID: 1, Name: "Bea"}, {ID: 2, Name: "Al"}, {ID: 3, Name: "Cy"}, {ID: 4, Name: "Di"}}
	counts := map[int64]SubtaskCounts{
		1: {Total: 2, Completed: 1},
		2: {Total: 4, Completed: 2},
		3: {Total: 2, Completed: 1},
	}

	got := BuildPerformance(members, counts)

	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Al", "Bea", "Cy", "Di"}, names)
	assert.Equal(t, 50, got[0].CompletionRate)
	assert.Equal(t, 0, got[3].CompletionRate)
	assert.Equal(t, 0, got[3].TotalTasks)
}

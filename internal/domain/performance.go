package domain

import (
	"math"
	"sort"
)

type MemberPerformance struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	UserID          int64  `json:"id"`
	TotalTasks      int    `json:"total_tasks"`
	CompletedTasks  int    `json:"completed_tasks"`
	InProgressTasks int    `json:"in_progress_tasks"`
	PendingTasks    int    `json:"pending_tasks"`
	CompletionRate  int    `json:"completion_rate"`
}

// SubtaskCounts is one row of the grouped subtask aggregation.
type SubtaskCounts struct {
	AssignedTo int64
	Total      int
	Completed  int
	InProgress int
	Pending    int
}

// CompletionRate is completed/total as a rounded percentage, 0 without tasks.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// BuildPerformance joins members with their counts and orders the result by
// completion rate, then completed tasks, then name.
func BuildPerformance(members []User, counts map[int64]SubtaskCounts) []MemberPerformance {
	out := make([]MemberPerformance, 0, len(members))
	for _, m := range members {
		c := counts[m.ID]
		out = append(out, MemberPerformance{
			UserID:          m.ID,
			Name:            m.Name,
			Email:           m.Email,
			TotalTasks:      c.Total,
			CompletedTasks:  c.Completed,
			InProgressTasks: c.InProgress,
			PendingTasks:    c.Pending,
			CompletionRate:  CompletionRate(c.Completed, c.Total),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CompletionRate != out[j].CompletionRate {
			return out[i].CompletionRate > out[j].CompletionRate
		}
		if out[i].CompletedTasks != out[j].CompletedTasks {
			return out[i].CompletedTasks > out[j].CompletedTasks
		}
		return out[i].Name < out[j].Name
	})
	return out
}

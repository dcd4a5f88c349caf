package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
)

func approved(id int64) domain.Member {
	return domain.Member{ID: id, TeamCode: "ABC123", Status: domain.StatusApproved}
}

func taskFixture(t *testing.T) (*TaskService, *fakeTaskStore) {
	t.Helper()
	store := newFakeTaskStore()
	store.addWorker("ABC123", 1, 2, 3)
	store.addWorker("XYZ999", 9)
	return NewTaskService(store, store, store, discardLogger()), store
}

func createTask(t *testing.T, svc *TaskService, in CreateTaskInput) *domain.Task {
	t.Helper()
	if in.TeamCode == "" {
		in.TeamCode = "ABC123"
	}
	if in.Title == "" {
		in.Title = "Launch"
	}
	task, err := svc.CreateTask(context.Background(), teamLeader, in)
	require.NoError(t, err)
	return task
}

func TestCreateTask_AssignmentModes(t *testing.T) {
	svc, _ := taskFixture(t)

	open := createTask(t, svc, CreateTaskInput{
		Subtasks: []domain.NewSubtask{{Title: "Design", AssignedTo: ptr(int64(2))}, {Title: "Build"}},
	})
	require.Len(t, open.Subtasks, 2)
	for _, st := range open.Subtasks {
		assert.Nil(t, st.AssignedTo)
		assert.Equal(t, domain.SubtaskAvailable, st.Status)
		assert.Equal(t, domain.ProgressNotStarted, st.Progress)
	}

	assigned := createTask(t, svc, CreateTaskInput{
		AssignSpecific: true,
		Subtasks:       []domain.NewSubtask{{Title: "Design", AssignedTo: ptr(int64(2))}, {Title: "Build"}},
	})
	assert.Equal(t, domain.SubtaskAssigned, assigned.Subtasks[0].Status)
	assert.Equal(t, domain.ProgressAssigned, assigned.Subtasks[0].Progress)
	assert.Equal(t, int64(2), *assigned.Subtasks[0].AssignedTo)
	assert.Equal(t, domain.SubtaskAvailable, assigned.Subtasks[1].Status)
	assert.Equal(t, 2, assigned.TotalSubtasks)
}

func TestCreateTask_Rejects(t *testing.T) {
	svc, _ := taskFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   domain.Actor
		in      CreateTaskInput
		wantErr error
	}{
		{"no subtasks", teamLeader, CreateTaskInput{Title: "T", TeamCode: "ABC123"}, my_errors.ErrInvalidInput},
		{"no title", teamLeader, CreateTaskInput{TeamCode: "ABC123", Subtasks: []domain.NewSubtask{{Title: "a"}}}, my_errors.ErrEmptyField},
		{"blank subtask title", teamLeader, CreateTaskInput{Title: "T", TeamCode: "ABC123", Subtasks: []domain.NewSubtask{{Title: " "}}}, my_errors.ErrEmptyField},
		{"member", approved(2), CreateTaskInput{Title: "T", TeamCode: "ABC123", Subtasks: []domain.NewSubtask{{Title: "a"}}}, my_errors.ErrForbidden},
		{"other team", otherLeader, CreateTaskInput{Title: "T", TeamCode: "ABC123", Subtasks: []domain.NewSubtask{{Title: "a"}}}, my_errors.ErrForbidden},
		{
			"assignee outside team", teamLeader,
			CreateTaskInput{Title: "T", TeamCode: "ABC123", AssignSpecific: true, Subtasks: []domain.NewSubtask{{Title: "a", AssignedTo: ptr(int64(9))}}},
			my_errors.ErrAssigneeNotInTeam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(ctx, tt.actor, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTakeSubtask_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	svc, store := taskFixture(t)
	task := createTask(t, svc, CreateTaskInput{Subtasks: []domain.NewSubtask{{Title: "Hot"}}})
	id := task.Subtasks[0].ID

	const workers = 8
	ids := make([]int64, workers)
	for i := range ids {
		ids[i] = int64(100 + i)
	}
	store.addWorker("ABC123", ids...)

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		wins        []int64
		unavailable int
	)
	for _, uid := range ids {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_, err := svc.TakeSubtask(context.Background(), approved(uid), id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins = append(wins, uid)
			case errors.Is(err, my_errors.ErrSubtaskUnavailable):
				unavailable++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(uid)
	}
	wg.Wait()

	require.Len(t, wins, 1)
	assert.Equal(t, workers-1, unavailable)

	st, err := store.GetSubtask(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, wins[0], *st.AssignedTo)
	assert.Equal(t, domain.SubtaskTaken, st.Status)
	assert.Equal(t, domain.ProgressInProgress, st.Progress)
}

func TestTakeSubtask_Permissions(t *testing.T) {
	svc, _ := taskFixture(t)
	task := createTask(t, svc, CreateTaskInput{Subtasks: []domain.NewSubtask{{Title: "Hot"}}})
	id := task.Subtasks[0].ID
	ctx := context.Background()

	_, err := svc.TakeSubtask(ctx, domain.Member{ID: 5, TeamCode: "ABC123", Status: domain.StatusPending}, id)
	assert.ErrorIs(t, err, my_errors.ErrForbidden)

	_, err = svc.TakeSubtask(ctx, domain.Member{ID: 9, TeamCode: "XYZ999", Status: domain.StatusApproved}, id)
	assert.ErrorIs(t, err, my_errors.ErrForbidden)

	_, err = svc.TakeSubtask(ctx, approved(2), 4040)
	assert.ErrorIs(t, err, my_errors.ErrSubtaskNotFound)

	st, err := svc.TakeSubtask(ctx, teamLeader, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *st.AssignedTo)
}

func TestUpdateProgress(t *testing.T) {
	svc, _ := taskFixture(t)
	task := createTask(t, svc, CreateTaskInput{
		AssignSpecific: true,
		Subtasks:       []domain.NewSubtask{{Title: "Design", AssignedTo: ptr(int64(2))}},
	})
	id := task.Subtasks[0].ID
	ctx := context.Background()

	_, err := svc.UpdateProgress(ctx, approved(2), id, "halfway")
	assert.ErrorIs(t, err, my_errors.ErrInvalidProgress)

	_, err = svc.UpdateProgress(ctx, approved(3), id, domain.ProgressInProgress)
	assert.ErrorIs(t, err, my_errors.ErrForbidden)

	st, err := svc.UpdateProgress(ctx, approved(2), id, domain.ProgressInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.SubtaskTaken, st.Status)

	st, err = svc.UpdateProgress(ctx, approved(2), id, domain.ProgressTesting)
	require.NoError(t, err)
	assert.Equal(t, domain.SubtaskTaken, st.Status)
	assert.Equal(t, domain.ProgressTesting, st.Progress)

	st, err = svc.UpdateProgress(ctx, teamLeader, id, domain.ProgressCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.SubtaskCompleted, st.Status)

	got, err := svc.GetTask(ctx, approved(3), task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CompletedSubtasks)
	assert.Equal(t, 100, got.ProgressPercent())
}

func TestAssignAndEditSubtask(t *testing.T) {
	svc, _ := taskFixture(t)
	task := createTask(t, svc, CreateTaskInput{Subtasks: []domain.NewSubtask{{Title: "Design"}}})
	id := task.Subtasks[0].ID
	ctx := context.Background()

	_, err := svc.AssignSubtask(ctx, approved(2), id, 3)
	assert.ErrorIs(t, err, my_errors.ErrForbidden)
	_, err = svc.AssignSubtask(ctx, teamLeader, id, 9)
	assert.ErrorIs(t, err, my_errors.ErrAssigneeNotInTeam)

	st, err := svc.AssignSubtask(ctx, teamLeader, id, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.SubtaskAssigned, st.Status)
	assert.Equal(t, int64(3), *st.AssignedTo)

	st, err = svc.UpdateSubtask(ctx, teamLeader, id, domain.SubtaskEdit{Title: "Redesign"})
	require.NoError(t, err)
	assert.Equal(t, "Redesign", st.Title)
	assert.Nil(t, st.AssignedTo)
	assert.Equal(t, domain.SubtaskAvailable, st.Status)

	_, err = svc.UpdateSubtask(ctx, teamLeader, id, domain.SubtaskEdit{Title: ""})
	assert.ErrorIs(t, err, my_errors.ErrEmptyField)

	assert.ErrorIs(t, svc.DeleteSubtask(ctx, approved(2), id), my_errors.ErrForbidden)
	require.NoError(t, svc.DeleteSubtask(ctx, teamLeader, id))
	_, err = svc.AssignSubtask(ctx, teamLeader, id, 3)
	assert.ErrorIs(t, err, my_errors.ErrSubtaskNotFound)
}

func TestTaskEditAndFilters(t *testing.T) {
	svc, _ := taskFixture(t)
	ctx := context.Background()
	task := createTask(t, svc, CreateTaskInput{Subtasks: []domain.NewSubtask{{Title: "Only"}}})
	createTask(t, svc, CreateTaskInput{Title: "Second", Subtasks: []domain.NewSubtask{{Title: "Other"}}})

	_, err := svc.UpdateTask(ctx, approved(2), task.ID, "Hijack", "")
	assert.ErrorIs(t, err, my_errors.ErrForbidden)

	updated, err := svc.UpdateTask(ctx, teamLeader, task.ID, "Relaunch", "new plan")
	require.NoError(t, err)
	assert.Equal(t, "Relaunch", updated.Title)
	assert.Equal(t, "new plan", updated.Description)

	_, err = svc.UpdateProgress(ctx, teamLeader, task.Subtasks[0].ID, domain.ProgressCompleted)
	require.NoError(t, err)

	completed, err := svc.GetTeamTasks(ctx, approved(2), "ABC123", domain.TaskFilterCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, task.ID, completed[0].ID)

	active, err := svc.GetTeamTasks(ctx, approved(2), "ABC123", domain.TaskFilterActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Second", active[0].Title)

	all, err := svc.GetTeamTasks(ctx, approved(2), "ABC123", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.GetTeamTasks(ctx, approved(2), "ABC123", "archived")
	assert.ErrorIs(t, err, my_errors.ErrInvalidInput)
	_, err = svc.GetTeamTasks(ctx, otherLeader, "ABC123", domain.TaskFilterAll)
	assert.ErrorIs(t, err, my_errors.ErrForbidden)

	_, err = svc.GetTask(ctx, otherLeader, task.ID)
	assert.ErrorIs(t, err, my_errors.ErrForbidden)

	require.NoError(t, svc.DeleteTask(ctx, teamLeader, task.ID))
	_, err = svc.GetTask(ctx, teamLeader, task.ID)
	assert.ErrorIs(t, err, my_errors.ErrTaskNotFound)
}

func TestUserSubtasksVisibility(t *testing.T) {
	svc, _ := taskFixture(t)
	ctx := context.Background()
	createTask(t, svc, CreateTaskInput{
		AssignSpecific: true,
		Subtasks:       []domain.NewSubtask{{Title: "Mine", AssignedTo: ptr(int64(2))}, {Title: "Open"}},
	})

	own, err := svc.UserSubtasks(ctx, approved(2), 2)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Mine", own[0].Title)

	_, err = svc.UserSubtasks(ctx, approved(3), 2)
	assert.ErrorIs(t, err, my_errors.ErrForbidden)

	viaLeader, err := svc.UserSubtasks(ctx, teamLeader, 2)
	require.NoError(t, err)
	assert.Len(t, viaLeader, 1)

	_, err = svc.UserSubtasks(ctx, otherLeader, 2)
	assert.ErrorIs(t, err, my_errors.ErrForbidden)

	available, err := svc.AvailableSubtasks(ctx, approved(3), "ABC123")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Open", available[0].Title)
}

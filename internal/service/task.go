package service

import (
	"context"
	"errors"
	"strings"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
)

type TaskService struct {
	*baseService
}

type CreateTaskParams struct {
	ProjectID   string
	CadetID     string
	Title       string
	Description string
}

func (ts TaskService) CreateTask(ctx context.Context, principal Principal, params CreateTaskParams) (*model.Task, error) {
	if !principal.IsCurator() {
		return nil, newRoleViolation("task", "", "curatorId")
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, newValidationError("title", errors.New("title is required"))
	}
	if strings.TrimSpace(params.CadetID) == "" {
		return nil, newValidationError("cadetId", errors.New("cadet is required"))
	}

	task := &model.Task{
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		StatusCode:  constant.TaskStatusWaiting,
		ProjectID:   params.ProjectID,
		CadetID:     strings.TrimSpace(params.CadetID),
	}

	err := ts.store.WithTx(ctx, func(store Store) error {
		project, err := store.GetProjectById(ctx, params.ProjectID)
		if err != nil {
			return wrapStoreError(err, "project", params.ProjectID)
		}
		if !CanManageProject(principal, *project) {
			return newForbidden("project", params.ProjectID)
		}

		cadet, err := store.GetUserById(ctx, task.CadetID)
		if err != nil {
			return wrapStoreError(err, "user", task.CadetID)
		}
		if cadet.Role != constant.UserRoleCadet {
			return newRoleViolation("user", task.CadetID, "cadetId")
		}

		return wrapStoreError(store.CreateTask(ctx, task), "task", "")
	})
	if err != nil {
		return nil, err
	}

	ts.logger.Infow("Task created", "taskId", task.ID, "projectId", task.ProjectID, "cadetId", task.CadetID)
	return task, nil
}

// GetTaskForActor is the only read path for a single task. The first read by
// the assigned cadet starts the task.
func (ts TaskService) GetTaskForActor(ctx context.Context, principal Principal, taskId string) (*model.Task, error) {
	var task *model.Task
	err := ts.store.WithTx(ctx, func(store Store) error {
		var err error
		task, err = readableTask(ctx, store.LockTaskById, principal, taskId)
		if err != nil {
			return err
		}

		if CanWorkOnTask(principal, *task) && task.StatusCode == constant.TaskStatusWaiting {
			return ts.applyTransition(ctx, store, principal, task, TransitionStart)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (ts TaskService) ApproveTask(ctx context.Context, principal Principal, taskId string) (*model.Task, error) {
	return ts.review(ctx, principal, taskId, TransitionApprove)
}

func (ts TaskService) RejectTask(ctx context.Context, principal Principal, taskId string) (*model.Task, error) {
	return ts.review(ctx, principal, taskId, TransitionReject)
}

func (ts TaskService) review(ctx context.Context, principal Principal, taskId string, transition Transition) (*model.Task, error) {
	var task *model.Task
	err := ts.store.WithTx(ctx, func(store Store) error {
		var err error
		task, err = store.LockTaskById(ctx, taskId)
		if err != nil {
			return wrapStoreError(err, "task", taskId)
		}
		if !CanReviewTask(principal, task.Project) {
			return newForbidden("task", taskId)
		}
		return ts.applyTransition(ctx, store, principal, task, transition)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

type CadetProgress struct {
	Total    int64 `json:"total"`
	Done     int64 `json:"done"`
	InReview int64 `json:"inReview"`
}

// CadetProgress counts the tasks the task's cadet holds in the same project.
// Only the curator reviewing the project may see it.
func (ts TaskService) CadetProgress(ctx context.Context, principal Principal, task model.Task) (*CadetProgress, error) {
	if !CanReviewTask(principal, task.Project) {
		return nil, newForbidden("task", task.ID)
	}

	counts, err := ts.store.CountTasksByStatus(ctx, task.ProjectID, task.CadetID)
	if err != nil {
		return nil, wrapStoreError(err, "task", task.ID)
	}

	progress := &CadetProgress{
		Done:     counts[constant.TaskStatusDone],
		InReview: counts[constant.TaskStatusInReview],
	}
	for _, n := range counts {
		progress.Total += n
	}
	return progress, nil
}

// ListTasksFor returns every task to curators and only assigned tasks to cadets.
func (ts TaskService) ListTasksFor(ctx context.Context, principal Principal) ([]model.Task, error) {
	var (
		tasks []model.Task
		err   error
	)
	switch principal.Role {
	case constant.UserRoleCurator:
		tasks, err = ts.store.ListTasks(ctx)
	case constant.UserRoleCadet:
		tasks, err = ts.store.ListTasksForCadet(ctx, principal.ID)
	default:
		return nil, newForbidden("task", "")
	}
	if err != nil {
		return nil, wrapStoreError(err, "task", "")
	}
	return tasks, nil
}

// ListTaskFiles: curators see every file of the task, cadets only their own uploads.
func (ts TaskService) ListTaskFiles(ctx context.Context, principal Principal, taskId string) ([]model.File, error) {
	if _, err := readableTask(ctx, ts.store.GetTaskById, principal, taskId); err != nil {
		return nil, err
	}

	authorId := principal.ID
	if HasPermission(principal.Role, constant.FileListAll) {
		authorId = ""
	}

	files, err := ts.store.ListFilesByTask(ctx, taskId, authorId)
	if err != nil {
		return nil, wrapStoreError(err, "file", "")
	}
	return files, nil
}

func readableTask(ctx context.Context, load func(context.Context, string) (*model.Task, error), principal Principal, taskId string) (*model.Task, error) {
	task, err := load(ctx, taskId)
	if err != nil {
		return nil, wrapStoreError(err, "task", taskId)
	}
	if !CanReadTask(principal, *task, task.Project) {
		return nil, newForbidden("task", taskId)
	}
	return task, nil
}

// applyTransition must run inside the caller's transaction; task.Project has
// to be loaded.
func (b *baseService) applyTransition(ctx context.Context, store Store, principal Principal, task *model.Task, transition Transition) error {
	isOwner := assignedTo(principal, *task) || ownsProject(principal, task.Project)
	next, err := NextStatus(task.StatusCode, transition, principal.Role, isOwner)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.ID = task.ID
		}
		return err
	}

	now := b.now()
	if err := store.UpdateTaskStatus(ctx, task.ID, next, now); err != nil {
		return wrapStoreError(err, "task", task.ID)
	}

	b.logger.Infow("Task status changed", "taskId", task.ID, "transition", transition.String(), "from", task.StatusCode.Name(), "to", next.Name(), "actorId", principal.ID)
	task.StatusCode = next
	task.UpdatedAt = now

	if next != constant.TaskStatusDone {
		return nil
	}

	completed, err := completeProjectIfDone(ctx, store, task.ProjectID)
	if err != nil {
		return err
	}
	if completed {
		task.Project.Status = constant.ProjectStatusCompleted
		b.logger.Infow("Project completed", "projectId", task.ProjectID)
	}
	return nil
}

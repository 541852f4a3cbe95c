package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
)

type ProjectService struct {
	*baseService
}

type CreateProjectParams struct {
	Title       string
	Description string
	Status      constant.ProjectStatus
	Deadline    *time.Time
	CadetIDs    []string
}

// Nil fields are left untouched. A nil CadetIDs leaves the roster alone.
type UpdateProjectParams struct {
	Title         *string
	Description   *string
	Status        *constant.ProjectStatus
	Deadline      *time.Time
	ClearDeadline bool
	CadetIDs      []string
}

type ProjectView struct {
	Project   model.Project `json:"project"`
	Tasks     []model.Task  `json:"tasks"`
	TaskCount int64         `json:"taskCount"`
	DoneCount int64         `json:"doneCount"`
}

func SeedTaskTitle(projectTitle string) string {
	runes := []rune(projectTitle)
	if len(runes) > constant.SeedTaskTitleRunes {
		runes = runes[:constant.SeedTaskTitleRunes]
	}
	return fmt.Sprintf("Task for project '%s...'", string(runes))
}

func SeedTaskDescription(projectTitle string) string {
	return fmt.Sprintf("Initial task for project '%s'", projectTitle)
}

func (ps ProjectService) CreateProject(ctx context.Context, principal Principal, params CreateProjectParams) (*model.Project, error) {
	if !principal.IsCurator() {
		return nil, newRoleViolation("project", "", "curatorId")
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, newValidationError("title", errors.New("title is required"))
	}
	if !params.Status.IsValid() {
		return nil, newValidationError("status", fmt.Errorf("unknown project status %d", params.Status))
	}
	if params.Deadline != nil && beforeToday(*params.Deadline, ps.now()) {
		return nil, newValidationError("deadline", errors.New("deadline is in the past"))
	}

	project := &model.Project{
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Status:      params.Status,
		Deadline:    params.Deadline,
		CuratorID:   principal.ID,
	}

	err := ps.store.WithTx(ctx, func(store Store) error {
		curator, err := store.GetUserById(ctx, principal.ID)
		if err != nil {
			return wrapStoreError(err, "user", principal.ID)
		}
		if curator.Role != constant.UserRoleCurator {
			return newRoleViolation("user", curator.ID, "curatorId")
		}

		if err := store.CreateProject(ctx, project); err != nil {
			return wrapStoreError(err, "project", "")
		}

		for _, cadetId := range distinctIds(params.CadetIDs) {
			if err := seedTask(ctx, store, project, cadetId); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ps.logger.Infow("Project created", "projectId", project.ID, "curatorId", principal.ID, "cadets", len(params.CadetIDs))
	return project, nil
}

func (ps ProjectService) UpdateProject(ctx context.Context, principal Principal, projectId string, params UpdateProjectParams) (*model.Project, error) {
	if params.Title != nil && strings.TrimSpace(*params.Title) == "" {
		return nil, newValidationError("title", errors.New("title is required"))
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, newValidationError("status", fmt.Errorf("unknown project status %d", *params.Status))
	}

	var project *model.Project
	err := ps.store.WithTx(ctx, func(store Store) error {
		var err error
		project, err = store.GetProjectById(ctx, projectId)
		if err != nil {
			return wrapStoreError(err, "project", projectId)
		}
		if !CanManageProject(principal, *project) {
			return newForbidden("project", projectId)
		}

		if params.Title != nil {
			project.Title = strings.TrimSpace(*params.Title)
		}
		if params.Description != nil {
			project.Description = strings.TrimSpace(*params.Description)
		}
		if params.Status != nil {
			project.Status = *params.Status
		}
		if params.ClearDeadline {
			project.Deadline = nil
		} else if params.Deadline != nil {
			project.Deadline = params.Deadline
		}

		if err := store.UpdateProject(ctx, project); err != nil {
			return wrapStoreError(err, "project", projectId)
		}

		if params.CadetIDs == nil {
			return nil
		}

		current, err := store.ListProjectCadetIds(ctx, projectId)
		if err != nil {
			return wrapStoreError(err, "project", projectId)
		}
		assigned := make(map[string]struct{}, len(current))
		for _, id := range current {
			assigned[id] = struct{}{}
		}

		// Cadets dropped from the roster keep their tasks.
		for _, cadetId := range distinctIds(params.CadetIDs) {
			if _, ok := assigned[cadetId]; ok {
				continue
			}
			if err := seedTask(ctx, store, project, cadetId); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ps.logger.Infow("Project updated", "projectId", projectId, "curatorId", principal.ID)
	return project, nil
}

// DeleteProject removes the project with its tasks and files, then the blobs
// behind those files.
func (ps ProjectService) DeleteProject(ctx context.Context, principal Principal, projectId string) error {
	var refs []string
	err := ps.store.WithTx(ctx, func(store Store) error {
		project, err := store.GetProjectById(ctx, projectId)
		if err != nil {
			return wrapStoreError(err, "project", projectId)
		}
		if !CanManageProject(principal, *project) {
			return newForbidden("project", projectId)
		}

		refs, err = store.ListFileRefsByProject(ctx, projectId)
		if err != nil {
			return wrapStoreError(err, "project", projectId)
		}

		return wrapStoreError(store.DeleteProject(ctx, projectId), "project", projectId)
	})
	if err != nil {
		return err
	}

	for _, ref := range refs {
		if err := ps.blobs.Remove(ctx, ref); err != nil {
			ps.logger.Warnw("Failed to remove blob of deleted project", "projectId", projectId, "ref", ref, "error", err)
		}
	}

	ps.logger.Infow("Project deleted", "projectId", projectId, "curatorId", principal.ID, "files", len(refs))
	return nil
}

// ListProjectsFor returns every project to curators and only the projects
// holding one of their tasks to cadets.
func (ps ProjectService) ListProjectsFor(ctx context.Context, principal Principal) ([]model.Project, error) {
	var (
		projects []model.Project
		err      error
	)
	switch principal.Role {
	case constant.UserRoleCurator:
		projects, err = ps.store.ListProjects(ctx)
	case constant.UserRoleCadet:
		projects, err = ps.store.ListProjectsForCadet(ctx, principal.ID)
	default:
		return nil, newForbidden("project", "")
	}
	if err != nil {
		return nil, wrapStoreError(err, "project", "")
	}
	return projects, nil
}

// GetProjectForActor returns the project with the tasks the principal may see.
func (ps ProjectService) GetProjectForActor(ctx context.Context, principal Principal, projectId string) (*ProjectView, error) {
	project, err := ps.store.GetProjectById(ctx, projectId)
	if err != nil {
		return nil, wrapStoreError(err, "project", projectId)
	}

	cadetIds, err := ps.store.ListProjectCadetIds(ctx, projectId)
	if err != nil {
		return nil, wrapStoreError(err, "project", projectId)
	}
	hasTask := false
	for _, id := range cadetIds {
		if id == principal.ID {
			hasTask = true
			break
		}
	}
	if !CanReadProject(principal, hasTask) {
		return nil, newForbidden("project", projectId)
	}

	counts, err := ps.store.CountTasksByStatus(ctx, projectId, "")
	if err != nil {
		return nil, wrapStoreError(err, "project", projectId)
	}

	tasks, err := ps.store.ListTasksByProject(ctx, projectId)
	if err != nil {
		return nil, wrapStoreError(err, "task", "")
	}

	view := &ProjectView{Project: *project, Tasks: make([]model.Task, 0, len(tasks))}
	for _, t := range tasks {
		if principal.IsCurator() || t.CadetID == principal.ID {
			view.Tasks = append(view.Tasks, t)
		}
	}
	for status, n := range counts {
		view.TaskCount += n
		if status == constant.TaskStatusDone {
			view.DoneCount += n
		}
	}
	return view, nil
}

func seedTask(ctx context.Context, store Store, project *model.Project, cadetId string) error {
	cadet, err := store.GetUserById(ctx, cadetId)
	if err != nil {
		return wrapStoreError(err, "user", cadetId)
	}
	if cadet.Role != constant.UserRoleCadet {
		return newRoleViolation("user", cadetId, "cadetId")
	}

	task := &model.Task{
		Title:       SeedTaskTitle(project.Title),
		Description: SeedTaskDescription(project.Title),
		StatusCode:  constant.TaskStatusWaiting,
		ProjectID:   project.ID,
		CadetID:     cadetId,
	}
	return wrapStoreError(store.CreateTask(ctx, task), "task", "")
}

// completeProjectIfDone is the derived completion rule. Completed is never
// left automatically, and an already completed project is not written again.
// The project row is locked before counting so two tasks finishing at once
// cannot both miss each other's Done.
func completeProjectIfDone(ctx context.Context, store Store, projectId string) (bool, error) {
	if err := store.LockProjectById(ctx, projectId); err != nil {
		return false, wrapStoreError(err, "project", projectId)
	}

	counts, err := store.CountTasksByStatus(ctx, projectId, "")
	if err != nil {
		return false, wrapStoreError(err, "project", projectId)
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	if total == 0 || counts[constant.TaskStatusDone] != total {
		return false, nil
	}

	project, err := store.GetProjectById(ctx, projectId)
	if err != nil {
		return false, wrapStoreError(err, "project", projectId)
	}
	if project.Status == constant.ProjectStatusCompleted {
		return false, nil
	}

	if err := store.UpdateProjectStatus(ctx, projectId, constant.ProjectStatusCompleted); err != nil {
		return false, wrapStoreError(err, "project", projectId)
	}
	return true, nil
}

func beforeToday(deadline, now time.Time) bool {
	dy, dm, dd := deadline.Date()
	ny, nm, nd := now.In(deadline.Location()).Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC).Before(time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC))
}

func distinctIds(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

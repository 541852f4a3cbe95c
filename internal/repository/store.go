package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
	"github.com/SeakMengs/CadetTrack/internal/service"
	"gorm.io/gorm"
)

// Store adapts the gorm repositories to service.Store. A Store returned inside
// WithTx sends every call through the same transaction.
type Store struct {
	repo *Repository
	tx   *gorm.DB
}

var _ service.Store = (*Store)(nil)

func NewStore(repo *Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) WithTx(ctx context.Context, fn func(service.Store) error) error {
	if s.tx != nil {
		// already inside a transaction, gorm would open a savepoint
		return fn(s)
	}
	return s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(&Store{repo: s.repo, tx: tx})
	})
}

func roleError(err error, field string) error {
	if errors.Is(err, ErrRoleMismatch) {
		return &service.Error{Kind: service.KindRoleViolation, Entity: "user", Field: field, Err: err}
	}
	return err
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return s.repo.User.Create(ctx, s.tx, user)
}

func (s *Store) GetUserById(ctx context.Context, id string) (*model.User, error) {
	return s.repo.User.GetById(ctx, s.tx, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.User.GetByEmail(ctx, s.tx, email)
}

func (s *Store) ListCadets(ctx context.Context, filter service.CadetFilter) ([]model.User, error) {
	return s.repo.User.ListCadets(ctx, s.tx, filter.Search, filter.Group, service.NoAcademicGroup)
}

func (s *Store) CreateProject(ctx context.Context, project *model.Project) error {
	return roleError(s.repo.Project.Create(ctx, s.tx, project), "curatorId")
}

func (s *Store) GetProjectById(ctx context.Context, id string) (*model.Project, error) {
	return s.repo.Project.GetById(ctx, s.tx, id)
}

func (s *Store) UpdateProject(ctx context.Context, project *model.Project) error {
	return s.repo.Project.Update(ctx, s.tx, project)
}

func (s *Store) LockProjectById(ctx context.Context, id string) error {
	return s.repo.Project.Lock(ctx, s.tx, id)
}

func (s *Store) UpdateProjectStatus(ctx context.Context, id string, status constant.ProjectStatus) error {
	return s.repo.Project.UpdateStatus(ctx, s.tx, id, status)
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.repo.Project.Delete(ctx, s.tx, id)
}

func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.repo.Project.List(ctx, s.tx)
}

func (s *Store) ListProjectsForCadet(ctx context.Context, cadetId string) ([]model.Project, error) {
	return s.repo.Project.ListForCadet(ctx, s.tx, cadetId)
}

func (s *Store) CreateTask(ctx context.Context, task *model.Task) error {
	return roleError(s.repo.Task.Create(ctx, s.tx, task), "cadetId")
}

func (s *Store) GetTaskById(ctx context.Context, id string) (*model.Task, error) {
	return s.repo.Task.GetById(ctx, s.tx, id)
}

func (s *Store) LockTaskById(ctx context.Context, id string) (*model.Task, error) {
	return s.repo.Task.GetByIdForUpdate(ctx, s.tx, id)
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status constant.TaskStatus, updatedAt time.Time) error {
	return s.repo.Task.UpdateStatus(ctx, s.tx, id, status, updatedAt)
}

func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.repo.Task.List(ctx, s.tx)
}

func (s *Store) ListTasksForCadet(ctx context.Context, cadetId string) ([]model.Task, error) {
	return s.repo.Task.ListForCadet(ctx, s.tx, cadetId)
}

func (s *Store) ListTasksByProject(ctx context.Context, projectId string) ([]model.Task, error) {
	return s.repo.Task.ListByProject(ctx, s.tx, projectId)
}

func (s *Store) ListProjectCadetIds(ctx context.Context, projectId string) ([]string, error) {
	return s.repo.Project.CadetIds(ctx, s.tx, projectId)
}

func (s *Store) CountTasksByStatus(ctx context.Context, projectId, cadetId string) (map[constant.TaskStatus]int64, error) {
	return s.repo.Project.CountTasksByStatus(ctx, s.tx, projectId, cadetId)
}

func (s *Store) CreateFile(ctx context.Context, file *model.File) error {
	return s.repo.File.Create(ctx, s.tx, file)
}

func (s *Store) GetFileById(ctx context.Context, id string) (*model.File, error) {
	return s.repo.File.GetById(ctx, s.tx, id)
}

func (s *Store) ListFilesByTask(ctx context.Context, taskId, authorId string) ([]model.File, error) {
	return s.repo.File.ListByTask(ctx, s.tx, taskId, authorId)
}

func (s *Store) ListFileRefsByProject(ctx context.Context, projectId string) ([]string, error) {
	return s.repo.File.StorageRefsByProject(ctx, s.tx, projectId)
}

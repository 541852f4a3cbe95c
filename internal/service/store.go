package service

import (
	"context"
	"io"
	"time"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
)

type CadetFilter struct {
	Search string
	// "" matches any group, NoAcademicGroup matches cadets without one
	Group string
}

const NoAcademicGroup = "none"

// Store is the persistence collaborator. Implementations enforce foreign keys,
// cascade deletes (project -> tasks -> files) and the curator/cadet role
// checks on project and task inserts.
type Store interface {
	// WithTx runs fn against a transactional view of the store. Any error
	// returned by fn rolls the whole unit back.
	WithTx(ctx context.Context, fn func(Store) error) error

	CreateUser(ctx context.Context, user *model.User) error
	GetUserById(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListCadets(ctx context.Context, filter CadetFilter) ([]model.User, error)

	CreateProject(ctx context.Context, project *model.Project) error
	// GetProjectById preloads the curator.
	GetProjectById(ctx context.Context, id string) (*model.Project, error)
	UpdateProject(ctx context.Context, project *model.Project) error
	// LockProjectById holds the project row until the transaction ends.
	LockProjectById(ctx context.Context, id string) error
	UpdateProjectStatus(ctx context.Context, id string, status constant.ProjectStatus) error
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListProjectsForCadet(ctx context.Context, cadetId string) ([]model.Project, error)

	CreateTask(ctx context.Context, task *model.Task) error
	// GetTaskById preloads the project and the assigned cadet.
	GetTaskById(ctx context.Context, id string) (*model.Task, error)
	// LockTaskById is GetTaskById with the task row held until the
	// transaction ends.
	LockTaskById(ctx context.Context, id string) (*model.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status constant.TaskStatus, updatedAt time.Time) error
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListTasksForCadet(ctx context.Context, cadetId string) ([]model.Task, error)
	ListTasksByProject(ctx context.Context, projectId string) ([]model.Task, error)
	ListProjectCadetIds(ctx context.Context, projectId string) ([]string, error)
	// An empty cadetId counts the tasks of every cadet.
	CountTasksByStatus(ctx context.Context, projectId, cadetId string) (map[constant.TaskStatus]int64, error)

	CreateFile(ctx context.Context, file *model.File) error
	// GetFileById preloads the author, the task and the task's project.
	GetFileById(ctx context.Context, id string) (*model.File, error)
	// An empty authorId lists files of every author.
	ListFilesByTask(ctx context.Context, taskId, authorId string) ([]model.File, error)
	ListFileRefsByProject(ctx context.Context, projectId string) ([]string, error)
}

// BlobStore owns the bytes behind File.StorageRef. A ref is never shared
// between two File records.
type BlobStore interface {
	Store(ctx context.Context, content []byte, suggestedName, contentType string) (string, error)
	Size(ctx context.Context, ref string) (int64, error)
	Exists(ctx context.Context, ref string) (bool, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Remove(ctx context.Context, ref string) error
}

// CredentialVerifier returns nil, nil when the secret does not match.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, secret string) (*model.User, error)
	Hash(secret string) (string, error)
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

type memData struct {
	users    map[string]model.User
	projects map[string]model.Project
	tasks    map[string]model.Task
	files    map[string]model.File
	seq      int

	projectStatusWrites int
}

func (d *memData) clone() *memData {
	c := &memData{
		users:               make(map[string]model.User, len(d.users)),
		projects:            make(map[string]model.Project, len(d.projects)),
		tasks:               make(map[string]model.Task, len(d.tasks)),
		files:               make(map[string]model.File, len(d.files)),
		seq:                 d.seq,
		projectStatusWrites: d.projectStatusWrites,
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.projects {
		c.projects[k] = v
	}
	for k, v := range d.tasks {
		c.tasks[k] = v
	}
	for k, v := range d.files {
		c.files[k] = v
	}
	return c
}

// memStore mimics the postgres store: role checks on insert, cascades on
// delete and rollback when the WithTx callback fails.
type memStore struct {
	data *memData

	createFileErr error
	updateTaskErr error

	// locks and counts in call order, e.g. "lock task:task-5"
	calls []string
}

func newMemStore() *memStore {
	return &memStore{data: &memData{
		users:    map[string]model.User{},
		projects: map[string]model.Project{},
		tasks:    map[string]model.Task{},
		files:    map[string]model.File{},
	}}
}

func (s *memStore) nextBase(prefix string) model.BaseModel {
	s.data.seq++
	at := testNow.Add(time.Duration(s.data.seq) * time.Second)
	return model.BaseModel{ID: fmt.Sprintf("%s%d", prefix, s.data.seq), CreatedAt: at, UpdatedAt: at}
}

func (s *memStore) WithTx(ctx context.Context, fn func(Store) error) error {
	snapshot := s.data.clone()
	if err := fn(s); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *memStore) CreateUser(ctx context.Context, user *model.User) error {
	for _, u := range s.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		user.BaseModel = s.nextBase("user-")
	}
	s.data.users[user.ID] = *user
	return nil
}

func (s *memStore) GetUserById(ctx context.Context, id string) (*model.User, error) {
	u, ok := s.data.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (s *memStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.data.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) ListCadets(ctx context.Context, filter CadetFilter) ([]model.User, error) {
	search := strings.ToLower(filter.Search)
	var out []model.User
	for _, u := range s.data.users {
		if u.Role != constant.UserRoleCadet {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.FullName()+" "+u.Email), search) {
			continue
		}
		switch {
		case filter.Group == NoAcademicGroup && u.AcademicGroup != "":
			continue
		case filter.Group != "" && filter.Group != NoAcademicGroup && u.AcademicGroup != filter.Group:
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName() < out[j].FullName() })
	return out, nil
}

func (s *memStore) CreateProject(ctx context.Context, project *model.Project) error {
	curator, ok := s.data.users[project.CuratorID]
	if !ok {
		return gorm.ErrForeignKeyViolated
	}
	if curator.Role != constant.UserRoleCurator {
		return newRoleViolation("user", curator.ID, "curatorId")
	}
	project.BaseModel = s.nextBase("project-")
	s.data.projects[project.ID] = *project
	return nil
}

func (s *memStore) GetProjectById(ctx context.Context, id string) (*model.Project, error) {
	p, ok := s.data.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p.Curator = s.data.users[p.CuratorID]
	return &p, nil
}

func (s *memStore) UpdateProject(ctx context.Context, project *model.Project) error {
	if _, ok := s.data.projects[project.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	p := *project
	p.Curator = model.User{}
	p.Tasks = nil
	s.data.projects[p.ID] = p
	return nil
}

func (s *memStore) LockProjectById(ctx context.Context, id string) error {
	s.calls = append(s.calls, "lock project:"+id)
	if _, ok := s.data.projects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *memStore) UpdateProjectStatus(ctx context.Context, id string, status constant.ProjectStatus) error {
	p, ok := s.data.projects[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	s.data.projects[id] = p
	s.data.projectStatusWrites++
	return nil
}

func (s *memStore) DeleteProject(ctx context.Context, id string) error {
	if _, ok := s.data.projects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.data.projects, id)
	for tid, t := range s.data.tasks {
		if t.ProjectID != id {
			continue
		}
		delete(s.data.tasks, tid)
		for fid, f := range s.data.files {
			if f.TaskID == tid {
				delete(s.data.files, fid)
			}
		}
	}
	return nil
}

func (s *memStore) sortedProjects(keep func(model.Project) bool) []model.Project {
	var out []model.Project
	for _, p := range s.data.projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *memStore) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.sortedProjects(func(model.Project) bool { return true }), nil
}

func (s *memStore) ListProjectsForCadet(ctx context.Context, cadetId string) ([]model.Project, error) {
	return s.sortedProjects(func(p model.Project) bool {
		for _, t := range s.data.tasks {
			if t.ProjectID == p.ID && t.CadetID == cadetId {
				return true
			}
		}
		return false
	}), nil
}

func (s *memStore) CreateTask(ctx context.Context, task *model.Task) error {
	if _, ok := s.data.projects[task.ProjectID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	cadet, ok := s.data.users[task.CadetID]
	if !ok {
		return gorm.ErrForeignKeyViolated
	}
	if cadet.Role != constant.UserRoleCadet {
		return newRoleViolation("user", cadet.ID, "cadetId")
	}
	task.BaseModel = s.nextBase("task-")
	s.data.tasks[task.ID] = *task
	return nil
}

func (s *memStore) GetTaskById(ctx context.Context, id string) (*model.Task, error) {
	t, ok := s.data.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	t.Project = s.data.projects[t.ProjectID]
	t.Cadet = s.data.users[t.CadetID]
	return &t, nil
}

func (s *memStore) LockTaskById(ctx context.Context, id string) (*model.Task, error) {
	s.calls = append(s.calls, "lock task:"+id)
	return s.GetTaskById(ctx, id)
}

func (s *memStore) UpdateTaskStatus(ctx context.Context, id string, status constant.TaskStatus, updatedAt time.Time) error {
	if s.updateTaskErr != nil {
		return s.updateTaskErr
	}
	t, ok := s.data.tasks[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.StatusCode = status
	t.UpdatedAt = updatedAt
	s.data.tasks[id] = t
	return nil
}

func (s *memStore) sortedTasks(keep func(model.Task) bool) []model.Task {
	var out []model.Task
	for _, t := range s.data.tasks {
		if keep(t) {
			t.Project = s.data.projects[t.ProjectID]
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *memStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.sortedTasks(func(model.Task) bool { return true }), nil
}

func (s *memStore) ListTasksForCadet(ctx context.Context, cadetId string) ([]model.Task, error) {
	return s.sortedTasks(func(t model.Task) bool { return t.CadetID == cadetId }), nil
}

func (s *memStore) ListTasksByProject(ctx context.Context, projectId string) ([]model.Task, error) {
	return s.sortedTasks(func(t model.Task) bool { return t.ProjectID == projectId }), nil
}

func (s *memStore) ListProjectCadetIds(ctx context.Context, projectId string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, t := range s.data.tasks {
		if t.ProjectID != projectId {
			continue
		}
		if _, ok := seen[t.CadetID]; !ok {
			seen[t.CadetID] = struct{}{}
			out = append(out, t.CadetID)
		}
	}
	return out, nil
}

func (s *memStore) CountTasksByStatus(ctx context.Context, projectId, cadetId string) (map[constant.TaskStatus]int64, error) {
	s.calls = append(s.calls, "count:"+projectId)
	counts := map[constant.TaskStatus]int64{}
	for _, t := range s.data.tasks {
		if t.ProjectID == projectId && (cadetId == "" || t.CadetID == cadetId) {
			counts[t.StatusCode]++
		}
	}
	return counts, nil
}

func (s *memStore) CreateFile(ctx context.Context, file *model.File) error {
	if s.createFileErr != nil {
		return s.createFileErr
	}
	if _, ok := s.data.tasks[file.TaskID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	file.BaseModel = s.nextBase("file-")
	s.data.files[file.ID] = *file
	return nil
}

func (s *memStore) GetFileById(ctx context.Context, id string) (*model.File, error) {
	f, ok := s.data.files[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	f.Author = s.data.users[f.AuthorID]
	f.Task = s.data.tasks[f.TaskID]
	f.Task.Project = s.data.projects[f.Task.ProjectID]
	return &f, nil
}

func (s *memStore) ListFilesByTask(ctx context.Context, taskId, authorId string) ([]model.File, error) {
	var out []model.File
	for _, f := range s.data.files {
		if f.TaskID == taskId && (authorId == "" || f.AuthorID == authorId) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) ListFileRefsByProject(ctx context.Context, projectId string) ([]string, error) {
	var out []string
	for _, f := range s.data.files {
		if t, ok := s.data.tasks[f.TaskID]; ok && t.ProjectID == projectId {
			out = append(out, f.StorageRef)
		}
	}
	return out, nil
}

type memBlobs struct {
	blobs    map[string][]byte
	seq      int
	storeErr error
	removed  []string
}

func newMemBlobs() *memBlobs {
	return &memBlobs{blobs: map[string][]byte{}}
}

func (b *memBlobs) Store(ctx context.Context, content []byte, suggestedName, contentType string) (string, error) {
	if b.storeErr != nil {
		return "", b.storeErr
	}
	b.seq++
	ref := fmt.Sprintf("blob%d_%s", b.seq, suggestedName)
	b.blobs[ref] = append([]byte(nil), content...)
	return ref, nil
}

func (b *memBlobs) Size(ctx context.Context, ref string) (int64, error) {
	c, ok := b.blobs[ref]
	if !ok {
		return 0, errors.New("no such blob")
	}
	return int64(len(c)), nil
}

func (b *memBlobs) Exists(ctx context.Context, ref string) (bool, error) {
	_, ok := b.blobs[ref]
	return ok, nil
}

func (b *memBlobs) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	c, ok := b.blobs[ref]
	if !ok {
		return nil, errors.New("no such blob")
	}
	return io.NopCloser(bytes.NewReader(c)), nil
}

func (b *memBlobs) Remove(ctx context.Context, ref string) error {
	delete(b.blobs, ref)
	b.removed = append(b.removed, ref)
	return nil
}

type fakeCredentials struct {
	store Store
}

func (c fakeCredentials) Hash(secret string) (string, error) {
	return "hashed:" + secret, nil
}

func (c fakeCredentials) Verify(ctx context.Context, email, secret string) (*model.User, error) {
	u, err := c.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if u.PasswordHash != "hashed:"+secret {
		return nil, nil
	}
	return u, nil
}

type fixture struct {
	store *memStore
	blobs *memBlobs
	svc   *Service

	curator      Principal
	otherCurator Principal
	cadet        Principal
	otherCadet   Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	blobs := newMemBlobs()
	f := &fixture{
		store: store,
		blobs: blobs,
		svc:   NewService(store, blobs, fakeCredentials{store: store}, zap.NewNop().Sugar(), WithClock(func() time.Time { return testNow })),
	}
	f.curator = f.addUser(t, "curator@example.com", "Sidorov", "Petr", constant.UserRoleCurator, "")
	f.otherCurator = f.addUser(t, "other.curator@example.com", "Orlov", "Oleg", constant.UserRoleCurator, "")
	f.cadet = f.addUser(t, "cadet@example.com", "Petrov", "Ivan", constant.UserRoleCadet, "IS-21")
	f.otherCadet = f.addUser(t, "other.cadet@example.com", "Smirnova", "Anna", constant.UserRoleCadet, "")
	return f
}

func (f *fixture) addUser(t *testing.T, email, last, first string, role constant.UserRole, group string) Principal {
	t.Helper()
	u := &model.User{
		Email:         email,
		LastName:      last,
		FirstName:     first,
		Role:          role,
		AcademicGroup: group,
		PasswordHash:  "hashed:secret1",
	}
	if err := f.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return Principal{ID: u.ID, Role: role}
}

// newProject creates a project owned by f.curator with one seed task per cadet.
func (f *fixture) newProject(t *testing.T, title string, cadets ...Principal) *model.Project {
	t.Helper()
	ids := make([]string, 0, len(cadets))
	for _, c := range cadets {
		ids = append(ids, c.ID)
	}
	p, err := f.svc.Project.CreateProject(context.Background(), f.curator, CreateProjectParams{
		Title:    title,
		Status:   constant.ProjectStatusPlanning,
		CadetIDs: ids,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return p
}

func (f *fixture) taskOf(t *testing.T, projectId, cadetId string) model.Task {
	t.Helper()
	for _, task := range f.store.data.tasks {
		if task.ProjectID == projectId && task.CadetID == cadetId {
			return task
		}
	}
	t.Fatalf("no task for cadet %s in project %s", cadetId, projectId)
	return model.Task{}
}

func (f *fixture) setStatus(t *testing.T, taskId string, status constant.TaskStatus) {
	t.Helper()
	task := f.store.data.tasks[taskId]
	task.StatusCode = status
	f.store.data.tasks[taskId] = task
}

func assertKind(t *testing.T, err error, want *Error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want kind %s", err, want.Kind)
	}
}

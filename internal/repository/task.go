package repository

import (
	"context"
	"time"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskRepository struct {
	*baseRepository
}

func (tr TaskRepository) Create(ctx context.Context, tx *gorm.DB, task *model.Task) error {
	tr.logger.Debugf("Create task for project: %s cadet: %s \n", task.ProjectID, task.CadetID)

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return tr.withTx(tr.getDB(tx), func(tx *gorm.DB) error {
		if err := tr.ensureRole(ctx, tx, task.CadetID, string(constant.UserRoleCadet)); err != nil {
			return err
		}
		return tx.WithContext(ctx).Model(&model.Task{}).Omit("Project", "Cadet", "Files").Create(task).Error
	})
}

func (tr TaskRepository) GetById(ctx context.Context, tx *gorm.DB, taskId string) (*model.Task, error) {
	tr.logger.Debugf("Get task by id: %s \n", taskId)

	return tr.getById(ctx, tr.getDB(tx), taskId)
}

// GetByIdForUpdate holds a row lock on the task until tx ends, so concurrent
// transitions of the same task are serialized.
func (tr TaskRepository) GetByIdForUpdate(ctx context.Context, tx *gorm.DB, taskId string) (*model.Task, error) {
	tr.logger.Debugf("Get task for update by id: %s \n", taskId)

	return tr.getById(ctx, tr.getDB(tx).Clauses(clause.Locking{Strength: "UPDATE"}), taskId)
}

func (tr TaskRepository) getById(ctx context.Context, db *gorm.DB, taskId string) (*model.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var task model.Task
	if err := db.WithContext(ctx).Model(&model.Task{}).
		Preload("Project").
		Preload("Cadet").
		Where("id = ?", taskId).
		First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

func (tr TaskRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, taskId string, status constant.TaskStatus, updatedAt time.Time) error {
	tr.logger.Debugf("Update task status: %s -> %s \n", taskId, status.Name())

	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", taskId).Updates(map[string]any{
		"status_code": status,
		"updated_at":  updatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (tr TaskRepository) list(ctx context.Context, tx *gorm.DB, scope func(*gorm.DB) *gorm.DB) ([]model.Task, error) {
	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var tasks []model.Task
	if err := db.WithContext(ctx).Model(&model.Task{}).
		Preload("Project").
		Preload("Cadet").
		Scopes(scope).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (tr TaskRepository) List(ctx context.Context, tx *gorm.DB) ([]model.Task, error) {
	tr.logger.Debugf("List all tasks \n")

	return tr.list(ctx, tx, func(db *gorm.DB) *gorm.DB { return db })
}

func (tr TaskRepository) ListForCadet(ctx context.Context, tx *gorm.DB, cadetId string) ([]model.Task, error) {
	tr.logger.Debugf("List tasks for cadet: %s \n", cadetId)

	return tr.list(ctx, tx, func(db *gorm.DB) *gorm.DB { return db.Where("cadet_id = ?", cadetId) })
}

func (tr TaskRepository) ListByProject(ctx context.Context, tx *gorm.DB, projectId string) ([]model.Task, error) {
	tr.logger.Debugf("List tasks of project: %s \n", projectId)

	return tr.list(ctx, tx, func(db *gorm.DB) *gorm.DB { return db.Where("project_id = ?", projectId) })
}

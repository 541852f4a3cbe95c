package repository

import (
	"context"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
	"gorm.io/gorm"
)

type FileRepository struct {
	*baseRepository
}

func (fr FileRepository) Create(ctx context.Context, tx *gorm.DB, file *model.File) error {
	fr.logger.Debugf("Create file: %s for task: %s \n", file.FileName, file.TaskID)

	db := fr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Model(&model.File{}).Omit("Task", "Author").Create(file).Error
}

func (fr FileRepository) GetById(ctx context.Context, tx *gorm.DB, fileId string) (*model.File, error) {
	fr.logger.Debugf("Get file by id: %s \n", fileId)

	db := fr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var file model.File
	if err := db.WithContext(ctx).Model(&model.File{}).
		Preload("Author").
		Preload("Task.Project").
		Where("id = ?", fileId).
		First(&file).Error; err != nil {
		return nil, err
	}

	return &file, nil
}

// An empty authorId lists the files of every author.
func (fr FileRepository) ListByTask(ctx context.Context, tx *gorm.DB, taskId, authorId string) ([]model.File, error) {
	fr.logger.Debugf("List files of task: %s author: %s \n", taskId, authorId)

	db := fr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.File{}).Preload("Author").Where("task_id = ?", taskId)
	if authorId != "" {
		query = query.Where("author_id = ?", authorId)
	}

	var files []model.File
	if err := query.Order("uploaded_at DESC").Find(&files).Error; err != nil {
		return nil, err
	}

	return files, nil
}

func (fr FileRepository) StorageRefsByProject(ctx context.Context, tx *gorm.DB, projectId string) ([]string, error) {
	fr.logger.Debugf("Get storage refs of project: %s \n", projectId)

	db := fr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var refs []string
	if err := db.WithContext(ctx).Model(&model.File{}).
		Joins("JOIN tasks ON tasks.id = files.task_id").
		Where("tasks.project_id = ?", projectId).
		Pluck("files.storage_ref", &refs).Error; err != nil {
		return nil, err
	}

	return refs, nil
}

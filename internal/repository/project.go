package repository

import (
	"context"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository struct {
	*baseRepository
}

func (pr ProjectRepository) Create(ctx context.Context, tx *gorm.DB, project *model.Project) error {
	pr.logger.Debugf("Create project with title: %s curator: %s \n", project.Title, project.CuratorID)

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return pr.withTx(pr.getDB(tx), func(tx *gorm.DB) error {
		if err := pr.ensureRole(ctx, tx, project.CuratorID, string(constant.UserRoleCurator)); err != nil {
			return err
		}
		return tx.WithContext(ctx).Model(&model.Project{}).Omit("Curator", "Tasks").Create(project).Error
	})
}

func (pr ProjectRepository) GetById(ctx context.Context, tx *gorm.DB, projectId string) (*model.Project, error) {
	pr.logger.Debugf("Get project by id: %s \n", projectId)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var project model.Project
	if err := db.WithContext(ctx).Model(&model.Project{}).Preload("Curator").Where("id = ?", projectId).First(&project).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// Lock takes a row lock on the project until tx ends. Callers that read
// aggregates over the project's tasks lock it first.
func (pr ProjectRepository) Lock(ctx context.Context, tx *gorm.DB, projectId string) error {
	pr.logger.Debugf("Lock project: %s \n", projectId)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var project model.Project
	return db.WithContext(ctx).Model(&model.Project{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", projectId).
		First(&project).Error
}

func (pr ProjectRepository) Update(ctx context.Context, tx *gorm.DB, project *model.Project) error {
	pr.logger.Debugf("Update project: %s \n", project.ID)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	// Select forces zero values (status Planning, nil deadline) to be written.
	result := db.WithContext(ctx).Model(&model.Project{BaseModel: model.BaseModel{ID: project.ID}}).
		Select("title", "description", "status", "deadline", "updated_at").
		Updates(project)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (pr ProjectRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, projectId string, status constant.ProjectStatus) error {
	pr.logger.Debugf("Update project status: %s -> %s \n", projectId, status.Name())

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", projectId).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete relies on the ON DELETE CASCADE foreign keys of tasks and files.
func (pr ProjectRepository) Delete(ctx context.Context, tx *gorm.DB, projectId string) error {
	pr.logger.Debugf("Delete project: %s \n", projectId)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Where("id = ?", projectId).Delete(&model.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (pr ProjectRepository) List(ctx context.Context, tx *gorm.DB) ([]model.Project, error) {
	pr.logger.Debugf("List all projects \n")

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var projects []model.Project
	if err := db.WithContext(ctx).Model(&model.Project{}).Preload("Curator").Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func (pr ProjectRepository) ListForCadet(ctx context.Context, tx *gorm.DB, cadetId string) ([]model.Project, error) {
	pr.logger.Debugf("List projects for cadet: %s \n", cadetId)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	assigned := db.Model(&model.Task{}).Select("project_id").Where("cadet_id = ?", cadetId)

	var projects []model.Project
	if err := db.WithContext(ctx).Model(&model.Project{}).Preload("Curator").
		Where("id IN (?)", assigned).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func (pr ProjectRepository) CadetIds(ctx context.Context, tx *gorm.DB, projectId string) ([]string, error) {
	pr.logger.Debugf("Get cadet ids of project: %s \n", projectId)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var ids []string
	if err := db.WithContext(ctx).Model(&model.Task{}).Where("project_id = ?", projectId).Distinct().Pluck("cadet_id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

type statusCount struct {
	StatusCode constant.TaskStatus
	Total      int64
}

// CountTasksByStatus counts the project's tasks; a non-empty cadetId narrows
// the count to that cadet's tasks.
func (pr ProjectRepository) CountTasksByStatus(ctx context.Context, tx *gorm.DB, projectId, cadetId string) (map[constant.TaskStatus]int64, error) {
	pr.logger.Debugf("Count tasks by status of project: %s cadet: %s \n", projectId, cadetId)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var rows []statusCount
	if err := db.WithContext(ctx).Model(&model.Task{}).
		Select("status_code, count(*) AS total").
		Where("project_id = ?", projectId).
		Scopes(func(db *gorm.DB) *gorm.DB {
			if cadetId == "" {
				return db
			}
			return db.Where("cadet_id = ?", cadetId)
		}).
		Group("status_code").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[constant.TaskStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.StatusCode] = r.Total
	}

	return counts, nil
}

package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrRoleMismatch is returned when a project curator or a task cadet does not
// reference a user of the expected role.
var ErrRoleMismatch = errors.New("referenced user has the wrong role")

type baseRepository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

type Repository struct {
	// DB can be used for transaction. Pass the tx received in Transaction to
	// any repository function to take part in it.
	DB      *gorm.DB
	User    *UserRepository
	Project *ProjectRepository
	Task    *TaskRepository
	File    *FileRepository

	base *baseRepository
}

func newBaseRepository(db *gorm.DB, logger *zap.SugaredLogger) *baseRepository {
	return &baseRepository{db: db, logger: logger}
}

func NewRepository(db *gorm.DB, logger *zap.SugaredLogger) *Repository {
	br := newBaseRepository(db, logger)

	return &Repository{
		DB:      db,
		User:    &UserRepository{baseRepository: br},
		Project: &ProjectRepository{baseRepository: br},
		Task:    &TaskRepository{baseRepository: br},
		File:    &FileRepository{baseRepository: br},
		base:    br,
	}
}

func (r Repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.base.withTx(r.DB.WithContext(ctx), fn)
}

// Note: GORM perform write (create/update/delete) operations run inside a transaction to ensure data consistency | So this function is needed when several statements must commit together
// Docs: https://gorm.io/docs/transactions.html
func (b baseRepository) withTx(db *gorm.DB, fn func(*gorm.DB) error) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})

	if err != nil {
		b.logger.Debugf("withTx transaction rolled back: %v", err)
	}

	return err
}

func (b baseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}

	return b.db
}

// ensureRole checks the referenced user exists with the given role. Must run
// on the same tx as the insert it guards.
func (b baseRepository) ensureRole(ctx context.Context, db *gorm.DB, userId string, role string) error {
	var found string
	if err := db.WithContext(ctx).Table("users").Select("role").Where("id = ?", userId).Scan(&found).Error; err != nil {
		return err
	}
	if found == "" {
		return gorm.ErrRecordNotFound
	}
	if found != role {
		return ErrRoleMismatch
	}
	return nil
}

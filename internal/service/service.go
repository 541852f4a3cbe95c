package service

import (
	"time"

	"go.uber.org/zap"
)

type baseService struct {
	store  Store
	blobs  BlobStore
	logger *zap.SugaredLogger
	now    func() time.Time
}

// Service groups the core operations. Every operation takes the caller's
// Principal explicitly and returns either a value or an *Error.
type Service struct {
	Project *ProjectService
	Task    *TaskService
	File    *FileService
	User    *UserService

	now func() time.Time
}

type Option func(*baseService)

// WithClock replaces time.Now, used for deadline checks and updatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(b *baseService) {
		b.now = now
	}
}

func NewService(store Store, blobs BlobStore, credentials CredentialVerifier, logger *zap.SugaredLogger, opts ...Option) *Service {
	base := &baseService{
		store:  store,
		blobs:  blobs,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(base)
	}

	return &Service{
		Project: &ProjectService{baseService: base},
		Task:    &TaskService{baseService: base},
		File:    &FileService{baseService: base},
		User:    &UserService{baseService: base, credentials: credentials},
		now:     base.now,
	}
}

// Now is the clock the operations stamp records with.
func (s *Service) Now() time.Time {
	return s.now()
}

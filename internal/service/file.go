package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
)

type FileService struct {
	*baseService
}

type Upload struct {
	Filename string
	MimeType string
	Content  []byte
}

type Download struct {
	File model.File
	// Advisory name for the client, never used as a storage key.
	DisplayName string
}

func ValidateUpload(upload Upload) error {
	name := uploadName(upload.Filename)
	if name == "" {
		return newValidationError("filename", errors.New("filename is required"))
	}

	ext := model.FileExtension(name)
	if _, ok := constant.AllowedFileExtensions[ext]; !ok {
		return &Error{Kind: KindUnsupportedFileType, Entity: "file", Field: "filename", Err: fmt.Errorf("extension %q is not allowed", ext)}
	}

	if len(upload.Content) > constant.MaxUploadBytes {
		return &Error{Kind: KindFileTooLarge, Entity: "file", Field: "file", Err: fmt.Errorf("%d bytes exceeds %d", len(upload.Content), constant.MaxUploadBytes)}
	}
	return nil
}

// AttachFile stores the upload and moves the task to InReview. A Waiting task
// is started first; a task already in review accepts more files.
func (fs FileService) AttachFile(ctx context.Context, principal Principal, taskId string, upload Upload) (*model.File, error) {
	task, err := fs.store.GetTaskById(ctx, taskId)
	if err != nil {
		return nil, wrapStoreError(err, "task", taskId)
	}
	if !CanUploadToTask(principal, *task) {
		return nil, newForbidden("task", taskId)
	}
	if err := ValidateUpload(upload); err != nil {
		return nil, err
	}
	if task.StatusCode == constant.TaskStatusDone {
		return nil, &Error{Kind: KindInvalidTransition, Entity: "task", ID: taskId, Err: errors.New("task is already done")}
	}

	name := uploadName(upload.Filename)
	mime := detectMimeType(upload)

	ref, err := fs.blobs.Store(ctx, upload.Content, name, mime)
	if err != nil {
		return nil, &Error{Kind: KindStorageFailure, Entity: "file", Err: err}
	}

	file := &model.File{
		FileName:   name,
		StorageRef: ref,
		MimeType:   mime,
		UploadedAt: fs.now(),
		TaskID:     taskId,
		AuthorID:   principal.ID,
	}

	err = fs.attach(ctx, principal, file)
	if err != nil {
		if rmErr := fs.blobs.Remove(ctx, ref); rmErr != nil {
			fs.logger.Errorw("Failed to remove orphaned blob", "ref", ref, "error", rmErr)
		}
		return nil, err
	}

	fs.logger.Infow("File attached", "fileId", file.ID, "taskId", taskId, "authorId", principal.ID, "size", file.Size)
	return file, nil
}

func (fs FileService) attach(ctx context.Context, principal Principal, file *model.File) error {
	size, err := fs.blobs.Size(ctx, file.StorageRef)
	if err != nil {
		return &Error{Kind: KindStorageFailure, Entity: "file", Err: err}
	}
	file.Size = size

	return fs.store.WithTx(ctx, func(store Store) error {
		task, err := store.LockTaskById(ctx, file.TaskID)
		if err != nil {
			return wrapStoreError(err, "task", file.TaskID)
		}
		if !CanUploadToTask(principal, *task) {
			return newForbidden("task", file.TaskID)
		}

		if err := store.CreateFile(ctx, file); err != nil {
			return wrapStoreError(err, "file", "")
		}

		switch task.StatusCode {
		case constant.TaskStatusInReview:
			return nil
		case constant.TaskStatusWaiting:
			if err := fs.applyTransition(ctx, store, principal, task, TransitionStart); err != nil {
				return err
			}
		}
		return fs.applyTransition(ctx, store, principal, task, TransitionSubmit)
	})
}

// DownloadAuthorization checks the principal may fetch the file and that its
// blob still exists.
func (fs FileService) DownloadAuthorization(ctx context.Context, principal Principal, fileId string) (*Download, error) {
	file, err := fs.store.GetFileById(ctx, fileId)
	if err != nil {
		return nil, wrapStoreError(err, "file", fileId)
	}
	if !CanDownloadFile(principal, *file, file.Task.Project) {
		return nil, newForbidden("file", fileId)
	}

	exists, err := fs.blobs.Exists(ctx, file.StorageRef)
	if err != nil {
		return nil, &Error{Kind: KindStorageFailure, Entity: "file", ID: fileId, Err: err}
	}
	if !exists {
		return nil, newNotFound("file", fileId)
	}

	return &Download{
		File:        *file,
		DisplayName: DownloadName(file.Task, file.Author, file.FileName),
	}, nil
}

// OpenFile authorizes like DownloadAuthorization and opens the blob. The
// caller closes the reader.
func (fs FileService) OpenFile(ctx context.Context, principal Principal, fileId string) (*Download, io.ReadCloser, error) {
	download, err := fs.DownloadAuthorization(ctx, principal, fileId)
	if err != nil {
		return nil, nil, err
	}

	rc, err := fs.blobs.Open(ctx, download.File.StorageRef)
	if err != nil {
		return nil, nil, &Error{Kind: KindStorageFailure, Entity: "file", ID: fileId, Err: err}
	}
	return download, rc, nil
}

// e.g. task_<id>_Lab_report_Petrov_Ivan_report.pdf
func DownloadName(task model.Task, author model.User, filename string) string {
	name := fmt.Sprintf("task_%s_%s_%s_%s", task.ID, safeName(task.Title), safeName(author.FullName()), filename)
	return strings.ReplaceAll(name, " ", "_")
}

func safeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func uploadName(filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		return ""
	}
	// Browsers on some platforms send the full client path.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func detectMimeType(upload Upload) string {
	declared := strings.TrimSpace(upload.MimeType)
	if declared != "" && declared != constant.DefaultMimeType {
		return declared
	}
	return mimetype.Detect(upload.Content).String()
}

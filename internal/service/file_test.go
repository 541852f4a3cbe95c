package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		upload  Upload
		wantErr *Error
	}{
		{"upper case extension", Upload{Filename: "report.PDF", Content: []byte("x")}, nil},
		{"mixed case", Upload{Filename: "photo.JpEg", Content: []byte("x")}, nil},
		{"executable", Upload{Filename: "payload.exe", Content: []byte("x")}, ErrUnsupportedFileType},
		{"no extension", Upload{Filename: "Makefile", Content: []byte("x")}, ErrUnsupportedFileType},
		{"disguised", Upload{Filename: "report.pdf.exe", Content: []byte("x")}, ErrUnsupportedFileType},
		{"empty name", Upload{Filename: "  ", Content: []byte("x")}, ErrValidation},
		{"exactly the limit", Upload{Filename: "big.zip", Content: make([]byte, constant.MaxUploadBytes)}, nil},
		{"one byte over", Upload{Filename: "big.zip", Content: make([]byte, constant.MaxUploadBytes+1)}, ErrFileTooLarge},
		{"empty file", Upload{Filename: "empty.txt"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.upload)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			assertKind(t, err, tt.wantErr)
		})
	}
}

func TestAttachFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.newProject(t, "Attach", f.cadet)
	seed := f.taskOf(t, p.ID, f.cadet.ID)

	// Waiting is forced through InProgress.
	file, err := f.svc.File.AttachFile(ctx, f.cadet, seed.ID, Upload{Filename: `C:\Users\ivan\report.PDF`, MimeType: "application/pdf", Content: []byte("%PDF-1.4 body")})
	if err != nil {
		t.Fatalf("AttachFile: %v", err)
	}
	if file.FileName != "report.PDF" {
		t.Errorf("FileName = %q", file.FileName)
	}
	if file.Size != int64(len("%PDF-1.4 body")) {
		t.Errorf("Size = %d", file.Size)
	}
	if file.MimeType != "application/pdf" {
		t.Errorf("MimeType = %q", file.MimeType)
	}
	if file.AuthorID != f.cadet.ID || file.TaskID != seed.ID {
		t.Errorf("file bound to task %s author %s", file.TaskID, file.AuthorID)
	}
	if got := f.store.data.tasks[seed.ID].StatusCode; got != constant.TaskStatusInReview {
		t.Fatalf("status = %s, want InReview", got.Name())
	}

	// Re-attaching while in review is allowed.
	if _, err := f.svc.File.AttachFile(ctx, f.cadet, seed.ID, Upload{Filename: "fix.txt", Content: []byte("fix")}); err != nil {
		t.Fatalf("re-attach: %v", err)
	}
	if got := f.store.data.tasks[seed.ID].StatusCode; got != constant.TaskStatusInReview {
		t.Errorf("status = %s after re-attach", got.Name())
	}
	if n := len(f.store.data.files); n != 2 {
		t.Errorf("got %d files", n)
	}
}

func TestAttachFileSniffsGenericMimeType(t *testing.T) {
	f := newFixture(t)
	p := f.newProject(t, "Sniff", f.cadet)
	seed := f.taskOf(t, p.ID, f.cadet.ID)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	file, err := f.svc.File.AttachFile(context.Background(), f.cadet, seed.ID, Upload{Filename: "shot.png", MimeType: constant.DefaultMimeType, Content: png})
	if err != nil {
		t.Fatalf("AttachFile: %v", err)
	}
	if file.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", file.MimeType)
	}
}

func TestAttachFileRejections(t *testing.T) {
	tests := []struct {
		name    string
		actor   func(f *fixture) Principal
		status  constant.TaskStatus
		upload  Upload
		wantErr *Error
	}{
		{"other cadet", func(f *fixture) Principal { return f.otherCadet }, constant.TaskStatusInProgress, Upload{Filename: "a.pdf"}, ErrForbidden},
		{"owning curator", func(f *fixture) Principal { return f.curator }, constant.TaskStatusInProgress, Upload{Filename: "a.pdf"}, ErrForbidden},
		{"bad extension", func(f *fixture) Principal { return f.cadet }, constant.TaskStatusInProgress, Upload{Filename: "payload.exe"}, ErrUnsupportedFileType},
		{"too large", func(f *fixture) Principal { return f.cadet }, constant.TaskStatusInProgress, Upload{Filename: "a.zip", Content: make([]byte, constant.MaxUploadBytes+1)}, ErrFileTooLarge},
		{"task done", func(f *fixture) Principal { return f.cadet }, constant.TaskStatusDone, Upload{Filename: "a.pdf"}, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.newProject(t, "Reject", f.cadet)
			seed := f.taskOf(t, p.ID, f.cadet.ID)
			f.setStatus(t, seed.ID, tt.status)

			_, err := f.svc.File.AttachFile(context.Background(), tt.actor(f), seed.ID, tt.upload)
			assertKind(t, err, tt.wantErr)

			if len(f.store.data.files) != 0 || len(f.blobs.blobs) != 0 {
				t.Errorf("rejected upload left state behind")
			}
			if got := f.store.data.tasks[seed.ID].StatusCode; got != tt.status {
				t.Errorf("status = %s, want %s", got.Name(), tt.status.Name())
			}
		})
	}
}

func TestAttachFileIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.newProject(t, "Atomic", f.cadet)
	seed := f.taskOf(t, p.ID, f.cadet.ID)
	f.setStatus(t, seed.ID, constant.TaskStatusInProgress)

	f.store.updateTaskErr = errors.New("disk full")
	_, err := f.svc.File.AttachFile(ctx, f.cadet, seed.ID, Upload{Filename: "a.pdf", Content: []byte("x")})
	assertKind(t, err, ErrStorageFailure)

	if len(f.store.data.files) != 0 {
		t.Errorf("file row committed without the status transition")
	}
	if got := f.store.data.tasks[seed.ID].StatusCode; got != constant.TaskStatusInProgress {
		t.Errorf("status = %s", got.Name())
	}
	if len(f.blobs.blobs) != 0 || len(f.blobs.removed) != 1 {
		t.Errorf("orphaned blob was not removed")
	}

	f.store.updateTaskErr = nil
	f.store.createFileErr = errors.New("constraint")
	_, err = f.svc.File.AttachFile(ctx, f.cadet, seed.ID, Upload{Filename: "a.pdf", Content: []byte("x")})
	assertKind(t, err, ErrStorageFailure)
	if got := f.store.data.tasks[seed.ID].StatusCode; got != constant.TaskStatusInProgress {
		t.Errorf("status = %s", got.Name())
	}

	f.store.createFileErr = nil
	f.blobs.storeErr = errors.New("bucket gone")
	_, err = f.svc.File.AttachFile(ctx, f.cadet, seed.ID, Upload{Filename: "a.pdf", Content: []byte("x")})
	assertKind(t, err, ErrStorageFailure)
}

func TestDownloadAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.newProject(t, "Lab report #1", f.cadet, f.otherCadet)
	seed := f.taskOf(t, p.ID, f.cadet.ID)

	file, err := f.svc.File.AttachFile(ctx, f.cadet, seed.ID, Upload{Filename: "my report.pdf", Content: []byte("%PDF")})
	if err != nil {
		t.Fatalf("AttachFile: %v", err)
	}

	tests := []struct {
		name    string
		actor   Principal
		wantErr *Error
	}{
		{"author", f.cadet, nil},
		{"owning curator", f.curator, nil},
		{"other cadet", f.otherCadet, ErrForbidden},
		{"other curator", f.otherCurator, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := f.svc.File.DownloadAuthorization(ctx, tt.actor, file.ID)
			if tt.wantErr != nil {
				assertKind(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := "task_" + seed.ID + "_Task_for_project_Lab_report_1_Petrov_Ivan_my_report.pdf"
			if d.DisplayName != want {
				t.Errorf("DisplayName = %q, want %q", d.DisplayName, want)
			}
		})
	}

	_, rc, err := f.svc.File.OpenFile(ctx, f.cadet, file.ID)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(body, []byte("%PDF")) {
		t.Errorf("body = %q", body)
	}

	delete(f.blobs.blobs, file.StorageRef)
	_, err = f.svc.File.DownloadAuthorization(ctx, f.cadet, file.ID)
	assertKind(t, err, ErrNotFound)

	_, err = f.svc.File.DownloadAuthorization(ctx, f.cadet, "missing")
	assertKind(t, err, ErrNotFound)
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		author   model.User
		filename string
		want     string
	}{
		{
			name:     "punctuation stripped",
			title:    "Lab: sockets & threads!",
			author:   model.User{LastName: "Petrov", FirstName: "Ivan", Patronymic: "Sergeevich"},
			filename: "lab.zip",
			want:     "task_t1_Lab_sockets__threads_Petrov_Ivan_Sergeevich_lab.zip",
		},
		{
			name:     "cyrillic kept",
			title:    "Отчёт - часть_1 ",
			author:   model.User{LastName: "Иванов", FirstName: "Иван"},
			filename: "отчёт.docx",
			want:     "task_t1_Отчёт_-_часть_1_Иванов_Иван_отчёт.docx",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := model.Task{BaseModel: model.BaseModel{ID: "t1"}, Title: tt.title}
			if got := DownloadName(task, tt.author, tt.filename); got != tt.want {
				t.Errorf("DownloadName = %q, want %q", got, tt.want)
			}
		})
	}
}

package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
	"github.com/SeakMengs/CadetTrack/internal/report"
	"github.com/SeakMengs/CadetTrack/internal/service"
	"github.com/SeakMengs/CadetTrack/internal/util"
	"github.com/gin-gonic/gin"
)

type TaskController struct {
	*baseController
}

type taskFilter struct {
	Status    constant.TaskStatus `form:"status" binding:"omitempty,taskStatus"`
	ProjectID string              `form:"projectId"`
}

func (f taskFilter) apply(tasks []model.Task) []model.Task {
	if f.Status == 0 && f.ProjectID == "" {
		return tasks
	}

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Status != 0 && t.StatusCode != f.Status {
			continue
		}
		if f.ProjectID != "" && t.ProjectID != f.ProjectID {
			continue
		}
		out = append(out, t)
	}
	return out
}

// visibleTasks lists the caller's tasks narrowed by the query filter. It
// writes the error response itself.
func (tc TaskController) visibleTasks(ctx *gin.Context) ([]model.Task, bool) {
	var filter taskFilter

	principal, ok := tc.getPrincipal(ctx)
	if !ok {
		return nil, false
	}

	if err := ctx.ShouldBindQuery(&filter); err != nil {
		tc.responseBindError(ctx, err)
		return nil, false
	}

	tasks, err := tc.app.Service.Task.ListTasksFor(ctx, principal)
	if err != nil {
		tc.responseError(ctx, "Failed to list tasks", err)
		return nil, false
	}

	return filter.apply(tasks), true
}

func (tc TaskController) ListTasks(ctx *gin.Context) {
	tasks, ok := tc.visibleTasks(ctx)
	if !ok {
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

func (tc TaskController) ExportTasks(ctx *gin.Context) {
	tasks, ok := tc.visibleTasks(ctx)
	if !ok {
		return
	}

	now := tc.app.Service.Now()
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.FileName(now)))
	ctx.Header("Content-Type", report.ContentType)
	ctx.Status(http.StatusOK)

	if err := report.WriteTaskReport(ctx.Writer, tasks, now); err != nil {
		// Headers are already out, nothing useful left to send.
		tc.app.Logger.Errorw("Failed to write task report", "error", err)
		ctx.Abort()
	}
}

func (tc TaskController) CreateTask(ctx *gin.Context) {
	type Request struct {
		ProjectID   string `json:"projectId" form:"projectId" binding:"required"`
		CadetID     string `json:"cadetId" form:"cadetId" binding:"required"`
		Title       string `json:"title" form:"title" binding:"required,strNotEmpty,cmax=255"`
		Description string `json:"description" form:"description"`
	}
	var body Request

	principal, ok := tc.getPrincipal(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		tc.responseBindError(ctx, err)
		return
	}

	task, err := tc.app.Service.Task.CreateTask(ctx, principal, service.CreateTaskParams{
		ProjectID:   body.ProjectID,
		CadetID:     body.CadetID,
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		tc.responseError(ctx, "Failed to create task", err)
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"task": task,
	})
}

// GetTaskById starts a waiting task when its cadet opens it. Curators also
// get the cadet's progress within the project.
func (tc TaskController) GetTaskById(ctx *gin.Context) {
	principal, ok := tc.getPrincipal(ctx)
	if !ok {
		return
	}

	task, err := tc.app.Service.Task.GetTaskForActor(ctx, principal, ctx.Param("taskId"))
	if err != nil {
		tc.responseError(ctx, "Failed to get task", err)
		return
	}

	res := gin.H{
		"task":    task,
		"project": task.Project,
	}
	if principal.IsCurator() {
		progress, err := tc.app.Service.Task.CadetProgress(ctx, principal, *task)
		if err != nil {
			tc.responseError(ctx, "Failed to count cadet progress", err)
			return
		}
		res["progress"] = progress
	}

	util.ResponseSuccess(ctx, res)
}

func (tc TaskController) ApproveTask(ctx *gin.Context) {
	principal, ok := tc.getPrincipal(ctx)
	if !ok {
		return
	}

	task, err := tc.app.Service.Task.ApproveTask(ctx, principal, ctx.Param("taskId"))
	if err != nil {
		tc.responseError(ctx, "Failed to approve task", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"task": task,
	})
}

func (tc TaskController) RejectTask(ctx *gin.Context) {
	principal, ok := tc.getPrincipal(ctx)
	if !ok {
		return
	}

	task, err := tc.app.Service.Task.RejectTask(ctx, principal, ctx.Param("taskId"))
	if err != nil {
		tc.responseError(ctx, "Failed to reject task", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"task": task,
	})
}

func (tc TaskController) ListTaskFiles(ctx *gin.Context) {
	principal, ok := tc.getPrincipal(ctx)
	if !ok {
		return
	}

	files, err := tc.app.Service.Task.ListTaskFiles(ctx, principal, ctx.Param("taskId"))
	if err != nil {
		tc.responseError(ctx, "Failed to list files", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"files": files,
		"total": len(files),
	})
}

// UploadTaskFile expects a multipart form with the upload under "file".
func (tc TaskController) UploadTaskFile(ctx *gin.Context) {
	principal, ok := tc.getPrincipal(ctx)
	if !ok {
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "No file uploaded", util.GenerateErrorMessages(errors.New("file is required"), "file"), nil)
		return
	}

	src, err := header.Open()
	if err != nil {
		tc.app.Logger.Errorw("Failed to open uploaded file", "error", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to read file", util.GenerateErrorMessages(err, "file"), nil)
		return
	}
	defer src.Close()

	// One byte over the limit is enough for the size check to reject it.
	content, err := io.ReadAll(io.LimitReader(src, constant.MaxUploadBytes+1))
	if err != nil {
		tc.app.Logger.Errorw("Failed to read uploaded file", "error", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to read file", util.GenerateErrorMessages(err, "file"), nil)
		return
	}

	file, err := tc.app.Service.File.AttachFile(ctx, principal, ctx.Param("taskId"), service.Upload{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Content:  content,
	})
	if err != nil {
		tc.responseError(ctx, "Failed to upload file", err)
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"file": file,
	})
}

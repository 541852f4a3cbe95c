package controller

import (
	"net/http"
	"strings"
	"time"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/service"
	"github.com/SeakMengs/CadetTrack/internal/util"
	"github.com/gin-gonic/gin"
)

type ProjectController struct {
	*baseController
}

// "" yields nil
func parseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(util.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (pc ProjectController) CreateProject(ctx *gin.Context) {
	type Request struct {
		Title       string                 `json:"title" form:"title" binding:"required,strNotEmpty,cmax=255"`
		Description string                 `json:"description" form:"description"`
		Status      constant.ProjectStatus `json:"status" form:"status" binding:"projectStatus"`
		Deadline    string                 `json:"deadline" form:"deadline" binding:"omitempty,cdate"`
		CadetIDs    []string               `json:"cadetIds" form:"cadetIds"`
	}
	var body Request

	principal, ok := pc.getPrincipal(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		pc.responseBindError(ctx, err)
		return
	}

	deadline, err := parseDeadline(body.Deadline)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err, "deadline"), nil)
		return
	}

	project, err := pc.app.Service.Project.CreateProject(ctx, principal, service.CreateProjectParams{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Deadline:    deadline,
		CadetIDs:    body.CadetIDs,
	})
	if err != nil {
		pc.responseError(ctx, "Failed to create project", err)
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"project": project,
	})
}

func (pc ProjectController) ListProjects(ctx *gin.Context) {
	principal, ok := pc.getPrincipal(ctx)
	if !ok {
		return
	}

	projects, err := pc.app.Service.Project.ListProjectsFor(ctx, principal)
	if err != nil {
		pc.responseError(ctx, "Failed to list projects", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"projects": projects,
		"total":    len(projects),
	})
}

func (pc ProjectController) GetProjectById(ctx *gin.Context) {
	principal, ok := pc.getPrincipal(ctx)
	if !ok {
		return
	}

	view, err := pc.app.Service.Project.GetProjectForActor(ctx, principal, ctx.Param("projectId"))
	if err != nil {
		pc.responseError(ctx, "Failed to get project", err)
		return
	}

	util.ResponseSuccess(ctx, view)
}

// UpdateProject is a partial update. An empty "deadline" clears it; an absent
// "cadetIds" leaves the roster alone.
func (pc ProjectController) UpdateProject(ctx *gin.Context) {
	type Request struct {
		Title       *string                 `json:"title" binding:"omitempty,strNotEmpty,cmax=255"`
		Description *string                 `json:"description"`
		Status      *constant.ProjectStatus `json:"status" binding:"omitempty,projectStatus"`
		Deadline    *string                 `json:"deadline"`
		CadetIDs    []string                `json:"cadetIds"`
	}
	var body Request

	principal, ok := pc.getPrincipal(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		pc.responseBindError(ctx, err)
		return
	}

	params := service.UpdateProjectParams{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		CadetIDs:    body.CadetIDs,
	}
	if body.Deadline != nil {
		deadline, err := parseDeadline(*body.Deadline)
		if err != nil {
			util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err, "deadline"), nil)
			return
		}
		params.Deadline = deadline
		params.ClearDeadline = deadline == nil
	}

	project, err := pc.app.Service.Project.UpdateProject(ctx, principal, ctx.Param("projectId"), params)
	if err != nil {
		pc.responseError(ctx, "Failed to update project", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"project": project,
	})
}

func (pc ProjectController) DeleteProject(ctx *gin.Context) {
	principal, ok := pc.getPrincipal(ctx)
	if !ok {
		return
	}

	projectId := ctx.Param("projectId")
	if err := pc.app.Service.Project.DeleteProject(ctx, principal, projectId); err != nil {
		pc.responseError(ctx, "Failed to delete project", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"projectId": projectId,
	})
}

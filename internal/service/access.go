package service

import (
	"slices"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
)

// Principal is the authenticated caller. Every operation takes it explicitly.
type Principal struct {
	ID   string
	Role constant.UserRole
}

func (p Principal) IsCurator() bool {
	return p.Role == constant.UserRoleCurator
}

func (p Principal) IsCadet() bool {
	return p.Role == constant.UserRoleCadet
}

var rolePermissions = map[constant.UserRole][]constant.TaskPermission{
	constant.UserRoleCurator: {
		constant.TaskRead,
		constant.TaskReview,
		constant.FileListAll,
	},
	constant.UserRoleCadet: {
		constant.TaskRead,
		constant.TaskWork,
		constant.FileUpload,
	},
}

func HasPermission(role constant.UserRole, permission constant.TaskPermission) bool {
	return slices.Contains(rolePermissions[role], permission)
}

func ownsProject(p Principal, project model.Project) bool {
	return p.IsCurator() && project.CuratorID != "" && project.CuratorID == p.ID
}

func assignedTo(p Principal, task model.Task) bool {
	return p.IsCadet() && task.CadetID != "" && task.CadetID == p.ID
}

// CanReadTask: the assigned cadet or the curator owning the task's project.
func CanReadTask(p Principal, task model.Task, project model.Project) bool {
	if !HasPermission(p.Role, constant.TaskRead) {
		return false
	}
	return assignedTo(p, task) || ownsProject(p, project)
}

func CanWorkOnTask(p Principal, task model.Task) bool {
	return HasPermission(p.Role, constant.TaskWork) && assignedTo(p, task)
}

func CanUploadToTask(p Principal, task model.Task) bool {
	return HasPermission(p.Role, constant.FileUpload) && assignedTo(p, task)
}

func CanReviewTask(p Principal, project model.Project) bool {
	return HasPermission(p.Role, constant.TaskReview) && ownsProject(p, project)
}

func CanManageProject(p Principal, project model.Project) bool {
	return ownsProject(p, project)
}

// Curators see every project; cadets only the ones they have a task in.
func CanReadProject(p Principal, hasAssignedTask bool) bool {
	return p.IsCurator() || (p.IsCadet() && hasAssignedTask)
}

// Cadets fetch what they uploaded; curators fetch files under their own projects.
func CanDownloadFile(p Principal, file model.File, project model.Project) bool {
	switch p.Role {
	case constant.UserRoleCadet:
		return file.AuthorID == p.ID
	case constant.UserRoleCurator:
		return ownsProject(p, project)
	default:
		return false
	}
}

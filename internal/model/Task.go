package model

import "github.com/SeakMengs/CadetTrack/internal/constant"

type Task struct {
	BaseModel
	Title       string              `gorm:"type:varchar(255);not null;" json:"title" form:"title" binding:"required"`
	Description string              `gorm:"type:text" json:"description" form:"description"`
	StatusCode  constant.TaskStatus `gorm:"type:integer;not null;default:1;index;check:chk_tasks_status_code,status_code IN (1,2,3,4)" json:"statusCode"`

	ProjectID string  `gorm:"type:text;not null;index" json:"projectId" form:"projectId"`
	Project   Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-" form:"-"`

	CadetID string `gorm:"type:text;not null;index" json:"cadetId" form:"cadetId"`
	Cadet   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-" form:"-"`

	Files []File `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-" form:"-"`
}

func (t Task) TableName() string {
	return "tasks"
}

func (t Task) StatusName() string {
	return t.StatusCode.Name()
}

package model

import (
	"time"

	"github.com/SeakMengs/CadetTrack/internal/constant"
)

type Project struct {
	BaseModel
	Title       string                 `gorm:"type:varchar(255);not null;" json:"title" form:"title" binding:"required"`
	Description string                 `gorm:"type:text" json:"description" form:"description"`
	Status      constant.ProjectStatus `gorm:"type:integer;not null;default:0;index" json:"status" form:"status"`
	Deadline    *time.Time             `gorm:"type:date" json:"deadline" form:"deadline"`

	CuratorID string `gorm:"type:text;not null;index" json:"curatorId" form:"curatorId"`
	Curator   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"curator,omitempty" form:"curator"`

	Tasks []Task `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tasks,omitempty"`
}

func (p Project) TableName() string {
	return "projects"
}

package model

import "github.com/SeakMengs/CadetTrack/internal/constant"

// Reference table kept for reporting tools that join on status codes.
type TaskStatusCode struct {
	StatusCode  constant.TaskStatus `gorm:"type:integer;primaryKey;autoIncrement:false" json:"statusCode"`
	StatusName  string              `gorm:"type:varchar(20);not null" json:"statusName"`
	Description string              `gorm:"type:text" json:"description"`
}

func (tsc TaskStatusCode) TableName() string {
	return "task_status_codes"
}

func TaskStatusCodes() []TaskStatusCode {
	codes := make([]TaskStatusCode, 0, len(constant.TaskStatuses))
	for _, s := range constant.TaskStatuses {
		codes = append(codes, TaskStatusCode{
			StatusCode:  s,
			StatusName:  s.Name(),
			Description: s.Description(),
		})
	}
	return codes
}

package model

import (
	"path/filepath"
	"strings"
	"time"
)

type File struct {
	BaseModel
	FileName   string    `gorm:"type:text;not null" json:"fileName" form:"fileName" binding:"required"`
	StorageRef string    `gorm:"type:text;not null;uniqueIndex" json:"-"`
	Size       int64     `gorm:"type:bigint;not null" json:"size"`
	MimeType   string    `gorm:"type:varchar(100)" json:"mimeType"`
	UploadedAt time.Time `gorm:"type:timestamptz;default:CURRENT_TIMESTAMP;not null" json:"uploadedAt"`

	TaskID string `gorm:"type:text;not null;index" json:"taskId"`
	Task   Task   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	AuthorID string `gorm:"type:text;not null;index" json:"authorId"`
	Author   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (f File) TableName() string {
	return "files"
}

// Lower-cased extension without the dot, "" when the name has none.
func (f File) Extension() string {
	return FileExtension(f.FileName)
}

func FileExtension(name string) string {
	base := filepath.Base(name)
	idx := strings.LastIndex(base, ".")
	if idx < 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}

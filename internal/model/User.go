package model

import (
	"strings"
	"time"

	"github.com/SeakMengs/CadetTrack/internal/constant"
)

type User struct {
	BaseModel
	Email         string            `gorm:"unique;not null;type:citext" json:"email" form:"email" binding:"required"`
	FirstName     string            `gorm:"type:varchar(50);not null;" json:"firstName" form:"firstName" binding:"required"`
	LastName      string            `gorm:"type:varchar(50);not null;" json:"lastName" form:"lastName" binding:"required"`
	Patronymic    string            `gorm:"type:varchar(50)" json:"patronymic" form:"patronymic"`
	PasswordHash  string            `gorm:"type:text;not null" json:"-"`
	Role          constant.UserRole `gorm:"type:varchar(10);not null;index;check:chk_users_role,role IN ('curator','cadet')" json:"role"`
	AcademicGroup string            `gorm:"type:varchar(50)" json:"academicGroup,omitempty" form:"academicGroup"`
	RegisteredAt  time.Time         `gorm:"type:timestamptz;default:CURRENT_TIMESTAMP;not null" json:"registeredAt"`
}

func (u User) TableName() string {
	return "users"
}

// e.g. "Ivanov Ivan Ivanovich"
func (u User) FullName() string {
	return strings.TrimSpace(strings.Join([]string{u.LastName, u.FirstName, u.Patronymic}, " "))
}

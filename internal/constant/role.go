package constant

// UserRole is fixed when the account is created.
type UserRole string

const (
	UserRoleCurator UserRole = "curator"
	UserRoleCadet   UserRole = "cadet"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleCurator || r == UserRoleCadet
}

type TaskPermission string

const (
	TaskRead    TaskPermission = "task:read"
	TaskWork    TaskPermission = "task:work"
	TaskReview  TaskPermission = "task:review"
	FileUpload  TaskPermission = "file:upload"
	FileListAll TaskPermission = "file:list:all"
)

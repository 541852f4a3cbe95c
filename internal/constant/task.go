package constant

// TaskStatus values are persisted as-is; the set 1..4 is closed.
type TaskStatus int

const (
	TaskStatusWaiting    TaskStatus = 1
	TaskStatusInProgress TaskStatus = 2
	TaskStatusInReview   TaskStatus = 3
	TaskStatusDone       TaskStatus = 4
)

var TaskStatuses = []TaskStatus{
	TaskStatusWaiting,
	TaskStatusInProgress,
	TaskStatusInReview,
	TaskStatusDone,
}

func (s TaskStatus) IsValid() bool {
	return s >= TaskStatusWaiting && s <= TaskStatusDone
}

func (s TaskStatus) Name() string {
	switch s {
	case TaskStatusWaiting:
		return "Waiting"
	case TaskStatusInProgress:
		return "InProgress"
	case TaskStatusInReview:
		return "InReview"
	case TaskStatusDone:
		return "Done"
	default:
		return "Unknown"
	}
}

func (s TaskStatus) Description() string {
	switch s {
	case TaskStatusWaiting:
		return "Task is waiting to be started"
	case TaskStatusInProgress:
		return "Task is in progress"
	case TaskStatusInReview:
		return "Task was submitted for review"
	case TaskStatusDone:
		return "Task is done"
	default:
		return ""
	}
}

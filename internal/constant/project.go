package constant

type ProjectStatus int

const (
	ProjectStatusPlanning ProjectStatus = iota
	ProjectStatusActive
	ProjectStatusCompleted
)

func (s ProjectStatus) IsValid() bool {
	return s >= ProjectStatusPlanning && s <= ProjectStatusCompleted
}

func (s ProjectStatus) Name() string {
	switch s {
	case ProjectStatusPlanning:
		return "Planning"
	case ProjectStatusActive:
		return "Active"
	case ProjectStatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

const (
	// Seed task titles embed at most this many runes of the project title.
	SeedTaskTitleRunes = 30
)

package checklists_enums

type ChecklistStatus string

const (
	ChecklistStatusDraft      ChecklistStatus = "draft"
	ChecklistStatusInProgress ChecklistStatus = "in_progress"
	ChecklistStatusCompleted  ChecklistStatus = "completed"
	ChecklistStatusArchived   ChecklistStatus = "archived"
)

var AllStatuses = []ChecklistStatus{
	ChecklistStatusDraft,
	ChecklistStatusInProgress,
	ChecklistStatusCompleted,
	ChecklistStatusArchived,
}

func (s ChecklistStatus) IsValid() bool {
	switch s {
	case ChecklistStatusDraft, ChecklistStatusInProgress, ChecklistStatusCompleted, ChecklistStatusArchived:
		return true
	default:
		return false
	}
}

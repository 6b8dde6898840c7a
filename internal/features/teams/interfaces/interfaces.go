package teams_interfaces

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamDeletionListener runs inside the team deletion transaction. Returning
// an error aborts the deletion.
type TeamDeletionListener interface {
	OnBeforeTeamDeletion(tx *gorm.DB, teamID uuid.UUID) error
}

// TeamDeletedListener runs once the team deletion has committed.
type TeamDeletedListener interface {
	OnTeamDeleted(teamID uuid.UUID)
}

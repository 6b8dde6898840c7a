package offline_sync

import (
	"encoding/json"

	checklists_dto "pocketprc/internal/features/checklists/dto"

	"github.com/google/uuid"
)

const (
	ActionTypeCreate = "create"
	ActionTypeUpdate = "update"
	ActionTypeDelete = "delete"

	EntityChecklist = "checklist"
)

// SyncActionDTO is one change recorded by an offline client. ClientID is
// echoed back untouched so the client can match results to its queue.
type SyncActionDTO struct {
	Type            string          `json:"type"`
	Entity          string          `json:"entity"`
	Data            json.RawMessage `json:"data"`
	ClientID        any             `json:"clientId"`
	ClientUpdatedAt any             `json:"clientUpdatedAt"`
}

type BatchRequestDTO struct {
	Actions []*SyncActionDTO `json:"actions"`
}

type SyncResultDTO struct {
	ClientID any                          `json:"clientId"`
	Success  bool                         `json:"success"`
	ServerID *uuid.UUID                   `json:"serverId,omitempty"`
	Data     *checklists_dto.ChecklistDTO `json:"data,omitempty"`
	Error    string                       `json:"error,omitempty"`
}

type BatchResponseDTO struct {
	Results []*SyncResultDTO `json:"results"`
}

// checklistData is the payload of a checklist action. The id stays a string
// so a malformed id is reported per item instead of failing the batch.
type checklistData struct {
	ID              *string        `json:"id"`
	PropertyAddress *string        `json:"propertyAddress"`
	FormData        map[string]any `json:"formData"`
	Notes           *string        `json:"notes"`
	Status          *string        `json:"status"`
	Version         *int           `json:"version"`
}

func (d *checklistData) hasContentChanges() bool {
	return d.PropertyAddress != nil || d.FormData != nil || d.Notes != nil
}

package leads

type SendLeadRequestDTO struct {
	SenderName      string         `json:"senderName"`
	PropertyAddress string         `json:"propertyAddress"`
	ChecklistID     *string        `json:"checklistId"`
	LeadData        map[string]any `json:"leadData"`
}

type SendLeadResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

package leads

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	checklists_models "pocketprc/internal/features/checklists/models"
	checklists_services "pocketprc/internal/features/checklists/services"
	"pocketprc/internal/features/mail"
	users_models "pocketprc/internal/features/users/models"
	"pocketprc/internal/util/api_errors"

	"github.com/google/uuid"
)

var (
	errLeadFieldsRequired = api_errors.Validation("senderName and propertyAddress are required")
	errInvalidChecklistID = api_errors.Validation("Invalid checklist ID")
)

type MailQueue interface {
	Enqueue(message *mail.Message) error
}

type LeadService struct {
	checklistService *checklists_services.ChecklistService
	mailQueue        MailQueue
	recipients       map[string]string
	logger           *slog.Logger
}

func (s *LeadService) SetMailQueue(mailQueue MailQueue) {
	s.mailQueue = mailQueue
}

func (s *LeadService) SendUnderContractLead(
	user *users_models.User,
	request *SendLeadRequestDTO,
) (*SendLeadResponseDTO, error) {
	return s.send(user, underContractLead, request)
}

func (s *LeadService) SendRateRequest(
	user *users_models.User,
	request *SendLeadRequestDTO,
) (*SendLeadResponseDTO, error) {
	return s.send(user, rateRequestLead, request)
}

func (s *LeadService) send(
	user *users_models.User,
	kind leadKind,
	request *SendLeadRequestDTO,
) (*SendLeadResponseDTO, error) {
	request.SenderName = strings.TrimSpace(request.SenderName)
	request.PropertyAddress = strings.TrimSpace(request.PropertyAddress)

	if request.SenderName == "" || request.PropertyAddress == "" {
		return nil, errLeadFieldsRequired
	}

	checklist, err := s.resolveChecklist(user, request.ChecklistID)
	if err != nil {
		return nil, err
	}

	recipient := s.recipients[kind.action]
	message := &mail.Message{
		To:      recipient,
		Subject: buildSubject(kind, request.SenderName),
		Text:    buildSummary(kind, request, time.Now()),
	}

	if err := s.mailQueue.Enqueue(message); err != nil {
		return nil, fmt.Errorf("failed to queue lead email: %w", err)
	}

	s.logger.Info("Lead queued",
		slog.String("kind", kind.action),
		slog.String("userId", user.ID.String()),
		slog.String("recipient", recipient))

	if checklist != nil {
		s.checklistService.WriteChecklistActivity(user, checklist, kind.action, map[string]any{
			"recipient":       recipient,
			"propertyAddress": request.PropertyAddress,
		})
	}

	return &SendLeadResponseDTO{
		Success: true,
		Message: fmt.Sprintf("Lead sent to %s (%s)", kind.partnerName, recipient),
	}, nil
}

func (s *LeadService) resolveChecklist(
	user *users_models.User,
	rawID *string,
) (*checklists_models.Checklist, error) {
	if rawID == nil || strings.TrimSpace(*rawID) == "" {
		return nil, nil
	}

	checklistID, err := uuid.Parse(strings.TrimSpace(*rawID))
	if err != nil {
		return nil, errInvalidChecklistID
	}

	return s.checklistService.GetChecklistForView(user, checklistID)
}

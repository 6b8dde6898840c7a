package attachments

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"pocketprc/internal/features/activity_logs"
	checklists_dto "pocketprc/internal/features/checklists/dto"
	checklists_services "pocketprc/internal/features/checklists/services"
	users_models "pocketprc/internal/features/users/models"
	"pocketprc/internal/objectstore"
	"pocketprc/internal/storage"
	"pocketprc/internal/util/api_errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errAttachmentNotFound = api_errors.NotFound("Attachment not found")

// ObjectStorage is the subset of the object store the attachments need.
type ObjectStorage interface {
	Put(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, path string) (*objectstore.Object, error)
	Remove(ctx context.Context, path string) error
}

type AttachmentService struct {
	attachmentRepository *AttachmentRepository
	checklistService     *checklists_services.ChecklistService
	activityLogService   *activity_logs.ActivityLogService
	objectStorage        ObjectStorage
	logger               *slog.Logger
}

func (s *AttachmentService) SetObjectStorage(objectStorage ObjectStorage) {
	s.objectStorage = objectStorage
}

// UploadAttachments stores every file and then inserts all rows in one
// transaction. Stored objects are removed again when the insert fails.
func (s *AttachmentService) UploadAttachments(
	ctx context.Context,
	user *users_models.User,
	checklistID uuid.UUID,
	files []*multipart.FileHeader,
) ([]*checklists_dto.AttachmentDTO, error) {
	checklist, err := s.checklistService.GetChecklistForEdit(user, checklistID)
	if err != nil {
		return nil, err
	}

	if err := ValidateFiles(files); err != nil {
		return nil, err
	}

	attachments := make([]*Attachment, 0, len(files))
	lastMillis := int64(0)

	for _, file := range files {
		millis := max(time.Now().UnixMilli(), lastMillis+1)
		lastMillis = millis

		filename := fmt.Sprintf("%d-%s", millis, SanitizeFilename(file.Filename))
		attachment := &Attachment{
			ID:           uuid.New(),
			ChecklistID:  checklist.ID,
			UploadedBy:   &user.ID,
			Filename:     filename,
			OriginalName: file.Filename,
			MimeType:     mimeTypeOf(file),
			SizeBytes:    file.Size,
			StoragePath:  fmt.Sprintf("checklists/%s/%s", checklist.ID, filename),
			CreatedAt:    time.Now().UTC(),
		}

		if err := s.storeFile(ctx, attachment, file); err != nil {
			s.removeObjects(attachments)
			return nil, err
		}

		attachments = append(attachments, attachment)
	}

	err = storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := s.attachmentRepository.CreateAttachments(tx, attachments); err != nil {
			return fmt.Errorf("failed to save attachments: %w", err)
		}

		return s.activityLogService.WriteInTx(tx, &activity_logs.ActivityLogEntry{
			UserID:      &user.ID,
			ChecklistID: &checklist.ID,
			TeamID:      checklist.TeamID,
			Action:      activity_logs.ActionFilesUploaded,
			Details:     map[string]any{"count": len(attachments)},
		})
	})
	if err != nil {
		s.removeObjects(attachments)
		return nil, err
	}

	result := make([]*checklists_dto.AttachmentDTO, 0, len(attachments))
	for _, attachment := range attachments {
		result = append(result, attachment.ToDTO())
	}

	return result, nil
}

// OpenAttachment returns the attachment and its content. The caller closes
// the reader.
func (s *AttachmentService) OpenAttachment(
	ctx context.Context,
	user *users_models.User,
	attachmentID uuid.UUID,
) (*Attachment, *objectstore.Object, error) {
	attachment, err := s.getAttachment(attachmentID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.checklistService.GetChecklistForView(user, attachment.ChecklistID); err != nil {
		return nil, nil, err
	}

	object, err := s.objectStorage.Get(ctx, attachment.StoragePath)
	if err != nil {
		s.logger.Error("Attachment content is missing",
			slog.String("attachmentId", attachment.ID.String()),
			slog.String("path", attachment.StoragePath),
			slog.String("error", err.Error()))
		return nil, nil, api_errors.NotFound("File not found")
	}

	return attachment, object, nil
}

// DeleteAttachment is allowed to the uploader and to whoever may archive the
// parent checklist.
func (s *AttachmentService) DeleteAttachment(
	ctx context.Context,
	user *users_models.User,
	attachmentID uuid.UUID,
) error {
	attachment, err := s.getAttachment(attachmentID)
	if err != nil {
		return err
	}

	checklist, err := s.checklistService.GetChecklistForView(user, attachment.ChecklistID)
	isUploader := attachment.UploadedBy != nil && *attachment.UploadedBy == user.ID
	if err != nil && !isUploader {
		return err
	}

	if !isUploader && !checklist.CanArchive(user) {
		return checklists_services.ErrAccessDenied
	}

	if err := s.attachmentRepository.DeleteAttachment(attachment.ID); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	if err := s.objectStorage.Remove(ctx, attachment.StoragePath); err != nil {
		s.logger.Warn("Failed to remove attachment content",
			slog.String("path", attachment.StoragePath),
			slog.String("error", err.Error()))
	}

	s.activityLogService.Write(&activity_logs.ActivityLogEntry{
		UserID:      &user.ID,
		ChecklistID: &attachment.ChecklistID,
		Action:      activity_logs.ActionFileDeleted,
		Details: map[string]any{
			"attachmentId": attachment.ID.String(),
			"originalName": attachment.OriginalName,
		},
	})

	return nil
}

func (s *AttachmentService) ListChecklistAttachments(checklistID uuid.UUID) ([]*checklists_dto.AttachmentDTO, error) {
	return s.attachmentRepository.GetByChecklist(checklistID)
}

func (s *AttachmentService) getAttachment(attachmentID uuid.UUID) (*Attachment, error) {
	attachment, err := s.attachmentRepository.GetAttachmentByID(attachmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	if attachment == nil {
		return nil, errAttachmentNotFound
	}

	return attachment, nil
}

func (s *AttachmentService) storeFile(ctx context.Context, attachment *Attachment, file *multipart.FileHeader) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() { _ = src.Close() }()

	return s.objectStorage.Put(ctx, attachment.StoragePath, src, file.Size, attachment.MimeType)
}

func (s *AttachmentService) removeObjects(attachments []*Attachment) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, attachment := range attachments {
		if err := s.objectStorage.Remove(ctx, attachment.StoragePath); err != nil {
			s.logger.Warn("Failed to remove orphaned attachment content",
				slog.String("path", attachment.StoragePath),
				slog.String("error", err.Error()))
		}
	}
}

package attachments

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	users_middleware "pocketprc/internal/features/users/middleware"
	users_models "pocketprc/internal/features/users/models"
	"pocketprc/internal/util/api_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadBodySize = MaxFiles*MaxFileSize + 1024*1024

type AttachmentController struct {
	attachmentService *AttachmentService
	logger            *slog.Logger
}

func (c *AttachmentController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/checklists/:id/attachments", c.UploadAttachments)
	router.GET("/attachments/:id", c.GetAttachment)
	router.DELETE("/attachments/:id", c.DeleteAttachment)
}

// UploadAttachments
// @Summary Upload attachments
// @Description Up to 20 images or PDFs, 10MB each, in the "files" field
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checklist ID"
// @Param files formData file true "Files"
// @Success 201 {object} UploadResponseDTO
// @Failure 400 {object} map[string]string "Invalid upload"
// @Failure 403 {object} map[string]string "Access denied"
// @Router /checklists/{id}/attachments [post]
func (c *AttachmentController) UploadAttachments(ctx *gin.Context) {
	user, checklistID, ok := getUserAndID(ctx, "Invalid checklist ID")
	if !ok {
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxUploadBodySize)

	form, err := ctx.MultipartForm()
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "File too large (max 10MB)"})
			return
		}

		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	attachments, err := c.attachmentService.UploadAttachments(ctx.Request.Context(), user, checklistID, form.File["files"])
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, UploadResponseDTO{Attachments: attachments})
}

// GetAttachment
// @Summary Download attachment
// @Description Streams the file inline
// @Tags attachments
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Attachment ID"
// @Success 200 {file} file
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Not found"
// @Router /attachments/{id} [get]
func (c *AttachmentController) GetAttachment(ctx *gin.Context) {
	user, attachmentID, ok := getUserAndID(ctx, "Invalid attachment ID")
	if !ok {
		return
	}

	attachment, object, err := c.attachmentService.OpenAttachment(ctx.Request.Context(), user, attachmentID)
	if err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}
	defer func() { _ = object.Reader.Close() }()

	ctx.DataFromReader(http.StatusOK, object.Size, attachment.MimeType, object.Reader, map[string]string{
		"Content-Disposition": fmt.Sprintf(`inline; filename="%s"`, quoteFilename(attachment.OriginalName)),
	})
}

// DeleteAttachment
// @Summary Delete attachment
// @Tags attachments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attachment ID"
// @Success 200 {object} MessageResponseDTO
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Not found"
// @Router /attachments/{id} [delete]
func (c *AttachmentController) DeleteAttachment(ctx *gin.Context) {
	user, attachmentID, ok := getUserAndID(ctx, "Invalid attachment ID")
	if !ok {
		return
	}

	if err := c.attachmentService.DeleteAttachment(ctx.Request.Context(), user, attachmentID); err != nil {
		api_errors.Respond(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, MessageResponseDTO{Message: "Attachment deleted"})
}

func getUserAndID(ctx *gin.Context, invalidIDMessage string) (*users_models.User, uuid.UUID, bool) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, uuid.Nil, false
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": invalidIDMessage})
		return nil, uuid.Nil, false
	}

	return user, id, true
}

func quoteFilename(name string) string {
	return strings.NewReplacer(`"`, "_", "\r", "_", "\n", "_").Replace(name)
}

package branding

import (
	"time"

	"github.com/google/uuid"
)

type BrandingDTO struct {
	TeamID            *uuid.UUID `json:"teamId"`
	AppName           string     `json:"appName"`
	PrimaryColor      string     `json:"primaryColor"`
	PrimaryHoverColor string     `json:"primaryHoverColor"`
	SecondaryColor    string     `json:"secondaryColor"`
	LogoURL           *string    `json:"logoUrl"`
	BrokerageName     string     `json:"brokerageName"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

type BrandingResponseDTO struct {
	Branding *BrandingDTO `json:"branding"`
}

// UpdateBrandingRequestDTO is a partial update: omitted or blank fields keep
// their stored value. An empty logoUrl removes the logo.
type UpdateBrandingRequestDTO struct {
	AppName           *string `json:"appName"`
	PrimaryColor      *string `json:"primaryColor"`
	PrimaryHoverColor *string `json:"primaryHoverColor"`
	SecondaryColor    *string `json:"secondaryColor"`
	LogoURL           *string `json:"logoUrl"`
	BrokerageName     *string `json:"brokerageName"`
}

package branding

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultAppName           = "Pocket PRC"
	DefaultPrimaryColor      = "#b91c1c"
	DefaultPrimaryHoverColor = "#991b1b"
	DefaultSecondaryColor    = "#fbbf24"
	DefaultBrokerageName     = "Keller Williams Realty"
)

// Branding is a row of the branding table. A nil TeamID marks the global row.
type Branding struct {
	ID                uuid.UUID  `json:"id"                gorm:"column:id"`
	TeamID            *uuid.UUID `json:"teamId"            gorm:"column:team_id"`
	AppName           string     `json:"appName"           gorm:"column:app_name"`
	PrimaryColor      string     `json:"primaryColor"      gorm:"column:primary_color"`
	PrimaryHoverColor string     `json:"primaryHoverColor" gorm:"column:primary_hover_color"`
	SecondaryColor    string     `json:"secondaryColor"    gorm:"column:secondary_color"`
	LogoURL           *string    `json:"logoUrl"           gorm:"column:logo_url"`
	BrokerageName     string     `json:"brokerageName"     gorm:"column:brokerage_name"`
	UpdatedBy         *uuid.UUID `json:"updatedBy"         gorm:"column:updated_by"`
	UpdatedAt         time.Time  `json:"updatedAt"         gorm:"column:updated_at"`
}

func (Branding) TableName() string {
	return "branding"
}

// DefaultBranding returns a fresh copy of the built-in theme.
func DefaultBranding() *Branding {
	return &Branding{
		AppName:           DefaultAppName,
		PrimaryColor:      DefaultPrimaryColor,
		PrimaryHoverColor: DefaultPrimaryHoverColor,
		SecondaryColor:    DefaultSecondaryColor,
		BrokerageName:     DefaultBrokerageName,
	}
}

func (b *Branding) ToDTO() *BrandingDTO {
	dto := &BrandingDTO{
		TeamID:            b.TeamID,
		AppName:           b.AppName,
		PrimaryColor:      b.PrimaryColor,
		PrimaryHoverColor: b.PrimaryHoverColor,
		SecondaryColor:    b.SecondaryColor,
		LogoURL:           b.LogoURL,
		BrokerageName:     b.BrokerageName,
	}

	if !b.UpdatedAt.IsZero() {
		updatedAt := b.UpdatedAt
		dto.UpdatedAt = &updatedAt
	}

	return dto
}

// cachedBranding remembers misses too, so teams without their own row do
// not hit the database on every request.
type cachedBranding struct {
	Exists   bool      `json:"exists"`
	Branding *Branding `json:"branding"`
}

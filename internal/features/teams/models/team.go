package teams_models

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID            uuid.UUID  `json:"id"            gorm:"column:id"`
	Name          string     `json:"name"          gorm:"column:name"`
	BrokerageName *string    `json:"brokerageName" gorm:"column:brokerage_name"`
	CreatedBy     *uuid.UUID `json:"createdBy"     gorm:"column:created_by"`
	CreatedAt     time.Time  `json:"createdAt"     gorm:"column:created_at"`
	UpdatedAt     time.Time  `json:"updatedAt"     gorm:"column:updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

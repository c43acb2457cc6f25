package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog captures a mutation performed through the console.
type ActivityLog struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Actor         string            `gorm:"size:64;not null" json:"actor"`
	Action        string            `gorm:"size:64;not null;index" json:"action"`
	EntityType    string            `gorm:"size:64;not null;index" json:"entity_type"`
	EntityID      string            `gorm:"size:64" json:"entity_id"`
	CorrelationID string            `gorm:"size:64" json:"correlation_id"`
	Metadata      datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Card struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ColumnID    uuid.UUID `gorm:"type:uuid;not null;index:idx_cards_column"`
	Title       string    `gorm:"size:255;not null"`
	Description string
	Priority    Priority `gorm:"size:20;not null;default:'medium'"`
	Position    int      `gorm:"not null"`
	CreatedAt   time.Time

	Column Column `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE"`
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
	return nil
}

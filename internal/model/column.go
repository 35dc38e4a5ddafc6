package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Column struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index:idx_columns_board"`
	Name      string    `gorm:"size:255;not null"`
	Position  int       `gorm:"not null"`
	CreatedAt time.Time

	Board Board `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
}

func (c *Column) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BoardAccess grants a non-owner read/write access to a board.
type BoardAccess struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_board_access_board_user;index:idx_board_access_board"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_board_access_board_user;index:idx_board_access_user"`
	GrantedAt time.Time `gorm:"not null"`

	Board Board `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (BoardAccess) TableName() string {
	return "board_access"
}

func (a *BoardAccess) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.GrantedAt.IsZero() {
		a.GrantedAt = time.Now()
	}
	return nil
}

// Collaborator is a user holding a grant on a board.
type Collaborator struct {
	ID        uuid.UUID
	Email     string
	Name      string
	GrantedAt time.Time
}

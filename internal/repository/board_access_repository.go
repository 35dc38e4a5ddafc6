package repository

import (
	"context"
	"errors"

	"github.com/aliciamunhoz/kanban-next/internal/access"
	"github.com/aliciamunhoz/kanban-next/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardAccessRepository struct {
	db *gorm.DB
}

func NewBoardAccessRepository(db *gorm.DB) *BoardAccessRepository {
	return &BoardAccessRepository{db: db}
}

// LoadPolicy builds the access aggregate for a board: its owner plus every grantee.
func (r *BoardAccessRepository) LoadPolicy(ctx context.Context, boardID uuid.UUID) (*access.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Select("id", "owner_id").Where("id = ?", boardID).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}

	var grantees []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.BoardAccess{}).
		Where("board_id = ?", boardID).
		Pluck("user_id", &grantees).Error; err != nil {
		return nil, err
	}

	return access.NewBoard(board.ID, board.OwnerID, grantees...), nil
}

// Grant records access for userID. Returns ErrAlreadyShared if the pair exists.
func (r *BoardAccessRepository) Grant(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.BoardAccess{}).
			Where("board_id = ? AND user_id = ?", boardID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyShared
		}

		grant := model.BoardAccess{BoardID: boardID, UserID: userID}
		if err := tx.Create(&grant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyShared
			}
			return err
		}
		return nil
	})
}

// Revoke removes a grant. Revoking a grant that does not exist is not an error.
func (r *BoardAccessRepository) Revoke(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&model.BoardAccess{}).Error
}

// ListCollaborators returns the grantees of a board, newest grant first.
func (r *BoardAccessRepository) ListCollaborators(ctx context.Context, boardID uuid.UUID) ([]model.Collaborator, error) {
	var collaborators []model.Collaborator
	err := r.db.WithContext(ctx).
		Table("board_access").
		Select("users.id, users.email, users.name, board_access.granted_at").
		Joins("JOIN users ON users.id = board_access.user_id").
		Where("board_access.board_id = ?", boardID).
		Order("board_access.granted_at DESC").
		Scan(&collaborators).Error
	return collaborators, err
}

// ListShared returns boards shared with userID along with their owner, most recently updated first.
func (r *BoardAccessRepository) ListShared(ctx context.Context, userID uuid.UUID) ([]model.SharedBoard, error) {
	var boards []model.SharedBoard
	err := r.db.WithContext(ctx).
		Table("boards").
		Select("boards.id, boards.name, boards.owner_id, users.name AS owner_name, users.email AS owner_email, boards.created_at, boards.updated_at").
		Joins("JOIN board_access ON board_access.board_id = boards.id").
		Joins("JOIN users ON users.id = boards.owner_id").
		Where("board_access.user_id = ?", userID).
		Order("boards.updated_at DESC").
		Scan(&boards).Error
	return boards, err
}

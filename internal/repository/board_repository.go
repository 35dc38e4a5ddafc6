package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aliciamunhoz/kanban-next/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

// ListOwned returns the boards owned by ownerID, most recently updated first.
func (r *BoardRepository) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) CountOwned(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

// Rename changes the board name and bumps updated_at.
func (r *BoardRepository) Rename(ctx context.Context, board *model.Board, name string) error {
	board.Name = name
	board.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(board).Select("name", "updated_at").Updates(board).Error
}

// Delete removes the board together with its columns, cards and grants.
func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var columnIDs []uuid.UUID
		if err := tx.Model(&model.Column{}).Where("board_id = ?", id).Pluck("id", &columnIDs).Error; err != nil {
			return err
		}

		if len(columnIDs) > 0 {
			if err := tx.Where("column_id IN ?", columnIDs).Delete(&model.Card{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("board_id = ?", id).Delete(&model.Column{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&model.BoardAccess{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.Board{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBoardNotFound
		}
		return nil
	})
}

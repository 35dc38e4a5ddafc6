package repository

import (
	"context"
	"errors"

	"github.com/aliciamunhoz/kanban-next/internal/model"
	"github.com/aliciamunhoz/kanban-next/internal/reorder"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

// Create appends the column after the last one on its board.
func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := columnSiblings.lockParents(tx, column.BoardID); err != nil {
			return err
		}
		position, err := columnSiblings.nextPosition(tx, column.BoardID)
		if err != nil {
			return err
		}
		column.Position = position
		return tx.Create(column).Error
	})
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

func (r *ColumnRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position, created_at, id").
		Find(&columns).Error
	return columns, err
}

func (r *ColumnRepository) Rename(ctx context.Context, column *model.Column, name string) error {
	column.Name = name
	return r.db.WithContext(ctx).Model(column).Select("name").Updates(column).Error
}

// Delete removes the column and its cards, then closes the gap among the remaining columns.
func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var column model.Column
		if err := tx.Where("id = ?", id).First(&column).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColumnNotFound
			}
			return err
		}
		if err := columnSiblings.lockParents(tx, column.BoardID); err != nil {
			return err
		}

		if err := tx.Where("column_id = ?", id).Delete(&model.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&model.Column{}).Error; err != nil {
			return err
		}
		return columnSiblings.compact(tx, column.BoardID)
	})
}

// Move places the column at position among its board siblings and
// re-enumerates the board so positions stay 0..N-1. Positions past the
// end are clamped.
func (r *ColumnRepository) Move(ctx context.Context, id uuid.UUID, position int) (*model.Column, error) {
	var column model.Column
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&column).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColumnNotFound
			}
			return err
		}
		if err := columnSiblings.lockParents(tx, column.BoardID); err != nil {
			return err
		}

		siblings, err := columnSiblings.loadSiblings(tx, column.BoardID)
		if err != nil {
			return err
		}

		moved := reorder.Item{ID: column.ID, Position: column.Position, CreatedAt: column.CreatedAt}
		ordered := reorder.Move(siblings, moved, position)
		if err := columnSiblings.write(tx, "move", ordered); err != nil {
			return err
		}

		column.Position = indexOf(ordered, column.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &column, nil
}

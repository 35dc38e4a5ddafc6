package repository

import (
	"context"
	"errors"

	"github.com/aliciamunhoz/kanban-next/internal/model"
	"github.com/aliciamunhoz/kanban-next/internal/reorder"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create appends the card at the bottom of its column.
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cardSiblings.lockParents(tx, card.ColumnID); err != nil {
			return err
		}
		position, err := cardSiblings.nextPosition(tx, card.ColumnID)
		if err != nil {
			return err
		}
		card.Position = position
		return tx.Create(card).Error
	})
}

func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) ListByColumn(ctx context.Context, columnID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Where("column_id = ?", columnID).
		Order("position, created_at, id").
		Find(&cards).Error
	return cards, err
}

// ListByBoard returns every card on the board ordered by column then position.
func (r *CardRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Select("cards.*").
		Joins("JOIN columns ON columns.id = cards.column_id").
		Where("columns.board_id = ?", boardID).
		Order("columns.position, cards.position, cards.created_at").
		Find(&cards).Error
	return cards, err
}

// Update writes the editable fields of a card. Position and column are left alone.
func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Model(card).Select("title", "description", "priority").Updates(card).Error
}

// Delete removes the card and closes the gap in its column.
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.Where("id = ?", id).First(&card).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}
		if err := cardSiblings.lockParents(tx, card.ColumnID); err != nil {
			return err
		}

		if err := tx.Where("id = ?", id).Delete(&model.Card{}).Error; err != nil {
			return err
		}
		return cardSiblings.compact(tx, card.ColumnID)
	})
}

// Move places the card at position in targetColumnID. When the card changes
// column both the source and the destination are re-enumerated in the same
// transaction. The caller is responsible for checking that both columns
// belong to the same board.
func (r *CardRepository) Move(ctx context.Context, id, targetColumnID uuid.UUID, position int) (*model.Card, error) {
	var card model.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&card).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}

		moved := reorder.Item{ID: card.ID, Position: card.Position, CreatedAt: card.CreatedAt}
		sourceColumnID := card.ColumnID
		if err := cardSiblings.lockParents(tx, sourceColumnID, targetColumnID); err != nil {
			return err
		}

		if sourceColumnID != targetColumnID {
			if err := tx.Model(&model.Card{}).Where("id = ?", card.ID).
				Update("column_id", targetColumnID).Error; err != nil {
				return err
			}

			source, err := cardSiblings.loadSiblings(tx, sourceColumnID)
			if err != nil {
				return err
			}
			if err := cardSiblings.write(tx, "remove", reorder.Remove(source, card.ID)); err != nil {
				return err
			}
		}

		destination, err := cardSiblings.loadSiblings(tx, targetColumnID)
		if err != nil {
			return err
		}

		ordered := reorder.Move(destination, moved, position)
		if err := cardSiblings.write(tx, "move", ordered); err != nil {
			return err
		}

		card.ColumnID = targetColumnID
		card.Position = indexOf(ordered, card.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

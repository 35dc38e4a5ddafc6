package repository

import (
	"bytes"
	"database/sql"
	"sort"

	"github.com/aliciamunhoz/kanban-next/internal/reorder"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var tracer = otel.Tracer("github.com/aliciamunhoz/kanban-next/internal/repository")

// siblingScope names the table and parent column of one sibling family.
type siblingScope struct {
	family        string
	table         string
	parent        string
	parentTable   string
	parentMissing error
}

var (
	columnSiblings = siblingScope{
		family:        "column",
		table:         "columns",
		parent:        "board_id",
		parentTable:   "boards",
		parentMissing: ErrBoardNotFound,
	}
	cardSiblings = siblingScope{
		family:        "card",
		table:         "cards",
		parent:        "column_id",
		parentTable:   "columns",
		parentMissing: ErrColumnNotFound,
	}
)

// lockParents takes row locks on the parent rows so that concurrent writers
// to the same sibling list run one after another. Ids are locked in byte
// order so two movers between the same pair of parents cannot deadlock.
func (s siblingScope) lockParents(tx *gorm.DB, parentIDs ...uuid.UUID) error {
	ids := make([]uuid.UUID, 0, len(parentIDs))
	seen := make(map[uuid.UUID]bool, len(parentIDs))
	for _, id := range parentIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })

	for _, id := range ids {
		var locked []uuid.UUID
		err := tx.Table(s.parentTable).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Pluck("id", &locked).Error
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return s.parentMissing
		}
	}
	return nil
}

// loadSiblings reads the current ordering of every child of parentID.
func (s siblingScope) loadSiblings(tx *gorm.DB, parentID uuid.UUID) ([]reorder.Item, error) {
	var items []reorder.Item
	err := tx.Table(s.table).
		Select("id, position, created_at").
		Where(s.parent+" = ?", parentID).
		Order("position, created_at, id").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return reorder.Sort(items), nil
}

func (s siblingScope) nextPosition(tx *gorm.DB, parentID uuid.UUID) (int, error) {
	var result struct {
		Max sql.NullInt64
	}
	err := tx.Table(s.table).
		Select("MAX(position) AS max").
		Where(s.parent+" = ?", parentID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	reorderTotal.WithLabelValues(s.family, "append").Inc()
	if !result.Max.Valid {
		return reorder.Append(nil), nil
	}
	top := int(result.Max.Int64)
	return reorder.Append(&top), nil
}

// write persists the positions of ordered that differ from their index.
func (s siblingScope) write(tx *gorm.DB, kind string, ordered []reorder.Item) error {
	changes := reorder.Enumerate(ordered)

	_, span := tracer.Start(tx.Statement.Context, "reorder."+s.family)
	span.SetAttributes(
		attribute.String("reorder.kind", kind),
		attribute.Int("reorder.siblings", len(ordered)),
		attribute.Int("reorder.rows_written", len(changes)),
	)
	defer span.End()

	for _, ch := range changes {
		if err := tx.Table(s.table).Where("id = ?", ch.ID).
			Update("position", ch.Position).Error; err != nil {
			return err
		}
	}

	reorderTotal.WithLabelValues(s.family, kind).Inc()
	reorderWrites.WithLabelValues(s.family).Observe(float64(len(changes)))
	return nil
}

// compact re-enumerates the children of parentID to 0..N-1.
func (s siblingScope) compact(tx *gorm.DB, parentID uuid.UUID) error {
	items, err := s.loadSiblings(tx, parentID)
	if err != nil {
		return err
	}
	return s.write(tx, "remove", items)
}

func indexOf(ordered []reorder.Item, id uuid.UUID) int {
	for i, it := range ordered {
		if it.ID == id {
			return i
		}
	}
	return -1
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cardsort/internal/services"
)

const cardColumns = "id, name, raw_ocr_text, price, color_identity, cmc, type_line, image_url, quantity, created_at, updated_at"

// Upsert inserts a scan result. Recognized cards (non-nil name) deduplicate
// case-insensitively against the canonical-name index: a repeat scan
// increments quantity and refreshes enrichment fields where the new scan has
// them. Unrecognized scans always insert a new row. The whole operation is a
// single atomic statement, so concurrent scans of the same card cannot both
// insert.
func (s *Store) Upsert(ctx context.Context, card Card) (*Card, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	const query = `INSERT INTO cards (
            name, raw_ocr_text, price, color_identity, cmc, type_line, image_url,
            quantity, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
        ON CONFLICT(name) WHERE name IS NOT NULL DO UPDATE SET
            quantity = quantity + 1,
            raw_ocr_text = excluded.raw_ocr_text,
            price = COALESCE(excluded.price, cards.price),
            color_identity = CASE WHEN excluded.color_identity <> '' THEN excluded.color_identity ELSE cards.color_identity END,
            cmc = COALESCE(excluded.cmc, cards.cmc),
            type_line = CASE WHEN excluded.type_line <> '' THEN excluded.type_line ELSE cards.type_line END,
            image_url = CASE WHEN excluded.image_url <> '' THEN excluded.image_url ELSE cards.image_url END,
            updated_at = excluded.updated_at
        RETURNING id`

	args := []any{
		nullableString(card.Name),
		card.RawOCRText,
		nullableFloat(card.Price),
		card.ColorIdentity,
		nullableInt(card.CMC),
		card.TypeLine,
		card.ImageURL,
		now,
		now,
	}

	var id int64
	upsert := func() error {
		return retryOnBusy(ctx, func() error {
			return s.db.QueryRowContext(ctx, query, args...).Scan(&id)
		})
	}
	if err := upsert(); err != nil {
		if !isConstraintViolation(err) {
			return nil, fmt.Errorf("upsert card: %w", err)
		}
		// The atomic statement makes this unreachable in normal operation;
		// retry once, then surface as a catalog conflict.
		if err := upsert(); err != nil {
			return nil, services.Wrap(services.ErrCatalogConflict, "catalog", "upsert", card.DisplayName(), err)
		}
	}

	return s.GetCard(ctx, id)
}

// GetCard fetches a single card by id.
func (s *Store) GetCard(ctx context.Context, id int64) (*Card, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+cardColumns+" FROM cards WHERE id = ?", id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "get", fmt.Sprintf("card %d", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get card %d: %w", id, err)
	}
	return card, nil
}

// ListCards returns cards matching the filter, newest first.
func (s *Store) ListCards(ctx context.Context, filter Filter) ([]Card, error) {
	ctx = ensureContext(ctx)

	query := "SELECT " + cardColumns + " FROM cards"
	var conditions []string
	var args []any
	if color := strings.TrimSpace(filter.Color); color != "" {
		conditions = append(conditions, "color_identity LIKE ?")
		args = append(args, "%"+color+"%")
	}
	if filter.CMC != nil {
		conditions = append(conditions, "cmc = ?")
		args = append(args, *filter.CMC)
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price IS NOT NULL AND price <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card row: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

// DeleteCard removes a card by id, reporting whether a row existed.
func (s *Store) DeleteCard(ctx context.Context, id int64) (bool, error) {
	ctx = ensureContext(ctx)
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx, "DELETE FROM cards WHERE id = ?", id)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return false, fmt.Errorf("delete card %d: %w", id, err)
	}
	return affected > 0, nil
}

// CountCards returns the number of catalog rows.
func (s *Store) CountCards(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM cards").Scan(&count); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*Card, error) {
	var (
		card      Card
		name      sql.NullString
		price     sql.NullFloat64
		cmc       sql.NullInt64
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&card.ID, &name, &card.RawOCRText, &price, &card.ColorIdentity,
		&cmc, &card.TypeLine, &card.ImageURL, &card.Quantity, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if name.Valid {
		value := name.String
		card.Name = &value
	}
	if price.Valid {
		value := price.Float64
		card.Price = &value
	}
	if cmc.Valid {
		value := cmc.Int64
		card.CMC = &value
	}
	card.CreatedAt = parseTimestamp(createdAt)
	card.UpdatedAt = parseTimestamp(updatedAt)
	return &card, nil
}

func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed")
}

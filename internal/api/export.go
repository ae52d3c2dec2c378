package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"cardsort/internal/catalog"
)

// WriteCardsCSV streams the catalog as CSV, one row per record, suitable
// for import into collection trackers.
func WriteCardsCSV(w io.Writer, cards []catalog.Card) error {
	writer := csv.NewWriter(w)
	header := []string{"id", "name", "quantity", "price", "color_identity", "cmc", "type_line", "created_at"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range cards {
		card := &cards[i]
		row := []string{
			strconv.FormatInt(card.ID, 10),
			card.DisplayName(),
			strconv.FormatInt(card.Quantity, 10),
			formatFloat(card.Price),
			card.ColorIdentity,
			formatInt(card.CMC),
			card.TypeLine,
			card.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', 2, 64)
}

func formatInt(value *int64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatInt(*value, 10)
}

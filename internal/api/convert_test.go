package api_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"cardsort/internal/api"
	"cardsort/internal/catalog"
	"cardsort/internal/dictionary"
	"cardsort/internal/pipeline"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int64) *int64       { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestFromCard(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	card := catalog.Card{
		ID:            7,
		Name:          strPtr("Sol Ring"),
		Price:         floatPtr(1.5),
		ColorIdentity: "C",
		CMC:           intPtr(1),
		TypeLine:      "Artifact",
		Quantity:      3,
		CreatedAt:     created,
	}

	dto := api.FromCard(&card)
	if dto.Name != "Sol Ring" || !dto.Recognized {
		t.Fatalf("dto = %+v, want recognized Sol Ring", dto)
	}
	if dto.CreatedAt == "" || !strings.HasPrefix(dto.CreatedAt, "2026-08-01") {
		t.Fatalf("createdAt = %q", dto.CreatedAt)
	}

	unrecognized := catalog.Card{ID: 8, RawOCRText: "garbled", Quantity: 1}
	dto = api.FromCard(&unrecognized)
	if dto.Recognized || dto.Name != "" {
		t.Fatalf("unrecognized dto = %+v", dto)
	}
}

func TestFromScanResult(t *testing.T) {
	result := &pipeline.ScanResult{
		ScanID:    "abc",
		Outcome:   pipeline.OutcomeRecognized,
		RawText:   "Sol Rinq",
		Match:     &dictionary.Match{Name: "Sol Ring", Distance: 1},
		Card:      &catalog.Card{ID: 1, Name: strPtr("Sol Ring"), Quantity: 1},
		Direction: catalog.DirectionRight,
		Elapsed:   1500 * time.Millisecond,
	}

	resp := api.FromScanResult(result)
	if resp.Matched != "Sol Ring" || resp.Distance != 1 {
		t.Fatalf("match fields = %+v", resp)
	}
	if resp.Card == nil || resp.Card.ID != 1 {
		t.Fatalf("card = %+v", resp.Card)
	}
	if resp.ElapsedMS != 1500 {
		t.Fatalf("elapsedMs = %d", resp.ElapsedMS)
	}
}

func TestWriteCardsCSV(t *testing.T) {
	cards := []catalog.Card{
		{ID: 1, Name: strPtr("Sol Ring"), Quantity: 2, Price: floatPtr(1.5), ColorIdentity: "C", CMC: intPtr(1), TypeLine: "Artifact"},
		{ID: 2, RawOCRText: "garbled", Quantity: 1},
	}

	var buf bytes.Buffer
	if err := api.WriteCardsCSV(&buf, cards); err != nil {
		t.Fatalf("WriteCardsCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,name,quantity") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Sol Ring") || !strings.Contains(lines[1], "1.50") {
		t.Fatalf("row 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "(unrecognized)") {
		t.Fatalf("row 2 = %q", lines[2])
	}
}

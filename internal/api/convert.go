package api

import (
	"cardsort/internal/catalog"
	"cardsort/internal/config"
	"cardsort/internal/pipeline"
)

// FromCard converts a catalog record to its API representation.
func FromCard(card *catalog.Card) Card {
	if card == nil {
		return Card{}
	}
	dto := Card{
		ID:            card.ID,
		Recognized:    card.Recognized(),
		RawOCRText:    card.RawOCRText,
		Price:         card.Price,
		ColorIdentity: card.ColorIdentity,
		CMC:           card.CMC,
		TypeLine:      card.TypeLine,
		ImageURL:      card.ImageURL,
		Quantity:      card.Quantity,
	}
	if card.Name != nil {
		dto.Name = *card.Name
	}
	if !card.CreatedAt.IsZero() {
		dto.CreatedAt = card.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !card.UpdatedAt.IsZero() {
		dto.UpdatedAt = card.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromCards converts a slice of catalog records into API DTOs.
func FromCards(cards []catalog.Card) []Card {
	if len(cards) == 0 {
		return nil
	}
	out := make([]Card, 0, len(cards))
	for i := range cards {
		out = append(out, FromCard(&cards[i]))
	}
	return out
}

// FromRule converts a sorting rule to its API representation.
func FromRule(rule *catalog.Rule) Rule {
	if rule == nil {
		return Rule{}
	}
	dto := Rule{
		ID:        rule.ID,
		Name:      rule.Name,
		Attribute: string(rule.Attribute),
		Operator:  string(rule.Operator),
		Value:     rule.Value,
		Direction: string(rule.Direction),
	}
	if !rule.CreatedAt.IsZero() {
		dto.CreatedAt = rule.CreatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromRules converts a slice of rules into API DTOs.
func FromRules(rules []catalog.Rule) []Rule {
	if len(rules) == 0 {
		return nil
	}
	out := make([]Rule, 0, len(rules))
	for i := range rules {
		out = append(out, FromRule(&rules[i]))
	}
	return out
}

// FromScanResult converts a pipeline result into the scan response payload.
func FromScanResult(result *pipeline.ScanResult) ScanResponse {
	if result == nil {
		return ScanResponse{}
	}
	resp := ScanResponse{
		ScanID:    result.ScanID,
		Outcome:   string(result.Outcome),
		RawText:   result.RawText,
		Direction: string(result.Direction),
		Errors:    result.Errors,
		ElapsedMS: result.Elapsed.Milliseconds(),
	}
	if result.Match != nil {
		resp.Matched = result.Match.Name
		resp.Distance = result.Match.Distance
	}
	if result.Card != nil {
		card := FromCard(result.Card)
		resp.Card = &card
	}
	if result.Rule != nil {
		rule := FromRule(result.Rule)
		resp.Rule = &rule
	}
	return resp
}

// FromCrop converts config crop ratios into the API payload.
func FromCrop(crop config.Crop) Crop {
	return Crop{Left: crop.Left, Top: crop.Top, Right: crop.Right, Bottom: crop.Bottom}
}

// ToCrop converts an API crop payload into config ratios.
func (c Crop) ToCrop() config.Crop {
	return config.Crop{Left: c.Left, Top: c.Top, Right: c.Right, Bottom: c.Bottom}
}

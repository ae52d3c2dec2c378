package catalog_test

import (
	"context"
	"errors"
	"testing"

	"cardsort/internal/catalog"
	"cardsort/internal/services"
)

func TestCreateRuleValidation(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		rule catalog.Rule
	}{
		{"bad attribute", catalog.Rule{Name: "r", Attribute: "rarity", Operator: catalog.OpEqual, Value: "x", Direction: catalog.DirectionLeft}},
		{"bad operator", catalog.Rule{Name: "r", Attribute: catalog.AttrCMC, Operator: "~=", Value: "3", Direction: catalog.DirectionLeft}},
		{"bad direction", catalog.Rule{Name: "r", Attribute: catalog.AttrCMC, Operator: catalog.OpGreater, Value: "3", Direction: "up"}},
		{"empty name", catalog.Rule{Attribute: catalog.AttrCMC, Operator: catalog.OpGreater, Value: "3", Direction: catalog.DirectionLeft}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.CreateRule(ctx, tc.rule)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRulesListedInCreationOrder(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	specs := []catalog.Rule{
		{Name: "expensive right", Attribute: catalog.AttrPrice, Operator: catalog.OpGreaterEqual, Value: "20", Direction: catalog.DirectionRight},
		{Name: "big cmc left", Attribute: catalog.AttrCMC, Operator: catalog.OpGreater, Value: "3", Direction: catalog.DirectionLeft},
		{Name: "lands left", Attribute: catalog.AttrTypeLine, Operator: catalog.OpContains, Value: "Land", Direction: catalog.DirectionLeft},
	}
	for _, spec := range specs {
		if _, err := store.CreateRule(ctx, spec); err != nil {
			t.Fatalf("CreateRule %q: %v", spec.Name, err)
		}
	}

	rules, err := store.ListRules(ctx)
	if err != nil {
		t.Fatalf("ListRules: %v", err)
	}
	if len(rules) != len(specs) {
		t.Fatalf("got %d rules, want %d", len(rules), len(specs))
	}
	for i, rule := range rules {
		if rule.Name != specs[i].Name {
			t.Fatalf("rule %d = %q, want %q", i, rule.Name, specs[i].Name)
		}
		if i > 0 && rules[i-1].ID >= rule.ID {
			t.Fatalf("ids not ascending: %d then %d", rules[i-1].ID, rule.ID)
		}
	}
}

func TestDeleteRule(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	rule, err := store.CreateRule(ctx, catalog.Rule{
		Name: "cheap left", Attribute: catalog.AttrPrice, Operator: catalog.OpLess,
		Value: "1", Direction: catalog.DirectionLeft,
	})
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}

	deleted, err := store.DeleteRule(ctx, rule.ID)
	if err != nil {
		t.Fatalf("DeleteRule: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to remove the rule")
	}

	deleted, err = store.DeleteRule(ctx, rule.ID)
	if err != nil {
		t.Fatalf("second DeleteRule: %v", err)
	}
	if deleted {
		t.Fatal("expected no row on second delete")
	}

	rules, err := store.ListRules(ctx)
	if err != nil {
		t.Fatalf("ListRules: %v", err)
	}
	if len(rules) != 0 {
		t.Fatalf("expected empty rule list, got %d", len(rules))
	}
}

func TestCreateRuleNormalizesVocabulary(t *testing.T) {
	store := newStore(t)

	rule, err := store.CreateRule(context.Background(), catalog.Rule{
		Name: "  trim me  ", Attribute: "CMC", Operator: ">", Value: "3", Direction: "LEFT",
	})
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	if rule.Name != "trim me" {
		t.Fatalf("name = %q, want trimmed", rule.Name)
	}
	if rule.Attribute != catalog.AttrCMC || rule.Direction != catalog.DirectionLeft {
		t.Fatalf("vocabulary not normalized: %+v", rule)
	}
}

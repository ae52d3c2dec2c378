package rules_test

import (
	"testing"

	"cardsort/internal/catalog"
	"cardsort/internal/rules"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int64) *int64       { return &i }
func floatPtr(f float64) *float64 { return &f }

func rule(attr catalog.Attribute, op catalog.Operator, value string, dir catalog.Direction) catalog.Rule {
	return catalog.Rule{Name: string(attr) + " " + string(op) + " " + value, Attribute: attr, Operator: op, Value: value, Direction: dir}
}

func TestDecideFirstMatchWins(t *testing.T) {
	ruleset := []catalog.Rule{
		rule(catalog.AttrCMC, catalog.OpGreater, "3", catalog.DirectionLeft),
		rule(catalog.AttrPrice, catalog.OpGreaterEqual, "20", catalog.DirectionRight),
	}
	card := catalog.Card{Name: strPtr("Expensive Dragon"), CMC: intPtr(5), Price: floatPtr(25)}

	dir, matched := rules.Decide(card, ruleset)
	if dir != catalog.DirectionLeft {
		t.Fatalf("direction = %s, want left (first rule)", dir)
	}
	if matched == nil || matched.Attribute != catalog.AttrCMC {
		t.Fatalf("matched rule = %+v, want the cmc rule", matched)
	}
}

func TestDecideDefaults(t *testing.T) {
	recognized := catalog.Card{Name: strPtr("Island")}
	dir, matched := rules.Decide(recognized, nil)
	if dir != catalog.DirectionRight || matched != nil {
		t.Fatalf("recognized default = %s (rule %v), want right with no rule", dir, matched)
	}

	unrecognized := catalog.Card{RawOCRText: "garbled"}
	dir, matched = rules.Decide(unrecognized, nil)
	if dir != catalog.DirectionLeft || matched != nil {
		t.Fatalf("unrecognized default = %s (rule %v), want left with no rule", dir, matched)
	}
}

func TestDecideStringOperatorsCaseInsensitive(t *testing.T) {
	card := catalog.Card{
		Name:          strPtr("Atraxa, Praetors' Voice"),
		TypeLine:      "Legendary Creature - Phyrexian Angel Horror",
		ColorIdentity: "WUBG",
	}

	cases := []struct {
		name string
		rule catalog.Rule
		want bool
	}{
		{"contains type", rule(catalog.AttrTypeLine, catalog.OpContains, "legendary", catalog.DirectionLeft), true},
		{"starts with name", rule(catalog.AttrName, catalog.OpStartsWith, "atraxa", catalog.DirectionLeft), true},
		{"ends with type", rule(catalog.AttrTypeLine, catalog.OpEndsWith, "HORROR", catalog.DirectionLeft), true},
		{"color equality", rule(catalog.AttrColorIdentity, catalog.OpEqual, "wubg", catalog.DirectionLeft), true},
		{"no such color", rule(catalog.AttrColorIdentity, catalog.OpContains, "R", catalog.DirectionLeft), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir, matched := rules.Decide(card, []catalog.Rule{tc.rule})
			if got := matched != nil; got != tc.want {
				t.Fatalf("matched = %v, want %v (direction %s)", got, tc.want, dir)
			}
		})
	}
}

func TestDecidePredicateFailsOnTypeMismatch(t *testing.T) {
	card := catalog.Card{Name: strPtr("Sol Ring"), CMC: intPtr(1), TypeLine: "Artifact"}

	cases := []struct {
		name string
		rule catalog.Rule
	}{
		{"non-numeric value on cmc", rule(catalog.AttrCMC, catalog.OpGreater, "cheap", catalog.DirectionLeft)},
		{"ordering operator on string", rule(catalog.AttrTypeLine, catalog.OpGreater, "Artifact", catalog.DirectionLeft)},
		{"contains on numeric", rule(catalog.AttrCMC, catalog.OpContains, "1", catalog.DirectionLeft)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir, matched := rules.Decide(card, []catalog.Rule{tc.rule})
			if matched != nil {
				t.Fatalf("mismatched predicate must not match, got rule %+v", matched)
			}
			if dir != catalog.DirectionRight {
				t.Fatalf("direction = %s, want recognized default right", dir)
			}
		})
	}
}

func TestDecideMissingAttributeNeverMatches(t *testing.T) {
	card := catalog.Card{Name: strPtr("Unpriced Card")}
	ruleset := []catalog.Rule{rule(catalog.AttrPrice, catalog.OpLess, "1", catalog.DirectionLeft)}

	dir, matched := rules.Decide(card, ruleset)
	if matched != nil {
		t.Fatalf("nil price must not match a price rule")
	}
	if dir != catalog.DirectionRight {
		t.Fatalf("direction = %s, want right", dir)
	}
}

func TestDecideNumericComparisons(t *testing.T) {
	card := catalog.Card{Name: strPtr("Counterspell"), CMC: intPtr(2), Price: floatPtr(3.5)}

	cases := []struct {
		rule catalog.Rule
		want bool
	}{
		{rule(catalog.AttrCMC, catalog.OpEqual, "2", catalog.DirectionLeft), true},
		{rule(catalog.AttrCMC, catalog.OpNotEqual, "2", catalog.DirectionLeft), false},
		{rule(catalog.AttrCMC, catalog.OpLessEqual, "2", catalog.DirectionLeft), true},
		{rule(catalog.AttrPrice, catalog.OpGreater, "3.4", catalog.DirectionLeft), true},
		{rule(catalog.AttrPrice, catalog.OpLess, "3.5", catalog.DirectionLeft), false},
	}
	for _, tc := range cases {
		t.Run(tc.rule.Name, func(t *testing.T) {
			_, matched := rules.Decide(card, []catalog.Rule{tc.rule})
			if got := matched != nil; got != tc.want {
				t.Fatalf("matched = %v, want %v", got, tc.want)
			}
		})
	}
}

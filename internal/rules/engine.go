package rules

import (
	"strconv"
	"strings"

	"cardsort/internal/catalog"
)

// Decide routes a card through the rule list in priority order and
// returns the direction of the first matching rule, along with that rule.
// When nothing matches the default applies: recognized cards go right,
// unrecognized ones left, and the returned rule is nil.
func Decide(card catalog.Card, ruleset []catalog.Rule) (catalog.Direction, *catalog.Rule) {
	for i := range ruleset {
		if matches(card, ruleset[i]) {
			return ruleset[i].Direction, &ruleset[i]
		}
	}
	if card.Recognized() {
		return catalog.DirectionRight, nil
	}
	return catalog.DirectionLeft, nil
}

// matches evaluates one rule predicate. A missing card attribute or a
// rule value that cannot coerce to the attribute's type makes the
// predicate false rather than an error, so one malformed rule never
// stalls the conveyor.
func matches(card catalog.Card, rule catalog.Rule) bool {
	switch rule.Attribute {
	case catalog.AttrCMC:
		if card.CMC == nil {
			return false
		}
		return compareNumeric(float64(*card.CMC), rule.Operator, rule.Value)
	case catalog.AttrPrice:
		if card.Price == nil {
			return false
		}
		return compareNumeric(*card.Price, rule.Operator, rule.Value)
	case catalog.AttrColorIdentity:
		return compareString(card.ColorIdentity, rule.Operator, rule.Value)
	case catalog.AttrTypeLine:
		return compareString(card.TypeLine, rule.Operator, rule.Value)
	case catalog.AttrName:
		if card.Name == nil {
			return false
		}
		return compareString(*card.Name, rule.Operator, rule.Value)
	default:
		return false
	}
}

func compareNumeric(have float64, op catalog.Operator, raw string) bool {
	want, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return false
	}
	switch op {
	case catalog.OpGreater:
		return have > want
	case catalog.OpGreaterEqual:
		return have >= want
	case catalog.OpLess:
		return have < want
	case catalog.OpLessEqual:
		return have <= want
	case catalog.OpEqual:
		return have == want
	case catalog.OpNotEqual:
		return have != want
	default:
		return false
	}
}

func compareString(have string, op catalog.Operator, raw string) bool {
	have = strings.ToLower(strings.TrimSpace(have))
	want := strings.ToLower(strings.TrimSpace(raw))
	switch op {
	case catalog.OpEqual:
		return have == want
	case catalog.OpNotEqual:
		return have != want
	case catalog.OpContains:
		return strings.Contains(have, want)
	case catalog.OpStartsWith:
		return strings.HasPrefix(have, want)
	case catalog.OpEndsWith:
		return strings.HasSuffix(have, want)
	default:
		return false
	}
}

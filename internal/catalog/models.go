package catalog

import (
	"strings"
	"time"
)

// Direction is the output bin a card is routed toward.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ParseDirection validates a direction string.
func ParseDirection(value string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(value))) {
	case DirectionLeft:
		return DirectionLeft, true
	case DirectionRight:
		return DirectionRight, true
	default:
		return "", false
	}
}

// Attribute names a card field a sorting rule can test.
type Attribute string

const (
	AttrCMC           Attribute = "cmc"
	AttrPrice         Attribute = "price"
	AttrColorIdentity Attribute = "color_identity"
	AttrTypeLine      Attribute = "type_line"
	AttrName          Attribute = "name"
)

var attributes = map[Attribute]struct{}{
	AttrCMC:           {},
	AttrPrice:         {},
	AttrColorIdentity: {},
	AttrTypeLine:      {},
	AttrName:          {},
}

// ParseAttribute validates an attribute string.
func ParseAttribute(value string) (Attribute, bool) {
	attr := Attribute(strings.ToLower(strings.TrimSpace(value)))
	_, ok := attributes[attr]
	return attr, ok
}

// Operator is a sorting-rule comparison.
type Operator string

const (
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpContains     Operator = "contains"
	OpStartsWith   Operator = "starts_with"
	OpEndsWith     Operator = "ends_with"
)

var operators = map[Operator]struct{}{
	OpGreater: {}, OpGreaterEqual: {}, OpLess: {}, OpLessEqual: {},
	OpEqual: {}, OpNotEqual: {}, OpContains: {}, OpStartsWith: {}, OpEndsWith: {},
}

// ParseOperator validates an operator string.
func ParseOperator(value string) (Operator, bool) {
	op := Operator(strings.ToLower(strings.TrimSpace(value)))
	_, ok := operators[op]
	return op, ok
}

// Card is a catalog record produced by scanning. Name is nil for scans the
// corrector could not resolve; such records never deduplicate.
type Card struct {
	ID            int64
	Name          *string
	RawOCRText    string
	Price         *float64
	ColorIdentity string
	CMC           *int64
	TypeLine      string
	ImageURL      string
	Quantity      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Recognized reports whether the card carries a canonical name.
func (c *Card) Recognized() bool {
	return c.Name != nil && strings.TrimSpace(*c.Name) != ""
}

// DisplayName returns the canonical name or a placeholder for unrecognized
// scans.
func (c *Card) DisplayName() string {
	if c.Recognized() {
		return *c.Name
	}
	return "(unrecognized)"
}

// Rule is a persisted sorting rule. Priority is implicit: rules evaluate in
// creation (id) order.
type Rule struct {
	ID        int64
	Name      string
	Attribute Attribute
	Operator  Operator
	Value     string
	Direction Direction
	CreatedAt time.Time
}

// Filter narrows catalog listings.
type Filter struct {
	Color    string
	CMC      *int64
	MaxPrice *float64
}

package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cardsort/internal/services"
)

// CreateRule validates and persists a sorting rule. Priority is the creation
// order, so callers never specify one.
func (s *Store) CreateRule(ctx context.Context, rule Rule) (*Rule, error) {
	ctx = ensureContext(ctx)

	attr, ok := ParseAttribute(string(rule.Attribute))
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "rules", "create", fmt.Sprintf("unknown attribute %q", rule.Attribute), nil)
	}
	op, ok := ParseOperator(string(rule.Operator))
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "rules", "create", fmt.Sprintf("unknown operator %q", rule.Operator), nil)
	}
	dir, ok := ParseDirection(string(rule.Direction))
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "rules", "create", fmt.Sprintf("unknown direction %q", rule.Direction), nil)
	}
	name := strings.TrimSpace(rule.Name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "rules", "create", "rule name required", nil)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	var id int64
	err := retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx,
			`INSERT INTO sort_rules (name, attribute, operator, value, direction, created_at)
             VALUES (?, ?, ?, ?, ?, ?)`,
			name, string(attr), string(op), rule.Value, string(dir), now,
		)
		if execErr != nil {
			return execErr
		}
		id, execErr = res.LastInsertId()
		return execErr
	})
	if err != nil {
		return nil, fmt.Errorf("insert rule: %w", err)
	}

	created := Rule{
		ID:        id,
		Name:      name,
		Attribute: attr,
		Operator:  op,
		Value:     rule.Value,
		Direction: dir,
		CreatedAt: parseTimestamp(now),
	}
	return &created, nil
}

// ListRules returns all rules in priority (creation) order. The returned
// slice is a consistent snapshot: the rule engine evaluates against it
// without observing concurrent rule mutations.
func (s *Store) ListRules(ctx context.Context) ([]Rule, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, attribute, operator, value, direction, created_at FROM sort_rules ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		var (
			rule      Rule
			attr      string
			op        string
			dir       string
			createdAt string
		)
		if err := rows.Scan(&rule.ID, &rule.Name, &attr, &op, &rule.Value, &dir, &createdAt); err != nil {
			return nil, fmt.Errorf("scan rule row: %w", err)
		}
		rule.Attribute = Attribute(attr)
		rule.Operator = Operator(op)
		rule.Direction = Direction(dir)
		rule.CreatedAt = parseTimestamp(createdAt)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}
	return rules, nil
}

// DeleteRule removes a rule by id, reporting whether a row existed.
func (s *Store) DeleteRule(ctx context.Context, id int64) (bool, error) {
	ctx = ensureContext(ctx)
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx, "DELETE FROM sort_rules WHERE id = ?", id)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return false, fmt.Errorf("delete rule %d: %w", id, err)
	}
	return affected > 0, nil
}

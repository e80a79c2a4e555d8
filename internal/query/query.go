// Package query parses the order_by and filter list parameters and turns them
// into gorm scopes. Field names are resolved through a per-resource whitelist;
// anything outside it is rejected, so raw input never reaches SQL text.
package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "wallet/internal/errors"
)

// Fields maps public field names to their columns.
type Fields map[string]clause.Column

// Order is one sort key.
type Order struct {
	Field string
	Desc  bool
}

// Clause is one "field eq value" condition.
type Clause struct {
	Field string
	Value string
}

// ParseOrderBy reads "field[:asc|desc],field[:asc|desc]". Keys without an
// explicit direction use defaultDir ("asc" when empty).
func ParseOrderBy(raw, defaultDir string, allowed Fields) ([]Order, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	defDesc, err := parseDirection(defaultDir)
	if err != nil {
		return nil, err
	}

	var orders []Order
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, dir, hasDir := strings.Cut(part, ":")
		if _, ok := allowed[field]; !ok {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("cannot order by %q", field))
		}
		desc := defDesc
		if hasDir {
			if desc, err = parseDirection(dir); err != nil {
				return nil, err
			}
		}
		orders = append(orders, Order{Field: field, Desc: desc})
	}
	return orders, nil
}

func parseDirection(dir string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return false, nil
	case "desc":
		return true, nil
	}
	return false, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("invalid sort direction %q", dir))
}

// ParseFilter reads "field eq value and field eq value". Values may be
// wrapped in single or double quotes.
func ParseFilter(raw string, allowed Fields) ([]Clause, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var clauses []Clause
	for _, part := range splitAnd(raw) {
		tokens := strings.Fields(part)
		if len(tokens) < 3 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("malformed filter %q", part))
		}
		field, op := tokens[0], strings.ToLower(tokens[1])
		if _, ok := allowed[field]; !ok {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("cannot filter by %q", field))
		}
		if op != "eq" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unsupported filter operator %q", op))
		}
		value := strings.Join(tokens[2:], " ")
		value = strings.Trim(value, `'"`)
		clauses = append(clauses, Clause{Field: field, Value: value})
	}
	return clauses, nil
}

// splitAnd splits on the keyword "and", case-insensitively, outside quotes.
func splitAnd(s string) []string {
	var parts []string
	var quote rune
	start := 0
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case i+5 <= len(s) && strings.EqualFold(s[i:i+5], " and "):
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + len(" and ")
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

// Value returns the value of the first clause on field.
func Value(clauses []Clause, field string) (string, bool) {
	for _, c := range clauses {
		if c.Field == field {
			return c.Value, true
		}
	}
	return "", false
}

// OrderScope applies orders in sequence.
func OrderScope(orders []Order, allowed Fields) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, o := range orders {
			db = db.Order(clause.OrderByColumn{Column: allowed[o.Field], Desc: o.Desc})
		}
		return db
	}
}

// FilterScope ANDs every clause as an equality condition.
func FilterScope(clauses []Clause, allowed Fields) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, c := range clauses {
			db = db.Where(clause.Eq{Column: allowed[c.Field], Value: c.Value})
		}
		return db
	}
}

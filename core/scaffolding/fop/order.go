// Package fop holds the filter, order and pagination primitives shared by
// repositories.
package fop

import "strings"

// Set of directions for data ordering.
const (
	ASC  = "ASC"
	DESC = "DESC"
)

var directions = map[string]string{
	"asc":  ASC,
	"desc": DESC,
}

// By represents a field used to order by and direction.
type By struct {
	Field     string
	Direction string
}

// NewBy constructs a new By value with no checks.
func NewBy(field string, direction string) By {
	return By{
		Field:     field,
		Direction: direction,
	}
}

// ParseOrder resolves an order-by field and direction against the allowed
// field mappings. Unknown fields fall back to the default field and unknown
// directions fall back to the default direction; neither is an error.
func ParseOrder(fieldMappings map[string]string, field string, direction string, defaultOrder By) By {
	by := defaultOrder

	if f, ok := fieldMappings[strings.TrimSpace(field)]; ok {
		by.Field = f
	}

	if d, ok := directions[strings.ToLower(strings.TrimSpace(direction))]; ok {
		by.Direction = d
	}

	return by
}

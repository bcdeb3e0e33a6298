package postgresdb

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Set of directions for data ordering.
const (
	ASC  = "ASC"
	DESC = "DESC"
)

// Where collects AND-ed predicates and writes them as a single WHERE clause.
type Where struct {
	clauses []string
}

// Add appends a raw predicate. Values must be bound through NamedArgs.
func (w *Where) Add(clause string) {
	w.clauses = append(w.clauses, clause)
}

// Write emits the WHERE clause, or nothing when no predicate was added.
func (w *Where) Write(buf *bytes.Buffer) {
	if len(w.clauses) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	buf.WriteString(strings.Join(w.clauses, " AND "))
}

// AddOrderByClause adds an ORDER BY clause with the primary key as tie-break.
// nullsLast pushes NULL values of the order field to the end in both
// directions.
func AddOrderByClause(buf *bytes.Buffer, orderField, pkField, direction string, nullsLast bool) error {
	quotedOrderField, err := QuoteIdentifier(orderField)
	if err != nil {
		return fmt.Errorf("invalid order field name: %w", err)
	}
	quotedPKField, err := QuoteIdentifier(pkField)
	if err != nil {
		return fmt.Errorf("invalid pk field name: %w", err)
	}
	if direction != ASC && direction != DESC {
		return fmt.Errorf("invalid order direction: %q", direction)
	}

	fmt.Fprintf(buf, " ORDER BY %s %s", quotedOrderField, direction)
	if nullsLast {
		buf.WriteString(" NULLS LAST")
	}

	if orderField != pkField {
		fmt.Fprintf(buf, ", %s %s", quotedPKField, direction)
	}

	return nil
}

// AddLimitClause adds LIMIT clause to the query buffer
func AddLimitClause(limit int, data pgx.NamedArgs, buf *bytes.Buffer) {
	buf.WriteString(" LIMIT @limit")
	data["limit"] = limit
}

// AddOffsetClause skips offset rows. A zero offset writes nothing.
func AddOffsetClause(offset int, data pgx.NamedArgs, buf *bytes.Buffer) {
	if offset <= 0 {
		return
	}
	buf.WriteString(" OFFSET @offset")
	data["offset"] = offset
}

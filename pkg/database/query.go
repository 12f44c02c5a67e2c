package database

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// Query accumulates a statement written with `?` placeholders together with
// its arguments. Clause text must come from code; user values only ever
// travel through the argument list.
type Query struct {
	sb   strings.Builder
	args []any
}

// NewQuery starts a statement from base and its arguments.
func NewQuery(base string, args ...any) *Query {
	q := &Query{}
	q.sb.WriteString(strings.TrimSpace(base))
	q.args = append(q.args, args...)
	return q
}

// And appends "AND cond" where cond holds exactly one `?` bound to arg.
func (q *Query) And(cond string, arg any) *Query {
	q.sb.WriteString(" AND ")
	q.sb.WriteString(cond)
	q.args = append(q.args, arg)
	return q
}

// Append adds a fixed clause (ORDER BY, LIMIT, ...) with optional arguments.
func (q *Query) Append(clause string, args ...any) *Query {
	q.sb.WriteString(" ")
	q.sb.WriteString(clause)
	q.args = append(q.args, args...)
	return q
}

// Build returns the statement rebound to postgres `$n` placeholders and its arguments.
func (q *Query) Build() (string, []any) {
	return sqlx.Rebind(sqlx.DOLLAR, q.sb.String()), q.args
}

package querybuilder

import (
	"strconv"
	"strings"
)

// Condition renders one WHERE predicate, numbering its placeholders from the
// shared counter.
type Condition interface {
	render(w *writer)
}

// writer accumulates SQL text and positional arguments.
type writer struct {
	sql  strings.Builder
	args []any
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.sql.WriteString("$")
	w.sql.WriteString(strconv.Itoa(len(w.args)))
}

// expand replaces each '?' in expr with the next positional placeholder.
func (w *writer) expand(expr string, values []any) {
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(values) {
			w.bind(values[next])
			next++
			continue
		}
		w.sql.WriteByte(expr[i])
	}
}

type compare struct {
	column string
	op     string
	value  any
}

func (c compare) render(w *writer) {
	w.sql.WriteString(c.column)
	w.sql.WriteString(" ")
	w.sql.WriteString(c.op)
	w.sql.WriteString(" ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition {
	return compare{column: column, op: "=", value: value}
}

// ILike matches column case-insensitively against a LIKE pattern.
func ILike(column, pattern string) Condition {
	return compare{column: column, op: "ILIKE", value: pattern}
}

type membership struct {
	column string
	values []any
}

func In(column string, values []any) Condition {
	return membership{column: column, values: values}
}

func (c membership) render(w *writer) {
	if len(c.values) == 0 {
		w.sql.WriteString("1=0")
		return
	}
	w.sql.WriteString(c.column)
	w.sql.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			w.sql.WriteString(", ")
		}
		w.bind(v)
	}
	w.sql.WriteString(")")
}

type isNull string

func IsNull(column string) Condition {
	return isNull(column)
}

func (c isNull) render(w *writer) {
	w.sql.WriteString(string(c))
	w.sql.WriteString(" IS NULL")
}

type rawExpr struct {
	expr string
	args []any
}

// Expr embeds a raw predicate using '?' for its arguments.
func Expr(expr string, args ...any) Condition {
	return rawExpr{expr: expr, args: args}
}

func (c rawExpr) render(w *writer) {
	w.expand(c.expr, c.args)
}

type anyOf []Condition

// Or groups conditions with OR inside parentheses.
func Or(conditions ...Condition) Condition {
	return anyOf(conditions)
}

func (c anyOf) render(w *writer) {
	if len(c) == 0 {
		w.sql.WriteString("1=0")
		return
	}
	w.sql.WriteString("(")
	for i, cond := range c {
		if i > 0 {
			w.sql.WriteString(" OR ")
		}
		cond.render(w)
	}
	w.sql.WriteString(")")
}

func renderWhere(w *writer, conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.sql.WriteString(" WHERE ")
	for i, cond := range conditions {
		if i > 0 {
			w.sql.WriteString(" AND ")
		}
		cond.render(w)
	}
}

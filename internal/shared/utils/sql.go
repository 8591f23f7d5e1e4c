package utils

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// JoinWithOr joins a slice of strings with OR operator
func JoinWithOr(clauses []string) string {
	return strings.Join(clauses, " OR ")
}

// WhereBuilder accumulates numbered placeholders for dynamic filters.
type WhereBuilder struct {
	clauses []string
	Args    []interface{}
}

// Add appends a clause where every "?" is replaced by the next $n placeholder bound to arg.
func (w *WhereBuilder) Add(clause string, arg interface{}) {
	w.Args = append(w.Args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(w.Args))))
}

// AddRaw appends a clause without arguments.
func (w *WhereBuilder) AddRaw(clause string) {
	w.clauses = append(w.clauses, clause)
}

// Next returns the placeholder for an extra argument (LIMIT/OFFSET).
func (w *WhereBuilder) Next(arg interface{}) string {
	w.Args = append(w.Args, arg)
	return "$" + strconv.Itoa(len(w.Args))
}

func (w *WhereBuilder) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + JoinWithAnd(w.clauses)
}

// LikePattern wraps a search term for ILIKE, escaping wildcards.
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports a unique violation, optionally restricted to one constraint.
func IsUniqueViolation(err error, constraint string) bool {
	return isPgError(err, pgUniqueViolation, constraint)
}

func IsForeignKeyViolation(err error, constraint string) bool {
	return isPgError(err, pgForeignKeyViolation, constraint)
}

func isPgError(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

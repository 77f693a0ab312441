// Package filter builds the conjunctive predicates behind every list
// endpoint. A Filter collects optional criteria and renders them as a SQL
// WHERE fragment with positional arguments; criteria whose value is absent
// or blank contribute no restriction at all. Composition is AND-only.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type condition struct {
	expr string // contains one %d verb per argument placeholder
	args []any
}

// Filter accumulates criteria for a single query. Build one per request;
// a Filter is not safe for concurrent mutation and is never shared.
type Filter struct {
	conds    []condition
	joins    []string
	distinct bool
}

func New() *Filter {
	return &Filter{}
}

// Equals adds an unconditional exact-match criterion. Used for scope
// restrictions the caller must not be able to omit, such as a forced
// owner id.
func (f *Filter) Equals(col string, v any) *Filter {
	f.conds = append(f.conds, condition{expr: col + " = $%d", args: []any{v}})
	return f
}

// EqualsID adds an exact match on a uuid column, skipped when id is the
// zero uuid.
func (f *Filter) EqualsID(col string, id uuid.UUID) *Filter {
	if id == uuid.Nil {
		return f
	}
	return f.Equals(col, id)
}

// EqualsBool adds an exact match on a boolean column, skipped when v is nil.
func (f *Filter) EqualsBool(col string, v *bool) *Filter {
	if v == nil {
		return f
	}
	return f.Equals(col, *v)
}

// EqualsString adds an exact match on a text column, skipped when s is
// blank after trimming.
func (f *Filter) EqualsString(col, s string) *Filter {
	s = strings.TrimSpace(s)
	if s == "" {
		return f
	}
	return f.Equals(col, s)
}

// EqualsFold adds a case-insensitive exact match, skipped when s is blank.
func (f *Filter) EqualsFold(col, s string) *Filter {
	s = strings.TrimSpace(s)
	if s == "" {
		return f
	}
	f.conds = append(f.conds, condition{expr: "LOWER(" + col + ") = $%d", args: []any{strings.ToLower(s)}})
	return f
}

// likeEscaper protects LIKE metacharacters in a search term so they match
// literally under the default backslash escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsFold adds a case-insensitive substring match, skipped when term
// is blank. Both sides are lower-cased, the term is wrapped in wildcards
// and any wildcard characters inside it are escaped.
func (f *Filter) ContainsFold(col, term string) *Filter {
	term = strings.TrimSpace(term)
	if term == "" {
		return f
	}
	f.conds = append(f.conds, condition{
		expr: "LOWER(" + col + ") LIKE $%d",
		args: []any{"%" + likeEscaper.Replace(strings.ToLower(term)) + "%"},
	})
	return f
}

// TimeRange adds an inclusive range on a timestamp column. With a single
// bound the comparison is one-sided; with neither bound nothing is added.
func (f *Filter) TimeRange(col string, from, to *time.Time) *Filter {
	switch {
	case from != nil && to != nil:
		f.conds = append(f.conds, condition{expr: col + " BETWEEN $%d AND $%d", args: []any{*from, *to}})
	case from != nil:
		f.conds = append(f.conds, condition{expr: col + " >= $%d", args: []any{*from}})
	case to != nil:
		f.conds = append(f.conds, condition{expr: col + " <= $%d", args: []any{*to}})
	}
	return f
}

// InStrings adds a set-membership criterion, skipped when vals is empty.
func (f *Filter) InStrings(col string, vals []string) *Filter {
	if len(vals) == 0 {
		return f
	}
	ph := make([]string, len(vals))
	args := make([]any, len(vals))
	for i, v := range vals {
		ph[i] = "$%d"
		args[i] = v
	}
	f.conds = append(f.conds, condition{
		expr: col + " IN (" + strings.Join(ph, ", ") + ")",
		args: args,
	})
	return f
}

// Join records a join clause needed by a set-membership criterion against
// a one-to-many association. Callers that join a fan-out relation must also
// call Distinct.
func (f *Filter) Join(clause string) *Filter {
	f.joins = append(f.joins, clause)
	return f
}

// Distinct suppresses duplicate rows produced by fan-out joins.
func (f *Filter) Distinct() *Filter {
	f.distinct = true
	return f
}

func (f *Filter) IsDistinct() bool { return f.distinct }

// JoinSQL renders the recorded join clauses, leading space included, or ""
// when there are none.
func (f *Filter) JoinSQL() string {
	if len(f.joins) == 0 {
		return ""
	}
	return " " + strings.Join(f.joins, " ")
}

// SQL renders the WHERE fragment with positional placeholders starting at
// start, returning the fragment (leading " WHERE " included) and the
// argument slice. An empty filter renders to "" and no arguments.
func (f *Filter) SQL(start int) (string, []any) {
	if len(f.conds) == 0 {
		return "", nil
	}
	var (
		exprs []string
		args  []any
		n     = start
	)
	for _, c := range f.conds {
		verbs := make([]any, len(c.args))
		for i := range c.args {
			verbs[i] = n
			n++
		}
		exprs = append(exprs, fmt.Sprintf(c.expr, verbs...))
		args = append(args, c.args...)
	}
	return " WHERE " + strings.Join(exprs, " AND "), args
}

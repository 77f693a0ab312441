package filter

import "strings"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a clamped pagination window. Out-of-range inputs are corrected,
// never rejected.
type Page struct {
	Number int
	Size   int
}

func NewPage(number, size int) Page {
	if number < 0 {
		number = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Limit() int  { return p.Size }
func (p Page) Offset() int { return p.Number * p.Size }

// Order is a single sort term passed through to the store.
type Order struct {
	Col  string
	Desc bool
}

func Asc(col string) Order  { return Order{Col: col} }
func Desc(col string) Order { return Order{Col: col, Desc: true} }

// OrderSQL renders an ORDER BY clause, leading space included, or "" when
// no ordering was requested.
func OrderSQL(orders []Order) string {
	if len(orders) == 0 {
		return ""
	}
	terms := make([]string, len(orders))
	for i, o := range orders {
		terms[i] = o.Col
		if o.Desc {
			terms[i] += " DESC"
		}
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

// Result is one page of a list query together with the unpaginated total.
type Result[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"page_size"`
}

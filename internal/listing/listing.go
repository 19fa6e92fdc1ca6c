// Package listing filters and sorts the history view.
package listing

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByAmount SortKey = "amount"
	SortByTitle  SortKey = "title"
)

type Order string

const (
	Desc Order = "desc"
	Asc  Order = "asc"
)

type Query struct {
	Search   string
	Category string
	SortBy   SortKey
	Order    Order
}

// DefaultQuery shows everything, newest first.
func DefaultQuery() Query {
	return Query{Category: expense.AllCategories, SortBy: SortByDate, Order: Desc}
}

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByDate, nil
	case SortByDate, SortByAmount, SortByTitle:
		return k, nil
	default:
		return "", fmt.Errorf("invalid sort key %q", s)
	}
}

func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return Desc, nil
	case Desc, Asc:
		return o, nil
	default:
		return "", fmt.Errorf("invalid sort order %q", s)
	}
}

// Toggle flips the order when key is already selected; otherwise it selects key descending.
func Toggle(q Query, key SortKey) Query {
	if q.SortBy == key || (q.SortBy == "" && key == SortByDate) {
		q.SortBy = key
		if q.Order == Asc {
			q.Order = Desc
		} else {
			q.Order = Asc
		}

		return q
	}

	q.SortBy = key
	q.Order = Desc

	return q
}

// Apply returns the expenses matching q in q's order. The input slice is not modified.
func Apply(expenses []*expense.Expense, q Query) []*expense.Expense {
	// Casers carry state, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(q.Search)

	out := make([]*expense.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !matchesCategory(e, q.Category) {
			continue
		}

		if needle != "" &&
			!strings.Contains(fold.String(e.Title), needle) &&
			!strings.Contains(fold.String(e.Description), needle) {
			continue
		}

		out = append(out, e)
	}

	var titles map[*expense.Expense]string
	if q.SortBy == SortByTitle {
		titles = make(map[*expense.Expense]string, len(out))
		for _, e := range out {
			titles[e] = fold.String(e.Title)
		}
	}

	slices.SortFunc(out, func(a, b *expense.Expense) int {
		var c int

		switch q.SortBy {
		case SortByAmount:
			c = a.Amount.Cmp(b.Amount)
		case SortByTitle:
			c = strings.Compare(titles[a], titles[b])
		default:
			c = a.Date.Compare(b.Date)
		}

		if q.Order != Asc {
			c = -c
		}

		if c != 0 {
			return c
		}

		return bytes.Compare(a.ID[:], b.ID[:])
	})

	return out
}

func matchesCategory(e *expense.Expense, category string) bool {
	if category == "" || category == expense.AllCategories {
		return true
	}

	return string(e.Category) == category
}

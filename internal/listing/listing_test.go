package listing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/listing"
)

var base = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func fixture() []*expense.Expense {
	mk := func(id int, title, desc, amount string, category expense.Category, daysAgo int) *expense.Expense {
		return &expense.Expense{
			ID:          uuid.MustParse("00000000-0000-7000-8000-00000000000" + string(rune('0'+id))),
			Title:       title,
			Description: desc,
			Amount:      decimal.RequireFromString(amount),
			Category:    category,
			Date:        base.AddDate(0, 0, -daysAgo),
		}
	}

	return []*expense.Expense{
		mk(1, "Coffee", "Morning latte", "4.50", expense.CategoryFood, 0),
		mk(2, "Uber", "Ride to office", "12", expense.CategoryTransportation, 1),
		mk(3, "ÉCOLE fees", "Term two", "300", expense.CategoryEducation, 2),
		mk(4, "bakery", "croissant and coffee", "4.50", expense.CategoryFood, 3),
		mk(5, "Apples", "", "2", expense.CategoryFood, 3),
	}
}

func titles(es []*expense.Expense) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Title
	}

	return out
}

func TestApply(t *testing.T) {
	type args struct {
		query listing.Query
	}

	type testCase struct {
		name string
		args args
		want []string
	}

	tests := []testCase{
		{
			name: "DefaultNewestFirst",
			args: args{query: listing.DefaultQuery()},
			want: []string{"Coffee", "Uber", "ÉCOLE fees", "bakery", "Apples"},
		},
		{
			name: "SearchMatchesTitleOrDescription",
			args: args{query: listing.Query{Search: "COFFEE"}},
			want: []string{"Coffee", "bakery"},
		},
		{
			name: "SearchFoldsUnicode",
			args: args{query: listing.Query{Search: "école"}},
			want: []string{"ÉCOLE fees"},
		},
		{
			name: "SearchSpaceIsLiteral",
			args: args{query: listing.Query{Search: " "}},
			want: []string{"Coffee", "Uber", "ÉCOLE fees", "bakery"},
		},
		{
			name: "SearchKeepsTrailingSpace",
			args: args{query: listing.Query{Search: "coffee "}},
			want: []string{},
		},
		{
			name: "SearchKeepsLeadingSpace",
			args: args{query: listing.Query{Search: " coffee"}},
			want: []string{"bakery"},
		},
		{
			name: "CategoryFilter",
			args: args{query: listing.Query{Category: string(expense.CategoryFood), SortBy: listing.SortByDate, Order: listing.Asc}},
			want: []string{"bakery", "Apples", "Coffee"},
		},
		{
			name: "CategoryAndSearch",
			args: args{query: listing.Query{Category: string(expense.CategoryTransportation), Search: "coffee"}},
			want: []string{},
		},
		{
			name: "AmountDescTiesById",
			args: args{query: listing.Query{SortBy: listing.SortByAmount, Order: listing.Desc}},
			want: []string{"ÉCOLE fees", "Uber", "Coffee", "bakery", "Apples"},
		},
		{
			name: "AmountAsc",
			args: args{query: listing.Query{SortBy: listing.SortByAmount, Order: listing.Asc}},
			want: []string{"Apples", "Coffee", "bakery", "Uber", "ÉCOLE fees"},
		},
		{
			name: "TitleAscCaseInsensitive",
			args: args{query: listing.Query{SortBy: listing.SortByTitle, Order: listing.Asc}},
			want: []string{"Apples", "bakery", "Coffee", "Uber", "ÉCOLE fees"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := listing.Apply(fixture(), tt.args.query)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	in := fixture()
	before := titles(in)

	_ = listing.Apply(in, listing.Query{SortBy: listing.SortByTitle, Order: listing.Asc})

	assert.Equal(t, before, titles(in))
}

func TestApply_Idempotent(t *testing.T) {
	q := listing.Query{Search: "o", Category: expense.AllCategories, SortBy: listing.SortByAmount, Order: listing.Asc}

	once := listing.Apply(fixture(), q)
	twice := listing.Apply(once, q)

	assert.Equal(t, titles(once), titles(twice))
}

func TestToggle(t *testing.T) {
	q := listing.DefaultQuery()

	q = listing.Toggle(q, listing.SortByDate)
	assert.Equal(t, listing.SortByDate, q.SortBy)
	assert.Equal(t, listing.Asc, q.Order)

	q = listing.Toggle(q, listing.SortByDate)
	assert.Equal(t, listing.Desc, q.Order)

	q = listing.Toggle(q, listing.SortByDate)
	q = listing.Toggle(q, listing.SortByAmount)
	assert.Equal(t, listing.SortByAmount, q.SortBy)
	assert.Equal(t, listing.Desc, q.Order, "a new key always starts descending")
}

func TestParseSortKey(t *testing.T) {
	k, err := listing.ParseSortKey(" Amount ")
	require.NoError(t, err)
	assert.Equal(t, listing.SortByAmount, k)

	k, err = listing.ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, listing.SortByDate, k)

	_, err = listing.ParseSortKey("category")
	assert.Error(t, err)
}

func TestParseOrder(t *testing.T) {
	o, err := listing.ParseOrder("ASC")
	require.NoError(t, err)
	assert.Equal(t, listing.Asc, o)

	o, err = listing.ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, listing.Desc, o)

	_, err = listing.ParseOrder("up")
	assert.Error(t, err)
}

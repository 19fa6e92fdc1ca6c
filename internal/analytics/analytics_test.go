package analytics_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func exp(amount string, category expense.Category, date time.Time) *expense.Expense {
	return &expense.Expense{
		ID:       uuid.New(),
		Title:    string(category),
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Icon:     category.Icon(),
		Date:     date,
	}
}

func sumCategories(s analytics.Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, ct := range s.ByCategory {
		total = total.Add(ct.Amount)
	}

	return total
}

func TestCompute_Empty(t *testing.T) {
	s := analytics.Compute(nil, now)

	assert.True(t, s.Total.IsZero())
	assert.True(t, s.Average.IsZero())
	assert.Zero(t, s.Count)
	assert.Empty(t, s.TopCategories)
	assert.Empty(t, s.Recent)
	require.Len(t, s.ByCategory, len(expense.Categories))
	require.Len(t, s.Daily, analytics.DailyDays)
	require.Len(t, s.MonthlySeries, analytics.MonthlyMonths)

	for _, p := range s.Daily {
		assert.True(t, p.Amount.IsZero())
		assert.Zero(t, p.Count)
	}
}

func TestCompute_SingleTravelExpense(t *testing.T) {
	s := analytics.Compute([]*expense.Expense{exp("100", expense.CategoryTravel, now)}, now)

	assert.Equal(t, "100", s.Total.String())
	assert.Equal(t, "100", s.Weekly.String())
	assert.Equal(t, "100", s.Monthly.String())
	assert.Equal(t, "100", s.Average.String())

	require.Len(t, s.TopCategories, 1)
	assert.Equal(t, expense.CategoryTravel, s.TopCategories[0].Category)
	assert.Equal(t, "✈️", s.TopCategories[0].Icon)

	last := s.Daily[len(s.Daily)-1]
	assert.Equal(t, "Mar 15", last.Label)
	assert.Equal(t, "100", last.Amount.String())
	assert.Equal(t, 1, last.Count)

	current := s.MonthlySeries[len(s.MonthlySeries)-1]
	assert.Equal(t, "Mar 2024", current.Label)
	assert.Equal(t, "100", current.Amount.String())
}

func TestCompute_CategoryTotalsMatchTotal(t *testing.T) {
	expenses := []*expense.Expense{
		exp("12.50", expense.CategoryFood, now.AddDate(0, 0, -1)),
		exp("40", expense.CategoryTransportation, now.AddDate(0, 0, -10)),
		exp("7.25", expense.CategoryFood, now.AddDate(0, -2, 0)),
		exp("300", expense.CategoryBills, now.AddDate(-1, 0, 0)),
		exp("5", expense.Category("Groceries"), now),
	}

	s := analytics.Compute(expenses, now)

	assert.True(t, s.Total.Equal(sumCategories(s)), "category totals should add up to the grand total")
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, "72.95", s.Average.StringFixed(2))

	for i, ct := range s.ByCategory {
		assert.Equal(t, expense.Categories[i], ct.Category, "vocabulary order")
	}

	other := s.ByCategory[len(s.ByCategory)-1]
	assert.Equal(t, "5", other.Amount.String(), "unknown categories count as Other")
}

func TestCompute_RollingWindows(t *testing.T) {
	expenses := []*expense.Expense{
		exp("1", expense.CategoryOther, now.AddDate(0, 0, -6)),
		exp("2", expense.CategoryOther, now.AddDate(0, 0, -7)),
		exp("4", expense.CategoryOther, now.AddDate(0, 0, -29)),
		exp("8", expense.CategoryOther, now.AddDate(0, 0, -30)),
	}

	s := analytics.Compute(expenses, now)

	assert.Equal(t, "1", s.Weekly.String(), "exactly seven days ago is outside the window")
	assert.Equal(t, "7", s.Monthly.String(), "exactly thirty days ago is outside the window")
}

func TestCompute_RollingVersusCalendarMonth(t *testing.T) {
	// Feb 20 is inside the rolling 30 days but belongs to the previous calendar month.
	expenses := []*expense.Expense{
		exp("10", expense.CategoryShopping, time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)),
		exp("5", expense.CategoryShopping, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	s := analytics.Compute(expenses, now)

	assert.Equal(t, "15", s.Monthly.String())

	feb := s.MonthlySeries[len(s.MonthlySeries)-2]
	mar := s.MonthlySeries[len(s.MonthlySeries)-1]
	assert.Equal(t, "Feb 2024", feb.Label)
	assert.Equal(t, "10", feb.Amount.String())
	assert.Equal(t, "5", mar.Amount.String(), "midnight on the first belongs to the new month")
}

func TestCompute_MonthlySeriesOldestFirst(t *testing.T) {
	s := analytics.Compute(nil, now)

	labels := make([]string, len(s.MonthlySeries))
	for i, p := range s.MonthlySeries {
		labels[i] = p.Label
	}

	assert.Equal(t, []string{"Oct 2023", "Nov 2023", "Dec 2023", "Jan 2024", "Feb 2024", "Mar 2024"}, labels)
}

func TestCompute_DailySeries(t *testing.T) {
	expenses := []*expense.Expense{
		exp("3", expense.CategoryFood, now.AddDate(0, 0, -29)),
		exp("4", expense.CategoryFood, now.AddDate(0, 0, -30)),
		exp("1", expense.CategoryFood, time.Date(2024, 3, 14, 23, 59, 0, 0, time.UTC)),
		exp("2", expense.CategoryFood, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)),
	}

	s := analytics.Compute(expenses, now)

	assert.Equal(t, "Feb 15", s.Daily[0].Label)
	assert.Equal(t, "3", s.Daily[0].Amount.String())

	for i := 1; i < len(s.Daily); i++ {
		assert.True(t, s.Daily[i-1].Start.Before(s.Daily[i].Start), "daily series should be oldest first")
	}

	yesterday := s.Daily[len(s.Daily)-2]
	assert.Equal(t, "Mar 14", yesterday.Label)
	assert.Equal(t, "3", yesterday.Amount.String())
	assert.Equal(t, 2, yesterday.Count)
}

func TestCompute_TopCategories(t *testing.T) {
	expenses := []*expense.Expense{
		exp("10", expense.CategoryEducation, now),
		exp("50", expense.CategoryFood, now),
		exp("10", expense.CategoryShopping, now),
		exp("30", expense.CategoryTravel, now),
		exp("20", expense.CategoryHealthcare, now),
		exp("5", expense.CategoryBusiness, now),
		exp("1", expense.CategoryOther, now),
	}

	s := analytics.Compute(expenses, now)

	require.Len(t, s.TopCategories, analytics.TopLimit)

	got := make([]expense.Category, len(s.TopCategories))
	for i, ct := range s.TopCategories {
		assert.True(t, ct.Amount.IsPositive())
		got[i] = ct.Category
	}

	// Shopping and Education tie at 10; Shopping comes first in the vocabulary.
	assert.Equal(t, []expense.Category{
		expense.CategoryFood,
		expense.CategoryTravel,
		expense.CategoryHealthcare,
		expense.CategoryShopping,
		expense.CategoryEducation,
	}, got)
}

func TestCompute_RecentIsFirstFive(t *testing.T) {
	var expenses []*expense.Expense
	for i := range 7 {
		expenses = append(expenses, exp("1", expense.CategoryOther, now.AddDate(0, 0, -i)))
	}

	s := analytics.Compute(expenses, now)

	require.Len(t, s.Recent, analytics.RecentLimit)
	for i, e := range s.Recent {
		assert.Equal(t, expenses[i].ID, e.ID)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	expenses := []*expense.Expense{
		exp("12.345", expense.CategoryFood, now.AddDate(0, 0, -2)),
		exp("0.005", expense.CategoryTravel, now.AddDate(0, -3, 0)),
	}

	assert.Equal(t, analytics.Compute(expenses, now), analytics.Compute(expenses, now))
}

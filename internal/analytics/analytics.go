// Package analytics derives dashboard figures from a snapshot of the expense collection.
// Every figure is recomputed from its input; nothing is cached between calls.
package analytics

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

const (
	DailyDays     = 30
	MonthlyMonths = 6
	TopLimit      = 5
	RecentLimit   = 5
	dailyLabel    = "Jan 02"
	monthlyLabel  = "Jan 2006"
	weeklyWindow  = 7
	monthlyWindow = 30
)

type CategoryTotal struct {
	Category expense.Category
	Icon     string
	Amount   decimal.Decimal
	Count    int
}

// Point is one bucket of a time series.
type Point struct {
	Label  string
	Start  time.Time
	Amount decimal.Decimal
	Count  int
}

type Snapshot struct {
	Total   decimal.Decimal
	Count   int
	Weekly  decimal.Decimal
	Monthly decimal.Decimal
	Average decimal.Decimal

	ByCategory    []CategoryTotal
	TopCategories []CategoryTotal

	Daily         []Point
	MonthlySeries []Point

	Recent []*expense.Expense
}

// Compute aggregates expenses as of now. expenses must be newest first, as the store returns them.
//
// Weekly and Monthly are rolling windows (the last 7 and 30 days measured from now), while
// MonthlySeries uses calendar months in now's location.
func Compute(expenses []*expense.Expense, now time.Time) Snapshot {
	s := Snapshot{
		Total:   decimal.Zero,
		Weekly:  decimal.Zero,
		Monthly: decimal.Zero,
		Count:   len(expenses),
	}

	weekAgo := now.AddDate(0, 0, -weeklyWindow)
	monthAgo := now.AddDate(0, 0, -monthlyWindow)

	byCategory := make(map[expense.Category]*CategoryTotal, len(expense.Categories))
	s.ByCategory = make([]CategoryTotal, len(expense.Categories))

	for i, c := range expense.Categories {
		s.ByCategory[i] = CategoryTotal{Category: c, Icon: c.Icon(), Amount: decimal.Zero}
		byCategory[c] = &s.ByCategory[i]
	}

	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)

		if e.Date.After(weekAgo) {
			s.Weekly = s.Weekly.Add(e.Amount)
		}

		if e.Date.After(monthAgo) {
			s.Monthly = s.Monthly.Add(e.Amount)
		}

		if ct, ok := byCategory[e.Category]; ok {
			ct.Amount = ct.Amount.Add(e.Amount)
			ct.Count++
		} else {
			other := byCategory[expense.CategoryOther]
			other.Amount = other.Amount.Add(e.Amount)
			other.Count++
		}
	}

	s.Average = s.Total.Div(decimal.NewFromInt(int64(max(1, s.Count))))
	s.TopCategories = topCategories(s.ByCategory)
	s.Daily = daily(expenses, now)
	s.MonthlySeries = monthly(expenses, now)
	s.Recent = expenses[:min(RecentLimit, len(expenses))]

	return s
}

func topCategories(all []CategoryTotal) []CategoryTotal {
	top := make([]CategoryTotal, 0, len(all))
	for _, ct := range all {
		if ct.Amount.IsPositive() {
			top = append(top, ct)
		}
	}

	// Stable keeps vocabulary order between equal amounts.
	slices.SortStableFunc(top, func(a, b CategoryTotal) int {
		return b.Amount.Cmp(a.Amount)
	})

	return top[:min(TopLimit, len(top))]
}

func daily(expenses []*expense.Expense, now time.Time) []Point {
	loc := now.Location()
	today := startOfDay(now)

	points := make([]Point, DailyDays)
	for i := range points {
		day := today.AddDate(0, 0, i-(DailyDays-1))
		points[i] = Point{Label: day.Format(dailyLabel), Start: day, Amount: decimal.Zero}
	}

	for _, e := range expenses {
		day := startOfDay(e.Date.In(loc))

		for i := range points {
			if points[i].Start.Equal(day) {
				points[i].Amount = points[i].Amount.Add(e.Amount)
				points[i].Count++

				break
			}
		}
	}

	return points
}

func monthly(expenses []*expense.Expense, now time.Time) []Point {
	loc := now.Location()

	points := make([]Point, MonthlyMonths)
	for i := range points {
		start := time.Date(now.Year(), now.Month()-time.Month(MonthlyMonths-1-i), 1, 0, 0, 0, 0, loc)
		points[i] = Point{Label: start.Format(monthlyLabel), Start: start, Amount: decimal.Zero}
	}

	for _, e := range expenses {
		for i := range points {
			end := points[i].Start.AddDate(0, 1, 0)
			if !e.Date.Before(points[i].Start) && e.Date.Before(end) {
				points[i].Amount = points[i].Amount.Add(e.Amount)
				points[i].Count++

				break
			}
		}
	}

	return points
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

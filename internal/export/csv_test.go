package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/export"
)

var day = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func sample() []*expense.Expense {
	return []*expense.Expense{
		{
			ID:          uuid.MustParse("0190f2a0-0000-7000-8000-000000000002"),
			Title:       "Lunch, with team",
			Amount:      decimal.RequireFromString("12.5"),
			Category:    expense.CategoryFood,
			Description: `Thali "special"`,
			Date:        day,
		},
		{
			ID:       uuid.MustParse("0190f2a0-0000-7000-8000-000000000001"),
			Title:    "Metro",
			Amount:   decimal.RequireFromString("1234"),
			Category: expense.CategoryTransportation,
			Date:     day.AddDate(0, 0, -1),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sample()))

	want := "id,date,title,amount,category,description\n" +
		"0190f2a0-0000-7000-8000-000000000002,2024-03-15T12:00:00Z,\"Lunch, with team\",12.50,Food & Dining,\"Thali \"\"special\"\"\"\n" +
		"0190f2a0-0000-7000-8000-000000000001,2024-03-14T12:00:00Z,Metro,1234.00,Transportation,\n"

	assert.Equal(t, want, buf.String())
}

func TestReadCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sample()))

	forms, err := export.ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, forms, 2)

	assert.Equal(t, "Lunch, with team", forms[0].Title)
	assert.Equal(t, "12.50", forms[0].Amount)
	assert.Equal(t, "Food & Dining", forms[0].Category)
	assert.Equal(t, `Thali "special"`, forms[0].Description)
	assert.True(t, day.Equal(forms[0].Date))

	assert.Equal(t, "Metro", forms[1].Title)
	assert.True(t, day.AddDate(0, 0, -1).Equal(forms[1].Date))
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLen   int
		wantErr   error
		errSubstr string
	}{
		{
			name:    "PreambleAndReorderedColumns",
			input:   "exported from phone\n\nAmount,Title,Date\n20,Chai,2024-03-01\n,,\n5,Bus,01/03/2024\n",
			wantLen: 2,
		},
		{
			name:    "NoHeader",
			input:   "a,b,c\n1,2,3\n",
			wantErr: export.ErrNoHeader,
		},
		{
			name:      "BadDateNamesLine",
			input:     "date,title,amount\n2024-03-01,Chai,20\nyesterday,Bus,5\n",
			errSubstr: "line 3",
		},
		{
			name:    "Windows1252",
			input:   "date,title,amount\n2024-03-01,Caf\xe9,20\n",
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forms, err := export.ReadCSV(strings.NewReader(tt.input))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			if tt.errSubstr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)

				return
			}

			require.NoError(t, err)
			assert.Len(t, forms, tt.wantLen)
		})
	}
}

func TestReadCSV_DecodesTitle(t *testing.T) {
	forms, err := export.ReadCSV(strings.NewReader("date,title,amount\n2024-03-01,Caf\xe9,20\n"))
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "Café", forms[0].Title)
}

func TestSummary(t *testing.T) {
	want := "* 2024-03-15 | Lunch, with team | ₹12.50 | Food & Dining\n" +
		"* 2024-03-14 | Metro | ₹1,234.00 | Transportation\n"

	assert.Equal(t, want, export.Summary(sample()))
}

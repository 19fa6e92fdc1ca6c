package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/spendwise/internal/encoding"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

const (
	colID          = "id"
	colDate        = "date"
	colTitle       = "title"
	colAmount      = "amount"
	colCategory    = "category"
	colDescription = "description"
)

// Header is the column layout WriteCSV produces.
var Header = []string{colID, colDate, colTitle, colAmount, colCategory, colDescription}

var ErrNoHeader = errors.New("csv has no date, title and amount header")

// ParseError reports a line of the input that could not be read.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// dateLayouts are accepted on import, most specific first.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02", "02/01/2006"}

// WriteCSV writes expenses in the given order.
func WriteCSV(w io.Writer, expenses []*expense.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, e := range expenses {
		record := []string{
			e.ID.String(),
			e.Date.Format(time.RFC3339),
			e.Title,
			money.Fixed(e.Amount),
			string(e.Category),
			e.Description,
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write expense %s: %w", e.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) has(names ...string) bool {
	for _, n := range names {
		if _, ok := c[n]; !ok {
			return false
		}
	}

	return true
}

func (c colIndex) cell(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}

// ReadCSV parses a history file back into submission forms, keeping the file's row order.
// Input in any common encoding is accepted. The id column is ignored; imported rows get fresh ids.
func ReadCSV(r io.Reader) ([]expense.FormData, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return nil, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
		}

		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, ok := findHeader(rows)
	if !ok {
		return nil, ErrNoHeader
	}

	forms := make([]expense.FormData, 0, len(rows)-headerIdx-1)

	for i, row := range rows[headerIdx+1:] {
		line := headerIdx + i + 2 // 1-based, after the header

		if blank(row) {
			continue
		}

		date, err := parseDate(cols.cell(row, colDate))
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}

		forms = append(forms, expense.FormData{
			Title:       cols.cell(row, colTitle),
			Amount:      cols.cell(row, colAmount),
			Description: cols.cell(row, colDescription),
			Category:    cols.cell(row, colCategory),
			Date:        date,
		})
	}

	return forms, nil
}

func findHeader(rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex, len(row))

		for i, cell := range row {
			if name := strings.ToLower(strings.TrimSpace(cell)); name != "" {
				cols[name] = i
			}
		}

		if cols.has(colDate, colTitle, colAmount) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

// Package csvimport turns uploaded CSV text into transaction inputs.
//
// The header row decides which columns carry the amount, date and purchase
// name. File-level problems (empty file, missing column) abort the parse;
// row-level problems are collected and the remaining rows are still parsed.
// Parsed rows never carry a category: assignment is left to the
// categorization service after import.
package csvimport

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrEmptyFile is returned when the input has no non-blank lines.
var ErrEmptyFile = errors.New("CSV file is empty")

// ColumnError reports a required column missing from the header.
type ColumnError struct {
	Column  string
	message string
}

func (e *ColumnError) Error() string { return e.message }

var (
	amountHeaders      = []string{"amount", "price", "total", "cost", "value"}
	dateHeaders        = []string{"date", "occurredat", "transactiondate", "transaction_date"}
	descriptionHeaders = []string{"description", "desc", "purchase", "item"}
	noteHeaders        = []string{"note", "memo", "details", "comment", "notes"}
	extraNotesHeaders  = []string{"notes", "additionalnotes", "extra"}
	categoryHeaders    = []string{"category", "categoryname", "cat"}
)

// TransactionInput is a normalized row ready for the bulk-import use-case.
type TransactionInput struct {
	AmountCents int64     `json:"amount_cents"`
	OccurredAt  time.Time `json:"occurred_at"`
	Note        string    `json:"note"`
	BudgetID    *string   `json:"budget_id,omitempty"`
}

// RowError is a row-level failure. Row counts non-blank lines from 1, so
// the header is row 1 and the first data row is row 2.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"error"`
}

// RawRow is the unvalidated preview of a data row.
type RawRow struct {
	Amount      string `json:"amount,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Category    string `json:"category,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	BudgetID    string `json:"budget_id,omitempty"`
}

// Result holds everything a parse produced, in input order.
type Result struct {
	Transactions []TransactionInput `json:"transactions"`
	Errors       []RowError         `json:"errors"`
	RawRows      []RawRow           `json:"raw_rows"`
}

type columns struct {
	amount, date, purchaseName, extraNotes int
	category, categoryID, budgetID         int
}

// Parse reads raw CSV text. It only returns an error for file-level
// failures: ErrEmptyFile or a *ColumnError.
func Parse(raw string) (*Result, error) {
	raw = strings.TrimPrefix(raw, "\ufeff")
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyFile
	}

	type line struct {
		number int
		text   string
	}
	var lines []line
	for _, text := range strings.Split(raw, "\n") {
		text = strings.TrimSuffix(text, "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, line{number: len(lines) + 1, text: text})
	}
	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}

	header := splitLine(strings.TrimSpace(lines[0].text))
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Transactions: []TransactionInput{},
		Errors:       []RowError{},
		RawRows:      []RawRow{},
	}
	for _, l := range lines[1:] {
		values := splitLine(strings.TrimSpace(l.text))
		tx, rowErr := parseRow(values, cols, result)
		if rowErr != "" {
			result.Errors = append(result.Errors, RowError{Row: l.number, Message: rowErr})
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}
	return result, nil
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{
		amount:     indexOf(header, amountHeaders),
		date:       indexOf(header, dateHeaders),
		extraNotes: indexOf(header, extraNotesHeaders),
		category:   indexOf(header, categoryHeaders),
		categoryID: indexOf(header, []string{"categoryid"}),
		budgetID:   indexOf(header, []string{"budgetid"}),
	}
	cols.purchaseName = indexOf(header, descriptionHeaders)
	if cols.purchaseName == -1 {
		cols.purchaseName = indexOf(header, noteHeaders)
	}
	if cols.extraNotes == cols.purchaseName {
		cols.extraNotes = -1
	}

	switch {
	case cols.amount == -1:
		return cols, &ColumnError{Column: "amount", message: "CSV must contain an 'amount', 'price', 'total', 'cost' or 'value' column"}
	case cols.date == -1:
		return cols, &ColumnError{Column: "date", message: "CSV must contain a 'date' or 'occurredAt' column"}
	case cols.purchaseName == -1:
		return cols, &ColumnError{Column: "description", message: "CSV must contain a 'description' or 'note' column for the purchase name"}
	}
	return cols, nil
}

// indexOf returns the first header position matching any of names.
func indexOf(header []string, names []string) int {
	for i, h := range header {
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func field(values []string, idx int) string {
	if idx < 0 || idx >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[idx])
}

// parseRow appends the preview row and returns either a transaction or a
// non-empty error message.
func parseRow(values []string, cols columns, result *Result) (TransactionInput, string) {
	amountStr := field(values, cols.amount)
	dateStr := field(values, cols.date)
	description := field(values, cols.purchaseName)
	extra := field(values, cols.extraNotes)
	budgetID := field(values, cols.budgetID)

	result.RawRows = append(result.RawRows, RawRow{
		Amount:      amountStr,
		Date:        dateStr,
		Description: description,
		Notes:       extra,
		Category:    field(values, cols.category),
		CategoryID:  field(values, cols.categoryID),
		BudgetID:    budgetID,
	})

	note := combineNote(description, extra)
	switch {
	case amountStr == "":
		return TransactionInput{}, "Amount is required"
	case dateStr == "":
		return TransactionInput{}, "Date is required"
	case note == "":
		return TransactionInput{}, "Purchase name/description is required"
	}

	cents, ok := parseAmountCents(amountStr)
	if !ok {
		return TransactionInput{}, fmt.Sprintf("Invalid amount: %s", amountStr)
	}
	occurredAt, ok := parseDate(dateStr)
	if !ok {
		return TransactionInput{}, fmt.Sprintf("Invalid date format: %s", dateStr)
	}

	tx := TransactionInput{AmountCents: cents, OccurredAt: occurredAt, Note: note}
	if budgetID != "" {
		tx.BudgetID = &budgetID
	}
	return tx, ""
}

func combineNote(description, extra string) string {
	switch {
	case extra == "":
		return description
	case description == "":
		return extra
	default:
		return description + " - " + extra
	}
}

// splitLine splits a CSV line on commas outside double quotes. A doubled
// quote inside a quoted section is a literal quote.
func splitLine(line string) []string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && quoted && i+1 < len(line) && line[i+1] == '"':
			current.WriteByte('"')
			i++
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(fields, current.String())
}

var (
	amountStrip  = regexp.MustCompile(`[^0-9.\-]`)
	leadingFloat = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// parseAmountCents keeps digits, dots and minus signs, reads the longest
// leading decimal number and converts it to cents rounding half up. Zero
// is rejected.
func parseAmountCents(raw string) (int64, bool) {
	number := leadingFloat.FindString(amountStrip.ReplaceAllString(raw, ""))
	if number == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(number, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	cents := math.Floor(value*100 + 0.5)
	if math.Abs(cents) > math.MaxInt64/2 {
		return 0, false
	}
	return int64(cents), true
}

var (
	isoPrefix   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	usSlashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})`)
	ymdSlash    = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})`)
	usDashDate  = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})`)
)

var isoLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
}

var fallbackLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"Mon Jan 2 2006",
	"Mon, 2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.ANSIC,
}

// parseDate accepts ISO dates, US slash dates (month first), year-first
// slash dates, US dash dates and a few textual layouts. Values without a
// zone are read as UTC.
func parseDate(raw string) (time.Time, bool) {
	if isoPrefix.MatchString(raw) {
		return parseLayouts(raw, isoLayouts)
	}
	if m := usSlashDate.FindStringSubmatch(raw); m != nil {
		return civilDate(m[3], m[1], m[2])
	}
	if m := ymdSlash.FindStringSubmatch(raw); m != nil {
		return civilDate(m[1], m[2], m[3])
	}
	if m := usDashDate.FindStringSubmatch(raw); m != nil {
		return civilDate(m[3], m[1], m[2])
	}
	return parseLayouts(raw, fallbackLayouts)
}

func parseLayouts(raw string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// civilDate builds a UTC midnight date, rejecting out-of-range months and
// days instead of rolling them over.
func civilDate(year, month, day string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}

package expense

import (
	"encoding/json"
	"strings"
	"time"

	sErrors "github.com/pvminh/tally/errors"
	"github.com/shopspring/decimal"
)

// Period is an expense's allocation period token, e.g. "none", "3_months", "12_months".
// Tokens other than "none" mark the expense's cost as spread over its allocation span.
type Period string

// PeriodNone recognizes the full amount on the expense's spend date
const PeriodNone Period = "none"

// DateFormat is the calendar day format used by the dashboard's backend
const DateFormat = "2006/01/02"

// altDateFormat also appears in older backend payloads
const altDateFormat = "2006-01-02"

// Expense is a single spend record from the business dashboard.
// Records are timezone-naive: dates are calendar days at UTC midnight.
type Expense struct {
	ID               string
	Date             time.Time
	Amount           decimal.Decimal
	Category         string
	Description      string
	AllocationPeriod Period
	AllocationStart  time.Time
	AllocationEnd    time.Time
}

// Allocated returns true if this expense's cost is spread over its allocation span
func (e Expense) Allocated() bool {
	return e.AllocationPeriod != "" && e.AllocationPeriod != PeriodNone
}

// AllocationSpan returns the span the expense's cost applies to.
// Either bound defaults to the spend date when absent.
func (e Expense) AllocationSpan() (start, end time.Time) {
	start, end = e.AllocationStart, e.AllocationEnd
	if start.IsZero() {
		start = e.Date
	}
	if end.IsZero() {
		end = e.Date
	}
	return
}

// Validate reports all contract violations for a record written through the API.
// Synced backend records are never validated, they coerce instead.
func (e Expense) Validate() error {
	var errs sErrors.Errors
	errs.ErrIf(e.Date.IsZero(), "Expense date is required")
	errs.ErrIf(e.Amount.Sign() < 0, "Expense amount must not be negative")
	if e.Allocated() {
		start, end := e.AllocationSpan()
		errs.ErrIf(end.Before(start), "Allocation end must not precede allocation start")
	}
	return errs.ErrOrNil()
}

// expenseJSON is the lenient wire shape: the backend emits amounts as numbers
// or strings, and dates in either slash or dash form
type expenseJSON struct {
	ID               string
	Date             string
	Amount           json.RawMessage
	Category         string
	Type             string
	Description      string
	AllocationPeriod string
	AllocationStart  string
	AllocationEnd    string
}

// UnmarshalJSON decodes a backend expense record, coercing malformed fields
// to zero values rather than failing the whole payload
func (e *Expense) UnmarshalJSON(b []byte) error {
	var record expenseJSON
	if err := json.Unmarshal(b, &record); err != nil {
		return err
	}
	e.ID = record.ID
	e.Date, _ = ParseDate(record.Date)
	e.Amount = coerceAmount(record.Amount)
	e.Category = record.Category
	if e.Category == "" {
		e.Category = record.Type
	}
	e.Description = record.Description
	e.AllocationPeriod = Period(record.AllocationPeriod)
	e.AllocationStart, _ = ParseDate(record.AllocationStart)
	e.AllocationEnd, _ = ParseDate(record.AllocationEnd)
	return nil
}

// MarshalJSON encodes the record with backend-compatible date strings
func (e Expense) MarshalJSON() ([]byte, error) {
	record := struct {
		ID               string
		Date             string
		Amount           decimal.Decimal
		Category         string
		Description      string `json:",omitempty"`
		AllocationPeriod string `json:",omitempty"`
		AllocationStart  string `json:",omitempty"`
		AllocationEnd    string `json:",omitempty"`
	}{
		ID:               e.ID,
		Date:             formatDate(e.Date),
		Amount:           e.Amount,
		Category:         e.Category,
		Description:      e.Description,
		AllocationPeriod: string(e.AllocationPeriod),
		AllocationStart:  formatDate(e.AllocationStart),
		AllocationEnd:    formatDate(e.AllocationEnd),
	}
	return json.Marshal(record)
}

// ParseDate parses a backend calendar day string. Returns a zero time if 's'
// is empty or not a recognizable date
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse(DateFormat, s)
	if err != nil {
		date, err = time.Parse(altDateFormat, s)
	}
	if err != nil {
		return time.Time{}, err
	}
	return date, nil
}

func formatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateFormat)
}

// coerceAmount converts a raw amount to a decimal. Non-numeric input becomes zero
func coerceAmount(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

package project

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPlanned   Status = "PLANNED"
	StatusOngoing   Status = "ONGOING"
	StatusCompleted Status = "COMPLETED"
	StatusStalled   Status = "STALLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusOngoing, StatusCompleted, StatusStalled:
		return true
	}
	return false
}

// Project is a tracked public infrastructure initiative.
type Project struct {
	ID          int64               `json:"id" db:"id"`
	Title       string              `json:"title" db:"title"`
	Description string              `json:"description" db:"description"`
	County      string              `json:"county" db:"county"`
	Status      Status              `json:"status" db:"status"`
	Budget      decimal.NullDecimal `json:"budget" db:"budget"`
	SpentAmount decimal.NullDecimal `json:"spent_amount" db:"spent_amount"`
	Progress    int                 `json:"progress" db:"progress"`
	Latitude    decimal.NullDecimal `json:"latitude" db:"latitude"`
	Longitude   decimal.NullDecimal `json:"longitude" db:"longitude"`
	StartDate   *Date               `json:"start_date" db:"start_date"`
	EndDate     *Date               `json:"end_date" db:"end_date"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" db:"updated_at"`
}

// MapMarker is the reduced payload for map pins.
type MapMarker struct {
	ID        int64           `json:"id" db:"id"`
	Title     string          `json:"title" db:"title"`
	Status    Status          `json:"status" db:"status"`
	Latitude  decimal.Decimal `json:"latitude" db:"latitude"`
	Longitude decimal.Decimal `json:"longitude" db:"longitude"`
}

// ListFilter narrows List. Empty fields are ignored.
type ListFilter struct {
	Status Status
	County string
	Search string
}

// Date is a calendar date carried as YYYY-MM-DD on the wire and DATE in postgres.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fmt.Errorf("date must use the YYYY-MM-DD format: %w", err)
	}
	d.Time = t
	return nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (d *Date) parse(raw string) error {
	t, err := time.Parse(dateLayout, raw[:min(len(raw), len(dateLayout))])
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Optional separates a key missing from the payload (Set false) from an
// explicit null (Set true, Valid false).
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Some is an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null is an Optional explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// ProjectInput is the write payload for create, PUT and PATCH.
type ProjectInput struct {
	Title       Optional[string]          `json:"title"`
	Description Optional[string]          `json:"description"`
	County      Optional[string]          `json:"county"`
	Status      Optional[Status]          `json:"status"`
	Budget      Optional[decimal.Decimal] `json:"budget"`
	SpentAmount Optional[decimal.Decimal] `json:"spent_amount"`
	Progress    Optional[int]             `json:"progress"`
	Latitude    Optional[decimal.Decimal] `json:"latitude"`
	Longitude   Optional[decimal.Decimal] `json:"longitude"`
	StartDate   Optional[Date]            `json:"start_date"`
	EndDate     Optional[Date]            `json:"end_date"`
}

const (
	maxTitleLength  = 200
	maxCountyLength = 100
	minProgress     = 0
	maxProgress     = 100
)

// Validate normalises text fields and returns per-field messages.
// requireTitle is true for create and PUT.
func (in *ProjectInput) Validate(requireTitle bool) perrors.FieldErrors {
	fields := perrors.FieldErrors{}

	switch {
	case !in.Title.Set:
		if requireTitle {
			fields.Add("title", "This field is required.")
		}
	case !in.Title.Valid:
		fields.Add("title", "This field may not be null.")
	default:
		in.Title.Value = strings.TrimSpace(in.Title.Value)
		if in.Title.Value == "" {
			fields.Add("title", "This field may not be blank.")
		} else if len([]rune(in.Title.Value)) > maxTitleLength {
			fields.Add("title", "Ensure this field has no more than 200 characters.")
		}
	}

	notNull(fields, "description", in.Description.Set, in.Description.Valid)

	if notNull(fields, "county", in.County.Set, in.County.Valid) {
		in.County.Value = strings.TrimSpace(in.County.Value)
		if len([]rune(in.County.Value)) > maxCountyLength {
			fields.Add("county", "Ensure this field has no more than 100 characters.")
		}
	}

	if notNull(fields, "status", in.Status.Set, in.Status.Valid) && !in.Status.Value.Valid() {
		fields.Add("status", fmt.Sprintf("\"%s\" is not a valid choice.", in.Status.Value))
	}

	if notNull(fields, "progress", in.Progress.Set, in.Progress.Valid) {
		if in.Progress.Value < minProgress {
			fields.Add("progress", "Ensure this value is greater than or equal to 0.")
		} else if in.Progress.Value > maxProgress {
			fields.Add("progress", "Ensure this value is less than or equal to 100.")
		}
	}

	checkAmount(fields, "budget", in.Budget)
	checkAmount(fields, "spent_amount", in.SpentAmount)
	checkCoordinate(fields, "latitude", in.Latitude, 90)
	checkCoordinate(fields, "longitude", in.Longitude, 180)

	return fields
}

// notNull records an error for explicit nulls on non-nullable fields and
// reports whether the field carries a value to validate further.
func notNull(fields perrors.FieldErrors, name string, set, valid bool) bool {
	if set && !valid {
		fields.Add(name, "This field may not be null.")
		return false
	}
	return set
}

// checkAmount mirrors NUMERIC(14,2).
func checkAmount(fields perrors.FieldErrors, name string, v Optional[decimal.Decimal]) {
	if !v.Set || !v.Valid {
		return
	}
	if v.Value.IsNegative() {
		fields.Add(name, "Ensure this value is greater than or equal to 0.")
		return
	}
	checkDigits(fields, name, v.Value, 14, 2)
}

// checkCoordinate mirrors NUMERIC(9,6) plus the geographic range.
func checkCoordinate(fields perrors.FieldErrors, name string, v Optional[decimal.Decimal], limit int64) {
	if !v.Set || !v.Valid {
		return
	}
	if v.Value.Abs().GreaterThan(decimal.NewFromInt(limit)) {
		fields.Add(name, fmt.Sprintf("Ensure this value is between -%d and %d.", limit, limit))
		return
	}
	checkDigits(fields, name, v.Value, 9, 6)
}

func checkDigits(fields perrors.FieldErrors, name string, d decimal.Decimal, maxDigits, places int) {
	scale := 0
	if exp := d.Exponent(); exp < 0 {
		scale = int(-exp)
	}
	whole := len(d.Abs().Truncate(0).String())
	if d.Abs().LessThan(decimal.NewFromInt(1)) {
		whole = 0
	}

	switch {
	case scale > places:
		fields.Add(name, fmt.Sprintf("Ensure that there are no more than %d decimal places.", places))
	case whole > maxDigits-places:
		fields.Add(name, fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", maxDigits-places))
	}
}

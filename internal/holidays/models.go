package holidays

import (
	"errors"
	"sort"
	"time"
)

// ErrUnsupportedCountry is returned by an Oracle for a country code it has no data for.
var ErrUnsupportedCountry = errors.New("unsupported country")

// Date is a calendar day without time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Before reports whether d is an earlier day than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Observances maps each holiday date to the holiday's name.
type Observances map[Date]string

// Sorted returns the observances ordered by date.
func (o Observances) Sorted() []Observance {
	list := make([]Observance, 0, len(o))
	for d, name := range o {
		list = append(list, Observance{Date: d, Name: name})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list
}

// Observance is one holiday occurrence returned by an Oracle.
type Observance struct {
	Date Date
	Name string
}

// Record is one entry of a country file's holiday list. The year is dropped,
// only the month/day recurrence is kept.
type Record struct {
	Name       string   `yaml:"name"`
	FixedDate  [2]int   `yaml:"fixed_date,flow"`
	OnlyStates []string `yaml:"only_states,omitempty,flow"`
}

func (r Record) key() recordKey {
	return recordKey{name: r.Name, month: r.FixedDate[0], day: r.FixedDate[1]}
}

type recordKey struct {
	name  string
	month int
	day   int
}

func newRecord(o Observance) Record {
	return Record{Name: o.Name, FixedDate: [2]int{int(o.Date.Month), o.Date.Day}}
}

// Oracle is the holiday-calculation source the aggregator consumes.
type Oracle interface {
	// HolidaysFor returns the holidays observed in country during year. An
	// empty subdivision means the nationwide set.
	HolidaysFor(country string, year int, subdivision string) (Observances, error)
	// Subdivisions lists the subdivision codes of country in a stable order.
	Subdivisions(country string) ([]string, error)
	// SupportedCountries lists every country code the oracle knows, upper-cased.
	SupportedCountries() []string
}

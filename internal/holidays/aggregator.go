package holidays

import (
	"errors"
	"fmt"
	"slices"
)

// Shadowed is a subdivision report dropped because a nationwide record with
// the same name and date already exists.
type Shadowed struct {
	Record      Record
	Subdivision string
}

// Result is the aggregated holiday list of one country-year.
type Result struct {
	Records  []Record
	Shadowed []Shadowed
	// Errors holds failed oracle queries; their scopes were treated as empty.
	Errors []error
}

// Aggregate merges the nationwide holidays of country with the holidays of
// every subdivision into one list without duplicate (name, month, day) keys.
// Nationwide records come first in date order, followed by subdivision-only
// records in first-seen order, each tagged with the subdivisions reporting it.
//
// An unsupported country is the only error returned; any other failing query
// counts as an empty holiday set and is reported in Result.Errors.
func Aggregate(o Oracle, country string, year int) (Result, error) {
	var res Result

	national, err := o.HolidaysFor(country, year, "")
	if errors.Is(err, ErrUnsupportedCountry) {
		return res, err
	}
	if err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("holidays for %s/%d: %w", country, year, err))
	}
	records := make([]Record, 0, len(national))
	for _, obs := range national.Sorted() {
		records = append(records, newRecord(obs))
	}

	subdivs, err := o.Subdivisions(country)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("subdivisions of %s: %w", country, err))
		subdivs = nil
	}

	var regional []*Record
	byKey := make(map[recordKey]*Record)
	for _, sub := range subdivs {
		obs, err := o.HolidaysFor(country, year, sub)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("holidays for %s-%s/%d: %w", country, sub, year, err))
			continue
		}
		for _, ob := range obs.Sorted() {
			rec := newRecord(ob)
			if existing, ok := byKey[rec.key()]; ok {
				if !slices.Contains(existing.OnlyStates, sub) {
					existing.OnlyStates = append(existing.OnlyStates, sub)
				}
				continue
			}
			rec.OnlyStates = []string{sub}
			byKey[rec.key()] = &rec
			regional = append(regional, &rec)
		}
	}
	for _, rec := range regional {
		records = append(records, *rec)
	}

	seen := make(map[recordKey]bool, len(records))
	for _, rec := range records {
		k := rec.key()
		if seen[k] {
			for _, sub := range rec.OnlyStates {
				res.Shadowed = append(res.Shadowed, Shadowed{Record: rec, Subdivision: sub})
			}
			continue
		}
		seen[k] = true
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

package holidays

import (
	"fmt"
	"sort"
	"strings"
)

// StaticOracle serves fixed holiday data, keyed by upper-case country code.
// It backs tests and dry runs against hand-written data.
type StaticOracle struct {
	// National holds the nationwide set per country.
	National map[string]Observances
	// Regional holds per-subdivision sets; map order is not significant,
	// SubdivisionOrder fixes the iteration order.
	Regional         map[string]map[string]Observances
	SubdivisionOrder map[string][]string
	// Fail makes HolidaysFor fail for "CC" or "CC-SUB" scopes.
	Fail map[string]error
}

func (s *StaticOracle) HolidaysFor(country string, year int, subdivision string) (Observances, error) {
	country = strings.ToUpper(country)
	if _, ok := s.National[country]; !ok {
		return nil, fmt.Errorf("%s: %w", country, ErrUnsupportedCountry)
	}
	scope := country
	if subdivision != "" {
		scope += "-" + subdivision
	}
	if err, ok := s.Fail[scope]; ok {
		return nil, err
	}
	var src Observances
	if subdivision == "" {
		src = s.National[country]
	} else {
		src = s.Regional[country][subdivision]
	}
	out := make(Observances, len(src))
	for d, name := range src {
		if d.Year == year {
			out[d] = name
		}
	}
	return out, nil
}

func (s *StaticOracle) Subdivisions(country string) ([]string, error) {
	country = strings.ToUpper(country)
	if _, ok := s.National[country]; !ok {
		return nil, fmt.Errorf("%s: %w", country, ErrUnsupportedCountry)
	}
	if order, ok := s.SubdivisionOrder[country]; ok {
		return order, nil
	}
	subs := make([]string, 0, len(s.Regional[country]))
	for sub := range s.Regional[country] {
		subs = append(subs, sub)
	}
	sort.Strings(subs)
	return subs, nil
}

func (s *StaticOracle) SupportedCountries() []string {
	list := make([]string, 0, len(s.National))
	for c := range s.National {
		list = append(list, c)
	}
	sort.Strings(list)
	return list
}

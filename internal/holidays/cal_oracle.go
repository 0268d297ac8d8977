package holidays

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/at"
	"github.com/rickar/cal/v2/au"
	"github.com/rickar/cal/v2/be"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/ch"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/dk"
	"github.com/rickar/cal/v2/es"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/ie"
	"github.com/rickar/cal/v2/it"
	"github.com/rickar/cal/v2/nl"
	"github.com/rickar/cal/v2/no"
	"github.com/rickar/cal/v2/nz"
	"github.com/rickar/cal/v2/se"
	"github.com/rickar/cal/v2/us"
)

type countryDef struct {
	national []*cal.Holiday
	// regional lists are evaluated in the order given here.
	regional []regionDef
}

type regionDef struct {
	code     string
	holidays []*cal.Holiday
}

var calCountries = map[string]countryDef{
	"AT": {national: at.Holidays},
	"AU": {
		national: []*cal.Holiday{au.NewYear, au.AustraliaDay},
		regional: []regionDef{
			{"ACT", au.HolidaysACT},
			{"NSW", au.HolidaysNSW},
			{"NT", au.HolidaysNT},
			{"QLD", au.HolidaysQLD},
			{"SA", au.HolidaysSA},
			{"TAS", au.HolidaysTAS},
			{"VIC", au.HolidaysVIC},
			{"WA", au.HolidaysWA},
		},
	},
	"BE": {national: be.Holidays},
	"CA": {national: ca.Holidays},
	"CH": {
		national: ch.Holidays,
		regional: []regionDef{
			{"AG", ch.HolidaysAG},
			{"AI", ch.HolidaysAI},
			{"AR", ch.HolidaysAR},
			{"BE", ch.HolidaysBE},
			{"BL", ch.HolidaysBL},
			{"BS", ch.HolidaysBS},
			{"FR", ch.HolidaysFR},
			{"GE", ch.HolidaysGE},
			{"GL", ch.HolidaysGL},
			{"GR", ch.HolidaysGR},
			{"JU", ch.HolidaysJU},
			{"LU", ch.HolidaysLU},
			{"NE", ch.HolidaysNE},
			{"NW", ch.HolidaysNW},
			{"OW", ch.HolidaysOW},
			{"SG", ch.HolidaysSG},
			{"SH", ch.HolidaysSH},
			{"SO", ch.HolidaysSO},
			{"SZ", ch.HolidaysSZ},
			{"TG", ch.HolidaysTG},
			{"TI", ch.HolidaysTI},
			{"UR", ch.HolidaysUR},
			{"VD", ch.HolidaysVD},
			{"VS", ch.HolidaysVS},
			{"ZG", ch.HolidaysZG},
			{"ZH", ch.HolidaysZH},
		},
	},
	"DE": {
		national: de.Holidays,
		regional: []regionDef{
			{"BB", de.HolidaysBB},
			{"BE", de.HolidaysBE},
			{"BW", de.HolidaysBW},
			{"BY", de.HolidaysBY},
			{"HB", de.HolidaysHB},
			{"HE", de.HolidaysHE},
			{"HH", de.HolidaysHH},
			{"MV", de.HolidaysMV},
			{"NI", de.HolidaysNI},
			{"NW", de.HolidaysNW},
			{"RP", de.HolidaysRP},
			{"SH", de.HolidaysSH},
			{"SL", de.HolidaysSL},
			{"SN", de.HolidaysSN},
			{"ST", de.HolidaysST},
			{"TH", de.HolidaysTH},
		},
	},
	"DK": {national: dk.Holidays},
	"ES": {national: es.Holidays},
	"FR": {national: fr.Holidays},
	"GB": {national: gb.Holidays},
	"IE": {national: ie.Holidays},
	"IT": {national: it.Holidays},
	"NL": {national: nl.Holidays},
	"NO": {national: no.Holidays},
	"NZ": {national: nz.Holidays},
	"SE": {national: se.Holidays},
	"US": {national: us.Holidays},
}

// ParseObservance maps a config name (public, bank, other) to a cal observance type.
func ParseObservance(name string) (cal.ObservanceType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "public":
		return cal.ObservancePublic, nil
	case "bank":
		return cal.ObservanceBank, nil
	case "other":
		return cal.ObservanceOther, nil
	}
	var none cal.ObservanceType
	return none, fmt.Errorf("unknown observance %q", name)
}

// CalOracle computes holidays with github.com/rickar/cal.
type CalOracle struct {
	skip map[cal.ObservanceType]bool
}

// NewCalOracle returns an oracle that leaves out holidays of the skipped observance types.
func NewCalOracle(skip ...cal.ObservanceType) *CalOracle {
	o := &CalOracle{skip: make(map[cal.ObservanceType]bool, len(skip))}
	for _, t := range skip {
		o.skip[t] = true
	}
	return o
}

func (o *CalOracle) HolidaysFor(country string, year int, subdivision string) (Observances, error) {
	def, ok := calCountries[strings.ToUpper(country)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", country, ErrUnsupportedCountry)
	}
	list := def.national
	if subdivision != "" {
		found := false
		for _, r := range def.regional {
			if r.code == subdivision {
				list, found = r.holidays, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown subdivision %s-%s", country, subdivision)
		}
	}

	out := make(Observances, len(list))
	for _, h := range list {
		if o.skip[h.Type] {
			continue
		}
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		d := DateOf(actual)
		// two holidays on one day: the first listed names it
		if _, taken := out[d]; !taken {
			out[d] = h.Name
		}
	}
	return out, nil
}

func (o *CalOracle) Subdivisions(country string) ([]string, error) {
	def, ok := calCountries[strings.ToUpper(country)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", country, ErrUnsupportedCountry)
	}
	codes := make([]string, 0, len(def.regional))
	for _, r := range def.regional {
		codes = append(codes, r.code)
	}
	return codes, nil
}

func (o *CalOracle) SupportedCountries() []string {
	list := make([]string, 0, len(calCountries))
	for c := range calCountries {
		list = append(list, c)
	}
	sort.Strings(list)
	return list
}

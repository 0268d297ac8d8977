package batch

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"holiday-yaml-sync/internal/holidays"
	"holiday-yaml-sync/internal/phfile"
)

// Summary counts the outcome of every country file touched by a run.
type Summary struct {
	Updated   int
	Created   int
	Unchanged int
	Skipped   int
	Failed    int
}

// Driver regenerates the holiday list of every country file in Dir.
type Driver struct {
	Oracle    holidays.Oracle
	Dir       string
	IndexFile string
	Year      int
	DryRun    bool
	// Only limits file processing to these upper-case codes; the index always lists every country.
	Only    []string
	Logger  *log.Logger
	Metrics *Metrics
}

// Run processes existing country files, creates missing ones for supported
// countries and rewrites the index. Per-file problems are logged and counted;
// only a failure to list Dir or write the index is returned.
func (d *Driver) Run() (Summary, error) {
	var sum Summary
	start := time.Now()
	if d.Metrics == nil {
		d.Metrics = NewMetrics()
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}

	supported := d.Oracle.SupportedCountries()
	files, err := phfile.Discover(d.Dir)
	if err != nil {
		return sum, fmt.Errorf("list country files in %s: %w", d.Dir, err)
	}

	present := make(map[string]bool, len(files))
	for _, path := range files {
		country := phfile.CountryFromPath(path)
		present[country] = true
		if !d.wanted(country) {
			continue
		}
		if !slices.Contains(supported, country) {
			d.Logger.Warn("country not supported, skipping", "country", country, "file", path)
			d.count(&sum.Skipped, "skipped")
			continue
		}
		changed, err := d.update(path, country)
		switch {
		case err != nil:
			d.Logger.Error("update failed", "file", path, "err", err)
			d.count(&sum.Failed, "failed")
		case changed:
			d.count(&sum.Updated, "updated")
		default:
			d.count(&sum.Unchanged, "unchanged")
		}
	}

	for _, country := range supported {
		if present[country] || !d.wanted(country) {
			continue
		}
		path := phfile.PathFor(d.Dir, country)
		if d.DryRun {
			d.Logger.Info("would create", "file", path)
			d.count(&sum.Created, "created")
			continue
		}
		if err := phfile.CreatePlaceholder(path); err != nil {
			d.Logger.Error("create failed", "file", path, "err", err)
			d.count(&sum.Failed, "failed")
			continue
		}
		if _, err := d.update(path, country); err != nil {
			d.Logger.Error("update failed", "file", path, "err", err)
			d.count(&sum.Failed, "failed")
			continue
		}
		d.count(&sum.Created, "created")
	}

	if !d.DryRun {
		if err := phfile.WriteIndex(d.IndexFile, d.Dir, supported); err != nil {
			return sum, fmt.Errorf("write index %s: %w", d.IndexFile, err)
		}
		d.Logger.Info("wrote index", "file", d.IndexFile, "countries", len(supported))
	}

	d.Metrics.duration.Set(time.Since(start).Seconds())
	d.Metrics.lastSuccess.SetToCurrentTime()
	return sum, nil
}

func (d *Driver) update(path, country string) (bool, error) {
	res, err := holidays.Aggregate(d.Oracle, country, d.Year)
	if err != nil {
		return false, err
	}
	for _, qerr := range res.Errors {
		d.Logger.Warn("oracle query failed, using empty set", "country", country, "err", qerr)
		d.Metrics.oracleFails.WithLabelValues(country).Inc()
	}
	for _, s := range res.Shadowed {
		d.Logger.Debug("subdivision tag shadowed by nationwide holiday",
			"country", country, "holiday", s.Record.Name, "subdivision", s.Subdivision)
		d.Metrics.shadowed.WithLabelValues(country).Inc()
	}

	changed, err := phfile.Update(path, res.Records, d.DryRun)
	if err != nil {
		return false, err
	}
	d.Metrics.records.WithLabelValues(country).Set(float64(len(res.Records)))
	switch {
	case !changed:
		d.Logger.Debug("unchanged", "file", path)
	case d.DryRun:
		d.Logger.Info("would update", "file", path, "holidays", len(res.Records))
	default:
		d.Logger.Info("updated", "file", path, "holidays", len(res.Records))
	}
	return changed, nil
}

func (d *Driver) wanted(country string) bool {
	return len(d.Only) == 0 || slices.Contains(d.Only, country)
}

func (d *Driver) count(n *int, result string) {
	*n++
	d.Metrics.files.WithLabelValues(result).Inc()
}

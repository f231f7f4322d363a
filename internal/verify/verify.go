// Package verify recomputes translation coverage over a dataset directory
// without changing it.
package verify

import (
	"context"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/dataset"
	"github.com/oukeidos/tarjama/internal/logger"
	"github.com/oukeidos/tarjama/internal/record"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Counts are the field counters shared by files, field groups and totals.
type Counts struct {
	Total      int
	Translated int
	Failed     int
}

func (c *Counts) add(o Counts) {
	c.Total += o.Total
	c.Translated += o.Translated
	c.Failed += o.Failed
}

// SuccessRate is (translated - failed) / total as a percentage, 0 when there
// are no fields.
func (c Counts) SuccessRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Translated-c.Failed) / float64(c.Total) * 100
}

// Complete reports whether every field has a good derived value.
func (c Counts) Complete() bool {
	return c.Translated == c.Total && c.Failed == 0
}

// GroupReport holds the counts of one field name within a file.
type GroupReport struct {
	Field string
	Counts
}

// FileReport holds the counts of one file.
type FileReport struct {
	Name  string
	Items int
	Counts
	// Groups is in order of first appearance in the file.
	Groups []GroupReport
}

// ReadError is a file that could not be inspected.
type ReadError struct {
	Name string
	Err  error
}

// Aggregate is the result of a verification pass.
type Aggregate struct {
	Files  []FileReport
	Errors []ReadError
	Items  int
	Counts
}

// TranslationRate is the share of fields with a derived value at all.
func (a Aggregate) TranslationRate() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Translated) / float64(a.Total) * 100
}

// CoverageRate is the share of fields with a good derived value.
func (a Aggregate) CoverageRate() float64 {
	return a.SuccessRate()
}

// FailureRate is the share of fields whose derived value equals the source.
func (a Aggregate) FailureRate() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Failed) / float64(a.Total) * 100
}

// NeedsAttention returns the files that are not complete.
func (a Aggregate) NeedsAttention() []FileReport {
	var out []FileReport
	for _, f := range a.Files {
		if !f.Complete() {
			out = append(out, f)
		}
	}
	return out
}

// GroupAttention is a field group with failed fields, tagged with its file.
type GroupAttention struct {
	File string
	GroupReport
}

// GroupsNeedingAttention returns every field group that has failures.
func (a Aggregate) GroupsNeedingAttention() []GroupAttention {
	var out []GroupAttention
	for _, f := range a.Files {
		for _, g := range f.Groups {
			if g.Failed > 0 {
				out = append(out, GroupAttention{File: f.Name, GroupReport: g})
			}
		}
	}
	return out
}

// Reporter inspects the files of Dir.
type Reporter struct {
	Dir         string
	MappingFile string
	Suffix      string
}

// Run inspects every dataset file. Unreadable files end up in
// Aggregate.Errors; only a failure to list Dir is returned.
func (r Reporter) Run(ctx context.Context) (Aggregate, error) {
	names, err := dataset.ListFiles(r.Dir, r.MappingFile)
	if err != nil {
		return Aggregate{}, err
	}
	var agg Aggregate
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return agg, err
		}
		recs, err := dataset.Load(dataset.Path(r.Dir, name))
		if err != nil {
			logger.Warn("Cannot verify file", "file", name, "error", apperrors.PublicMessage(err))
			agg.Errors = append(agg.Errors, ReadError{Name: name, Err: err})
			continue
		}
		fr := Inspect(name, recs, r.Suffix)
		agg.Files = append(agg.Files, fr)
		agg.Items += fr.Items
		agg.add(fr.Counts)
	}
	return agg, nil
}

// Inspect counts the candidate fields of one file's records.
func Inspect(name string, recs []*record.Record, suffix string) FileReport {
	fr := FileReport{Name: name, Items: len(recs)}
	groups := orderedmap.New[string, *Counts]()
	for _, rec := range recs {
		for _, f := range record.Candidates(rec, suffix) {
			var c Counts
			c.Total = 1
			if f.HasDerived {
				c.Translated = 1
			}
			if f.State == record.Failed {
				c.Failed = 1
			}
			fr.add(c)
			g, ok := groups.Get(f.Key)
			if !ok {
				g = &Counts{}
				groups.Set(f.Key, g)
			}
			g.add(c)
		}
	}
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		fr.Groups = append(fr.Groups, GroupReport{Field: pair.Key, Counts: *pair.Value})
	}
	return fr
}

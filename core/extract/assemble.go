// Package extract — record assembly.
// The assembler maps the catalog's label vocabulary onto Record
// fields, running each raw value through its normalizer. Assembly
// never fails as a whole: a page that yields only a title is still a
// valid, mostly-absent Record.
package extract

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/gaurav-prasanna/filmdex/core"
	"github.com/gaurav-prasanna/filmdex/core/normalize"
)

// Label patterns for the catalog's field vocabulary. Labels anchor on
// a leading fragment so trailing punctuation variants still match.
var (
	labelRating      = regexp.MustCompile(`MPAA\s*Rating`)
	labelGenre       = regexp.MustCompile(`Genre:`)
	labelDistributor = regexp.MustCompile(`Distributor`)
	labelTheaters    = regexp.MustCompile(`Widest`)
	labelBudget      = regexp.MustCompile(`Production`)
	labelDomestic    = regexp.MustCompile(`Domestic Total`)
	labelWorldwide   = regexp.MustCompile(`Worldwide`)
	labelAwards      = regexp.MustCompile(`Academy Awards`)
	labelRelease     = regexp.MustCompile(`Release Date`)
	labelClosing     = regexp.MustCompile(`Close`)
	labelRuntime     = regexp.MustCompile(`Runtime`)
	labelDirectors   = regexp.MustCompile(`Director`)
	labelWriters     = regexp.MustCompile(`Writer`)
	labelActors      = regexp.MustCompile(`Actor`)
	labelProducers   = regexp.MustCompile(`Producer`)
)

// Assembler builds Records from labeled field sources.
type Assembler struct {
	log *zap.Logger
}

// NewAssembler creates an Assembler.
func NewAssembler(log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{log: log}
}

// Assemble extracts every known field from src into a Record. Fields
// whose label is absent or whose raw value does not normalize stay at
// their zero value.
func (a *Assembler) Assemble(src core.LabeledFieldSource, sourceURL string) core.Record {
	rec := core.Record{SourceURL: sourceURL}
	rec.Title = normalize.Title(src.Title())

	if v, ok := src.Scalar(labelRating); ok {
		rec.Rating = &v
	}
	if v, ok := src.Scalar(labelGenre); ok {
		rec.Genre = &v
	}
	if v, ok := src.Scalar(labelDistributor); ok {
		rec.Distributor = &v
	}
	if v, ok := src.Scalar(labelTheaters); ok {
		if n, ok := normalize.Theaters(v); ok {
			rec.Theaters = &n
		}
	}
	if v, ok := src.Scalar(labelBudget); ok {
		if n, ok := normalize.ScaledMoney(v); ok {
			rec.Budget = &n
		}
	}
	if v, ok := src.Scalar(labelDomestic); ok {
		if n, ok := normalize.Money(v); ok {
			rec.DomesticGross = &n
		}
	}
	if v, ok := src.Scalar(labelWorldwide); ok {
		if n, ok := normalize.Money(v); ok {
			rec.InternationalGross = &n
		}
	}
	if v, ok := src.Scalar(labelAwards); ok {
		rec.AwardNominations, rec.AwardWins = normalize.AwardCounts(v)
	}
	if v, ok := src.Scalar(labelRelease); ok {
		if t, ok := normalize.Date(v); ok {
			rec.ReleaseDate = &t
		}
	}
	if v, ok := src.Scalar(labelClosing); ok {
		if t, ok := normalize.Date(v); ok {
			rec.ClosingDate = &t
		}
	}
	if v, ok := src.Scalar(labelRuntime); ok {
		if n, ok := normalize.Runtime(v); ok {
			rec.RuntimeMinutes = &n
		}
	}
	if vs, ok := src.Entities(labelDirectors); ok {
		rec.Directors = normalize.People(vs)
	}
	if vs, ok := src.Entities(labelWriters); ok {
		rec.Writers = normalize.People(vs)
	}
	if vs, ok := src.Entities(labelActors); ok {
		rec.Actors = normalize.People(vs)
	}
	if vs, ok := src.Entities(labelProducers); ok {
		rec.Producers = normalize.People(vs)
	}

	a.log.Debug("record assembled",
		zap.String("url", sourceURL),
		zap.String("title", rec.Title))
	return rec
}

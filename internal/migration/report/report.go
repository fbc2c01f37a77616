// Package report renders the end-of-run summary for operator review.
package report

import (
	"fmt"
	"io"

	"github.com/farhadk/rms/internal/migration/engine"
)

// maxListed caps how many skip and error entries the report prints in full.
const maxListed = 10

type Emitter struct {
	w io.Writer
}

func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Emit writes the run totals followed by the first entries of the skip and
// error lists. Output is deterministic for a given RunStatistics value.
func (e *Emitter) Emit(stats *engine.RunStatistics) error {
	var err error
	p := func(format string, args ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(e.w, format, args...)
	}

	p("migration run %s\n", stats.RunID)
	p("total records:         %d\n", stats.Total)
	p("companies created:     %d\n", stats.Migrated)
	p("owners created:        %d\n", stats.OwnersCreated)
	p("licenses created:      %d\n", stats.LicensesCreated)
	p("cancellations created: %d\n", stats.CancellationsCreated)
	p("skipped:               %d\n", stats.Skipped)
	p("failed:                %d\n", stats.Failed)

	if len(stats.Skips) > 0 {
		p("\nskips:\n")
		for i, skip := range stats.Skips {
			if i == maxListed {
				p("  ... and %d more\n", len(stats.Skips)-maxListed)
				break
			}
			p("  record %d: %s\n", skip.RecordID, skip.Reason)
		}
	}

	if len(stats.Errors) > 0 {
		p("\nerrors:\n")
		for i, entry := range stats.Errors {
			if i == maxListed {
				p("  ... and %d more\n", len(stats.Errors)-maxListed)
				break
			}
			p("  record %d: %s\n", entry.RecordID, entry.Message)
		}
	}

	return err
}

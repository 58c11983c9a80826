package bintree

import (
	"fmt"
	"strings"

	"github.com/jbrowse-go/bintree/region"
)

// TreeError is an error type for the bintree module, mirroring the
// teacher's CordError: a string constant that also satisfies error.
type TreeError string

func (e TreeError) Error() string { return string(e) }

// ErrUnknownChromosome is returned when an operation names a chromosome the
// tree has never been told the covering range of.
const ErrUnknownChromosome = TreeError("bintree: unknown chromosome")

// ErrIllegalArguments is flagged whenever function parameters are invalid.
const ErrIllegalArguments = TreeError("bintree: illegal arguments")

// insertFailure records one batch's failure inside an AggregatedInsertError.
type insertFailure struct {
	chr      string
	rng      region.Range
	err      error
	offenders []region.Region // first three entries of the failing batch
}

// AggregatedInsertError collects the per-batch failures from a single
// IntervalTree.Insert call: one message per failing sub-range, each naming
// the first three offending entries, so a caller inserting many
// chromosomes' worth of data in one call sees every failure rather than
// just the first.
type AggregatedInsertError struct {
	Failures []insertFailure
}

func (e *AggregatedInsertError) add(chr string, rng region.Range, data []region.Region, err error) {
	n := len(data)
	if n > 3 {
		n = 3
	}
	e.Failures = append(e.Failures, insertFailure{
		chr:       chr,
		rng:       rng,
		err:       err,
		offenders: append([]region.Region(nil), data[:n]...),
	})
}

func (e *AggregatedInsertError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "bintree: %d batch(es) failed to insert:", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "\n  %s%s: %v (first entries: %v)", f.chr, f.rng, f.err, f.offenders)
	}
	return b.String()
}

// Unwrap exposes the first failure so errors.Is/As can still match a
// sentinel carried by one of the batch errors.
func (e *AggregatedInsertError) Unwrap() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[0].err
}

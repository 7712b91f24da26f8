// Package prob provides weighted outcome tables with deterministic sampling.
//
// Tables are built from labeled weights, rescaled so their weights sum to
// exactly 100, and sampled by cumulative-weight selection against an injected
// random source. Given the same table and the same *rand.Rand state, Sample
// always produces the same label.
package prob

import (
	"fmt"
	"math/rand"

	apperrors "github.com/samlindsay4/cricket-game/internal/errors"
)

var (
	// ErrEmptyTable indicates a table with no entries.
	ErrEmptyTable = apperrors.New(apperrors.CodeProbEmptyTable, "probability table is empty")
	// ErrNonPositiveTotal indicates the table weights sum to zero or less.
	ErrNonPositiveTotal = apperrors.New(apperrors.CodeProbNonPositiveTotal, "probability table total is not positive")
)

// NormalizedTotal is the total weight of a normalized table.
const NormalizedTotal = 100.0

// Entry is one labeled weight in a table.
type Entry struct {
	Label  string
	Weight float64
}

// Table is an ordered set of labeled weights.
//
// Entry order is significant: Sample walks entries in insertion order, and the
// first entry doubles as the floating-point drift fallback.
type Table struct {
	entries []Entry
}

// NewTable creates a table from the provided entries. Entry order is kept.
func NewTable(entries ...Entry) *Table {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return &Table{entries: copied}
}

// Scale multiplies the weight of the entry with the given label.
// Unknown labels are ignored. Negative results clamp to zero.
func (t *Table) Scale(label string, factor float64) {
	for i := range t.entries {
		if t.entries[i].Label != label {
			continue
		}
		t.entries[i].Weight *= factor
		if t.entries[i].Weight < 0 {
			t.entries[i].Weight = 0
		}
		return
	}
}

// ScaleEach multiplies the weights of every listed label by factor.
func (t *Table) ScaleEach(labels []string, factor float64) {
	for _, label := range labels {
		t.Scale(label, factor)
	}
}

// Weight returns the current weight of the entry with the given label,
// or zero when the label is unknown.
func (t *Table) Weight(label string) float64 {
	for _, entry := range t.entries {
		if entry.Label == label {
			return entry.Weight
		}
	}
	return 0
}

// Total returns the sum of all weights.
func (t *Table) Total() float64 {
	total := 0.0
	for _, entry := range t.entries {
		total += entry.Weight
	}
	return total
}

// Normalize rescales all weights proportionally so they sum to exactly 100.
func (t *Table) Normalize() error {
	if len(t.entries) == 0 {
		return ErrEmptyTable
	}
	total := t.Total()
	if total <= 0 {
		return ErrNonPositiveTotal
	}
	for i := range t.entries {
		t.entries[i].Weight = t.entries[i].Weight / total * NormalizedTotal
	}
	return nil
}

// Sample selects one label by cumulative-weight selection.
//
// The table must be normalized first. If floating-point drift leaves the
// cumulative sum short of the draw, the first entry's label is returned.
func (t *Table) Sample(rng *rand.Rand) (string, error) {
	if rng == nil {
		panic("prob: rng is required")
	}
	if len(t.entries) == 0 {
		return "", ErrEmptyTable
	}

	draw := rng.Float64() * NormalizedTotal
	cumulative := 0.0
	for _, entry := range t.entries {
		cumulative += entry.Weight
		if draw < cumulative {
			return entry.Label, nil
		}
	}
	return t.entries[0].Label, nil
}

// Entries returns a copy of the table entries, useful for diagnostics.
func (t *Table) Entries() []Entry {
	copied := make([]Entry, len(t.entries))
	copy(copied, t.entries)
	return copied
}

// String renders the table for debugging.
func (t *Table) String() string {
	out := ""
	for i, entry := range t.entries {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%.2f", entry.Label, entry.Weight)
	}
	return out
}

package importer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"finance-app/internal/models"
)

const maxInvalidAmountSamples = 5

// validateRecords runs the advisory checks over every record. It never fails;
// each problem class yields at most one warning.
func validateRecords(records []rawRecord) []string {
	var (
		warnings       []string
		badAmounts     []string
		badAmountCount int
		badCurrencies  = newOrderedSet()
		badDirections  = newOrderedSet()
		blanks         = make(map[string]int, len(criticalColumns))
	)

	for _, rec := range records {
		for _, col := range criticalColumns {
			if rec.field(col) == "" {
				blanks[col]++
			}
		}

		if rec.amount != "" {
			if _, ok := parseAmount(rec.amount); !ok {
				badAmountCount++
				if len(badAmounts) < maxInvalidAmountSamples {
					badAmounts = append(badAmounts, rec.amount)
				}
			}
		}

		if rec.currency != "" && utf8.RuneCountInString(rec.currency) != 3 {
			badCurrencies.add(rec.currency)
		}

		if rec.direction != "" && !models.IsValidDirection(mapDirection(rec.direction)) {
			badDirections.add(rec.direction)
		}
	}

	if badAmountCount > 0 {
		warnings = append(warnings, fmt.Sprintf("%s column contains %d non-numeric values: %s",
			ColAmount, badAmountCount, strings.Join(badAmounts, ", ")))
	}
	if badCurrencies.len() > 0 {
		warnings = append(warnings, fmt.Sprintf("Invalid currency codes: %s", strings.Join(badCurrencies.items, ", ")))
	}
	if badDirections.len() > 0 {
		warnings = append(warnings, fmt.Sprintf("Invalid %s values: %s (expected %s or %s)",
			ColDirection, strings.Join(badDirections.items, ", "), DirectionLabelIncoming, DirectionLabelOutgoing))
	}
	for _, col := range criticalColumns {
		if n := blanks[col]; n > 0 {
			warnings = append(warnings, fmt.Sprintf("%s column has %d empty values", col, n))
		}
	}

	return warnings
}

// orderedSet keeps distinct values in first-seen order
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) len() int {
	return len(s.items)
}

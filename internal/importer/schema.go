package importer

import (
	"fmt"
	"strings"
)

// SchemaReport is the structural verdict on a table header
type SchemaReport struct {
	Missing []string
	Unknown []string
}

// ValidateSchema checks the header against the required column set.
// Labels are compared after trimming surrounding whitespace.
func ValidateSchema(header []string) SchemaReport {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}

	required := make(map[string]bool, len(RequiredColumns))
	var report SchemaReport
	for _, col := range RequiredColumns {
		required[col] = true
		if !present[col] {
			report.Missing = append(report.Missing, col)
		}
	}

	seen := make(map[string]bool)
	for _, h := range header {
		label := strings.TrimSpace(h)
		if label == "" || required[label] || seen[label] {
			continue
		}
		seen[label] = true
		report.Unknown = append(report.Unknown, label)
	}

	return report
}

// Valid reports whether every required column is present
func (r SchemaReport) Valid() bool {
	return len(r.Missing) == 0
}

// Errors returns the structural errors; empty when the header is usable
func (r SchemaReport) Errors() []string {
	if r.Valid() {
		return nil
	}
	return []string{fmt.Sprintf("Missing required columns: %s", strings.Join(r.Missing, ", "))}
}

// Warnings returns the informational messages about the header
func (r SchemaReport) Warnings() []string {
	if len(r.Unknown) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("Unknown columns ignored: %s", strings.Join(r.Unknown, ", "))}
}
